// Package persist provides persistence adapters that store flowchart
// documents keyed by project id.
package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/randalmurphal/flowchart/pkg/flowchart"
)

// Adapter stores one document per project id.
// Implementations must be safe for concurrent use.
type Adapter interface {
	// Load retrieves the document for a project.
	// Returns ErrNotFound if the project has no saved document.
	Load(ctx context.Context, projectID string) (*flowchart.Document, error)

	// Save stores the document for a project.
	// Overwrites any previously saved document.
	Save(ctx context.Context, projectID string, doc *flowchart.Document) error

	// Delete removes a project's saved document.
	// Returns nil if the project has no saved document.
	Delete(ctx context.Context, projectID string) error

	// List returns metadata for all saved projects, most recently
	// saved first. Returns an empty slice (not an error) when nothing
	// has been saved.
	List(ctx context.Context) ([]Info, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides saved-project metadata without loading the document.
type Info struct {
	ProjectID string
	Title     string
	SavedAt   time.Time
	Size      int64
}

// Sentinel errors for adapter operations.
var (
	// ErrNotFound indicates a project has no saved document.
	ErrNotFound = errors.New("project not found")

	// ErrAdapterClosed indicates the adapter has been closed.
	ErrAdapterClosed = errors.New("persistence adapter closed")
)

// PersistError wraps a storage failure with the operation and project
// it happened on. Sentinel conditions (ErrNotFound, ErrAdapterClosed)
// are returned bare, not wrapped.
type PersistError struct {
	// Op is the adapter operation that failed: "load", "save",
	// "delete", or "list".
	Op string
	// ProjectID is the project involved, empty for List.
	ProjectID string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *PersistError) Error() string {
	if e.ProjectID == "" {
		return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("persist %s %s: %v", e.Op, e.ProjectID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *PersistError) Unwrap() error {
	return e.Err
}
