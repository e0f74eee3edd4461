package persist

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/randalmurphal/flowchart/pkg/flowchart"
	"github.com/randalmurphal/flowchart/pkg/flowchart/export"
)

// MemoryAdapter is an in-memory adapter for testing.
// Data is lost when the process exits.
//
// Documents are stored in their encoded form so load/save exercise the
// same round trip as the durable adapters.
type MemoryAdapter struct {
	mu     sync.RWMutex
	data   map[string]storedDocument // projectID -> encoded document
	closed bool
}

// storedDocument holds an encoded document with metadata for List().
type storedDocument struct {
	blob    []byte
	title   string
	savedAt time.Time
}

// Compile-time interface checks.
var (
	_ Adapter             = (*MemoryAdapter)(nil)
	_ flowchart.Persister = (*MemoryAdapter)(nil)
)

// NewMemoryAdapter creates a new in-memory adapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		data: make(map[string]storedDocument),
	}
}

// Load implements Adapter.
func (m *MemoryAdapter) Load(_ context.Context, projectID string) (*flowchart.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrAdapterClosed
	}

	stored, ok := m.data[projectID]
	if !ok {
		return nil, ErrNotFound
	}

	return export.Decode(stored.blob)
}

// Save implements Adapter.
func (m *MemoryAdapter) Save(_ context.Context, projectID string, doc *flowchart.Document) error {
	blob, err := export.Encode(doc, nil)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrAdapterClosed
	}

	m.data[projectID] = storedDocument{
		blob:    blob,
		title:   doc.Metadata.Title,
		savedAt: time.Now().UTC(),
	}
	return nil
}

// Delete implements Adapter.
func (m *MemoryAdapter) Delete(_ context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrAdapterClosed
	}

	delete(m.data, projectID)
	return nil
}

// List implements Adapter.
func (m *MemoryAdapter) List(_ context.Context) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrAdapterClosed
	}

	infos := make([]Info, 0, len(m.data))
	for projectID, stored := range m.data {
		infos = append(infos, Info{
			ProjectID: projectID,
			Title:     stored.title,
			SavedAt:   stored.savedAt,
			Size:      int64(len(stored.blob)),
		})
	}

	// Most recently saved first
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].SavedAt.After(infos[j].SavedAt)
	})

	return infos, nil
}

// Close implements Adapter.
func (m *MemoryAdapter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

// Len returns the number of saved projects. Useful for testing.
func (m *MemoryAdapter) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
