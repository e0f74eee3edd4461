package flowchart

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/flowchart/pkg/flowchart/observability"
)

// Persister stores documents keyed by project id. The persist package
// provides in-memory and SQLite implementations.
type Persister interface {
	// Load retrieves the document for a project.
	Load(ctx context.Context, projectID string) (*Document, error)

	// Save stores the document for a project, overwriting any previous one.
	Save(ctx context.Context, projectID string, doc *Document) error
}

// LoadProject loads a project's document through the adapter and swaps
// it in via ReplaceDocument. On failure the store is left untouched and
// stays editable.
func (s *Store) LoadProject(ctx context.Context, p Persister, projectID string) error {
	done := observability.TimedOperation()
	ctx, span := s.spans.StartPersistSpan(ctx, "load", projectID)

	doc, err := p.Load(ctx, projectID)
	if err == nil {
		s.spans.AddSpanEvent(ctx, "document loaded",
			attribute.Int("nodes", len(doc.Nodes)),
			attribute.Int("edges", len(doc.Edges)))
	}

	s.spans.EndSpanWithError(span, err)
	elapsed := done()
	s.metrics.RecordPersistence(ctx, "load", time.Duration(elapsed*float64(time.Millisecond)), err)
	if err != nil {
		observability.LogPersistenceError(s.logger, "load", projectID, err)
		return err
	}
	observability.LogPersistence(s.logger, "load", projectID, elapsed)

	s.ReplaceDocument(doc)
	return nil
}

// SaveProject saves the current document through the adapter. The
// in-memory document is the source of truth regardless of outcome; a
// failed save changes nothing in the store.
func (s *Store) SaveProject(ctx context.Context, p Persister, projectID string) error {
	done := observability.TimedOperation()
	ctx, span := s.spans.StartPersistSpan(ctx, "save", projectID)

	err := p.Save(ctx, projectID, s.Document())

	s.spans.EndSpanWithError(span, err)
	elapsed := done()
	s.metrics.RecordPersistence(ctx, "save", time.Duration(elapsed*float64(time.Millisecond)), err)
	if err != nil {
		observability.LogPersistenceError(s.logger, "save", projectID, err)
		return err
	}
	observability.LogPersistence(s.logger, "save", projectID, elapsed)
	return nil
}
