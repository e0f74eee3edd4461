package flowchart

import (
	"fmt"
	"time"
)

// Test helpers shared across store, history, and statistics tests.

// sequentialIDs returns an id generator producing "id-1", "id-2", ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// fixedClock returns a clock stuck at a known instant.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// newTestStore builds a store with deterministic ids and clock.
func newTestStore(opts ...Option) *Store {
	base := []Option{
		WithIDGenerator(sequentialIDs()),
		WithClock(fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))),
	}
	return NewStore(append(base, opts...)...)
}

// minutes is shorthand for an estimated-time pointer.
func minutes(m float64) *float64 {
	return &m
}

// timedNode adds a process node with the given estimated minutes and
// returns its id.
func timedNode(s *Store, label string, mins float64) string {
	id := s.AddNode(ShapeProcess, 0, 0)
	s.UpdateNodeData(id, NodeUpdate{
		Label:    &label,
		Business: &BusinessUpdate{EstimatedTime: minutes(mins)},
	})
	return id
}

// strPtr returns a pointer to s.
func strPtr(s string) *string { return &s }

// diagnosticIDs projects diagnostics to their ids.
func diagnosticIDs(diags []Diagnostic) []string {
	ids := make([]string, len(diags))
	for i, d := range diags {
		ids[i] = d.ID
	}
	return ids
}
