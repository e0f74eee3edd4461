package flowchart

import (
	"context"

	"github.com/randalmurphal/flowchart/pkg/flowchart/observability"
)

// history is a linear undo/redo stack over document snapshots.
// Snapshots cover nodes, edges, and metadata only; selection, the
// active connector style, and diagnostics are transient editor state
// and are re-derived after a restore.
type history struct {
	past   []*Document // oldest first
	future []*Document // most recent undo first
	limit  int         // 0 = unbounded
}

// push records the pre-mutation snapshot and discards any redo branch.
func (h *history) push(current *Document) {
	h.past = append(h.past, current.Clone())
	h.future = nil
	if h.limit > 0 && len(h.past) > h.limit {
		h.past = h.past[len(h.past)-h.limit:]
	}
}

// undo pops the most recent snapshot, pushing current onto the redo
// stack. Returns false if there is nothing to undo.
func (h *history) undo(current *Document) (*Document, bool) {
	if len(h.past) == 0 {
		return nil, false
	}
	snap := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, current.Clone())
	return snap, true
}

// redo pops the most recent undone snapshot, pushing current back onto
// the undo stack. Returns false if there is nothing to redo.
func (h *history) redo(current *Document) (*Document, bool) {
	if len(h.future) == 0 {
		return nil, false
	}
	snap := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, current.Clone())
	return snap, true
}

// reset drops both stacks, as happens on project switch.
func (h *history) reset() {
	h.past = nil
	h.future = nil
}

// Undo restores the document to its state before the most recent
// structural mutation. No-op when there is nothing to undo.
// The restored document is re-validated; the modification timestamp
// comes back with the snapshot and is not bumped.
func (s *Store) Undo() bool {
	snap, ok := s.hist.undo(s.doc)
	if !ok {
		return false
	}
	s.restore(snap, "undo")
	return true
}

// Redo reverses the most recent Undo. No-op when there is nothing to
// redo; any structural mutation after an Undo discards the redo branch.
func (s *Store) Redo() bool {
	snap, ok := s.hist.redo(s.doc)
	if !ok {
		return false
	}
	s.restore(snap, "redo")
	return true
}

// CanUndo reports whether an Undo would restore anything.
func (s *Store) CanUndo() bool { return len(s.hist.past) > 0 }

// CanRedo reports whether a Redo would restore anything.
func (s *Store) CanRedo() bool { return len(s.hist.future) > 0 }

// restore swaps in a history snapshot and re-derives dependent state.
func (s *Store) restore(snap *Document, op string) {
	s.doc = snap
	if s.selected != "" && s.nodeIndex(s.selected) < 0 {
		s.selected = ""
	}
	s.revalidate(true)
	observability.LogHistory(s.logger, op, len(s.hist.past), len(s.hist.future))
	s.metrics.RecordHistory(context.Background(), op)
	s.notify(Change{Kind: ChangeHistory})
}
