package flowchart

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/flowchart/pkg/flowchart/observability"
)

// ChangeKind identifies which part of the store a notification is about.
type ChangeKind string

// Notification kinds published to subscribers.
const (
	ChangeNodes       ChangeKind = "nodes"
	ChangeEdges       ChangeKind = "edges"
	ChangeMetadata    ChangeKind = "metadata"
	ChangeSelection   ChangeKind = "selection"
	ChangeStyle       ChangeKind = "style"
	ChangeDiagnostics ChangeKind = "diagnostics"
	ChangeDocument    ChangeKind = "document"
	ChangeHistory     ChangeKind = "history"
)

// Change describes one store notification. NodeID or EdgeID is set when
// the change is scoped to a single element.
type Change struct {
	Kind   ChangeKind
	NodeID string
	EdgeID string
}

// Store is the stateful flowchart engine. It owns the current Document,
// applies mutations, recomputes validation diagnostics after structural
// changes, records undo/redo history, and notifies subscribers.
//
// Store is single-threaded by design: all operations are synchronous
// and run to completion within one caller turn, matching a cooperative
// UI event loop. It must not be shared across goroutines without
// external coordination. The only asynchronous boundaries are the
// persistence adapter and flow generation, whose results re-enter the
// store through ReplaceDocument.
//
// Mutations that reference an unknown node or edge id are silent
// no-ops. The UI only issues ids it obtained from the store, so this
// path is never hit in normal operation; see NodeHandle for the
// supported way to route edits back by id.
type Store struct {
	doc         *Document
	activeStyle ConnectorStyle
	selected    string

	diagnostics       []Diagnostic
	validationEnabled bool

	hist history

	subscribers map[int]func(Change)
	nextSubID   int

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	now     func() time.Time
	newID   func() string
	author  string
}

// NewStore creates a store holding a fresh default document
// (one terminator "Start" node, no edges).
func NewStore(opts ...Option) *Store {
	s := &Store{
		activeStyle:       DefaultStyle,
		validationEnabled: true,
		subscribers:       make(map[int]func(Change)),
		metrics:           observability.NoopMetrics{},
		spans:             observability.NoopSpanManager{},
		now:               func() time.Time { return time.Now().UTC() },
		newID:             uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.doc = NewDocument()
	if s.author != "" {
		s.doc.Metadata.Author = s.author
	}
	if s.hist.limit < 0 {
		s.hist.limit = 0
	}
	s.revalidate(true)
	return s
}

// Subscribe registers fn to be called synchronously after every store
// change. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() { delete(s.subscribers, id) }
}

// notify publishes a change to all subscribers.
func (s *Store) notify(c Change) {
	for _, fn := range s.subscribers {
		fn(c)
	}
}

// Document returns a deep copy of the current document. Callers must
// route all changes through store operations; mutating the copy has no
// effect on the store.
func (s *Store) Document() *Document {
	return s.doc.Clone()
}

// Nodes returns a deep copy of the node collection in z-order.
func (s *Store) Nodes() []Node {
	out := make([]Node, len(s.doc.Nodes))
	for i, n := range s.doc.Nodes {
		out[i] = n.Clone()
	}
	return out
}

// Edges returns a deep copy of the edge collection in insertion order.
func (s *Store) Edges() []Edge {
	out := make([]Edge, len(s.doc.Edges))
	for i, e := range s.doc.Edges {
		out[i] = e.Clone()
	}
	return out
}

// Metadata returns a copy of the chart metadata.
func (s *Store) Metadata() Metadata {
	return s.doc.Metadata.Clone()
}

// Diagnostics returns the diagnostics from the most recent validation pass.
func (s *Store) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(s.diagnostics))
	copy(out, s.diagnostics)
	return out
}

// AddNode creates a node of the given shape at (x, y) and returns its id.
// New nodes are appended, so they render on top of existing ones.
func (s *Store) AddNode(shape Shape, x, y float64) string {
	s.hist.push(s.doc)
	node := Node{
		ID:       s.newID(),
		Shape:    shape,
		Position: Position{X: x, Y: y},
		Label:    "new node",
		Business: &BusinessAttributes{
			Priority: PriorityMedium,
			Status:   StatusDraft,
		},
	}
	s.doc.Nodes = append(s.doc.Nodes, node)
	s.afterMutation("add_node", Change{Kind: ChangeNodes, NodeID: node.ID}, true)
	return node.ID
}

// UpdateNodeData merges a partial update into the node. The business
// attributes update is itself merged attribute by attribute, so setting
// one attribute leaves its siblings intact. Unknown ids are a no-op.
func (s *Store) UpdateNodeData(nodeID string, update NodeUpdate) {
	idx := s.nodeIndex(nodeID)
	if idx < 0 {
		return
	}
	s.hist.push(s.doc)
	update.apply(&s.doc.Nodes[idx])
	s.afterMutation("update_node", Change{Kind: ChangeNodes, NodeID: nodeID}, true)
}

// RemoveNode removes the node and every edge that references it.
// Unknown ids are a no-op.
func (s *Store) RemoveNode(nodeID string) {
	if s.nodeIndex(nodeID) < 0 {
		return
	}
	s.hist.push(s.doc)
	s.removeNodeCascade(nodeID)
	s.afterMutation("remove_node", Change{Kind: ChangeNodes, NodeID: nodeID}, true)
}

// Connect creates an edge from source to target using the active
// connector style and returns the new edge id. Self-connections are
// allowed here; the validator flags them as warnings.
func (s *Store) Connect(sourceID, targetID string) string {
	s.hist.push(s.doc)
	edge := Edge{
		ID:     s.newID(),
		Source: sourceID,
		Target: targetID,
		Style:  s.activeStyle,
	}
	s.doc.Edges = append(s.doc.Edges, edge)
	s.afterMutation("connect", Change{Kind: ChangeEdges, EdgeID: edge.ID}, true)
	return edge.ID
}

// UpdateEdgeData merges a partial update into the edge.
// Unknown ids are a no-op.
func (s *Store) UpdateEdgeData(edgeID string, update EdgeUpdate) {
	idx := s.edgeIndex(edgeID)
	if idx < 0 {
		return
	}
	s.hist.push(s.doc)
	update.apply(&s.doc.Edges[idx])
	s.afterMutation("update_edge", Change{Kind: ChangeEdges, EdgeID: edgeID}, true)
}

// RemoveEdge removes the edge. Unknown ids are a no-op.
func (s *Store) RemoveEdge(edgeID string) {
	idx := s.edgeIndex(edgeID)
	if idx < 0 {
		return
	}
	s.hist.push(s.doc)
	s.doc.Edges = append(s.doc.Edges[:idx], s.doc.Edges[idx+1:]...)
	s.afterMutation("remove_edge", Change{Kind: ChangeEdges, EdgeID: edgeID}, true)
}

// UpdateMetadata merges a partial update into the chart metadata.
func (s *Store) UpdateMetadata(update MetadataUpdate) {
	s.hist.push(s.doc)
	update.apply(&s.doc.Metadata)
	s.doc.Metadata.LastModified = s.now()
	observability.LogMutation(s.logger, "update_metadata", s.doc.Metadata.ID, len(s.doc.Nodes), len(s.doc.Edges))
	s.metrics.RecordMutation(context.Background(), "update_metadata")
	s.notify(Change{Kind: ChangeMetadata})
}

// SetActiveConnectorStyle changes the style applied to edges created by
// future Connect calls. Existing edges are never restyled. This is
// cosmetic state: no timestamp bump, no history entry.
func (s *Store) SetActiveConnectorStyle(style ConnectorStyle) {
	s.activeStyle = style
	s.notify(Change{Kind: ChangeStyle})
}

// ActiveConnectorStyle returns the style applied to new edges.
func (s *Store) ActiveConnectorStyle() ConnectorStyle {
	return s.activeStyle
}

// SetSelectedNode tracks the UI selection. An empty id clears it.
// Selection is cosmetic state: excluded from history and persistence.
func (s *Store) SetSelectedNode(nodeID string) {
	s.selected = nodeID
	s.notify(Change{Kind: ChangeSelection, NodeID: nodeID})
}

// SelectedNode returns the selected node id, or "" if none.
func (s *Store) SelectedNode() string {
	return s.selected
}

// ReplaceDocument swaps in a new document wholesale, as happens when a
// project is loaded or a generated flow is applied. History is reset,
// the document is validated once, and the modification timestamp is set
// to now. A nil document is a no-op.
func (s *Store) ReplaceDocument(doc *Document) {
	if doc == nil {
		return
	}
	s.doc = doc.Clone()
	s.doc.Metadata.LastModified = s.now()
	s.selected = ""
	s.hist.reset()
	s.revalidate(true)
	observability.LogDocumentReplaced(s.logger, s.doc.Metadata.ID, len(s.doc.Nodes), len(s.doc.Edges))
	s.notify(Change{Kind: ChangeDocument})
}

// Reset replaces the document with an empty one under fresh metadata.
func (s *Store) Reset() {
	meta := NewMetadata()
	if s.author != "" {
		meta.Author = s.author
	}
	s.ReplaceDocument(&Document{Metadata: meta})
}

// Validate runs the full rule set now and stores the result, regardless
// of whether automatic validation is enabled.
func (s *Store) Validate() []Diagnostic {
	done := observability.TimedOperation()
	s.diagnostics = Validate(s.doc.Nodes, s.doc.Edges)
	elapsed := done()
	observability.LogValidation(s.logger, true, len(s.diagnostics), elapsed)
	s.metrics.RecordValidation(context.Background(), true, time.Duration(elapsed*float64(time.Millisecond)), len(s.diagnostics))
	s.notify(Change{Kind: ChangeDiagnostics})
	return s.Diagnostics()
}

// SetValidationEnabled toggles automatic validation after mutations.
// Enabling runs a full pass immediately; disabling clears diagnostics.
func (s *Store) SetValidationEnabled(enabled bool) {
	s.validationEnabled = enabled
	if enabled {
		s.Validate()
		return
	}
	s.ClearDiagnostics()
}

// ValidationEnabled reports whether automatic validation is on.
func (s *Store) ValidationEnabled() bool {
	return s.validationEnabled
}

// ClearDiagnostics discards the current diagnostic list.
func (s *Store) ClearDiagnostics() {
	s.diagnostics = nil
	s.notify(Change{Kind: ChangeDiagnostics})
}

// nodeIndex returns the index of the node with the given id, or -1.
func (s *Store) nodeIndex(id string) int {
	for i, n := range s.doc.Nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// edgeIndex returns the index of the edge with the given id, or -1.
func (s *Store) edgeIndex(id string) int {
	for i, e := range s.doc.Edges {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// removeNodeCascade deletes the node and all edges touching it.
func (s *Store) removeNodeCascade(nodeID string) {
	nodes := s.doc.Nodes[:0]
	for _, n := range s.doc.Nodes {
		if n.ID != nodeID {
			nodes = append(nodes, n)
		}
	}
	s.doc.Nodes = nodes

	edges := s.doc.Edges[:0]
	for _, e := range s.doc.Edges {
		if e.Source != nodeID && e.Target != nodeID {
			edges = append(edges, e)
		}
	}
	s.doc.Edges = edges

	if s.selected == nodeID {
		s.selected = ""
	}
}

// afterMutation runs the bookkeeping every structural mutation shares:
// timestamp bump, validation, logging, metrics, and notification.
// full selects the complete rule set over the realtime subset.
func (s *Store) afterMutation(op string, change Change, full bool) {
	s.doc.Metadata.LastModified = s.now()
	s.revalidate(full)
	observability.LogMutation(s.logger, op, change.NodeID+change.EdgeID, len(s.doc.Nodes), len(s.doc.Edges))
	s.metrics.RecordMutation(context.Background(), op)
	s.notify(change)
}

// revalidate recomputes diagnostics if automatic validation is enabled.
func (s *Store) revalidate(full bool) {
	if !s.validationEnabled {
		return
	}
	done := observability.TimedOperation()
	if full {
		s.diagnostics = Validate(s.doc.Nodes, s.doc.Edges)
	} else {
		s.diagnostics = ValidateRealtime(s.doc.Nodes, s.doc.Edges)
	}
	elapsed := done()
	observability.LogValidation(s.logger, full, len(s.diagnostics), elapsed)
	s.metrics.RecordValidation(context.Background(), full, time.Duration(elapsed*float64(time.Millisecond)), len(s.diagnostics))
	s.notify(Change{Kind: ChangeDiagnostics})
}
