package flowchart

// NodeHandle is a render-time view of a node: the node's current data
// plus an on-change callback bound to its id. Editing components call
// OnChange to report field edits without holding a store reference.
//
// Handles are synthesized on every call and are never part of the
// document, the history snapshots, or the serialized form. The callback
// closes over the node id only, so a handle obtained before an undo or
// a document replacement still routes to the right node (or degrades to
// a no-op if the node is gone).
type NodeHandle struct {
	Node     Node
	OnChange func(NodeUpdate)
}

// NodeHandle returns a handle for the node, if it exists.
func (s *Store) NodeHandle(id string) (NodeHandle, bool) {
	idx := s.nodeIndex(id)
	if idx < 0 {
		return NodeHandle{}, false
	}
	return s.handleFor(s.doc.Nodes[idx]), true
}

// NodeHandles returns handles for every node in z-order, ready for a
// render pass.
func (s *Store) NodeHandles() []NodeHandle {
	handles := make([]NodeHandle, len(s.doc.Nodes))
	for i, n := range s.doc.Nodes {
		handles[i] = s.handleFor(n)
	}
	return handles
}

func (s *Store) handleFor(n Node) NodeHandle {
	id := n.ID
	return NodeHandle{
		Node: n.Clone(),
		OnChange: func(update NodeUpdate) {
			s.UpdateNodeData(id, update)
		},
	}
}
