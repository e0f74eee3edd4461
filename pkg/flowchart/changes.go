package flowchart

// NodeMove repositions one node.
type NodeMove struct {
	ID       string
	Position Position
}

// ChangeSet is a batch of structural changes representing one logical
// user gesture, such as a multi-select delete or a drag of several
// nodes at once. The presentation layer must batch such gestures into a
// single Apply call: the whole set is applied atomically with exactly
// one history entry, one timestamp bump, and one validation pass.
type ChangeSet struct {
	AddNodes    []Node
	AddEdges    []Edge
	MoveNodes   []NodeMove
	RemoveNodes []string
	RemoveEdges []string
}

// Empty reports whether the change set contains no changes.
func (c ChangeSet) Empty() bool {
	return len(c.AddNodes) == 0 && len(c.AddEdges) == 0 &&
		len(c.MoveNodes) == 0 && len(c.RemoveNodes) == 0 && len(c.RemoveEdges) == 0
}

// Apply applies the change set atomically. Removing a node cascades to
// its edges; moves and removals of unknown ids are skipped. Added nodes
// and edges missing an id get one assigned. Because this is the
// high-frequency drag path, Apply runs the lightweight realtime rule
// subset; use Validate for a full pass.
//
// An empty change set is a no-op and does not push history.
func (s *Store) Apply(cs ChangeSet) {
	if cs.Empty() {
		return
	}
	s.hist.push(s.doc)

	for _, n := range cs.AddNodes {
		if n.ID == "" {
			n.ID = s.newID()
		}
		s.doc.Nodes = append(s.doc.Nodes, n.Clone())
	}
	for _, e := range cs.AddEdges {
		if e.ID == "" {
			e.ID = s.newID()
		}
		if e.Style == "" {
			e.Style = s.activeStyle
		}
		s.doc.Edges = append(s.doc.Edges, e.Clone())
	}
	for _, m := range cs.MoveNodes {
		if idx := s.nodeIndex(m.ID); idx >= 0 {
			s.doc.Nodes[idx].Position = m.Position
		}
	}
	for _, id := range cs.RemoveNodes {
		s.removeNodeCascade(id)
	}
	for _, id := range cs.RemoveEdges {
		if idx := s.edgeIndex(id); idx >= 0 {
			s.doc.Edges = append(s.doc.Edges[:idx], s.doc.Edges[idx+1:]...)
		}
	}

	s.afterMutation("apply_changes", Change{Kind: ChangeDocument}, false)
}
