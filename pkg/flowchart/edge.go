package flowchart

// ConnectorStyle selects how an edge is routed when rendered.
type ConnectorStyle string

// Supported connector styles.
const (
	StyleStep       ConnectorStyle = "step"
	StyleBezier     ConnectorStyle = "bezier"
	StyleStraight   ConnectorStyle = "straight"
	StyleSmoothstep ConnectorStyle = "smoothstep"
	StyleDashed     ConnectorStyle = "dashed"
)

// DefaultStyle is the connector style applied to new edges unless the
// store has been told otherwise.
const DefaultStyle = StyleStep

// Valid reports whether c is a known connector style.
func (c ConnectorStyle) Valid() bool {
	switch c {
	case StyleStep, StyleBezier, StyleStraight, StyleSmoothstep, StyleDashed:
		return true
	}
	return false
}

// Edge is a directed connector between two nodes.
// Source and Target hold node IDs; the validator reports edges whose
// endpoints no longer exist instead of the store rejecting them.
type Edge struct {
	ID          string
	Source      string
	Target      string
	Style       ConnectorStyle
	Label       string
	Condition   string   // branch condition, for edges leaving a decision
	Probability *float64 // 0-100, optional
	Description string
}

// Clone returns a deep copy of the edge.
func (e Edge) Clone() Edge {
	out := e
	if e.Probability != nil {
		p := *e.Probability
		out.Probability = &p
	}
	return out
}

// EdgeUpdate is a partial update for an edge. Nil fields are left
// unchanged. Source, target and ID cannot be updated; delete the edge
// and connect again instead.
type EdgeUpdate struct {
	Style       *ConnectorStyle
	Label       *string
	Condition   *string
	Probability *float64
	Description *string
}

// apply merges the update into the edge in place.
func (u EdgeUpdate) apply(e *Edge) {
	if u.Style != nil {
		e.Style = *u.Style
	}
	if u.Label != nil {
		e.Label = *u.Label
	}
	if u.Condition != nil {
		e.Condition = *u.Condition
	}
	if u.Probability != nil {
		p := *u.Probability
		e.Probability = &p
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
}
