package flowchart

// Shape identifies the flowchart symbol a node is drawn as.
// The underlying values match the wire format used by the JSON
// export, so documents exchanged with other tools keep their shapes.
type Shape string

// Supported node shapes.
const (
	// ShapeProcess is a plain processing step (rectangle).
	ShapeProcess Shape = "rectangle"

	// ShapeDecision is a conditional branch (diamond). Decision nodes
	// are expected to have at least two outgoing edges.
	ShapeDecision Shape = "diamond"

	// ShapeInputOutput is a data input/output step (parallelogram).
	ShapeInputOutput Shape = "parallelogram"

	// ShapeTerminator is a start or end point. Flow validation uses
	// terminators to find the entry and exit of a chart.
	ShapeTerminator Shape = "startEnd"

	// ShapePredefinedProcess references a process defined elsewhere.
	ShapePredefinedProcess Shape = "predefinedProcess"

	// ShapeDocument represents a produced or consumed document.
	ShapeDocument Shape = "document"

	// ShapeGeneric is a free-form node with no flowchart semantics.
	ShapeGeneric Shape = "custom"
)

// Valid reports whether s is a known shape.
func (s Shape) Valid() bool {
	switch s {
	case ShapeProcess, ShapeDecision, ShapeInputOutput, ShapeTerminator,
		ShapePredefinedProcess, ShapeDocument, ShapeGeneric:
		return true
	}
	return false
}

// Priority ranks how important a step is to the overall process.
type Priority string

// Priority levels, lowest to highest.
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Status tracks the completion state of a step.
type Status string

// Step statuses.
const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on-hold"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether st is a known status.
func (st Status) Valid() bool {
	switch st {
	case StatusDraft, StatusInProgress, StatusCompleted, StatusOnHold, StatusCancelled:
		return true
	}
	return false
}

// Position is a node's location on the canvas.
type Position struct {
	X float64
	Y float64
}

// BusinessAttributes is optional per-node process metadata.
// All fields are optional; zero values mean "not set", except
// EstimatedTime which uses a pointer so an explicit zero can be
// distinguished from absence.
type BusinessAttributes struct {
	Owner         string
	Department    string
	EstimatedTime *float64 // minutes
	Priority      Priority
	Status        Status
	DueDate       string // date string, e.g. "2026-01-31"
	Tags          []string
	Notes         string
}

// Clone returns a deep copy of the attributes.
func (b *BusinessAttributes) Clone() *BusinessAttributes {
	if b == nil {
		return nil
	}
	out := *b
	if b.EstimatedTime != nil {
		t := *b.EstimatedTime
		out.EstimatedTime = &t
	}
	if b.Tags != nil {
		out.Tags = make([]string, len(b.Tags))
		copy(out.Tags, b.Tags)
	}
	return &out
}

// Node is one step in a flowchart. The ID is assigned at creation and
// never changes; everything else is free to mutate through the store.
type Node struct {
	ID          string
	Shape       Shape
	Position    Position
	Label       string
	Description string
	File        string // attached file name, empty if none
	Business    *BusinessAttributes
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	out := n
	out.Business = n.Business.Clone()
	return out
}

// NodeUpdate is a partial update for a node. Nil fields are left
// unchanged; the business attributes update is itself merged field
// by field so setting one attribute does not erase its siblings.
type NodeUpdate struct {
	Shape       *Shape
	Position    *Position
	Label       *string
	Description *string
	File        *string
	Business    *BusinessUpdate
}

// BusinessUpdate is a partial update for business attributes.
type BusinessUpdate struct {
	Owner         *string
	Department    *string
	EstimatedTime *float64
	Priority      *Priority
	Status        *Status
	DueDate       *string
	Tags          []string // nil = unchanged
	Notes         *string
}

// apply merges the update into the node in place.
func (u NodeUpdate) apply(n *Node) {
	if u.Shape != nil {
		n.Shape = *u.Shape
	}
	if u.Position != nil {
		n.Position = *u.Position
	}
	if u.Label != nil {
		n.Label = *u.Label
	}
	if u.Description != nil {
		n.Description = *u.Description
	}
	if u.File != nil {
		n.File = *u.File
	}
	if u.Business != nil {
		if n.Business == nil {
			n.Business = &BusinessAttributes{}
		}
		u.Business.apply(n.Business)
	}
}

// apply merges the update into existing attributes in place.
func (u BusinessUpdate) apply(b *BusinessAttributes) {
	if u.Owner != nil {
		b.Owner = *u.Owner
	}
	if u.Department != nil {
		b.Department = *u.Department
	}
	if u.EstimatedTime != nil {
		t := *u.EstimatedTime
		b.EstimatedTime = &t
	}
	if u.Priority != nil {
		b.Priority = *u.Priority
	}
	if u.Status != nil {
		b.Status = *u.Status
	}
	if u.DueDate != nil {
		b.DueDate = *u.DueDate
	}
	if u.Tags != nil {
		b.Tags = make([]string, len(u.Tags))
		copy(b.Tags, u.Tags)
	}
	if u.Notes != nil {
		b.Notes = *u.Notes
	}
}
