package flowchart

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus tracks where a chart is in its review cycle.
type ApprovalStatus string

// Approval states.
const (
	ApprovalDraft    ApprovalStatus = "draft"
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Valid reports whether a is a known approval status.
func (a ApprovalStatus) Valid() bool {
	switch a {
	case ApprovalDraft, ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// Metadata describes a flowchart as a whole. LastModified is bumped by
// the store on every structural or content mutation.
type Metadata struct {
	ID             string
	Title          string
	Description    string
	Version        string
	Author         string
	LastModified   time.Time
	Tags           []string
	Department     string
	ApprovalStatus ApprovalStatus
	Approver       string
	ApprovalDate   *time.Time
}

// Clone returns a deep copy of the metadata.
func (m Metadata) Clone() Metadata {
	out := m
	if m.Tags != nil {
		out.Tags = make([]string, len(m.Tags))
		copy(out.Tags, m.Tags)
	}
	if m.ApprovalDate != nil {
		d := *m.ApprovalDate
		out.ApprovalDate = &d
	}
	return out
}

// MetadataUpdate is a partial update for chart metadata.
// Nil fields are left unchanged.
type MetadataUpdate struct {
	Title          *string
	Description    *string
	Version        *string
	Author         *string
	Tags           []string // nil = unchanged
	Department     *string
	ApprovalStatus *ApprovalStatus
	Approver       *string
	ApprovalDate   *time.Time
}

// apply merges the update into the metadata in place.
func (u MetadataUpdate) apply(m *Metadata) {
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.Version != nil {
		m.Version = *u.Version
	}
	if u.Author != nil {
		m.Author = *u.Author
	}
	if u.Tags != nil {
		m.Tags = make([]string, len(u.Tags))
		copy(m.Tags, u.Tags)
	}
	if u.Department != nil {
		m.Department = *u.Department
	}
	if u.ApprovalStatus != nil {
		m.ApprovalStatus = *u.ApprovalStatus
	}
	if u.Approver != nil {
		m.Approver = *u.Approver
	}
	if u.ApprovalDate != nil {
		d := *u.ApprovalDate
		m.ApprovalDate = &d
	}
}

// Document is the complete persisted state of one flowchart: the node
// and edge collections (slice order is insertion order, which doubles
// as z-order for nodes) plus chart metadata.
//
// Transient editor state such as the current selection or the active
// connector style lives on the Store, not here, so snapshots and
// serialization never have to strip it out.
type Document struct {
	Nodes    []Node
	Edges    []Edge
	Metadata Metadata
}

// NewDocument returns a fresh default document: a single terminator
// "Start" node and no edges.
func NewDocument() *Document {
	id := uuid.NewString()
	return &Document{
		Nodes: []Node{
			{
				ID:          id,
				Shape:       ShapeTerminator,
				Position:    Position{X: 250, Y: 50},
				Label:       "Start",
				Description: "Entry point of the flowchart",
				Business: &BusinessAttributes{
					Priority: PriorityMedium,
					Status:   StatusDraft,
				},
			},
		},
		Edges:    nil,
		Metadata: NewMetadata(),
	}
}

// NewMetadata returns default metadata with a fresh id.
func NewMetadata() Metadata {
	return Metadata{
		ID:             uuid.NewString(),
		Title:          "New flowchart",
		Version:        "1.0.0",
		Author:         "user",
		LastModified:   time.Now().UTC(),
		Tags:           []string{},
		ApprovalStatus: ApprovalDraft,
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Nodes:    make([]Node, len(d.Nodes)),
		Edges:    make([]Edge, len(d.Edges)),
		Metadata: d.Metadata.Clone(),
	}
	for i, n := range d.Nodes {
		out.Nodes[i] = n.Clone()
	}
	for i, e := range d.Edges {
		out.Edges[i] = e.Clone()
	}
	return out
}

// Node returns the node with the given id, if present.
func (d *Document) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Edge returns the edge with the given id, if present.
func (d *Document) Edge(id string) (Edge, bool) {
	for _, e := range d.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}
