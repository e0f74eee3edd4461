// Package export serializes flowchart documents to and from the JSON
// interchange format used by the editor frontend.
//
// The envelope has three required top-level keys (metadata, nodes,
// edges) and an optional validationErrors list. Decode rejects
// envelopes missing a required key and never partially applies a bad
// import.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/flowchart/pkg/flowchart"
)

// ErrInvalidEnvelope indicates the JSON document is not a flowchart
// envelope: not an object, or missing metadata, nodes, or edges.
var ErrInvalidEnvelope = errors.New("invalid flowchart data format")

// wire format types

type wirePosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type wireBusiness struct {
	Owner         string   `json:"owner,omitempty"`
	Department    string   `json:"department,omitempty"`
	EstimatedTime *float64 `json:"estimatedTime,omitempty"`
	Priority      string   `json:"priority,omitempty"`
	Status        string   `json:"status,omitempty"`
	DueDate       string   `json:"dueDate,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

type wireNodeData struct {
	ID          string        `json:"id"`
	Shape       string        `json:"shape"`
	Label       string        `json:"label"`
	Description string        `json:"description"`
	File        *string       `json:"file"`
	Business    *wireBusiness `json:"businessAttributes,omitempty"`
}

type wireNode struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Position wirePosition `json:"position"`
	Data     wireNodeData `json:"data"`
}

type wireEdgeData struct {
	ID          string   `json:"id"`
	Label       string   `json:"label,omitempty"`
	Condition   string   `json:"condition,omitempty"`
	Probability *float64 `json:"probability,omitempty"`
	Description string   `json:"description,omitempty"`
}

type wireEdge struct {
	ID     string        `json:"id"`
	Source string        `json:"source"`
	Target string        `json:"target"`
	Type   string        `json:"type"`
	Label  string        `json:"label,omitempty"`
	Data   *wireEdgeData `json:"data,omitempty"`
}

type wireMetadata struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Version        string     `json:"version"`
	Author         string     `json:"author"`
	LastModified   time.Time  `json:"lastModified"`
	Tags           []string   `json:"tags"`
	Department     string     `json:"department,omitempty"`
	ApprovalStatus string     `json:"approvalStatus,omitempty"`
	Approver       string     `json:"approver,omitempty"`
	ApprovalDate   *time.Time `json:"approvalDate,omitempty"`
}

type wireDiagnostic struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Message string `json:"message"`
	NodeID  string `json:"nodeId,omitempty"`
	EdgeID  string `json:"edgeId,omitempty"`
}

type envelope struct {
	Metadata         wireMetadata     `json:"metadata"`
	Nodes            []wireNode       `json:"nodes"`
	Edges            []wireEdge       `json:"edges"`
	ValidationErrors []wireDiagnostic `json:"validationErrors,omitempty"`
}

// rawEnvelope distinguishes absent keys from empty ones during import.
type rawEnvelope struct {
	Metadata json.RawMessage `json:"metadata"`
	Nodes    json.RawMessage `json:"nodes"`
	Edges    json.RawMessage `json:"edges"`
}

// Encode serializes the document, with optional diagnostics, to the
// interchange JSON.
func Encode(doc *flowchart.Document, diags []flowchart.Diagnostic) ([]byte, error) {
	return json.MarshalIndent(toEnvelope(doc, diags), "", "  ")
}

// EncodeTo writes the interchange JSON to w.
func EncodeTo(w io.Writer, doc *flowchart.Document, diags []flowchart.Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toEnvelope(doc, diags))
}

// Decode parses interchange JSON into a document. The envelope must
// carry metadata, nodes, and edges; anything else fails with
// ErrInvalidEnvelope and nothing is applied.
func Decode(data []byte) (*flowchart.Document, error) {
	var raw rawEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if missingOrNull(raw.Metadata) || missingOrNull(raw.Nodes) || missingOrNull(raw.Edges) {
		return nil, fmt.Errorf("%w: metadata, nodes, and edges are required", ErrInvalidEnvelope)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	return fromEnvelope(&env), nil
}

// DecodeFrom parses interchange JSON from r.
func DecodeFrom(r io.Reader) (*flowchart.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read flowchart data: %w", err)
	}
	return Decode(data)
}

// Flow is a bare nodes/edges pair, the shape AI generation returns.
type Flow struct {
	Nodes []flowchart.Node
	Edges []flowchart.Edge
}

// DecodeFlow parses a {nodes, edges} payload without envelope metadata.
func DecodeFlow(data []byte) (*Flow, error) {
	var raw struct {
		Nodes json.RawMessage `json:"nodes"`
		Edges json.RawMessage `json:"edges"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if missingOrNull(raw.Nodes) || missingOrNull(raw.Edges) {
		return nil, fmt.Errorf("%w: nodes and edges are required", ErrInvalidEnvelope)
	}

	var payload struct {
		Nodes []wireNode `json:"nodes"`
		Edges []wireEdge `json:"edges"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	return &Flow{
		Nodes: fromWireNodes(payload.Nodes),
		Edges: fromWireEdges(payload.Edges),
	}, nil
}

func missingOrNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func toEnvelope(doc *flowchart.Document, diags []flowchart.Diagnostic) *envelope {
	env := &envelope{
		Metadata: wireMetadata{
			ID:             doc.Metadata.ID,
			Title:          doc.Metadata.Title,
			Description:    doc.Metadata.Description,
			Version:        doc.Metadata.Version,
			Author:         doc.Metadata.Author,
			LastModified:   doc.Metadata.LastModified,
			Tags:           doc.Metadata.Tags,
			Department:     doc.Metadata.Department,
			ApprovalStatus: string(doc.Metadata.ApprovalStatus),
			Approver:       doc.Metadata.Approver,
			ApprovalDate:   doc.Metadata.ApprovalDate,
		},
		Nodes: make([]wireNode, len(doc.Nodes)),
		Edges: make([]wireEdge, len(doc.Edges)),
	}

	for i, n := range doc.Nodes {
		var file *string
		if n.File != "" {
			f := n.File
			file = &f
		}
		var business *wireBusiness
		if b := n.Business; b != nil {
			business = &wireBusiness{
				Owner:         b.Owner,
				Department:    b.Department,
				EstimatedTime: b.EstimatedTime,
				Priority:      string(b.Priority),
				Status:        string(b.Status),
				DueDate:       b.DueDate,
				Tags:          b.Tags,
				Notes:         b.Notes,
			}
		}
		env.Nodes[i] = wireNode{
			ID:       n.ID,
			Type:     "custom",
			Position: wirePosition{X: n.Position.X, Y: n.Position.Y},
			Data: wireNodeData{
				ID:          n.ID,
				Shape:       string(n.Shape),
				Label:       n.Label,
				Description: n.Description,
				File:        file,
				Business:    business,
			},
		}
	}

	for i, e := range doc.Edges {
		env.Edges[i] = wireEdge{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			Type:   string(e.Style),
			Label:  e.Label,
			Data: &wireEdgeData{
				ID:          e.ID,
				Label:       e.Label,
				Condition:   e.Condition,
				Probability: e.Probability,
				Description: e.Description,
			},
		}
	}

	for _, d := range diags {
		env.ValidationErrors = append(env.ValidationErrors, wireDiagnostic{
			ID:      d.ID,
			Type:    string(d.Severity),
			Message: d.Message,
			NodeID:  d.NodeID,
			EdgeID:  d.EdgeID,
		})
	}

	return env
}

func fromEnvelope(env *envelope) *flowchart.Document {
	doc := &flowchart.Document{
		Metadata: flowchart.Metadata{
			ID:             env.Metadata.ID,
			Title:          env.Metadata.Title,
			Description:    env.Metadata.Description,
			Version:        env.Metadata.Version,
			Author:         env.Metadata.Author,
			LastModified:   env.Metadata.LastModified,
			Tags:           env.Metadata.Tags,
			Department:     env.Metadata.Department,
			ApprovalStatus: flowchart.ApprovalStatus(env.Metadata.ApprovalStatus),
			Approver:       env.Metadata.Approver,
			ApprovalDate:   env.Metadata.ApprovalDate,
		},
		Nodes: fromWireNodes(env.Nodes),
		Edges: fromWireEdges(env.Edges),
	}
	return doc
}

func fromWireNodes(wires []wireNode) []flowchart.Node {
	if len(wires) == 0 {
		return nil
	}
	nodes := make([]flowchart.Node, len(wires))
	for i, w := range wires {
		id := w.ID
		if id == "" {
			id = w.Data.ID
		}
		file := ""
		if w.Data.File != nil {
			file = *w.Data.File
		}
		var business *flowchart.BusinessAttributes
		if b := w.Data.Business; b != nil {
			business = &flowchart.BusinessAttributes{
				Owner:         b.Owner,
				Department:    b.Department,
				EstimatedTime: b.EstimatedTime,
				Priority:      flowchart.Priority(b.Priority),
				Status:        flowchart.Status(b.Status),
				DueDate:       b.DueDate,
				Tags:          b.Tags,
				Notes:         b.Notes,
			}
		}
		nodes[i] = flowchart.Node{
			ID:          id,
			Shape:       flowchart.Shape(w.Data.Shape),
			Position:    flowchart.Position{X: w.Position.X, Y: w.Position.Y},
			Label:       w.Data.Label,
			Description: w.Data.Description,
			File:        file,
			Business:    business,
		}
	}
	return nodes
}

func fromWireEdges(wires []wireEdge) []flowchart.Edge {
	if len(wires) == 0 {
		return nil
	}
	edges := make([]flowchart.Edge, len(wires))
	for i, w := range wires {
		id := w.ID
		if id == "" {
			id = uuid.NewString()
		}
		edge := flowchart.Edge{
			ID:     id,
			Source: w.Source,
			Target: w.Target,
			Style:  flowchart.ConnectorStyle(w.Type),
			Label:  w.Label,
		}
		if edge.Style == "" {
			edge.Style = flowchart.DefaultStyle
		}
		// Detail block may be absent in hand-written or generated files.
		if w.Data != nil {
			if edge.Label == "" {
				edge.Label = w.Data.Label
			}
			edge.Condition = w.Data.Condition
			edge.Probability = w.Data.Probability
			edge.Description = w.Data.Description
		}
		edges[i] = edge
	}
	return edges
}
