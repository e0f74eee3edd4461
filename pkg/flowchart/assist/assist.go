// Package assist is the boundary to the AI flow-generation backend:
// free-text instruction in, flowchart document out.
//
// The generated document enters the store through ReplaceDocument,
// which re-validates it and synthesizes node handles; nothing in this
// package touches store state directly.
package assist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/randalmurphal/flowchart/pkg/flowchart"
	"github.com/randalmurphal/flowchart/pkg/flowchart/export"
)

// Generator produces a flowchart document from a free-text instruction.
type Generator interface {
	Generate(ctx context.Context, instruction string) (*flowchart.Document, error)
}

// ErrEmptyInstruction indicates Generate was called with no instruction.
var ErrEmptyInstruction = errors.New("instruction is required")

// GenerateError wraps failures from a generation backend.
type GenerateError struct {
	// Endpoint is the backend that failed.
	Endpoint string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *GenerateError) Error() string {
	return fmt.Sprintf("generate flow via %s: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *GenerateError) Unwrap() error {
	return e.Err
}

// documentFromFlow wraps a generated nodes/edges pair in a fresh
// document, recording the instruction in the metadata.
func documentFromFlow(flow *export.Flow, instruction string) *flowchart.Document {
	meta := flowchart.NewMetadata()
	meta.ID = uuid.NewString()
	meta.Title = "Generated flowchart"
	meta.Description = instruction
	return &flowchart.Document{
		Nodes:    flow.Nodes,
		Edges:    flow.Edges,
		Metadata: meta,
	}
}

// StaticGenerator returns a fixed flow for every instruction.
// Useful for tests and offline demos.
type StaticGenerator struct {
	// Flow is returned for every instruction.
	Flow export.Flow
	// Err, if set, is returned instead.
	Err error
}

// Compile-time interface check.
var _ Generator = (*StaticGenerator)(nil)

// Generate implements Generator.
func (g *StaticGenerator) Generate(_ context.Context, instruction string) (*flowchart.Document, error) {
	if instruction == "" {
		return nil, ErrEmptyInstruction
	}
	if g.Err != nil {
		return nil, g.Err
	}
	flow := export.Flow{
		Nodes: append([]flowchart.Node(nil), g.Flow.Nodes...),
		Edges: append([]flowchart.Edge(nil), g.Flow.Edges...),
	}
	return documentFromFlow(&flow, instruction), nil
}
