/*
Package flowchart provides the editing engine behind a visual flowchart
editor: a document store with mutation operations, structural
validation, and linear undo/redo history.

# Overview

A flowchart is a directed graph of typed shape nodes connected by
styled edges, plus chart metadata. The Store owns the current Document
and is the only party allowed to mutate it: the presentation layer
translates gestures into store operations, then re-renders from the
state the store publishes to subscribers. After every structural change
the store recomputes validation diagnostics and bumps the modification
timestamp.

# Basic Usage

	store := flowchart.NewStore()

	check := store.AddNode(flowchart.ShapeDecision, 250, 200)
	done := store.AddNode(flowchart.ShapeTerminator, 250, 350)

	start := store.Nodes()[0].ID
	store.Connect(start, check)
	store.Connect(check, done)

	for _, d := range store.Diagnostics() {
	    fmt.Printf("%s: %s\n", d.Severity, d.Message)
	}

	store.Undo() // back to the state before the last Connect

# Batched Gestures

A gesture touching several elements at once (multi-select delete,
dragging a group of nodes) must reach the store as one ChangeSet so it
costs exactly one history entry and one validation pass:

	store.Apply(flowchart.ChangeSet{
	    MoveNodes: []flowchart.NodeMove{
	        {ID: a, Position: flowchart.Position{X: 10, Y: 10}},
	        {ID: b, Position: flowchart.Position{X: 10, Y: 120}},
	    },
	})

# Subpackages

  - persist: in-memory and SQLite persistence adapters
  - export: JSON import/export in the interchange format
  - assist: AI flow-generation client boundary
  - config: editor settings loading
  - observability: logging, metrics, and tracing hooks

# Concurrency

The store is single-threaded by design. All operations are synchronous
and complete within the caller's turn; nothing is awaited mid-mutation.
Use one store per editing session and call it from one goroutine.
*/
package flowchart
