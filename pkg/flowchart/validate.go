// Validation checks flowchart structure and content, producing
// advisory diagnostics instead of rejecting graphs.
//
// All checks are pure functions over a node/edge snapshot; the store
// re-runs them wholesale after structural changes. Diagnostic IDs are
// deterministic functions of the rule and its target, so re-running
// validation after an unrelated change yields stable IDs for unchanged
// violations.

package flowchart

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Severity classifies how serious a diagnostic is.
type Severity string

// Diagnostic severities. Errors mark structurally broken charts
// (dangling edges, missing labels); warnings are advisory.
const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is one validation finding. NodeID or EdgeID is set when
// the finding is tied to a specific element; chart-wide findings leave
// both empty.
type Diagnostic struct {
	ID       string
	Severity Severity
	Message  string
	NodeID   string
	EdgeID   string
}

// Limits the rule set applies.
const (
	maxLabelLength      = 50
	maxTotalMinutes     = 8 * 60
	maxDepartments      = 5
	minDecisionBranches = 2
)

// Validate runs the full rule set over the chart and returns every
// finding. Diagnostic order is not significant; compare results by ID.
func Validate(nodes []Node, edges []Edge) []Diagnostic {
	return validateAt(nodes, edges, time.Now())
}

// validateAt is the clock-injected form used by tests.
func validateAt(nodes []Node, edges []Edge, now time.Time) []Diagnostic {
	var diags []Diagnostic
	diags = append(diags, checkNodes(nodes, now)...)
	diags = append(diags, checkEdges(nodes, edges)...)
	diags = append(diags, checkFlow(nodes, edges)...)
	diags = append(diags, checkBusinessRules(nodes)...)
	return diags
}

// ValidateRealtime runs the lightweight subset suitable for invocation
// on every drag or keystroke: node content rules plus the orphan check.
func ValidateRealtime(nodes []Node, edges []Edge) []Diagnostic {
	diags := checkNodes(nodes, time.Now())

	for _, n := range orphanNodes(nodes, edges) {
		diags = append(diags, Diagnostic{
			ID:       fmt.Sprintf("node-%s-orphan-rt", n.ID),
			Severity: SeverityWarning,
			Message:  "node is not connected",
			NodeID:   n.ID,
		})
	}
	return diags
}

// Categorize splits diagnostics by severity.
func Categorize(diags []Diagnostic) (errors, warnings []Diagnostic) {
	for _, d := range diags {
		if d.Severity == SeverityError {
			errors = append(errors, d)
		} else {
			warnings = append(warnings, d)
		}
	}
	return errors, warnings
}

// checkNodes applies per-node content rules.
func checkNodes(nodes []Node, now time.Time) []Diagnostic {
	var diags []Diagnostic

	for _, n := range nodes {
		if strings.TrimSpace(n.Label) == "" {
			diags = append(diags, Diagnostic{
				ID:       fmt.Sprintf("node-%s-label", n.ID),
				Severity: SeverityError,
				Message:  "node label is required",
				NodeID:   n.ID,
			})
		}

		if len([]rune(n.Label)) > maxLabelLength {
			diags = append(diags, Diagnostic{
				ID:       fmt.Sprintf("node-%s-label-length", n.ID),
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("node label is too long (%d characters max recommended)", maxLabelLength),
				NodeID:   n.ID,
			})
		}

		if b := n.Business; b != nil {
			if b.EstimatedTime != nil && *b.EstimatedTime <= 0 {
				diags = append(diags, Diagnostic{
					ID:       fmt.Sprintf("node-%s-time", n.ID),
					Severity: SeverityWarning,
					Message:  "estimated time must be a positive value",
					NodeID:   n.ID,
				})
			}

			if b.DueDate != "" {
				if due, ok := parseDate(b.DueDate); ok && due.Before(now) {
					diags = append(diags, Diagnostic{
						ID:       fmt.Sprintf("node-%s-due-date", n.ID),
						Severity: SeverityWarning,
						Message:  "due date is in the past",
						NodeID:   n.ID,
					})
				}
			}
		}
	}
	return diags
}

// checkEdges applies referential rules: dangling endpoints and self-loops.
func checkEdges(nodes []Node, edges []Edge) []Diagnostic {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}

	var diags []Diagnostic
	for _, e := range edges {
		if !ids[e.Source] {
			diags = append(diags, Diagnostic{
				ID:       fmt.Sprintf("edge-%s-source", e.ID),
				Severity: SeverityError,
				Message:  fmt.Sprintf("edge source node (%s) does not exist", e.Source),
				EdgeID:   e.ID,
			})
		}
		if !ids[e.Target] {
			diags = append(diags, Diagnostic{
				ID:       fmt.Sprintf("edge-%s-target", e.ID),
				Severity: SeverityError,
				Message:  fmt.Sprintf("edge target node (%s) does not exist", e.Target),
				EdgeID:   e.ID,
			})
		}
		if e.Source == e.Target {
			diags = append(diags, Diagnostic{
				ID:       fmt.Sprintf("edge-%s-self", e.ID),
				Severity: SeverityWarning,
				Message:  "node is connected to itself",
				EdgeID:   e.ID,
			})
		}
	}
	return diags
}

// checkFlow applies chart-shape rules: start/end terminators, orphans,
// dead ends and under-branched decisions.
func checkFlow(nodes []Node, edges []Edge) []Diagnostic {
	var diags []Diagnostic

	hasIncoming := make(map[string]bool)
	hasOutgoing := make(map[string]bool)
	outDegree := make(map[string]int)
	for _, e := range edges {
		hasIncoming[e.Target] = true
		hasOutgoing[e.Source] = true
		outDegree[e.Source]++
	}

	startCount := 0
	endCount := 0
	for _, n := range nodes {
		if n.Shape != ShapeTerminator {
			continue
		}
		if !hasIncoming[n.ID] {
			startCount++
		}
		if !hasOutgoing[n.ID] {
			endCount++
		}
	}

	if startCount == 0 {
		diags = append(diags, Diagnostic{
			ID:       "flow-no-start",
			Severity: SeverityWarning,
			Message:  "no start node found",
		})
	}
	if startCount > 1 {
		diags = append(diags, Diagnostic{
			ID:       "flow-multiple-starts",
			Severity: SeverityWarning,
			Message:  "multiple start nodes found",
		})
	}
	if endCount == 0 {
		diags = append(diags, Diagnostic{
			ID:       "flow-no-end",
			Severity: SeverityWarning,
			Message:  "no end node found",
		})
	}

	for _, n := range orphanNodes(nodes, edges) {
		diags = append(diags, Diagnostic{
			ID:       fmt.Sprintf("node-%s-orphan", n.ID),
			Severity: SeverityWarning,
			Message:  "node is not connected to any other node",
			NodeID:   n.ID,
		})
	}

	for _, n := range nodes {
		if n.Shape != ShapeTerminator && !hasOutgoing[n.ID] {
			diags = append(diags, Diagnostic{
				ID:       fmt.Sprintf("node-%s-dead-end", n.ID),
				Severity: SeverityWarning,
				Message:  "node has no outgoing edges (dead end)",
				NodeID:   n.ID,
			})
		}
	}

	for _, n := range nodes {
		if n.Shape == ShapeDecision && outDegree[n.ID] < minDecisionBranches {
			diags = append(diags, Diagnostic{
				ID:       fmt.Sprintf("node-%s-decision-outputs", n.ID),
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("decision node needs at least %d outgoing branches", minDecisionBranches),
				NodeID:   n.ID,
			})
		}
	}

	return diags
}

// checkBusinessRules applies aggregate rules over the whole chart.
func checkBusinessRules(nodes []Node) []Diagnostic {
	var diags []Diagnostic

	total := 0.0
	hasCritical := false
	hasLow := false
	departments := make(map[string]bool)
	for _, n := range nodes {
		b := n.Business
		if b == nil {
			continue
		}
		if b.EstimatedTime != nil {
			total += *b.EstimatedTime
		}
		switch b.Priority {
		case PriorityCritical:
			hasCritical = true
		case PriorityLow:
			hasLow = true
		}
		if b.Department != "" {
			departments[b.Department] = true
		}
	}

	if total > maxTotalMinutes {
		diags = append(diags, Diagnostic{
			ID:       "flow-time-excessive",
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("total estimated process time is excessive (%.0f hours)", math.Round(total/60)),
		})
	}

	if hasCritical && hasLow {
		diags = append(diags, Diagnostic{
			ID:       "flow-priority-inconsistency",
			Severity: SeverityWarning,
			Message:  "critical and low priority tasks are mixed in the same flow",
		})
	}

	if len(departments) > maxDepartments {
		diags = append(diags, Diagnostic{
			ID:       "flow-department-fragmentation",
			Severity: SeverityWarning,
			Message:  "process spans many departments, consider simplifying",
		})
	}

	return diags
}

// orphanNodes returns nodes with no incoming and no outgoing edges,
// in insertion order.
func orphanNodes(nodes []Node, edges []Edge) []Node {
	connected := make(map[string]bool)
	for _, e := range edges {
		connected[e.Source] = true
		connected[e.Target] = true
	}

	var orphans []Node
	for _, n := range nodes {
		if !connected[n.ID] {
			orphans = append(orphans, n)
		}
	}
	return orphans
}

// parseDate accepts the date formats the editor writes.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
