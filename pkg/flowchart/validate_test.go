package flowchart

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// node builds a minimal labeled node for validation tests.
func node(id, label string, shape Shape) Node {
	return Node{ID: id, Label: label, Shape: shape}
}

// edge builds an edge between two node ids.
func edge(id, source, target string) Edge {
	return Edge{ID: id, Source: source, Target: target}
}

// ids collects diagnostic ids as a sorted slice for set comparison.
func ids(diags []Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.ID
	}
	sort.Strings(out)
	return out
}

// linearChart is a well-formed start -> step -> end chart that should
// produce no diagnostics.
func linearChart() ([]Node, []Edge) {
	nodes := []Node{
		node("start", "Start", ShapeTerminator),
		node("step", "Do work", ShapeProcess),
		node("end", "End", ShapeTerminator),
	}
	edges := []Edge{
		edge("e1", "start", "step"),
		edge("e2", "step", "end"),
	}
	return nodes, edges
}

// TestValidate_CleanChart verifies a well-formed chart yields nothing.
func TestValidate_CleanChart(t *testing.T) {
	nodes, edges := linearChart()
	assert.Empty(t, validateAt(nodes, edges, testNow))
}

// TestValidate_MissingLabel tests the required-label rule, including
// whitespace-only labels.
func TestValidate_MissingLabel(t *testing.T) {
	testCases := []struct {
		name  string
		label string
	}{
		{"empty", ""},
		{"spaces", "   "},
		{"tab", "\t"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nodes, edges := linearChart()
			nodes[1].Label = tc.label

			diags := validateAt(nodes, edges, testNow)
			require.Len(t, diags, 1)
			assert.Equal(t, "node-step-label", diags[0].ID)
			assert.Equal(t, SeverityError, diags[0].Severity)
			assert.Equal(t, "step", diags[0].NodeID)
		})
	}
}

// TestValidate_LabelTooLong tests the label length rule counts runes,
// not bytes.
func TestValidate_LabelTooLong(t *testing.T) {
	nodes, edges := linearChart()
	nodes[1].Label = strings.Repeat("x", 51)

	diags := validateAt(nodes, edges, testNow)
	assert.Equal(t, []string{"node-step-label-length"}, ids(diags))

	// 50 runes exactly is fine, even when multibyte.
	nodes[1].Label = strings.Repeat("é", 50)
	assert.Empty(t, validateAt(nodes, edges, testNow))
}

// TestValidate_NonPositiveTime tests the estimated-time rule.
func TestValidate_NonPositiveTime(t *testing.T) {
	testCases := []struct {
		name    string
		minutes float64
		want    bool
	}{
		{"negative", -5, true},
		{"zero", 0, true},
		{"positive", 30, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nodes, edges := linearChart()
			m := tc.minutes
			nodes[1].Business = &BusinessAttributes{EstimatedTime: &m}

			diags := validateAt(nodes, edges, testNow)
			if tc.want {
				assert.Equal(t, []string{"node-step-time"}, ids(diags))
			} else {
				assert.Empty(t, diags)
			}
		})
	}
}

// TestValidate_TimeAbsent verifies a nil estimate is not treated as zero.
func TestValidate_TimeAbsent(t *testing.T) {
	nodes, edges := linearChart()
	nodes[1].Business = &BusinessAttributes{}
	assert.Empty(t, validateAt(nodes, edges, testNow))
}

// TestValidate_DueDate tests the past-due rule across formats.
func TestValidate_DueDate(t *testing.T) {
	testCases := []struct {
		name string
		due  string
		want bool
	}{
		{"past date", "2026-02-01", true},
		{"future date", "2026-04-01", false},
		{"past rfc3339", "2026-01-15T08:00:00Z", true},
		{"unparseable", "next tuesday", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nodes, edges := linearChart()
			nodes[1].Business = &BusinessAttributes{DueDate: tc.due}

			diags := validateAt(nodes, edges, testNow)
			if tc.want {
				assert.Equal(t, []string{"node-step-due-date"}, ids(diags))
			} else {
				assert.Empty(t, diags)
			}
		})
	}
}

// TestValidate_DanglingEdge tests source and target existence rules.
func TestValidate_DanglingEdge(t *testing.T) {
	nodes, edges := linearChart()
	edges = append(edges, edge("e3", "ghost", "step"), edge("e4", "step", "void"))

	diags := validateAt(nodes, edges, testNow)
	assert.Contains(t, ids(diags), "edge-e3-source")
	assert.Contains(t, ids(diags), "edge-e4-target")
	errs, _ := Categorize(diags)
	assert.Len(t, errs, 2, "dangling endpoints are errors")
}

// TestValidate_SelfLoop verifies a self-connection is a warning, not an
// error.
func TestValidate_SelfLoop(t *testing.T) {
	nodes, edges := linearChart()
	edges = append(edges, edge("loop", "step", "step"))

	diags := validateAt(nodes, edges, testNow)
	assert.Equal(t, []string{"edge-loop-self"}, ids(diags))
	assert.Equal(t, SeverityWarning, diags[0].Severity)
}

// TestValidate_NoStart tests start detection: a terminator with no
// incoming edges.
func TestValidate_NoStart(t *testing.T) {
	nodes := []Node{
		node("a", "Only step", ShapeProcess),
		node("end", "End", ShapeTerminator),
	}
	edges := []Edge{edge("e1", "a", "end")}

	diags := validateAt(nodes, edges, testNow)
	assert.Contains(t, ids(diags), "flow-no-start")
}

// TestValidate_MultipleStarts tests the duplicate-start rule.
func TestValidate_MultipleStarts(t *testing.T) {
	nodes, edges := linearChart()
	nodes = append(nodes, node("start2", "Alt start", ShapeTerminator))
	edges = append(edges, edge("e3", "start2", "step"))

	diags := validateAt(nodes, edges, testNow)
	assert.Contains(t, ids(diags), "flow-multiple-starts")
}

// TestValidate_NoEnd tests end detection: a terminator with no outgoing
// edges.
func TestValidate_NoEnd(t *testing.T) {
	nodes := []Node{
		node("start", "Start", ShapeTerminator),
		node("step", "Loop forever", ShapeProcess),
	}
	edges := []Edge{
		edge("e1", "start", "step"),
		edge("e2", "step", "step"),
	}

	diags := validateAt(nodes, edges, testNow)
	assert.Contains(t, ids(diags), "flow-no-end")
}

// TestValidate_OrphanScenario exercises a disconnected node: it is an
// orphan, a dead end, and leaves the remaining chart intact.
func TestValidate_OrphanScenario(t *testing.T) {
	nodes, edges := linearChart()
	nodes = append(nodes, node("island", "Unreachable", ShapeProcess))

	diags := validateAt(nodes, edges, testNow)
	got := ids(diags)
	assert.Contains(t, got, "node-island-orphan")
	assert.Contains(t, got, "node-island-dead-end")
	assert.NotContains(t, got, "node-step-orphan")
}

// TestValidate_DeadEnd tests that non-terminator leaves are flagged and
// terminator leaves are not.
func TestValidate_DeadEnd(t *testing.T) {
	nodes := []Node{
		node("start", "Start", ShapeTerminator),
		node("step", "Do work", ShapeProcess),
	}
	edges := []Edge{edge("e1", "start", "step")}

	diags := validateAt(nodes, edges, testNow)
	got := ids(diags)
	assert.Contains(t, got, "node-step-dead-end")
	assert.NotContains(t, got, "node-start-dead-end")
}

// TestValidate_DecisionBranches tests the minimum-branch rule for
// decision nodes.
func TestValidate_DecisionBranches(t *testing.T) {
	nodes := []Node{
		node("start", "Start", ShapeTerminator),
		node("dec", "Approved?", ShapeDecision),
		node("yes", "Ship it", ShapeTerminator),
		node("no", "Reject", ShapeTerminator),
	}
	edges := []Edge{
		edge("e1", "start", "dec"),
		edge("e2", "dec", "yes"),
	}

	diags := validateAt(nodes, edges, testNow)
	assert.Contains(t, ids(diags), "node-dec-decision-outputs")

	// A second branch satisfies the rule.
	edges = append(edges, edge("e3", "dec", "no"))
	diags = validateAt(nodes, edges, testNow)
	assert.NotContains(t, ids(diags), "node-dec-decision-outputs")
}

// TestValidate_ExcessiveTotalTime tests the aggregate time budget.
func TestValidate_ExcessiveTotalTime(t *testing.T) {
	nodes, edges := linearChart()
	m := 481.0
	nodes[1].Business = &BusinessAttributes{EstimatedTime: &m}

	diags := validateAt(nodes, edges, testNow)
	assert.Contains(t, ids(diags), "flow-time-excessive")

	m = 480
	diags = validateAt(nodes, edges, testNow)
	assert.NotContains(t, ids(diags), "flow-time-excessive")
}

// TestValidate_PriorityInconsistency tests the mixed critical/low rule.
func TestValidate_PriorityInconsistency(t *testing.T) {
	nodes, edges := linearChart()
	nodes[0].Business = &BusinessAttributes{Priority: PriorityCritical}
	nodes[2].Business = &BusinessAttributes{Priority: PriorityLow}

	diags := validateAt(nodes, edges, testNow)
	assert.Contains(t, ids(diags), "flow-priority-inconsistency")

	// Critical plus medium is fine.
	nodes[2].Business.Priority = PriorityMedium
	diags = validateAt(nodes, edges, testNow)
	assert.NotContains(t, ids(diags), "flow-priority-inconsistency")
}

// TestValidate_DepartmentFragmentation tests the department spread rule.
func TestValidate_DepartmentFragmentation(t *testing.T) {
	var nodes []Node
	var edges []Edge
	prev := ""
	for i, dept := range []string{"sales", "legal", "finance", "it", "hr", "ops"} {
		id := string(rune('a' + i))
		n := node(id, "Step "+dept, ShapeProcess)
		n.Business = &BusinessAttributes{Department: dept}
		nodes = append(nodes, n)
		if prev != "" {
			edges = append(edges, edge("e-"+prev+id, prev, id))
		}
		prev = id
	}

	diags := validateAt(nodes, edges, testNow)
	assert.Contains(t, ids(diags), "flow-department-fragmentation")

	// Five distinct departments is within bounds.
	nodes[5].Business.Department = "hr"
	diags = validateAt(nodes, edges, testNow)
	assert.NotContains(t, ids(diags), "flow-department-fragmentation")
}

// TestValidate_Idempotent verifies repeated validation of the same
// chart yields the same diagnostic set.
func TestValidate_Idempotent(t *testing.T) {
	nodes, edges := linearChart()
	nodes = append(nodes, node("island", "", ShapeProcess))
	nodes[1].Label = strings.Repeat("x", 60)

	first := validateAt(nodes, edges, testNow)
	second := validateAt(nodes, edges, testNow)
	assert.Equal(t, ids(first), ids(second))
	assert.NotEmpty(t, first)
}

// TestValidateRealtime verifies the realtime subset: content rules plus
// orphans under distinct ids, skipping flow and aggregate rules.
func TestValidateRealtime(t *testing.T) {
	nodes := []Node{
		node("a", "", ShapeProcess),
		node("b", "Connected", ShapeProcess),
		node("c", "Island", ShapeDecision),
	}
	edges := []Edge{edge("e1", "a", "b")}

	diags := ValidateRealtime(nodes, edges)
	got := ids(diags)
	assert.Contains(t, got, "node-a-label")
	assert.Contains(t, got, "node-c-orphan-rt")
	assert.NotContains(t, got, "node-c-orphan")
	assert.NotContains(t, got, "node-c-decision-outputs")
	assert.NotContains(t, got, "flow-no-start")
	assert.NotContains(t, got, "node-b-dead-end")
}

// TestCategorize splits by severity and keeps order within each bucket.
func TestCategorize(t *testing.T) {
	diags := []Diagnostic{
		{ID: "w1", Severity: SeverityWarning},
		{ID: "e1", Severity: SeverityError},
		{ID: "w2", Severity: SeverityWarning},
	}

	errs, warns := Categorize(diags)
	require.Len(t, errs, 1)
	assert.Equal(t, "e1", errs[0].ID)
	require.Len(t, warns, 2)
	assert.Equal(t, "w1", warns[0].ID)
	assert.Equal(t, "w2", warns[1].ID)
}

// TestValidate_EmptyChart tests the degenerate empty document.
func TestValidate_EmptyChart(t *testing.T) {
	diags := validateAt(nil, nil, testNow)
	got := ids(diags)
	assert.Contains(t, got, "flow-no-start")
	assert.Contains(t, got, "flow-no-end")
}
