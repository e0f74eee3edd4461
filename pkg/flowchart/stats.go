package flowchart

// Statistics summarizes a chart for dashboards and inspectors.
type Statistics struct {
	TotalNodes   int
	NodesByShape map[Shape]int
	TotalEdges   int

	// EstimatedTotalTime is the sum of estimated minutes over all nodes.
	EstimatedTotalTime float64

	// CompletionRate is the percentage of nodes whose status is completed.
	CompletionRate float64

	// CriticalPath is the node id sequence from a source node (no
	// incoming edges) to a leaf maximizing cumulative estimated time.
	CriticalPath []string
}

// Statistics computes summary statistics for the current document.
func (s *Store) Statistics() Statistics {
	nodes, edges := s.doc.Nodes, s.doc.Edges

	byShape := make(map[Shape]int)
	total := 0.0
	completed := 0
	for _, n := range nodes {
		byShape[n.Shape]++
		if b := n.Business; b != nil {
			if b.EstimatedTime != nil {
				total += *b.EstimatedTime
			}
			if b.Status == StatusCompleted {
				completed++
			}
		}
	}

	rate := 0.0
	if len(nodes) > 0 {
		rate = float64(completed) / float64(len(nodes)) * 100
	}

	return Statistics{
		TotalNodes:         len(nodes),
		NodesByShape:       byShape,
		TotalEdges:         len(edges),
		EstimatedTotalTime: total,
		CompletionRate:     rate,
		CriticalPath:       criticalPath(nodes, edges),
	}
}

// pathResult is the memoized outcome of the longest-time walk from one node.
type pathResult struct {
	total float64
	path  []string
}

// criticalPath finds the path from a source node (no incoming edges) to
// a leaf that maximizes the sum of estimated minutes. Results are
// memoized per node so shared subpaths are walked once. Ties keep the
// first-discovered candidate: source nodes in insertion order, then
// outgoing edges in insertion order. Cycles are cut at the revisited
// node. Returns nil when the chart is empty or has no source node.
func criticalPath(nodes []Node, edges []Edge) []string {
	if len(nodes) == 0 {
		return nil
	}

	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	outgoing := make(map[string][]string)
	hasIncoming := make(map[string]bool)
	for _, e := range edges {
		outgoing[e.Source] = append(outgoing[e.Source], e.Target)
		hasIncoming[e.Target] = true
	}

	memo := make(map[string]pathResult)
	onStack := make(map[string]bool)

	var walk func(id string) pathResult
	walk = func(id string) pathResult {
		if r, ok := memo[id]; ok {
			return r
		}
		node, ok := byID[id]
		if !ok || onStack[id] {
			return pathResult{}
		}
		onStack[id] = true

		var best pathResult
		for _, target := range outgoing[id] {
			r := walk(target)
			if len(r.path) == 0 {
				continue // cycle edge or dangling target
			}
			if len(best.path) == 0 || r.total > best.total {
				best = r
			}
		}
		onStack[id] = false

		minutes := 0.0
		if node.Business != nil && node.Business.EstimatedTime != nil {
			minutes = *node.Business.EstimatedTime
		}
		result := pathResult{
			total: minutes + best.total,
			path:  append([]string{id}, best.path...),
		}
		memo[id] = result
		return result
	}

	var best pathResult
	found := false
	for _, n := range nodes {
		if hasIncoming[n.ID] {
			continue
		}
		if r := walk(n.ID); !found || r.total > best.total {
			best = r
			found = true
		}
	}
	if !found {
		return nil
	}
	return best.path
}
