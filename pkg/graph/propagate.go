package graph

// UpdateGraph applies a learner's answer on node id and returns a new graph.
// g is never modified.
//
// A right answer finishes id and every ancestor. A wrong answer marks id,
// every descendant and every ancestor as started. A wrong answer never
// downgrades a finished node. An unknown id leaves all statuses as they were.
func UpdateGraph(g *Graph, id string, isRightChoice bool) *Graph {
	out := Clone(g)
	forward := BuildAdjacency(out.Links)
	reverse := BuildReverseAdjacency(out.Links)

	if isRightChoice {
		setStatus(out, AllPreviousNodes(reverse, id), StatusFinished, false)
		return out
	}

	setStatus(out, AllPreviousNodes(forward, id), StatusStarted, true)
	setStatus(out, AllPreviousNodes(reverse, id), StatusStarted, true)
	return out
}

// MarkKnown records that the learner already knows id, which implies its
// prerequisites. Unlike UpdateGraph it is an explicit user action, not an answer.
func MarkKnown(g *Graph, id string) *Graph {
	out := Clone(g)
	setStatus(out, AllPreviousNodes(BuildReverseAdjacency(out.Links), id), StatusFinished, false)
	return out
}

// SetStatus returns a copy of g with a single node's status replaced.
func SetStatus(g *Graph, id string, status Status) *Graph {
	out := Clone(g)
	for i := range out.Nodes {
		if out.Nodes[i].ID == id {
			out.Nodes[i].Status = status
		}
	}
	return out
}

func setStatus(g *Graph, ids IDSet, status Status, keepFinished bool) {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if !ids.Has(n.ID) {
			continue
		}
		if keepFinished && n.Status == StatusFinished {
			continue
		}
		n.Status = status
	}
}

// Changed returns the ids, in node order of after, whose status differs
// between the two snapshots.
func Changed(before, after *Graph) []string {
	prev := make(map[string]Status, len(before.Nodes))
	for _, n := range before.Nodes {
		prev[n.ID] = n.Status
	}
	var ids []string
	for _, n := range after.Nodes {
		if prev[n.ID] != n.Status {
			ids = append(ids, n.ID)
		}
	}
	return ids
}
