package graph

// PathMap maps each node on the path to a goal to the node to study after it.
// The goal has no entry.
type PathMap map[string]string

// Sequence walks the map from its head and returns the ordered path.
// The head is the only key that is never a value. The walk stops at a node
// without an entry or at a node already visited.
func (p PathMap) Sequence() []string {
	if len(p) == 0 {
		return nil
	}
	values := make(IDSet, len(p))
	for _, v := range p {
		values.add(v)
	}

	head := ""
	for k := range p {
		if !values.Has(k) {
			// Several candidates only occur with a hand-built map; pick the
			// smallest for a stable answer.
			if head == "" || k < head {
				head = k
			}
		}
	}
	if head == "" {
		return nil
	}

	seen := make(IDSet, len(p)+1)
	seq := []string{}
	for current, ok := head, true; ok && !seen.Has(current); current, ok = p[current] {
		seen.add(current)
		seq = append(seq, current)
	}
	return seq
}

// PathToGoalList returns the recommended study order for goal: the
// topological order from the graph's root, filtered to the goal and its
// ancestors.
//
// The root is the first node in g.Nodes without prerequisites. When every
// node has one (a cycle through all of them) there is no root and the list is
// empty.
func PathToGoalList(g *Graph, goal string) []string {
	if g == nil || goal == "" {
		return []string{}
	}

	forward := BuildAdjacency(g.Links)
	reverse := BuildReverseAdjacency(g.Links)

	start := ""
	for _, n := range g.Nodes {
		if len(reverse[n.ID]) == 0 {
			start = n.ID
			break
		}
	}

	order := TopologicalSort(forward, start)
	ancestors := AllPreviousNodes(reverse, goal)

	list := make([]string, 0, len(order))
	for _, id := range order {
		if ancestors.Has(id) {
			list = append(list, id)
		}
	}
	return list
}

// ComputePathToGoal links each consecutive pair of PathToGoalList.
// An unreachable goal gives an empty map.
func ComputePathToGoal(g *Graph, goal string) PathMap {
	list := PathToGoalList(g, goal)
	path := make(PathMap, len(list))
	for i := 0; i+1 < len(list); i++ {
		path[list[i]] = list[i+1]
	}
	return path
}

// NextNodeToGoal returns the first node on the path, in path order, that is
// not finished. It reports false when goal is empty, the path is empty, or
// everything on it is finished.
func NextNodeToGoal(g *Graph, path PathMap, goal string) (string, bool) {
	if g == nil || goal == "" {
		return "", false
	}

	status := make(map[string]Status, len(g.Nodes))
	for _, n := range g.Nodes {
		status[n.ID] = n.Status
	}

	for _, id := range path.Sequence() {
		st, ok := status[id]
		if !ok {
			continue
		}
		if st != StatusFinished {
			return id, true
		}
	}
	return "", false
}
