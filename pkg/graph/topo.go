package graph

// TopologicalSort orders the nodes reachable from start so that every edge
// points forward. It is a depth-first post-order walk: neighbours are visited
// in adjacency order before a node is pushed, and the stack is reversed.
//
// Nodes unreachable from start are absent. An empty start yields an empty
// order; a start missing from adj is treated as isolated. The visited guard
// keeps cyclic input from looping, at the cost of a non-unique order.
func TopologicalSort(adj Adjacency, start string) []string {
	if start == "" {
		return []string{}
	}

	visited := make(IDSet)
	stack := make([]string, 0, len(adj))

	var visit func(id string)
	visit = func(id string) {
		visited.add(id)
		for _, next := range adj[id] {
			if !visited.Has(next) {
				visit(next)
			}
		}
		stack = append(stack, id)
	}
	visit(start)

	for i, j := 0, len(stack)-1; i < j; i, j = i+1, j-1 {
		stack[i], stack[j] = stack[j], stack[i]
	}
	return stack
}

// AllPreviousNodes returns the transitive closure of id over adj, including id
// itself. Over the reverse adjacency that is every ancestor; over the forward
// adjacency every descendant.
func AllPreviousNodes(adj Adjacency, id string) IDSet {
	seen := make(IDSet)
	if id == "" {
		return seen
	}

	seen.add(id)
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adj[current] {
			if !seen.Has(next) {
				seen.add(next)
				queue = append(queue, next)
			}
		}
	}
	return seen
}

// FindCycle returns one cycle in adj as a closed walk (first id repeated at
// the end), or nil when adj is acyclic. Keys are explored in the order given
// by ids so the result is deterministic.
func FindCycle(adj Adjacency, ids []string) []string {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(adj))
	var path []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = grey
		path = append(path, id)
		for _, next := range adj[id] {
			switch color[next] {
			case grey:
				for i, p := range path {
					if p == next {
						cycle = append(append([]string{}, path[i:]...), next)
						return true
					}
				}
			case white:
				if visit(next) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		color[id] = black
		return false
	}

	for _, id := range ids {
		if color[id] == white && visit(id) {
			return cycle
		}
	}
	return nil
}
