package graph

import "fmt"

// DiGraph is a directed graph over string node identifiers, built
// incrementally by AddNode/AddEdge. It tracks insertion order so that
// any deterministic traversal (topological sort, cycle search) can
// tie-break by the order nodes/edges were declared.
type DiGraph struct {
	nodeOrder []string
	nodes     map[string]bool
	adjacency map[string][]string
}

// NewDiGraph creates an empty graph.
func NewDiGraph() *DiGraph {
	return &DiGraph{
		nodes:     make(map[string]bool),
		adjacency: make(map[string][]string),
	}
}

// AddNode registers a node if it is not already present.
func (g *DiGraph) AddNode(id string) {
	if g.nodes[id] {
		return
	}
	g.nodes[id] = true
	g.nodeOrder = append(g.nodeOrder, id)
	if g.adjacency[id] == nil {
		g.adjacency[id] = []string{}
	}
}

// AddEdge adds a directed edge from -> to, registering both endpoints
// as nodes if needed.
func (g *DiGraph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Nodes returns node ids in insertion order.
func (g *DiGraph) Nodes() []string {
	out := make([]string, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

// Neighbors returns the out-edges of id in insertion order.
func (g *DiGraph) Neighbors(id string) []string {
	return g.adjacency[id]
}

// FindCycle runs a DFS from every unvisited node (in insertion order)
// looking for a back-edge into the current recursion stack. It
// returns the first cycle found as a node-id chain (e.g. a -> b -> a),
// or nil if the graph is acyclic.
func (g *DiGraph) FindCycle() []string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(g.nodeOrder))
	var stack []string

	var dfs func(node string) []string
	dfs = func(node string) []string {
		state[node] = visiting
		stack = append(stack, node)

		for _, neighbor := range g.adjacency[node] {
			switch state[neighbor] {
			case unvisited:
				if cycle := dfs(neighbor); cycle != nil {
					return cycle
				}
			case visiting:
				// Found the back-edge; slice the stack from neighbor's
				// first occurrence to the end and close the loop.
				for i, n := range stack {
					if n == neighbor {
						cycle := append([]string(nil), stack[i:]...)
						return append(cycle, neighbor)
					}
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[node] = done
		return nil
	}

	for _, id := range g.nodeOrder {
		if state[id] == unvisited {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// TopoSort performs Kahn's algorithm, tie-breaking among nodes with
// zero remaining in-degree by the order they were passed in
// tieBreakOrder. tieBreakOrder must list every node in g exactly
// once; nodes not in tieBreakOrder are appended in graph insertion
// order after it. Returns an error naming the cycle if the graph is
// not a DAG.
func (g *DiGraph) TopoSort(tieBreakOrder []string) ([]string, error) {
	indegree := make(map[string]int, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		indegree[id] = 0
	}
	for _, from := range g.nodeOrder {
		for _, to := range g.adjacency[from] {
			indegree[to]++
		}
	}

	order := dedupOrder(tieBreakOrder, g.nodeOrder)

	ready := make([]string, 0, len(order))
	inReady := make(map[string]bool)
	for _, id := range order {
		if indegree[id] == 0 {
			ready = append(ready, id)
			inReady[id] = true
		}
	}

	var result []string
	for len(ready) > 0 {
		// Pop in tie-break order: the earliest-declared ready node.
		next := ready[0]
		ready = ready[1:]
		result = append(result, next)

		for _, neighbor := range g.adjacency[next] {
			indegree[neighbor]--
			if indegree[neighbor] == 0 {
				ready = insertInTieBreakOrder(ready, neighbor, order)
			}
		}
	}

	if len(result) != len(g.nodeOrder) {
		if cycle := g.FindCycle(); cycle != nil {
			return nil, fmt.Errorf("cycle detected: %s", formatCycle(cycle))
		}
		return nil, fmt.Errorf("topological sort failed: graph is not a DAG")
	}
	return result, nil
}

// dedupOrder returns preferred with duplicates removed, followed by
// any node in fallback not already present, preserving both orders.
func dedupOrder(preferred, fallback []string) []string {
	seen := make(map[string]bool, len(preferred)+len(fallback))
	out := make([]string, 0, len(preferred)+len(fallback))
	for _, id := range preferred {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range fallback {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// insertInTieBreakOrder inserts id into ready at the position matching
// its relative position in order, keeping ready sorted by order.
func insertInTieBreakOrder(ready []string, id string, order []string) []string {
	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	idx := len(ready)
	for i, r := range ready {
		if pos[id] < pos[r] {
			idx = i
			break
		}
	}
	out := make([]string, 0, len(ready)+1)
	out = append(out, ready[:idx]...)
	out = append(out, id)
	out = append(out, ready[idx:]...)
	return out
}

func formatCycle(cycle []string) string {
	s := ""
	for i, n := range cycle {
		if i > 0 {
			s += " -> "
		}
		s += n
	}
	return s
}

// Reachable returns all nodes reachable from start (start included)
// via BFS.
func (g *DiGraph) Reachable(start string) map[string]bool {
	reachable := make(map[string]bool)
	if !g.nodes[start] {
		return reachable
	}
	queue := []string{start}
	reachable[start] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.adjacency[cur] {
			if !reachable[n] {
				reachable[n] = true
				queue = append(queue, n)
			}
		}
	}
	return reachable
}
