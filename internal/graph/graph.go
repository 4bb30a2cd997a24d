package graph

import (
	"math"
)

// Build constructs a TaskGraph from validated records. Every node gets its
// expected time and variance up front; early times start at 0 and late times
// at +Inf until the engine runs its passes.
func Build(records []Record) (*TaskGraph, error) {
	g := &TaskGraph{
		Tasks:  make(map[string]*Node, len(records)),
		Order:  make([]string, 0, len(records)),
		Adj:    make(map[string][]string),
		RevAdj: make(map[string][]string),
	}

	// Index all tasks
	for i := range records {
		r := records[i]
		if _, exists := g.Tasks[r.ID]; exists {
			return nil, &DuplicateTaskError{TaskID: r.ID}
		}
		r.Dependencies = append([]string(nil), r.Dependencies...)
		g.Tasks[r.ID] = newNode(r)
		g.Order = append(g.Order, r.ID)
	}

	edgeSet := make(map[Edge]bool)
	addEdge := func(from, to string) {
		key := Edge{From: from, To: to}
		if edgeSet[key] {
			return
		}
		edgeSet[key] = true
		g.Adj[from] = append(g.Adj[from], to)
		g.RevAdj[to] = append(g.RevAdj[to], from)
	}

	// Edges run prerequisite -> dependent, walked in input order so the
	// adjacency lists are deterministic without sorting.
	for _, id := range g.Order {
		for _, dep := range g.Tasks[id].Dependencies {
			if _, ok := g.Tasks[dep]; !ok {
				return nil, &MissingDependencyError{TaskID: id, DependencyID: dep}
			}
			addEdge(dep, id)
		}
	}

	return g, nil
}

func newNode(r Record) *Node {
	spread := (r.Pessimistic - r.Optimistic) / 6
	return &Node{
		Record:       r,
		ExpectedTime: (r.Optimistic + 4*r.MostLikely + r.Pessimistic) / 6,
		Variance:     spread * spread,
		LateStart:    math.Inf(1),
		LateFinish:   math.Inf(1),
	}
}

// DetectCycle returns the cycle path if one exists, or nil if the graph is acyclic.
// The path starts and ends on the same task, e.g. [a b c a].
// Uses DFS with coloring: white (unvisited), gray (in progress), black (done).
func (g *TaskGraph) DetectCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int, len(g.Tasks))
	parent := make(map[string]string)

	var dfs func(node string) []string
	dfs = func(node string) []string {
		color[node] = gray
		for _, next := range g.Adj[node] {
			if color[next] == gray {
				// Found a cycle, walk the parents back to where it closes
				cycle := []string{next, node}
				cur := node
				for cur != next {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	for _, id := range g.Order {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// Edges returns every edge as a (prerequisite, dependent) pair, ordered by the
// dependent's input position and then by the order its dependencies were listed.
func (g *TaskGraph) Edges() []Edge {
	var edges []Edge
	for _, id := range g.Order {
		for _, pred := range g.RevAdj[id] {
			edges = append(edges, Edge{From: pred, To: id})
		}
	}
	return edges
}

// Predecessors returns the tasks id depends on.
func (g *TaskGraph) Predecessors(id string) []string {
	return g.RevAdj[id]
}

// Successors returns the tasks that depend on id.
func (g *TaskGraph) Successors(id string) []string {
	return g.Adj[id]
}

// Roots returns tasks with no prerequisites, in input order.
func (g *TaskGraph) Roots() []string {
	var roots []string
	for _, id := range g.Order {
		if len(g.RevAdj[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// Leaves returns tasks nothing depends on, in input order.
func (g *TaskGraph) Leaves() []string {
	var leaves []string
	for _, id := range g.Order {
		if len(g.Adj[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// TaskCount returns the number of tasks in the graph.
func (g *TaskGraph) TaskCount() int {
	return len(g.Tasks)
}
