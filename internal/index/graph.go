package index

import "slices"

// DependencyGraph is a directed graph over int64 vertices stored as an
// adjacency list. An edge from A to B means A depends on B.
type DependencyGraph struct {
	adjacency map[int64][]int64
}

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{adjacency: make(map[int64][]int64)}
}

// AddVertex registers id with no neighbors. Existing vertices are left as they are.
func (g *DependencyGraph) AddVertex(id int64) {
	if _, ok := g.adjacency[id]; !ok {
		g.adjacency[id] = []int64{}
	}
}

// AddEdge adds a directed edge from -> to, creating either vertex if needed.
// Duplicate edges are ignored.
func (g *DependencyGraph) AddEdge(from, to int64) {
	g.AddVertex(from)
	g.AddVertex(to)

	if slices.Contains(g.adjacency[from], to) {
		return
	}
	g.adjacency[from] = append(g.adjacency[from], to)
}

// HasVertex reports whether id is a vertex of the graph.
func (g *DependencyGraph) HasVertex(id int64) bool {
	_, ok := g.adjacency[id]
	return ok
}

// Neighbors returns a copy of the outgoing edges of id in insertion order.
func (g *DependencyGraph) Neighbors(id int64) []int64 {
	return slices.Clone(g.adjacency[id])
}

// VertexCount returns the number of vertices.
func (g *DependencyGraph) VertexCount() int {
	return len(g.adjacency)
}

// BreadthFirstSearch returns every vertex reachable from start, start first,
// in breadth-first order. Neighbors are visited in the order their edges were
// added. Vertices are marked when enqueued, so cycles terminate and nothing is
// reported twice. An unknown start yields an empty slice.
func (g *DependencyGraph) BreadthFirstSearch(start int64) []int64 {
	result := []int64{}
	if !g.HasVertex(start) {
		return result
	}

	visited := map[int64]bool{start: true}
	queue := []int64{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		for _, next := range g.adjacency[current] {
			if visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}

	return result
}

// Clear removes all vertices and edges.
func (g *DependencyGraph) Clear() {
	clear(g.adjacency)
}
