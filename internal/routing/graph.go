package routing

import (
	"sort"

	"github.com/nerrad567/wayfinder-core/internal/floorplan"
)

// Graph maps node ID to neighbour ID to edge distance. It is symmetric.
type Graph map[string]map[string]float64

// BuildGraph converts fp into an adjacency map. Every gate and special area
// becomes a node, even with no edges. Blocked paths are skipped and
// duplicate gate pairs keep the last declared distance.
// Runs in O(gates + paths).
func BuildGraph(fp *floorplan.FloorPlan) Graph {
	g, _ := build(fp)
	return g
}

// edgeKey identifies an undirected edge; a <= b.
type edgeKey struct{ a, b string }

func keyOf(x, y string) edgeKey {
	if x > y {
		x, y = y, x
	}
	return edgeKey{a: x, b: y}
}

// build returns the graph plus the path record that won each edge.
func build(fp *floorplan.FloorPlan) (Graph, map[edgeKey]floorplan.Path) {
	g := make(Graph, len(fp.Gates)+len(fp.SpecialAreas))
	edges := make(map[edgeKey]floorplan.Path, len(fp.Paths))

	for _, gate := range fp.Gates {
		g.addNode(gate.ID)
	}
	for _, area := range fp.SpecialAreas {
		g.addNode(area.ID)
	}

	for _, p := range fp.Paths {
		if p.IsBlocked {
			continue
		}
		g.addNode(p.From)
		g.addNode(p.To)
		g[p.From][p.To] = p.Distance
		g[p.To][p.From] = p.Distance
		edges[keyOf(p.From, p.To)] = p
	}
	return g, edges
}

func (g Graph) addNode(id string) {
	if _, ok := g[id]; !ok {
		g[id] = make(map[string]float64)
	}
}

// Nodes returns every node ID in ascending order.
func (g Graph) Nodes() []string {
	ids := make([]string, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Weight returns the distance of the edge a-b.
func (g Graph) Weight(a, b string) (float64, bool) {
	w, ok := g[a][b]
	return w, ok
}

// EdgeCount returns the number of undirected edges.
func (g Graph) EdgeCount() int {
	n := 0
	for _, nbrs := range g {
		n += len(nbrs)
	}
	return n / 2
}
