package routing

import (
	"fmt"
	"math"
)

// EdgeFilter reports whether the edge from -> to may be relaxed.
// A nil filter admits every edge.
type EdgeFilter func(from, to string) bool

// Path is a shortest-path result.
type Path struct {
	Nodes    []string
	Distance float64
}

// search holds the per-invocation state of one Dijkstra run.
// Slices are indexed by position in nodes, which is sorted.
type search struct {
	nodes   []string
	index   map[string]int
	dist    []float64
	prev    []int
	visited []bool
}

func newSearch(g Graph, source string) (*search, int, error) {
	nodes := g.Nodes()
	s := &search{
		nodes:   nodes,
		index:   make(map[string]int, len(nodes)),
		dist:    make([]float64, len(nodes)),
		prev:    make([]int, len(nodes)),
		visited: make([]bool, len(nodes)),
	}
	for i, id := range nodes {
		s.index[id] = i
		s.dist[i] = math.Inf(1)
		s.prev[i] = -1
	}

	src, ok := s.index[source]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrNodeNotFound, source)
	}
	s.dist[src] = 0
	return s, src, nil
}

// next returns the unvisited node with the smallest finite distance, lowest
// index on ties, or -1.
func (s *search) next() int {
	best := -1
	for i := range s.nodes {
		if s.visited[i] || math.IsInf(s.dist[i], 1) {
			continue
		}
		if best < 0 || s.dist[i] < s.dist[best] {
			best = i
		}
	}
	return best
}

// run settles nodes until target is popped (target < 0 settles everything).
func (s *search) run(g Graph, target int, filter EdgeFilter) {
	for range len(s.nodes) {
		u := s.next()
		if u < 0 {
			return
		}
		s.visited[u] = true
		if u == target {
			return
		}

		from := s.nodes[u]
		for nbr, w := range g[from] {
			v, ok := s.index[nbr]
			if !ok || s.visited[v] {
				continue
			}
			if filter != nil && !filter(from, nbr) {
				continue
			}
			if d := s.dist[u] + w; d < s.dist[v] {
				s.dist[v] = d
				s.prev[v] = u
			}
		}
	}
}

// ShortestPath returns the minimum-distance node sequence from source to
// target, both inclusive. It fails with ErrNoPathFound when target is
// unreachable and never returns a partial path.
func ShortestPath(g Graph, source, target string, filter EdgeFilter) (Path, error) {
	s, src, err := newSearch(g, source)
	if err != nil {
		return Path{}, err
	}
	dst, ok := s.index[target]
	if !ok {
		return Path{}, fmt.Errorf("%w: %s", ErrNodeNotFound, target)
	}

	s.run(g, dst, filter)

	if math.IsInf(s.dist[dst], 1) {
		return Path{}, fmt.Errorf("%w: %s to %s", ErrNoPathFound, source, target)
	}

	// Walk back at most len(nodes) links.
	reversed := []string{target}
	for cur, hops := dst, 0; cur != src; hops++ {
		if hops >= len(s.nodes) {
			return Path{}, ErrCorruptPredecessors
		}
		cur = s.prev[cur]
		if cur < 0 {
			return Path{}, ErrCorruptPredecessors
		}
		reversed = append(reversed, s.nodes[cur])
	}

	nodes := make([]string, len(reversed))
	for i, id := range reversed {
		nodes[len(reversed)-1-i] = id
	}
	return Path{Nodes: nodes, Distance: s.dist[dst]}, nil
}

// Distances returns the shortest distance from source to every reachable node.
func Distances(g Graph, source string, filter EdgeFilter) (map[string]float64, error) {
	s, _, err := newSearch(g, source)
	if err != nil {
		return nil, err
	}
	s.run(g, -1, filter)

	out := make(map[string]float64)
	for i, d := range s.dist {
		if !math.IsInf(d, 1) {
			out[s.nodes[i]] = d
		}
	}
	return out, nil
}
