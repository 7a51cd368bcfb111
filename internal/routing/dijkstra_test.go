package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type edge struct {
	a, b string
	w    float64
}

func graphOf(edges ...edge) Graph {
	g := Graph{}
	for _, e := range edges {
		g.addNode(e.a)
		g.addNode(e.b)
		g[e.a][e.b] = e.w
		g[e.b][e.a] = e.w
	}
	return g
}

func TestShortestPath(t *testing.T) {
	g := graphOf(
		edge{"A", "B", 4},
		edge{"A", "C", 1},
		edge{"C", "B", 2},
		edge{"B", "D", 5},
		edge{"C", "D", 8},
	)

	p, err := ShortestPath(g, "A", "D", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B", "D"}, p.Nodes)
	assert.Equal(t, 8.0, p.Distance)
}

func TestShortestPath_TieBreakLowestID(t *testing.T) {
	g := graphOf(
		edge{"A", "C", 1},
		edge{"C", "D", 1},
		edge{"A", "B", 1},
		edge{"B", "D", 1},
	)

	for range 20 {
		p, err := ShortestPath(g, "A", "D", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "D"}, p.Nodes)
	}
}

func TestShortestPath_SourceIsTarget(t *testing.T) {
	g := graphOf(edge{"A", "B", 3})

	p, err := ShortestPath(g, "A", "A", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, p.Nodes)
	assert.Zero(t, p.Distance)
}

func TestShortestPath_Unreachable(t *testing.T) {
	g := graphOf(edge{"A", "B", 3}, edge{"C", "D", 1})

	_, err := ShortestPath(g, "A", "D", nil)
	assert.ErrorIs(t, err, ErrNoPathFound)
}

func TestShortestPath_UnknownNode(t *testing.T) {
	g := graphOf(edge{"A", "B", 3})

	_, err := ShortestPath(g, "Z", "B", nil)
	assert.ErrorIs(t, err, ErrNodeNotFound)
	_, err = ShortestPath(g, "A", "Z", nil)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestShortestPath_Filter(t *testing.T) {
	g := graphOf(
		edge{"A", "B", 1},
		edge{"B", "D", 1},
		edge{"A", "C", 5},
		edge{"C", "D", 5},
	)

	noB := func(_, to string) bool { return to != "B" }
	p, err := ShortestPath(g, "A", "D", noB)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "D"}, p.Nodes)
	assert.Equal(t, 10.0, p.Distance)

	none := func(string, string) bool { return false }
	_, err = ShortestPath(g, "A", "D", none)
	assert.ErrorIs(t, err, ErrNoPathFound)
}

func TestShortestPath_DirectedFilterAsymmetry(t *testing.T) {
	g := graphOf(edge{"A", "B", 2})
	oneWay := func(from, to string) bool { return !(from == "B" && to == "A") }

	_, err := ShortestPath(g, "A", "B", oneWay)
	assert.NoError(t, err)
	_, err = ShortestPath(g, "B", "A", oneWay)
	assert.ErrorIs(t, err, ErrNoPathFound)
}

func TestDistances(t *testing.T) {
	g := graphOf(edge{"A", "B", 2}, edge{"B", "C", 3})
	g.addNode("Z")

	d, err := Distances(g, "A", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"A": 0, "B": 2, "C": 5}, d)

	_, err = Distances(g, "nope", nil)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}
