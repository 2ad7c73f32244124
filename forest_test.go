package famtree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallFamily() []Person {
	return []Person{
		{ID: "Saleem", Generation: 0, Attribute: "Grandfather"},
		{ID: "Samia", Generation: 0, Attribute: "Grandmother"},
		{ID: "Talal", Generation: 1, ParentID: "Saleem", Attribute: "Father"},
		{ID: "Laila", Generation: 1, ParentID: "Saleem", Attribute: "Mother"},
	}
}

func threeGenerations() []Person {
	return append(smallFamily(),
		Person{ID: "Ghada", Generation: 2, ParentID: "Talal", Attribute: "Finance"},
		Person{ID: "Khloud", Generation: 2, ParentID: "Laila", Attribute: "Finance"},
		Person{ID: "Dalia", Generation: 2, ParentID: "Talal", Attribute: "Accounting"},
		Person{ID: "Layan", Generation: 3, ParentID: "Ghada", Attribute: "Child"},
	)
}

func ids(persons []Person) []string {
	out := make([]string, len(persons))
	for i, p := range persons {
		out[i] = p.ID
	}
	return out
}

func mustForest(t *testing.T, persons []Person) *Forest {
	t.Helper()
	f, err := NewForest(persons)
	require.NoError(t, err)
	return f
}

func TestForest_SmallFamily(t *testing.T) {
	f := mustForest(t, smallFamily())

	assert.Equal(t, []string{"Saleem", "Samia"}, ids(f.Roots()))

	children, err := f.ChildrenOf("Saleem")
	require.NoError(t, err)
	assert.Equal(t, []string{"Talal", "Laila"}, ids(children))

	assert.Equal(t, []string{"Talal", "Laila"}, ids(f.ByGeneration(1)))

	stats := f.Statistics()
	assert.Equal(t, 4, stats.TotalCount)
	assert.Equal(t, map[int]int{0: 2, 1: 2}, stats.GenerationCounts)
	assert.Equal(t, 2, stats.RootCount)
	assert.Equal(t, 3, stats.LeafCount)
	assert.Equal(t, 1, stats.ParentCount)
	assert.Equal(t, 2, stats.GenerationTotal)
}

func TestForest_Get(t *testing.T) {
	f := mustForest(t, smallFamily())

	p, err := f.Get("Laila")
	require.NoError(t, err)
	assert.Equal(t, Person{ID: "Laila", Generation: 1, ParentID: "Saleem", Attribute: "Mother"}, p)

	_, err = f.Get("Nobody")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Nobody", nf.ID)
}

func TestForest_ChildrenOf(t *testing.T) {
	f := mustForest(t, threeGenerations())

	leaf, err := f.ChildrenOf("Layan")
	require.NoError(t, err)
	assert.NotNil(t, leaf)
	assert.Empty(t, leaf)

	talal, err := f.ChildrenOf("Talal")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ghada", "Dalia"}, ids(talal))

	_, err = f.ChildrenOf("Ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestForest_ParentOf(t *testing.T) {
	f := mustForest(t, threeGenerations())

	parent, ok, err := f.ParentOf("Layan")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Ghada", parent.ID)

	_, ok, err = f.ParentOf("Samia")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = f.ParentOf("Ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestForest_ByGenerationEmpty(t *testing.T) {
	f := mustForest(t, smallFamily())

	got := f.ByGeneration(7)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestForest_Generations(t *testing.T) {
	f := mustForest(t, threeGenerations())
	assert.Equal(t, []int{0, 1, 2, 3}, f.Generations())
}

func TestForest_DirectedEdges(t *testing.T) {
	f := mustForest(t, threeGenerations())

	edges := f.DirectedEdges()
	stats := f.Statistics()
	assert.Len(t, edges, stats.TotalCount-stats.RootCount)
	assert.Equal(t, []Edge{
		{ParentID: "Saleem", ChildID: "Talal"},
		{ParentID: "Saleem", ChildID: "Laila"},
		{ParentID: "Talal", ChildID: "Ghada"},
		{ParentID: "Laila", ChildID: "Khloud"},
		{ParentID: "Talal", ChildID: "Dalia"},
		{ParentID: "Ghada", ChildID: "Layan"},
	}, edges)
}

func TestForest_AttributeCounts(t *testing.T) {
	f := mustForest(t, threeGenerations())
	stats := f.Statistics()
	assert.Equal(t, 2, stats.AttributeCounts["Finance"])
	assert.Equal(t, 1, stats.AttributeCounts["Child"])
}

func TestForest_Graph(t *testing.T) {
	f := mustForest(t, smallFamily())

	g := f.Graph(IconSet{"Father": "👨"})
	require.Len(t, g.Nodes, 4)
	assert.Equal(t, GraphNode{ID: "Talal", Label: "Talal 👨", Title: "Father", Group: 1}, g.Nodes[2])
	assert.Equal(t, "Saleem "+DefaultIcon, g.Nodes[0].Label)
	assert.Equal(t, f.DirectedEdges(), g.Edges)
}

// Every non-root person appears in exactly one ChildrenOf result, and
// every edge goes to a strictly later generation.
func TestForest_PartitionProperty(t *testing.T) {
	persons := threeGenerations()
	f := mustForest(t, persons)

	seen := make(map[string]int)
	for _, p := range persons {
		children, err := f.ChildrenOf(p.ID)
		require.NoError(t, err)
		for _, c := range children {
			seen[c.ID]++
			assert.Greater(t, c.Generation, p.Generation)
		}
	}
	for _, p := range persons {
		if p.IsRoot() {
			assert.Zero(t, seen[p.ID], p.ID)
		} else {
			assert.Equal(t, 1, seen[p.ID], p.ID)
		}
	}
}

func TestForest_QueriesAreIdempotent(t *testing.T) {
	f := mustForest(t, threeGenerations())

	first := f.Statistics()
	first.GenerationCounts[0] = 99
	first.AttributeCounts["Finance"] = 99
	assert.Equal(t, f.Statistics(), f.Statistics())
	assert.Equal(t, 2, f.Statistics().GenerationCounts[0])

	roots := f.Roots()
	roots[0].ID = "changed"
	assert.Equal(t, []string{"Saleem", "Samia"}, ids(f.Roots()))

	edges := f.DirectedEdges()
	edges[0].ChildID = "changed"
	assert.Equal(t, "Talal", f.DirectedEdges()[0].ChildID)

	c1, _ := f.ChildrenOf("Talal")
	c2, _ := f.ChildrenOf("Talal")
	assert.Equal(t, c1, c2)
}

func TestForest_InputNotAliased(t *testing.T) {
	persons := smallFamily()
	f := mustForest(t, persons)

	persons[0].Attribute = "changed"
	p, err := f.Get("Saleem")
	require.NoError(t, err)
	assert.Equal(t, "Grandfather", p.Attribute)
}

func TestForest_Empty(t *testing.T) {
	f := mustForest(t, nil)
	assert.Zero(t, f.Len())
	assert.Empty(t, f.Roots())
	assert.Empty(t, f.DirectedEdges())
	assert.Equal(t, 0, f.Statistics().TotalCount)
}
