package famtree

import (
	"maps"
	"slices"
)

// Forest is a validated, read-only set of persons with a derived
// parent → children index. Persons live in a flat ordered slice and all
// relationships are id references resolved through the index.
//
// A Forest never changes after NewForest returns, so it is safe for
// concurrent readers. Every slice and map it hands out is a copy.
type Forest struct {
	persons  []Person
	index    map[string]int
	children map[string][]int
	edges    []Edge
	stats    Statistics
}

// NewForest validates persons and builds the index.
// Returns a *ValidationError (matching ErrValidation) listing every
// offending id if the set is not a well-formed forest.
func NewForest(persons []Person) (*Forest, error) {
	index, err := validatePersons(persons)
	if err != nil {
		return nil, err
	}

	f := &Forest{
		persons:  slices.Clone(persons),
		index:    index,
		children: make(map[string][]int),
		edges:    make([]Edge, 0, len(persons)),
	}
	for i, p := range f.persons {
		if p.IsRoot() {
			continue
		}
		f.children[p.ParentID] = append(f.children[p.ParentID], i)
		f.edges = append(f.edges, Edge{ParentID: p.ParentID, ChildID: p.ID})
	}
	f.stats = f.computeStatistics()
	return f, nil
}

// Len returns the number of persons.
func (f *Forest) Len() int {
	return len(f.persons)
}

// Get returns the person with the given id.
func (f *Forest) Get(id string) (Person, error) {
	i, ok := f.index[id]
	if !ok {
		return Person{}, &NotFoundError{ID: id}
	}
	return f.persons[i], nil
}

// Persons returns every person in insertion order.
func (f *Forest) Persons() []Person {
	return slices.Clone(f.persons)
}

// ChildrenOf returns the children of id in insertion order.
// The slice is empty, not nil, for a leaf.
func (f *Forest) ChildrenOf(id string) ([]Person, error) {
	if _, ok := f.index[id]; !ok {
		return nil, &NotFoundError{ID: id}
	}
	return f.pick(f.children[id]), nil
}

// ParentOf returns the parent of id. ok is false for a root.
func (f *Forest) ParentOf(id string) (parent Person, ok bool, err error) {
	p, err := f.Get(id)
	if err != nil {
		return Person{}, false, err
	}
	if p.IsRoot() {
		return Person{}, false, nil
	}
	return f.persons[f.index[p.ParentID]], true, nil
}

// Roots returns every person without a parent, in insertion order.
func (f *Forest) Roots() []Person {
	return f.filter(func(p Person) bool { return p.IsRoot() })
}

// ByGeneration returns the persons of generation n in insertion order.
// An empty generation yields an empty slice.
func (f *Forest) ByGeneration(n int) []Person {
	return f.filter(func(p Person) bool { return p.Generation == n })
}

// Generations returns the distinct generations present, ascending.
func (f *Forest) Generations() []int {
	gens := slices.Collect(maps.Keys(f.stats.GenerationCounts))
	slices.Sort(gens)
	return gens
}

// DirectedEdges returns one parent → child edge per non-root person,
// in insertion order.
func (f *Forest) DirectedEdges() []Edge {
	return slices.Clone(f.edges)
}

// Statistics returns the aggregate computed at construction.
func (f *Forest) Statistics() Statistics {
	s := f.stats
	s.GenerationCounts = maps.Clone(f.stats.GenerationCounts)
	s.AttributeCounts = maps.Clone(f.stats.AttributeCounts)
	return s
}

// Graph returns the nodes, edges and per-node display hints a graph
// renderer needs. Labels carry the attribute icon from icons.
func (f *Forest) Graph(icons IconSet) Graph {
	nodes := make([]GraphNode, len(f.persons))
	for i, p := range f.persons {
		nodes[i] = GraphNode{
			ID:    p.ID,
			Label: p.ID + " " + icons.For(p.Attribute),
			Title: p.Attribute,
			Group: p.Generation,
		}
	}
	return Graph{Nodes: nodes, Edges: f.DirectedEdges()}
}

func (f *Forest) computeStatistics() Statistics {
	s := Statistics{
		TotalCount:       len(f.persons),
		GenerationCounts: make(map[int]int),
		AttributeCounts:  make(map[string]int),
		ParentCount:      len(f.children),
	}
	for _, p := range f.persons {
		s.GenerationCounts[p.Generation]++
		if p.Attribute != "" {
			s.AttributeCounts[p.Attribute]++
		}
		if p.IsRoot() {
			s.RootCount++
		}
		if len(f.children[p.ID]) == 0 {
			s.LeafCount++
		}
	}
	s.GenerationTotal = len(s.GenerationCounts)
	return s
}

func (f *Forest) filter(keep func(Person) bool) []Person {
	out := []Person{}
	for _, p := range f.persons {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (f *Forest) pick(positions []int) []Person {
	out := make([]Person, len(positions))
	for i, pos := range positions {
		out[i] = f.persons[pos]
	}
	return out
}
