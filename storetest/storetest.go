// Package storetest holds the behaviour every famtree.Store implementation
// must share. Implementations call Run from their own tests.
package storetest

import (
	"context"
	"testing"

	"github.com/meikuraledutech/famtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Family is a small valid person set whose first entry precedes its parent.
func Family() []famtree.Person {
	return []famtree.Person{
		{ID: "Talal", Generation: 1, ParentID: "Saleem", Attribute: "Father"},
		{ID: "Saleem", Generation: 0, Attribute: "Grandfather"},
		{ID: "Samia", Generation: 0, Attribute: "Grandmother"},
		{ID: "Saleem Jr", Generation: 2, ParentID: "Talal", Attribute: "Finance"},
	}
}

// Run exercises s against the shared contract. newStore must return an
// empty store with its schema created.
func Run(t *testing.T, newStore func(t *testing.T) famtree.Store) {
	t.Run("RoundTripKeepsOrder", func(t *testing.T) { roundTrip(t, newStore(t)) })
	t.Run("EmptyTree", func(t *testing.T) { emptyTree(t, newStore(t)) })
	t.Run("ReplaceKeepsListOrder", func(t *testing.T) { replaceKeepsListOrder(t, newStore(t)) })
	t.Run("GetPerson", func(t *testing.T) { getPerson(t, newStore(t)) })
	t.Run("Delete", func(t *testing.T) { deleteTree(t, newStore(t)) })
	t.Run("RejectsInvalid", func(t *testing.T) { rejectsInvalid(t, newStore(t)) })
	t.Run("GeneratesID", func(t *testing.T) { generatesID(t, newStore(t)) })
}

func roundTrip(t *testing.T, s famtree.Store) {
	ctx := context.Background()

	saved, err := s.SaveTree(ctx, &famtree.Tree{ID: "fam", Persons: Family()})
	require.NoError(t, err)
	assert.Equal(t, "fam", saved.ID)

	got, err := s.GetTree(ctx, "fam")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, Family(), got.Persons)

	f, err := famtree.Load(ctx, s, "fam")
	require.NoError(t, err)
	assert.Equal(t, 4, f.Len())
}

func emptyTree(t *testing.T, s famtree.Store) {
	ctx := context.Background()

	_, err := s.SaveTree(ctx, &famtree.Tree{ID: "empty", Persons: nil})
	require.NoError(t, err)

	got, err := s.GetTree(ctx, "empty")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "empty", got.ID)
	assert.NotNil(t, got.Persons)
	assert.Empty(t, got.Persons)

	ids, err := s.ListTrees(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"empty"}, ids)

	f, err := famtree.Load(ctx, s, "empty")
	require.NoError(t, err)
	assert.Zero(t, f.Len())
}

func replaceKeepsListOrder(t *testing.T, s famtree.Store) {
	ctx := context.Background()

	for _, id := range []string{"one", "two", "three"} {
		_, err := s.SaveTree(ctx, &famtree.Tree{ID: id, Persons: Family()})
		require.NoError(t, err)
	}
	_, err := s.SaveTree(ctx, &famtree.Tree{ID: "one", Persons: Family()[1:3]})
	require.NoError(t, err)

	ids, err := s.ListTrees(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, ids)

	one, err := s.GetTree(ctx, "one")
	require.NoError(t, err)
	assert.Equal(t, Family()[1:3], one.Persons)
}

func getPerson(t *testing.T, s famtree.Store) {
	ctx := context.Background()
	_, err := s.SaveTree(ctx, &famtree.Tree{ID: "fam", Persons: Family()})
	require.NoError(t, err)

	p, err := s.GetPerson(ctx, "fam", "Saleem Jr")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, Family()[3], *p)

	root, err := s.GetPerson(ctx, "fam", "Samia")
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.True(t, root.IsRoot())

	for _, tc := range [][2]string{{"fam", "Nobody"}, {"missing", "Talal"}} {
		p, err := s.GetPerson(ctx, tc[0], tc[1])
		require.NoError(t, err)
		assert.Nil(t, p)
	}
}

func deleteTree(t *testing.T, s famtree.Store) {
	ctx := context.Background()
	_, err := s.SaveTree(ctx, &famtree.Tree{ID: "fam", Persons: Family()})
	require.NoError(t, err)

	require.NoError(t, s.DeleteTree(ctx, "fam"))
	require.NoError(t, s.DeleteTree(ctx, "missing"))

	got, err := s.GetTree(ctx, "fam")
	require.NoError(t, err)
	assert.Nil(t, got)

	p, err := s.GetPerson(ctx, "fam", "Talal")
	require.NoError(t, err)
	assert.Nil(t, p)

	ids, err := s.ListTrees(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = famtree.Load(ctx, s, "fam")
	assert.ErrorIs(t, err, famtree.ErrTreeNotFound)
}

func rejectsInvalid(t *testing.T, s famtree.Store) {
	ctx := context.Background()

	_, err := s.SaveTree(ctx, &famtree.Tree{ID: "bad", Persons: []famtree.Person{
		{ID: "A", Generation: 0, ParentID: "B"},
		{ID: "B", Generation: 0, ParentID: "A"},
	}})
	assert.ErrorIs(t, err, famtree.ErrValidation)

	got, err := s.GetTree(ctx, "bad")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func generatesID(t *testing.T, s famtree.Store) {
	saved, err := s.SaveTree(context.Background(), &famtree.Tree{Persons: Family()})
	require.NoError(t, err)
	assert.Len(t, saved.ID, 36)
}
