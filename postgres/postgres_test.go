package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/famtree"
	"github.com/meikuraledutech/famtree/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ famtree.Store = (*PGStore)(nil)

func newTestStore(t *testing.T) famtree.Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL is not set; skipping PostgreSQL integration test")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s := New(pool)
	require.NoError(t, s.DropSchema(ctx))
	require.NoError(t, s.CreateSchema(ctx))
	t.Cleanup(func() { _ = s.DropSchema(context.Background()) })
	return s
}

func TestPGStore_Contract(t *testing.T) {
	storetest.Run(t, newTestStore)
}

func TestPGStore_RejectsInvalidWithoutTouchingDB(t *testing.T) {
	s := &PGStore{db: nil}
	_, err := s.SaveTree(context.Background(), &famtree.Tree{ID: "bad", Persons: []famtree.Person{
		{ID: "A", Generation: 0, ParentID: "B"},
		{ID: "B", Generation: 0, ParentID: "A"},
	}})
	assert.ErrorIs(t, err, famtree.ErrValidation)
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	require.NotNil(t, nullable("x"))
	assert.Equal(t, "x", *nullable("x"))
}
