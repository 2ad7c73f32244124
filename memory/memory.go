// Package memory implements famtree.Store in process memory. It backs the
// server when no database is configured and stands in for Postgres in tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/meikuraledutech/famtree"
)

// MemStore keeps validated trees keyed by id, in save order.
type MemStore struct {
	mu    sync.RWMutex
	trees map[string][]famtree.Person
	order []string
}

// New creates an empty MemStore.
func New() *MemStore {
	return &MemStore{trees: make(map[string][]famtree.Person)}
}

// CreateSchema is a no-op.
func (s *MemStore) CreateSchema(ctx context.Context) error { return nil }

// DropSchema removes every tree.
func (s *MemStore) DropSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trees = make(map[string][]famtree.Person)
	s.order = nil
	return nil
}

// SaveTree validates t and stores a copy, replacing any tree with the same id.
// If t.ID is empty, a UUID is auto-generated.
func (s *MemStore) SaveTree(ctx context.Context, t *famtree.Tree) (*famtree.Tree, error) {
	if _, err := famtree.NewForest(t.Persons); err != nil {
		return nil, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trees[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.trees[t.ID] = append([]famtree.Person{}, t.Persons...)
	return t, nil
}

// GetTree returns a copy of the tree, or nil, nil if it doesn't exist.
func (s *MemStore) GetTree(ctx context.Context, treeID string) (*famtree.Tree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	persons, ok := s.trees[treeID]
	if !ok {
		return nil, nil
	}
	return &famtree.Tree{ID: treeID, Persons: append([]famtree.Person{}, persons...)}, nil
}

// DeleteTree removes a tree. No error if it doesn't exist.
func (s *MemStore) DeleteTree(ctx context.Context, treeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trees[treeID]; !ok {
		return nil
	}
	delete(s.trees, treeID)
	s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == treeID })
	return nil
}

// ListTrees returns the stored tree ids in the order they were first saved.
func (s *MemStore) ListTrees(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out, nil
}

// GetPerson returns one person of a tree, or nil, nil if either is missing.
func (s *MemStore) GetPerson(ctx context.Context, treeID, personID string) (*famtree.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.trees[treeID] {
		if p.ID == personID {
			return &p, nil
		}
	}
	return nil, nil
}
