package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meikuraledutech/famtree"
)

// SaveTree saves a full person set in one transaction.
// The set is validated with famtree.NewForest first, so only well-formed
// forests reach the database. If t.ID is empty, a UUID is auto-generated.
// An existing tree with the same id is replaced.
func (s *PGStore) SaveTree(ctx context.Context, t *famtree.Tree) (*famtree.Tree, error) {
	if _, err := famtree.NewForest(t.Persons); err != nil {
		return nil, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("famtree: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO family_trees (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, t.ID,
	); err != nil {
		return nil, fmt.Errorf("famtree: insert tree: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM family_persons WHERE tree_id = $1`, t.ID); err != nil {
		return nil, fmt.Errorf("famtree: delete persons: %w", err)
	}

	for i, p := range t.Persons {
		if _, err := tx.Exec(ctx,
			`INSERT INTO family_persons (tree_id, id, position, generation, parent_id, attribute) VALUES ($1, $2, $3, $4, $5, $6)`,
			t.ID, p.ID, i, p.Generation, nullable(p.ParentID), p.Attribute,
		); err != nil {
			return nil, fmt.Errorf("famtree: insert person %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("famtree: commit: %w", err)
	}
	return t, nil
}

// GetTree retrieves a full person set in its saved order.
// Returns nil, nil if the tree doesn't exist. An empty tree has no persons.
func (s *PGStore) GetTree(ctx context.Context, treeID string) (*famtree.Tree, error) {
	var exists int
	err := s.db.QueryRow(ctx, `SELECT 1 FROM family_trees WHERE id = $1`, treeID).Scan(&exists)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("famtree: get tree: %w", err)
	}

	persons, err := s.listPersons(ctx, treeID)
	if err != nil {
		return nil, err
	}
	return &famtree.Tree{ID: treeID, Persons: persons}, nil
}

// DeleteTree removes a tree; its persons are cascade-deleted by the DB.
// No error if the treeID doesn't exist.
func (s *PGStore) DeleteTree(ctx context.Context, treeID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM family_trees WHERE id = $1`, treeID); err != nil {
		return fmt.Errorf("famtree: delete tree: %w", err)
	}
	return nil
}

// ListTrees returns every tree id in the order they were first saved.
func (s *PGStore) ListTrees(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT id FROM family_trees ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("famtree: list trees: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("famtree: scan tree: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("famtree: rows trees: %w", err)
	}
	return ids, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
