package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meikuraledutech/famtree"
)

const personColumns = `id, generation, COALESCE(parent_id, ''), attribute`

// GetPerson fetches a single person of a tree.
// Returns nil, nil if not found.
func (s *PGStore) GetPerson(ctx context.Context, treeID, personID string) (*famtree.Person, error) {
	var p famtree.Person
	err := s.db.QueryRow(ctx,
		`SELECT `+personColumns+` FROM family_persons WHERE tree_id = $1 AND id = $2`, treeID, personID,
	).Scan(&p.ID, &p.Generation, &p.ParentID, &p.Attribute)

	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("famtree: get person: %w", err)
	}

	return &p, nil
}

// listPersons returns all persons for a treeID in saved order.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) listPersons(ctx context.Context, treeID string) ([]famtree.Person, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+personColumns+` FROM family_persons WHERE tree_id = $1 ORDER BY position`, treeID)
	if err != nil {
		return nil, fmt.Errorf("famtree: list persons: %w", err)
	}
	defer rows.Close()

	persons := []famtree.Person{}
	for rows.Next() {
		var p famtree.Person
		if err := rows.Scan(&p.ID, &p.Generation, &p.ParentID, &p.Attribute); err != nil {
			return nil, fmt.Errorf("famtree: scan person: %w", err)
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("famtree: rows persons: %w", err)
	}

	return persons, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
