package postgres

import "context"

// family_trees holds tree identity so empty trees exist and a replace-save
// keeps the tree's place in the list.
// position keeps the batch order: every row of one save shares created_at.
// The parent reference is deferred so a child may precede its parent.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS family_trees (
    id         TEXT PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
);

CREATE TABLE IF NOT EXISTS family_persons (
    tree_id    TEXT    NOT NULL REFERENCES family_trees(id) ON DELETE CASCADE,
    id         TEXT    NOT NULL,
    position   INTEGER NOT NULL,
    generation INTEGER NOT NULL CHECK (generation >= 0),
    parent_id  TEXT,
    attribute  TEXT    NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (tree_id, id),
    FOREIGN KEY (tree_id, parent_id) REFERENCES family_persons(tree_id, id)
        ON DELETE CASCADE DEFERRABLE INITIALLY DEFERRED
);

CREATE INDEX IF NOT EXISTS idx_family_persons_position ON family_persons(tree_id, position);
CREATE INDEX IF NOT EXISTS idx_family_persons_parent   ON family_persons(tree_id, parent_id);
`

// CreateSchema creates the family_trees and family_persons tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the family_persons and family_trees tables.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS family_persons, family_trees CASCADE;`)
	return err
}
