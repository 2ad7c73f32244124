package famtree

import "context"

// Store defines the contract for persisting and retrieving person sets.
// Implementations validate a tree with NewForest before saving it, so a
// stored tree always loads into a valid Forest.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Trees (bulk operations)
	SaveTree(ctx context.Context, t *Tree) (*Tree, error)
	GetTree(ctx context.Context, treeID string) (*Tree, error)
	DeleteTree(ctx context.Context, treeID string) error
	ListTrees(ctx context.Context) ([]string, error)

	// Persons
	GetPerson(ctx context.Context, treeID, personID string) (*Person, error)
}

// Load fetches a tree from s and builds its Forest.
// Returns ErrTreeNotFound if the store has no such tree.
func Load(ctx context.Context, s Store, treeID string) (*Forest, error) {
	t, err := s.GetTree(ctx, treeID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTreeNotFound
	}
	return NewForest(t.Persons)
}
