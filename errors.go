package famtree

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation   = errors.New("famtree: invalid person set")
	ErrNotFound     = errors.New("famtree: person not found")
	ErrTreeNotFound = errors.New("famtree: tree not found")
)

// Problem describes one structural violation found at construction.
type Problem struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// ValidationError is returned by NewForest when the person set is not a
// well-formed forest. It lists every offending id.
type ValidationError struct {
	Problems []Problem `json:"problems"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = fmt.Sprintf("%q: %s", p.ID, p.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IDs returns the offending ids in the order they were found, without duplicates.
func (e *ValidationError) IDs() []string {
	seen := make(map[string]bool, len(e.Problems))
	ids := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		ids = append(ids, p.ID)
	}
	return ids
}

// NotFoundError is returned by queries given an unknown id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrNotFound, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
