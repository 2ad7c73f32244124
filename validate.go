package famtree

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var personValidate = validator.New(validator.WithRequiredStructEnabled())

// validatePersons checks the person set and returns a *ValidationError
// listing every problem, or nil. index maps each id to its first position.
func validatePersons(persons []Person) (map[string]int, error) {
	var problems []Problem
	index := make(map[string]int, len(persons))

	for i, p := range persons {
		if err := personValidate.Struct(p); err != nil {
			problems = append(problems, fieldProblems(i, p, err)...)
		}
		if p.ID == "" {
			continue
		}
		if first, ok := index[p.ID]; ok {
			problems = append(problems, Problem{ID: p.ID, Reason: fmt.Sprintf("duplicate id (first at position %d)", first)})
			continue
		}
		index[p.ID] = i
	}

	for i, p := range persons {
		if p.IsRoot() || !isFirst(index, p.ID, i) {
			continue
		}
		pi, ok := index[p.ParentID]
		if !ok {
			problems = append(problems, Problem{ID: p.ID, Reason: fmt.Sprintf("parent %q does not exist", p.ParentID)})
			continue
		}
		if parent := persons[pi]; parent.Generation >= p.Generation {
			problems = append(problems, Problem{
				ID:     p.ID,
				Reason: fmt.Sprintf("generation %d is not greater than parent %q generation %d", p.Generation, parent.ID, parent.Generation),
			})
		}
	}

	for _, id := range findCycles(persons, index) {
		problems = append(problems, Problem{ID: id, Reason: "part of a parent cycle"})
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return index, nil
}

func fieldProblems(pos int, p Person, err error) []Problem {
	id := p.ID
	if id == "" {
		id = fmt.Sprintf("#%d", pos)
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Problem{{ID: id, Reason: err.Error()}}
	}
	out := make([]Problem, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, Problem{ID: id, Reason: fmt.Sprintf("field %s failed %q check", fe.Field(), fe.Tag())})
	}
	return out
}

// findCycles walks each person's ancestor chain. Every id is put on a path
// at most once, so the walk is linear in the number of persons. Returns the
// members of every cycle found, in walk order.
func findCycles(persons []Person, index map[string]int) []string {
	const (
		unvisited = 0
		onPath    = 1
		done      = 2
	)

	state := make(map[string]int, len(index))
	var cyclic []string

	for i, p := range persons {
		if !isFirst(index, p.ID, i) {
			continue
		}
		var path []string
		cur := p.ID
		for {
			switch state[cur] {
			case done:
			case onPath:
				for j := len(path) - 1; j >= 0; j-- {
					if path[j] == cur {
						cyclic = append(cyclic, path[j:]...)
						break
					}
				}
			case unvisited:
				state[cur] = onPath
				path = append(path, cur)
				parent := persons[index[cur]].ParentID
				if _, ok := index[parent]; ok {
					cur = parent
					continue
				}
			}
			break
		}
		for _, id := range path {
			state[id] = done
		}
	}
	return cyclic
}

func isFirst(index map[string]int, id string, pos int) bool {
	i, ok := index[id]
	return ok && i == pos
}
