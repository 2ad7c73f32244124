// Package source reads person sets from tabular and literal sources.
//
// CSV input needs a header row. Recognised columns (case-insensitive):
//
//	id         | name
//	generation
//	parent_id  | parent
//	attribute  | profession
//
// Unknown columns are ignored. An empty parent cell, or one spelling
// None/null, marks a root.
//
// YAML input is either a list of persons or a document with an optional
// id and a persons list, matching famtree.Tree.
package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/meikuraledutech/famtree"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned by ReadFile for unknown extensions.
var ErrUnsupportedFormat = errors.New("source: unsupported file format")

var columnAliases = map[string]string{
	"id":         "id",
	"name":       "id",
	"generation": "generation",
	"parent_id":  "parent_id",
	"parent":     "parent_id",
	"attribute":  "attribute",
	"profession": "attribute",
}

// ParseCSV reads persons from CSV, preserving row order.
func ParseCSV(r io.Reader) ([]famtree.Person, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("source: read CSV header: %w", err)
	}

	cols := make(map[string]int)
	for i, h := range headers {
		key, ok := columnAliases[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if _, dup := cols[key]; dup {
			return nil, fmt.Errorf("source: column %q given twice", key)
		}
		cols[key] = i
	}
	for _, required := range []string{"id", "generation"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("source: missing %q column", required)
		}
	}

	cell := func(row []string, key string) string {
		i, ok := cols[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	persons := []famtree.Person{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("source: line %d: %w", line, err)
		}

		gen, err := strconv.Atoi(cell(row, "generation"))
		if err != nil {
			return nil, fmt.Errorf("source: line %d: invalid generation: %w", line, err)
		}
		persons = append(persons, famtree.Person{
			ID:         cell(row, "id"),
			Generation: gen,
			ParentID:   normalizeParent(cell(row, "parent_id")),
			Attribute:  cell(row, "attribute"),
		})
	}
	return persons, nil
}

// ParseYAML reads a tree from YAML. The returned tree id is empty when the
// document is a bare list.
func ParseYAML(data []byte) (*famtree.Tree, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("source: parse YAML: %w", err)
	}

	t := &famtree.Tree{}
	if len(node.Content) == 0 {
		return t, nil
	}
	switch doc := node.Content[0]; doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&t.Persons); err != nil {
			return nil, fmt.Errorf("source: decode persons: %w", err)
		}
	case yaml.MappingNode:
		var raw struct {
			ID      string           `yaml:"id"`
			Persons []famtree.Person `yaml:"persons"`
		}
		if err := doc.Decode(&raw); err != nil {
			return nil, fmt.Errorf("source: decode tree: %w", err)
		}
		t.ID, t.Persons = raw.ID, raw.Persons
	default:
		return nil, fmt.Errorf("source: expected a list or a mapping at the top level")
	}

	for i := range t.Persons {
		t.Persons[i].ParentID = normalizeParent(t.Persons[i].ParentID)
	}
	return t, nil
}

// ReadFile loads a tree from a .csv, .yaml or .yml file. For CSV the tree
// id is the file name without extension.
func ReadFile(path string) (*famtree.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		persons, err := ParseCSV(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return &famtree.Tree{
			ID:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Persons: persons,
		}, nil
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func normalizeParent(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "null", "~":
		return ""
	}
	return strings.TrimSpace(s)
}
