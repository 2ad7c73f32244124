package famtree

// Tree is a named batch of persons, the unit that gets persisted and reloaded.
type Tree struct {
	ID      string   `json:"id"`
	Persons []Person `json:"persons"`
}

// Person is one member of a relationship forest.
// An empty ParentID marks a root.
type Person struct {
	ID         string `json:"id" yaml:"id" validate:"required"`
	Generation int    `json:"generation" yaml:"generation" validate:"gte=0"`
	ParentID   string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Attribute  string `json:"attribute" yaml:"attribute"`
}

// IsRoot reports whether p has no parent.
func (p Person) IsRoot() bool {
	return p.ParentID == ""
}

// Edge is a directed parent → child connection.
type Edge struct {
	ParentID string `json:"parent_id"`
	ChildID  string `json:"child_id"`
}

// Statistics is the aggregate view of a forest.
type Statistics struct {
	TotalCount       int            `json:"total_count"`
	RootCount        int            `json:"root_count"`
	GenerationCounts map[int]int    `json:"generation_counts"`
	GenerationTotal  int            `json:"generation_total"`
	LeafCount        int            `json:"leaf_count"`
	ParentCount      int            `json:"parent_count"`
	AttributeCounts  map[string]int `json:"attribute_counts"`
}

// Graph is the nodes/edges/metadata triple handed to a graph renderer.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []Edge      `json:"edges"`
}

// GraphNode carries the per-node display hints.
// Group is the generation, used for hierarchical layout and colouring.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
	Group int    `json:"group"`
}

// DefaultIcon is used when an IconSet has no entry for an attribute.
const DefaultIcon = "👤"

// IconSet maps an attribute (e.g. a profession) to a display icon.
type IconSet map[string]string

// For returns the icon for attribute, falling back to DefaultIcon.
func (s IconSet) For(attribute string) string {
	if icon, ok := s[attribute]; ok && icon != "" {
		return icon
	}
	return DefaultIcon
}
