package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/famtree"
	"github.com/meikuraledutech/famtree/postgres"
	"github.com/meikuraledutech/famtree/source"
)

//go:embed family.yaml
var familyYAML []byte

var professionIcons = famtree.IconSet{
	"Grandfather":                        "👴",
	"Grandmother":                        "👵",
	"Father":                             "👨",
	"Mother":                             "👩",
	"Obstetrics & Gynecology Consultant": "👩‍⚕️",
	"Human Resources Management":         "👩‍💼",
	"Orthodontics Consultant":            "🦷",
	"Finance":                            "💰",
	"Network Systems Engineering":        "💻",
	"Management Information Systems":     "📊",
	"Mechanical Engineering - Student":   "🔧",
	"Middle School Student":              "🎒",
	"Biochemistry & Nutrition":           "🧪",
	"Chemical Engineering":               "⚗️",
	"Accounting":                         "📝",
	"Mechanical Engineering":             "⚙️",
	"Biochemistry":                       "🔬",
	"Economics":                          "📈",
	"Network Security":                   "🔒",
	"Science":                            "🔭",
	"Marine Biology":                     "🐠",
	"Network Technology":                 "🌐",
	"Child":                              "👶",
}

var generationNames = map[int]string{
	0: "Grandparents",
	1: "Children",
	2: "Grandchildren",
	3: "Great-grandchildren",
}

func main() {
	ctx := context.Background()

	tree, err := source.ParseYAML(familyYAML)
	if err != nil {
		log.Fatalf("parse: %v", err)
	}

	forest, err := famtree.NewForest(tree.Persons)
	if err != nil {
		log.Fatalf("forest: %v", err)
	}

	// ── Statistics ────────────────────────────────────────────────────
	stats := forest.Statistics()
	fmt.Println("statistics:")
	printJSON(stats)
	fmt.Printf("professionals: %d\n", stats.TotalCount-stats.AttributeCounts["Child"])

	// ── Member cards per generation ───────────────────────────────────
	for _, gen := range forest.Generations() {
		fmt.Printf("\n%s:\n", generationNames[gen])
		for _, p := range forest.ByGeneration(gen) {
			fmt.Printf("  %s %s (%s)", p.ID, professionIcons.For(p.Attribute), p.Attribute)
			if parent, ok, _ := forest.ParentOf(p.ID); ok {
				fmt.Printf(", parent: %s", parent.ID)
			}
			children, _ := forest.ChildrenOf(p.ID)
			if len(children) > 0 {
				names := make([]string, len(children))
				for i, c := range children {
					names[i] = c.ID
				}
				fmt.Printf(", children: %s", strings.Join(names, ", "))
			}
			fmt.Println()
		}
	}

	// ── Graph for a renderer ──────────────────────────────────────────
	graph := forest.Graph(professionIcons)
	fmt.Printf("\ngraph: %d nodes, %d edges\n", len(graph.Nodes), len(graph.Edges))

	// ── Optional round trip through Postgres ──────────────────────────
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	var store famtree.Store = postgres.New(pool)
	if err := store.CreateSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}
	if _, err := store.SaveTree(ctx, tree); err != nil {
		log.Fatalf("save: %v", err)
	}
	loaded, err := famtree.Load(ctx, store, tree.ID)
	if err != nil {
		log.Fatalf("load: %v", err)
	}
	fmt.Printf("\nreloaded %q from postgres: %d persons\n", tree.ID, loaded.Len())

	if err := store.DeleteTree(ctx, tree.ID); err != nil {
		log.Fatalf("delete: %v", err)
	}
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
