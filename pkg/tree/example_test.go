package tree_test

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/catalogtree/pkg/tree"
)

func ExampleBuildForest() {
	records := []tree.Record{
		{"id": "a", "label": "Finance"},
		{"id": "b", "parentId": "a", "label": "Revenue"},
		{"id": "c", "parentId": "a", "label": "Costs"},
	}

	roots := tree.BuildForest(records, tree.Options{})
	data, _ := json.Marshal(roots)
	fmt.Println(string(data))
	// Output:
	// [{"children":[{"children":[],"id":"b","label":"Revenue","parentId":"a"},{"children":[],"id":"c","label":"Costs","parentId":"a"}],"id":"a","label":"Finance"}]
}

func ExampleBuild() {
	records := []tree.Record{
		{"nodeUri": "g1"},
		{"nodeUri": "x", "parentUri": "y"},
		{"nodeUri": "y", "parentUri": "x"},
		{"nodeUri": "t1", "parentUri": "missing"},
	}

	f := tree.Build(records, tree.Options{IDField: "nodeUri", ParentField: "parentUri"})
	fmt.Println("roots:", len(f.Roots))
	fmt.Println("unreachable:", len(f.Unreachable))
	// Output:
	// roots: 2
	// unreachable: 2
}

func ExampleWalk() {
	roots := tree.BuildForest([]tree.Record{
		{"id": "g", "label": "Glossary"},
		{"id": "c", "parentId": "g", "label": "Category"},
		{"id": "t", "parentId": "c", "label": "Term"},
	}, tree.Options{})

	tree.Walk(roots, func(n *tree.Node, depth int) bool {
		fmt.Println(strings.Repeat("  ", depth) + n.Get("label").(string))
		return true
	})
	// Output:
	// Glossary
	//   Category
	//     Term
}
