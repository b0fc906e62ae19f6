package glossary_test

import (
	"fmt"

	"github.com/matzehuels/catalogtree/pkg/glossary"
)

func ExampleChildPath() {
	g := glossary.ChildPath("", "g1")
	c := glossary.ChildPath(g, "c1")
	fmt.Println(g)
	fmt.Println(glossary.ChildPath(c, "t1"))
	// Output:
	// /g1
	// /g1/c1/t1
}

func ExampleStatistics() {
	nodes := []glossary.Node{
		{NodeURI: "g1", NodeType: glossary.TypeGlossary, Path: "/g1"},
		{NodeURI: "c1", ParentURI: "g1", NodeType: glossary.TypeCategory, Path: "/g1/c1"},
		{NodeURI: "t1", ParentURI: "c1", NodeType: glossary.TypeTerm, Path: "/g1/c1/t1"},
		{NodeURI: "t2", ParentURI: "c1", NodeType: glossary.TypeTerm, Path: "/g1/c1/t2", Deleted: "2024-01-01"},
	}

	s := glossary.Statistics(glossary.Tree(nodes).Roots)
	fmt.Printf("categories=%d terms=%d depth=%d\n", s.Categories, s.Terms, s.Depth)
	// Output:
	// categories=1 terms=1 depth=3
}

func ExampleSubtree() {
	nodes := []glossary.Node{
		{NodeURI: "g1", Path: "/g1"},
		{NodeURI: "c1", Path: "/g1/c1"},
		{NodeURI: "c10", Path: "/g1/c10"},
		{NodeURI: "t1", Path: "/g1/c1/t1"},
	}
	for _, n := range glossary.Subtree(nodes, "/g1/c1") {
		fmt.Println(n.Path)
	}
	// Output:
	// /g1/c1
	// /g1/c1/t1
}
