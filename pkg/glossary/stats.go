package glossary

import "github.com/matzehuels/catalogtree/pkg/tree"

// Stats summarizes the nodes below a set of roots.
type Stats struct {
	Glossaries int `json:"glossaries"`
	Categories int `json:"categories"`
	Terms      int `json:"terms"`
	Depth      int `json:"depth"`
}

// Statistics counts live (non-deleted) glossaries, categories and terms
// reachable from roots. Roots themselves are counted.
func Statistics(roots []*tree.Node) Stats {
	var s Stats
	tree.Walk(roots, func(n *tree.Node, depth int) bool {
		if deleted, _ := n.Get("deleted").(string); deleted != "" {
			return false
		}
		switch n.Get(FieldType) {
		case TypeGlossary:
			s.Glossaries++
		case TypeCategory:
			s.Categories++
		case TypeTerm:
			s.Terms++
		}
		s.Depth = max(s.Depth, depth+1)
		return true
	})
	return s
}
