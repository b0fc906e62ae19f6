// Package render turns built forests into human-readable artifacts.
//
// # Outline
//
// The [outline] subpackage draws a forest as an indented text tree using
// lipgloss, for terminals and plain-text reports:
//
//	Finance
//	├── Revenue
//	│   └── ARR
//	└── Costs
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders forests as Graphviz diagrams, with an
// edge from every parent to each of its children.
//
//	dot := nodelink.ToDOT(forest, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [outline]: github.com/matzehuels/catalogtree/pkg/render/outline
// [nodelink]: github.com/matzehuels/catalogtree/pkg/render/nodelink
package render

// Output format names shared by the CLI, pipeline and API.
const (
	FormatJSON    = "json"
	FormatOutline = "outline"
	FormatDOT     = "dot"
	FormatSVG     = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:    true,
	FormatOutline: true,
	FormatDOT:     true,
	FormatSVG:     true,
}

// Extension returns the file extension written for format.
func Extension(format string) string {
	if format == FormatOutline {
		return "txt"
	}
	return format
}
