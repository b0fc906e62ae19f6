// Package nodelink renders forests as node-link diagrams.
//
// # Usage
//
// Convert a forest to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(forest, nodelink.Options{LabelField: "label"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded
// box nodes and one edge from each parent to each child. Nodes are keyed by
// their position in pre-order rather than by record id, so records with
// missing or duplicate ids still get their own box. Members of parent
// cycles (Forest.Unreachable) are drawn dashed and grey.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
