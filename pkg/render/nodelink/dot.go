package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/catalogtree/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// IDField is shown when a node has no label. Defaults to tree.DefaultIDField.
	IDField string

	// LabelField names the display field. Defaults to "label".
	LabelField string

	// Detailed lists every record field below the label.
	Detailed bool
}

// fills colors nodes by their glossary type.
var fills = map[string]string{
	"Glossary": "lightblue",
	"Category": "white",
	"Term":     "lightyellow",
}

// ToDOT converts a forest to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(f *tree.Forest, opts Options) string {
	if opts.IDField == "" {
		opts.IDField = tree.DefaultIDField
	}
	if opts.LabelField == "" {
		opts.LabelField = "label"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	ids := make(map[*tree.Node]string)
	var edges []string
	emit := func(n *tree.Node, unreachable bool) {
		id := "n" + strconv.Itoa(len(ids))
		ids[n] = id
		attrs := fmtAttrs(n, fmtLabel(n, opts), unreachable)
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	tree.Walk(f.Roots, func(n *tree.Node, _ int) bool {
		emit(n, false)
		return true
	})
	for _, n := range f.Unreachable {
		if _, ok := ids[n]; !ok {
			emit(n, true)
		}
	}
	for _, n := range append(tree.Flatten(f.Roots), f.Unreachable...) {
		for _, c := range n.Children {
			if _, ok := ids[c]; ok {
				edges = append(edges, fmt.Sprintf("  %q -> %q;\n", ids[n], ids[c]))
			}
		}
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *tree.Node, opts Options) string {
	label := ""
	if v := n.Get(opts.LabelField); v != nil {
		label = fmt.Sprint(v)
	}
	if label == "" {
		if v := n.Get(opts.IDField); v != nil {
			label = fmt.Sprint(v)
		}
	}
	if !opts.Detailed {
		return label
	}

	var parts []string
	for _, k := range slices.Sorted(maps.Keys(n.Record)) {
		if k == opts.LabelField {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Record[k]))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *tree.Node, label string, unreachable bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if unreachable {
		return append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	if kind, ok := n.Get("__typename").(string); ok {
		if fill, ok := fills[kind]; ok {
			attrs = append(attrs, "fillcolor="+fill)
		}
	}
	if deleted, _ := n.Get("deleted").(string); deleted != "" {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fontcolor=grey40")
	}
	if match, _ := n.Get("isMatch").(bool); match {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the SVG scales from its origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
