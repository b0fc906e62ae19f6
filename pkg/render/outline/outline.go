// Package outline renders forests as indented text trees.
package outline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltree "github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/catalogtree/pkg/tree"
)

// DefaultLabelField is the record field shown for each node.
const DefaultLabelField = "label"

// Options configures outline rendering.
type Options struct {
	// IDField is shown when a node has no label. Defaults to tree.DefaultIDField.
	IDField string

	// LabelField names the display field. Defaults to "label".
	LabelField string

	// TypeField, when set, appends the field's value in brackets,
	// e.g. "Revenue [Category]".
	TypeField string

	// MatchField, when set, marks nodes whose field is true.
	MatchField string

	// Styled enables terminal colors.
	Styled bool
}

var (
	rootStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	enumStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	typeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	matchStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// Render draws every root as its own tree, separated by newlines.
func Render(roots []*tree.Node, opts Options) string {
	if opts.IDField == "" {
		opts.IDField = tree.DefaultIDField
	}
	if opts.LabelField == "" {
		opts.LabelField = DefaultLabelField
	}

	parts := make([]string, 0, len(roots))
	for _, r := range roots {
		t := build(r, opts, map[*tree.Node]struct{}{})
		if opts.Styled {
			t.RootStyle(rootStyle).EnumeratorStyle(enumStyle)
		}
		parts = append(parts, trimLines(t.String()))
	}
	return strings.Join(parts, "\n")
}

func build(n *tree.Node, opts Options, onPath map[*tree.Node]struct{}) *ltree.Tree {
	onPath[n] = struct{}{}
	defer delete(onPath, n)

	t := ltree.Root(Label(n, opts))
	for _, c := range n.Children {
		if _, ok := onPath[c]; ok {
			continue
		}
		if c.IsLeaf() {
			t.Child(Label(c, opts))
			continue
		}
		t.Child(build(c, opts, onPath))
	}
	return t
}

// Label returns the display text for n.
func Label(n *tree.Node, opts Options) string {
	text := ""
	if v := n.Get(opts.LabelField); v != nil && fmt.Sprint(v) != "" {
		text = fmt.Sprint(v)
	} else if v := n.Get(opts.IDField); v != nil {
		text = fmt.Sprint(v)
	}
	if text == "" {
		text = "(unnamed)"
	}
	if opts.TypeField != "" {
		if v, ok := n.Get(opts.TypeField).(string); ok && v != "" {
			suffix := "[" + v + "]"
			if opts.Styled {
				suffix = typeStyle.Render(suffix)
			}
			text += " " + suffix
		}
	}
	if opts.MatchField != "" {
		if m, _ := n.Get(opts.MatchField).(bool); m {
			if opts.Styled {
				text = matchStyle.Render(text)
			} else {
				text = "* " + text
			}
		}
	}
	return text
}

func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
