package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	rio "github.com/matzehuels/catalogtree/pkg/io"
	"github.com/matzehuels/catalogtree/pkg/pipeline"
	"github.com/matzehuels/catalogtree/pkg/render/outline"
	"github.com/matzehuels/catalogtree/pkg/tree"
)

// browseCommand creates the browse command for exploring a forest interactively.
func (c *CLI) browseCommand() *cobra.Command {
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Explore a forest in an interactive terminal tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyTreeDefaults(&opts)
			return c.runBrowse(cmd.Context(), args[0], opts)
		},
	}

	addTreeFlags(cmd, &opts)
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "input format: auto (default), json, yaml, toml")
	cmd.Flags().StringVar(&opts.LabelField, "label-field", "", "field shown for each node (default: label)")
	cmd.Flags().StringVar(&opts.TypeField, "type-field", "", "field shown as a [type] suffix")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, input string, opts pipeline.Options) error {
	records, err := rio.ReadRecordsFile(input, opts.Format)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, false, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	f, _, err := runner.BuildWithCacheInfo(ctx, records, opts)
	if err != nil {
		return err
	}

	opts.SetRenderDefaults()
	m := newBrowseModel(f, pipeline.OutlineOptions(opts))
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// Key Bindings
// =============================================================================

type browseKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Expand      key.Binding
	Collapse    key.Binding
	Toggle      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Quit        key.Binding
}

var browseKeys = browseKeyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Expand:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
	Collapse:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
	Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("⏎", "toggle")),
	ExpandAll:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
	CollapseAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),
	Quit:        key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k browseKeyMap) help() string {
	bindings := []key.Binding{k.Up, k.Down, k.Expand, k.Collapse, k.Toggle, k.ExpandAll, k.CollapseAll, k.Quit}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

// =============================================================================
// BrowseModel - Interactive tree browser
// =============================================================================

var (
	browseSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	browseNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	browseDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	browseCycleStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	browseFieldStyle    = lipgloss.NewStyle().Foreground(colorGray)
)

// browseRow is one visible line of the tree.
type browseRow struct {
	node   *tree.Node
	depth  int
	cyclic bool
}

// BrowseModel is the bubbletea model for the forest browser.
type BrowseModel struct {
	roots    []*tree.Node
	cyclic   []*tree.Node
	opts     outline.Options
	expanded map[*tree.Node]bool
	rows     []browseRow
	cursor   int
	offset   int
	height   int
}

// newBrowseModel creates a browser with every root collapsed. Nodes caught in
// a parent cycle are listed after the roots.
func newBrowseModel(f *tree.Forest, opts outline.Options) BrowseModel {
	if opts.IDField == "" {
		opts.IDField = tree.DefaultIDField
	}
	if opts.LabelField == "" {
		opts.LabelField = outline.DefaultLabelField
	}
	m := BrowseModel{
		roots:    f.Roots,
		cyclic:   f.Unreachable,
		opts:     opts,
		expanded: make(map[*tree.Node]bool),
		height:   20,
	}
	m.refresh()
	return m
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, browseKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, browseKeys.Up):
			m.move(-1)
		case key.Matches(msg, browseKeys.Down):
			m.move(1)
		case key.Matches(msg, browseKeys.Expand):
			if n := m.selected(); n != nil && !n.IsLeaf() {
				m.setExpanded(n, true)
			}
		case key.Matches(msg, browseKeys.Collapse):
			m.collapseOrParent()
		case key.Matches(msg, browseKeys.Toggle):
			if n := m.selected(); n != nil && !n.IsLeaf() {
				m.setExpanded(n, !m.expanded[n])
			}
		case key.Matches(msg, browseKeys.ExpandAll):
			tree.Walk(append(slices.Clone(m.roots), m.cyclic...), func(n *tree.Node, _ int) bool {
				if !n.IsLeaf() {
					m.expanded[n] = true
				}
				return true
			})
			m.refresh()
		case key.Matches(msg, browseKeys.CollapseAll):
			clear(m.expanded)
			m.cursor, m.offset = 0, 0
			m.refresh()
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
		m.scroll()
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Forest"))
	b.WriteString(browseDimStyle.Render(fmt.Sprintf("  %d roots · %d nodes", len(m.roots), tree.Count(m.roots))))
	if len(m.cyclic) > 0 {
		b.WriteString(browseCycleStyle.Render(fmt.Sprintf(" · %d in cycles", len(m.cyclic))))
	}
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render(browseKeys.help()))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(browseDimStyle.Render("  (empty forest)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderDetail())
	b.WriteString(browseDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))
	return b.String()
}

func (m BrowseModel) renderRow(i int) string {
	r := m.rows[i]
	var marker string
	switch {
	case r.node.IsLeaf():
		marker = "· "
	case m.expanded[r.node]:
		marker = "▾ "
	default:
		marker = "▸ "
	}

	line := strings.Repeat("  ", r.depth) + marker + outline.Label(r.node, m.opts)
	if !r.node.IsLeaf() && !m.expanded[r.node] {
		line += browseDimStyle.Render(fmt.Sprintf(" (%d)", len(r.node.Children)))
	}
	if r.cyclic {
		line += browseCycleStyle.Render(" ↻")
	}

	if i == m.cursor {
		return browseSelectedStyle.Render("▸ " + line)
	}
	return "  " + browseNormalStyle.Render(line)
}

// renderDetail shows the selected record's fields, sorted by name.
func (m BrowseModel) renderDetail() string {
	n := m.selected()
	if n == nil {
		return ""
	}
	keys := make([]string, 0, len(n.Record))
	for k := range n.Record {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	for _, k := range keys {
		v := fmt.Sprint(n.Record[k])
		if len(v) > 60 {
			v = v[:57] + "..."
		}
		b.WriteString("  " + browseFieldStyle.Render(k+":") + " " + v + "\n")
	}
	return b.String()
}

// =============================================================================
// Navigation
// =============================================================================

func (m *BrowseModel) selected() *tree.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].node
}

func (m *BrowseModel) move(delta int) {
	m.cursor = min(max(m.cursor+delta, 0), max(len(m.rows)-1, 0))
	m.scroll()
}

func (m *BrowseModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *BrowseModel) setExpanded(n *tree.Node, open bool) {
	if open {
		m.expanded[n] = true
	} else {
		delete(m.expanded, n)
	}
	m.refresh()
}

// collapseOrParent closes the selected node, or moves to its parent when it
// is already closed.
func (m *BrowseModel) collapseOrParent() {
	n := m.selected()
	if n == nil {
		return
	}
	if m.expanded[n] {
		m.setExpanded(n, false)
		return
	}
	depth := m.rows[m.cursor].depth
	for i := m.cursor - 1; i >= 0; i-- {
		if m.rows[i].depth < depth {
			m.cursor = i
			m.scroll()
			return
		}
	}
}

// refresh recomputes the visible rows, keeping the cursor in range.
func (m *BrowseModel) refresh() {
	m.rows = make([]browseRow, 0, len(m.rows))
	onPath := make(map[*tree.Node]bool)
	var add func(n *tree.Node, depth int, cyclic bool)
	add = func(n *tree.Node, depth int, cyclic bool) {
		if onPath[n] {
			return
		}
		m.rows = append(m.rows, browseRow{node: n, depth: depth, cyclic: cyclic})
		if !m.expanded[n] {
			return
		}
		onPath[n] = true
		for _, c := range n.Children {
			add(c, depth+1, cyclic)
		}
		delete(onPath, n)
	}
	for _, r := range m.roots {
		add(r, 0, false)
	}
	for _, n := range m.cyclic {
		add(n, 0, true)
	}
	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
	m.scroll()
}
