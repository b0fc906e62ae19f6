package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/catalogtree/pkg/glossary"
	"github.com/matzehuels/catalogtree/pkg/pipeline"
)

func TestStatsLine(t *testing.T) {
	tests := []struct {
		name   string
		stats  pipeline.Stats
		cached bool
		want   []string
	}{
		{
			name:  "Fresh",
			stats: pipeline.Stats{Roots: 1, Nodes: 3, Depth: 2},
			want:  []string{"1 root", "3 nodes", "depth 2", iconFresh},
		},
		{
			name:   "Cached",
			stats:  pipeline.Stats{Roots: 2, Nodes: 2, Depth: 1, Unreachable: 3},
			cached: true,
			want:   []string{"2 roots", "3 unreachable", iconCached},
		},
		{
			name:  "Glossary",
			stats: pipeline.Stats{Roots: 1, Nodes: 1, Glossary: &glossary.Stats{Terms: 1}},
			want:  []string{"1 term"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statsLine(tt.stats, tt.cached)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("statsLine() = %q, missing %q", got, w)
				}
			}
		})
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 nodes"},
		{1, "1 node"},
		{2, "2 nodes"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, "node"); got != tt.want {
			t.Errorf("plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
