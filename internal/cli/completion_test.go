package cli

import (
	"slices"
	"testing"

	"github.com/spf13/cobra"
)

func TestListCompletion(t *testing.T) {
	fn := listCompletion([]string{"json", "svg"})

	tests := []struct {
		toComplete string
		want       []string
	}{
		{"", []string{"json", "svg"}},
		{"js", []string{"json", "svg"}},
		{"json,", []string{"json,json", "json,svg"}},
		{"json,outline,s", []string{"json,outline,json", "json,outline,svg"}},
	}

	for _, tt := range tests {
		got, directive := fn(nil, nil, tt.toComplete)
		if !slices.Equal(got, tt.want) {
			t.Errorf("complete(%q) = %v, want %v", tt.toComplete, got, tt.want)
		}
		if directive != cobra.ShellCompDirectiveNoFileComp {
			t.Errorf("directive = %v, want NoFileComp", directive)
		}
	}
}

func TestSortedKeys(t *testing.T) {
	got := sortedKeys(map[string]bool{"b": true, "a": true, "c": false})
	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("sortedKeys() = %v", got)
	}
}
