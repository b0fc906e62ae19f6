package tree

import (
	"reflect"
	"strings"
	"testing"
)

func sampleForest() []*Node {
	return BuildForest([]Record{
		{"id": "g", "label": "Glossary"},
		{"id": "c1", "parentId": "g", "label": "Sales"},
		{"id": "t1", "parentId": "c1", "label": "Revenue"},
		{"id": "c2", "parentId": "g", "label": "Ops"},
		{"id": "t2", "parentId": "c2", "label": "Uptime"},
		{"id": "h", "label": "Other"},
	}, Options{})
}

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i], _ = n.Key("id")
	}
	return out
}

func TestWalkPreOrder(t *testing.T) {
	var visited []string
	var depths []int
	Walk(sampleForest(), func(n *Node, d int) bool {
		id, _ := n.Key("id")
		visited = append(visited, id)
		depths = append(depths, d)
		return true
	})

	wantIDs := []string{"g", "c1", "t1", "c2", "t2", "h"}
	wantDepths := []int{0, 1, 2, 1, 2, 0}
	if !reflect.DeepEqual(visited, wantIDs) {
		t.Errorf("visited = %v, want %v", visited, wantIDs)
	}
	if !reflect.DeepEqual(depths, wantDepths) {
		t.Errorf("depths = %v, want %v", depths, wantDepths)
	}
}

func TestWalkSkipSubtree(t *testing.T) {
	var visited []string
	Walk(sampleForest(), func(n *Node, _ int) bool {
		id, _ := n.Key("id")
		visited = append(visited, id)
		return id != "c1"
	})
	want := []string{"g", "c1", "c2", "t2", "h"}
	if !reflect.DeepEqual(visited, want) {
		t.Errorf("visited = %v, want %v", visited, want)
	}
}

func TestWalkTerminatesOnHandBuiltCycle(t *testing.T) {
	a := &Node{Record: Record{"id": "a"}}
	b := &Node{Record: Record{"id": "b"}, Children: []*Node{a}}
	a.Children = []*Node{b}

	if got := Count([]*Node{a}); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
}

func TestCountAndDepth(t *testing.T) {
	tests := []struct {
		name      string
		roots     []*Node
		wantCount int
		wantDepth int
	}{
		{"Empty", nil, 0, 0},
		{"Single", BuildForest([]Record{{"id": "a"}}, Options{}), 1, 1},
		{"Sample", sampleForest(), 6, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.roots); got != tt.wantCount {
				t.Errorf("Count() = %d, want %d", got, tt.wantCount)
			}
			if got := Depth(tt.roots); got != tt.wantDepth {
				t.Errorf("Depth() = %d, want %d", got, tt.wantDepth)
			}
		})
	}
}

func TestFlatten(t *testing.T) {
	got := ids(Flatten(sampleForest()))
	want := []string{"g", "c1", "t1", "c2", "t2", "h"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten() = %v, want %v", got, want)
	}
}

func TestFindAndPath(t *testing.T) {
	roots := sampleForest()

	if n := Find(roots, "t2", Options{}); n == nil || n.Get("label") != "Uptime" {
		t.Errorf("Find(t2) = %v", n)
	}
	if n := Find(roots, "nope", Options{}); n != nil {
		t.Errorf("Find(nope) = %v, want nil", n)
	}

	tests := []struct {
		id   string
		want []string
	}{
		{"g", []string{"g"}},
		{"t1", []string{"g", "c1", "t1"}},
		{"t2", []string{"g", "c2", "t2"}},
		{"h", []string{"h"}},
		{"nope", nil},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			path := Path(roots, tt.id, Options{})
			if tt.want == nil {
				if path != nil {
					t.Errorf("Path(%s) = %v, want nil", tt.id, ids(path))
				}
				return
			}
			if got := ids(path); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Path(%s) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	roots := sampleForest()
	filtered := Filter(roots, func(n *Node) bool {
		label, _ := n.Get("label").(string)
		return strings.HasPrefix(label, "Rev")
	})

	if got := ids(Flatten(filtered)); !reflect.DeepEqual(got, []string{"g", "c1", "t1"}) {
		t.Errorf("Filter() = %v, want [g c1 t1]", got)
	}
	if got := Count(roots); got != 6 {
		t.Errorf("input forest changed: Count() = %d, want 6", got)
	}

	none := Filter(roots, func(*Node) bool { return false })
	if none == nil || len(none) != 0 {
		t.Errorf("Filter(none) = %v, want empty", none)
	}
}

func TestSortChildren(t *testing.T) {
	roots := sampleForest()
	byLabel := func(a, b *Node) int {
		return strings.Compare(a.Get("label").(string), b.Get("label").(string))
	}
	sorted := SortChildren(roots, byLabel)

	if got := ids(Flatten(sorted)); !reflect.DeepEqual(got, []string{"g", "c2", "t2", "c1", "t1", "h"}) {
		t.Errorf("SortChildren() = %v", got)
	}
	if got := ids(Flatten(roots)); !reflect.DeepEqual(got, []string{"g", "c1", "t1", "c2", "t2", "h"}) {
		t.Errorf("input order changed: %v", got)
	}
}
