package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/catalogtree/pkg/glossary"
	"github.com/matzehuels/catalogtree/pkg/store"
)

func seed(t *testing.T, s *Store) {
	t.Helper()
	nodes := []glossary.Node{
		{NodeURI: "t1", ParentURI: "c1", NodeType: glossary.TypeTerm, Label: "ARR", Path: "/g1/c1/t1", Owner: "finance"},
		{NodeURI: "g1", NodeType: glossary.TypeGlossary, Label: "Finance", Path: "/g1"},
		{NodeURI: "c1", ParentURI: "g1", NodeType: glossary.TypeCategory, Label: "Revenue", Path: "/g1/c1"},
		{NodeURI: "g10", NodeType: glossary.TypeGlossary, Label: "Ops", Path: "/g10"},
		{NodeURI: "t2", ParentURI: "c1", NodeType: glossary.TypeTerm, Label: "Old", Path: "/g1/c1/t2", Deleted: "2024-01-01"},
	}
	if err := s.PutNodes(context.Background(), nodes); err != nil {
		t.Fatalf("PutNodes() error: %v", err)
	}
}

func uris(nodes []glossary.Node) []string {
	out := []string{}
	for _, n := range nodes {
		out = append(out, n.NodeURI)
	}
	return out
}

func TestListNodes(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nodes.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer s.Close()
	seed(t, s)

	tests := []struct {
		name  string
		query store.Query
		want  []string
	}{
		{"All", store.Query{}, []string{"g1", "c1", "t1", "g10"}},
		{"Subtree", store.Query{RootPath: "/g1"}, []string{"g1", "c1", "t1"}},
		{"Category", store.Query{RootPath: "/g1/c1"}, []string{"c1", "t1"}},
		{"IncludeDeleted", store.Query{RootPath: "/g1/c1", IncludeDeleted: true}, []string{"c1", "t1", "t2"}},
		{"Limit", store.Query{Limit: 2}, []string{"g1", "c1"}},
		{"NoMatch", store.Query{RootPath: "/nope"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListNodes(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("ListNodes() error: %v", err)
			}
			if !reflect.DeepEqual(uris(got), tt.want) {
				t.Errorf("ListNodes() = %v, want %v", uris(got), tt.want)
			}
		})
	}
}

func TestListNodesMultibytePath(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer s.Close()

	nodes := []glossary.Node{
		{NodeURI: "café", NodeType: glossary.TypeGlossary, Label: "Café", Path: "/café"},
		{NodeURI: "c1", ParentURI: "café", NodeType: glossary.TypeCategory, Label: "Menu", Path: "/café/c1"},
		{NodeURI: "t1", ParentURI: "c1", NodeType: glossary.TypeTerm, Label: "Crème", Path: "/café/c1/t1"},
	}
	ctx := context.Background()
	if err := s.PutNodes(ctx, nodes); err != nil {
		t.Fatalf("PutNodes() error: %v", err)
	}

	mem := store.NewMemory()
	if err := mem.PutNodes(ctx, nodes); err != nil {
		t.Fatalf("PutNodes() error: %v", err)
	}

	for _, root := range []string{"/café", "/café/c1"} {
		got, err := s.ListNodes(ctx, store.Query{RootPath: root})
		if err != nil {
			t.Fatalf("ListNodes() error: %v", err)
		}
		want, err := mem.ListNodes(ctx, store.Query{RootPath: root})
		if err != nil {
			t.Fatalf("memory ListNodes() error: %v", err)
		}
		if !reflect.DeepEqual(uris(got), uris(want)) {
			t.Errorf("ListNodes(%s) = %v, want %v", root, uris(got), uris(want))
		}
	}
}

func TestPutNodesRoundTrip(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer s.Close()
	seed(t, s)

	got, err := s.ListNodes(context.Background(), store.Query{RootPath: "/g1/c1/t1"})
	if err != nil || len(got) != 1 {
		t.Fatalf("ListNodes() = %v, %v", got, err)
	}
	want := glossary.Node{NodeURI: "t1", ParentURI: "c1", NodeType: glossary.TypeTerm, Label: "ARR", Path: "/g1/c1/t1", Owner: "finance"}
	if got[0] != want {
		t.Errorf("node = %+v, want %+v", got[0], want)
	}

	renamed := want
	renamed.Label = "Annual Recurring Revenue"
	if err := s.PutNodes(context.Background(), []glossary.Node{renamed}); err != nil {
		t.Fatal(err)
	}
	got, _ = s.ListNodes(context.Background(), store.Query{RootPath: "/g1/c1/t1"})
	if len(got) != 1 || got[0].Label != renamed.Label {
		t.Errorf("after replace = %+v", got)
	}
}

func TestRejectsUnknownType(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	err = s.PutNodes(context.Background(), []glossary.Node{{NodeURI: "x", NodeType: "Dataset", Path: "/x"}})
	if err == nil {
		t.Error("PutNodes() should reject unknown node types")
	}
}

func TestBuildsForestFromStore(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	seed(t, s)

	nodes, err := s.ListNodes(context.Background(), store.Query{RootPath: "/g1"})
	if err != nil {
		t.Fatal(err)
	}
	f := glossary.Tree(nodes)
	if len(f.Roots) != 1 || f.Len() != 3 {
		t.Errorf("roots = %d, nodes = %d; want 1 and 3", len(f.Roots), f.Len())
	}
}
