package cli

import (
	"context"
	"testing"

	"github.com/matzehuels/catalogtree/pkg/errors"
	"github.com/matzehuels/catalogtree/pkg/glossary"
	"github.com/matzehuels/catalogtree/pkg/store"
)

func TestCompleteNodes(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	if err := st.PutNodes(ctx, []glossary.Node{
		{NodeURI: "g0", NodeType: glossary.TypeGlossary, Label: "Stored", Path: "/g0"},
	}); err != nil {
		t.Fatal(err)
	}

	nodes := []glossary.Node{
		{NodeURI: "t1", ParentURI: "c1", NodeType: glossary.TypeTerm},
		{NodeURI: "c1", ParentURI: "g1", NodeType: glossary.TypeCategory},
		{NodeURI: "g1", NodeType: glossary.TypeGlossary},
		{NodeURI: "c2", ParentURI: "g0", NodeType: glossary.TypeCategory},
		{NodeURI: "x", ParentURI: "g1", NodeType: glossary.TypeTerm, Path: "/custom/x"},
		{ParentURI: "c2", NodeType: glossary.TypeTerm},
	}
	if err := completeNodes(ctx, st, nodes); err != nil {
		t.Fatalf("completeNodes() error: %v", err)
	}

	want := map[string]string{
		"t1": "/g1/c1/t1",
		"c1": "/g1/c1",
		"g1": "/g1",
		"c2": "/g0/c2",
		"x":  "/custom/x",
	}
	for _, n := range nodes[:5] {
		if n.Path != want[n.NodeURI] {
			t.Errorf("%s path = %q, want %q", n.NodeURI, n.Path, want[n.NodeURI])
		}
	}
	generated := nodes[5]
	if generated.NodeURI == "" || generated.Path != "/g0/c2/"+generated.NodeURI {
		t.Errorf("generated node = %+v", generated)
	}
	if err := validateNodes(nodes); err != nil {
		t.Errorf("validateNodes() error: %v", err)
	}
}

func TestCompleteNodesErrors(t *testing.T) {
	tests := []struct {
		name  string
		nodes []glossary.Node
		code  errors.Code
	}{
		{
			name:  "MissingParent",
			nodes: []glossary.Node{{NodeURI: "t1", ParentURI: "nope", NodeType: glossary.TypeTerm}},
			code:  errors.ErrCodeNotFound,
		},
		{
			name: "Cycle",
			nodes: []glossary.Node{
				{NodeURI: "a", ParentURI: "b", NodeType: glossary.TypeCategory},
				{NodeURI: "b", ParentURI: "a", NodeType: glossary.TypeCategory},
			},
			code: errors.ErrCodeInvalidPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := completeNodes(context.Background(), store.NewMemory(), tt.nodes)
			if !errors.Is(err, tt.code) {
				t.Errorf("completeNodes() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestValidateNodes(t *testing.T) {
	nodes := []glossary.Node{
		{NodeURI: "g1", NodeType: glossary.TypeGlossary, Path: "/g1"},
		{NodeURI: "t1", NodeType: "Widget", Path: "/g1/t1"},
	}
	err := validateNodes(nodes)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("validateNodes() error = %v, want INVALID_INPUT", err)
	}
}
