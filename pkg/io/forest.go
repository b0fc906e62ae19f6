package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/catalogtree/pkg/tree"
)

// forestDoc is the serialized form of a tree.Forest. Unreachable nodes are
// written as bare records with empty children.
type forestDoc struct {
	Forest      []*tree.Node `json:"forest"`
	Unreachable []*tree.Node `json:"unreachable"`
}

// MarshalForest encodes f as indented JSON.
func MarshalForest(f *tree.Forest) ([]byte, error) {
	return json.MarshalIndent(toDoc(f), "", "  ")
}

// WriteForest writes f as indented JSON to w.
func WriteForest(f *tree.Forest, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDoc(f)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteForestFile writes f to a JSON file at path.
func WriteForestFile(f *tree.Forest, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()
	return WriteForest(f, file)
}

// ReadForest decodes a forest written by WriteForest.
func ReadForest(r io.Reader) (*tree.Forest, error) {
	var doc forestDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	f := &tree.Forest{Roots: doc.Forest, Unreachable: doc.Unreachable}
	if f.Roots == nil {
		f.Roots = []*tree.Node{}
	}
	return f, nil
}

func toDoc(f *tree.Forest) forestDoc {
	doc := forestDoc{Forest: f.Roots, Unreachable: tree.Detach(f.Unreachable)}
	if doc.Forest == nil {
		doc.Forest = []*tree.Node{}
	}
	return doc
}
