// Package store defines persistence for glossary nodes.
//
// A [Store] returns nodes ordered by their materialized path, which is the
// order a tree query produces. Subtrees are selected by path prefix, so
// loading a glossary is a single query regardless of its depth.
//
// Backends live in subpackages:
//
//   - store/sqlite: embedded database file (modernc.org/sqlite)
//   - store/mongo: MongoDB collection
//
// [Memory] is an in-process implementation used by tests and by commands
// that operate on a file without a configured backend.
package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/catalogtree/pkg/glossary"
)

// Backend names accepted in configuration.
const (
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Query selects nodes from a store.
type Query struct {
	// RootPath limits results to the node at this path and its descendants.
	// Empty selects every node.
	RootPath string

	// IncludeDeleted keeps nodes that carry a deletion timestamp.
	IncludeDeleted bool

	// Limit caps the number of nodes returned; zero means no limit.
	Limit int
}

// Store persists glossary nodes.
type Store interface {
	// ListNodes returns the nodes matching q ordered by path.
	ListNodes(ctx context.Context, q Query) ([]glossary.Node, error)

	// PutNodes inserts or replaces nodes keyed by node URI.
	PutNodes(ctx context.Context, nodes []glossary.Node) error

	// Close releases backend resources.
	Close() error
}

// PathPrefix returns the prefix that descendants of root share.
func PathPrefix(root string) string {
	return strings.TrimSuffix(root, "/") + "/"
}

// Matches reports whether n satisfies q, ignoring Limit.
func (q Query) Matches(n glossary.Node) bool {
	if !q.IncludeDeleted && n.IsDeleted() {
		return false
	}
	if q.RootPath == "" || q.RootPath == "/" {
		return true
	}
	return n.Path == q.RootPath || strings.HasPrefix(n.Path, PathPrefix(q.RootPath))
}

// FindByURI returns the node with uri, or ok=false.
func FindByURI(ctx context.Context, s Store, uri string) (glossary.Node, bool, error) {
	nodes, err := s.ListNodes(ctx, Query{IncludeDeleted: true})
	if err != nil {
		return glossary.Node{}, false, err
	}
	for _, n := range nodes {
		if n.NodeURI == uri {
			return n, true, nil
		}
	}
	return glossary.Node{}, false, nil
}

// =============================================================================
// Memory Store
// =============================================================================

// Memory is a Store held in a map.
type Memory struct {
	mu    sync.RWMutex
	nodes map[string]glossary.Node
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{nodes: make(map[string]glossary.Node)}
}

// ListNodes implements Store.
func (m *Memory) ListNodes(ctx context.Context, q Query) ([]glossary.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []glossary.Node{}
	for _, n := range m.nodes {
		if q.Matches(n) {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b glossary.Node) int {
		if c := cmp.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return cmp.Compare(a.NodeURI, b.NodeURI)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// PutNodes implements Store.
func (m *Memory) PutNodes(ctx context.Context, nodes []glossary.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range nodes {
		n.IsMatch = false
		m.nodes[n.NodeURI] = n
	}
	return nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }

var _ Store = (*Memory)(nil)
