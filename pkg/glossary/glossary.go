// Package glossary models data.all business glossaries as tree records.
//
// A glossary is a three-level taxonomy: a Glossary owns Categories, and
// Categories own Terms (and nested Categories). Every node stores its parent
// URI and a materialized path ("/<glossary>/<category>/<term>") so that a
// whole subtree can be selected with a single prefix query.
//
// This package converts glossary nodes into [tree.Record] values and builds
// ordered forests from them with [tree.Build].
package glossary

import (
	"cmp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/catalogtree/pkg/errors"
	"github.com/matzehuels/catalogtree/pkg/tree"
)

// Node types, matching the GraphQL __typename of each glossary node.
const (
	TypeGlossary = "Glossary"
	TypeCategory = "Category"
	TypeTerm     = "Term"
)

// Record field names.
const (
	FieldNodeURI   = "nodeUri"
	FieldParentURI = "parentUri"
	FieldType      = "__typename"
	FieldLabel     = "label"
	FieldPath      = "path"
	FieldIsMatch   = "isMatch"
)

// ValidTypes is the set of supported node types.
var ValidTypes = map[string]bool{
	TypeGlossary: true,
	TypeCategory: true,
	TypeTerm:     true,
}

// Node is one glossary, category or term.
type Node struct {
	NodeURI   string `json:"nodeUri" bson:"nodeUri" yaml:"nodeUri" toml:"nodeUri"`
	ParentURI string `json:"parentUri" bson:"parentUri" yaml:"parentUri" toml:"parentUri"`
	NodeType  string `json:"__typename" bson:"nodeType" yaml:"nodeType" toml:"nodeType"`
	Label     string `json:"label" bson:"label" yaml:"label" toml:"label"`
	Path      string `json:"path" bson:"path" yaml:"path" toml:"path"`
	Owner     string `json:"owner,omitempty" bson:"owner,omitempty" yaml:"owner,omitempty" toml:"owner,omitempty"`
	Admin     string `json:"admin,omitempty" bson:"admin,omitempty" yaml:"admin,omitempty" toml:"admin,omitempty"`
	Status    string `json:"status,omitempty" bson:"status,omitempty" yaml:"status,omitempty" toml:"status,omitempty"`
	Readme    string `json:"readme,omitempty" bson:"readme,omitempty" yaml:"readme,omitempty" toml:"readme,omitempty"`
	Created   string `json:"created,omitempty" bson:"created,omitempty" yaml:"created,omitempty" toml:"created,omitempty"`
	Updated   string `json:"updated,omitempty" bson:"updated,omitempty" yaml:"updated,omitempty" toml:"updated,omitempty"`
	Deleted   string `json:"deleted,omitempty" bson:"deleted,omitempty" yaml:"deleted,omitempty" toml:"deleted,omitempty"`
	IsMatch   bool   `json:"isMatch,omitempty" bson:"-" yaml:"isMatch,omitempty" toml:"isMatch,omitempty"`
}

// IsDeleted reports whether the node carries a deletion timestamp.
func (n Node) IsDeleted() bool { return n.Deleted != "" }

// Record converts the node into a tree record keyed like the GraphQL API.
// Empty optional fields are omitted.
func (n Node) Record() tree.Record {
	r := tree.Record{
		FieldNodeURI:   n.NodeURI,
		FieldParentURI: n.ParentURI,
		FieldType:      n.NodeType,
		FieldLabel:     n.Label,
		FieldPath:      n.Path,
	}
	optional := map[string]string{
		"owner":   n.Owner,
		"admin":   n.Admin,
		"status":  n.Status,
		"readme":  n.Readme,
		"created": n.Created,
		"updated": n.Updated,
		"deleted": n.Deleted,
	}
	for k, v := range optional {
		if v != "" {
			r[k] = v
		}
	}
	if n.IsMatch {
		r[FieldIsMatch] = true
	}
	return r
}

// Records converts nodes in order.
func Records(nodes []Node) []tree.Record {
	out := make([]tree.Record, len(nodes))
	for i, n := range nodes {
		out[i] = n.Record()
	}
	return out
}

// Options returns tree options keyed on nodeUri/parentUri.
func Options() tree.Options {
	return tree.Options{
		IDField:     FieldNodeURI,
		ParentField: FieldParentURI,
		Duplicates:  tree.LastWins,
	}
}

// Tree builds the glossary forest for nodes in their given order.
func Tree(nodes []Node) *tree.Forest {
	return tree.Build(Records(nodes), Options())
}

// =============================================================================
// Path Helpers
// =============================================================================

// NewNodeURI returns a fresh 8-character node URI.
func NewNodeURI() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// ChildPath returns the materialized path for a node placed under parent.
// Glossaries (empty parent path or "/") live at "/<uri>".
func ChildPath(parentPath, uri string) string {
	parentPath = strings.TrimSuffix(parentPath, "/")
	return parentPath + "/" + uri
}

// SortByPath returns a copy of nodes stably ordered by path, the order the
// backend returns tree queries in.
func SortByPath(nodes []Node) []Node {
	out := slices.Clone(nodes)
	slices.SortStableFunc(out, func(a, b Node) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return out
}

// Subtree returns the nodes whose path starts with path, including the node
// at path itself. Input order is preserved.
func Subtree(nodes []Node, path string) []Node {
	var out []Node
	for _, n := range nodes {
		if n.Path == path || strings.HasPrefix(n.Path, strings.TrimSuffix(path, "/")+"/") {
			out = append(out, n)
		}
	}
	return out
}

// Children returns strict descendants of path, excluding the node at path.
func Children(nodes []Node, path string) []Node {
	var out []Node
	prefix := strings.TrimSuffix(path, "/") + "/"
	for _, n := range nodes {
		if strings.HasPrefix(n.Path, prefix) {
			out = append(out, n)
		}
	}
	return out
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks type, URIs and path consistency of a single node.
func Validate(n Node) error {
	if !ValidTypes[n.NodeType] {
		return errors.New(errors.ErrCodeInvalidNodeType, "invalid node type %q for %s (must be one of: Glossary, Category, Term)", n.NodeType, n.NodeURI)
	}
	if err := errors.ValidateNodeURI(n.NodeURI); err != nil {
		return err
	}
	if n.NodeType == TypeGlossary {
		if n.ParentURI != "" {
			return errors.New(errors.ErrCodeInvalidInput, "glossary %s cannot have a parent", n.NodeURI)
		}
	} else if err := errors.ValidateNodeURI(n.ParentURI); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s %s needs a parent", strings.ToLower(n.NodeType), n.NodeURI)
	}
	if err := errors.ValidatePath(n.Path); err != nil {
		return err
	}
	if !strings.HasSuffix(n.Path, "/"+n.NodeURI) {
		return errors.New(errors.ErrCodeInvalidPath, "path %q does not end with node URI %s", n.Path, n.NodeURI)
	}
	return nil
}
