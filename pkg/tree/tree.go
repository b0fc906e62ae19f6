package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// Constants
// =============================================================================

// Default field names used when Options leaves them empty.
const (
	DefaultIDField     = "id"
	DefaultParentField = "parentId"
)

// ChildrenField is the key under which a node's children are serialized.
const ChildrenField = "children"

// DuplicatePolicy decides which record owns an identifier that occurs more
// than once in the input.
type DuplicatePolicy string

const (
	// LastWins links children to the last record seen with a given id.
	LastWins DuplicatePolicy = "last"

	// FirstWins links children to the first record seen with a given id.
	FirstWins DuplicatePolicy = "first"
)

// ValidDuplicatePolicies is the set of accepted duplicate policies.
var ValidDuplicatePolicies = map[DuplicatePolicy]bool{
	LastWins:  true,
	FirstWins: true,
}

// =============================================================================
// Types
// =============================================================================

// Record is an input row. Only the identifier and parent fields are
// interpreted; everything else passes through unchanged.
type Record map[string]any

// Options configures field lookup and duplicate handling.
type Options struct {
	IDField     string          `json:"id_field,omitempty" toml:"id_field"`
	ParentField string          `json:"parent_field,omitempty" toml:"parent_field"`
	Duplicates  DuplicatePolicy `json:"duplicates,omitempty" toml:"duplicates"`
}

// WithDefaults returns a copy of o with empty fields set to their defaults.
func (o Options) WithDefaults() Options {
	if o.IDField == "" {
		o.IDField = DefaultIDField
	}
	if o.ParentField == "" {
		o.ParentField = DefaultParentField
	}
	if o.Duplicates == "" {
		o.Duplicates = LastWins
	}
	return o
}

// Node is a record augmented with its ordered children.
type Node struct {
	Record   Record
	Children []*Node
}

// Get returns the value of a record field, or nil.
func (n *Node) Get(field string) any {
	return n.Record[field]
}

// Key returns the node's normalized value for field and whether it is usable
// as an identifier.
func (n *Node) Key(field string) (string, bool) {
	return key(n.Record, field)
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Forest is the result of Build.
type Forest struct {
	// Roots are the top-level nodes in input order.
	Roots []*Node

	// Unreachable holds nodes that are linked under a parent but cannot be
	// reached from any root, i.e. members of a parent cycle.
	Unreachable []*Node
}

// =============================================================================
// Construction
// =============================================================================

// BuildForest converts records into a forest and returns its roots.
// It never fails; see the package documentation for resolution rules.
func BuildForest(records []Record, opts Options) []*Node {
	return Build(records, opts).Roots
}

// Build converts records into a Forest in time linear in len(records).
func Build(records []Record, opts Options) *Forest {
	opts = opts.WithDefaults()

	nodes := make([]*Node, len(records))
	index := make(map[string]*Node, len(records))
	for i, r := range records {
		n := &Node{Record: copyRecord(r), Children: []*Node{}}
		nodes[i] = n

		id, ok := key(r, opts.IDField)
		if !ok {
			continue
		}
		if _, seen := index[id]; seen && opts.Duplicates == FirstWins {
			continue
		}
		index[id] = n
	}

	f := &Forest{Roots: []*Node{}}
	for i, r := range records {
		n := nodes[i]
		if pid, ok := key(r, opts.ParentField); ok {
			if parent, found := index[pid]; found {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		f.Roots = append(f.Roots, n)
	}

	if len(f.Roots) == len(nodes) {
		return f
	}
	reached := make(map[*Node]struct{}, len(nodes))
	Walk(f.Roots, func(n *Node, _ int) bool {
		reached[n] = struct{}{}
		return true
	})
	for _, n := range nodes {
		if _, ok := reached[n]; !ok {
			f.Unreachable = append(f.Unreachable, n)
		}
	}
	return f
}

// Detach returns copies of nodes with their records and no children.
// Forest.Unreachable members still link to each other; Detach is how they
// are reported.
func Detach(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &Node{Record: n.Record, Children: []*Node{}})
	}
	return out
}

// Relink restores the parent links among detached nodes, such as the
// Unreachable members of a decoded forest. Nodes that end up as roots
// follow the cycle members.
func Relink(nodes []*Node, opts Options) []*Node {
	records := make([]Record, len(nodes))
	for i, n := range nodes {
		records[i] = n.Record
	}
	f := Build(records, opts)
	return append(f.Unreachable, f.Roots...)
}

// Len returns the number of nodes reachable from the roots.
func (f *Forest) Len() int {
	return Count(f.Roots)
}

// =============================================================================
// Serialization
// =============================================================================

// MarshalJSON emits the record's fields plus a "children" array.
// A record field named "children" is shadowed by the real children. A child
// that is already an ancestor on the current path is omitted, so cyclic
// structures encode in finite output.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.document(map[*Node]struct{}{}))
}

func (n *Node) document(onPath map[*Node]struct{}) map[string]any {
	onPath[n] = struct{}{}
	defer delete(onPath, n)

	out := make(map[string]any, len(n.Record)+1)
	for k, v := range n.Record {
		out[k] = v
	}
	children := make([]map[string]any, 0, len(n.Children))
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if _, ok := onPath[c]; ok {
			continue
		}
		children = append(children, c.document(onPath))
	}
	out[ChildrenField] = children
	return out
}

// UnmarshalJSON is the inverse of MarshalJSON. Numbers decode as
// json.Number so identifiers keep their exact form.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Record = make(Record, len(raw))
	n.Children = []*Node{}
	for k, v := range raw {
		if k == ChildrenField {
			if err := json.Unmarshal(v, &n.Children); err != nil {
				return fmt.Errorf("children: %w", err)
			}
			if n.Children == nil {
				n.Children = []*Node{}
			}
			continue
		}
		var val any
		dec := json.NewDecoder(bytes.NewReader(v))
		dec.UseNumber()
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("field %s: %w", k, err)
		}
		n.Record[k] = val
	}
	return nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

// key extracts a normalized identifier from r[field].
// Strings must be non-empty; numbers are formatted without exponent.
func key(r Record, field string) (string, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return "", false
	}
	switch k := v.(type) {
	case string:
		return k, k != ""
	case json.Number:
		return numberKey(k)
	case int:
		return strconv.Itoa(k), true
	case int32:
		return strconv.FormatInt(int64(k), 10), true
	case int64:
		return strconv.FormatInt(k, 10), true
	case uint:
		return strconv.FormatUint(uint64(k), 10), true
	case uint32:
		return strconv.FormatUint(uint64(k), 10), true
	case uint64:
		return strconv.FormatUint(k, 10), true
	case float32:
		return strconv.FormatFloat(float64(k), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(k, 'f', -1, 64), true
	default:
		return "", false
	}
}

// numberKey formats n the way the float64 and int cases do, so 1, 1.0 and
// 1e0 all yield "1". Integers beyond int64 keep their digits.
func numberKey(n json.Number) (string, bool) {
	if n == "" {
		return "", false
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), true
	}
	if !strings.ContainsAny(n.String(), ".eE") {
		return n.String(), true
	}
	f, err := n.Float64()
	if err != nil {
		return n.String(), true
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}

func copyRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
