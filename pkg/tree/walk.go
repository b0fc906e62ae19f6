package tree

import "slices"

// WalkFunc is called for each visited node with its zero-based depth.
// Returning false skips the node's subtree.
type WalkFunc func(n *Node, depth int) bool

type frame struct {
	node  *Node
	depth int
}

// Walk visits the forest depth-first in pre-order, roots and siblings in
// order. It uses an explicit stack and visits each node at most once, so
// hand-assembled cyclic structures terminate as well.
func Walk(roots []*Node, fn WalkFunc) {
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{roots[i], 0})
	}
	seen := make(map[*Node]struct{})
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.node == nil {
			continue
		}
		if _, ok := seen[top.node]; ok {
			continue
		}
		seen[top.node] = struct{}{}
		if !fn(top.node, top.depth) {
			continue
		}
		for i := len(top.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{top.node.Children[i], top.depth + 1})
		}
	}
}

// Flatten returns every node in pre-order.
func Flatten(roots []*Node) []*Node {
	var out []*Node
	Walk(roots, func(n *Node, _ int) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Count returns the number of nodes in the forest.
func Count(roots []*Node) int {
	count := 0
	Walk(roots, func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Depth returns the number of levels in the forest (0 when empty).
func Depth(roots []*Node) int {
	levels := 0
	Walk(roots, func(_ *Node, d int) bool {
		levels = max(levels, d+1)
		return true
	})
	return levels
}

// Find returns the first node in pre-order whose id field equals id.
func Find(roots []*Node, id string, opts Options) *Node {
	opts = opts.WithDefaults()
	var found *Node
	Walk(roots, func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if k, ok := n.Key(opts.IDField); ok && k == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Path returns the chain of nodes from a root down to the node with the given
// id, or nil when no such node is reachable.
func Path(roots []*Node, id string, opts Options) []*Node {
	opts = opts.WithDefaults()
	var path []*Node
	Walk(roots, func(n *Node, d int) bool {
		if len(path) > 0 {
			if k, ok := path[len(path)-1].Key(opts.IDField); ok && k == id {
				return false
			}
		}
		path = append(path[:d], n)
		return true
	})
	if len(path) == 0 {
		return nil
	}
	if k, ok := path[len(path)-1].Key(opts.IDField); !ok || k != id {
		return nil
	}
	return path
}

// Filter returns a pruned copy of the forest holding every node that matches
// keep, together with its ancestors. Records are shared with the input.
func Filter(roots []*Node, keep func(*Node) bool) []*Node {
	out := []*Node{}
	for _, r := range roots {
		if n := filterNode(r, keep, map[*Node]struct{}{}); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func filterNode(n *Node, keep func(*Node) bool, onPath map[*Node]struct{}) *Node {
	if _, ok := onPath[n]; ok {
		return nil
	}
	onPath[n] = struct{}{}
	defer delete(onPath, n)

	var children []*Node
	for _, c := range n.Children {
		if fc := filterNode(c, keep, onPath); fc != nil {
			children = append(children, fc)
		}
	}
	if len(children) == 0 && !keep(n) {
		return nil
	}
	if children == nil {
		children = []*Node{}
	}
	return &Node{Record: n.Record, Children: children}
}

// SortChildren returns a copy of the forest with roots and every children
// list stably sorted by cmp. The input forest is left untouched.
func SortChildren(roots []*Node, cmp func(a, b *Node) int) []*Node {
	return sortLevel(roots, cmp, map[*Node]struct{}{})
}

func sortLevel(nodes []*Node, cmp func(a, b *Node) int, onPath map[*Node]struct{}) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if _, ok := onPath[n]; ok {
			continue
		}
		onPath[n] = struct{}{}
		out = append(out, &Node{Record: n.Record, Children: sortLevel(n.Children, cmp, onPath)})
		delete(onPath, n)
	}
	slices.SortStableFunc(out, cmp)
	return out
}
