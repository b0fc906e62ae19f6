// Package tree builds ordered forests from flat, parent-pointer records.
//
// Catalog taxonomies (glossaries, categories, terms) arrive from data feeds
// as flat lists where every record names its parent by identifier. This
// package turns such a list into a forest of nested nodes, preserving each
// record's fields and attaching a children collection.
//
// # Building
//
// Records are opaque maps. [Options] names the identifier and parent fields:
//
//	records := []tree.Record{
//	    {"nodeUri": "g1", "label": "Finance"},
//	    {"nodeUri": "c1", "parentUri": "g1", "label": "Revenue"},
//	}
//	roots := tree.BuildForest(records, tree.Options{
//	    IDField:     "nodeUri",
//	    ParentField: "parentUri",
//	})
//
// [Build] returns a [Forest] that additionally reports records no root can
// reach (members of parent cycles). [BuildForest] returns only the roots.
//
// # Resolution Rules
//
// Construction follows each record's direct parent pointer only; no
// ancestor chain is ever walked, so construction is linear and terminates on
// any input:
//
//   - A record whose parent is absent, empty, or unknown becomes a root.
//   - A record without a usable identifier becomes a root and cannot be a parent.
//   - Siblings keep their relative input order.
//   - Records on a parent cycle attach to each other, are reachable from no
//     root, and are listed in [Forest.Unreachable].
//   - Duplicate identifiers resolve through [DuplicatePolicy]; every
//     duplicate record still appears in the output.
//
// The input slice and its records are never modified. Output nodes hold
// shallow copies of the input records.
//
// # Traversal
//
// [Walk], [Flatten], [Find], [Path], [Count], [Depth], [Filter] and
// [SortChildren] operate on the returned roots.
package tree
