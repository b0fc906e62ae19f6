// Package pkg provides the core libraries for catalogtree.
//
// # Overview
//
// Catalogtree turns flat records that reference their parent by identifier
// into a forest of nested nodes. Glossary hierarchies (glossaries, categories
// and terms addressed by materialized paths) are the main consumer. The pkg
// directory is organized into these areas:
//
//  1. [tree] - Forest construction and traversal
//  2. [glossary] - Glossary node schema, paths and statistics
//  3. [io] - Record decoding (JSON, YAML, TOML) and forest serialization
//  4. [store] - Glossary node storage (SQLite, MongoDB, memory)
//  5. [cache] - Forest and artifact caching (file, Redis)
//  6. [render] - Outline and Graphviz output
//  7. [pipeline] - Orchestration (load → build → render)
//
// # Architecture
//
// The typical data flow:
//
//	Record file / store query / inline records
//	         ↓
//	    [io] or [store] (load records)
//	         ↓
//	    [tree] (link records into a forest)
//	         ↓
//	    [render] (JSON, outline, DOT, SVG)
//
// # Quick Start
//
//	records, err := io.ReadRecordsFile("nodes.json", io.FormatAuto)
//	if err != nil {
//	    return err
//	}
//	forest := tree.Build(records, tree.Options{
//	    IDField:     "nodeUri",
//	    ParentField: "parentUri",
//	})
//	fmt.Print(outline.Render(forest.Roots, outline.Options{}))
//
// The [pipeline] package wraps the same steps with caching and observability
// hooks and is what the CLI and HTTP API use.
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/catalogtree/pkg/tree
// [glossary]: https://pkg.go.dev/github.com/matzehuels/catalogtree/pkg/glossary
// [io]: https://pkg.go.dev/github.com/matzehuels/catalogtree/pkg/io
// [store]: https://pkg.go.dev/github.com/matzehuels/catalogtree/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/catalogtree/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/catalogtree/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/catalogtree/pkg/pipeline
package pkg
