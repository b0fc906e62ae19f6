// Package sqlite stores glossary nodes in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/catalogtree/pkg/errors"
	"github.com/matzehuels/catalogtree/pkg/glossary"
	"github.com/matzehuels/catalogtree/pkg/observability"
	"github.com/matzehuels/catalogtree/pkg/store"
)

const backend = store.BackendSQLite

const columns = `node_uri, parent_uri, node_type, label, path, owner, admin, status, readme, created, updated, deleted`

// Store is a store.Store backed by a SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and migrates its schema.
// Use ":memory:" for a private in-memory database.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "create %s", filepath.Dir(path))
		}
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "open %s", path)
	}
	// An in-memory database exists per connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "migrate %s", path)
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS glossary_nodes (
			node_uri   TEXT PRIMARY KEY,
			parent_uri TEXT NOT NULL DEFAULT '',
			node_type  TEXT NOT NULL CHECK(node_type IN ('Glossary','Category','Term')),
			label      TEXT NOT NULL DEFAULT '',
			path       TEXT NOT NULL,
			owner      TEXT NOT NULL DEFAULT '',
			admin      TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL DEFAULT '',
			readme     TEXT NOT NULL DEFAULT '',
			created    TEXT NOT NULL DEFAULT '',
			updated    TEXT NOT NULL DEFAULT '',
			deleted    TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS glossary_nodes_path ON glossary_nodes(path)`,
		`CREATE INDEX IF NOT EXISTS glossary_nodes_parent ON glossary_nodes(parent_uri)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", truncate(s, 60), err)
		}
	}
	return nil
}

// ListNodes implements store.Store.
func (s *Store) ListNodes(ctx context.Context, q store.Query) (nodes []glossary.Node, err error) {
	start := time.Now()
	observability.Store().OnQueryStart(ctx, backend, q.RootPath)
	defer func() {
		observability.Store().OnQueryComplete(ctx, backend, q.RootPath, len(nodes), time.Since(start), err)
	}()

	var (
		where []string
		args  []any
	)
	if q.RootPath != "" && q.RootPath != "/" {
		where = append(where, `(path = ? OR substr(path, 1, length(?)) = ?)`)
		prefix := store.PathPrefix(q.RootPath)
		args = append(args, q.RootPath, prefix, prefix)
	}
	if !q.IncludeDeleted {
		where = append(where, `deleted = ''`)
	}
	query := `SELECT ` + columns + ` FROM glossary_nodes`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY path, node_uri`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "list nodes")
	}
	defer rows.Close()

	nodes = []glossary.Node{}
	for rows.Next() {
		var n glossary.Node
		if err := rows.Scan(&n.NodeURI, &n.ParentURI, &n.NodeType, &n.Label, &n.Path,
			&n.Owner, &n.Admin, &n.Status, &n.Readme, &n.Created, &n.Updated, &n.Deleted); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// PutNodes implements store.Store. All nodes are written in one transaction.
func (s *Store) PutNodes(ctx context.Context, nodes []glossary.Node) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "begin")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO glossary_nodes (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range nodes {
		if _, err := stmt.ExecContext(ctx, n.NodeURI, n.ParentURI, n.NodeType, n.Label, n.Path,
			n.Owner, n.Admin, n.Status, n.Readme, n.Created, n.Updated, n.Deleted); err != nil {
			return fmt.Errorf("insert %s: %w", n.NodeURI, err)
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ store.Store = (*Store)(nil)
