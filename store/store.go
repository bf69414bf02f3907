// Package store keeps hasprops instances in a SQLite database, one row per
// property in declaration order. Only explicitly assigned properties are
// restored on Load; the others pick up their schema defaults.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"

	j "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/reoring/hasprops"
)

// ErrNotFound is returned by Load and Delete for an unknown document id.
var ErrNotFound = errors.New("store: document not found")

// Store is a SQLite backed document store.
type Store struct {
	db       *sql.DB
	registry func(string) (*hasprops.Schema, bool)
}

// Option configures a Store.
type Option func(*Store)

// WithRegistry resolves schema names through r instead of the default
// registry.
func WithRegistry(r *hasprops.Registry) Option {
	return func(s *Store) { s.registry = r.Lookup }
}

// Open opens (and creates when missing) the database at path.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db, registry: hasprops.Lookup}
	for _, o := range opts {
		if o != nil {
			o(s)
		}
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		schema TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS props (
		doc_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		name TEXT NOT NULL,
		value JSON NOT NULL,
		explicit INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (doc_id, name),
		FOREIGN KEY (doc_id) REFERENCES documents(id) ON DELETE CASCADE
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Save writes inst under id, replacing any previous document with that id.
// The edit mark is left alone; callers clear it once the save is final.
func (s *Store) Save(ctx context.Context, id string, inst *hasprops.Instance) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM props WHERE doc_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, schema) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET schema = excluded.schema, updated_at = CURRENT_TIMESTAMP
	`, id, inst.Schema().Name()); err != nil {
		return err
	}
	for i, f := range inst.Enumerate() {
		explicit := 0
		if inst.IsSet(f.Name) {
			explicit = 1
		}
		data, err := j.Marshal(f.Value)
		if err != nil {
			return fmt.Errorf("store: encode %s: %w", f.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO props (doc_id, seq, name, value, explicit) VALUES (?, ?, ?, ?, ?)
		`, id, i, f.Name, string(data), explicit); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Load rebuilds the document stored under id. The stored values go through
// validation again, so a document saved under an older schema version fails
// with the usual Issues rather than loading invalid state.
func (s *Store) Load(ctx context.Context, id string, opts ...hasprops.Option) (*hasprops.Instance, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT schema FROM documents WHERE id = ?`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	schema, ok := s.registry(name)
	if !ok {
		return nil, fmt.Errorf("store: document %s uses unregistered schema %q", id, name)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM props WHERE doc_id = ? AND explicit = 1 ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vals := hasprops.Values{}
	for rows.Next() {
		var prop, raw string
		if err := rows.Scan(&prop, &raw); err != nil {
			return nil, err
		}
		dec := j.NewDecoder(bytes.NewReader([]byte(raw)))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("store: decode %s: %w", prop, err)
		}
		vals[prop] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return hasprops.New(schema, vals, opts...)
}

// Entry is one row of List.
type Entry struct {
	ID     string `json:"id" yaml:"id"`
	Schema string `json:"schema" yaml:"schema"`
}

// List returns every stored document ordered by id.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, schema FROM documents ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Schema); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes the document stored under id.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM props WHERE doc_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
