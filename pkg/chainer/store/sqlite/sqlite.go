package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/chainer/pkg/chainer/internalerr"
	"github.com/cognicore/chainer/pkg/chainer/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", path, internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS assertions (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	text TEXT UNIQUE NOT NULL,
	created_at TEXT NOT NULL
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// PutAssertion inserts an entry, ignoring duplicates by text
func (s *sqliteStore) PutAssertion(ctx context.Context, a store.Assertion) error {
	if a.Text == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO assertions (id, kind, text, created_at) VALUES (?, ?, ?, ?)
ON CONFLICT(text) DO NOTHING;
`, a.ID, a.Kind, a.Text, a.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// DeleteAssertion removes an entry by text
func (s *sqliteStore) DeleteAssertion(ctx context.Context, text string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM assertions WHERE text = ?`, text)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetAssertion retrieves an entry by text
func (s *sqliteStore) GetAssertion(ctx context.Context, text string) (store.Assertion, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, kind, text, created_at FROM assertions WHERE text = ?`, text)
	a, err := scanAssertion(row)
	if err == sql.ErrNoRows {
		return store.Assertion{}, false, nil
	}
	if err != nil {
		return store.Assertion{}, false, err
	}
	return a, true, nil
}

// ListAssertions returns every entry in ID order
func (s *sqliteStore) ListAssertions(ctx context.Context) ([]store.Assertion, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, kind, text, created_at FROM assertions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Assertion
	for rows.Next() {
		a, err := scanAssertion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAssertion(sc scanner) (store.Assertion, error) {
	var (
		a       store.Assertion
		created string
	)
	if err := sc.Scan(&a.ID, &a.Kind, &a.Text, &created); err != nil {
		return store.Assertion{}, err
	}
	if created != "" {
		t, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return store.Assertion{}, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		a.CreatedAt = t
	}
	return a, nil
}
