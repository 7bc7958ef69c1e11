// Package store persists canonical shipment records in a file-backed SQLite
// database via database/sql and the pure-Go modernc.org/sqlite driver.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite"

	"github.com/JonMunkholm/shipload/internal/normalize"
)

// identRegex validates table names before they are interpolated into SQL.
var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// StorageError wraps a failure to open, migrate, or write the database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store is a handle on one shipments table in a SQLite database file.
type Store struct {
	db    *sql.DB
	table string
}

// Open opens the database file, creating it if absent, and verifies the
// connection. The caller owns the store and must Close it on every exit
// path.
func Open(path, table string) (*Store, error) {
	if !identRegex.MatchString(table) {
		return nil, &StorageError{Op: "open", Err: fmt.Errorf("invalid table name %q", table)}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Err: err}
	}

	return &Store{db: db, table: table}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the shipments table if it does not exist. Idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	shipment_identifier TEXT PRIMARY KEY,
	product TEXT,
	quantity INTEGER,
	origin TEXT,
	destination TEXT
)`, s.table)

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return &StorageError{Op: "ensure schema", Err: err}
	}
	return nil
}

// Append inserts records as new rows inside a single transaction: all rows
// or none. A primary-key collision with pre-existing rows fails the whole
// batch, so callers relying on upsert semantics must pre-deduplicate. An
// empty batch is a no-op. Returns the number of rows appended.
func (s *Store) Append(ctx context.Context, records []normalize.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &StorageError{Op: "append", Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (shipment_identifier, product, quantity, origin, destination) VALUES (?, ?, ?, ?, ?)",
		s.table))
	if err != nil {
		return 0, &StorageError{Op: "append", Err: err}
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.ShipmentID, rec.Product, rec.Quantity, rec.Origin, rec.Destination)
		if err != nil {
			return 0, &StorageError{Op: "append", Err: fmt.Errorf("shipment %s: %w", rec.ShipmentID, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, &StorageError{Op: "append", Err: err}
	}
	return len(records), nil
}

// Count returns the number of rows currently in the table. Used as the
// verification step after the final append.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, &StorageError{Op: "count", Err: err}
	}
	return n, nil
}
