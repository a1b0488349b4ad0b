package ledger

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/samir-abis/facefusion/internal/errors"
)

const defaultRecentLimit = 20

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS acquisitions (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		kind       TEXT NOT NULL,
		name       TEXT NOT NULL,
		url        TEXT NOT NULL,
		path       TEXT NOT NULL,
		size_bytes INTEGER NOT NULL,
		valid      INTEGER NOT NULL,
		at         TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS acquisitions_at ON acquisitions (at)`,
}

// SQLiteStore persists acquisition outcomes in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// Open opens the database at path, creating the file and schema when
// missing.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.DatabaseError(apperrors.CodeDatabaseGeneric, "failed to open ledger database", err).
			WithModule("ledger").
			WithOperation("Open").
			WithField("path", path)
	}

	store := NewSQLiteStore(db)
	if err := store.Bootstrap(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLiteStore wraps an existing database handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Bootstrap creates the initial schema and prepares the store for use.
func (s *SQLiteStore) Bootstrap(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.DatabaseError(apperrors.CodeDatabaseGeneric, "failed to create ledger schema", err).
				WithModule("ledger").
				WithOperation("Bootstrap")
		}
	}
	return nil
}

// Record inserts one acquisition outcome. A zero timestamp is filled with
// the current time.
func (s *SQLiteStore) Record(ctx context.Context, entry Entry) error {
	at := entry.At
	if at.IsZero() {
		at = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO acquisitions (kind, name, url, path, size_bytes, valid, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.Kind, entry.Name, entry.URL, entry.Path, entry.SizeBytes,
		boolToInt(entry.Valid), at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return apperrors.DatabaseError(apperrors.CodeDatabaseGeneric, "failed to record acquisition", err).
			WithModule("ledger").
			WithOperation("Record").
			WithField("name", entry.Name)
	}
	return nil
}

// Recent returns the most recently recorded entries, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, name, url, path, size_bytes, valid, at
		 FROM acquisitions
		 ORDER BY id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, apperrors.DatabaseError(apperrors.CodeDatabaseGeneric, "failed to query ledger", err).
			WithModule("ledger").
			WithOperation("Recent")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry Entry
			valid int
			at    string
		)
		if err := rows.Scan(&entry.Kind, &entry.Name, &entry.URL, &entry.Path,
			&entry.SizeBytes, &valid, &at); err != nil {
			return nil, apperrors.DatabaseError(apperrors.CodeDatabaseGeneric, "failed to scan ledger row", err).
				WithModule("ledger").
				WithOperation("Recent")
		}
		entry.Valid = valid != 0
		if parsed, perr := time.Parse(time.RFC3339Nano, at); perr == nil {
			entry.At = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.DatabaseError(apperrors.CodeDatabaseGeneric, "failed to read ledger rows", err).
			WithModule("ledger").
			WithOperation("Recent")
	}
	return entries, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
