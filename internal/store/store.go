// Package store persists extraction output in SQLite. One database per
// workspace holds the files, runs, symbols, relationships, pending
// relationships, identifiers and types tables. Writes happen in batched
// transactions; symbol ids are the deterministic content hashes computed
// during extraction, so re-indexing unchanged files is idempotent.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at dbPath with WAL mode enabled.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS runs (
  id           TEXT PRIMARY KEY,
  root         TEXT NOT NULL,
  started_at   TIMESTAMP NOT NULL,
  finished_at  TIMESTAMP,
  file_count   INTEGER NOT NULL DEFAULT 0,
  symbol_count INTEGER NOT NULL DEFAULT 0,
  error_count  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS files (
  path        TEXT PRIMARY KEY,
  language    TEXT NOT NULL,
  hash        TEXT,
  run_id      TEXT REFERENCES runs(id),
  indexed_at  TIMESTAMP
);

CREATE TABLE IF NOT EXISTS symbols (
  id             TEXT PRIMARY KEY,
  file_path      TEXT NOT NULL,
  name           TEXT NOT NULL,
  kind           TEXT NOT NULL,
  language       TEXT NOT NULL,
  start_line     INTEGER NOT NULL,
  start_col      INTEGER NOT NULL,
  end_line       INTEGER NOT NULL,
  end_col        INTEGER NOT NULL,
  start_byte     INTEGER NOT NULL,
  end_byte       INTEGER NOT NULL,
  signature      TEXT,
  doc_comment    TEXT,
  visibility     TEXT,
  parent_id      TEXT,
  metadata       TEXT,
  semantic_group TEXT,
  confidence     REAL
);

CREATE TABLE IF NOT EXISTS relationships (
  id             TEXT PRIMARY KEY,
  from_symbol_id TEXT NOT NULL,
  to_symbol_id   TEXT NOT NULL,
  kind           TEXT NOT NULL,
  file_path      TEXT NOT NULL,
  line_number    INTEGER NOT NULL,
  confidence     REAL NOT NULL,
  metadata       TEXT
);

CREATE TABLE IF NOT EXISTS pending_relationships (
  id             INTEGER PRIMARY KEY,
  from_symbol_id TEXT NOT NULL,
  callee_name    TEXT NOT NULL,
  kind           TEXT NOT NULL,
  file_path      TEXT NOT NULL,
  line_number    INTEGER NOT NULL,
  confidence     REAL NOT NULL,
  resolved_to    TEXT
);

CREATE TABLE IF NOT EXISTS identifiers (
  id                   TEXT PRIMARY KEY,
  name                 TEXT NOT NULL,
  kind                 TEXT NOT NULL,
  language             TEXT NOT NULL,
  file_path            TEXT NOT NULL,
  start_line           INTEGER NOT NULL,
  start_col            INTEGER NOT NULL,
  end_line             INTEGER NOT NULL,
  end_col              INTEGER NOT NULL,
  containing_symbol_id TEXT
);

CREATE TABLE IF NOT EXISTS types (
  symbol_id      TEXT PRIMARY KEY,
  resolved_type  TEXT NOT NULL,
  generic_params TEXT,
  constraints    TEXT,
  is_inferred    BOOLEAN NOT NULL DEFAULT FALSE,
  language       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_files_language ON files(language);
CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file_path);
CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_kind ON symbols(kind);
CREATE INDEX IF NOT EXISTS idx_symbols_parent ON symbols(parent_id);
CREATE INDEX IF NOT EXISTS idx_relationships_from ON relationships(from_symbol_id);
CREATE INDEX IF NOT EXISTS idx_relationships_to ON relationships(to_symbol_id);
CREATE INDEX IF NOT EXISTS idx_relationships_kind ON relationships(kind);
CREATE INDEX IF NOT EXISTS idx_pending_callee ON pending_relationships(callee_name);
CREATE INDEX IF NOT EXISTS idx_pending_from ON pending_relationships(from_symbol_id);
CREATE INDEX IF NOT EXISTS idx_identifiers_file ON identifiers(file_path);
CREATE INDEX IF NOT EXISTS idx_identifiers_name ON identifiers(name);
CREATE INDEX IF NOT EXISTS idx_identifiers_containing ON identifiers(containing_symbol_id);
`

// DeleteFileData transactionally removes all rows produced by a previous
// extraction of the given path. Used before re-inserting on incremental
// re-index.
func (s *Store) DeleteFileData(path string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	if err := deleteFileRows(tx, path); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteFileRows(tx *sql.Tx, path string) error {
	if _, err := tx.Exec(
		"DELETE FROM types WHERE symbol_id IN (SELECT id FROM symbols WHERE file_path = ?)", path,
	); err != nil {
		return fmt.Errorf("delete types: %w", err)
	}
	for _, q := range []string{
		"DELETE FROM identifiers WHERE file_path = ?",
		"DELETE FROM pending_relationships WHERE file_path = ?",
		"DELETE FROM relationships WHERE file_path = ?",
		"DELETE FROM symbols WHERE file_path = ?",
		"DELETE FROM files WHERE path = ?",
	} {
		if _, err := tx.Exec(q, path); err != nil {
			return fmt.Errorf("delete file data: %w", err)
		}
	}
	return nil
}
