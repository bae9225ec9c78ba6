package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one indexing pass over a workspace.
type Run struct {
	ID          string
	Root        string
	StartedAt   time.Time
	FinishedAt  *time.Time
	FileCount   int
	SymbolCount int
	ErrorCount  int
}

// BeginRun records the start of an indexing pass and returns its id.
func (s *Store) BeginRun(root string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Root:      root,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		"INSERT INTO runs (id, root, started_at) VALUES (?, ?, ?)",
		run.ID, run.Root, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}
	return run, nil
}

// FinishRun records completion counters for a run.
func (s *Store) FinishRun(runID string, fileCount, symbolCount, errorCount int) error {
	_, err := s.db.Exec(
		"UPDATE runs SET finished_at = ?, file_count = ?, symbol_count = ?, error_count = ? WHERE id = ?",
		time.Now().UTC(), fileCount, symbolCount, errorCount, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// LatestRun returns the most recently started run, or nil when the database
// has never been indexed.
func (s *Store) LatestRun() (*Run, error) {
	run := &Run{}
	var finished sql.NullTime
	err := s.db.QueryRow(
		`SELECT id, root, started_at, finished_at, file_count, symbol_count, error_count
		 FROM runs ORDER BY started_at DESC LIMIT 1`,
	).Scan(&run.ID, &run.Root, &run.StartedAt, &finished,
		&run.FileCount, &run.SymbolCount, &run.ErrorCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return run, nil
}
