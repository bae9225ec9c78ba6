package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/codegraph/internal/extract"
	"github.com/mvp-joe/codegraph/internal/extract/lang"
	"github.com/mvp-joe/codegraph/internal/resolve"
	"github.com/mvp-joe/codegraph/internal/store"
	"github.com/mvp-joe/codegraph/internal/treesitter"
)

// Options configure one indexing run.
type Options struct {
	Root      string
	Include   []string
	Exclude   []string
	Languages []string
	Workers   int
	BatchSize int
	// SkipResolve leaves pending relationships for a later resolve pass.
	SkipResolve bool
}

// Summary reports what an indexing run did.
type Summary struct {
	RunID       string
	Files       int
	Symbols     int
	Identifiers int
	Errors      int
	Promoted    int
	Duration    time.Duration
}

// Engine runs the extraction pipeline over a workspace.
type Engine struct {
	store  *store.Store
	opts   Options
	logger *slog.Logger

	// OnFile is called after each file finishes, successfully or not. The CLI
	// wires progress reporting through it.
	OnFile func(rel string)
}

// New creates an engine over an open store.
func New(st *store.Store, opts Options) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	return &Engine{
		store:  st,
		opts:   opts,
		logger: slog.Default().With("component", "engine"),
	}
}

type fileOutcome struct {
	result *store.FileResult
	err    error
	entry  FileEntry
}

// Run indexes the workspace in two strictly ordered phases: discovery, then
// parallel per-file symbol extraction with batched writes, then a second
// parallel pass recording identifiers against the persisted symbol set,
// then the cross-file resolution pass. A file that fails to read, parse or
// extract is logged and counted, never fatal to the run.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	started := time.Now()

	disc, err := NewDiscovery(e.opts.Root, e.opts.Include, e.opts.Exclude, e.opts.Languages)
	if err != nil {
		return nil, err
	}
	entries, err := disc.Files()
	if err != nil {
		return nil, err
	}

	run, err := e.store.BeginRun(e.opts.Root)
	if err != nil {
		return nil, err
	}
	summary := &Summary{RunID: run.ID}

	outcomes := make(chan fileOutcome, e.opts.Workers)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	go func() {
		for _, entry := range entries {
			entry := entry
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				res, err := e.processFile(run.ID, entry)
				outcomes <- fileOutcome{result: res, err: err, entry: entry}
				return nil
			})
		}
		g.Wait()
		close(outcomes)
	}()

	// Single collector: SQLite takes one writer, so batches flush here.
	batch := make([]store.FileResult, 0, e.opts.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := e.store.ApplyBatch(batch); err != nil {
			return fmt.Errorf("flush batch: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	// Drain the channel fully even after a write failure so workers never
	// block on send.
	var flushErr error
	var indexed []FileEntry
	for out := range outcomes {
		if e.OnFile != nil {
			e.OnFile(out.entry.Rel)
		}
		if flushErr != nil {
			continue
		}
		if out.err != nil {
			summary.Errors++
			e.logger.Warn("file skipped", "path", out.entry.Rel, "error", out.err)
			continue
		}
		summary.Files++
		summary.Symbols += len(out.result.Result.Symbols)
		indexed = append(indexed, out.entry)
		batch = append(batch, *out.result)
		if len(batch) >= e.opts.BatchSize {
			flushErr = flush()
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if flushErr != nil {
		return nil, flushErr
	}
	if err := flush(); err != nil {
		return nil, err
	}

	// Phase 2 starts only after the final flush above: identifier containment
	// is recorded against the complete stored symbol set.
	identifiers, err := e.extractIdentifiers(ctx, indexed)
	if err != nil {
		return nil, fmt.Errorf("identifier phase: %w", err)
	}
	summary.Identifiers = identifiers

	if !e.opts.SkipResolve {
		report, err := resolve.New(e.store).Run()
		if err != nil {
			return nil, fmt.Errorf("resolve: %w", err)
		}
		summary.Promoted = report.Promoted
	}

	if err := e.store.FinishRun(run.ID, summary.Files, summary.Symbols, summary.Errors); err != nil {
		return nil, err
	}
	summary.Duration = time.Since(started)
	e.logger.Info("index run complete",
		"run", run.ID,
		"files", summary.Files,
		"symbols", summary.Symbols,
		"identifiers", summary.Identifiers,
		"errors", summary.Errors,
		"promoted", summary.Promoted,
		"duration", summary.Duration)
	return summary, nil
}

// processFile reads, parses and runs the phase-1 extraction for one file.
func (e *Engine) processFile(runID string, entry FileEntry) (*store.FileResult, error) {
	content, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	tree, err := treesitter.Parse(entry.Language, content)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	res, err := lang.ExtractDefinitions(tree, entry.Rel, content, entry.Language)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	return &store.FileResult{
		File: store.File{
			Path:      entry.Rel,
			Language:  entry.Language,
			Hash:      fmt.Sprintf("%016x", xxhash.Sum64(content)),
			RunID:     runID,
			IndexedAt: time.Now().UTC(),
		},
		Result: res,
	}, nil
}

// extractIdentifiers is phase 2: re-parse each indexed file and record its
// usage sites against the symbols persisted by phase 1. Failures follow the
// same per-file isolation as phase 1.
func (e *Engine) extractIdentifiers(ctx context.Context, entries []FileEntry) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	results := make(chan []extract.Identifier, e.opts.Workers)

	go func() {
		for _, entry := range entries {
			entry := entry
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				idents, err := e.identifiersForFile(entry)
				if err != nil {
					e.logger.Warn("identifier pass skipped", "path", entry.Rel, "error", err)
					return nil
				}
				results <- idents
				return nil
			})
		}
		g.Wait()
		close(results)
	}()

	total := 0
	batch := make([]extract.Identifier, 0, e.opts.BatchSize)
	var insertErr error
	for idents := range results {
		if insertErr != nil {
			continue
		}
		batch = append(batch, idents...)
		total += len(idents)
		if len(batch) >= e.opts.BatchSize {
			insertErr = e.store.InsertIdentifiers(batch)
			batch = batch[:0]
		}
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	if insertErr != nil {
		return 0, insertErr
	}
	if err := e.store.InsertIdentifiers(batch); err != nil {
		return 0, err
	}
	return total, nil
}

func (e *Engine) identifiersForFile(entry FileEntry) ([]extract.Identifier, error) {
	content, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	tree, err := treesitter.Parse(entry.Language, content)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	symbols, err := e.store.SymbolsByFile(entry.Rel)
	if err != nil {
		return nil, err
	}
	return lang.ExtractIdentifiers(tree, entry.Rel, content, entry.Language, symbols)
}
