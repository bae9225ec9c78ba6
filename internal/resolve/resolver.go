package resolve

import (
	"fmt"
	"log/slog"

	"github.com/mvp-joe/codegraph/internal/extract"
	"github.com/mvp-joe/codegraph/internal/store"
)

// Promoted pending edges never outrank a same-file resolved edge (0.9), so
// resolution confidence is capped just below it.
const maxResolvedConfidence = 0.85

// Report summarizes one resolution pass.
type Report struct {
	Considered int
	Promoted   int
	Ambiguous  int
	Unmatched  int
}

// Resolver promotes stored pending relationships into resolved edges.
type Resolver struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a resolver over an open store.
func New(st *store.Store) *Resolver {
	return &Resolver{
		store:  st,
		logger: slog.Default().With("component", "resolve"),
	}
}

// Run loads the workspace symbol index and walks every unresolved pending
// relationship. A pending edge promotes only when its callee name maps to
// exactly one candidate declaration; ambiguous names stay pending rather
// than guessing.
func (r *Resolver) Run() (*Report, error) {
	symbols, err := r.store.AllSymbols()
	if err != nil {
		return nil, fmt.Errorf("load symbols: %w", err)
	}
	idx := NewIndex(symbols)

	pending, err := r.store.UnresolvedPending()
	if err != nil {
		return nil, fmt.Errorf("load pending: %w", err)
	}

	report := &Report{Considered: len(pending)}
	var promoted []extract.Relationship

	for _, row := range pending {
		p := row.Pending
		candidates := idx.Candidates(p.CalleeName, p.Kind)
		switch len(candidates) {
		case 0:
			report.Unmatched++
			continue
		case 1:
		default:
			report.Ambiguous++
			continue
		}

		target := candidates[0]
		if target.ID == p.FromSymbolID {
			report.Unmatched++
			continue
		}
		confidence := p.Confidence
		if confidence > maxResolvedConfidence {
			confidence = maxResolvedConfidence
		}
		promoted = append(promoted, extract.Relationship{
			ID:           extract.RelationshipID(p.FromSymbolID, target.ID, p.Kind, p.LineNumber),
			FromSymbolID: p.FromSymbolID,
			ToSymbolID:   target.ID,
			Kind:         p.Kind,
			FilePath:     p.FilePath,
			LineNumber:   p.LineNumber,
			Confidence:   confidence,
			Metadata:     map[string]any{"resolved": "workspace"},
		})
		if err := r.store.MarkPendingResolved(row.ID, target.ID); err != nil {
			return nil, err
		}
		report.Promoted++
	}

	if err := r.store.InsertRelationships(promoted); err != nil {
		return nil, fmt.Errorf("insert promoted edges: %w", err)
	}
	r.logger.Info("resolution pass complete",
		"considered", report.Considered,
		"promoted", report.Promoted,
		"ambiguous", report.Ambiguous,
		"unmatched", report.Unmatched)
	return report, nil
}
