package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// Test Plan:
// - open + migrate in a temp dir, write a batch, read everything back
// - re-applying a batch for the same path replaces rows instead of duplicating
// - the standalone identifier write path lands rows readable per file
// - pending promotion marks the row and it drops out of UnresolvedPending
// - run lifecycle records counters

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "codegraph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate())
	return s
}

func sampleBatch() []FileResult {
	res := &extract.Result{
		Symbols: []extract.Symbol{
			{
				ID: "sym-run", Name: "Run", Kind: extract.KindFunction,
				Language: "go", FilePath: "main.go",
				StartLine: 3, StartColumn: 0, EndLine: 5, EndColumn: 1,
				Signature:  "func Run() error",
				Visibility: extract.VisibilityPublic,
				Metadata:   map[string]any{"receiver": "Server"},
				Confidence: 1,
			},
			{
				ID: "sym-helper", Name: "helper", Kind: extract.KindFunction,
				Language: "go", FilePath: "main.go",
				StartLine: 7, StartColumn: 0, EndLine: 9, EndColumn: 1,
				Visibility: extract.VisibilityPrivate,
				Confidence: 1,
			},
		},
		Relationships: []extract.Relationship{
			{
				ID: "rel-1", FromSymbolID: "sym-run", ToSymbolID: "sym-helper",
				Kind: extract.RelCalls, FilePath: "main.go", LineNumber: 4, Confidence: 0.9,
			},
		},
		PendingRelationships: []extract.PendingRelationship{
			{
				FromSymbolID: "sym-run", CalleeName: "Dial", Kind: extract.RelCalls,
				FilePath: "main.go", LineNumber: 4, Confidence: 0.7,
			},
		},
		Identifiers: []extract.Identifier{
			{
				ID: "ident-1", Name: "helper", Kind: extract.IdentCall,
				Language: "go", FilePath: "main.go",
				StartLine: 4, StartColumn: 8, EndLine: 4, EndColumn: 14,
				ContainingSymbolID: "sym-run",
			},
		},
		Types: map[string]extract.TypeInfo{
			"sym-run": {SymbolID: "sym-run", ResolvedType: "error", IsInferred: true, Language: "go"},
		},
	}
	return []FileResult{{
		File:   File{Path: "main.go", Language: "go", Hash: "abc", IndexedAt: time.Now().UTC()},
		Result: res,
	}}
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	require.NoError(t, s.ApplyBatch(sampleBatch()))

	symbols, err := s.SymbolsByFile("main.go")
	require.NoError(t, err)
	require.Len(t, symbols, 2)
	assert.Equal(t, "Run", symbols[0].Name)
	assert.Equal(t, extract.KindFunction, symbols[0].Kind)
	assert.Equal(t, "Server", symbols[0].Metadata["receiver"])

	byName, err := s.SymbolsByName("helper")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "sym-helper", byName[0].ID)

	calls, err := s.RelationshipsByKind(extract.RelCalls)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "sym-run", calls[0].FromSymbolID)
	assert.Equal(t, "sym-helper", calls[0].ToSymbolID)

	ti, err := s.TypeForSymbol("sym-run")
	require.NoError(t, err)
	require.NotNil(t, ti)
	assert.Equal(t, "error", ti.ResolvedType)
	assert.True(t, ti.IsInferred)

	missing, err := s.TypeForSymbol("sym-helper")
	require.NoError(t, err)
	assert.Nil(t, missing)

	stats, err := s.CurrentStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Files)
	assert.Equal(t, 2, stats.Symbols)
	assert.Equal(t, 1, stats.Relationships)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Identifiers)
}

func TestStore_ReapplyReplaces(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	require.NoError(t, s.ApplyBatch(sampleBatch()))
	require.NoError(t, s.ApplyBatch(sampleBatch()))

	stats, err := s.CurrentStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Files, "re-index replaces, never duplicates")
	assert.Equal(t, 2, stats.Symbols)
	assert.Equal(t, 1, stats.Pending)
}

func TestStore_InsertIdentifiers(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	require.NoError(t, s.ApplyBatch(sampleBatch()))

	idents := []extract.Identifier{
		{
			ID: "ident-2", Name: "Dial", Kind: extract.IdentCall,
			Language: "go", FilePath: "main.go",
			StartLine: 8, StartColumn: 4, EndLine: 8, EndColumn: 8,
			ContainingSymbolID: "sym-helper",
		},
		{
			ID: "ident-3", Name: "addr", Kind: extract.IdentMemberAccess,
			Language: "go", FilePath: "main.go",
			StartLine: 8, StartColumn: 10, EndLine: 8, EndColumn: 14,
		},
	}
	require.NoError(t, s.InsertIdentifiers(idents))

	got, err := s.IdentifiersByFile("main.go")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "helper", got[0].Name, "ordered by position")
	assert.Equal(t, "Dial", got[1].Name)
	assert.Equal(t, "sym-helper", got[1].ContainingSymbolID)
	assert.Equal(t, extract.IdentMemberAccess, got[2].Kind)
	assert.Empty(t, got[2].ContainingSymbolID)
}

func TestStore_PendingPromotion(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	require.NoError(t, s.ApplyBatch(sampleBatch()))

	pending, err := s.UnresolvedPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Dial", pending[0].Pending.CalleeName)

	require.NoError(t, s.MarkPendingResolved(pending[0].ID, "sym-dial"))

	left, err := s.UnresolvedPending()
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestStore_RunLifecycle(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	none, err := s.LatestRun()
	require.NoError(t, err)
	assert.Nil(t, none)

	run, err := s.BeginRun("/workspace")
	require.NoError(t, err)
	require.NoError(t, s.FinishRun(run.ID, 10, 250, 1))

	latest, err := s.LatestRun()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, run.ID, latest.ID)
	assert.Equal(t, 10, latest.FileCount)
	assert.Equal(t, 250, latest.SymbolCount)
	assert.Equal(t, 1, latest.ErrorCount)
	require.NotNil(t, latest.FinishedAt)
}

func TestStore_DeleteFileData(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	require.NoError(t, s.ApplyBatch(sampleBatch()))
	require.NoError(t, s.DeleteFileData("main.go"))

	stats, err := s.CurrentStats()
	require.NoError(t, err)
	assert.Zero(t, stats.Files)
	assert.Zero(t, stats.Symbols)
	assert.Zero(t, stats.Relationships)
	assert.Zero(t, stats.Pending)
	assert.Zero(t, stats.Identifiers)
}
