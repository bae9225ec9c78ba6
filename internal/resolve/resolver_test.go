package resolve

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codegraph/internal/extract"
	"github.com/mvp-joe/codegraph/internal/store"
)

// Test Plan:
// - a pending callee with exactly one workspace candidate promotes into a
//   resolved edge and drops out of the pending set
// - a callee declared in two files stays pending (ambiguous)
// - a callee with no candidate stays pending (unmatched)
// - call candidates are narrowed to call-compatible kinds, so a lone
//   variable does not satisfy a call edge
// - the exported call graph carries the promoted edge and DOT output renders

func openSeededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "codegraph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate())

	symbol := func(id, name, file string, kind extract.SymbolKind) extract.Symbol {
		return extract.Symbol{
			ID: id, Name: name, Kind: kind, Language: "go", FilePath: file,
			StartLine: 1, EndLine: 3, Confidence: 1,
		}
	}
	pending := func(from, callee string) extract.PendingRelationship {
		return extract.PendingRelationship{
			FromSymbolID: from, CalleeName: callee, Kind: extract.RelCalls,
			FilePath: "a.go", LineNumber: 2, Confidence: 0.7,
		}
	}

	batch := []store.FileResult{
		{
			File: store.File{Path: "a.go", Language: "go", IndexedAt: time.Now().UTC()},
			Result: &extract.Result{
				Symbols: []extract.Symbol{
					symbol("sym-alpha", "Alpha", "a.go", extract.KindFunction),
					symbol("sym-dup-a", "Dup", "a.go", extract.KindFunction),
				},
				PendingRelationships: []extract.PendingRelationship{
					pending("sym-alpha", "Beta"),
					pending("sym-alpha", "Dup"),
					pending("sym-alpha", "Missing"),
					pending("sym-alpha", "config"),
				},
			},
		},
		{
			File: store.File{Path: "b.go", Language: "go", IndexedAt: time.Now().UTC()},
			Result: &extract.Result{
				Symbols: []extract.Symbol{
					symbol("sym-beta", "Beta", "b.go", extract.KindFunction),
					symbol("sym-dup-b", "Dup", "b.go", extract.KindFunction),
					symbol("sym-config", "config", "b.go", extract.KindVariable),
				},
			},
		},
	}
	require.NoError(t, st.ApplyBatch(batch))
	return st
}

func TestResolver_Run(t *testing.T) {
	t.Parallel()

	st := openSeededStore(t)
	report, err := New(st).Run()
	require.NoError(t, err)

	assert.Equal(t, 4, report.Considered)
	assert.Equal(t, 1, report.Promoted, "Beta has exactly one candidate")
	assert.Equal(t, 1, report.Ambiguous, "Dup is declared twice")
	assert.Equal(t, 2, report.Unmatched, "Missing has no candidate, config is not callable")

	calls, err := st.RelationshipsByKind(extract.RelCalls)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "sym-alpha", calls[0].FromSymbolID)
	assert.Equal(t, "sym-beta", calls[0].ToSymbolID)
	assert.InDelta(t, 0.7, calls[0].Confidence, 0.001,
		"promotion keeps the pending confidence below same-file edges")

	left, err := st.UnresolvedPending()
	require.NoError(t, err)
	names := make([]string, 0, len(left))
	for _, row := range left {
		names = append(names, row.Pending.CalleeName)
	}
	assert.ElementsMatch(t, []string{"Dup", "Missing", "config"}, names)
}

func TestResolver_RunTwiceIsIdempotent(t *testing.T) {
	t.Parallel()

	st := openSeededStore(t)
	_, err := New(st).Run()
	require.NoError(t, err)

	second, err := New(st).Run()
	require.NoError(t, err)
	assert.Zero(t, second.Promoted)

	calls, err := st.RelationshipsByKind(extract.RelCalls)
	require.NoError(t, err)
	assert.Len(t, calls, 1)
}

func TestCallGraph_Export(t *testing.T) {
	t.Parallel()

	st := openSeededStore(t)
	_, err := New(st).Run()
	require.NoError(t, err)

	g, err := CallGraph(st)
	require.NoError(t, err)

	adj, err := g.AdjacencyMap()
	require.NoError(t, err)
	_, hasEdge := adj["sym-alpha"]["sym-beta"]
	assert.True(t, hasEdge)

	var buf bytes.Buffer
	require.NoError(t, WriteDOT(g, &buf))
	assert.Contains(t, buf.String(), "Alpha")
	assert.Contains(t, buf.String(), "->")
}

func TestIndex_Candidates(t *testing.T) {
	t.Parallel()

	idx := NewIndex([]extract.Symbol{
		{ID: "1", Name: "load", Kind: extract.KindFunction},
		{ID: "2", Name: "load", Kind: extract.KindVariable},
		{ID: "3", Name: "load", Kind: extract.KindImport},
	})

	calls := idx.Candidates("load", extract.RelCalls)
	require.Len(t, calls, 1, "only the function satisfies a call")
	assert.Equal(t, "1", calls[0].ID)

	uses := idx.Candidates("load", extract.RelUses)
	assert.Len(t, uses, 2, "imports never become targets")
}
