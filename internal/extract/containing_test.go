package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for containing-scope lookup:
// - A position inside a nested function resolves to the function, not the
//   enclosing class
// - Executable kinds outrank type scopes, data kinds rank last
// - Ties at equal priority break toward the smaller span
// - First/last line positions are column-constrained
// - A position outside every span resolves to nothing

func span(id string, kind SymbolKind, startLine, startCol, endLine, endCol uint32) Symbol {
	return Symbol{
		ID: id, Name: id, Kind: kind,
		StartLine: startLine, StartColumn: startCol,
		EndLine: endLine, EndColumn: endCol,
	}
}

func TestFindContainingSymbol_NestedFunctionBeatsClass(t *testing.T) {
	t.Parallel()

	symbols := []Symbol{
		span("outer-class", KindClass, 1, 0, 40, 1),
		span("inner-method", KindMethod, 10, 4, 20, 5),
	}

	got := FindContainingSymbol(symbols, 15, 8)
	require.NotNil(t, got)
	assert.Equal(t, "inner-method", got.ID)
}

func TestFindContainingSymbol_DataSymbolsRankLast(t *testing.T) {
	t.Parallel()

	// A variable spanning the same lines as the function that declares it
	// must not win the lookup.
	symbols := []Symbol{
		span("config-var", KindVariable, 5, 0, 12, 1),
		span("setup-func", KindFunction, 5, 0, 12, 1),
	}

	got := FindContainingSymbol(symbols, 8, 2)
	require.NotNil(t, got)
	assert.Equal(t, "setup-func", got.ID)
}

func TestFindContainingSymbol_SmallerSpanWinsTies(t *testing.T) {
	t.Parallel()

	symbols := []Symbol{
		span("wide-func", KindFunction, 1, 0, 50, 1),
		span("tight-func", KindFunction, 10, 0, 14, 1),
	}

	got := FindContainingSymbol(symbols, 12, 3)
	require.NotNil(t, got)
	assert.Equal(t, "tight-func", got.ID)
}

func TestFindContainingSymbol_ColumnConstraints(t *testing.T) {
	t.Parallel()

	symbols := []Symbol{span("fn", KindFunction, 10, 8, 12, 4)}

	assert.Nil(t, FindContainingSymbol(symbols, 10, 2), "before start column on first line")
	assert.NotNil(t, FindContainingSymbol(symbols, 10, 8), "at start column")
	assert.NotNil(t, FindContainingSymbol(symbols, 11, 0), "interior line ignores columns")
	assert.NotNil(t, FindContainingSymbol(symbols, 12, 4), "at end column")
	assert.Nil(t, FindContainingSymbol(symbols, 12, 9), "past end column on last line")
}

func TestFindContainingSymbol_SingleLineSpan(t *testing.T) {
	t.Parallel()

	symbols := []Symbol{span("one-liner", KindFunction, 3, 4, 3, 30)}

	assert.NotNil(t, FindContainingSymbol(symbols, 3, 10))
	assert.Nil(t, FindContainingSymbol(symbols, 3, 31))
	assert.Nil(t, FindContainingSymbol(symbols, 4, 10))
}

func TestFindContainingSymbol_NoMatch(t *testing.T) {
	t.Parallel()

	symbols := []Symbol{span("fn", KindFunction, 10, 0, 20, 1)}
	assert.Nil(t, FindContainingSymbol(symbols, 25, 0))
}

func TestKindPriority_UnrankedKindsShareDefaultBucket(t *testing.T) {
	t.Parallel()

	assert.Equal(t, priorityDefault, kindPriority(KindImport))
	assert.Equal(t, priorityDefault, kindPriority(KindEvent))
	assert.Less(t, kindPriority(KindFunction), kindPriority(KindClass))
	assert.Less(t, kindPriority(KindClass), kindPriority(KindNamespace))
	assert.Less(t, kindPriority(KindNamespace), kindPriority(KindImport))
	assert.Less(t, kindPriority(KindImport), kindPriority(KindVariable))
}
