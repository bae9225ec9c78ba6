package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Test Plan for call classification:
// - A callee declared in the same file yields exactly one resolved Calls edge
//   and no pending entry
// - An unknown callee yields exactly one pending entry and no resolved edge
// - A deny-listed builtin yields neither
// - A callee resolving to an Import symbol defers to cross-file resolution
// - A name declared as data only falls through to deferred lookup
// - The symbol table prefers callables over same-named data symbols

func callNode(t *testing.T) (*sitter.Node, *Base) {
	t.Helper()
	source := "package main\n\nfunc main() {\n\thelper()\n}\n"
	tree, base := parseGo(t, source)
	var call *sitter.Node
	base.Walk(tree.RootNode(), func(n *sitter.Node) error {
		if n.Kind() == "call_expression" {
			call = n
		}
		return nil
	})
	require.NotNil(t, call)
	return call, base
}

func TestClassifyCall_ResolvedLocally(t *testing.T) {
	t.Parallel()

	call, base := callNode(t)
	target := Symbol{ID: "target-id", Name: "helper", Kind: KindFunction}
	table := NewSymbolTable([]Symbol{target})

	rel := base.ClassifyCall(call, "caller-id", "helper", table, nil)

	require.NotNil(t, rel, "local callee must resolve immediately")
	assert.Equal(t, "caller-id", rel.FromSymbolID)
	assert.Equal(t, "target-id", rel.ToSymbolID)
	assert.Equal(t, RelCalls, rel.Kind)
	assert.Equal(t, uint32(4), rel.LineNumber)
	assert.InDelta(t, 0.9, rel.Confidence, 0.11)
	assert.Empty(t, base.PendingRelationships(), "resolved call must not also queue pending")
}

func TestClassifyCall_UnknownCalleeGoesPending(t *testing.T) {
	t.Parallel()

	call, base := callNode(t)
	table := NewSymbolTable(nil)

	rel := base.ClassifyCall(call, "caller-id", "helper_function", table, nil)

	assert.Nil(t, rel)
	pending := base.PendingRelationships()
	require.Len(t, pending, 1)
	assert.Equal(t, "helper_function", pending[0].CalleeName)
	assert.Equal(t, "caller-id", pending[0].FromSymbolID)
	assert.Equal(t, RelCalls, pending[0].Kind)
	assert.Equal(t, uint32(4), pending[0].LineNumber)
}

func TestClassifyCall_BuiltinProducesNothing(t *testing.T) {
	t.Parallel()

	call, base := callNode(t)
	table := NewSymbolTable(nil)
	builtins := map[string]struct{}{"mean": {}}

	rel := base.ClassifyCall(call, "caller-id", "mean", table, builtins)

	assert.Nil(t, rel)
	assert.Empty(t, base.PendingRelationships(), "deny-listed builtin emits nothing at all")
}

func TestClassifyCall_ImportSymbolDefers(t *testing.T) {
	t.Parallel()

	call, base := callNode(t)
	imported := Symbol{ID: "import-id", Name: "fmt", Kind: KindImport}
	table := NewSymbolTable([]Symbol{imported})

	rel := base.ClassifyCall(call, "caller-id", "fmt", table, nil)

	assert.Nil(t, rel, "import target must not resolve locally")
	pending := base.PendingRelationships()
	require.Len(t, pending, 1)
	assert.Equal(t, "fmt", pending[0].CalleeName)
	assert.InDelta(t, 0.8, pending[0].Confidence, 0.001)
}

func TestClassifyCall_DataOnlyNameDefers(t *testing.T) {
	t.Parallel()

	call, base := callNode(t)
	variable := Symbol{ID: "var-id", Name: "handler", Kind: KindVariable}
	table := NewSymbolTable([]Symbol{variable})

	rel := base.ClassifyCall(call, "caller-id", "handler", table, nil)

	assert.Nil(t, rel)
	require.Len(t, base.PendingRelationships(), 1)
}

func TestSymbolTable_PrefersCallables(t *testing.T) {
	t.Parallel()

	table := NewSymbolTable([]Symbol{
		{ID: "field-id", Name: "size", Kind: KindField},
		{ID: "func-id", Name: "size", Kind: KindFunction},
	})

	got, ok := table.Lookup("size")
	require.True(t, ok)
	assert.Equal(t, "func-id", got.ID, "function wins over same-named field")
}
