package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/treesitter"
)

// Test Plan for the extraction kernel base:
// - Symbol ids are deterministic over (file, name, line, column)
// - NewSymbol computes the correct position span and applies overrides
// - WalkSymbols threads parent ids into nested declarations
// - WalkSymbols isolates visitor errors and panics to the failing subtree
// - Walk prunes a failing subtree but continues with siblings

func parseGo(t *testing.T, source string) (*sitter.Tree, *Base) {
	t.Helper()
	tree, err := treesitter.Parse("go", []byte(source))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree, NewBase("go", "test.go", []byte(source))
}

func TestSymbolID_Deterministic(t *testing.T) {
	t.Parallel()

	base := NewBase("go", "pkg/util.go", []byte("package util"))

	id1 := base.SymbolID("Helper", 10, 4)
	id2 := base.SymbolID("Helper", 10, 4)
	id3 := base.SymbolID("Helper", 11, 4)
	other := NewBase("go", "pkg/other.go", []byte("package util")).SymbolID("Helper", 10, 4)

	assert.Equal(t, id1, id2, "same inputs must reproduce the same id")
	assert.NotEqual(t, id1, id3, "different position must change the id")
	assert.NotEqual(t, id1, other, "different file must change the id")
}

func TestNewSymbol_SpanAndOverrides(t *testing.T) {
	t.Parallel()

	source := "package main\n\nfunc hello() {\n\treturn\n}\n"
	tree, base := parseGo(t, source)

	fn := FindChildByKind(tree.RootNode(), "function_declaration")
	require.NotNil(t, fn)

	sym := base.NewSymbol(fn, "hello", KindFunction, SymbolOpts{
		Signature: "func hello()",
		ParentID:  "parent-id",
	})

	assert.Equal(t, "hello", sym.Name)
	assert.Equal(t, KindFunction, sym.Kind)
	assert.Equal(t, "go", sym.Language)
	assert.Equal(t, "test.go", sym.FilePath)
	assert.Equal(t, uint32(3), sym.StartLine, "lines are 1-based")
	assert.Equal(t, uint32(0), sym.StartColumn, "columns are 0-based")
	assert.Equal(t, uint32(5), sym.EndLine)
	assert.Equal(t, "func hello()", sym.Signature)
	assert.Equal(t, "parent-id", sym.ParentID)
	assert.Equal(t, base.SymbolID("hello", 3, 0), sym.ID)
}

func TestWalkSymbols_ParentThreading(t *testing.T) {
	t.Parallel()

	source := `package main

type Server struct {
	addr string
}

func run() {}
`
	tree, base := parseGo(t, source)

	symbols := base.WalkSymbols(tree.RootNode(), "", func(node *sitter.Node, parentID string) ([]Symbol, error) {
		switch node.Kind() {
		case "type_spec":
			name := base.FieldText(node, "name")
			return []Symbol{base.NewSymbol(node, name, KindStruct, SymbolOpts{ParentID: parentID})}, nil
		case "field_declaration":
			name := base.FieldText(node, "name")
			return []Symbol{base.NewSymbol(node, name, KindField, SymbolOpts{ParentID: parentID})}, nil
		case "function_declaration":
			name := base.FieldText(node, "name")
			return []Symbol{base.NewSymbol(node, name, KindFunction, SymbolOpts{ParentID: parentID})}, nil
		}
		return nil, nil
	})

	require.Len(t, symbols, 3)

	var server, addr, run *Symbol
	for i := range symbols {
		switch symbols[i].Name {
		case "Server":
			server = &symbols[i]
		case "addr":
			addr = &symbols[i]
		case "run":
			run = &symbols[i]
		}
	}
	require.NotNil(t, server)
	require.NotNil(t, addr)
	require.NotNil(t, run)

	assert.Empty(t, server.ParentID, "top-level type has no parent")
	assert.Equal(t, server.ID, addr.ParentID, "field attaches to the enclosing struct")
	assert.Empty(t, run.ParentID)
}

func TestWalkSymbols_FaultIsolation(t *testing.T) {
	t.Parallel()

	source := `package main

type Broken struct{}

func survivor() {}
`
	tree, base := parseGo(t, source)

	symbols := base.WalkSymbols(tree.RootNode(), "", func(node *sitter.Node, parentID string) ([]Symbol, error) {
		switch node.Kind() {
		case "type_spec":
			return nil, errors.New("synthetic failure")
		case "function_declaration":
			name := base.FieldText(node, "name")
			return []Symbol{base.NewSymbol(node, name, KindFunction, SymbolOpts{ParentID: parentID})}, nil
		}
		return nil, nil
	})

	require.Len(t, symbols, 1, "failure on one node must not discard siblings")
	assert.Equal(t, "survivor", symbols[0].Name)
}

func TestWalkSymbols_PanicIsolation(t *testing.T) {
	t.Parallel()

	source := `package main

type Broken struct{}

func survivor() {}
`
	tree, base := parseGo(t, source)

	symbols := base.WalkSymbols(tree.RootNode(), "", func(node *sitter.Node, parentID string) ([]Symbol, error) {
		switch node.Kind() {
		case "type_spec":
			panic("synthetic panic")
		case "function_declaration":
			name := base.FieldText(node, "name")
			return []Symbol{base.NewSymbol(node, name, KindFunction, SymbolOpts{ParentID: parentID})}, nil
		}
		return nil, nil
	})

	require.Len(t, symbols, 1)
	assert.Equal(t, "survivor", symbols[0].Name)
}

func TestWalk_PrunesFailingSubtree(t *testing.T) {
	t.Parallel()

	source := `package main

func first() {}

func second() {}
`
	tree, base := parseGo(t, source)

	var visited []string
	base.Walk(tree.RootNode(), func(node *sitter.Node) error {
		if node.Kind() == "function_declaration" {
			name := base.FieldText(node, "name")
			if name == "first" {
				return errors.New("synthetic failure")
			}
			visited = append(visited, name)
		}
		return nil
	})

	assert.Equal(t, []string{"second"}, visited)
}
