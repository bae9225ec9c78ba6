package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Test Plan for error-subtree recovery:
// - The anchor walk skips statement siblings and lands on the nearest
//   preceding declaration
// - The walk stops at the first sibling that is neither skippable nor a
//   declaration
// - A node with no preceding named siblings has no anchor
// - Name salvage finds call shapes and rejects implausible names

func kindIs(kinds ...string) func(*sitter.Node) bool {
	want := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		want[k] = struct{}{}
	}
	return func(n *sitter.Node) bool {
		_, ok := want[n.Kind()]
		return ok
	}
}

func TestRecoverAnchor(t *testing.T) {
	t.Parallel()

	source := `package main

func setup() {}

func run() {
	var total int
	total = 2
	return
}
`
	tree, _ := parseGo(t, source)

	decls := FindChildrenByKind(tree.RootNode(), "function_declaration")
	require.Len(t, decls, 2)
	setup, run := decls[0], decls[1]

	body := run.ChildByFieldName("body")
	require.NotNil(t, body)
	ret := FindChildByKind(body, "return_statement")
	varDecl := FindChildByKind(body, "var_declaration")
	require.NotNil(t, ret)
	require.NotNil(t, varDecl)

	// Walking back from the return skips the assignment statement and lands
	// on the var declaration.
	anchor := RecoverAnchor(ret, kindIs("var_declaration"))
	require.NotNil(t, anchor)
	assert.Equal(t, varDecl.StartByte(), anchor.StartByte())

	// The var declaration is neither skippable nor a declaration here, so
	// the walk stops instead of reaching further back.
	assert.Nil(t, RecoverAnchor(ret, kindIs("if_statement")))

	// Top level: run anchors to the function declared before it.
	anchor = RecoverAnchor(run, kindIs("function_declaration"))
	require.NotNil(t, anchor)
	assert.Equal(t, setup.StartByte(), anchor.StartByte())

	// setup is preceded only by the package clause, which stops the walk.
	assert.Nil(t, RecoverAnchor(setup, kindIs("function_declaration")))

	// The var declaration has no preceding named sibling at all.
	assert.Nil(t, RecoverAnchor(varDecl, kindIs("var_declaration")))
}

func TestRecoverNames(t *testing.T) {
	t.Parallel()

	source := `package main

func run() {
	process(data)
	_skip()
	x()
	len(data)
}
`
	tree, base := parseGo(t, source)

	body := FindChildByKind(tree.RootNode(), "function_declaration").ChildByFieldName("body")
	require.NotNil(t, body)

	keywords := map[string]struct{}{"len": {}}
	names := base.RecoverNames(body, keywords)

	require.Len(t, names, 1, "underscore, single-char and keyword names are rejected")
	assert.Equal(t, "process", names[0].Name)
	assert.True(t, names[0].CallLike)
}
