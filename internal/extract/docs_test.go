package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Test Plan for doc-comment discovery:
// - The immediately preceding comment sibling is used verbatim
// - With a gap, only marker-prefixed comments are picked up
// - A plain comment further above is not treated as documentation
// - Comment syntax is stripped from the discovered text

func firstFunction(t *testing.T, tree *sitter.Tree) *sitter.Node {
	t.Helper()
	fn := FindChildByKind(tree.RootNode(), "function_declaration")
	require.NotNil(t, fn)
	return fn
}

func TestFindDocComment_PrecedingSibling(t *testing.T) {
	t.Parallel()

	source := `package main

// run starts the server loop.
func run() {}
`
	tree, base := parseGo(t, source)

	doc := base.FindDocComment(firstFunction(t, tree))
	assert.Equal(t, "run starts the server loop.", doc)
}

func TestFindDocComment_MarkerScanAcrossGap(t *testing.T) {
	t.Parallel()

	source := `package main

/** run starts the server loop. */
var unrelated = 1

func run() {}
`
	tree, base := parseGo(t, source)

	// The var declaration sits between the comment and the function, so only
	// the marker scan can find it.
	var fn *sitter.Node
	base.Walk(tree.RootNode(), func(n *sitter.Node) error {
		if n.Kind() == "function_declaration" {
			fn = n
		}
		return nil
	})
	require.NotNil(t, fn)

	doc := base.FindDocComment(fn)
	assert.Contains(t, doc, "run starts the server loop.")
}

func TestFindDocComment_PlainCommentAcrossGapIgnored(t *testing.T) {
	t.Parallel()

	source := `package main

// just a note, not documentation
var unrelated = 1

func run() {}
`
	tree, base := parseGo(t, source)

	var fn *sitter.Node
	base.Walk(tree.RootNode(), func(n *sitter.Node) error {
		if n.Kind() == "function_declaration" {
			fn = n
		}
		return nil
	})
	require.NotNil(t, fn)

	assert.Empty(t, base.FindDocComment(fn))
}

func TestCleanDocComment_StripsSyntax(t *testing.T) {
	t.Parallel()

	text := "/**\n * Returns the sum.\n * Second line.\n */"
	assert.Equal(t, "Returns the sum.\nSecond line.", cleanDocComment(text))
}
