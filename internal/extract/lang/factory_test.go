package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codegraph/internal/extract"
	"github.com/mvp-joe/codegraph/internal/treesitter"
)

// Test Plan for the extraction factory:
// - Every registered language tag constructs an extractor
// - An unknown tag fails with the unsupported-language error
// - Extract always returns a fully-populated result envelope, with missing
//   capabilities normalized to empty collections
// - Extracting the same source twice reproduces the result byte for byte
// - The definitions pass leaves identifiers to the standalone identifier
//   pass, which works against a caller-supplied symbol set
// - Every data-format tag carries the identifier capability

func TestNewExtractor_EveryRegisteredTag(t *testing.T) {
	t.Parallel()

	for _, tag := range Languages() {
		base := extract.NewBase(tag, "sample."+tag, []byte(""))
		ext, err := newExtractor(tag, base)
		require.NoError(t, err, "tag %q must construct", tag)
		require.NotNil(t, ext, "tag %q must construct", tag)
	}
}

func TestNewExtractor_UnknownTag(t *testing.T) {
	t.Parallel()

	base := extract.NewBase("cobol", "main.cob", []byte(""))
	_, err := newExtractor("cobol", base)
	require.Error(t, err)
	assert.ErrorIs(t, err, extract.ErrUnsupportedLanguage)
}

func TestLanguages_SortedAndComplete(t *testing.T) {
	t.Parallel()

	tags := Languages()
	assert.Len(t, tags, 33)
	assert.IsNonDecreasing(t, tags)
	assert.Contains(t, tags, "go")
	assert.Contains(t, tags, "tsx")
	assert.Contains(t, tags, "jsx")
}

func TestExtract_EnvelopeNeverNil(t *testing.T) {
	t.Parallel()

	// Markdown has no relationships, no types and no code identifiers;
	// everything beyond symbols must come back empty, not nil.
	source := []byte("# Title\n\nbody text\n")
	tree, err := treesitter.Parse("go", source)
	require.NoError(t, err)
	defer tree.Close()

	res, err := Extract(tree, "README.md", source, "markdown")
	require.NoError(t, err)

	assert.NotNil(t, res.Symbols)
	assert.NotNil(t, res.Relationships)
	assert.NotNil(t, res.PendingRelationships)
	assert.NotNil(t, res.Identifiers)
	assert.NotNil(t, res.Types)
	assert.Empty(t, res.Relationships)
	assert.Empty(t, res.PendingRelationships)
	assert.Empty(t, res.Identifiers)
	assert.Empty(t, res.Types)
}

func TestExtract_UnknownLanguage(t *testing.T) {
	t.Parallel()

	source := []byte("package main\n")
	tree, err := treesitter.Parse("go", source)
	require.NoError(t, err)
	defer tree.Close()

	_, err = Extract(tree, "main.cob", source, "cobol")
	assert.ErrorIs(t, err, extract.ErrUnsupportedLanguage)
}

func TestExtract_Deterministic(t *testing.T) {
	t.Parallel()

	source := []byte(`package server

import "fmt"

type Server struct {
	addr string
}

func (s *Server) Run() error {
	fmt.Println(s.addr)
	return listen(s.addr)
}

func listen(addr string) error {
	return nil
}
`)
	extractOnce := func() *extract.Result {
		tree, err := treesitter.Parse("go", source)
		require.NoError(t, err)
		defer tree.Close()
		res, err := Extract(tree, "server.go", source, "go")
		require.NoError(t, err)
		return res
	}

	first := extractOnce()
	second := extractOnce()

	require.Equal(t, first.Symbols, second.Symbols)
	assert.Equal(t, first, second, "identical source must reproduce every id and span")
}

func TestExtractDefinitions_LeavesIdentifiersToPhaseTwo(t *testing.T) {
	t.Parallel()

	source := []byte("package main\n\nfunc run() {\n\thelper()\n}\n")
	tree, err := treesitter.Parse("go", source)
	require.NoError(t, err)
	defer tree.Close()

	defs, err := ExtractDefinitions(tree, "main.go", source, "go")
	require.NoError(t, err)
	assert.NotEmpty(t, defs.Symbols)
	assert.NotEmpty(t, defs.PendingRelationships)
	require.NotNil(t, defs.Identifiers)
	assert.Empty(t, defs.Identifiers)

	idents, err := ExtractIdentifiers(tree, "main.go", source, "go", defs.Symbols)
	require.NoError(t, err)
	assert.NotEmpty(t, idents)
}

func TestDataFormats_IdentifierCapability(t *testing.T) {
	t.Parallel()

	for _, tag := range []string{"css", "markdown", "json", "toml", "yaml"} {
		base := extract.NewBase(tag, "sample."+tag, []byte(""))
		ext, err := newExtractor(tag, base)
		require.NoError(t, err)
		_, ok := ext.(identifierExtractor)
		assert.True(t, ok, "tag %q must carry the identifier pass", tag)
	}
}

func TestExtractIdentifiers_Standalone(t *testing.T) {
	t.Parallel()

	source := []byte("package main\n\nfunc run() {\n\thelper()\n}\n")
	tree, err := treesitter.Parse("go", source)
	require.NoError(t, err)
	defer tree.Close()

	full, err := Extract(tree, "main.go", source, "go")
	require.NoError(t, err)

	idents, err := ExtractIdentifiers(tree, "main.go", source, "go", full.Symbols)
	require.NoError(t, err)
	require.NotEmpty(t, idents)

	var call *extract.Identifier
	for i := range idents {
		if idents[i].Name == "helper" && idents[i].Kind == extract.IdentCall {
			call = &idents[i]
		}
	}
	require.NotNil(t, call, "the helper() call site must be recorded")

	var run *extract.Symbol
	for i := range full.Symbols {
		if full.Symbols[i].Name == "run" {
			run = &full.Symbols[i]
		}
	}
	require.NotNil(t, run)
	assert.Equal(t, run.ID, call.ContainingSymbolID)
}
