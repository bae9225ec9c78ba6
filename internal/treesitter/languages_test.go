package treesitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan:
// - extension detection covers grammar-backed and external-provider tags
// - Parse produces a usable tree for a bundled grammar and errors otherwise

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"main.go":       "go",
		"app/index.tsx": "tsx",
		"lib.rs":        "rust",
		"scene.gd":      "gdscript",
		"stats.R":       "r",
		"Makefile":      "",
	}
	for path, want := range tests {
		assert.Equal(t, want, DetectLanguage(path), path)
	}
}

func TestHasGrammar(t *testing.T) {
	t.Parallel()

	assert.True(t, HasGrammar("go"))
	assert.True(t, HasGrammar("cpp"), "C++ routes to the C grammar")
	assert.False(t, HasGrammar("csharp"), "dispatched only on externally supplied trees")
}

func TestParse(t *testing.T) {
	t.Parallel()

	tree, err := Parse("go", []byte("package main\n\nfunc main() {}\n"))
	require.NoError(t, err)
	defer tree.Close()
	assert.Equal(t, "source_file", tree.RootNode().Kind())
	assert.False(t, tree.RootNode().HasError())

	_, err = Parse("csharp", nil)
	require.Error(t, err)
}
