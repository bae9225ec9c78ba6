package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// Test Plan for Python extraction:
// - Class members become methods, __init__ the constructor
// - Module constants and imports are symbols, self attribute writes are not
// - Constructor calls resolve against the class, unknown attributes defer,
//   builtins vanish
// - Underscore names are private

const pythonSample = `import os
from collections import OrderedDict

MAX_SIZE = 100

class Cache:
    def __init__(self, size):
        self.size = size

    def get(self, key):
        return self._lookup(key)

def build_cache():
    print("building")
    return Cache(10)
`

func TestPython_Symbols(t *testing.T) {
	t.Parallel()

	res := extractSource(t, "python", "cache.py", pythonSample)

	osImport := symbolByName(t, res.Symbols, "os")
	assert.Equal(t, extract.KindImport, osImport.Kind)

	od := symbolByName(t, res.Symbols, "OrderedDict")
	assert.Equal(t, extract.KindImport, od.Kind)
	assert.Equal(t, "collections", od.Metadata["module"])

	maxSize := symbolByName(t, res.Symbols, "MAX_SIZE")
	assert.Equal(t, extract.KindConstant, maxSize.Kind)

	cache := symbolByName(t, res.Symbols, "Cache")
	assert.Equal(t, extract.KindClass, cache.Kind)

	init := symbolByName(t, res.Symbols, "__init__")
	assert.Equal(t, extract.KindConstructor, init.Kind)
	assert.Equal(t, cache.ID, init.ParentID)

	get := symbolByName(t, res.Symbols, "get")
	assert.Equal(t, extract.KindMethod, get.Kind)

	build := symbolByName(t, res.Symbols, "build_cache")
	assert.Equal(t, extract.KindFunction, build.Kind)

	for _, s := range res.Symbols {
		assert.NotEqual(t, "size", s.Name, "self attribute writes are not declarations")
	}
}

func TestPython_CallPartition(t *testing.T) {
	t.Parallel()

	res := extractSource(t, "python", "cache.py", pythonSample)

	build := symbolByName(t, res.Symbols, "build_cache")
	cache := symbolByName(t, res.Symbols, "Cache")

	var resolved *extract.Relationship
	for i := range res.Relationships {
		if res.Relationships[i].Kind == extract.RelCalls {
			resolved = &res.Relationships[i]
		}
	}
	require.NotNil(t, resolved, "constructor call must resolve against the class")
	assert.Equal(t, build.ID, resolved.FromSymbolID)
	assert.Equal(t, cache.ID, resolved.ToSymbolID)

	require.Len(t, res.PendingRelationships, 1, "print is a builtin, only _lookup defers")
	assert.Equal(t, "_lookup", res.PendingRelationships[0].CalleeName)
}

func TestPython_Visibility(t *testing.T) {
	t.Parallel()

	source := "def _internal():\n    pass\n\ndef public_api():\n    pass\n"
	res := extractSource(t, "python", "api.py", source)

	assert.Equal(t, extract.VisibilityPrivate, symbolByName(t, res.Symbols, "_internal").Visibility)
	assert.Equal(t, extract.VisibilityPublic, symbolByName(t, res.Symbols, "public_api").Visibility)
}
