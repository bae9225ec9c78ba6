package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// Test Plan for the web languages:
// - JavaScript: arrow functions bound to const are functions, extends edges
//   resolve, imported names defer with the import confidence
// - TypeScript: interfaces, aliases and enums extract, implements edges
//   resolve, suffix annotations infer types

const jsSample = `import { format } from "./util";

class Base {}

class Logger extends Base {
  log(msg) {
    emit(format(msg));
  }
}

const LEVEL = 3;
const makeLogger = () => new Logger();
`

func TestJavaScript_Symbols(t *testing.T) {
	t.Parallel()

	res := extractSource(t, "javascript", "logger.js", jsSample)

	format := symbolByName(t, res.Symbols, "format")
	assert.Equal(t, extract.KindImport, format.Kind)
	assert.Equal(t, "./util", format.Metadata["module"])

	logger := symbolByName(t, res.Symbols, "Logger")
	assert.Equal(t, extract.KindClass, logger.Kind)

	log := symbolByName(t, res.Symbols, "log")
	assert.Equal(t, extract.KindMethod, log.Kind)
	assert.Equal(t, logger.ID, log.ParentID)

	assert.Equal(t, extract.KindConstant, symbolByName(t, res.Symbols, "LEVEL").Kind)
	assert.Equal(t, extract.KindFunction, symbolByName(t, res.Symbols, "makeLogger").Kind,
		"arrow function bound to a declarator")
}

func TestJavaScript_Relationships(t *testing.T) {
	t.Parallel()

	res := extractSource(t, "javascript", "logger.js", jsSample)

	logger := symbolByName(t, res.Symbols, "Logger")
	base := symbolByName(t, res.Symbols, "Base")
	maker := symbolByName(t, res.Symbols, "makeLogger")

	kinds := map[extract.RelationshipKind][]extract.Relationship{}
	for _, rel := range res.Relationships {
		kinds[rel.Kind] = append(kinds[rel.Kind], rel)
	}

	require.Len(t, kinds[extract.RelExtends], 1)
	assert.Equal(t, logger.ID, kinds[extract.RelExtends][0].FromSymbolID)
	assert.Equal(t, base.ID, kinds[extract.RelExtends][0].ToSymbolID)

	require.Len(t, kinds[extract.RelCalls], 1, "new Logger() resolves against the class")
	assert.Equal(t, maker.ID, kinds[extract.RelCalls][0].FromSymbolID)
	assert.Equal(t, logger.ID, kinds[extract.RelCalls][0].ToSymbolID)

	pending := map[string]float32{}
	for _, p := range res.PendingRelationships {
		pending[p.CalleeName] = p.Confidence
	}
	assert.InDelta(t, 0.7, pending["emit"], 0.001)
	assert.InDelta(t, 0.8, pending["format"], 0.001, "imported callee keeps the import confidence")
}

const tsSample = `interface Shape {
  area(): number;
}

class Circle implements Shape {
  radius: number;
  area(): number {
    return compute(this.radius);
  }
}

type Alias = Shape;
enum Color { Red = 1 }
`

func TestTypeScript_Symbols(t *testing.T) {
	t.Parallel()

	res := extractSource(t, "typescript", "shapes.ts", tsSample)

	assert.Equal(t, extract.KindInterface, symbolByName(t, res.Symbols, "Shape").Kind)
	assert.Equal(t, extract.KindClass, symbolByName(t, res.Symbols, "Circle").Kind)
	assert.Equal(t, extract.KindField, symbolByName(t, res.Symbols, "radius").Kind)
	assert.Equal(t, extract.KindType, symbolByName(t, res.Symbols, "Alias").Kind)
	assert.Equal(t, extract.KindEnum, symbolByName(t, res.Symbols, "Color").Kind)
	assert.Equal(t, extract.KindEnumMember, symbolByName(t, res.Symbols, "Red").Kind)
}

func TestTypeScript_ImplementsEdge(t *testing.T) {
	t.Parallel()

	res := extractSource(t, "typescript", "shapes.ts", tsSample)

	circle := symbolByName(t, res.Symbols, "Circle")
	shape := symbolByName(t, res.Symbols, "Shape")

	var impl *extract.Relationship
	for i := range res.Relationships {
		if res.Relationships[i].Kind == extract.RelImplements {
			impl = &res.Relationships[i]
		}
	}
	require.NotNil(t, impl)
	assert.Equal(t, circle.ID, impl.FromSymbolID)
	assert.Equal(t, shape.ID, impl.ToSymbolID)
}

func TestTypeScript_SuffixTypes(t *testing.T) {
	t.Parallel()

	res := extractSource(t, "typescript", "shapes.ts", tsSample)

	radius := symbolByName(t, res.Symbols, "radius")
	assert.Equal(t, "number", res.Types[radius.ID].ResolvedType)

	area := symbolByName(t, res.Symbols, "area")
	assert.Equal(t, "number", res.Types[area.ID].ResolvedType,
		"interface method signature annotation")
}

const rustSample = `use std::collections::{HashMap, HashSet};

pub struct Graph {
    nodes: HashMap<u32, String>,
}

impl Graph {
    pub fn new() -> Graph {
        Graph { nodes: HashMap::new() }
    }

    fn count(&self) -> usize {
        helper(self.nodes.len())
    }
}

fn helper(n: usize) -> usize {
    n + 1
}
`

func TestRust_Symbols(t *testing.T) {
	t.Parallel()

	res := extractSource(t, "rust", "graph.rs", rustSample)

	hashMap := symbolByName(t, res.Symbols, "HashMap")
	assert.Equal(t, extract.KindImport, hashMap.Kind)
	assert.Equal(t, "std::collections", hashMap.Metadata["module"])
	symbolByName(t, res.Symbols, "HashSet")

	graph := symbolByName(t, res.Symbols, "Graph")
	assert.Equal(t, extract.KindStruct, graph.Kind)
	assert.Equal(t, extract.VisibilityPublic, graph.Visibility)

	nodes := symbolByName(t, res.Symbols, "nodes")
	assert.Equal(t, extract.KindField, nodes.Kind)
	assert.Equal(t, graph.ID, nodes.ParentID)

	assert.Equal(t, extract.KindConstructor, symbolByName(t, res.Symbols, "new").Kind)

	count := symbolByName(t, res.Symbols, "count")
	assert.Equal(t, extract.KindMethod, count.Kind)
	assert.Equal(t, extract.VisibilityPrivate, count.Visibility)
}

func TestRust_CallPartition(t *testing.T) {
	t.Parallel()

	res := extractSource(t, "rust", "graph.rs", rustSample)

	count := symbolByName(t, res.Symbols, "count")
	helper := symbolByName(t, res.Symbols, "helper")

	var resolved *extract.Relationship
	for i := range res.Relationships {
		if res.Relationships[i].Kind == extract.RelCalls {
			resolved = &res.Relationships[i]
		}
	}
	require.NotNil(t, resolved)
	assert.Equal(t, count.ID, resolved.FromSymbolID)
	assert.Equal(t, helper.ID, resolved.ToSymbolID)

	// HashMap::new defers through the import; .len() is deny-listed.
	require.Len(t, res.PendingRelationships, 1)
	assert.Equal(t, "HashMap", res.PendingRelationships[0].CalleeName)
	assert.InDelta(t, 0.8, res.PendingRelationships[0].Confidence, 0.001)
}

func TestRust_ArrowTypes(t *testing.T) {
	t.Parallel()

	res := extractSource(t, "rust", "graph.rs", rustSample)

	assert.Equal(t, "Graph", res.Types[symbolByName(t, res.Symbols, "new").ID].ResolvedType)
	assert.Equal(t, "usize", res.Types[symbolByName(t, res.Symbols, "count").ID].ResolvedType)
}
