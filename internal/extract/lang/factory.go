// Package lang implements the per-language extractors behind the shared
// capability contract, plus the extraction factory that is the sole dispatch
// point from a language tag to an extractor.
package lang

import (
	"fmt"
	"sort"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// Capability interfaces. Every extractor implements the symbol pass; the
// factory discovers the rest by assertion and defaults missing capabilities
// to empty collections.
type symbolExtractor interface {
	ExtractSymbols(root *sitter.Node) []extract.Symbol
}

type relationshipExtractor interface {
	ExtractRelationships(root *sitter.Node, symbols []extract.Symbol) []extract.Relationship
}

type identifierExtractor interface {
	ExtractIdentifiers(root *sitter.Node, symbols []extract.Symbol) []extract.Identifier
}

type typeInferrer interface {
	InferTypes(symbols []extract.Symbol) map[string]string
}

type pendingSource interface {
	PendingRelationships() []extract.PendingRelationship
}

// registry is the fixed set of language tags. Aliases ("tsx", "jsx") are
// registered tags in their own right.
var registry = []string{
	"bash", "c", "cpp", "csharp", "css", "dart", "gdscript", "go", "html",
	"java", "javascript", "json", "jsx", "kotlin", "lua", "markdown", "php",
	"powershell", "python", "qml", "r", "razor", "regex", "ruby", "rust",
	"sql", "swift", "toml", "tsx", "typescript", "vue", "yaml", "zig",
}

// Languages returns every registered language tag, sorted.
func Languages() []string {
	tags := make([]string, len(registry))
	copy(tags, registry)
	sort.Strings(tags)
	return tags
}

// newExtractor is the single construction point for every language. Adding a
// language here is the only step besides the registry entry; both Extract and
// ExtractIdentifiers route through it, so a language cannot be reachable from
// one call-site and missing from another.
func newExtractor(language string, base *extract.Base) (symbolExtractor, error) {
	switch language {
	case "rust":
		return newRustExtractor(base), nil
	case "typescript", "tsx":
		return newTypeScriptExtractor(base), nil
	case "javascript", "jsx":
		return newJavaScriptExtractor(base), nil
	case "python":
		return newPythonExtractor(base), nil
	case "java":
		return newJavaExtractor(base), nil
	case "csharp":
		return newCSharpExtractor(base), nil
	case "php":
		return newPHPExtractor(base), nil
	case "swift":
		return newSwiftExtractor(base), nil
	case "kotlin":
		return newKotlinExtractor(base), nil
	case "dart":
		return newDartExtractor(base), nil
	case "go":
		return newGoExtractor(base), nil
	case "c":
		return newCExtractor(base), nil
	case "cpp":
		return newCppExtractor(base), nil
	case "powershell":
		return newPowerShellExtractor(base), nil
	case "bash":
		return newBashExtractor(base), nil
	case "zig":
		return newZigExtractor(base), nil
	case "sql":
		return newSQLExtractor(base), nil
	case "html":
		return newHTMLExtractor(base), nil
	case "razor":
		return newRazorExtractor(base), nil
	case "regex":
		return newRegexExtractor(base), nil
	case "vue":
		return newVueExtractor(base), nil
	case "ruby":
		return newRubyExtractor(base), nil
	case "lua":
		return newLuaExtractor(base), nil
	case "gdscript":
		return newGDScriptExtractor(base), nil
	case "qml":
		return newQMLExtractor(base), nil
	case "r":
		return newRExtractor(base), nil
	case "css":
		return newCSSExtractor(base), nil
	case "markdown":
		return newMarkdownExtractor(base), nil
	case "json":
		return newJSONExtractor(base), nil
	case "toml":
		return newTOMLExtractor(base), nil
	case "yaml":
		return newYAMLExtractor(base), nil
	default:
		return nil, fmt.Errorf("%w: %q", extract.ErrUnsupportedLanguage, language)
	}
}

// Extract runs the full extraction pipeline for one file and normalizes the
// extractor's capability set into the uniform result envelope. The content
// slice is owned by this extraction; nothing is cached across files.
func Extract(tree *sitter.Tree, filePath string, content []byte, language string) (*extract.Result, error) {
	return run(tree, filePath, content, language, true)
}

// ExtractDefinitions runs the first indexing phase: symbols, relationships,
// pending relationships and types. The envelope's identifier slice stays
// empty; identifiers are produced by ExtractIdentifiers once every file's
// symbols are persisted.
func ExtractDefinitions(tree *sitter.Tree, filePath string, content []byte, language string) (*extract.Result, error) {
	return run(tree, filePath, content, language, false)
}

func run(tree *sitter.Tree, filePath string, content []byte, language string, withIdentifiers bool) (*extract.Result, error) {
	base := extract.NewBase(language, filePath, content)
	ext, err := newExtractor(language, base)
	if err != nil {
		return nil, err
	}

	root := tree.RootNode()
	res := &extract.Result{
		Symbols:              []extract.Symbol{},
		Relationships:        []extract.Relationship{},
		PendingRelationships: []extract.PendingRelationship{},
		Identifiers:          []extract.Identifier{},
		Types:                map[string]extract.TypeInfo{},
	}

	res.Symbols = ext.ExtractSymbols(root)
	if res.Symbols == nil {
		res.Symbols = []extract.Symbol{}
	}

	if re, ok := ext.(relationshipExtractor); ok {
		if rels := re.ExtractRelationships(root, res.Symbols); rels != nil {
			res.Relationships = rels
		}
	}
	if ie, ok := ext.(identifierExtractor); ok && withIdentifiers {
		if idents := ie.ExtractIdentifiers(root, res.Symbols); idents != nil {
			res.Identifiers = idents
		}
	}
	if ti, ok := ext.(typeInferrer); ok {
		for id, resolved := range ti.InferTypes(res.Symbols) {
			res.Types[id] = extract.TypeInfo{
				SymbolID:     id,
				ResolvedType: resolved,
				IsInferred:   true,
				Language:     language,
			}
		}
	}
	if ps, ok := ext.(pendingSource); ok {
		if pending := ps.PendingRelationships(); pending != nil {
			res.PendingRelationships = pending
		}
	}

	return res, nil
}

// ExtractIdentifiers runs only the identifier pass against an
// already-extracted, file-scoped symbol set. The engine calls it in the
// second indexing phase, after every file's symbols are stored; languages
// without identifier support return an empty slice.
func ExtractIdentifiers(tree *sitter.Tree, filePath string, content []byte, language string, symbols []extract.Symbol) ([]extract.Identifier, error) {
	base := extract.NewBase(language, filePath, content)
	ext, err := newExtractor(language, base)
	if err != nil {
		return nil, err
	}
	ie, ok := ext.(identifierExtractor)
	if !ok {
		return []extract.Identifier{}, nil
	}
	idents := ie.ExtractIdentifiers(tree.RootNode(), symbols)
	if idents == nil {
		idents = []extract.Identifier{}
	}
	return idents, nil
}
