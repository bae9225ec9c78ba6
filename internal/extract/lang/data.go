package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// Data-format extractors. These implement the symbol and identifier passes;
// the factory's capability checks turn the missing passes into empty
// collections. Structure lives near the document root, so the walkers here
// cut off early instead of visiting every scalar. Only YAML carries a real
// reference shape (alias nodes); the other formats are data, not code, and
// their identifier pass finds nothing.

// noIdentifiers marks a data format whose identifier pass never produces
// entries. Embedding it satisfies the capability without a bespoke walker.
type noIdentifiers struct{}

func (noIdentifiers) ExtractIdentifiers(*sitter.Node, []extract.Symbol) []extract.Identifier {
	return nil
}

type cssExtractor struct {
	noIdentifiers
	base *extract.Base
}

func newCSSExtractor(base *extract.Base) *cssExtractor {
	return &cssExtractor{base: base}
}

func (c *cssExtractor) ExtractSymbols(root *sitter.Node) []extract.Symbol {
	b := c.base
	return b.WalkSymbols(root, "", func(node *sitter.Node, parentID string) ([]extract.Symbol, error) {
		switch node.Kind() {
		case "rule_set":
			selectors := extract.FindChildByKind(node, "selectors")
			name := extract.FirstLine(b.NodeText(selectors))
			if name == "" {
				return nil, nil
			}
			sym := b.NewSymbol(node, name, extract.KindVariable, extract.SymbolOpts{
				Signature:      name,
				ParentID:       parentID,
				SkipDocComment: true,
			})
			return []extract.Symbol{sym}, nil
		case "keyframes_statement":
			name := b.FieldText(node, "name")
			if name == "" {
				return nil, nil
			}
			sym := b.NewSymbol(node, name, extract.KindFunction, extract.SymbolOpts{
				Signature:      extract.FirstLine(b.NodeText(node)),
				ParentID:       parentID,
				SkipDocComment: true,
			})
			return []extract.Symbol{sym}, nil
		}
		return nil, nil
	})
}

type markdownExtractor struct {
	noIdentifiers
	base *extract.Base
}

func newMarkdownExtractor(base *extract.Base) *markdownExtractor {
	return &markdownExtractor{base: base}
}

func (m *markdownExtractor) ExtractSymbols(root *sitter.Node) []extract.Symbol {
	b := m.base
	return b.WalkSymbols(root, "", func(node *sitter.Node, parentID string) ([]extract.Symbol, error) {
		if node.Kind() != "atx_heading" && node.Kind() != "setext_heading" {
			return nil, nil
		}
		name := strings.TrimSpace(strings.TrimLeft(extract.FirstLine(b.NodeText(node)), "# "))
		if name == "" {
			return nil, nil
		}
		sym := b.NewSymbol(node, name, extract.KindModule, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			ParentID:       parentID,
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, nil
	})
}

type jsonExtractor struct {
	noIdentifiers
	base *extract.Base
}

func newJSONExtractor(base *extract.Base) *jsonExtractor {
	return &jsonExtractor{base: base}
}

func (j *jsonExtractor) ExtractSymbols(root *sitter.Node) []extract.Symbol {
	b := j.base
	var out []extract.Symbol
	// Document-level keys only; nested objects are structure, not symbols.
	doc := extract.FindChildByKind(root, "object")
	if doc == nil {
		return out
	}
	for _, pair := range extract.FindChildrenByKind(doc, "pair") {
		key := strings.Trim(b.FieldText(pair, "key"), "\"")
		if key == "" {
			continue
		}
		out = append(out, b.NewSymbol(pair, key, extract.KindProperty, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(pair)),
			SkipDocComment: true,
		}))
	}
	return out
}

type tomlExtractor struct {
	noIdentifiers
	base *extract.Base
}

func newTOMLExtractor(base *extract.Base) *tomlExtractor {
	return &tomlExtractor{base: base}
}

func (t *tomlExtractor) ExtractSymbols(root *sitter.Node) []extract.Symbol {
	b := t.base
	return b.WalkSymbols(root, "", func(node *sitter.Node, parentID string) ([]extract.Symbol, error) {
		switch node.Kind() {
		case "table", "table_array_element":
			name := b.NodeText(node.NamedChild(0))
			if name == "" {
				return nil, nil
			}
			sym := b.NewSymbol(node, name, extract.KindModule, extract.SymbolOpts{
				Signature:      extract.FirstLine(b.NodeText(node)),
				ParentID:       parentID,
				SkipDocComment: true,
			})
			return []extract.Symbol{sym}, nil
		case "pair":
			key := b.NodeText(node.NamedChild(0))
			if key == "" {
				return nil, nil
			}
			sym := b.NewSymbol(node, key, extract.KindProperty, extract.SymbolOpts{
				Signature:      extract.FirstLine(b.NodeText(node)),
				ParentID:       parentID,
				SkipDocComment: true,
			})
			return []extract.Symbol{sym}, nil
		}
		return nil, nil
	})
}

type yamlExtractor struct {
	base *extract.Base
}

func newYAMLExtractor(base *extract.Base) *yamlExtractor {
	return &yamlExtractor{base: base}
}

func (y *yamlExtractor) ExtractSymbols(root *sitter.Node) []extract.Symbol {
	b := y.base
	return b.WalkSymbols(root, "", func(node *sitter.Node, parentID string) ([]extract.Symbol, error) {
		if node.Kind() != "block_mapping_pair" {
			return nil, nil
		}
		key := b.FieldText(node, "key")
		if key == "" {
			return nil, nil
		}
		sym := b.NewSymbol(node, key, extract.KindProperty, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			ParentID:       parentID,
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, nil
	})
}

// ExtractIdentifiers records YAML aliases (*name) as variable references back
// to their anchor.
func (y *yamlExtractor) ExtractIdentifiers(root *sitter.Node, symbols []extract.Symbol) []extract.Identifier {
	b := y.base
	var out []extract.Identifier
	b.Walk(root, func(node *sitter.Node) error {
		if node.Kind() != "alias" {
			return nil
		}
		name := b.NodeText(extract.FindChildByKind(node, "alias_name"))
		if name == "" {
			name = strings.TrimPrefix(b.NodeText(node), "*")
		}
		if name != "" {
			out = append(out, b.NewIdentifier(node, name, extract.IdentVariableRef, symbols))
		}
		return nil
	})
	return out
}
