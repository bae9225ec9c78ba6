package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// HTML extraction. Elements with an id attribute and embedded script/style
// blocks are the only symbols a markup file contributes; there is nothing to
// call and nothing to resolve across files.

type htmlExtractor struct {
	*engine
}

func newHTMLExtractor(base *extract.Base) *htmlExtractor {
	e := &engine{base: base}
	h := &htmlExtractor{engine: e}
	e.symbolHook = h.symbols
	return h
}

func (h *htmlExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := h.base
	switch node.Kind() {
	case "element":
		start := extract.FindChildByKind(node, "start_tag")
		if start == nil {
			start = extract.FindChildByKind(node, "self_closing_tag")
		}
		if start == nil {
			return nil, true
		}
		id := htmlAttribute(b, start, "id")
		if id == "" {
			return nil, true
		}
		tag := b.NodeText(extract.FindChildByKind(start, "tag_name"))
		sym := b.NewSymbol(node, id, extract.KindProperty, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(start)),
			ParentID:       parentID,
			Metadata:       map[string]any{"tag": tag},
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true

	case "script_element", "style_element":
		name := "script"
		if node.Kind() == "style_element" {
			name = "style"
		}
		sym := b.NewSymbol(node, name, extract.KindModule, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			ParentID:       parentID,
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true
	}
	return nil, false
}

func htmlAttribute(b *extract.Base, tag *sitter.Node, name string) string {
	for _, attr := range extract.FindChildrenByKind(tag, "attribute") {
		if b.NodeText(extract.FindChildByKind(attr, "attribute_name")) != name {
			continue
		}
		value := extract.FindChildByKind(attr, "quoted_attribute_value")
		if value == nil {
			value = extract.FindChildByKind(attr, "attribute_value")
		}
		return strings.Trim(b.NodeText(value), "'\"")
	}
	return ""
}
