package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// Lua extraction. Qualified function names (mod.fn, obj:method) become
// methods named after their last segment, require calls become Import
// symbols. Lua carries no type annotations, so there is no inference pass.

var luaBuiltins = set(
	"require", "print", "pairs", "ipairs", "type", "tostring", "tonumber", "pcall",
	"xpcall", "error", "assert", "setmetatable", "getmetatable", "rawget",
	"rawset", "rawequal", "select", "unpack", "next", "collectgarbage",
	"dofile", "loadstring", "load",
)

var luaKeywords = set(
	"and", "break", "do", "else", "elseif", "end", "false", "for",
	"function", "goto", "if", "in", "local", "nil", "not", "or", "repeat",
	"return", "then", "true", "until", "while",
)

type luaExtractor struct {
	*engine
}

func newLuaExtractor(base *extract.Base) *luaExtractor {
	e := &engine{
		base: base,
		callRules: map[string]calleeFunc{
			"function_call": calleeFromField("name"),
		},
		memberRules: map[string]string{
			"dot_index_expression": "field",
		},
		builtins:    luaBuiltins,
		keywords:    luaKeywords,
		deferCalls:  true,
		recoverErrs: true,
	}
	l := &luaExtractor{engine: e}
	e.symbolHook = l.symbols
	return l
}

func (l *luaExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := l.base
	switch node.Kind() {
	case "function_declaration":
		full := b.FieldText(node, "name")
		if full == "" {
			return nil, true
		}
		name := full
		kind := extract.KindFunction
		if i := strings.LastIndexAny(full, ".:"); i >= 0 {
			name = full[i+1:]
			kind = extract.KindMethod
		}
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
			Signature: extract.FirstLine(b.NodeText(node)),
			ParentID:  parentID,
			Metadata:  map[string]any{"qualified_name": full},
		})
		return []extract.Symbol{sym}, true

	case "variable_declaration", "assignment_statement":
		// Only declaration-shaped statements with a bare identifier target.
		if node.Kind() == "assignment_statement" && parentID != "" {
			return nil, true
		}
		target := firstDescendant(node, "identifier")
		if target == nil {
			return nil, true
		}
		text := b.NodeText(node)
		if strings.Contains(text, "require(") || strings.Contains(text, "require \"") ||
			strings.Contains(text, "require'") {
			return l.requireImport(node, b.NodeText(target), parentID), true
		}
		if strings.Contains(text, "function") {
			sym := b.NewSymbol(node, b.NodeText(target), extract.KindFunction, extract.SymbolOpts{
				Signature: extract.FirstLine(text),
				ParentID:  parentID,
			})
			return []extract.Symbol{sym}, true
		}
		sym := b.NewSymbol(node, b.NodeText(target), extract.KindVariable, extract.SymbolOpts{
			Signature:      extract.FirstLine(text),
			ParentID:       parentID,
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true
	}
	return nil, false
}

func (l *luaExtractor) requireImport(node *sitter.Node, name, parentID string) []extract.Symbol {
	b := l.base
	text := b.NodeText(node)
	module := ""
	if open := strings.IndexAny(text, "'\""); open >= 0 {
		rest := text[open+1:]
		if end := strings.IndexAny(rest, "'\""); end >= 0 {
			module = rest[:end]
		}
	}
	sym := b.NewSymbol(node, name, extract.KindImport, extract.SymbolOpts{
		Signature:      extract.FirstLine(text),
		ParentID:       parentID,
		Metadata:       map[string]any{"module": module},
		SkipDocComment: true,
	})
	return []extract.Symbol{sym}
}

// firstDescendant returns the first named descendant of the given kind in
// document order.
func firstDescendant(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Kind() == kind {
		return node
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if found := firstDescendant(node.NamedChild(i), kind); found != nil {
			return found
		}
	}
	return nil
}
