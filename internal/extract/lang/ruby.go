package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// Ruby extraction. Methods nested in a class body become methods, initialize
// becomes the constructor, constant assignment declares a constant, and
// require calls become Import symbols. Ruby carries no type annotations, so
// there is no inference pass.

var rubyBuiltins = set(
	"require", "require_relative", "puts", "print", "p", "pp", "raise",
	"lambda", "proc", "loop", "gets",
	"rand", "sleep", "freeze", "attr_accessor", "attr_reader", "attr_writer",
	"map", "each", "select", "reject", "reduce", "inject", "length", "size",
	"to_s", "to_i", "to_a", "to_sym", "push", "pop", "first", "last", "join",
	"split", "include", "extend", "send", "respond_to",
)

var rubyKeywords = set(
	"alias", "and", "begin", "break", "case", "class", "def", "defined",
	"do", "else", "elsif", "end", "ensure", "false", "for", "if", "in",
	"module", "next", "nil", "not", "or", "redo", "rescue", "retry",
	"return", "self", "super", "then", "true", "undef", "unless", "until",
	"when", "while", "yield",
)

type rubyExtractor struct {
	*engine
	classIDs map[string]struct{}
}

func newRubyExtractor(base *extract.Base) *rubyExtractor {
	e := &engine{
		base: base,
		symbolRules: map[string]symbolRule{
			"module":           {kind: extract.KindModule, nameField: "name"},
			"singleton_method": {kind: extract.KindMethod, nameField: "name"},
		},
		callRules: map[string]calleeFunc{
			"call": calleeFromField("method"),
		},
		builtins:    rubyBuiltins,
		keywords:    rubyKeywords,
		deferCalls:  true,
		recoverErrs: true,
	}
	r := &rubyExtractor{engine: e, classIDs: map[string]struct{}{}}
	e.symbolHook = r.symbols
	e.relHook = r.relationships
	return r
}

func (r *rubyExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := r.base
	switch node.Kind() {
	case "class":
		name := b.FieldText(node, "name")
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindClass, extract.SymbolOpts{
			Signature: extract.FirstLine(b.NodeText(node)),
			ParentID:  parentID,
		})
		r.classIDs[sym.ID] = struct{}{}
		return []extract.Symbol{sym}, true

	case "method":
		name := b.FieldText(node, "name")
		if name == "" {
			return nil, true
		}
		kind := extract.KindFunction
		if _, inClass := r.classIDs[parentID]; inClass {
			kind = extract.KindMethod
			if name == "initialize" {
				kind = extract.KindConstructor
			}
		}
		vis := extract.VisibilityPublic
		if strings.HasPrefix(name, "_") {
			vis = extract.VisibilityPrivate
		}
		sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
			Signature:  extract.FirstLine(b.NodeText(node)),
			Visibility: vis,
			ParentID:   parentID,
		})
		return []extract.Symbol{sym}, true

	case "assignment":
		left := node.ChildByFieldName("left")
		if left == nil || left.Kind() != "constant" {
			return nil, true
		}
		sym := b.NewSymbol(node, b.NodeText(left), extract.KindConstant, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			ParentID:       parentID,
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true

	case "call":
		// require "json" introduces an import binding.
		method := b.FieldText(node, "method")
		if method != "require" && method != "require_relative" {
			return nil, false
		}
		arg := node.ChildByFieldName("arguments")
		if arg == nil {
			return nil, true
		}
		path := strings.Trim(b.NodeText(arg), "(\"')")
		if path == "" {
			return nil, true
		}
		name := path
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			name = name[i+1:]
		}
		sym := b.NewSymbol(node, name, extract.KindImport, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			ParentID:       parentID,
			Metadata:       map[string]any{"module": path},
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true
	}
	return nil, false
}

// relationships adds the superclass edge when the parent class is declared in
// the same file.
func (r *rubyExtractor) relationships(node *sitter.Node, symbols []extract.Symbol, table *extract.SymbolTable) []extract.Relationship {
	if node.Kind() != "class" {
		return nil
	}
	b := r.base
	super := node.ChildByFieldName("superclass")
	if super == nil {
		return nil
	}
	class, ok := table.Lookup(b.FieldText(node, "name"))
	if !ok {
		return nil
	}
	superName := strings.TrimPrefix(strings.TrimSpace(b.NodeText(super)), "<")
	superName = strings.TrimSpace(superName)
	if target, found := table.Lookup(superName); found && target.ID != class.ID {
		return []extract.Relationship{
			b.NewRelationship(class.ID, target.ID, extract.RelExtends, node, 0.9, nil),
		}
	}
	return nil
}
