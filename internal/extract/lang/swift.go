package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// Swift extraction. The grammar folds classes, structs, enums and extensions
// into one declaration kind, so the symbol kind is recovered from the
// declaration keyword. Call targets come from the callee child rather than a
// grammar field.

var swiftBuiltins = set(
	"print", "debugPrint", "dump", "assert", "precondition", "fatalError",
	"min", "max", "abs", "map", "filter", "reduce", "forEach", "append",
	"count", "isEmpty", "contains", "sorted", "joined", "split", "String",
	"Int", "Double", "Bool", "Array", "Dictionary", "Set", "Optional",
)

var swiftKeywords = set(
	"associatedtype", "class", "deinit", "enum", "extension", "fileprivate",
	"func", "import", "init", "inout", "internal", "let", "open", "operator",
	"private", "protocol", "public", "rethrows", "static", "struct",
	"subscript", "typealias", "var", "break", "case", "continue", "default",
	"defer", "do", "else", "fallthrough", "for", "guard", "if", "in",
	"repeat", "return", "switch", "where", "while", "as", "catch", "is",
	"nil", "super", "self", "throw", "throws", "try", "true", "false",
)

type swiftExtractor struct {
	*engine
	typeIDs map[string]struct{}
}

func newSwiftExtractor(base *extract.Base) *swiftExtractor {
	e := &engine{
		base: base,
		symbolRules: map[string]symbolRule{
			"protocol_declaration":  {kind: extract.KindInterface, nameField: "name"},
			"typealias_declaration": {kind: extract.KindType, nameField: "name"},
			"init_declaration":      {kind: extract.KindConstructor, nameKinds: []string{"init"}},
			"deinit_declaration":    {kind: extract.KindDestructor, nameKinds: []string{"deinit"}},
		},
		callRules: map[string]calleeFunc{
			"call_expression": firstChildCallee,
		},
		memberRules: map[string]string{
			"navigation_expression": "suffix",
		},
		builtins:    swiftBuiltins,
		keywords:    swiftKeywords,
		arrow:       "->",
		suffixTypes: true,
		deferCalls:  true,
		recoverErrs: true,
	}
	s := &swiftExtractor{engine: e, typeIDs: map[string]struct{}{}}
	e.symbolHook = s.symbols
	return s
}

func (s *swiftExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := s.base
	switch node.Kind() {
	case "class_declaration":
		name := b.FieldText(node, "name")
		if name == "" {
			return nil, true
		}
		head := extract.FirstLine(b.NodeText(node))
		kind := extract.KindClass
		switch {
		case strings.Contains(head, "struct "):
			kind = extract.KindStruct
		case strings.Contains(head, "enum "):
			kind = extract.KindEnum
		}
		sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
			Signature: head,
			ParentID:  parentID,
		})
		s.typeIDs[sym.ID] = struct{}{}
		return []extract.Symbol{sym}, true

	case "function_declaration":
		name := b.FieldText(node, "name")
		if name == "" {
			name = b.NodeText(extract.FindChildByKind(node, "simple_identifier"))
		}
		if name == "" {
			return nil, true
		}
		kind := extract.KindFunction
		if _, inType := s.typeIDs[parentID]; inType {
			kind = extract.KindMethod
		}
		sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
			Signature: extract.FirstLine(b.NodeText(node)),
			ParentID:  parentID,
		})
		return []extract.Symbol{sym}, true

	case "property_declaration":
		name := swiftPatternName(b, node)
		if name == "" {
			return nil, true
		}
		kind := extract.KindVariable
		if _, inType := s.typeIDs[parentID]; inType {
			kind = extract.KindProperty
		}
		sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			ParentID:       parentID,
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true

	case "import_declaration":
		path := strings.TrimSpace(strings.TrimPrefix(extract.FirstLine(b.NodeText(node)), "import"))
		if path == "" {
			return nil, true
		}
		name := path
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
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

// swiftPatternName finds the bound identifier inside a property declaration
// pattern.
func swiftPatternName(b *extract.Base, node *sitter.Node) string {
	var name string
	var scan func(n *sitter.Node)
	scan = func(n *sitter.Node) {
		if n == nil || name != "" {
			return
		}
		if n.Kind() == "simple_identifier" {
			name = b.NodeText(n)
			return
		}
		if n.Kind() == "pattern" || n.Kind() == "value_binding_pattern" {
			for i := uint(0); i < n.NamedChildCount(); i++ {
				scan(n.NamedChild(i))
			}
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		scan(node.NamedChild(i))
	}
	return name
}

// firstChildCallee names a call whose grammar exposes the callee as the first
// child instead of a field.
func firstChildCallee(b *extract.Base, node *sitter.Node) (string, bool) {
	callee := node.NamedChild(0)
	if callee == nil {
		return "", false
	}
	switch callee.Kind() {
	case "simple_identifier", "identifier":
		text := b.NodeText(callee)
		return text, text != ""
	case "navigation_expression":
		name := strings.TrimPrefix(b.FieldText(callee, "suffix"), ".")
		return name, name != ""
	}
	return "", false
}
