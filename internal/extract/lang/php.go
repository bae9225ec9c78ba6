package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// PHP extraction. Property and const declarations unwrap to their element
// children, use declarations become Import symbols, and $variable reads are
// recorded as variable references.

var phpBuiltins = set(
	"array", "count", "strlen", "str_replace", "implode", "explode",
	"in_array", "array_map", "array_filter", "array_merge", "array_keys",
	"array_values", "array_push", "isset", "unset", "empty", "is_array",
	"is_string", "is_null", "is_numeric", "intval", "strval", "floatval",
	"sprintf", "printf", "print_r", "var_dump", "json_encode", "json_decode",
	"trim", "ltrim", "rtrim", "strtolower", "strtoupper", "substr", "strpos",
	"preg_match", "preg_replace", "preg_split", "die", "exit", "define",
	"function_exists", "class_exists", "call_user_func",
)

var phpKeywords = set(
	"abstract", "and", "array", "as", "break", "callable", "case", "catch",
	"class", "clone", "const", "continue", "declare", "default", "do", "echo",
	"else", "elseif", "enum", "extends", "final", "finally", "fn", "for",
	"foreach", "function", "global", "goto", "if", "implements", "include",
	"instanceof", "insteadof", "interface", "match", "namespace", "new", "or",
	"print", "private", "protected", "public", "readonly", "require",
	"return", "static", "switch", "throw", "trait", "try", "use", "var",
	"while", "xor", "yield", "null", "true", "false", "this",
)

type phpExtractor struct {
	*engine
}

func newPHPExtractor(base *extract.Base) *phpExtractor {
	e := &engine{
		base: base,
		symbolRules: map[string]symbolRule{
			"class_declaration":     {kind: extract.KindClass, nameField: "name"},
			"interface_declaration": {kind: extract.KindInterface, nameField: "name"},
			"trait_declaration":     {kind: extract.KindTrait, nameField: "name"},
			"enum_declaration":      {kind: extract.KindEnum, nameField: "name"},
			"enum_case":             {kind: extract.KindEnumMember, nameField: "name", skipDoc: true},
			"function_definition":   {kind: extract.KindFunction, nameField: "name"},
			"method_declaration":    {kind: extract.KindMethod, nameField: "name"},
			"namespace_definition":  {kind: extract.KindNamespace, nameField: "name"},
		},
		callRules: map[string]calleeFunc{
			"function_call_expression":   calleeFromField("function"),
			"member_call_expression":     calleeFromField("name"),
			"scoped_call_expression":     calleeFromField("name"),
			"object_creation_expression": phpNewCallee,
		},
		memberRules: map[string]string{
			"member_access_expression": "name",
		},
		refKinds:    set("variable_name"),
		builtins:    phpBuiltins,
		keywords:    phpKeywords,
		suffixTypes: true,
		deferCalls:  true,
		recoverErrs: true,
	}
	p := &phpExtractor{engine: e}
	e.symbolHook = p.symbols
	return p
}

func (p *phpExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := p.base
	switch node.Kind() {
	case "property_declaration":
		elem := extract.FindChildByKind(node, "property_element")
		if elem == nil {
			return nil, true
		}
		name := strings.TrimPrefix(b.NodeText(extract.FindChildByKind(elem, "variable_name")), "$")
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindProperty, extract.SymbolOpts{
			Signature: extract.FirstLine(b.NodeText(node)),
			ParentID:  parentID,
		})
		return []extract.Symbol{sym}, true

	case "const_declaration":
		elem := extract.FindChildByKind(node, "const_element")
		if elem == nil {
			return nil, true
		}
		name := b.NodeText(extract.FindChildByKind(elem, "name"))
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindConstant, extract.SymbolOpts{
			Signature: extract.FirstLine(b.NodeText(node)),
			ParentID:  parentID,
		})
		return []extract.Symbol{sym}, true

	case "namespace_use_declaration":
		return p.imports(node, parentID), true
	}
	return nil, false
}

// imports emits one Import symbol per use clause, named after the alias or
// the last namespace segment.
func (p *phpExtractor) imports(node *sitter.Node, parentID string) []extract.Symbol {
	b := p.base
	sig := extract.FirstLine(b.NodeText(node))

	var out []extract.Symbol
	for _, clause := range extract.FindChildrenByKind(node, "namespace_use_clause") {
		path := b.NodeText(clause)
		name := path
		if i := strings.LastIndex(path, " as "); i >= 0 {
			name = strings.TrimSpace(path[i+4:])
			path = strings.TrimSpace(path[:i])
		} else if i := strings.LastIndexByte(path, '\\'); i >= 0 {
			name = path[i+1:]
		}
		if name == "" {
			continue
		}
		out = append(out, b.NewSymbol(clause, name, extract.KindImport, extract.SymbolOpts{
			Signature:      sig,
			ParentID:       parentID,
			Metadata:       map[string]any{"module": path},
			SkipDocComment: true,
		}))
	}
	return out
}

func phpNewCallee(b *extract.Base, node *sitter.Node) (string, bool) {
	name := b.NodeText(extract.FindChildByKind(node, "name"))
	if name == "" {
		if qn := extract.FindChildByKind(node, "qualified_name"); qn != nil {
			name = b.NodeText(qn)
			if i := strings.LastIndexByte(name, '\\'); i >= 0 {
				name = name[i+1:]
			}
		}
	}
	return name, name != ""
}
