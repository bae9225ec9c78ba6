package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// Rust extraction. Functions inside an impl block become methods, Type::new
// calls classify against the type name, and use declarations expand brace
// groups into one Import symbol per leaf.

var rustBuiltins = set(
	"println", "print", "eprintln", "eprint", "format", "vec", "panic",
	"assert", "assert_eq", "assert_ne", "debug_assert", "write", "writeln",
	"matches", "todo", "unimplemented", "unreachable", "include_str",
	"include_bytes", "env", "concat", "stringify", "dbg",
	"Some", "None", "Ok", "Err", "Box", "String", "Vec", "drop",
	"unwrap", "expect", "clone", "into", "from", "to_string", "as_ref",
	"as_str", "iter", "into_iter", "collect", "map", "filter", "len",
	"push", "insert", "get", "contains", "is_empty",
)

var rustKeywords = set(
	"as", "async", "await", "break", "const", "continue", "crate", "dyn",
	"else", "enum", "extern", "fn", "for", "if", "impl", "in", "let", "loop",
	"match", "mod", "move", "mut", "pub", "ref", "return", "self", "static",
	"struct", "super", "trait", "type", "unsafe", "use", "where", "while",
)

type rustExtractor struct {
	*engine
}

func newRustExtractor(base *extract.Base) *rustExtractor {
	e := &engine{
		base: base,
		symbolRules: map[string]symbolRule{
			"struct_item":      {kind: extract.KindStruct, nameField: "name"},
			"enum_item":        {kind: extract.KindEnum, nameField: "name"},
			"enum_variant":     {kind: extract.KindEnumMember, nameField: "name", skipDoc: true},
			"trait_item":       {kind: extract.KindTrait, nameField: "name"},
			"mod_item":         {kind: extract.KindModule, nameField: "name"},
			"const_item":       {kind: extract.KindConstant, nameField: "name"},
			"static_item":      {kind: extract.KindVariable, nameField: "name"},
			"type_item":        {kind: extract.KindType, nameField: "name"},
			"union_item":       {kind: extract.KindUnion, nameField: "name"},
			"field_declaration": {kind: extract.KindField, nameField: "name", skipDoc: true},
			"macro_definition": {kind: extract.KindFunction, nameField: "name"},
		},
		callRules: map[string]calleeFunc{
			"call_expression":  rustCallee,
			"macro_invocation": rustMacroCallee,
		},
		memberRules: map[string]string{
			"field_expression": "field",
		},
		builtins:    rustBuiltins,
		keywords:    rustKeywords,
		arrow:       "->",
		deferCalls:  true,
		recoverErrs: true,
	}
	r := &rustExtractor{engine: e}
	e.symbolHook = r.symbols
	e.relHook = r.relationships
	return r
}

func (r *rustExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := r.base
	switch node.Kind() {
	case "function_item":
		name := b.FieldText(node, "name")
		if name == "" {
			return nil, true
		}
		kind := extract.KindFunction
		if insideImpl(node) {
			kind = extract.KindMethod
			if name == "new" {
				kind = extract.KindConstructor
			}
		}
		sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
			Signature:  extract.FirstLine(b.NodeText(node)),
			Visibility: rustVisibility(b.NodeText(node)),
			ParentID:   parentID,
		})
		return []extract.Symbol{sym}, true

	case "use_declaration":
		return r.imports(node, parentID), true
	}
	return nil, false
}

// imports expands `use a::b::{C, D as E};` into one Import symbol per leaf.
func (r *rustExtractor) imports(node *sitter.Node, parentID string) []extract.Symbol {
	b := r.base
	arg := strings.TrimSuffix(strings.TrimSpace(b.FieldText(node, "argument")), ";")
	if arg == "" {
		return nil
	}
	sig := extract.FirstLine(b.NodeText(node))

	prefix := arg
	var leaves []string
	if open := strings.IndexByte(arg, '{'); open >= 0 {
		prefix = strings.TrimSuffix(strings.TrimSpace(arg[:open]), "::")
		inner := strings.TrimSuffix(strings.TrimSpace(arg[open+1:]), "}")
		leaves = strings.Split(inner, ",")
	} else {
		leaves = []string{arg}
		prefix = ""
	}

	var out []extract.Symbol
	for _, leaf := range leaves {
		leaf = strings.TrimSpace(leaf)
		if leaf == "" || leaf == "*" {
			continue
		}
		name := leaf
		if i := strings.LastIndex(leaf, " as "); i >= 0 {
			name = strings.TrimSpace(leaf[i+4:])
		} else if i := strings.LastIndex(leaf, "::"); i >= 0 {
			name = leaf[i+2:]
		}
		if name == "" || name == "self" {
			continue
		}
		meta := map[string]any{}
		if prefix != "" {
			meta["module"] = prefix
		}
		out = append(out, b.NewSymbol(node, name, extract.KindImport, extract.SymbolOpts{
			Signature:      sig,
			ParentID:       parentID,
			Metadata:       meta,
			SkipDocComment: true,
		}))
	}
	return out
}

// relationships adds impl Trait for Type edges when both sides are declared in
// the same file.
func (r *rustExtractor) relationships(node *sitter.Node, symbols []extract.Symbol, table *extract.SymbolTable) []extract.Relationship {
	if node.Kind() != "impl_item" {
		return nil
	}
	b := r.base
	trait := node.ChildByFieldName("trait")
	if trait == nil {
		return nil
	}
	typ, ok := table.Lookup(rustTypeName(b, node.ChildByFieldName("type")))
	if !ok {
		return nil
	}
	target, ok := table.Lookup(rustTypeName(b, trait))
	if !ok || target.ID == typ.ID {
		return nil
	}
	return []extract.Relationship{
		b.NewRelationship(typ.ID, target.ID, extract.RelImplements, node, 0.9, nil),
	}
}

func rustTypeName(b *extract.Base, node *sitter.Node) string {
	if node == nil {
		return ""
	}
	text := b.NodeText(node)
	if i := strings.IndexByte(text, '<'); i >= 0 {
		text = text[:i]
	}
	if i := strings.LastIndex(text, "::"); i >= 0 {
		text = text[i+2:]
	}
	return text
}

// rustCallee names a call target; Type::new calls resolve to the type so that
// constructor calls classify against the type declaration.
func rustCallee(b *extract.Base, node *sitter.Node) (string, bool) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return "", false
	}
	if fn.Kind() == "scoped_identifier" {
		name := b.FieldText(fn, "name")
		if name == "new" {
			if path := rustTypeName(b, fn.ChildByFieldName("path")); path != "" {
				return path, true
			}
		}
		return name, name != ""
	}
	return calleeName(b, fn)
}

func rustMacroCallee(b *extract.Base, node *sitter.Node) (string, bool) {
	name := rustTypeName(b, node.ChildByFieldName("macro"))
	return name, name != ""
}

func insideImpl(node *sitter.Node) bool {
	for p := node.Parent(); p != nil; p = p.Parent() {
		switch p.Kind() {
		case "impl_item":
			return true
		case "function_item", "mod_item", "trait_item":
			return false
		}
	}
	return false
}

func rustVisibility(text string) extract.Visibility {
	head := extract.FirstLine(text)
	if strings.HasPrefix(head, "pub(crate)") || strings.HasPrefix(head, "pub(super)") {
		return extract.VisibilityProtected
	}
	if strings.HasPrefix(head, "pub") {
		return extract.VisibilityPublic
	}
	return extract.VisibilityPrivate
}
