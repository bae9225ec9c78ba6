package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// JavaScript extraction, shared by the jsx alias and reused as the core of the
// TypeScript extractor. Arrow functions bound to a declarator are treated as
// functions, constructor calls classify like plain calls against the class
// symbol.

var jsBuiltins = set(
	"require", "parseInt", "parseFloat", "isNaN", "isFinite", "setTimeout",
	"setInterval", "clearTimeout", "clearInterval", "encodeURIComponent",
	"decodeURIComponent", "fetch", "alert", "String", "Number", "Boolean",
	"Array", "Object", "Promise", "Symbol", "Error", "Map", "Set",
)

var jsKeywords = set(
	"break", "case", "catch", "class", "const", "continue", "debugger",
	"default", "delete", "do", "else", "export", "extends", "finally", "for",
	"function", "if", "import", "in", "instanceof", "let", "new", "of",
	"return", "static", "super", "switch", "this", "throw", "try", "typeof",
	"var", "void", "while", "with", "yield", "async", "await", "null",
	"undefined", "true", "false",
)

type jsExtractor struct {
	*engine
	classIDs map[string]struct{}
}

func newJavaScriptExtractor(base *extract.Base) *jsExtractor {
	j := &jsExtractor{classIDs: map[string]struct{}{}}
	j.engine = &engine{
		base: base,
		callRules: map[string]calleeFunc{
			"call_expression": calleeFromField("function"),
			"new_expression":  calleeFromField("constructor"),
		},
		memberRules: map[string]string{
			"member_expression": "property",
		},
		builtins:    jsBuiltins,
		keywords:    jsKeywords,
		deferCalls:  true,
		recoverErrs: true,
	}
	j.engine.symbolHook = j.symbols
	j.engine.relHook = j.relationships
	return j
}

func (j *jsExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := j.base
	switch node.Kind() {
	case "class_declaration":
		name := b.FieldText(node, "name")
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindClass, extract.SymbolOpts{
			Signature: extract.FirstLine(b.NodeText(node)),
			ParentID:  parentID,
		})
		j.classIDs[sym.ID] = struct{}{}
		return []extract.Symbol{sym}, true

	case "function_declaration", "generator_function_declaration":
		return j.named(node, parentID, extract.KindFunction), true

	case "method_definition":
		name := b.FieldText(node, "name")
		if name == "" {
			return nil, true
		}
		kind := extract.KindMethod
		if name == "constructor" {
			kind = extract.KindConstructor
		}
		sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
			Signature: extract.FirstLine(b.NodeText(node)),
			ParentID:  parentID,
		})
		return []extract.Symbol{sym}, true

	case "field_definition", "public_field_definition":
		// The plain grammar calls this field "property", the typed one "name".
		name := b.FieldText(node, "property")
		if name == "" {
			name = b.FieldText(node, "name")
		}
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindField, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			ParentID:       parentID,
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true

	case "variable_declarator":
		return j.declarator(node, parentID), true

	case "import_statement":
		return j.imports(node, parentID), true
	}
	return nil, false
}

func (j *jsExtractor) named(node *sitter.Node, parentID string, kind extract.SymbolKind) []extract.Symbol {
	b := j.base
	name := b.FieldText(node, "name")
	if name == "" {
		return nil
	}
	sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
		Signature: extract.FirstLine(b.NodeText(node)),
		ParentID:  parentID,
	})
	return []extract.Symbol{sym}
}

// declarator classifies `const f = () => ...` as a function and everything
// else as a variable or constant depending on the declaration keyword.
func (j *jsExtractor) declarator(node *sitter.Node, parentID string) []extract.Symbol {
	b := j.base
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil || nameNode.Kind() != "identifier" {
		return nil
	}
	name := b.NodeText(nameNode)

	kind := extract.KindVariable
	if value := node.ChildByFieldName("value"); value != nil {
		switch value.Kind() {
		case "arrow_function", "function_expression", "generator_function", "function":
			kind = extract.KindFunction
		}
	}
	if kind == extract.KindVariable {
		if parent := node.Parent(); parent != nil &&
			strings.HasPrefix(b.NodeText(parent), "const") {
			kind = extract.KindConstant
		}
	}
	sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
		Signature: extract.FirstLine(b.NodeText(node)),
		ParentID:  parentID,
	})
	return []extract.Symbol{sym}
}

// imports emits one Import symbol per binding introduced by an import
// statement, with the source module recorded in metadata.
func (j *jsExtractor) imports(node *sitter.Node, parentID string) []extract.Symbol {
	b := j.base
	source := strings.Trim(b.FieldText(node, "source"), "'\"`")
	sig := extract.FirstLine(b.NodeText(node))

	var out []extract.Symbol
	add := func(target *sitter.Node, name string) {
		if name == "" {
			return
		}
		out = append(out, b.NewSymbol(target, name, extract.KindImport, extract.SymbolOpts{
			Signature:      sig,
			ParentID:       parentID,
			Metadata:       map[string]any{"module": source},
			SkipDocComment: true,
		}))
	}

	var scan func(n *sitter.Node)
	scan = func(n *sitter.Node) {
		switch n.Kind() {
		case "import_specifier":
			if alias := n.ChildByFieldName("alias"); alias != nil {
				add(n, b.NodeText(alias))
				return
			}
			add(n, b.FieldText(n, "name"))
			return
		case "namespace_import":
			if id := extract.FindChildByKind(n, "identifier"); id != nil {
				add(n, b.NodeText(id))
			}
			return
		case "identifier":
			// default import binding
			add(n, b.NodeText(n))
			return
		}
		for i := uint(0); i < n.NamedChildCount(); i++ {
			scan(n.NamedChild(i))
		}
	}
	if clause := extract.FindChildByKind(node, "import_clause"); clause != nil {
		scan(clause)
	}
	return out
}

// relationships adds class extends edges when the superclass is declared in
// the same file.
func (j *jsExtractor) relationships(node *sitter.Node, symbols []extract.Symbol, table *extract.SymbolTable) []extract.Relationship {
	if node.Kind() != "class_heritage" {
		return nil
	}
	b := j.base
	parent := node.Parent()
	if parent == nil {
		return nil
	}
	class, ok := table.Lookup(b.FieldText(parent, "name"))
	if !ok {
		return nil
	}
	super := extract.FindChildByKind(node, "identifier")
	if super == nil {
		return nil
	}
	if target, found := table.Lookup(b.NodeText(super)); found && target.ID != class.ID {
		return []extract.Relationship{
			b.NewRelationship(class.ID, target.ID, extract.RelExtends, node, 0.9, nil),
		}
	}
	return nil
}
