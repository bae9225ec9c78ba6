package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// Python extraction. Functions nested under a class body become methods,
// __init__ becomes the constructor, and module or class level assignments
// become variables, constants or properties. Function-local assignments are
// not symbols.

var pythonBuiltins = set(
	"print", "len", "range", "str", "int", "float", "list", "dict", "set",
	"tuple", "type", "isinstance", "issubclass", "super", "enumerate", "zip",
	"map", "filter", "sorted", "reversed", "open", "getattr", "setattr",
	"hasattr", "repr", "abs", "min", "max", "sum", "any", "all", "iter",
	"next", "vars", "id", "format", "input", "bool", "bytes", "hash",
	"callable", "staticmethod", "classmethod", "property",
)

var pythonKeywords = set(
	"and", "as", "assert", "async", "await", "break", "class", "continue",
	"def", "del", "elif", "else", "except", "finally", "for", "from",
	"global", "if", "import", "in", "is", "lambda", "nonlocal", "not", "or",
	"pass", "raise", "return", "try", "while", "with", "yield", "None",
	"True", "False", "self",
)

type pythonExtractor struct {
	*engine
	classIDs map[string]struct{}
	funcIDs  map[string]struct{}
}

func newPythonExtractor(base *extract.Base) *pythonExtractor {
	e := &engine{
		base: base,
		callRules: map[string]calleeFunc{
			"call": calleeFromField("function"),
		},
		memberRules: map[string]string{
			"attribute": "attribute",
		},
		builtins:    pythonBuiltins,
		keywords:    pythonKeywords,
		arrow:       "->",
		suffixTypes: true,
		deferCalls:  true,
		recoverErrs: true,
	}
	p := &pythonExtractor{
		engine:   e,
		classIDs: map[string]struct{}{},
		funcIDs:  map[string]struct{}{},
	}
	e.symbolHook = p.symbols
	e.relHook = p.relationships
	return p
}

func (p *pythonExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := p.base
	switch node.Kind() {
	case "class_definition":
		name := b.FieldText(node, "name")
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindClass, extract.SymbolOpts{
			Signature:  extract.FirstLine(b.NodeText(node)),
			Visibility: pythonVisibility(name),
			ParentID:   parentID,
		})
		p.classIDs[sym.ID] = struct{}{}
		return []extract.Symbol{sym}, true

	case "function_definition":
		name := b.FieldText(node, "name")
		if name == "" {
			return nil, true
		}
		kind := extract.KindFunction
		if _, inClass := p.classIDs[parentID]; inClass {
			kind = extract.KindMethod
			if name == "__init__" {
				kind = extract.KindConstructor
			}
		}
		sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
			Signature:  extract.FirstLine(b.NodeText(node)),
			Visibility: pythonVisibility(name),
			ParentID:   parentID,
		})
		p.funcIDs[sym.ID] = struct{}{}
		return []extract.Symbol{sym}, true

	case "assignment":
		// Only module and class scope assignments declare anything.
		if _, inFunc := p.funcIDs[parentID]; inFunc {
			return nil, true
		}
		left := node.ChildByFieldName("left")
		if left == nil || left.Kind() != "identifier" {
			return nil, true
		}
		name := b.NodeText(left)
		kind := extract.KindVariable
		if _, inClass := p.classIDs[parentID]; inClass {
			kind = extract.KindProperty
		} else if name == strings.ToUpper(name) && strings.ContainsAny(name, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
			kind = extract.KindConstant
		}
		sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			Visibility:     pythonVisibility(name),
			ParentID:       parentID,
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true

	case "import_statement", "import_from_statement":
		return p.imports(node, parentID), true
	}
	return nil, false
}

// imports emits one Import symbol per imported name, carrying the source
// module in metadata for cross-file resolution.
func (p *pythonExtractor) imports(node *sitter.Node, parentID string) []extract.Symbol {
	b := p.base
	module := b.FieldText(node, "module_name")

	var out []extract.Symbol
	add := func(target *sitter.Node, name, alias string) {
		if alias != "" {
			name = alias
		}
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		if name == "" {
			return
		}
		meta := map[string]any{}
		if module != "" {
			meta["module"] = module
		}
		out = append(out, b.NewSymbol(target, name, extract.KindImport, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			ParentID:       parentID,
			Metadata:       meta,
			SkipDocComment: true,
		}))
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "dotted_name":
			if text := b.NodeText(child); text != module {
				add(child, text, "")
			}
		case "aliased_import":
			add(child, b.FieldText(child, "name"), b.FieldText(child, "alias"))
		case "wildcard_import":
			// import * brings in no nameable symbols
		}
	}
	return out
}

// relationships adds extends edges from a class to its same-file superclasses.
func (p *pythonExtractor) relationships(node *sitter.Node, symbols []extract.Symbol, table *extract.SymbolTable) []extract.Relationship {
	if node.Kind() != "class_definition" {
		return nil
	}
	b := p.base
	class, ok := table.Lookup(b.FieldText(node, "name"))
	if !ok {
		return nil
	}
	supers := node.ChildByFieldName("superclasses")
	if supers == nil {
		return nil
	}
	var out []extract.Relationship
	for i := uint(0); i < supers.NamedChildCount(); i++ {
		super := supers.NamedChild(i)
		if super.Kind() != "identifier" {
			continue
		}
		if target, found := table.Lookup(b.NodeText(super)); found && target.ID != class.ID {
			out = append(out, b.NewRelationship(class.ID, target.ID, extract.RelExtends, node, 0.9, nil))
		}
	}
	return out
}

func pythonVisibility(name string) extract.Visibility {
	if strings.HasPrefix(name, "_") && !strings.HasSuffix(name, "__") {
		return extract.VisibilityPrivate
	}
	return extract.VisibilityPublic
}
