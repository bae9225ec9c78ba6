package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// TypeScript extraction, shared by the tsx alias. Builds on the JavaScript
// core and adds the type-level declarations plus suffix-annotation type
// inference.

type tsExtractor struct {
	*jsExtractor
}

func newTypeScriptExtractor(base *extract.Base) *tsExtractor {
	t := &tsExtractor{jsExtractor: newJavaScriptExtractor(base)}
	e := t.engine
	e.suffixTypes = true
	e.symbolRules = map[string]symbolRule{
		"interface_declaration":      {kind: extract.KindInterface, nameField: "name"},
		"type_alias_declaration":     {kind: extract.KindType, nameField: "name"},
		"enum_declaration":           {kind: extract.KindEnum, nameField: "name"},
		"abstract_class_declaration": {kind: extract.KindClass, nameField: "name"},
		"method_signature":           {kind: extract.KindMethod, nameField: "name"},
		"property_signature":         {kind: extract.KindProperty, nameField: "name", skipDoc: true},
		"enum_assignment":            {kind: extract.KindEnumMember, nameField: "name", skipDoc: true},
		"internal_module":            {kind: extract.KindNamespace, nameField: "name"},
	}

	jsRel := e.relHook
	e.relHook = func(node *sitter.Node, symbols []extract.Symbol, table *extract.SymbolTable) []extract.Relationship {
		out := jsRel(node, symbols, table)
		return append(out, t.heritage(node, table)...)
	}
	return t
}

// heritage maps extends and implements clauses onto edges when the named type
// is declared in the same file.
func (t *tsExtractor) heritage(node *sitter.Node, table *extract.SymbolTable) []extract.Relationship {
	var kind extract.RelationshipKind
	switch node.Kind() {
	case "extends_clause", "extends_type_clause":
		kind = extract.RelExtends
	case "implements_clause":
		kind = extract.RelImplements
	default:
		return nil
	}

	b := t.base
	decl := node.Parent()
	for decl != nil && decl.ChildByFieldName("name") == nil {
		decl = decl.Parent()
	}
	if decl == nil {
		return nil
	}
	from, ok := table.Lookup(b.FieldText(decl, "name"))
	if !ok {
		return nil
	}

	var out []extract.Relationship
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "identifier", "type_identifier":
		default:
			continue
		}
		if target, found := table.Lookup(b.NodeText(child)); found && target.ID != from.ID {
			out = append(out, b.NewRelationship(from.ID, target.ID, kind, node, 0.9, nil))
		}
	}
	return out
}
