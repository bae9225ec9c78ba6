package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// QML extraction. Object definitions declare component instances, ui
// properties and signals are members, and embedded JavaScript functions
// classify calls the usual way. Types are not inferred.

type qmlExtractor struct {
	*engine
}

func newQMLExtractor(base *extract.Base) *qmlExtractor {
	e := &engine{
		base: base,
		symbolRules: map[string]symbolRule{
			"function_declaration": {kind: extract.KindFunction, nameField: "name"},
			"ui_signal":            {kind: extract.KindEvent, nameField: "name"},
		},
		callRules: map[string]calleeFunc{
			"call_expression": calleeFromField("function"),
		},
		memberRules: map[string]string{
			"member_expression": "property",
		},
		builtins:   jsBuiltins,
		keywords:   jsKeywords,
		deferCalls: true,
	}
	q := &qmlExtractor{engine: e}
	e.symbolHook = q.symbols
	return q
}

func (q *qmlExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := q.base
	switch node.Kind() {
	case "ui_object_definition":
		name := b.FieldText(node, "type_name")
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindClass, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			ParentID:       parentID,
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true

	case "ui_property":
		name := b.FieldText(node, "name")
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindProperty, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			ParentID:       parentID,
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true

	case "ui_import":
		head := extract.FirstLine(b.NodeText(node))
		path := strings.TrimSpace(strings.TrimPrefix(head, "import"))
		path = strings.Trim(strings.Fields(path+" ")[0], "'\"")
		if path == "" {
			return nil, true
		}
		name := path
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		sym := b.NewSymbol(node, name, extract.KindImport, extract.SymbolOpts{
			Signature:      head,
			ParentID:       parentID,
			Metadata:       map[string]any{"module": path},
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true
	}
	return nil, false
}
