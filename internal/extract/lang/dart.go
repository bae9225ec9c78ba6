package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// Dart extraction. The grammar exposes calls as selector chains rather than a
// call node, so the callee is read from the sibling preceding an arguments
// group.

var dartBuiltins = set(
	"print", "identical", "assert", "toString", "add", "remove", "contains",
	"map", "where", "forEach", "length", "isEmpty", "isNotEmpty", "first",
	"last", "join", "split", "List", "Map", "Set", "String", "Future",
	"Stream", "Duration",
)

var dartKeywords = set(
	"abstract", "as", "assert", "async", "await", "break", "case", "catch",
	"class", "const", "continue", "covariant", "default", "deferred", "do",
	"dynamic", "else", "enum", "export", "extends", "extension", "external",
	"factory", "final", "finally", "for", "get", "hide", "if", "implements",
	"import", "in", "interface", "is", "late", "library", "mixin", "new",
	"on", "operator", "part", "required", "rethrow", "return", "set", "show",
	"static", "super", "switch", "sync", "this", "throw", "try", "typedef",
	"var", "void", "while", "with", "yield", "null", "true", "false",
)

type dartExtractor struct {
	*engine
	classIDs map[string]struct{}
}

func newDartExtractor(base *extract.Base) *dartExtractor {
	e := &engine{
		base: base,
		symbolRules: map[string]symbolRule{
			"class_definition":      {kind: extract.KindClass, nameField: "name"},
			"mixin_declaration":     {kind: extract.KindTrait, nameField: "name"},
			"extension_declaration": {kind: extract.KindClass, nameField: "name"},
			"enum_declaration":      {kind: extract.KindEnum, nameField: "name"},
			"getter_signature":      {kind: extract.KindProperty, nameField: "name"},
			"setter_signature":      {kind: extract.KindProperty, nameField: "name"},
		},
		callRules: map[string]calleeFunc{
			"arguments": precedingSiblingCallee,
		},
		builtins:    dartBuiltins,
		keywords:    dartKeywords,
		suffixTypes: true,
		deferCalls:  true,
		recoverErrs: true,
	}
	d := &dartExtractor{engine: e, classIDs: map[string]struct{}{}}
	e.symbolHook = d.symbols
	return d
}

func (d *dartExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := d.base
	switch node.Kind() {
	case "class_definition":
		name := b.FieldText(node, "name")
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindClass, extract.SymbolOpts{
			Signature: extract.FirstLine(b.NodeText(node)),
			ParentID:  parentID,
		})
		d.classIDs[sym.ID] = struct{}{}
		return []extract.Symbol{sym}, true

	case "function_signature", "method_signature":
		name := b.FieldText(node, "name")
		if name == "" {
			name = b.NodeText(extract.FindChildByKind(node, "identifier"))
		}
		if name == "" {
			return nil, true
		}
		kind := extract.KindFunction
		if _, inClass := d.classIDs[parentID]; inClass {
			kind = extract.KindMethod
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

	case "import_or_export":
		head := extract.FirstLine(b.NodeText(node))
		uri := dartImportURI(head)
		if uri == "" {
			return nil, true
		}
		name := uri
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			name = name[i+1:]
		}
		name = strings.TrimSuffix(name, ".dart")
		if i := strings.IndexByte(name, ':'); i >= 0 {
			name = name[i+1:]
		}
		sym := b.NewSymbol(node, name, extract.KindImport, extract.SymbolOpts{
			Signature:      head,
			ParentID:       parentID,
			Metadata:       map[string]any{"module": uri},
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true
	}
	return nil, false
}

func dartImportURI(head string) string {
	open := strings.IndexAny(head, "'\"")
	if open < 0 {
		return ""
	}
	rest := head[open+1:]
	end := strings.IndexAny(rest, "'\"")
	if end < 0 {
		return ""
	}
	return rest[:end]
}

// precedingSiblingCallee reads the callee from the named sibling immediately
// before an arguments group.
func precedingSiblingCallee(b *extract.Base, node *sitter.Node) (string, bool) {
	callee := node.PrevNamedSibling()
	if callee == nil {
		return "", false
	}
	switch callee.Kind() {
	case "identifier", "simple_identifier", "type_identifier":
		text := b.NodeText(callee)
		return text, text != ""
	}
	return "", false
}
