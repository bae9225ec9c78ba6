package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// C# extraction. Delegates and events are first-class symbol kinds here;
// invocation targets resolve through member access names the same way the
// other object languages do.

var csharpBuiltins = set(
	"WriteLine", "Write", "ReadLine", "ToString", "Equals", "GetHashCode",
	"GetType", "nameof", "typeof", "Parse", "TryParse", "Format", "Join",
	"IsNullOrEmpty", "IsNullOrWhiteSpace", "Add", "Remove", "Contains",
	"Count", "First", "FirstOrDefault", "Where", "Select", "ToList",
	"ToArray", "Dispose",
)

var csharpKeywords = set(
	"abstract", "as", "base", "bool", "break", "byte", "case", "catch",
	"char", "checked", "class", "const", "continue", "decimal", "default",
	"delegate", "do", "double", "else", "enum", "event", "explicit", "extern",
	"finally", "fixed", "float", "for", "foreach", "goto", "if", "implicit",
	"in", "int", "interface", "internal", "is", "lock", "long", "namespace",
	"new", "null", "object", "operator", "out", "override", "params",
	"private", "protected", "public", "readonly", "ref", "return", "sbyte",
	"sealed", "short", "sizeof", "stackalloc", "static", "string", "struct",
	"switch", "this", "throw", "try", "typeof", "uint", "ulong", "unchecked",
	"unsafe", "ushort", "using", "var", "virtual", "void", "volatile",
	"while", "record", "async", "await",
)

type csharpExtractor struct {
	*engine
}

func newCSharpExtractor(base *extract.Base) *csharpExtractor {
	e := &engine{
		base: base,
		symbolRules: map[string]symbolRule{
			"class_declaration":       {kind: extract.KindClass, nameField: "name"},
			"interface_declaration":   {kind: extract.KindInterface, nameField: "name"},
			"struct_declaration":      {kind: extract.KindStruct, nameField: "name"},
			"record_declaration":      {kind: extract.KindClass, nameField: "name"},
			"enum_declaration":        {kind: extract.KindEnum, nameField: "name"},
			"enum_member_declaration": {kind: extract.KindEnumMember, nameField: "name", skipDoc: true},
			"method_declaration":      {kind: extract.KindMethod, nameField: "name"},
			"constructor_declaration": {kind: extract.KindConstructor, nameField: "name"},
			"destructor_declaration":  {kind: extract.KindDestructor, nameField: "name"},
			"property_declaration":    {kind: extract.KindProperty, nameField: "name"},
			"delegate_declaration":    {kind: extract.KindDelegate, nameField: "name"},
			"namespace_declaration":   {kind: extract.KindNamespace, nameField: "name"},
			"operator_declaration":    {kind: extract.KindOperator, nameField: "operator"},
		},
		callRules: map[string]calleeFunc{
			"invocation_expression":      calleeFromField("function"),
			"object_creation_expression": typeFieldCallee,
		},
		memberRules: map[string]string{
			"member_access_expression": "name",
		},
		builtins:    csharpBuiltins,
		keywords:    csharpKeywords,
		deferCalls:  true,
		recoverErrs: true,
	}
	c := &csharpExtractor{engine: e}
	e.symbolHook = c.symbols
	return c
}

func (c *csharpExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := c.base
	switch node.Kind() {
	case "field_declaration", "event_field_declaration":
		decl := extract.FindChildByKind(node, "variable_declaration")
		if decl == nil {
			return nil, true
		}
		declarator := extract.FindChildByKind(decl, "variable_declarator")
		if declarator == nil {
			return nil, true
		}
		name := b.NodeText(declarator.ChildByFieldName("name"))
		if name == "" {
			if id := extract.FindChildByKind(declarator, "identifier"); id != nil {
				name = b.NodeText(id)
			}
		}
		if name == "" {
			return nil, true
		}
		kind := extract.KindField
		if node.Kind() == "event_field_declaration" {
			kind = extract.KindEvent
		}
		sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
			Signature: extract.FirstLine(b.NodeText(node)),
			ParentID:  parentID,
		})
		return []extract.Symbol{sym}, true

	case "using_directive":
		path := b.NodeText(extract.FindChildByKind(node, "qualified_name"))
		if path == "" {
			path = b.NodeText(extract.FindChildByKind(node, "identifier"))
		}
		if path == "" {
			return nil, true
		}
		name := path
		if i := strings.LastIndexByte(path, '.'); i >= 0 {
			name = path[i+1:]
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
