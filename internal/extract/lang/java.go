package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// Java extraction. Return types are taken from the declaration's type field
// and carried in metadata, so type inference does not have to re-parse the
// signature.

var javaBuiltins = set(
	"println", "print", "printf", "format", "toString", "equals", "hashCode",
	"valueOf", "length", "size", "get", "put", "add", "remove", "contains",
	"isEmpty", "iterator", "stream", "forEach", "close", "append",
)

var javaKeywords = set(
	"abstract", "assert", "boolean", "break", "byte", "case", "catch", "char",
	"class", "const", "continue", "default", "do", "double", "else", "enum",
	"extends", "final", "finally", "float", "for", "if", "implements",
	"import", "instanceof", "int", "interface", "long", "native", "new",
	"package", "private", "protected", "public", "return", "short", "static",
	"strictfp", "super", "switch", "synchronized", "this", "throw", "throws",
	"transient", "try", "void", "volatile", "while", "record", "var",
)

type javaExtractor struct {
	*engine
}

func newJavaExtractor(base *extract.Base) *javaExtractor {
	e := &engine{
		base: base,
		symbolRules: map[string]symbolRule{
			"class_declaration":           {kind: extract.KindClass, nameField: "name"},
			"interface_declaration":       {kind: extract.KindInterface, nameField: "name"},
			"enum_declaration":            {kind: extract.KindEnum, nameField: "name"},
			"enum_constant":               {kind: extract.KindEnumMember, nameField: "name", skipDoc: true},
			"record_declaration":          {kind: extract.KindClass, nameField: "name"},
			"annotation_type_declaration": {kind: extract.KindInterface, nameField: "name"},
			"constructor_declaration":     {kind: extract.KindConstructor, nameField: "name"},
		},
		callRules: map[string]calleeFunc{
			"method_invocation":          calleeFromField("name"),
			"object_creation_expression": typeFieldCallee,
		},
		memberRules: map[string]string{
			"field_access": "field",
		},
		builtins:    javaBuiltins,
		keywords:    javaKeywords,
		deferCalls:  true,
		recoverErrs: true,
	}
	j := &javaExtractor{engine: e}
	e.symbolHook = j.symbols
	e.relHook = j.relationships
	return j
}

func (j *javaExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := j.base
	switch node.Kind() {
	case "method_declaration":
		name := b.FieldText(node, "name")
		if name == "" {
			return nil, true
		}
		var meta map[string]any
		if ret := b.FieldText(node, "type"); ret != "" && ret != "void" {
			meta = map[string]any{"return_type": ret}
		}
		sym := b.NewSymbol(node, name, extract.KindMethod, extract.SymbolOpts{
			Signature: extract.FirstLine(b.NodeText(node)),
			ParentID:  parentID,
			Metadata:  meta,
		})
		return []extract.Symbol{sym}, true

	case "field_declaration":
		decl := extract.FindChildByKind(node, "variable_declarator")
		if decl == nil {
			return nil, true
		}
		name := b.FieldText(decl, "name")
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindField, extract.SymbolOpts{
			Signature: extract.FirstLine(b.NodeText(node)),
			ParentID:  parentID,
		})
		return []extract.Symbol{sym}, true

	case "import_declaration":
		path := b.NodeText(extract.FindChildByKind(node, "scoped_identifier"))
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

	case "package_declaration":
		name := b.NodeText(extract.FindChildByKind(node, "scoped_identifier"))
		if name == "" {
			name = b.NodeText(extract.FindChildByKind(node, "identifier"))
		}
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindNamespace, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			Visibility:     extract.VisibilityPublic,
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true
	}
	return nil, false
}

// relationships maps superclass and interface clauses onto edges when the
// named type is declared in the same file.
func (j *javaExtractor) relationships(node *sitter.Node, symbols []extract.Symbol, table *extract.SymbolTable) []extract.Relationship {
	switch node.Kind() {
	case "class_declaration", "interface_declaration":
	default:
		return nil
	}
	b := j.base
	from, ok := table.Lookup(b.FieldText(node, "name"))
	if !ok {
		return nil
	}

	var out []extract.Relationship
	link := func(typeName string, kind extract.RelationshipKind) {
		if typeName == "" {
			return
		}
		if target, found := table.Lookup(typeName); found && target.ID != from.ID {
			out = append(out, b.NewRelationship(from.ID, target.ID, kind, node, 0.9, nil))
		}
	}

	if super := node.ChildByFieldName("superclass"); super != nil {
		link(bareTypeName(b.NodeText(super), "extends"), extract.RelExtends)
	}
	if ifaces := node.ChildByFieldName("interfaces"); ifaces != nil {
		for _, name := range strings.Split(bareTypeName(b.NodeText(ifaces), "implements", "extends"), ",") {
			link(strings.TrimSpace(name), extract.RelImplements)
		}
	}
	return out
}

func (j *javaExtractor) InferTypes(symbols []extract.Symbol) map[string]string {
	return extract.TypesFromSignatures(symbols, func(s *extract.Symbol) string {
		if ret, ok := s.Metadata["return_type"].(string); ok {
			return ret
		}
		return ""
	})
}

// typeFieldCallee names a constructor call after its type, with generics
// stripped.
func typeFieldCallee(b *extract.Base, node *sitter.Node) (string, bool) {
	name := b.FieldText(node, "type")
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name, name != ""
}

// bareTypeName strips clause keywords and generic arguments from a heritage
// clause text.
func bareTypeName(text string, keywords ...string) string {
	for _, kw := range keywords {
		text = strings.ReplaceAll(text, kw, "")
	}
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '<'); i >= 0 {
		text = text[:i]
	}
	return text
}
