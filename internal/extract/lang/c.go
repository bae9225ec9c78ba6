package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// C extraction. Declarator chains are unwrapped to find the declared name,
// struct/union/enum specifiers only declare a symbol when they carry a body,
// and includes become Import symbols.

var cBuiltins = set(
	"printf", "fprintf", "sprintf", "snprintf", "scanf", "sscanf", "puts",
	"putchar", "getchar", "malloc", "calloc", "realloc", "free", "memcpy",
	"memset", "memmove", "memcmp", "strcpy", "strncpy", "strcmp", "strncmp",
	"strlen", "strcat", "strdup", "fopen", "fclose", "fread", "fwrite",
	"fseek", "ftell", "exit", "abort", "assert", "atoi", "atof", "qsort",
)

var cKeywords = set(
	"auto", "break", "case", "char", "const", "continue", "default", "do",
	"double", "else", "enum", "extern", "float", "for", "goto", "if",
	"inline", "int", "long", "register", "restrict", "return", "short",
	"signed", "sizeof", "static", "struct", "switch", "typedef", "union",
	"unsigned", "void", "volatile", "while", "NULL", "true", "false",
)

type cExtractor struct {
	*engine
}

func newCExtractor(base *extract.Base) *cExtractor {
	e := &engine{
		base: base,
		symbolRules: map[string]symbolRule{
			"enumerator":          {kind: extract.KindEnumMember, nameField: "name", skipDoc: true},
			"preproc_def":         {kind: extract.KindConstant, nameField: "name"},
			"preproc_function_def": {kind: extract.KindFunction, nameField: "name"},
		},
		callRules: map[string]calleeFunc{
			"call_expression": calleeFromField("function"),
		},
		memberRules: map[string]string{
			"field_expression": "field",
		},
		builtins:    cBuiltins,
		keywords:    cKeywords,
		deferCalls:  true,
		recoverErrs: true,
	}
	c := &cExtractor{engine: e}
	e.symbolHook = c.symbols
	return c
}

func (c *cExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := c.base
	switch node.Kind() {
	case "function_definition":
		name := declaratorName(b, node.ChildByFieldName("declarator"))
		if name == "" {
			return nil, true
		}
		var meta map[string]any
		if ret := b.FieldText(node, "type"); ret != "" && ret != "void" {
			meta = map[string]any{"return_type": ret}
		}
		sym := b.NewSymbol(node, name, extract.KindFunction, extract.SymbolOpts{
			Signature: extract.FirstLine(b.NodeText(node)),
			ParentID:  parentID,
			Metadata:  meta,
		})
		return []extract.Symbol{sym}, true

	case "struct_specifier", "union_specifier", "enum_specifier":
		// Only the defining occurrence declares a symbol, not every use of
		// the tag.
		if node.ChildByFieldName("body") == nil {
			return nil, true
		}
		name := b.FieldText(node, "name")
		if name == "" {
			return nil, true
		}
		kind := extract.KindStruct
		switch node.Kind() {
		case "union_specifier":
			kind = extract.KindUnion
		case "enum_specifier":
			kind = extract.KindEnum
		}
		sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
			Signature: extract.FirstLine(b.NodeText(node)),
			ParentID:  parentID,
		})
		return []extract.Symbol{sym}, true

	case "type_definition":
		name := declaratorName(b, node.ChildByFieldName("declarator"))
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindType, extract.SymbolOpts{
			Signature: extract.FirstLine(b.NodeText(node)),
			ParentID:  parentID,
		})
		return []extract.Symbol{sym}, true

	case "field_declaration":
		name := declaratorName(b, node.ChildByFieldName("declarator"))
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindField, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			ParentID:       parentID,
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true

	case "preproc_include":
		path := strings.Trim(b.FieldText(node, "path"), "<>\"")
		if path == "" {
			return nil, true
		}
		name := path
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			name = name[i+1:]
		}
		name = strings.TrimSuffix(name, ".h")
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

func (c *cExtractor) InferTypes(symbols []extract.Symbol) map[string]string {
	return extract.TypesFromSignatures(symbols, func(s *extract.Symbol) string {
		if ret, ok := s.Metadata["return_type"].(string); ok {
			return ret
		}
		return ""
	})
}

// declaratorName unwraps pointer, array and function declarators down to the
// declared identifier.
func declaratorName(b *extract.Base, decl *sitter.Node) string {
	for decl != nil {
		switch decl.Kind() {
		case "identifier", "field_identifier", "type_identifier":
			return b.NodeText(decl)
		case "pointer_declarator", "array_declarator", "function_declarator",
			"parenthesized_declarator", "init_declarator":
			if inner := decl.ChildByFieldName("declarator"); inner != nil {
				decl = inner
				continue
			}
			decl = decl.NamedChild(0)
		default:
			return ""
		}
	}
	return ""
}
