package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// Kotlin extraction. Interfaces and enum classes share the class declaration
// kind and are told apart by keyword; object declarations count as classes.

var kotlinBuiltins = set(
	"println", "print", "listOf", "mutableListOf", "mapOf", "mutableMapOf",
	"setOf", "mutableSetOf", "arrayOf", "require", "check", "error", "TODO",
	"lazy", "let", "also", "apply", "run", "with", "takeIf", "takeUnless",
	"map", "filter", "forEach", "first", "firstOrNull", "toString", "toInt",
	"toList", "joinToString", "plus", "minus",
)

var kotlinKeywords = set(
	"abstract", "annotation", "as", "break", "by", "catch", "class",
	"companion", "const", "constructor", "continue", "crossinline", "data",
	"do", "else", "enum", "external", "final", "finally", "for", "fun", "if",
	"import", "in", "infix", "init", "inline", "inner", "interface",
	"internal", "is", "lateinit", "object", "open", "operator", "out",
	"override", "package", "private", "protected", "public", "return",
	"sealed", "super", "suspend", "this", "throw", "try", "typealias", "val",
	"var", "when", "while", "null", "true", "false",
)

type kotlinExtractor struct {
	*engine
	typeIDs map[string]struct{}
}

func newKotlinExtractor(base *extract.Base) *kotlinExtractor {
	e := &engine{
		base: base,
		symbolRules: map[string]symbolRule{
			"enum_entry":            {kind: extract.KindEnumMember, nameKinds: []string{"simple_identifier"}, skipDoc: true},
			"typealias":             {kind: extract.KindType, nameKinds: []string{"type_identifier"}},
			"secondary_constructor": {kind: extract.KindConstructor, nameKinds: []string{"constructor"}},
		},
		callRules: map[string]calleeFunc{
			"call_expression": firstChildCallee,
		},
		memberRules: map[string]string{
			"navigation_expression": "suffix",
		},
		builtins:    kotlinBuiltins,
		keywords:    kotlinKeywords,
		suffixTypes: true,
		deferCalls:  true,
		recoverErrs: true,
	}
	k := &kotlinExtractor{engine: e, typeIDs: map[string]struct{}{}}
	e.symbolHook = k.symbols
	return k
}

func (k *kotlinExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := k.base
	switch node.Kind() {
	case "class_declaration", "object_declaration":
		name := b.NodeText(extract.FindChildByKind(node, "type_identifier"))
		if name == "" {
			name = b.NodeText(extract.FindChildByKind(node, "simple_identifier"))
		}
		if name == "" {
			return nil, true
		}
		head := extract.FirstLine(b.NodeText(node))
		kind := extract.KindClass
		switch {
		case strings.Contains(head, "interface "):
			kind = extract.KindInterface
		case strings.Contains(head, "enum class"):
			kind = extract.KindEnum
		}
		sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
			Signature: head,
			ParentID:  parentID,
		})
		k.typeIDs[sym.ID] = struct{}{}
		return []extract.Symbol{sym}, true

	case "function_declaration":
		name := b.NodeText(extract.FindChildByKind(node, "simple_identifier"))
		if name == "" {
			return nil, true
		}
		kind := extract.KindFunction
		if _, inType := k.typeIDs[parentID]; inType {
			kind = extract.KindMethod
		}
		sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
			Signature: extract.FirstLine(b.NodeText(node)),
			ParentID:  parentID,
		})
		return []extract.Symbol{sym}, true

	case "property_declaration":
		decl := extract.FindChildByKind(node, "variable_declaration")
		if decl == nil {
			return nil, true
		}
		name := b.NodeText(extract.FindChildByKind(decl, "simple_identifier"))
		if name == "" {
			return nil, true
		}
		kind := extract.KindVariable
		if _, inType := k.typeIDs[parentID]; inType {
			kind = extract.KindProperty
		} else if strings.HasPrefix(extract.FirstLine(b.NodeText(node)), "val ") {
			kind = extract.KindConstant
		}
		sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			ParentID:       parentID,
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true

	case "import_header":
		path := strings.TrimSpace(strings.TrimPrefix(extract.FirstLine(b.NodeText(node)), "import"))
		path = strings.TrimSuffix(path, ".*")
		if path == "" {
			return nil, true
		}
		name := path
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
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
