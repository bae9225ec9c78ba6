package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// Zig extraction. Container types are declared through const bindings whose
// value is a struct/enum/union literal, @import bindings become Import
// symbols, and the return type sits between the parameter list and the body.

var zigBuiltins = set(
	"import", "This", "TypeOf", "typeInfo", "sizeOf", "alignOf", "intCast",
	"floatCast", "truncate", "enumFromInt", "intFromEnum", "field",
	"fieldParentPtr", "panic", "compileError", "compileLog", "memcpy",
	"memset", "min", "max", "as", "bitCast", "ptrCast", "alignCast",
	"errorName", "tagName", "hasDecl", "hasField", "embedFile",
)

var zigKeywords = set(
	"align", "allowzero", "and", "anyframe", "anytype", "asm", "async",
	"await", "break", "callconv", "catch", "comptime", "const", "continue",
	"defer", "else", "enum", "errdefer", "error", "export", "extern", "fn",
	"for", "if", "inline", "noalias", "nosuspend", "or", "orelse", "packed",
	"pub", "resume", "return", "linksection", "struct", "suspend", "switch",
	"test", "threadlocal", "try", "union", "unreachable", "usingnamespace",
	"var", "volatile", "while", "null", "undefined", "true", "false",
)

type zigExtractor struct {
	*engine
}

func newZigExtractor(base *extract.Base) *zigExtractor {
	e := &engine{
		base: base,
		callRules: map[string]calleeFunc{
			"call_expression": zigCallee,
		},
		memberRules: map[string]string{
			"field_expression": "field",
		},
		builtins:    zigBuiltins,
		keywords:    zigKeywords,
		deferCalls:  true,
		recoverErrs: true,
	}
	z := &zigExtractor{engine: e}
	e.symbolHook = z.symbols
	return z
}

func (z *zigExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := z.base
	switch node.Kind() {
	case "function_declaration":
		name := b.FieldText(node, "name")
		if name == "" {
			name = b.NodeText(extract.FindChildByKind(node, "identifier"))
		}
		if name == "" {
			return nil, true
		}
		head := extract.FirstLine(b.NodeText(node))
		vis := extract.VisibilityPrivate
		if strings.HasPrefix(head, "pub ") {
			vis = extract.VisibilityPublic
		}
		sym := b.NewSymbol(node, name, extract.KindFunction, extract.SymbolOpts{
			Signature:  head,
			Visibility: vis,
			ParentID:   parentID,
		})
		return []extract.Symbol{sym}, true

	case "variable_declaration":
		return z.binding(node, parentID), true

	case "test_declaration":
		head := extract.FirstLine(b.NodeText(node))
		name := strings.Trim(strings.TrimSpace(strings.TrimPrefix(head, "test")), "\" {")
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindFunction, extract.SymbolOpts{
			Signature: head,
			ParentID:  parentID,
			Metadata:  map[string]any{"test": true},
		})
		return []extract.Symbol{sym}, true
	}
	return nil, false
}

// binding classifies a const/var declaration: container literals declare
// types, @import declares an import binding, the rest are constants or
// variables.
func (z *zigExtractor) binding(node *sitter.Node, parentID string) []extract.Symbol {
	b := z.base
	name := b.NodeText(extract.FindChildByKind(node, "identifier"))
	if name == "" {
		return nil
	}
	head := extract.FirstLine(b.NodeText(node))
	text := b.NodeText(node)

	if i := strings.Index(text, "@import("); i >= 0 {
		module := text[i+len("@import("):]
		module = strings.Trim(strings.SplitN(module, ")", 2)[0], "\"")
		sym := b.NewSymbol(node, name, extract.KindImport, extract.SymbolOpts{
			Signature:      head,
			ParentID:       parentID,
			Metadata:       map[string]any{"module": module},
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}
	}

	kind := extract.KindVariable
	switch {
	case strings.Contains(text, "= struct"), strings.Contains(text, "= packed struct"),
		strings.Contains(text, "= extern struct"):
		kind = extract.KindStruct
	case strings.Contains(text, "= enum"):
		kind = extract.KindEnum
	case strings.Contains(text, "= union"):
		kind = extract.KindUnion
	case strings.HasPrefix(head, "const "), strings.HasPrefix(head, "pub const "):
		kind = extract.KindConstant
	}
	vis := extract.VisibilityPrivate
	if strings.HasPrefix(head, "pub ") {
		vis = extract.VisibilityPublic
	}
	sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
		Signature:  head,
		Visibility: vis,
		ParentID:   parentID,
	})
	return []extract.Symbol{sym}
}

func (z *zigExtractor) InferTypes(symbols []extract.Symbol) map[string]string {
	return extract.TypesFromSignatures(symbols, func(s *extract.Symbol) string {
		if s.Kind != extract.KindFunction {
			return ""
		}
		return zigReturnType(s.Signature)
	})
}

// zigReturnType parses "pub fn name(args) !ReturnType {" down to the type
// between the parameter list and the body.
func zigReturnType(sig string) string {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(sig), "{"))
	i := strings.IndexByte(s, '(')
	if i < 0 {
		return ""
	}
	ret := skipGroup(s[i:], '(', ')')
	ret = strings.TrimSpace(strings.TrimPrefix(ret, "callconv(.C)"))
	if ret == "" || ret == "void" {
		return ""
	}
	return ret
}

func zigCallee(b *extract.Base, node *sitter.Node) (string, bool) {
	if fn := node.ChildByFieldName("function"); fn != nil {
		return calleeName(b, fn)
	}
	return firstChildCallee(b, node)
}
