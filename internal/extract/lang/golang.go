package lang

import (
	"strings"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// Go extraction. Visibility is case-based rather than keyword-based, methods
// carry their receiver type in metadata and produce a uses edge to the
// receiver's declaration when it lives in the same file.

var goBuiltins = set(
	"append", "cap", "clear", "close", "complex", "copy", "delete", "imag",
	"len", "make", "max", "min", "new", "panic", "print", "println", "real",
	"recover",
)

var goKeywords = set(
	"break", "case", "chan", "const", "continue", "default", "defer", "else",
	"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
	"map", "package", "range", "return", "select", "struct", "switch", "type",
	"var", "nil", "true", "false", "error", "string", "int", "bool",
)

type goExtractor struct {
	*engine
}

func newGoExtractor(base *extract.Base) *goExtractor {
	e := &engine{
		base: base,
		callRules: map[string]calleeFunc{
			"call_expression": calleeFromField("function"),
		},
		memberRules: map[string]string{
			"selector_expression": "field",
		},
		builtins:    goBuiltins,
		keywords:    goKeywords,
		deferCalls:  true,
		recoverErrs: true,
	}
	g := &goExtractor{engine: e}
	e.symbolHook = g.symbols
	e.relHook = g.relationships
	return g
}

func (g *goExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := g.base
	switch node.Kind() {
	case "package_clause":
		name := b.NodeText(extract.FindChildByKind(node, "package_identifier"))
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindNamespace, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			Visibility:     extract.VisibilityPublic,
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true

	case "import_spec":
		path := strings.Trim(b.FieldText(node, "path"), "`\"")
		name := b.FieldText(node, "name")
		if name == "" || name == "_" || name == "." {
			name = path
			if i := strings.LastIndexByte(path, '/'); i >= 0 {
				name = path[i+1:]
			}
		}
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindImport, extract.SymbolOpts{
			Signature:      b.NodeText(node),
			ParentID:       parentID,
			Metadata:       map[string]any{"module": path},
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true

	case "function_declaration":
		return g.named(node, parentID, extract.KindFunction, nil), true

	case "method_declaration":
		var meta map[string]any
		if recv := goReceiverType(b.FieldText(node, "receiver")); recv != "" {
			meta = map[string]any{"receiver": recv}
		}
		return g.named(node, parentID, extract.KindMethod, meta), true

	case "type_spec", "type_alias":
		kind := extract.KindType
		if typ := node.ChildByFieldName("type"); typ != nil {
			switch typ.Kind() {
			case "struct_type":
				kind = extract.KindStruct
			case "interface_type":
				kind = extract.KindInterface
			}
		}
		return g.named(node, parentID, kind, nil), true

	case "const_spec":
		return g.named(node, parentID, extract.KindConstant, nil), true

	case "var_spec":
		return g.named(node, parentID, extract.KindVariable, nil), true

	case "field_declaration":
		return g.named(node, parentID, extract.KindField, nil), true
	}
	return nil, false
}

// named builds the common declaration shape: name field, first-line signature,
// case-based visibility.
func (g *goExtractor) named(node *sitter.Node, parentID string, kind extract.SymbolKind, meta map[string]any) []extract.Symbol {
	b := g.base
	name := b.FieldText(node, "name")
	if name == "" {
		return nil
	}
	sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
		Signature:  extract.FirstLine(b.NodeText(node)),
		Visibility: goVisibility(name),
		ParentID:   parentID,
		Metadata:   meta,
	})
	return []extract.Symbol{sym}
}

// relationships adds the method-to-receiver uses edge on top of the shared
// call classification.
func (g *goExtractor) relationships(node *sitter.Node, symbols []extract.Symbol, table *extract.SymbolTable) []extract.Relationship {
	if node.Kind() != "method_declaration" {
		return nil
	}
	b := g.base
	methodName := b.FieldText(node, "name")
	recvType := goReceiverType(b.FieldText(node, "receiver"))
	if methodName == "" || recvType == "" {
		return nil
	}
	method, ok := table.Lookup(methodName)
	if !ok {
		return nil
	}
	recv, ok := table.Lookup(recvType)
	if !ok || recv.ID == method.ID {
		return nil
	}
	return []extract.Relationship{
		b.NewRelationship(method.ID, recv.ID, extract.RelUses, node, 0.9, nil),
	}
}

func (g *goExtractor) InferTypes(symbols []extract.Symbol) map[string]string {
	return extract.TypesFromSignatures(symbols, func(s *extract.Symbol) string {
		switch s.Kind {
		case extract.KindFunction, extract.KindMethod:
			return goReturnType(s.Signature)
		}
		return ""
	})
}

func goVisibility(name string) extract.Visibility {
	for _, r := range name {
		if unicode.IsUpper(r) {
			return extract.VisibilityPublic
		}
		return extract.VisibilityPrivate
	}
	return extract.VisibilityPrivate
}

// goReceiverType pulls the bare type name out of a receiver clause like
// "(s *Server)".
func goReceiverType(receiver string) string {
	r := strings.Trim(receiver, "()")
	fields := strings.Fields(r)
	if len(fields) == 0 {
		return ""
	}
	t := fields[len(fields)-1]
	t = strings.TrimLeft(t, "*")
	if i := strings.IndexByte(t, '['); i >= 0 {
		t = t[:i]
	}
	return t
}

// goReturnType parses the result clause from a signature first line like
// "func (s *Server) run(ctx context.Context) error {".
func goReturnType(sig string) string {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(sig), "{"))
	if !strings.HasPrefix(s, "func") {
		return ""
	}
	rest := strings.TrimSpace(strings.TrimPrefix(s, "func"))
	if strings.HasPrefix(rest, "(") {
		rest = skipGroup(rest, '(', ')')
	}
	i := strings.IndexByte(rest, '(')
	if i < 0 {
		return ""
	}
	return skipGroup(rest[i:], '(', ')')
}

// skipGroup drops a balanced open..close group from the front of s and
// returns the trimmed remainder.
func skipGroup(s string, open, close byte) string {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return strings.TrimSpace(s[i+1:])
			}
		}
	}
	return ""
}
