package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// SQL extraction. DDL statements declare the symbols, views get uses edges to
// the tables they select from, and function invocations only resolve against
// same-file definitions since SQL names have no workspace-level resolution.

var sqlBuiltins = set(
	"count", "sum", "avg", "min", "max", "coalesce", "nullif", "cast",
	"concat", "substring", "upper", "lower", "trim", "length", "round",
	"abs", "now", "current_timestamp", "current_date", "date_trunc",
	"extract", "row_number", "rank", "dense_rank", "lag", "lead", "exists",
	"COUNT", "SUM", "AVG", "MIN", "MAX", "COALESCE", "NULLIF", "CAST",
)

type sqlExtractor struct {
	*engine
}

func newSQLExtractor(base *extract.Base) *sqlExtractor {
	e := &engine{
		base: base,
		callRules: map[string]calleeFunc{
			"invocation": sqlInvocationCallee,
		},
		builtins: sqlBuiltins,
		// Unresolved SQL names never defer: there is no cross-file
		// resolution for table or function names.
		deferCalls:  false,
		recoverErrs: true,
		keywords:    set("select", "from", "where", "insert", "update", "delete", "table", "values"),
	}
	s := &sqlExtractor{engine: e}
	e.symbolHook = s.symbols
	e.relHook = s.relationships
	return s
}

func (s *sqlExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := s.base
	var kind extract.SymbolKind
	var objectType string
	switch node.Kind() {
	case "create_table":
		kind, objectType = extract.KindClass, "table"
	case "create_view":
		kind, objectType = extract.KindClass, "view"
	case "create_function", "create_procedure":
		kind, objectType = extract.KindFunction, "function"
	case "create_index":
		kind, objectType = extract.KindProperty, "index"
	case "create_schema":
		kind, objectType = extract.KindNamespace, "schema"
	case "column_definition":
		name := sqlObjectName(b, node)
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindField, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			ParentID:       parentID,
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true
	default:
		return nil, false
	}

	name := sqlObjectName(b, node)
	if name == "" {
		return nil, true
	}
	sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
		Signature: extract.FirstLine(b.NodeText(node)),
		ParentID:  parentID,
		Metadata:  map[string]any{"object_type": objectType},
	})
	return []extract.Symbol{sym}, true
}

// relationships links a view to every same-file table its body references.
func (s *sqlExtractor) relationships(node *sitter.Node, symbols []extract.Symbol, table *extract.SymbolTable) []extract.Relationship {
	if node.Kind() != "create_view" {
		return nil
	}
	b := s.base
	view, ok := table.Lookup(sqlObjectName(b, node))
	if !ok {
		return nil
	}
	seen := map[string]struct{}{}
	var out []extract.Relationship
	b.Walk(node, func(n *sitter.Node) error {
		if n.Kind() != "object_reference" {
			return nil
		}
		name := sqlBareName(b.NodeText(n))
		if name == "" || name == view.Name {
			return nil
		}
		if _, dup := seen[name]; dup {
			return nil
		}
		if target, found := table.Lookup(name); found && target.ID != view.ID {
			seen[name] = struct{}{}
			out = append(out, b.NewRelationship(view.ID, target.ID, extract.RelUses, n, 0.9, nil))
		}
		return nil
	})
	return out
}

func sqlObjectName(b *extract.Base, node *sitter.Node) string {
	if ref := extract.FindChildByKind(node, "object_reference"); ref != nil {
		return sqlBareName(b.NodeText(ref))
	}
	if name := b.FieldText(node, "name"); name != "" {
		return sqlBareName(name)
	}
	if id := extract.FindChildByKind(node, "identifier"); id != nil {
		return sqlBareName(b.NodeText(id))
	}
	return ""
}

func sqlBareName(name string) string {
	name = strings.Trim(name, "`\"[]")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func sqlInvocationCallee(b *extract.Base, node *sitter.Node) (string, bool) {
	name := sqlObjectName(b, node)
	return name, name != ""
}
