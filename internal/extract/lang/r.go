package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// R extraction. Assignment with a function literal on the right declares a
// function, library() calls become Import symbols, and the dotted base
// vocabulary (is.na, data.frame) is deny-listed so call resolution tracks
// only user code. Types are not inferred.

var rBuiltins = set(
	"c", "library", "require", "print", "cat", "paste", "paste0", "length",
	"names", "mean", "median", "sum", "min", "max", "sapply", "lapply",
	"vapply", "mapply", "apply", "data.frame", "is.na", "is.null",
	"is.numeric", "is.character", "unlist", "seq", "seq_len", "seq_along",
	"rep", "which", "sort", "unique", "rev", "head", "tail", "str",
	"summary", "nrow", "ncol", "dim", "matrix", "list", "vector",
	"as.numeric", "as.character", "as.factor", "factor", "levels", "stop",
	"warning", "message", "tryCatch", "return", "invisible", "do.call",
	"Reduce", "Filter", "Map", "readline", "source", "setwd", "getwd",
)

var rKeywords = set(
	"if", "else", "repeat", "while", "function", "for", "in", "next",
	"break", "TRUE", "FALSE", "NULL", "Inf", "NaN", "NA",
)

type rExtractor struct {
	*engine
}

func newRExtractor(base *extract.Base) *rExtractor {
	e := &engine{
		base: base,
		callRules: map[string]calleeFunc{
			"call": calleeFromField("function"),
		},
		builtins:    rBuiltins,
		keywords:    rKeywords,
		deferCalls:  true,
		recoverErrs: true,
	}
	r := &rExtractor{engine: e}
	e.symbolHook = r.symbols
	return r
}

func (r *rExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := r.base
	switch node.Kind() {
	case "binary_operator":
		op := b.FieldText(node, "operator")
		if op != "<-" && op != "<<-" && op != "=" {
			return nil, true
		}
		lhs := node.ChildByFieldName("lhs")
		if lhs == nil || lhs.Kind() != "identifier" {
			return nil, true
		}
		name := b.NodeText(lhs)
		kind := extract.KindVariable
		if rhs := node.ChildByFieldName("rhs"); rhs != nil && rhs.Kind() == "function_definition" {
			kind = extract.KindFunction
		}
		sym := b.NewSymbol(node, name, kind, extract.SymbolOpts{
			Signature: extract.FirstLine(b.NodeText(node)),
			ParentID:  parentID,
		})
		return []extract.Symbol{sym}, true

	case "call":
		fn := b.NodeText(node.ChildByFieldName("function"))
		if fn != "library" && fn != "require" {
			return nil, false
		}
		args := node.ChildByFieldName("arguments")
		if args == nil {
			return nil, true
		}
		name := strings.Trim(b.NodeText(args), "()'\" ")
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindImport, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			ParentID:       parentID,
			Metadata:       map[string]any{"module": name},
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true
	}
	return nil, false
}
