package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// calleeFunc derives the name a call-shaped node targets, or ok=false when the
// callee is a computed expression that has no stable name.
type calleeFunc func(b *extract.Base, node *sitter.Node) (string, bool)

// symbolRule maps one node kind to a symbol production.
type symbolRule struct {
	kind      extract.SymbolKind
	nameField string   // grammar field carrying the name
	nameKinds []string // fallback child kinds when the grammar has no name field
	skipDoc   bool
	noSig     bool
}

// engine is the table-driven core behind the per-language extractors. A
// language file constructs one with its node-kind tables and, where tables
// cannot express a shape, hook functions. Tables keep the traversal logic in
// one place; the kernel keeps identity, scoping and the call partition in one
// place.
type engine struct {
	base *extract.Base

	symbolRules map[string]symbolRule
	callRules   map[string]calleeFunc
	memberRules map[string]string   // node kind -> field holding the member name
	refKinds    map[string]struct{} // node kinds whose own text is a variable reference

	builtins map[string]struct{} // deny-listed callee names, emit nothing
	keywords map[string]struct{} // rejected during error-subtree recovery

	arrow       string // return-type marker ("->"); empty disables arrow inference
	suffixTypes bool   // ": Type" suffix inference
	deferCalls  bool   // queue unresolved callees for workspace resolution
	recoverErrs bool   // salvage declarations from ERROR subtrees

	symbolHook func(node *sitter.Node, parentID string) ([]extract.Symbol, bool)
	relHook    func(node *sitter.Node, symbols []extract.Symbol, table *extract.SymbolTable) []extract.Relationship
}

func (e *engine) ExtractSymbols(root *sitter.Node) []extract.Symbol {
	return e.base.WalkSymbols(root, "", func(node *sitter.Node, parentID string) ([]extract.Symbol, error) {
		if e.symbolHook != nil {
			if syms, handled := e.symbolHook(node, parentID); handled {
				return syms, nil
			}
		}
		if rule, ok := e.symbolRules[node.Kind()]; ok {
			if sym, ok := e.symbolFromRule(node, parentID, rule); ok {
				return []extract.Symbol{sym}, nil
			}
			return nil, nil
		}
		if e.recoverErrs && node.Kind() == "ERROR" {
			return e.recoverSymbols(node, parentID), nil
		}
		return nil, nil
	})
}

func (e *engine) symbolFromRule(node *sitter.Node, parentID string, rule symbolRule) (extract.Symbol, bool) {
	name := e.ruleName(node, rule)
	if name == "" {
		return extract.Symbol{}, false
	}
	opts := extract.SymbolOpts{ParentID: parentID, SkipDocComment: rule.skipDoc}
	if !rule.noSig {
		opts.Signature = extract.FirstLine(e.base.NodeText(node))
	}
	return e.base.NewSymbol(node, name, rule.kind, opts), true
}

func (e *engine) ruleName(node *sitter.Node, rule symbolRule) string {
	if rule.nameField != "" {
		if name := e.base.FieldText(node, rule.nameField); name != "" {
			return name
		}
	}
	for _, kind := range rule.nameKinds {
		if child := extract.FindChildByKind(node, kind); child != nil {
			return e.base.NodeText(child)
		}
	}
	return ""
}

// recoverSymbols salvages plausible declarations out of an ERROR subtree.
// Recovered symbols carry reduced confidence and never outrank structural
// extraction of the same name. When a declaration directly precedes the error
// subtree, the salvaged names attach to it: a misparse usually swallows the
// tail of the declaration it follows.
func (e *engine) recoverSymbols(errNode *sitter.Node, parentID string) []extract.Symbol {
	anchorParent := parentID
	if anchor := extract.RecoverAnchor(errNode, e.declares); anchor != nil {
		if syms := e.symbolsAt(anchor, parentID); len(syms) > 0 {
			anchorParent = syms[0].ID
		}
	}

	var out []extract.Symbol
	for _, rec := range e.base.RecoverNames(errNode, e.keywords) {
		kind := extract.KindFunction
		if !rec.CallLike {
			kind = extract.KindClass
		}
		sym := e.base.NewSymbol(rec.Node, rec.Name, kind, extract.SymbolOpts{
			ParentID:       anchorParent,
			SkipDocComment: true,
			Metadata:       map[string]any{"recovered": true},
		})
		sym.Confidence = 0.5
		out = append(out, sym)
	}
	return out
}

// declares reports whether a node produces a symbol under the language's hook
// or tables.
func (e *engine) declares(node *sitter.Node) bool {
	return len(e.symbolsAt(node, "")) > 0
}

// symbolsAt runs the symbol production for a single node without recursing
// into its children. The ids are position-derived, so regenerating a symbol
// here matches the one the traversal already emitted for the same node.
func (e *engine) symbolsAt(node *sitter.Node, parentID string) []extract.Symbol {
	if e.symbolHook != nil {
		if syms, handled := e.symbolHook(node, parentID); handled {
			return syms
		}
	}
	if rule, ok := e.symbolRules[node.Kind()]; ok {
		if sym, ok := e.symbolFromRule(node, parentID, rule); ok {
			return []extract.Symbol{sym}
		}
	}
	return nil
}

func (e *engine) ExtractRelationships(root *sitter.Node, symbols []extract.Symbol) []extract.Relationship {
	table := extract.NewSymbolTable(symbols)
	var out []extract.Relationship

	e.base.Walk(root, func(node *sitter.Node) error {
		if e.relHook != nil {
			out = append(out, e.relHook(node, symbols, table)...)
		}
		calleeOf, ok := e.callRules[node.Kind()]
		if !ok {
			return nil
		}
		callee, ok := calleeOf(e.base, node)
		if !ok {
			return nil
		}
		callerID := extract.CallerID(symbols, node)
		if callerID == "" {
			return nil
		}
		if e.deferCalls {
			if rel := e.base.ClassifyCall(node, callerID, callee, table, e.builtins); rel != nil {
				out = append(out, *rel)
			}
			return nil
		}
		// Without cross-file deferral, only same-file targets produce edges.
		if target, found := table.Lookup(callee); found && target.ID != callerID {
			out = append(out, e.base.NewRelationship(callerID, target.ID, extract.RelCalls, node, 0.9, nil))
		}
		return nil
	})
	return out
}

func (e *engine) ExtractIdentifiers(root *sitter.Node, symbols []extract.Symbol) []extract.Identifier {
	var out []extract.Identifier
	e.base.Walk(root, func(node *sitter.Node) error {
		kind := node.Kind()
		if calleeOf, ok := e.callRules[kind]; ok {
			if name, ok := calleeOf(e.base, node); ok && name != "" {
				out = append(out, e.base.NewIdentifier(node, name, extract.IdentCall, symbols))
			}
			return nil
		}
		if field, ok := e.memberRules[kind]; ok {
			if e.isCallCallee(node) {
				// Already counted as the call above; don't double-record the
				// member shape inside the callee position.
				return nil
			}
			// Navigation suffixes keep their leading dot, PHP members their
			// sigil; neither belongs in the recorded name.
			if name := strings.TrimLeft(e.base.FieldText(node, field), ".$"); name != "" {
				out = append(out, e.base.NewIdentifier(node, name, extract.IdentMemberAccess, symbols))
			}
			return nil
		}
		if _, ok := e.refKinds[kind]; ok {
			name := strings.Trim(strings.TrimPrefix(e.base.NodeText(node), "$"), "{}")
			if name != "" {
				out = append(out, e.base.NewIdentifier(node, name, extract.IdentVariableRef, symbols))
			}
		}
		return nil
	})
	return out
}

// isCallCallee reports whether node sits in the callee position of an
// enclosing call node.
func (e *engine) isCallCallee(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return false
	}
	if _, isCall := e.callRules[parent.Kind()]; !isCall {
		return false
	}
	for _, field := range []string{"function", "callee"} {
		if fn := parent.ChildByFieldName(field); fn != nil &&
			fn.StartByte() == node.StartByte() && fn.EndByte() == node.EndByte() {
			return true
		}
	}
	return false
}

func (e *engine) InferTypes(symbols []extract.Symbol) map[string]string {
	if e.arrow == "" && !e.suffixTypes {
		return map[string]string{}
	}
	return extract.TypesFromSignatures(symbols, func(s *extract.Symbol) string {
		switch s.Kind {
		case extract.KindFunction, extract.KindMethod, extract.KindConstructor:
			if e.arrow != "" {
				if t := extract.ReturnTypeFromSignature(s.Signature, e.arrow); t != "" {
					return t
				}
			}
			if e.suffixTypes {
				return extract.SuffixTypeFromSignature(s.Signature)
			}
		case extract.KindVariable, extract.KindConstant, extract.KindProperty, extract.KindField:
			if e.suffixTypes {
				return extract.SuffixTypeFromSignature(s.Signature)
			}
		}
		return ""
	})
}

func (e *engine) PendingRelationships() []extract.PendingRelationship {
	return e.base.PendingRelationships()
}

// calleeFromField builds a calleeFunc that reads the call target out of a
// grammar field and names it via calleeName.
func calleeFromField(field string) calleeFunc {
	return func(b *extract.Base, node *sitter.Node) (string, bool) {
		return calleeName(b, node.ChildByFieldName(field))
	}
}

// calleeName turns a callee node into a lookup name: bare identifiers are used
// as-is, member shapes contribute their rightmost component, computed callees
// are skipped.
func calleeName(b *extract.Base, fn *sitter.Node) (string, bool) {
	if fn == nil {
		return "", false
	}
	kind := fn.Kind()
	if strings.HasSuffix(kind, "identifier") || kind == "name" || kind == "word" ||
		kind == "constant" || kind == "variable_name" || kind == "command_name" {
		text := b.NodeText(fn)
		return text, text != ""
	}
	for _, field := range []string{"property", "field", "attribute", "name", "member"} {
		if name := b.FieldText(fn, field); name != "" {
			return name, true
		}
	}
	return "", false
}

// set builds a string set from its arguments, the table literal helper used
// throughout the language files.
func set(names ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}
