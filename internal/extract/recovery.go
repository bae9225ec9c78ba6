package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Error-node recovery: when a grammar misparses valid syntax into an ERROR
// subtree, extractors can salvage likely declarations and call sites from it.
// Everything here is best effort and must never outrank structural
// extraction; recovered symbols carry reduced confidence.

// RecoveredName is a plausible identifier salvaged from an error subtree.
type RecoveredName struct {
	Node *sitter.Node
	Name string
	// CallLike is true for call-shaped matches, false for constructor or
	// type-shaped matches.
	CallLike bool
}

// noise kinds excluded while pattern-matching inside an error subtree.
var recoveryNoiseKinds = map[string]struct{}{
	"string":                     {},
	"string_literal":             {},
	"interpreted_string_literal": {},
	"raw_string_literal":         {},
	"parenthesized_expression":   {},
	"argument_list":              {},
	"arguments":                  {},
	"comment":                    {},
}

// RecoverAnchor walks backward through the named siblings preceding an error
// node and returns the nearest declaration, skipping intervening error,
// comment and statement siblings. The walk stops at the first sibling that is
// neither skippable nor a declaration: past that point the error subtree no
// longer belongs to a preceding scope. isDecl reports whether a node declares
// a symbol in the current language.
func RecoverAnchor(errNode *sitter.Node, isDecl func(*sitter.Node) bool) *sitter.Node {
	for prev := errNode.PrevNamedSibling(); prev != nil; prev = prev.PrevNamedSibling() {
		if isDecl(prev) {
			return prev
		}
		kind := prev.Kind()
		if kind == "ERROR" || kind == "comment" || strings.HasSuffix(kind, "statement") {
			continue
		}
		return nil
	}
	return nil
}

// RecoverNames scans an error subtree for a small set of known sub-shapes: a
// call-like expression containing a bare name, or a constructor-like
// expression containing a type name. Noise shapes (strings, parenthesized
// wrappers, argument lists) are skipped, and implausible names (leading
// underscores, single characters, language keywords) are rejected via the
// caller-supplied keyword set.
func (b *Base) RecoverNames(errNode *sitter.Node, keywords map[string]struct{}) []RecoveredName {
	var out []RecoveredName
	seen := make(map[string]struct{})

	var scan func(n *sitter.Node)
	scan = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if _, noisy := recoveryNoiseKinds[n.Kind()]; noisy {
			return
		}
		switch {
		case strings.Contains(n.Kind(), "call"):
			if name := b.bareCalleeName(n); b.PlausibleName(name, keywords) {
				if _, dup := seen[name]; !dup {
					seen[name] = struct{}{}
					out = append(out, RecoveredName{Node: n, Name: name, CallLike: true})
				}
			}
		case strings.Contains(n.Kind(), "new") || n.Kind() == "object_creation_expression":
			if name := b.FieldText(n, "type"); b.PlausibleName(name, keywords) {
				if _, dup := seen[name]; !dup {
					seen[name] = struct{}{}
					out = append(out, RecoveredName{Node: n, Name: name, CallLike: false})
				}
			}
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			scan(n.Child(i))
		}
	}
	scan(errNode)
	return out
}

// bareCalleeName extracts the identifier a call-like node targets, if it is a
// bare name rather than a computed expression.
func (b *Base) bareCalleeName(call *sitter.Node) string {
	if fn := call.ChildByFieldName("function"); fn != nil {
		if fn.Kind() == "identifier" {
			return b.NodeText(fn)
		}
		return ""
	}
	if first := call.Child(0); first != nil && first.Kind() == "identifier" {
		return b.NodeText(first)
	}
	return ""
}

// PlausibleName filters recovery candidates: no leading-underscore private
// markers, no single characters, no keywords or builtin type names.
func (b *Base) PlausibleName(name string, keywords map[string]struct{}) bool {
	if len(name) < 2 || strings.HasPrefix(name, "_") {
		return false
	}
	if keywords != nil {
		if _, ok := keywords[name]; ok {
			return false
		}
	}
	return true
}
