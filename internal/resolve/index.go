// Package resolve is the cross-file resolution boundary: it promotes pending
// relationships against a workspace-wide name index once every file has been
// extracted, and exports the resolved call graph.
package resolve

import "github.com/mvp-joe/codegraph/internal/extract"

// Index is a name-keyed view over every symbol in the workspace.
type Index struct {
	byName map[string][]extract.Symbol
}

// NewIndex builds the workspace index. Import symbols are bindings, not
// declarations, so they never become promotion targets.
func NewIndex(symbols []extract.Symbol) *Index {
	idx := &Index{byName: make(map[string][]extract.Symbol)}
	for _, sym := range symbols {
		if sym.Kind == extract.KindImport {
			continue
		}
		idx.byName[sym.Name] = append(idx.byName[sym.Name], sym)
	}
	return idx
}

// Candidates returns the declarations registered under a name. For call
// edges, candidates are narrowed to call-compatible kinds; the narrowing is
// skipped when it would empty a non-empty candidate set for another edge
// kind.
func (idx *Index) Candidates(name string, kind extract.RelationshipKind) []extract.Symbol {
	all := idx.byName[name]
	if kind != extract.RelCalls {
		return all
	}
	var callable []extract.Symbol
	for _, sym := range all {
		if extract.CallCompatible(sym.Kind) {
			callable = append(callable, sym)
		}
	}
	return callable
}
