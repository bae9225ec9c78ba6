package extract

import sitter "github.com/tree-sitter/go-tree-sitter"

// callCompatible are the kinds a call expression can legally target; classes
// and structs count because constructor calls look like plain calls in many
// grammars.
var callCompatible = map[SymbolKind]struct{}{
	KindFunction:    {},
	KindMethod:      {},
	KindConstructor: {},
	KindClass:       {},
	KindStruct:      {},
	KindDelegate:    {},
}

// CallCompatible reports whether a call expression can legally target a
// symbol of the given kind.
func CallCompatible(kind SymbolKind) bool {
	_, ok := callCompatible[kind]
	return ok
}

// SymbolTable is a name-keyed view over one file's symbols. When a name is
// declared more than once, callable kinds win over data kinds so that
// name-keyed call resolution prefers the function (the function-over-field
// rule).
type SymbolTable struct {
	byName map[string]*Symbol
}

// NewSymbolTable indexes a file-scoped symbol slice by name.
func NewSymbolTable(symbols []Symbol) *SymbolTable {
	t := &SymbolTable{byName: make(map[string]*Symbol, len(symbols))}
	for i := range symbols {
		sym := &symbols[i]
		existing, ok := t.byName[sym.Name]
		if !ok {
			t.byName[sym.Name] = sym
			continue
		}
		_, existingCallable := callCompatible[existing.Kind]
		_, newCallable := callCompatible[sym.Kind]
		if newCallable && !existingCallable {
			t.byName[sym.Name] = sym
		}
	}
	return t
}

// Lookup returns the symbol registered for a name, preferring callables.
func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	s, ok := t.byName[name]
	return s, ok
}

// ClassifyCall applies the call partition rule shared by every extractor. A
// call site maps to exactly one of: a resolved Calls relationship (callee
// declared in this file and call-compatible), nothing (deny-listed builtin),
// or a queued PendingRelationship for workspace-level resolution. A callee
// resolving to an Import symbol also defers, since the real target lives in
// another file.
func (b *Base) ClassifyCall(node *sitter.Node, callerID, calleeName string, table *SymbolTable, builtins map[string]struct{}) *Relationship {
	if calleeName == "" || callerID == "" {
		return nil
	}
	line := uint32(node.StartPosition().Row) + 1

	if target, ok := table.Lookup(calleeName); ok {
		if target.Kind == KindImport {
			b.AddPending(PendingRelationship{
				FromSymbolID: callerID,
				CalleeName:   calleeName,
				Kind:         RelCalls,
				FilePath:     b.FilePath,
				LineNumber:   line,
				Confidence:   0.8,
			})
			return nil
		}
		if _, ok := callCompatible[target.Kind]; ok {
			rel := b.NewRelationship(callerID, target.ID, RelCalls, node, 0.9, nil)
			return &rel
		}
		// Declared here but not callable: fall through to deferred lookup,
		// the real callee may shadow this name in another file.
	}

	if builtins != nil {
		if _, ok := builtins[calleeName]; ok {
			return nil
		}
	}

	b.AddPending(PendingRelationship{
		FromSymbolID: callerID,
		CalleeName:   calleeName,
		Kind:         RelCalls,
		FilePath:     b.FilePath,
		LineNumber:   line,
		Confidence:   0.7,
	})
	return nil
}

// CallerID resolves the symbol id that should own a call site: the innermost
// executable (or otherwise ranked) symbol containing the node's position.
func CallerID(symbols []Symbol, node *sitter.Node) string {
	pos := node.StartPosition()
	containing := FindContainingSymbol(symbols, uint32(pos.Row)+1, uint32(pos.Column))
	if containing == nil {
		return ""
	}
	return containing.ID
}
