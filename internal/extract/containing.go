package extract

import "sort"

// Containing-scope lookup ranks enclosing symbols with a fixed priority
// table: executable scopes first, then type scopes, then namespaces, then a
// default bucket, with pure data symbols last. Kinds not listed fall into the
// default bucket.
const (
	priorityExecutable = 0
	priorityTypeScope  = 1
	priorityNamespace  = 2
	priorityDefault    = 3
	priorityData       = 4
)

var containmentPriority = map[SymbolKind]int{
	KindFunction:    priorityExecutable,
	KindMethod:      priorityExecutable,
	KindConstructor: priorityExecutable,
	KindDestructor:  priorityExecutable,

	KindClass:     priorityTypeScope,
	KindInterface: priorityTypeScope,
	KindStruct:    priorityTypeScope,
	KindTrait:     priorityTypeScope,
	KindEnum:      priorityTypeScope,
	KindUnion:     priorityTypeScope,

	KindNamespace: priorityNamespace,
	KindModule:    priorityNamespace,

	KindVariable: priorityData,
	KindConstant: priorityData,
	KindProperty: priorityData,
	KindField:    priorityData,
}

func kindPriority(kind SymbolKind) int {
	if p, ok := containmentPriority[kind]; ok {
		return p
	}
	return priorityDefault
}

// FindContainingSymbol selects the innermost symbol whose span contains the
// position (1-based line, 0-based column). Candidates are ranked by the
// priority table, then by smaller span (line span weighted over column span).
// Returns nil when no symbol contains the position.
func FindContainingSymbol(symbols []Symbol, line, column uint32) *Symbol {
	var candidates []*Symbol
	for i := range symbols {
		if symbolContains(&symbols[i], line, column) {
			candidates = append(candidates, &symbols[i])
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := kindPriority(candidates[i].Kind), kindPriority(candidates[j].Kind)
		if pi != pj {
			return pi < pj
		}
		return spanSize(candidates[i]) < spanSize(candidates[j])
	})
	return candidates[0]
}

// symbolContains reports whether the position lies within the symbol span.
// Single-line spans and the first/last lines of multi-line spans are
// column-constrained; interior lines always contain.
func symbolContains(s *Symbol, line, column uint32) bool {
	if line < s.StartLine || line > s.EndLine {
		return false
	}
	if s.StartLine == s.EndLine {
		return column >= s.StartColumn && column <= s.EndColumn
	}
	switch line {
	case s.StartLine:
		return column >= s.StartColumn
	case s.EndLine:
		return column <= s.EndColumn
	default:
		return true
	}
}

// spanSize weights line extent over column extent so a tight single-line
// symbol beats a wide multi-line one at equal priority.
func spanSize(s *Symbol) uint64 {
	lines := uint64(s.EndLine - s.StartLine)
	var cols uint64
	if s.EndLine == s.StartLine && s.EndColumn >= s.StartColumn {
		cols = uint64(s.EndColumn - s.StartColumn)
	} else {
		cols = uint64(s.EndColumn) + uint64(s.StartColumn)
	}
	return lines<<16 | (cols & 0xffff)
}
