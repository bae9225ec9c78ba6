package resolve

import (
	"errors"
	"fmt"
	"io"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/mvp-joe/codegraph/internal/extract"
	"github.com/mvp-joe/codegraph/internal/store"
)

// CallGraph assembles the directed call graph over every resolved Calls edge
// in the store. Vertices are symbols keyed by id; edges carry the resolution
// confidence as a weight attribute.
func CallGraph(st *store.Store) (graph.Graph[string, extract.Symbol], error) {
	symbols, err := st.AllSymbols()
	if err != nil {
		return nil, fmt.Errorf("load symbols: %w", err)
	}
	byID := make(map[string]extract.Symbol, len(symbols))
	for _, sym := range symbols {
		byID[sym.ID] = sym
	}

	calls, err := st.RelationshipsByKind(extract.RelCalls)
	if err != nil {
		return nil, fmt.Errorf("load call edges: %w", err)
	}

	g := graph.New(func(s extract.Symbol) string { return s.ID }, graph.Directed())
	for _, rel := range calls {
		from, okFrom := byID[rel.FromSymbolID]
		to, okTo := byID[rel.ToSymbolID]
		if !okFrom || !okTo {
			// Edge endpoints can vanish when a file was re-indexed after the
			// edge was written; skip rather than invent a vertex.
			continue
		}
		for _, v := range []extract.Symbol{from, to} {
			err := g.AddVertex(v, graph.VertexAttribute("label", v.Name))
			if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
				return nil, fmt.Errorf("add vertex %s: %w", v.Name, err)
			}
		}
		err := g.AddEdge(rel.FromSymbolID, rel.ToSymbolID,
			graph.EdgeAttribute("confidence", fmt.Sprintf("%.2f", rel.Confidence)))
		if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return nil, fmt.Errorf("add edge %s -> %s: %w", rel.FromSymbolID, rel.ToSymbolID, err)
		}
	}
	return g, nil
}

// WriteDOT renders the call graph in Graphviz DOT format.
func WriteDOT(g graph.Graph[string, extract.Symbol], w io.Writer) error {
	if err := draw.DOT(g, w); err != nil {
		return fmt.Errorf("render dot: %w", err)
	}
	return nil
}
