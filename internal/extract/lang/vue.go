package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// Vue single-file component extraction. The template, script and style
// sections are the component's structural symbols; script bodies are not
// re-parsed as JavaScript here, so resolution stays file-local.

type vueExtractor struct {
	*engine
}

func newVueExtractor(base *extract.Base) *vueExtractor {
	e := &engine{base: base}
	v := &vueExtractor{engine: e}
	e.symbolHook = v.symbols
	return v
}

func (v *vueExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := v.base
	var name string
	switch node.Kind() {
	case "template_element":
		name = "template"
	case "script_element":
		name = "script"
	case "style_element":
		name = "style"
	default:
		return nil, false
	}
	sym := b.NewSymbol(node, name, extract.KindModule, extract.SymbolOpts{
		Signature:      extract.FirstLine(b.NodeText(node)),
		ParentID:       parentID,
		SkipDocComment: true,
	})
	return []extract.Symbol{sym}, true
}
