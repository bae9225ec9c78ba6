package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

var modifierKinds = map[string]struct{}{
	"visibility_modifier": {},
	"access_modifier":     {},
	"modifiers":           {},
	"modifier":            {},
	"member_modifier":     {},
}

// ExtractVisibility looks for an explicit modifier child first, then falls
// back to substring matching on the declaration text. Returns the zero value
// when nothing matches, leaving the decision to the per-language extractor's
// own convention (e.g. case-based visibility in Go).
func (b *Base) ExtractVisibility(node *sitter.Node) Visibility {
	if node == nil {
		return ""
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if _, ok := modifierKinds[child.Kind()]; !ok {
			continue
		}
		if vis := visibilityFromText(b.NodeText(child)); vis != "" {
			return vis
		}
	}

	// Only sniff the declaration head, not the whole body.
	head := FirstLine(b.NodeText(node))
	return visibilityFromText(head)
}

func visibilityFromText(text string) Visibility {
	switch {
	case strings.Contains(text, "private"):
		return VisibilityPrivate
	case strings.Contains(text, "protected"):
		return VisibilityProtected
	case strings.Contains(text, "public"), strings.Contains(text, "pub "),
		strings.HasPrefix(text, "pub("), strings.Contains(text, "export "):
		return VisibilityPublic
	}
	return ""
}
