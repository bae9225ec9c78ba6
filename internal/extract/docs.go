package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Doc-comment markers recognized by the discovery heuristic. Conventions that
// do not use a distinct marker (plain comments acting as docs) are only
// picked up when the comment is the immediately preceding sibling. Best
// effort: languages with bespoke doc conventions may under-extract.
var docMarkers = []string{
	"///", "//!", "/**", "/*!", "#'", "##", "\"\"\"", "'''", "=begin",
}

// FindDocComment discovers the documentation comment for a declaration node.
// The immediately preceding named sibling wins if it is a comment; otherwise
// earlier siblings under the same parent are scanned for the nearest
// marker-prefixed comment above the node.
func (b *Base) FindDocComment(node *sitter.Node) string {
	if node == nil {
		return ""
	}

	if prev := node.PrevNamedSibling(); prev != nil && isCommentKind(prev.Kind()) {
		return cleanDocComment(b.NodeText(prev))
	}

	parent := node.Parent()
	if parent == nil {
		return ""
	}

	var nearest *sitter.Node
	for i := uint(0); i < parent.NamedChildCount(); i++ {
		child := parent.NamedChild(i)
		if child.StartByte() >= node.StartByte() {
			break
		}
		if !isCommentKind(child.Kind()) {
			continue
		}
		if hasDocMarker(b.NodeText(child)) {
			nearest = child
		}
	}
	if nearest == nil {
		return ""
	}
	return cleanDocComment(b.NodeText(nearest))
}

func isCommentKind(kind string) bool {
	return strings.Contains(kind, "comment")
}

func hasDocMarker(text string) bool {
	trimmed := strings.TrimSpace(text)
	for _, marker := range docMarkers {
		if strings.HasPrefix(trimmed, marker) {
			return true
		}
	}
	return false
}

// cleanDocComment strips comment syntax line by line, keeping the prose.
func cleanDocComment(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "/**")
		line = strings.TrimPrefix(line, "/*!")
		line = strings.TrimPrefix(line, "/*")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimPrefix(line, "///")
		line = strings.TrimPrefix(line, "//!")
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimPrefix(line, "#'")
		line = strings.TrimPrefix(line, "#")
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
