package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cespare/xxhash/v2"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Base carries the per-file state shared by every language extractor: the
// language tag, the workspace-relative file path and the source text. Each
// extractor instance owns its own copy; no state is shared across files.
type Base struct {
	Language string
	FilePath string
	Content  []byte

	pending []PendingRelationship
	logger  *slog.Logger
}

// NewBase creates the kernel state for one file extraction.
func NewBase(language, filePath string, content []byte) *Base {
	return &Base{
		Language: language,
		FilePath: filePath,
		Content:  content,
		logger:   slog.Default().With("component", "extract", "language", language),
	}
}

// SymbolID computes the deterministic id for a declaration site. The hash
// covers (file path, name, start line, start column) and nothing else, so the
// same content always reproduces the same id.
func (b *Base) SymbolID(name string, startLine, startColumn uint32) string {
	h := xxhash.New()
	h.WriteString(b.FilePath)
	h.WriteString("\x00")
	h.WriteString(name)
	h.WriteString(fmt.Sprintf("\x00%d:%d", startLine, startColumn))
	return fmt.Sprintf("%016x", h.Sum64())
}

// NodeText returns the source text covered by a node.
func (b *Base) NodeText(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if int(end) > len(b.Content) {
		end = uint(len(b.Content))
	}
	if start > end {
		return ""
	}
	return string(b.Content[start:end])
}

// SymbolOpts are the optional overrides for NewSymbol. Empty fields fall back
// to the kernel heuristics (doc-comment discovery, visibility sniffing).
type SymbolOpts struct {
	Signature  string
	DocComment string
	Visibility Visibility
	ParentID   string
	Metadata   map[string]any

	// SkipDocComment suppresses the doc-comment heuristic for symbol kinds
	// where a preceding comment is usually unrelated (imports, fields).
	SkipDocComment bool
}

// NewSymbol builds a Symbol for a node, computing the position span and
// deterministic id and applying overrides or kernel heuristics.
func (b *Base) NewSymbol(node *sitter.Node, name string, kind SymbolKind, opts SymbolOpts) Symbol {
	start, end := node.StartPosition(), node.EndPosition()
	startLine := uint32(start.Row) + 1
	startColumn := uint32(start.Column)

	doc := opts.DocComment
	if doc == "" && !opts.SkipDocComment {
		doc = b.FindDocComment(node)
	}
	vis := opts.Visibility
	if vis == "" {
		vis = b.ExtractVisibility(node)
	}

	return Symbol{
		ID:          b.SymbolID(name, startLine, startColumn),
		Name:        name,
		Kind:        kind,
		Language:    b.Language,
		FilePath:    b.FilePath,
		StartLine:   startLine,
		StartColumn: startColumn,
		EndLine:     uint32(end.Row) + 1,
		EndColumn:   uint32(end.Column),
		StartByte:   uint32(node.StartByte()),
		EndByte:     uint32(node.EndByte()),
		Signature:   opts.Signature,
		DocComment:  doc,
		Visibility:  vis,
		ParentID:    opts.ParentID,
		Metadata:    opts.Metadata,
	}
}

// RelationshipID computes the deterministic id for an edge. The hash covers
// (from, to, kind, line), so re-deriving the same edge from the same source
// reproduces the same id.
func RelationshipID(fromID, toID string, kind RelationshipKind, line uint32) string {
	h := xxhash.New()
	h.WriteString(fromID)
	h.WriteString("\x00")
	h.WriteString(toID)
	h.WriteString(fmt.Sprintf("\x00%s:%d", kind, line))
	return fmt.Sprintf("%016x", h.Sum64())
}

// NewRelationship builds a resolved edge between two symbols at a node.
func (b *Base) NewRelationship(fromID, toID string, kind RelationshipKind, node *sitter.Node, confidence float32, metadata map[string]any) Relationship {
	line := uint32(node.StartPosition().Row) + 1
	return Relationship{
		ID:           RelationshipID(fromID, toID, kind, line),
		FromSymbolID: fromID,
		ToSymbolID:   toID,
		Kind:         kind,
		FilePath:     b.FilePath,
		LineNumber:   line,
		Confidence:   confidence,
		Metadata:     metadata,
	}
}

// NewIdentifier records a usage site and resolves its containing symbol from
// the file-scoped symbol set.
func (b *Base) NewIdentifier(node *sitter.Node, name string, kind IdentifierKind, symbols []Symbol) Identifier {
	start, end := node.StartPosition(), node.EndPosition()
	startLine := uint32(start.Row) + 1
	startColumn := uint32(start.Column)

	var containingID string
	if containing := FindContainingSymbol(symbols, startLine, startColumn); containing != nil {
		containingID = containing.ID
	}

	h := xxhash.New()
	h.WriteString(b.FilePath)
	h.WriteString(fmt.Sprintf("\x00ident\x00%s\x00%s\x00%d:%d", name, kind, startLine, startColumn))
	return Identifier{
		ID:                 fmt.Sprintf("%016x", h.Sum64()),
		Name:               name,
		Kind:               kind,
		Language:           b.Language,
		FilePath:           b.FilePath,
		StartLine:          startLine,
		StartColumn:        startColumn,
		EndLine:            uint32(end.Row) + 1,
		EndColumn:          uint32(end.Column),
		ContainingSymbolID: containingID,
	}
}

// AddPending queues a deferred edge for workspace-level resolution.
func (b *Base) AddPending(p PendingRelationship) {
	b.pending = append(b.pending, p)
}

// PendingRelationships returns the deferred edges accumulated during
// relationship extraction.
func (b *Base) PendingRelationships() []PendingRelationship {
	return b.pending
}

// SymbolVisitor produces the symbols declared by a single node, or nil when
// the node declares nothing. parentID is the id of the nearest enclosing
// symbol, empty at file scope.
type SymbolVisitor func(node *sitter.Node, parentID string) ([]Symbol, error)

// WalkSymbols drives the depth-first symbol pass. When a node yields symbols,
// the first symbol's id becomes the parent context threaded into the
// recursion for that node's children; nodes that yield nothing pass the
// parent through unchanged. A visitor error or panic is logged and prunes
// that node's subtree, so one malformed node cannot discard the whole file.
func (b *Base) WalkSymbols(root *sitter.Node, parentID string, visit SymbolVisitor) []Symbol {
	var out []Symbol
	b.walkSymbols(root, parentID, visit, &out)
	return out
}

func (b *Base) walkSymbols(node *sitter.Node, parentID string, visit SymbolVisitor, out *[]Symbol) {
	if node == nil {
		return
	}

	symbols, err := b.visitNode(node, parentID, visit)
	if err != nil {
		b.logger.Warn("skipping subtree after node failure",
			"file", b.FilePath, "node", node.Kind(),
			"line", node.StartPosition().Row+1, "error", err)
		return
	}

	childParent := parentID
	if len(symbols) > 0 {
		*out = append(*out, symbols...)
		childParent = symbols[0].ID
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		b.walkSymbols(node.Child(i), childParent, visit, out)
	}
}

// visitNode isolates a single visit: an error return or a panic both become a
// recoverable outcome.
func (b *Base) visitNode(node *sitter.Node, parentID string, visit SymbolVisitor) (symbols []Symbol, err error) {
	defer func() {
		if r := recover(); r != nil {
			symbols, err = nil, fmt.Errorf("node visit panicked: %v", r)
		}
	}()
	return visit(node, parentID)
}

// Walk runs a flat guarded traversal, used by the relationship and identifier
// passes. Visitor failures prune the failing subtree and traversal continues
// with siblings.
func (b *Base) Walk(root *sitter.Node, visit func(node *sitter.Node) error) {
	if root == nil {
		return
	}
	if err := b.guardVisit(root, visit); err != nil {
		b.logger.Warn("skipping subtree after node failure",
			"file", b.FilePath, "node", root.Kind(),
			"line", root.StartPosition().Row+1, "error", err)
		return
	}
	for i := uint(0); i < root.ChildCount(); i++ {
		b.Walk(root.Child(i), visit)
	}
}

func (b *Base) guardVisit(node *sitter.Node, visit func(node *sitter.Node) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("node visit panicked: %v", r)
		}
	}()
	return visit(node)
}

// FindChildByKind returns the first direct child of the given kind.
func FindChildByKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child.Kind() == kind {
			return child
		}
	}
	return nil
}

// FindChildrenByKind returns all direct children of the given kind.
func FindChildrenByKind(node *sitter.Node, kind string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child.Kind() == kind {
			results = append(results, child)
		}
	}
	return results
}

// FieldText is a convenience for the text of a named field child.
func (b *Base) FieldText(node *sitter.Node, field string) string {
	if node == nil {
		return ""
	}
	return b.NodeText(node.ChildByFieldName(field))
}

// FirstLine truncates a signature-ish string at the first newline.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
