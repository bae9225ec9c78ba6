// Package extract defines the shared extraction kernel: the data model for
// symbols, relationships, identifiers and types, plus the traversal, identity
// and scope-lookup algorithms every per-language extractor builds on.
package extract

// SymbolKind classifies a declared entity.
type SymbolKind string

const (
	KindClass       SymbolKind = "class"
	KindInterface   SymbolKind = "interface"
	KindFunction    SymbolKind = "function"
	KindMethod      SymbolKind = "method"
	KindVariable    SymbolKind = "variable"
	KindConstant    SymbolKind = "constant"
	KindProperty    SymbolKind = "property"
	KindEnum        SymbolKind = "enum"
	KindEnumMember  SymbolKind = "enum_member"
	KindModule      SymbolKind = "module"
	KindNamespace   SymbolKind = "namespace"
	KindType        SymbolKind = "type"
	KindTrait       SymbolKind = "trait"
	KindStruct      SymbolKind = "struct"
	KindUnion       SymbolKind = "union"
	KindField       SymbolKind = "field"
	KindConstructor SymbolKind = "constructor"
	KindDestructor  SymbolKind = "destructor"
	KindOperator    SymbolKind = "operator"
	KindImport      SymbolKind = "import"
	KindExport      SymbolKind = "export"
	KindEvent       SymbolKind = "event"
	KindDelegate    SymbolKind = "delegate"
)

// Visibility of a symbol, when the language expresses one.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
)

// Symbol is a declared entity extracted from one file. Symbols are created
// once per declaration site and never mutated afterwards; re-extracting
// unchanged content reproduces identical ids and fields.
type Symbol struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Kind     SymbolKind `json:"kind"`
	Language string     `json:"language"`
	FilePath string     `json:"file_path"`

	// Lines are 1-based, columns 0-based, matching tree-sitter rows shifted
	// by one.
	StartLine   uint32 `json:"start_line"`
	StartColumn uint32 `json:"start_column"`
	EndLine     uint32 `json:"end_line"`
	EndColumn   uint32 `json:"end_column"`
	StartByte   uint32 `json:"start_byte"`
	EndByte     uint32 `json:"end_byte"`

	Signature  string     `json:"signature,omitempty"`
	DocComment string     `json:"doc_comment,omitempty"`
	Visibility Visibility `json:"visibility,omitempty"`

	// ParentID references the enclosing symbol by id, never by pointer, so
	// symbol trees stay flat and serializable.
	ParentID string `json:"parent_id,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`

	SemanticGroup string  `json:"semantic_group,omitempty"`
	Confidence    float32 `json:"confidence,omitempty"`
}

// RelationshipKind classifies a directed edge between two symbols.
type RelationshipKind string

const (
	RelCalls        RelationshipKind = "calls"
	RelExtends      RelationshipKind = "extends"
	RelImplements   RelationshipKind = "implements"
	RelUses         RelationshipKind = "uses"
	RelReturns      RelationshipKind = "returns"
	RelParameter    RelationshipKind = "parameter"
	RelImports      RelationshipKind = "imports"
	RelInstantiates RelationshipKind = "instantiates"
	RelReferences   RelationshipKind = "references"
	RelDefines      RelationshipKind = "defines"
	RelOverrides    RelationshipKind = "overrides"
	RelContains     RelationshipKind = "contains"
	RelJoins        RelationshipKind = "joins"
	RelComposition  RelationshipKind = "composition"
)

// Relationship is a resolved directed edge between two symbols known to exist
// in the same extraction pass.
type Relationship struct {
	ID           string           `json:"id"`
	FromSymbolID string           `json:"from_symbol_id"`
	ToSymbolID   string           `json:"to_symbol_id"`
	Kind         RelationshipKind `json:"kind"`
	FilePath     string           `json:"file_path"`
	LineNumber   uint32           `json:"line_number"`
	Confidence   float32          `json:"confidence"`
	Metadata     map[string]any   `json:"metadata,omitempty"`
}

// PendingRelationship is an edge whose target could not be resolved within
// the current file. The callee is carried by name and matched later against a
// workspace-wide index once every file has been extracted.
type PendingRelationship struct {
	FromSymbolID string           `json:"from_symbol_id"`
	CalleeName   string           `json:"callee_name"`
	Kind         RelationshipKind `json:"kind"`
	FilePath     string           `json:"file_path"`
	LineNumber   uint32           `json:"line_number"`
	Confidence   float32          `json:"confidence"`
}

// IdentifierKind classifies a usage site.
type IdentifierKind string

const (
	IdentCall         IdentifierKind = "call"
	IdentMemberAccess IdentifierKind = "member_access"
	IdentVariableRef  IdentifierKind = "variable_ref"
)

// Identifier records one usage of a name, whether or not it resolves to a
// known symbol. ContainingSymbolID is the innermost symbol from the same file
// whose span encloses the usage, or empty at file scope.
type Identifier struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Kind               IdentifierKind `json:"kind"`
	Language           string         `json:"language"`
	FilePath           string         `json:"file_path"`
	StartLine          uint32         `json:"start_line"`
	StartColumn        uint32         `json:"start_column"`
	EndLine            uint32         `json:"end_line"`
	EndColumn          uint32         `json:"end_column"`
	ContainingSymbolID string         `json:"containing_symbol_id,omitempty"`
}

// TypeInfo carries the resolved or inferred type for one symbol.
type TypeInfo struct {
	SymbolID      string   `json:"symbol_id"`
	ResolvedType  string   `json:"resolved_type"`
	GenericParams []string `json:"generic_params,omitempty"`
	Constraints   []string `json:"constraints,omitempty"`
	IsInferred    bool     `json:"is_inferred"`
	Language      string   `json:"language"`
}

// Result is the uniform envelope produced for one file. Capabilities a
// language does not implement come back as empty collections, never nil
// semantics the caller has to special-case.
type Result struct {
	Symbols              []Symbol              `json:"symbols"`
	Relationships        []Relationship        `json:"relationships"`
	PendingRelationships []PendingRelationship `json:"pending_relationships"`
	Identifiers          []Identifier          `json:"identifiers"`
	Types                map[string]TypeInfo   `json:"types"`
}
