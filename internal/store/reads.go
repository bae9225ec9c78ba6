package store

import (
	"database/sql"
	"fmt"

	"github.com/mvp-joe/codegraph/internal/extract"
)

const symbolCols = `id, file_path, name, kind, language,
	start_line, start_col, end_line, end_col, start_byte, end_byte,
	signature, doc_comment, visibility, parent_id, metadata, semantic_group, confidence`

func scanSymbol(scanner interface{ Scan(...any) error }) (extract.Symbol, error) {
	var sym extract.Symbol
	var kind, visibility string
	var parentID sql.NullString
	var meta string
	err := scanner.Scan(
		&sym.ID, &sym.FilePath, &sym.Name, &kind, &sym.Language,
		&sym.StartLine, &sym.StartColumn, &sym.EndLine, &sym.EndColumn,
		&sym.StartByte, &sym.EndByte,
		&sym.Signature, &sym.DocComment, &visibility,
		&parentID, &meta, &sym.SemanticGroup, &sym.Confidence,
	)
	if err != nil {
		return sym, err
	}
	sym.Kind = extract.SymbolKind(kind)
	sym.Visibility = extract.Visibility(visibility)
	sym.ParentID = parentID.String
	sym.Metadata = unmarshalMeta(meta)
	return sym, nil
}

func (s *Store) querySymbols(query string, args ...any) ([]extract.Symbol, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var symbols []extract.Symbol
	for rows.Next() {
		sym, err := scanSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

// AllSymbols streams every symbol in the store, ordered by file then span.
func (s *Store) AllSymbols() ([]extract.Symbol, error) {
	symbols, err := s.querySymbols(
		"SELECT " + symbolCols + " FROM symbols ORDER BY file_path, start_line, start_col")
	if err != nil {
		return nil, fmt.Errorf("all symbols: %w", err)
	}
	return symbols, nil
}

// SymbolsByName returns every symbol declared under the given name.
func (s *Store) SymbolsByName(name string) ([]extract.Symbol, error) {
	symbols, err := s.querySymbols(
		"SELECT "+symbolCols+" FROM symbols WHERE name = ?", name)
	if err != nil {
		return nil, fmt.Errorf("symbols by name: %w", err)
	}
	return symbols, nil
}

// SymbolsByFile returns the symbols extracted from one file.
func (s *Store) SymbolsByFile(path string) ([]extract.Symbol, error) {
	symbols, err := s.querySymbols(
		"SELECT "+symbolCols+" FROM symbols WHERE file_path = ? ORDER BY start_line, start_col", path)
	if err != nil {
		return nil, fmt.Errorf("symbols by file: %w", err)
	}
	return symbols, nil
}

// RelationshipsByKind returns every stored edge of one kind.
func (s *Store) RelationshipsByKind(kind extract.RelationshipKind) ([]extract.Relationship, error) {
	rows, err := s.db.Query(
		`SELECT id, from_symbol_id, to_symbol_id, kind, file_path, line_number, confidence, metadata
		 FROM relationships WHERE kind = ?`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("relationships by kind: %w", err)
	}
	defer rows.Close()
	var rels []extract.Relationship
	for rows.Next() {
		var rel extract.Relationship
		var k, meta string
		if err := rows.Scan(&rel.ID, &rel.FromSymbolID, &rel.ToSymbolID, &k,
			&rel.FilePath, &rel.LineNumber, &rel.Confidence, &meta); err != nil {
			return nil, fmt.Errorf("scan relationship: %w", err)
		}
		rel.Kind = extract.RelationshipKind(k)
		rel.Metadata = unmarshalMeta(meta)
		rels = append(rels, rel)
	}
	return rels, rows.Err()
}

// PendingRow is a stored pending relationship plus its row id and, once the
// resolver has run, the symbol it was promoted to.
type PendingRow struct {
	ID         int64
	Pending    extract.PendingRelationship
	ResolvedTo string
}

// UnresolvedPending returns the pending relationships not yet promoted.
func (s *Store) UnresolvedPending() ([]PendingRow, error) {
	rows, err := s.db.Query(
		`SELECT id, from_symbol_id, callee_name, kind, file_path, line_number, confidence
		 FROM pending_relationships WHERE resolved_to IS NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("unresolved pending: %w", err)
	}
	defer rows.Close()
	var out []PendingRow
	for rows.Next() {
		var row PendingRow
		var kind string
		if err := rows.Scan(&row.ID, &row.Pending.FromSymbolID, &row.Pending.CalleeName,
			&kind, &row.Pending.FilePath, &row.Pending.LineNumber, &row.Pending.Confidence); err != nil {
			return nil, fmt.Errorf("scan pending: %w", err)
		}
		row.Pending.Kind = extract.RelationshipKind(kind)
		out = append(out, row)
	}
	return out, rows.Err()
}

// IdentifiersByFile returns the identifiers recorded for one file, ordered by
// position.
func (s *Store) IdentifiersByFile(path string) ([]extract.Identifier, error) {
	rows, err := s.db.Query(
		`SELECT id, name, kind, language, file_path,
			start_line, start_col, end_line, end_col, containing_symbol_id
		 FROM identifiers WHERE file_path = ? ORDER BY start_line, start_col`, path)
	if err != nil {
		return nil, fmt.Errorf("identifiers by file: %w", err)
	}
	defer rows.Close()
	var idents []extract.Identifier
	for rows.Next() {
		var ident extract.Identifier
		var kind string
		var containing sql.NullString
		if err := rows.Scan(&ident.ID, &ident.Name, &kind, &ident.Language, &ident.FilePath,
			&ident.StartLine, &ident.StartColumn, &ident.EndLine, &ident.EndColumn,
			&containing); err != nil {
			return nil, fmt.Errorf("scan identifier: %w", err)
		}
		ident.Kind = extract.IdentifierKind(kind)
		ident.ContainingSymbolID = containing.String
		idents = append(idents, ident)
	}
	return idents, rows.Err()
}

// TypeForSymbol returns the stored type for a symbol, or nil when none was
// inferred.
func (s *Store) TypeForSymbol(symbolID string) (*extract.TypeInfo, error) {
	ti := &extract.TypeInfo{}
	var generics, constraints string
	err := s.db.QueryRow(
		`SELECT symbol_id, resolved_type, generic_params, constraints, is_inferred, language
		 FROM types WHERE symbol_id = ?`, symbolID,
	).Scan(&ti.SymbolID, &ti.ResolvedType, &generics, &constraints, &ti.IsInferred, &ti.Language)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("type for symbol: %w", err)
	}
	ti.GenericParams = unmarshalStrings(generics)
	ti.Constraints = unmarshalStrings(constraints)
	return ti, nil
}

// Stats summarizes the store contents for status output.
type Stats struct {
	Files         int
	Symbols       int
	Relationships int
	Pending       int
	Identifiers   int
}

// CurrentStats counts rows across the main tables.
func (s *Store) CurrentStats() (*Stats, error) {
	st := &Stats{}
	for _, c := range []struct {
		query string
		dst   *int
	}{
		{"SELECT COUNT(*) FROM files", &st.Files},
		{"SELECT COUNT(*) FROM symbols", &st.Symbols},
		{"SELECT COUNT(*) FROM relationships", &st.Relationships},
		{"SELECT COUNT(*) FROM pending_relationships WHERE resolved_to IS NULL", &st.Pending},
		{"SELECT COUNT(*) FROM identifiers", &st.Identifiers},
	} {
		if err := s.db.QueryRow(c.query).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("count: %w", err)
		}
	}
	return st, nil
}
