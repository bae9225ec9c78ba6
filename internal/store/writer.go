package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// File is one indexed source file.
type File struct {
	Path      string
	Language  string
	Hash      string
	RunID     string
	IndexedAt time.Time
}

// FileResult pairs a file with its extraction output for a batch write.
type FileResult struct {
	File   File
	Result *extract.Result
}

// ApplyBatch writes a batch of per-file extraction results in one
// transaction. Any previous rows for the same paths are removed first, so
// re-indexing a file replaces its data atomically.
func (s *Store) ApplyBatch(batch []FileResult) error {
	if len(batch) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range batch {
		if err := deleteFileRows(tx, batch[i].File.Path); err != nil {
			return err
		}
	}

	stmts, err := prepareInserts(tx)
	if err != nil {
		return err
	}
	defer stmts.close()

	for i := range batch {
		if err := insertFileResult(stmts, &batch[i]); err != nil {
			return fmt.Errorf("insert %s: %w", batch[i].File.Path, err)
		}
	}
	return tx.Commit()
}

type insertStmts struct {
	file         *sql.Stmt
	symbol       *sql.Stmt
	relationship *sql.Stmt
	pending      *sql.Stmt
	identifier   *sql.Stmt
	typeInfo     *sql.Stmt
}

func (st *insertStmts) close() {
	for _, s := range []*sql.Stmt{st.file, st.symbol, st.relationship, st.pending, st.identifier, st.typeInfo} {
		if s != nil {
			s.Close()
		}
	}
}

func prepareInserts(tx *sql.Tx) (*insertStmts, error) {
	st := &insertStmts{}
	var err error
	prepare := func(name, query string) *sql.Stmt {
		if err != nil {
			return nil
		}
		var stmt *sql.Stmt
		stmt, err = tx.Prepare(query)
		if err != nil {
			err = fmt.Errorf("prepare %s: %w", name, err)
		}
		return stmt
	}

	st.file = prepare("file",
		`INSERT INTO files (path, language, hash, run_id, indexed_at) VALUES (?, ?, ?, ?, ?)`)
	st.symbol = prepare("symbol",
		`INSERT INTO symbols (id, file_path, name, kind, language,
			start_line, start_col, end_line, end_col, start_byte, end_byte,
			signature, doc_comment, visibility, parent_id, metadata, semantic_group, confidence)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	st.relationship = prepare("relationship",
		`INSERT INTO relationships (id, from_symbol_id, to_symbol_id, kind, file_path, line_number, confidence, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	st.pending = prepare("pending relationship",
		`INSERT INTO pending_relationships (from_symbol_id, callee_name, kind, file_path, line_number, confidence)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	st.identifier = prepare("identifier",
		`INSERT INTO identifiers (id, name, kind, language, file_path,
			start_line, start_col, end_line, end_col, containing_symbol_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	st.typeInfo = prepare("type",
		`INSERT OR REPLACE INTO types (symbol_id, resolved_type, generic_params, constraints, is_inferred, language)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		st.close()
		return nil, err
	}
	return st, nil
}

func insertFileResult(st *insertStmts, fr *FileResult) error {
	f := &fr.File
	if _, err := st.file.Exec(f.Path, f.Language, f.Hash, nullString(f.RunID), f.IndexedAt); err != nil {
		return fmt.Errorf("file row: %w", err)
	}
	res := fr.Result
	if res == nil {
		return nil
	}

	for i := range res.Symbols {
		sym := &res.Symbols[i]
		if _, err := st.symbol.Exec(
			sym.ID, sym.FilePath, sym.Name, string(sym.Kind), sym.Language,
			sym.StartLine, sym.StartColumn, sym.EndLine, sym.EndColumn,
			sym.StartByte, sym.EndByte,
			sym.Signature, sym.DocComment, string(sym.Visibility),
			nullString(sym.ParentID), marshalMeta(sym.Metadata),
			sym.SemanticGroup, sym.Confidence,
		); err != nil {
			return fmt.Errorf("symbol %s: %w", sym.Name, err)
		}
	}
	for i := range res.Relationships {
		rel := &res.Relationships[i]
		if _, err := st.relationship.Exec(
			rel.ID, rel.FromSymbolID, rel.ToSymbolID, string(rel.Kind),
			rel.FilePath, rel.LineNumber, rel.Confidence, marshalMeta(rel.Metadata),
		); err != nil {
			return fmt.Errorf("relationship %s: %w", rel.ID, err)
		}
	}
	for i := range res.PendingRelationships {
		p := &res.PendingRelationships[i]
		if _, err := st.pending.Exec(
			p.FromSymbolID, p.CalleeName, string(p.Kind),
			p.FilePath, p.LineNumber, p.Confidence,
		); err != nil {
			return fmt.Errorf("pending relationship %s: %w", p.CalleeName, err)
		}
	}
	for i := range res.Identifiers {
		ident := &res.Identifiers[i]
		if _, err := st.identifier.Exec(
			ident.ID, ident.Name, string(ident.Kind), ident.Language, ident.FilePath,
			ident.StartLine, ident.StartColumn, ident.EndLine, ident.EndColumn,
			nullString(ident.ContainingSymbolID),
		); err != nil {
			return fmt.Errorf("identifier %s: %w", ident.Name, err)
		}
	}
	for _, ti := range res.Types {
		if _, err := st.typeInfo.Exec(
			ti.SymbolID, ti.ResolvedType,
			marshalStrings(ti.GenericParams), marshalStrings(ti.Constraints),
			ti.IsInferred, ti.Language,
		); err != nil {
			return fmt.Errorf("type for %s: %w", ti.SymbolID, err)
		}
	}
	return nil
}

// InsertRelationships appends resolver-produced edges outside the per-file
// batch path.
func (s *Store) InsertRelationships(rels []extract.Relationship) error {
	if len(rels) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	stmt, err := tx.Prepare(
		`INSERT OR IGNORE INTO relationships (id, from_symbol_id, to_symbol_id, kind, file_path, line_number, confidence, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare relationship: %w", err)
	}
	defer stmt.Close()
	for i := range rels {
		rel := &rels[i]
		if _, err := stmt.Exec(
			rel.ID, rel.FromSymbolID, rel.ToSymbolID, string(rel.Kind),
			rel.FilePath, rel.LineNumber, rel.Confidence, marshalMeta(rel.Metadata),
		); err != nil {
			return fmt.Errorf("insert relationship %s: %w", rel.ID, err)
		}
	}
	return tx.Commit()
}

// InsertIdentifiers appends identifier rows outside the per-file batch path.
// The engine's second phase writes through here once every file's symbols are
// stored.
func (s *Store) InsertIdentifiers(idents []extract.Identifier) error {
	if len(idents) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	stmt, err := tx.Prepare(
		`INSERT INTO identifiers (id, name, kind, language, file_path,
			start_line, start_col, end_line, end_col, containing_symbol_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare identifier: %w", err)
	}
	defer stmt.Close()
	for i := range idents {
		ident := &idents[i]
		if _, err := stmt.Exec(
			ident.ID, ident.Name, string(ident.Kind), ident.Language, ident.FilePath,
			ident.StartLine, ident.StartColumn, ident.EndLine, ident.EndColumn,
			nullString(ident.ContainingSymbolID),
		); err != nil {
			return fmt.Errorf("insert identifier %s: %w", ident.Name, err)
		}
	}
	return tx.Commit()
}

// MarkPendingResolved records the promotion target on a pending row.
func (s *Store) MarkPendingResolved(pendingID int64, toSymbolID string) error {
	_, err := s.db.Exec(
		"UPDATE pending_relationships SET resolved_to = ? WHERE id = ?",
		toSymbolID, pendingID,
	)
	if err != nil {
		return fmt.Errorf("mark pending resolved: %w", err)
	}
	return nil
}

func marshalMeta(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	return string(b)
}

func unmarshalMeta(s string) map[string]any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var meta map[string]any
	if err := json.Unmarshal([]byte(s), &meta); err != nil {
		return nil
	}
	return meta
}

func marshalStrings(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	b, err := json.Marshal(ss)
	if err != nil {
		return ""
	}
	return string(b)
}

func unmarshalStrings(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var ss []string
	if err := json.Unmarshal([]byte(s), &ss); err != nil {
		return nil
	}
	return ss
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
