// Package engine drives the indexing pipeline: workspace discovery, a
// parallel symbol-extraction phase with batched persistence, an identifier
// phase over the persisted symbols, and the workspace-wide resolution pass.
package engine

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/mvp-joe/codegraph/internal/treesitter"
)

// FileEntry is one discovered source file.
type FileEntry struct {
	Path     string // absolute
	Rel      string // workspace-relative, slash-separated
	Language string
}

type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery walks a workspace root and selects the files to index: glob
// include/exclude patterns, .gitignore rules, and extension-based language
// detection limited to tags with a bundled grammar.
type Discovery struct {
	root      string
	include   []compiledPattern
	exclude   []compiledPattern
	gitignore *ignore.GitIgnore
	languages map[string]struct{}
}

// NewDiscovery compiles the selection rules for a workspace root. An empty
// include list selects every file with a recognized extension; languages
// narrows to specific tags when non-empty.
func NewDiscovery(root string, include, exclude, languages []string) (*Discovery, error) {
	d := &Discovery{root: root}

	compile := func(patterns []string) ([]compiledPattern, error) {
		var out []compiledPattern
		for _, p := range patterns {
			g, err := glob.Compile(p, '/')
			if err != nil {
				return nil, fmt.Errorf("compile pattern %q: %w", p, err)
			}
			out = append(out, compiledPattern{pattern: p, glob: g})
		}
		return out, nil
	}

	var err error
	if d.include, err = compile(include); err != nil {
		return nil, err
	}
	if d.exclude, err = compile(exclude); err != nil {
		return nil, err
	}

	if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		d.gitignore = gi
	}

	if len(languages) > 0 {
		d.languages = make(map[string]struct{}, len(languages))
		for _, lang := range languages {
			d.languages[lang] = struct{}{}
		}
	}
	return d, nil
}

// Files walks the tree and returns the entries to index, ordered by path.
func (d *Discovery) Files() ([]FileEntry, error) {
	var entries []FileEntry
	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(d.root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if entry.IsDir() {
			if d.skipDir(entry.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.skipFile(rel) {
			return nil
		}
		lang := treesitter.DetectLanguage(path)
		if lang == "" || !treesitter.HasGrammar(lang) {
			return nil
		}
		if d.languages != nil {
			if _, ok := d.languages[lang]; !ok {
				return nil
			}
		}
		entries = append(entries, FileEntry{Path: path, Rel: rel, Language: lang})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", d.root, err)
	}
	return entries, nil
}

func (d *Discovery) skipDir(name, rel string) bool {
	switch name {
	case ".git", ".codegraph", "node_modules", "vendor":
		return true
	}
	if d.gitignore != nil && d.gitignore.MatchesPath(rel+"/") {
		return true
	}
	// A directory excluded outright prunes its whole subtree.
	return matchesAny(rel, d.exclude)
}

func (d *Discovery) skipFile(rel string) bool {
	if d.gitignore != nil && d.gitignore.MatchesPath(rel) {
		return true
	}
	if matchesAny(rel, d.exclude) {
		return true
	}
	if len(d.include) == 0 {
		return false
	}
	return !matchesAny(rel, d.include)
}

func matchesAny(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
		// Make "**/*.go" also match a root-level "main.go".
		if !strings.Contains(path, "/") && strings.HasPrefix(cp.pattern, "**/") {
			if g, err := glob.Compile(strings.TrimPrefix(cp.pattern, "**/"), '/'); err == nil && g.Match(path) {
				return true
			}
		}
	}
	return false
}
