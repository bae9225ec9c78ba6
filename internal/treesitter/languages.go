// Package treesitter is the syntax-tree provider boundary: it maps language
// tags to bundled tree-sitter grammars, parses source for tags with a native
// grammar, and detects language tags from file extensions. Extraction itself
// never parses; it operates on trees handed in through this boundary.
package treesitter

import (
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	lua "github.com/tree-sitter-grammars/tree-sitter-lua/bindings/go"
	zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	golang "github.com/tree-sitter/tree-sitter-go/bindings/go"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Grammar returns the bundled grammar for a language tag. ok is false for
// registered languages whose trees must be supplied by an external provider.
// C++ parses with the C grammar; the extractor tolerates the reduced node
// vocabulary.
func Grammar(lang string) (language *sitter.Language, ok bool) {
	switch lang {
	case "go":
		return sitter.NewLanguage(golang.Language()), true
	case "javascript", "jsx":
		return sitter.NewLanguage(javascript.Language()), true
	case "typescript":
		return sitter.NewLanguage(typescript.LanguageTypescript()), true
	case "tsx":
		return sitter.NewLanguage(typescript.LanguageTSX()), true
	case "python":
		return sitter.NewLanguage(python.Language()), true
	case "rust":
		return sitter.NewLanguage(rust.Language()), true
	case "c", "cpp":
		return sitter.NewLanguage(c.Language()), true
	case "java":
		return sitter.NewLanguage(java.Language()), true
	case "php":
		return sitter.NewLanguage(php.LanguagePHP()), true
	case "ruby":
		return sitter.NewLanguage(ruby.Language()), true
	case "lua":
		return sitter.NewLanguage(lua.Language()), true
	case "zig":
		return sitter.NewLanguage(zig.Language()), true
	default:
		return nil, false
	}
}

// HasGrammar reports whether Parse can handle the tag natively.
func HasGrammar(lang string) bool {
	_, ok := Grammar(lang)
	return ok
}

// Parse parses source text for a tag with a bundled grammar. The caller owns
// the returned tree and must Close it.
func Parse(lang string, source []byte) (*sitter.Tree, error) {
	language, ok := Grammar(lang)
	if !ok {
		return nil, fmt.Errorf("no bundled grammar for language %q", lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("set language %q: %w", lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse failed for language %q", lang)
	}
	return tree, nil
}

// extensionTags maps file extensions to registered language tags, covering
// the full registry including tags without a bundled grammar.
var extensionTags = map[string]string{
	".rs":     "rust",
	".ts":     "typescript",
	".tsx":    "tsx",
	".js":     "javascript",
	".mjs":    "javascript",
	".cjs":    "javascript",
	".jsx":    "jsx",
	".py":     "python",
	".pyw":    "python",
	".java":   "java",
	".cs":     "csharp",
	".php":    "php",
	".swift":  "swift",
	".kt":     "kotlin",
	".kts":    "kotlin",
	".dart":   "dart",
	".go":     "go",
	".c":      "c",
	".h":      "c",
	".cpp":    "cpp",
	".cc":     "cpp",
	".cxx":    "cpp",
	".hpp":    "cpp",
	".ps1":    "powershell",
	".psm1":   "powershell",
	".sh":     "bash",
	".bash":   "bash",
	".zig":    "zig",
	".sql":    "sql",
	".html":   "html",
	".htm":    "html",
	".cshtml": "razor",
	".razor":  "razor",
	".vue":    "vue",
	".rb":     "ruby",
	".lua":    "lua",
	".gd":     "gdscript",
	".qml":    "qml",
	".r":      "r",
	".R":      "r",
	".css":    "css",
	".md":     "markdown",
	".json":   "json",
	".toml":   "toml",
	".yml":    "yaml",
	".yaml":   "yaml",
}

// DetectLanguage maps a file path to its registered language tag, or "" when
// the extension is not recognized.
func DetectLanguage(path string) string {
	ext := filepath.Ext(path)
	if tag, ok := extensionTags[ext]; ok {
		return tag
	}
	if tag, ok := extensionTags[strings.ToLower(ext)]; ok {
		return tag
	}
	return ""
}
