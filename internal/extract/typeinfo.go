package extract

import "strings"

// Signature-derived type inference helpers. These are heuristics over the
// signature strings recorded during symbol extraction, not a type checker.

// ReturnTypeFromSignature pulls the return type that follows an arrow marker
// ("->" in Python/Rust-style signatures, ":" suffix styles are handled by
// SuffixTypeFromSignature).
func ReturnTypeFromSignature(signature, arrow string) string {
	idx := strings.LastIndex(signature, arrow)
	if idx < 0 {
		return ""
	}
	ret := signature[idx+len(arrow):]
	ret = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(ret), "{"))
	if i := strings.IndexAny(ret, "{;"); i >= 0 {
		ret = strings.TrimSpace(ret[:i])
	}
	return ret
}

// SuffixTypeFromSignature pulls a trailing ": Type" annotation, used by
// languages that annotate variables and returns with a colon.
func SuffixTypeFromSignature(signature string) string {
	idx := strings.LastIndex(signature, ":")
	if idx < 0 {
		return ""
	}
	t := strings.TrimSpace(signature[idx+1:])
	t = strings.TrimSuffix(t, ";")
	t = strings.TrimSpace(strings.Split(t, "=")[0])
	if t == "" || strings.ContainsAny(t, "(){") {
		return ""
	}
	return t
}

// TypesFromSignatures is the common infer-types shell: for each symbol it
// asks fn for a type string and records non-empty answers keyed by symbol id.
func TypesFromSignatures(symbols []Symbol, fn func(s *Symbol) string) map[string]string {
	types := make(map[string]string)
	for i := range symbols {
		if t := fn(&symbols[i]); t != "" {
			types[symbols[i].ID] = t
		}
	}
	return types
}
