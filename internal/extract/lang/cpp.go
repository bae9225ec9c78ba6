package lang

import (
	"github.com/mvp-joe/codegraph/internal/extract"
)

// C++ extraction builds on the C extractor. Real C++ sources parse with the C
// grammar, so class and namespace syntax frequently lands in ERROR subtrees;
// the recovery pass salvages declarations and call sites out of those, and the
// extra rules below cover the kinds that do parse cleanly.

var cppOnlyBuiltins = set(
	"cout", "cerr", "cin", "endl", "push_back", "emplace_back", "begin",
	"end", "size", "empty", "clear", "find", "insert", "erase", "at",
	"make_shared", "make_unique", "move", "forward", "swap", "get",
)

var cppOnlyKeywords = set(
	"class", "namespace", "template", "typename", "public", "private",
	"protected", "virtual", "override", "final", "operator", "new", "delete",
	"this", "try", "catch", "throw", "using", "friend", "constexpr",
	"nullptr", "explicit", "mutable", "noexcept",
)

type cppExtractor struct {
	*cExtractor
}

func newCppExtractor(base *extract.Base) *cppExtractor {
	c := &cppExtractor{cExtractor: newCExtractor(base)}
	e := c.engine

	e.symbolRules["class_specifier"] = symbolRule{kind: extract.KindClass, nameField: "name"}
	e.symbolRules["namespace_definition"] = symbolRule{kind: extract.KindNamespace, nameField: "name"}

	e.builtins = union(cBuiltins, cppOnlyBuiltins)
	e.keywords = union(cKeywords, cppOnlyKeywords)
	return c
}

// union merges string sets without mutating either input.
func union(sets ...map[string]struct{}) map[string]struct{} {
	out := map[string]struct{}{}
	for _, s := range sets {
		for k := range s {
			out[k] = struct{}{}
		}
	}
	return out
}
