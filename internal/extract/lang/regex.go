package lang

import (
	"github.com/mvp-joe/codegraph/internal/extract"
)

// Regex extraction. A pattern file only declares its named capture groups;
// there are no calls, references or types.

type regexExtractor struct {
	*engine
}

func newRegexExtractor(base *extract.Base) *regexExtractor {
	return &regexExtractor{engine: &engine{
		base: base,
		symbolRules: map[string]symbolRule{
			"named_capturing_group": {
				kind:      extract.KindVariable,
				nameKinds: []string{"group_name"},
				skipDoc:   true,
			},
		},
	}}
}
