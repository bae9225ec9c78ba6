package lang

import (
	"github.com/mvp-joe/codegraph/internal/extract"
)

// Razor extraction. Razor templates embed C# declarations, so the symbol and
// call tables are the C# ones; resolution stays file-local because template
// names do not participate in cross-file call resolution.

type razorExtractor struct {
	*engine
}

func newRazorExtractor(base *extract.Base) *razorExtractor {
	e := &engine{
		base: base,
		symbolRules: map[string]symbolRule{
			"class_declaration":    {kind: extract.KindClass, nameField: "name"},
			"method_declaration":   {kind: extract.KindMethod, nameField: "name"},
			"property_declaration": {kind: extract.KindProperty, nameField: "name"},
			"razor_section":        {kind: extract.KindFunction, nameKinds: []string{"identifier"}},
		},
		callRules: map[string]calleeFunc{
			"invocation_expression":      calleeFromField("function"),
			"object_creation_expression": typeFieldCallee,
		},
		memberRules: map[string]string{
			"member_access_expression": "name",
		},
		builtins:    csharpBuiltins,
		keywords:    csharpKeywords,
		deferCalls:  false,
		recoverErrs: true,
	}
	return &razorExtractor{engine: e}
}
