package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// GDScript extraction. Signals become events, class_name declarations name
// the script's class, and unresolved calls defer to workspace resolution the
// same way the full-support languages do. Types are not inferred.

var gdscriptBuiltins = set(
	"print", "prints", "printerr", "preload", "load", "get_node",
	"emit_signal", "connect", "disconnect", "instance", "instantiate",
	"queue_free", "randi", "randf", "randomize", "str", "int", "float",
	"len", "range", "typeof", "is_instance_valid", "clamp", "lerp", "abs",
	"min", "max", "floor", "ceil", "round",
)

var gdscriptKeywords = set(
	"and", "as", "assert", "await", "break", "breakpoint", "class",
	"class_name", "const", "continue", "elif", "else", "enum", "export",
	"extends", "for", "func", "if", "in", "is", "match", "not", "onready",
	"or", "pass", "return", "self", "signal", "static", "tool", "var",
	"while", "yield", "null", "true", "false",
)

type gdscriptExtractor struct {
	*engine
}

func newGDScriptExtractor(base *extract.Base) *gdscriptExtractor {
	e := &engine{
		base: base,
		symbolRules: map[string]symbolRule{
			"class_name_statement": {kind: extract.KindClass, nameKinds: []string{"name", "identifier"}},
			"class_definition":     {kind: extract.KindClass, nameField: "name"},
			"function_definition":  {kind: extract.KindFunction, nameField: "name"},
			"signal_statement":     {kind: extract.KindEvent, nameKinds: []string{"name", "identifier"}},
			"const_statement":      {kind: extract.KindConstant, nameField: "name", skipDoc: true},
			"variable_statement":   {kind: extract.KindVariable, nameField: "name", skipDoc: true},
			"enum_definition":      {kind: extract.KindEnum, nameField: "name"},
		},
		callRules: map[string]calleeFunc{
			"call": gdscriptCallee,
		},
		memberRules: map[string]string{
			"attribute": "attribute",
		},
		builtins:    gdscriptBuiltins,
		keywords:    gdscriptKeywords,
		deferCalls:  true,
		recoverErrs: true,
	}
	return &gdscriptExtractor{engine: e}
}

func gdscriptCallee(b *extract.Base, node *sitter.Node) (string, bool) {
	if fn := node.ChildByFieldName("function"); fn != nil {
		return calleeName(b, fn)
	}
	return firstChildCallee(b, node)
}
