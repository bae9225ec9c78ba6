package lang

import (
	"github.com/mvp-joe/codegraph/internal/extract"
)

// Shell extraction. Commands are call sites, functions and assignments are
// the only declarations, and every $expansion is a variable reference. Shell
// has no type annotations.

var bashBuiltins = set(
	"echo", "printf", "cd", "ls", "rm", "mkdir", "rmdir", "cp", "mv", "cat",
	"grep", "sed", "awk", "cut", "sort", "uniq", "head", "tail", "tr", "wc",
	"find", "xargs", "test", "exit", "return", "export", "source", "set",
	"unset", "local", "declare", "readonly", "read", "shift", "trap", "kill",
	"sleep", "touch", "chmod", "chown", "curl", "wget", "git", "tar", "eval",
	"exec", "wait", "true", "false", "which", "dirname", "basename", "pwd",
)

var bashKeywords = set(
	"if", "then", "else", "elif", "fi", "case", "esac", "for", "while",
	"until", "do", "done", "in", "function", "select", "time",
)

type bashExtractor struct {
	*engine
}

func newBashExtractor(base *extract.Base) *bashExtractor {
	e := &engine{
		base: base,
		symbolRules: map[string]symbolRule{
			"function_definition": {kind: extract.KindFunction, nameField: "name"},
			"variable_assignment": {kind: extract.KindVariable, nameField: "name", skipDoc: true},
		},
		callRules: map[string]calleeFunc{
			"command": calleeFromField("name"),
		},
		refKinds:    set("simple_expansion", "expansion"),
		builtins:    bashBuiltins,
		keywords:    bashKeywords,
		deferCalls:  true,
		recoverErrs: true,
	}
	return &bashExtractor{engine: e}
}
