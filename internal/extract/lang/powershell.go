package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// PowerShell extraction. Cmdlet invocations are commands, $assignments are
// variables and class blocks carry methods and properties. The common
// Verb-Noun cmdlets are deny-listed so call resolution only tracks
// user-defined functions.

var powershellBuiltins = set(
	"Write-Host", "Write-Output", "Write-Error", "Write-Warning",
	"Write-Verbose", "Write-Debug", "Get-Item", "Set-Item", "Get-ChildItem",
	"Get-Content", "Set-Content", "Add-Content", "Remove-Item", "New-Item",
	"Copy-Item", "Move-Item", "Test-Path", "Join-Path", "Split-Path",
	"ForEach-Object", "Where-Object", "Select-Object", "Sort-Object",
	"Measure-Object", "Out-Null", "Out-File", "Out-String", "New-Object",
	"Import-Module", "Export-ModuleMember", "Invoke-Expression",
	"Invoke-WebRequest", "Invoke-RestMethod", "Start-Process", "Get-Date",
	"Get-Location", "Set-Location", "Read-Host",
)

var powershellKeywords = set(
	"begin", "break", "catch", "class", "continue", "data", "do",
	"dynamicparam", "else", "elseif", "end", "enum", "exit", "filter",
	"finally", "for", "foreach", "function", "hidden", "if", "in", "param",
	"process", "return", "static", "switch", "throw", "trap", "try", "until",
	"using", "var", "while", "workflow",
)

type powershellExtractor struct {
	*engine
	classIDs map[string]struct{}
}

func newPowerShellExtractor(base *extract.Base) *powershellExtractor {
	e := &engine{
		base: base,
		callRules: map[string]calleeFunc{
			"command":               powershellCommandCallee,
			"invokation_expression": firstChildCallee,
		},
		memberRules: map[string]string{
			"member_access": "member_name",
		},
		refKinds:    set("variable"),
		builtins:    powershellBuiltins,
		keywords:    powershellKeywords,
		deferCalls:  true,
		recoverErrs: true,
	}
	p := &powershellExtractor{engine: e, classIDs: map[string]struct{}{}}
	e.symbolHook = p.symbols
	return p
}

func (p *powershellExtractor) symbols(node *sitter.Node, parentID string) ([]extract.Symbol, bool) {
	b := p.base
	switch node.Kind() {
	case "function_statement":
		name := b.NodeText(extract.FindChildByKind(node, "function_name"))
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindFunction, extract.SymbolOpts{
			Signature: extract.FirstLine(b.NodeText(node)),
			ParentID:  parentID,
		})
		return []extract.Symbol{sym}, true

	case "class_statement":
		head := extract.FirstLine(b.NodeText(node))
		name := powershellClassName(head)
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindClass, extract.SymbolOpts{
			Signature: head,
			ParentID:  parentID,
		})
		p.classIDs[sym.ID] = struct{}{}
		return []extract.Symbol{sym}, true

	case "class_method_definition":
		name := b.NodeText(extract.FindChildByKind(node, "simple_name"))
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindMethod, extract.SymbolOpts{
			Signature: extract.FirstLine(b.NodeText(node)),
			ParentID:  parentID,
		})
		return []extract.Symbol{sym}, true

	case "class_property_definition":
		name := strings.TrimPrefix(b.NodeText(extract.FindChildByKind(node, "variable")), "$")
		if name == "" {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindProperty, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			ParentID:       parentID,
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true

	case "assignment_expression":
		// Only top-level $name = ... assignments declare a variable.
		if parentID != "" {
			return nil, true
		}
		left := node.NamedChild(0)
		if left == nil {
			return nil, true
		}
		name := strings.TrimPrefix(strings.TrimSpace(b.NodeText(left)), "$")
		if name == "" || strings.ContainsAny(name, ".[($") {
			return nil, true
		}
		sym := b.NewSymbol(node, name, extract.KindVariable, extract.SymbolOpts{
			Signature:      extract.FirstLine(b.NodeText(node)),
			ParentID:       parentID,
			SkipDocComment: true,
		})
		return []extract.Symbol{sym}, true
	}
	return nil, false
}

func powershellClassName(head string) string {
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(head), "class"))
	for i, r := range rest {
		if r == ' ' || r == ':' || r == '{' {
			return strings.TrimSpace(rest[:i])
		}
	}
	return rest
}

func powershellCommandCallee(b *extract.Base, node *sitter.Node) (string, bool) {
	name := b.NodeText(extract.FindChildByKind(node, "command_name"))
	return name, name != ""
}
