// Package sqlinject detects SQL-injection-prone code shapes: raw-unsafe
// execution calls, un-parameterized query calls, and SQL assembled through
// template interpolation or string concatenation.
package sqlinject

import (
	"fmt"
	"strings"

	"github.com/codeguard-dev/codeguard/internal/findings"
	"github.com/codeguard-dev/codeguard/internal/jsast"
	"github.com/codeguard-dev/codeguard/internal/textpos"
)

// Rule identifiers reported by this detector.
const (
	RuleRawUnsafe     = "SQL001"
	RuleTemplate      = "SQL002"
	RuleConcatenation = "SQL003"
	RuleQueryCall     = "SQL004"
)

// Rules enumerates every rule identifier this detector can emit, in order.
func Rules() []string {
	return []string{RuleRawUnsafe, RuleTemplate, RuleConcatenation, RuleQueryCall}
}

// RuleDescriptions maps each rule to its report description.
func RuleDescriptions() map[string]string {
	return map[string]string{
		RuleRawUnsafe:     "Call to a raw-unsafe execution method",
		RuleTemplate:      "SQL statement built with template interpolation",
		RuleConcatenation: "SQL statement assembled by string concatenation",
		RuleQueryCall:     "Un-parameterized call to a generic query method",
	}
}

// Raw-unsafe method names, matched after stripping one optional leading
// sigil. Calling either is the violation regardless of argument shape.
var rawUnsafeMethods = map[string]struct{}{
	"queryRawUnsafe":   {},
	"executeRawUnsafe": {},
}

// Analyze parses one file and applies the four rules in a single
// depth-first traversal. The path is reported verbatim in findings.
func Analyze(text, path string) []findings.Finding {
	roots := jsast.Parse(text, path)
	starts := textpos.Index(text)

	var found []findings.Finding
	report := func(rule string, node jsast.Node, message string) {
		line, column := textpos.Locate(starts, node.Pos())
		found = append(found, findings.Finding{
			Rule:    rule,
			File:    path,
			Line:    line,
			Column:  column,
			Message: message,
		})
	}

	for _, root := range roots {
		jsast.Walk(root, nil, func(node, parent jsast.Node) {
			switch n := node.(type) {
			case *jsast.Call:
				checkCall(n, text, report)
			case *jsast.TemplateLit:
				checkTemplate(n, report)
			case *jsast.Add:
				if _, inChain := parent.(*jsast.Add); !inChain {
					checkConcatenation(n, text, report)
				}
			}
		})
	}
	return found
}

func checkCall(call *jsast.Call, source string, report func(string, jsast.Node, string)) {
	name := jsast.CalleeName(call.Callee)
	if name == "" {
		return
	}

	if _, ok := rawUnsafeMethods[strings.TrimPrefix(name, "$")]; ok {
		report(RuleRawUnsafe, call,
			fmt.Sprintf("call to raw-unsafe method %q bypasses parameterization", name))
		return
	}

	if name == "query" && len(call.Args) > 0 {
		hint := HintText(call.Args[0], source)
		if LooksLikeSQL(hint) {
			report(RuleQueryCall, call,
				"query() called with a SQL string; use a parameterized statement")
		}
	}
}

func checkTemplate(tpl *jsast.TemplateLit, report func(string, jsast.Node, string)) {
	if tpl.SlotCount() == 0 {
		return
	}
	if LooksLikeSQL(tpl.StaticText()) {
		report(RuleTemplate, tpl,
			"SQL built with template interpolation; interpolated values are not escaped")
	}
}

func checkConcatenation(add *jsast.Add, source string, report func(string, jsast.Node, string)) {
	if !containsStringLiteral(add) {
		return
	}
	if LooksLikeSQL(HintText(add, source)) {
		report(RuleConcatenation, add,
			"SQL assembled by string concatenation; use a parameterized statement")
	}
}
