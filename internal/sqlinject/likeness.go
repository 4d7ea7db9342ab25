package sqlinject

import (
	"regexp"
	"strings"

	"github.com/codeguard-dev/codeguard/internal/jsast"
)

// Statement-shaped text: a SQL keyword at the very start followed by more
// tokens. UI strings legitimately contain words like "select" or "update"
// (styling class names), so the keyword must stand alone.
var statementStartRe = regexp.MustCompile(`(?i)^(SELECT|INSERT|UPDATE|DELETE|WITH|BEGIN|CREATE|ALTER|DROP)\b\s+\S`)

// Clause-shaped text: a recognizable statement embedded anywhere in larger
// prose, judged by keyword pairs with content between them.
// Whitespace-delimited keywords keep builder chains like select().from(t)
// from matching.
var clauseShapeRe = regexp.MustCompile(`(?i)(\bSELECT\s+.+\s+FROM\s+|\bINSERT\s+INTO\s+|\bUPDATE\s+.+\s+SET\s+|\bDELETE\s+FROM\s+)`)

var whitespaceRe = regexp.MustCompile(`\s+`)

// LooksLikeSQL classifies normalized candidate text as resembling a SQL
// statement. Both the statement-start and clause-shape tests are needed:
// the first catches statement-shaped literals, the second catches statements
// buried inside larger text.
func LooksLikeSQL(text string) bool {
	normalized := strings.ReplaceAll(text, "`", " ")
	normalized = whitespaceRe.ReplaceAllString(normalized, " ")
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return false
	}
	return statementStartRe.MatchString(normalized) || clauseShapeRe.MatchString(normalized)
}

// HintText extracts the statically-known textual content of a node for the
// SQL-likeness test.
//
// Interpolated values are invisible: they cannot be known statically.
// Addition chains flatten recursively, keeping only string-literal and
// template fragments joined by single spaces. Anything else falls back to
// the node's raw source text; the fallback is expected and common.
func HintText(node jsast.Node, source string) string {
	switch n := node.(type) {
	case *jsast.StringLit:
		return n.Value
	case *jsast.TemplateLit:
		return n.StaticText()
	case *jsast.Add:
		fragments := flattenStringFragments(n)
		return strings.Join(fragments, " ")
	default:
		return rawText(node, source)
	}
}

// flattenStringFragments walks an addition tree and collects the hint text
// of every string-literal or template operand, left to right.
func flattenStringFragments(node jsast.Node) []string {
	switch n := node.(type) {
	case *jsast.Add:
		return append(flattenStringFragments(n.Left), flattenStringFragments(n.Right)...)
	case *jsast.StringLit:
		return []string{n.Value}
	case *jsast.TemplateLit:
		return []string{n.StaticText()}
	default:
		return nil
	}
}

// containsStringLiteral reports whether an addition tree holds at least one
// plain string or no-substitution template operand anywhere.
func containsStringLiteral(node jsast.Node) bool {
	switch n := node.(type) {
	case *jsast.Add:
		return containsStringLiteral(n.Left) || containsStringLiteral(n.Right)
	case *jsast.StringLit:
		return true
	case *jsast.TemplateLit:
		return n.SlotCount() == 0
	default:
		return false
	}
}

func rawText(node jsast.Node, source string) string {
	start, end := node.Pos(), node.End()
	if start < 0 || end > len(source) || start > end {
		return ""
	}
	return source[start:end]
}
