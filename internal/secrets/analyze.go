// Package secrets detects leaked credential literals by scanning raw file
// text with a fixed battery of regular expressions. No parsing is involved;
// secrets hide in any tracked file type.
package secrets

import (
	"fmt"
	"path"
	"strings"

	"github.com/codeguard-dev/codeguard/internal/findings"
	"github.com/codeguard-dev/codeguard/internal/textpos"
)

// The example environment file documents variable names with dummy values;
// it is always exempt.
const exampleEnvFile = ".env.example"

// Analyze scans one file's raw text and reports every non-exempt match.
// The path is reported verbatim in findings.
func Analyze(text, filePath string) []findings.Finding {
	if path.Base(filePath) == exampleEnvFile {
		return nil
	}

	starts := textpos.Index(text)
	var found []findings.Finding

	for _, p := range patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			match := text[loc[0]:loc[1]]
			lineText := containingLine(text, loc[0])

			if exempt(p.rule, match, lineText) {
				continue
			}

			line, column := textpos.Locate(starts, loc[0])
			found = append(found, findings.Finding{
				Rule:    p.rule,
				File:    filePath,
				Line:    line,
				Column:  column,
				Message: fmt.Sprintf("possible hardcoded secret: %s", p.message),
			})
		}
	}
	return found
}

// exempt applies the ignore heuristics: environment-accessor references
// excuse the API-key and assignment rules, and placeholder markers excuse
// the two literal-value rules. The private-key-block rule has no escape.
func exempt(rule, match, lineText string) bool {
	switch rule {
	case RuleAPIKey:
		if envAccessorRe.MatchString(lineText) {
			return true
		}
		return placeholder(match, lineText)
	case RuleAssignment:
		if envAccessorRe.MatchString(lineText) {
			return true
		}
		return placeholder(match, lineText)
	default:
		return false
	}
}

func placeholder(match, lineText string) bool {
	return placeholderRe.MatchString(match) || placeholderRe.MatchString(lineText)
}

// containingLine extracts the text of the line holding offset: from the
// preceding line terminator (or start of file) to the next one (or EOF).
func containingLine(text string, offset int) string {
	start := strings.LastIndexByte(text[:offset], '\n') + 1
	end := strings.IndexByte(text[offset:], '\n')
	if end < 0 {
		return text[start:]
	}
	return text[start : offset+end]
}
