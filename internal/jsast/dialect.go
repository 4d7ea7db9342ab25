package jsast

import (
	"path/filepath"
	"regexp"
	"strings"
)

// region is a slice of the original text together with its base offset.
type region struct {
	src  string
	base int
}

// Markup-embedded dialects keep their program text inside <script> blocks;
// plain dialects are parsed whole.
var markupExtensions = map[string]struct{}{
	".svelte": {},
	".vue":    {},
	".astro":  {},
	".html":   {},
}

var scriptOpenRe = regexp.MustCompile(`(?is)<script[^>]*>`)
var scriptCloseRe = regexp.MustCompile(`(?i)</script>`)

// scriptRegions returns the parseable regions of a file honoring the
// dialect its extension declares.
func scriptRegions(text, path string) []region {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := markupExtensions[ext]; !ok {
		return []region{{src: text, base: 0}}
	}

	var regions []region
	rest := text
	base := 0
	for {
		open := scriptOpenRe.FindStringIndex(rest)
		if open == nil {
			break
		}
		bodyStart := open[1]
		closeIdx := scriptCloseRe.FindStringIndex(rest[bodyStart:])
		bodyEnd := len(rest)
		nextBase := len(rest)
		if closeIdx != nil {
			bodyEnd = bodyStart + closeIdx[0]
			nextBase = bodyStart + closeIdx[1]
		}
		regions = append(regions, region{
			src:  rest[bodyStart:bodyEnd],
			base: base + bodyStart,
		})
		base += nextBase
		rest = rest[nextBase:]
	}
	return regions
}
