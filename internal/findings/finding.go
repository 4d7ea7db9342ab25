// Package findings holds the domain model shared by both detectors.
package findings

import (
	"sort"
	"strconv"
)

// Finding is one reported issue instance.
type Finding struct {
	Rule    string `json:"rule"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// Key identifies a finding for deduplication. A single source construct can
// trigger matching logic more than once, so findings with identical keys
// collapse to one.
func (f Finding) Key() string {
	return f.Rule + "\x00" + f.File + "\x00" + strconv.Itoa(f.Line) + "\x00" + strconv.Itoa(f.Column) + "\x00" + f.Message
}

// Dedupe collapses findings sharing an identical (rule, file, line, column,
// message) tuple, preserving first-seen order.
func Dedupe(in []Finding) []Finding {
	seen := make(map[string]struct{}, len(in))
	out := make([]Finding, 0, len(in))
	for _, f := range in {
		key := f.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}

// Sort orders findings deterministically: by file, line, column, then rule,
// so output stays stable build-to-build for diffing in CI.
func Sort(in []Finding) {
	sort.SliceStable(in, func(i, j int) bool {
		a, b := in[i], in[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.Message < b.Message
	})
}
