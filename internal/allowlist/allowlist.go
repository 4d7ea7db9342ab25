// Package allowlist loads and validates the JSON exception documents that
// suppress accepted findings. The trust model fails closed: a malformed or
// expired entry never suppresses anything and is surfaced as a config error.
package allowlist

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/codeguard-dev/codeguard/pkg/shared/files"
)

// Entry is one documented, time-boxed exception suppressing a (path, rule)
// pair. Matching is exact-path and case-sensitive; there is no globbing.
type Entry struct {
	Path      string `json:"path"`
	Rule      string `json:"rule"`
	Reason    string `json:"reason"`
	ExpiresOn string `json:"expiresOn"`
}

// document is the on-disk shape. Unknown fields are ignored, not rejected,
// to remain forward-compatible.
type document struct {
	Entries []Entry `json:"entries"`
}

var dateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// Date is a calendar date encoded as year*10000 + month*100 + day for cheap
// integer comparison.
type Date int

// DateOf encodes t's calendar date.
func DateOf(t time.Time) Date {
	return Date(t.Year()*10000 + int(t.Month())*100 + t.Day())
}

// ParseDate parses a strict YYYY-MM-DD string, rejecting dates that do not
// round-trip through calendar construction (e.g. 2024-02-30).
func ParseDate(s string) (Date, error) {
	if !dateRe.MatchString(s) {
		return 0, fmt.Errorf("date %q is not in YYYY-MM-DD format", s)
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, fmt.Errorf("date %q is not a valid calendar date", s)
	}
	return DateOf(t), nil
}

// Load reads and validates the allowlist document at path. Per-entry
// problems never abort validation of sibling entries; document-level
// problems yield empty entries plus a single error string. The returned
// entries are the usable suppression set only.
func Load(path string, referenceDate Date, validRules []string) (entries []Entry, errors []string) {
	resolved, err := files.ExpandPath(path)
	if err != nil {
		return nil, []string{fmt.Sprintf("allowlist %s: cannot resolve path: %v", path, err)}
	}
	if err := files.ValidatePath(resolved); err != nil {
		return nil, []string{fmt.Sprintf("allowlist %s: %v", path, err)}
	}
	data, err := files.ReadText(resolved)
	if err != nil {
		return nil, []string{fmt.Sprintf("allowlist %s: cannot read: %v", path, err)}
	}

	var doc document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, []string{fmt.Sprintf("allowlist %s: invalid JSON: %v", path, err)}
	}
	if doc.Entries == nil {
		return nil, []string{fmt.Sprintf("allowlist %s: document must contain an \"entries\" array", path)}
	}

	ruleSet := make(map[string]struct{}, len(validRules))
	for _, r := range validRules {
		ruleSet[r] = struct{}{}
	}

	for i, entry := range doc.Entries {
		if errs := validateEntry(i, entry, referenceDate, ruleSet); len(errs) > 0 {
			for _, e := range errs {
				errors = append(errors, fmt.Sprintf("allowlist %s: %s", path, e))
			}
			continue
		}
		entries = append(entries, entry)
	}
	return entries, errors
}

// validateEntry checks all four fields. Any failure renders the whole entry
// unusable; it is never partially trusted.
func validateEntry(index int, e Entry, referenceDate Date, validRules map[string]struct{}) []string {
	var errs []string
	where := fmt.Sprintf("entry %d", index)

	if strings.TrimSpace(e.Path) == "" {
		errs = append(errs, fmt.Sprintf("%s: missing or blank \"path\"", where))
	}
	if strings.TrimSpace(e.Rule) == "" {
		errs = append(errs, fmt.Sprintf("%s: missing or blank \"rule\"", where))
	} else if _, ok := validRules[e.Rule]; !ok {
		errs = append(errs, fmt.Sprintf("%s: unknown rule %q", where, e.Rule))
	}
	if strings.TrimSpace(e.Reason) == "" {
		errs = append(errs, fmt.Sprintf("%s (%s, %s): missing or blank \"reason\"", where, e.Path, e.Rule))
	}

	if strings.TrimSpace(e.ExpiresOn) == "" {
		errs = append(errs, fmt.Sprintf("%s (%s, %s): missing or blank \"expiresOn\"", where, e.Path, e.Rule))
	} else if expires, err := ParseDate(e.ExpiresOn); err != nil {
		errs = append(errs, fmt.Sprintf("%s (%s, %s): %v", where, e.Path, e.Rule, err))
	} else if expires < referenceDate {
		errs = append(errs, fmt.Sprintf("%s (%s, %s): expired on %s; renew or remove it", where, e.Path, e.Rule, e.ExpiresOn))
	}

	return errs
}
