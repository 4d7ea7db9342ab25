package allowlist

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sqlRules = []string{"SQL001", "SQL002", "SQL003", "SQL004"}

// reference date for all tests: 2026-06-01
var refDate = mustDate("2026-06-01")

func mustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exceptions.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "valid", input: "2026-06-01", want: 20260601},
		{name: "leap day", input: "2024-02-29", want: 20240229},
		{name: "impossible day", input: "2024-02-30", wantErr: true},
		{name: "wrong format", input: "2024/02/01", wantErr: true},
		{name: "missing zero padding", input: "2024-2-1", wantErr: true},
		{name: "trailing garbage", input: "2024-02-01x", wantErr: true},
		{name: "month out of range", input: "2024-13-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2026, time.August, 26, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, Date(20260826), DateOf(ts))
}

func TestLoadValidDocument(t *testing.T) {
	path := writeDoc(t, `{
		"entries": [
			{
				"path": "server/reports.ts",
				"rule": "SQL003",
				"reason": "static report query reviewed by security",
				"expiresOn": "2027-01-01"
			}
		]
	}`)

	entries, errs := Load(path, refDate, sqlRules)
	assert.Empty(t, errs)
	require.Len(t, entries, 1)
	assert.Equal(t, "server/reports.ts", entries[0].Path)
	assert.Equal(t, "SQL003", entries[0].Rule)
}

func TestLoadUnknownFieldsIgnored(t *testing.T) {
	path := writeDoc(t, `{
		"entries": [
			{
				"path": "server/reports.ts",
				"rule": "SQL003",
				"reason": "reviewed",
				"expiresOn": "2027-01-01",
				"addedBy": "someone"
			}
		]
	}`)

	entries, errs := Load(path, refDate, sqlRules)
	assert.Empty(t, errs)
	assert.Len(t, entries, 1)
}

func TestLoadDocumentLevelErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid json", content: `{"entries": [`},
		{name: "missing entries key", content: `{}`},
		{name: "entries not an array", content: `{"entries": 5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDoc(t, tt.content)
			entries, errs := Load(path, refDate, sqlRules)
			assert.Empty(t, entries)
			assert.Len(t, errs, 1)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	entries, errs := Load(filepath.Join(t.TempDir(), "nope.json"), refDate, sqlRules)
	assert.Empty(t, entries)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "stat")
}

func TestLoadPerEntryValidation(t *testing.T) {
	path := writeDoc(t, `{
		"entries": [
			{"path": "a.ts", "rule": "SQL001", "reason": "ok", "expiresOn": "2027-01-01"},
			{"path": "", "rule": "SQL001", "reason": "ok", "expiresOn": "2027-01-01"},
			{"path": "b.ts", "rule": "NOPE01", "reason": "ok", "expiresOn": "2027-01-01"},
			{"path": "c.ts", "rule": "SQL002", "reason": "", "expiresOn": "2027-01-01"},
			{"path": "d.ts", "rule": "SQL002", "reason": "ok", "expiresOn": "01/01/2027"},
			{"path": "e.ts", "rule": "SQL004", "reason": "ok", "expiresOn": "2026-05-31"}
		]
	}`)

	entries, errs := Load(path, refDate, sqlRules)

	// One bad entry never aborts validation of its siblings.
	require.Len(t, entries, 1)
	assert.Equal(t, "a.ts", entries[0].Path)
	assert.Len(t, errs, 5)
}

func TestLoadExpiryBoundary(t *testing.T) {
	doc := `{
		"entries": [
			{"path": "a.ts", "rule": "SQL001", "reason": "ok", "expiresOn": "2026-06-01"}
		]
	}`

	t.Run("expiring today still suppresses", func(t *testing.T) {
		entries, errs := Load(writeDoc(t, doc), refDate, sqlRules)
		assert.Empty(t, errs)
		assert.Len(t, entries, 1)
	})

	t.Run("expired yesterday fails closed", func(t *testing.T) {
		entries, errs := Load(writeDoc(t, doc), mustDate("2026-06-02"), sqlRules)
		assert.Empty(t, entries)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "expired")
	})
}
