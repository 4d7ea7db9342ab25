package guard

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeguard-dev/codeguard/internal/allowlist"
	"github.com/codeguard-dev/codeguard/internal/findings"
	"github.com/codeguard-dev/codeguard/internal/sqlinject"
)

func sqlDetector() Detector {
	return Detector{
		Name:    "codeguard-sql",
		Rules:   sqlinject.Rules(),
		Mode:    ModeTree,
		Analyze: sqlinject.Analyze,
	}
}

func writeTree(t *testing.T, root string, tree map[string]string) {
	t.Helper()
	for name, content := range tree {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

const refDate = allowlist.Date(20260601)

func TestRunReportsFindings(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"server/db.ts":  `prisma.$queryRawUnsafe("SELECT * FROM users")`,
		"server/ui.ts":  `const label = "select an item";`,
		"app/widget.ts": "const cls = `select-none ${x}`;",
	})

	result, err := Run(sqlDetector(), Options{RepoRoot: root, ReferenceDate: refDate})
	require.NoError(t, err)

	assert.Equal(t, 3, result.ScannedFiles)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, "SQL001", result.Findings[0].Rule)
	assert.Equal(t, "server/db.ts", result.Findings[0].File)
	assert.Zero(t, result.SuppressedCount)
	assert.Empty(t, result.ConfigErrors)
	assert.Equal(t, 1, ExitCode(result))
}

func TestRunSuppressionRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"server/db.ts": `const sql = "SELECT * FROM users WHERE id = " + id;`,
	})

	opts := Options{RepoRoot: root, ReferenceDate: refDate}
	before, err := Run(sqlDetector(), opts)
	require.NoError(t, err)
	require.Len(t, before.Findings, 1)
	assert.Zero(t, before.SuppressedCount)

	allowPath := filepath.Join(root, "sql-exceptions.json")
	require.NoError(t, os.WriteFile(allowPath, []byte(`{
		"entries": [
			{"path": "server/db.ts", "rule": "SQL003", "reason": "reviewed", "expiresOn": "2027-01-01"}
		]
	}`), 0644))

	opts.AllowlistPath = allowPath
	after, err := Run(sqlDetector(), opts)
	require.NoError(t, err)
	assert.Len(t, after.Findings, len(before.Findings)-1)
	assert.Equal(t, before.SuppressedCount+1, after.SuppressedCount)
	assert.Empty(t, after.ConfigErrors)
	assert.Equal(t, 0, ExitCode(after))
}

func TestRunExpiredEntryFailsClosed(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"server/db.ts": `const sql = "SELECT * FROM users WHERE id = " + id;`,
	})
	allowPath := filepath.Join(root, "sql-exceptions.json")
	require.NoError(t, os.WriteFile(allowPath, []byte(`{
		"entries": [
			{"path": "server/db.ts", "rule": "SQL003", "reason": "reviewed", "expiresOn": "2026-05-31"}
		]
	}`), 0644))

	result, err := Run(sqlDetector(), Options{
		RepoRoot:      root,
		AllowlistPath: allowPath,
		ReferenceDate: refDate,
	})
	require.NoError(t, err)

	// The expired entry suppresses nothing and surfaces as a config error.
	assert.Len(t, result.Findings, 1)
	assert.Zero(t, result.SuppressedCount)
	require.Len(t, result.ConfigErrors, 1)
	assert.Contains(t, result.ConfigErrors[0], "expired")
	assert.Equal(t, 1, ExitCode(result))
}

func TestRunSuppressionIsExactPath(t *testing.T) {
	entries := []allowlist.Entry{{Path: "server/db.ts", Rule: "SQL003"}}
	in := []findings.Finding{
		{Rule: "SQL003", File: "server/db.ts"},
		{Rule: "SQL003", File: "server/DB.ts"},
		{Rule: "SQL003", File: "server/db.ts.bak"},
		{Rule: "SQL001", File: "server/db.ts"},
	}

	kept, suppressed := Suppress(in, entries)
	assert.Equal(t, 1, suppressed)
	assert.Len(t, kept, 3)
}

func TestRunDeterministicOutput(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"server/b.ts": "db.query(`SELECT * FROM b WHERE x = ${x}`)",
		"server/a.ts": `prisma.$executeRawUnsafe(stmt)`,
	})
	opts := Options{RepoRoot: root, ReferenceDate: refDate}

	render := func() string {
		result, err := Run(sqlDetector(), opts)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, RenderJSON(&buf, result))
		return buf.String()
	}

	first := render()
	second := render()
	assert.Equal(t, first, second)

	// Ordering is by file, then position.
	result, err := Run(sqlDetector(), opts)
	require.NoError(t, err)
	require.Len(t, result.Findings, 3)
	assert.Equal(t, "server/a.ts", result.Findings[0].File)
	assert.Equal(t, "server/b.ts", result.Findings[1].File)
}

func TestRunSkipsBinaryAndUnreadable(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"server/ok.ts":  `db.query("SELECT id FROM t")`,
		"server/bin.ts": "const x = 1;\x00\x01\x02",
	})

	result, err := Run(sqlDetector(), Options{RepoRoot: root, ReferenceDate: refDate})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ScannedFiles)
	assert.Len(t, result.Findings, 1)
}

func TestRenderText(t *testing.T) {
	result := ScanResult{
		ScannedFiles: 12,
		Findings: []findings.Finding{
			{Rule: "SQL003", File: "server/db.ts", Line: 3, Column: 13, Message: "SQL assembled by string concatenation"},
		},
		ConfigErrors:    []string{"allowlist x.json: entry 0: missing or blank \"reason\""},
		SuppressedCount: 2,
	}

	var out, errOut bytes.Buffer
	RenderText(&out, &errOut, "codeguard-sql", result)

	assert.Equal(t,
		"SQL003 server/db.ts:3:13 SQL assembled by string concatenation\n"+
			"allowlist x.json: entry 0: missing or blank \"reason\"\n",
		errOut.String())
	assert.Equal(t, "codeguard-sql: scanned 12 files, 1 finding(s), 1 config error(s), 2 suppressed\n", out.String())
}

func TestRenderTextClean(t *testing.T) {
	var out, errOut bytes.Buffer
	RenderText(&out, &errOut, "codeguard-sql", ScanResult{ScannedFiles: 4})

	assert.Empty(t, errOut.String())
	assert.Equal(t, "codeguard-sql: scanned 4 files, no findings\n", out.String())
}

func TestRenderSARIF(t *testing.T) {
	result := ScanResult{
		ScannedFiles: 1,
		Findings: []findings.Finding{
			{Rule: "SQL001", File: "server/db.ts", Line: 2, Column: 1, Message: "raw-unsafe call"},
		},
	}

	var buf bytes.Buffer
	err := RenderSARIF(&buf, "codeguard-sql", map[string]string{"SQL001": "raw-unsafe execution"}, result)
	require.NoError(t, err)

	text := buf.String()
	assert.Contains(t, text, `"2.1.0"`)
	assert.Contains(t, text, "SQL001")
	assert.Contains(t, text, "server/db.ts")
	assert.Contains(t, text, "codeguard-sql")
}
