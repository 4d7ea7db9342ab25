package collector

import (
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeguard-dev/codeguard/internal/git"
)

func writeFiles(t *testing.T, root string, paths map[string]string) {
	t.Helper()
	for name, content := range paths {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

func TestCollectTree(t *testing.T) {
	repo := t.TempDir()
	writeFiles(t, repo, map[string]string{
		"app/pages/index.tsx":         "export {}",
		"app/lib/db.ts":               "export {}",
		"app/node_modules/x/index.js": "module.exports = {}",
		"app/generated/client.ts":     "export {}",
		"app/styles/site.css":         "body {}",
		"server/api/users.ts":         "export {}",
		"server/migrations/001.sql":   "CREATE TABLE t (id int);",
		"scripts/check.ts":            "export {}",
		"docs/guide.md":               "# guide",
	})

	got, err := CollectTree(repo, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"app/lib/db.ts",
		"app/pages/index.tsx",
		"scripts/check.ts",
		"server/api/users.ts",
	}, got)
}

func TestCollectTreeCustomRoots(t *testing.T) {
	repo := t.TempDir()
	writeFiles(t, repo, map[string]string{
		"src/a.ts": "export {}",
		"app/b.ts": "export {}",
	})

	got, err := CollectTree(repo, Options{Roots: []string{"src"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts"}, got)
}

func TestCollectTreeMissingRootSkipped(t *testing.T) {
	repo := t.TempDir()
	writeFiles(t, repo, map[string]string{"app/a.ts": "export {}"})

	got, err := CollectTree(repo, Options{Roots: []string{"app", "server"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"app/a.ts"}, got)
}

func TestCollectTracked(t *testing.T) {
	repo := t.TempDir()
	writeFiles(t, repo, map[string]string{
		"app/a.ts":                  "export {}",
		".env.example":              "KEY=value",
		"node_modules/pkg/index.js": "module.exports = {}",
		"server/migrations/001.sql": "CREATE TABLE t (id int);",
		"README.md":                 "# readme",
	})

	r, err := gogit.PlainInit(repo, false)
	require.NoError(t, err)
	wt, err := r.Worktree()
	require.NoError(t, err)
	for _, name := range []string{"app/a.ts", ".env.example", "node_modules/pkg/index.js", "server/migrations/001.sql", "README.md"} {
		_, err = wt.Add(name)
		require.NoError(t, err)
	}
	_, err = wt.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com"},
	})
	require.NoError(t, err)

	got, err := CollectTracked(repo, Options{})
	require.NoError(t, err)
	// No extension filter in tracked mode, but exclusion rules still apply.
	assert.Equal(t, []string{".env.example", "README.md", "app/a.ts"}, got)
}

func TestCollectTrackedNotARepository(t *testing.T) {
	repo := t.TempDir()

	_, err := CollectTracked(repo, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, git.ErrNotARepository)
}
