// Package collector enumerates candidate source files for a scan.
//
// Two modes exist: a recursive tree walk over configured source roots, used
// by the SQL-injection detector, and a version-control tracked-file listing,
// used by the secrets detector (secrets may hide in any tracked file type, so
// that mode applies no extension filter).
package collector

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codeguard-dev/codeguard/internal/git"
	"github.com/codeguard-dev/codeguard/pkg/shared/files"
)

var (
	defaultRoots = []string{"app", "server", "scripts"}

	defaultExcludedDirs = map[string]struct{}{
		"node_modules": {},
		".git":         {},
		"dist":         {},
		"build":        {},
		"coverage":     {},
		".next":        {},
		"vendor":       {},
		"third_party":  {},
	}

	defaultExcludedPrefixes = []string{
		"server/migrations",
		"app/generated",
	}

	defaultAllowedExtensions = map[string]struct{}{
		".js":     {},
		".jsx":    {},
		".ts":     {},
		".tsx":    {},
		".svelte": {},
		".astro":  {},
		".vue":    {},
	}
)

// Options configures corpus enumeration. Zero values fall back to defaults.
type Options struct {
	Roots             []string
	ExcludedDirs      []string
	ExcludedPrefixes  []string
	AllowedExtensions []string
}

type ruleset struct {
	roots        []string
	excludedDirs map[string]struct{}
	prefixes     []string
	extensions   map[string]struct{}
}

func newRuleset(opts Options) ruleset {
	rs := ruleset{
		roots:        defaultRoots,
		excludedDirs: defaultExcludedDirs,
		prefixes:     defaultExcludedPrefixes,
		extensions:   defaultAllowedExtensions,
	}
	if len(opts.Roots) > 0 {
		rs.roots = opts.Roots
	}
	if len(opts.ExcludedDirs) > 0 {
		rs.excludedDirs = make(map[string]struct{}, len(opts.ExcludedDirs))
		for _, d := range opts.ExcludedDirs {
			rs.excludedDirs[d] = struct{}{}
		}
	}
	if len(opts.ExcludedPrefixes) > 0 {
		rs.prefixes = opts.ExcludedPrefixes
	}
	if len(opts.AllowedExtensions) > 0 {
		rs.extensions = make(map[string]struct{}, len(opts.AllowedExtensions))
		for _, e := range opts.AllowedExtensions {
			rs.extensions[strings.ToLower(e)] = struct{}{}
		}
	}
	return rs
}

// excluded reports whether a repository-relative forward-slash path falls
// under an excluded directory segment or an excluded path prefix.
func (rs ruleset) excluded(relPath string) bool {
	for _, segment := range strings.Split(relPath, "/") {
		if _, ok := rs.excludedDirs[segment]; ok {
			return true
		}
	}
	for _, prefix := range rs.prefixes {
		if relPath == prefix || strings.HasPrefix(relPath, prefix+"/") {
			return true
		}
	}
	return false
}

func (rs ruleset) allowedExtension(relPath string) bool {
	ext := strings.ToLower(filepath.Ext(relPath))
	_, ok := rs.extensions[ext]
	return ok
}

// CollectTree walks the configured source roots under repoRoot and returns an
// alphabetically sorted, deduplicated list of repository-relative paths that
// pass the exclusion and extension rules. Roots that do not exist are skipped.
func CollectTree(repoRoot string, opts Options) ([]string, error) {
	rs := newRuleset(opts)
	seen := make(map[string]struct{})

	for _, root := range rs.roots {
		rootPath := filepath.Join(repoRoot, filepath.FromSlash(root))
		info, err := os.Stat(rootPath)
		if err != nil || !info.IsDir() {
			continue
		}

		err = filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// A directory that vanished mid-walk is not a scan failure.
				return nil
			}
			rel, relErr := filepath.Rel(repoRoot, path)
			if relErr != nil {
				return relErr
			}
			rel = files.ToSlash(rel)

			if d.IsDir() {
				if path != rootPath && rs.excluded(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if rs.excluded(rel) || !rs.allowedExtension(rel) {
				return nil
			}
			seen[rel] = struct{}{}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return sortedKeys(seen), nil
}

// CollectTracked lists every version-control-tracked file under repoRoot and
// applies the exclusion rules but no extension filter. A repository that
// cannot be opened is a hard error; an incomplete file list must never be
// mistaken for a clean scan.
func CollectTracked(repoRoot string, opts Options) ([]string, error) {
	rs := newRuleset(opts)

	tracked, err := git.ListTrackedFiles(repoRoot)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(tracked))
	for _, rel := range tracked {
		rel = files.ToSlash(rel)
		if rs.excluded(rel) {
			continue
		}
		seen[rel] = struct{}{}
	}

	return sortedKeys(seen), nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
