// Package git lists the version-control-tracked file set of a repository.
package git

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNotARepository is returned when the scan root is not inside a git
// repository. Callers must treat this as fatal: an empty tracked-file list
// must never be mistaken for a clean scan.
var ErrNotARepository = fmt.Errorf("not a git repository")

// ListTrackedFiles returns every path tracked at HEAD, one repository-relative
// forward-slash path per entry.
func ListTrackedFiles(repoPath string) ([]string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotARepository, repoPath)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD of %q: %w", repoPath, err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD tree: %w", err)
	}

	var paths []string
	err = tree.Files().ForEach(func(f *object.File) error {
		paths = append(paths, f.Name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate tracked files: %w", err)
	}
	return paths, nil
}
