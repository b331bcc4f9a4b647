// Package git locates git worktrees using go-git.
package git

import (
	"errors"
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"

	"github.com/orion-lang/orion/internal/domain"
)

// Ensure Client implements domain.RepoLocator.
var _ domain.RepoLocator = (*Client)(nil)

// Client provides repository lookups without shelling out to git.
type Client struct{}

// NewClient creates a new git client.
func NewClient() *Client {
	return &Client{}
}

// RepoRoot returns the worktree root containing dir.
// It walks up parent directories the same way "git rev-parse --show-toplevel" does.
// Bare repositories have no worktree and are reported as ErrNotGitRepository.
func (c *Client) RepoRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return "", domain.ErrNotGitRepository
	}
	if err != nil {
		return "", fmt.Errorf("open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if errors.Is(err, gogit.ErrIsBareRepository) {
		return "", domain.ErrNotGitRepository
	}
	if err != nil {
		return "", fmt.Errorf("open worktree: %w", err)
	}

	return wt.Filesystem.Root(), nil
}
