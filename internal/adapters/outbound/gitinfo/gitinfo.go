package gitinfo

import (
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/abanremit/readycheck/internal/domain"
)

// Adapter implements domain.GitInfo using go-git, so the report can
// record which frontend revision was audited.
type Adapter struct{}

var _ domain.GitInfo = (*Adapter)(nil)

func New() *Adapter { return &Adapter{} }

func (a *Adapter) IsGitRepo(dir string) bool {
	_, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	return err == nil
}

func (a *Adapter) CommitHash(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	return head.Hash().String(), nil
}
