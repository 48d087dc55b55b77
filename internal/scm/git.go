package scm

import (
	"context"

	"github.com/Iron-Ham/jdiff/internal/command"
)

// GitProvider drives the git command-line client.
type GitProvider struct {
	exec command.Executor
}

// NewGitProvider creates a git provider using exec to run git.
func NewGitProvider(exec command.Executor) *GitProvider {
	return &GitProvider{exec: exec}
}

// Name implements Provider.
func (g *GitProvider) Name() string {
	return "git"
}

// Checkout clones repo into fs.Base. A tag clones that tag or branch.
func (g *GitProvider) Checkout(ctx context.Context, repo Repository, fs FileSet) error {
	args := []string{"clone", "--quiet"}
	if repo.Tag != "" {
		args = append(args, "--branch", repo.Tag)
	}
	args = append(args, repo.URL, fs.Base)

	output, err := g.exec.Run(ctx, parentDir(fs.Base), "git", args...)
	if err != nil {
		return clientFailure(g.Name(), "checkout", repo, fs, output, err)
	}
	return nil
}

// Update refreshes the working copy in fs.Base. With a tag, the tag is
// fetched and checked out; otherwise the current branch is fast-forwarded.
func (g *GitProvider) Update(ctx context.Context, repo Repository, fs FileSet) error {
	if repo.Tag != "" {
		output, err := g.exec.Run(ctx, fs.Base, "git", "fetch", "--quiet", "--tags", "origin")
		if err != nil {
			return clientFailure(g.Name(), "update", repo, fs, output, err)
		}
		output, err = g.exec.Run(ctx, fs.Base, "git", "checkout", "--quiet", repo.Tag)
		if err != nil {
			return clientFailure(g.Name(), "update", repo, fs, output, err)
		}
		return nil
	}

	output, err := g.exec.Run(ctx, fs.Base, "git", "pull", "--quiet", "--ff-only")
	if err != nil {
		return clientFailure(g.Name(), "update", repo, fs, output, err)
	}
	return nil
}
