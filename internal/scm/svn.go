package scm

import (
	"context"

	"github.com/Iron-Ham/jdiff/internal/command"
)

// SvnProvider drives the svn command-line client. Subversion tags are
// plain URL paths, so Repository.Tag is not used.
type SvnProvider struct {
	exec command.Executor
}

// NewSvnProvider creates an svn provider using exec to run svn.
func NewSvnProvider(exec command.Executor) *SvnProvider {
	return &SvnProvider{exec: exec}
}

// Name implements Provider.
func (s *SvnProvider) Name() string {
	return "svn"
}

// Checkout implements Provider.
func (s *SvnProvider) Checkout(ctx context.Context, repo Repository, fs FileSet) error {
	output, err := s.exec.Run(ctx, parentDir(fs.Base), "svn", "checkout", "--non-interactive", "--quiet", repo.URL, fs.Base)
	if err != nil {
		return clientFailure(s.Name(), "checkout", repo, fs, output, err)
	}
	return nil
}

// Update implements Provider.
func (s *SvnProvider) Update(ctx context.Context, repo Repository, fs FileSet) error {
	output, err := s.exec.Run(ctx, fs.Base, "svn", "update", "--non-interactive", "--quiet")
	if err != nil {
		return clientFailure(s.Name(), "update", repo, fs, output, err)
	}
	return nil
}
