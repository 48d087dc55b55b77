package scm

import (
	"context"
	"os"

	"github.com/Iron-Ham/jdiff/internal/errors"
	"github.com/Iron-Ham/jdiff/internal/logging"
	"github.com/Iron-Ham/jdiff/internal/pom"
)

// Action is what Fetch did to the target directory.
type Action int

const (
	// ActionCheckout created a fresh working copy.
	ActionCheckout Action = iota
	// ActionUpdate refreshed an existing working copy.
	ActionUpdate
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionCheckout:
		return "checkout"
	case ActionUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// Fetcher ensures a directory holds a working copy of a project's sources.
type Fetcher struct {
	registry *Registry
	logger   *logging.Logger
}

// NewFetcher creates a Fetcher. A nil logger disables logging.
func NewFetcher(registry *Registry, logger *logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Fetcher{registry: registry, logger: logger.WithPhase("fetch")}
}

// Fetch populates dir with the sources of project.
//
// When dir does not exist it is created and checked out. When it exists
// and force is set it is removed first and checked out again. Otherwise
// the existing working copy is updated.
//
// The connection is validated before the filesystem is touched, so a
// missing or unsupported connection leaves dir alone. A failed checkout
// removes dir again, so the next run checks out instead of updating.
func (f *Fetcher) Fetch(ctx context.Context, project *pom.Project, dir string, force bool) (Action, error) {
	repo, err := RepositoryFor(project)
	if err != nil {
		return 0, err
	}
	provider, err := f.registry.Lookup(repo.Provider)
	if err != nil {
		return 0, err
	}

	exists := true
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		exists = false
	} else if err != nil {
		return 0, errors.NewScmError("cannot inspect checkout directory", err).WithDirectory(dir)
	}

	if exists && force {
		f.logger.Info("removing existing checkout", "dir", dir)
		if err := os.RemoveAll(dir); err != nil {
			return 0, errors.NewScmError("failed to remove checkout directory", err).WithDirectory(dir)
		}
		exists = false
	}

	fs := FileSet{Base: dir}
	if !exists {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, errors.NewScmError("failed to create checkout directory", err).WithDirectory(dir)
		}
		f.logger.Info("performing checkout", "dir", dir, "provider", provider.Name(), "tag", repo.Tag)
		if err := provider.Checkout(ctx, repo, fs); err != nil {
			// A half-populated directory would be taken for a working copy
			// and updated on the next run.
			if rmErr := os.RemoveAll(dir); rmErr != nil {
				f.logger.Warn("failed to remove incomplete checkout", "dir", dir, "error", rmErr.Error())
			}
			return 0, err
		}
		return ActionCheckout, nil
	}

	f.logger.Info("performing update", "dir", dir, "provider", provider.Name(), "tag", repo.Tag)
	if err := provider.Update(ctx, repo, fs); err != nil {
		return 0, err
	}
	return ActionUpdate, nil
}
