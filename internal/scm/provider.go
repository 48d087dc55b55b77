package scm

import (
	"context"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Iron-Ham/jdiff/internal/command"
	"github.com/Iron-Ham/jdiff/internal/errors"
)

// FileSet is the scope of a provider operation: a base directory with
// optional include and exclude patterns. Fetcher always passes an
// unfiltered set, and the providers here operate on whole trees.
type FileSet struct {
	Base     string
	Includes []string
	Excludes []string
}

// Provider performs working-copy operations for one SCM type.
//
// Implementations return *errors.ScmError on failure, carrying the
// provider's message and the client's output.
type Provider interface {
	// Name is the provider id used in connection URLs.
	Name() string
	// Checkout creates a working copy of repo in fs.Base, which exists and
	// is empty.
	Checkout(ctx context.Context, repo Repository, fs FileSet) error
	// Update refreshes the existing working copy in fs.Base.
	Update(ctx context.Context, repo Repository, fs FileSet) error
}

// Registry maps provider ids to providers.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a registry holding providers.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// DefaultRegistry returns a registry with the git and svn providers
// running their clients through exec.
func DefaultRegistry(exec command.Executor) *Registry {
	return NewRegistry(NewGitProvider(exec), NewSvnProvider(exec))
}

// Register adds or replaces a provider.
func (r *Registry) Register(p Provider) {
	r.providers[strings.ToLower(p.Name())] = p
}

// Lookup returns the provider for id.
func (r *Registry) Lookup(id string) (Provider, error) {
	p, ok := r.providers[strings.ToLower(id)]
	if !ok {
		return nil, errors.NewConfigError("no provider for SCM type "+id+" (supported: "+strings.Join(r.Names(), ", ")+")", errors.ErrUnsupportedScm).
			WithField("scm.connection").
			WithValue(id)
	}
	return p, nil
}

// Names returns the registered provider ids, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// clientFailure builds the ScmError for a failed client invocation.
func clientFailure(provider, op string, repo Repository, fs FileSet, output []byte, cause error) error {
	return errors.NewScmError(op+" failed", cause).
		WithConnection(repo.Connection).
		WithDirectory(fs.Base).
		WithProviderMessage(provider + " " + op + " exited with status " + exitStatus(cause)).
		WithCommandOutput(strings.TrimSpace(string(output)))
}

func exitStatus(err error) string {
	code := command.ExitCode(err)
	if code < 0 {
		return "unknown"
	}
	return strconv.Itoa(code)
}

// parentDir returns the directory a checkout command runs in.
func parentDir(base string) string {
	return filepath.Dir(filepath.Clean(base))
}
