// Package artifact turns a version specifier into a concrete version of
// the project's artifact.
//
// A specifier equal to the project's own version selects the project in
// hand without touching any repository. Pinned specifiers ("1.0", "[1.0]")
// are used as written. Anything else is matched against the release
// versions the repository source lists, and the highest match wins.
package artifact

import (
	"context"

	"github.com/Iron-Ham/jdiff/internal/errors"
	"github.com/Iron-Ham/jdiff/internal/logging"
	"github.com/Iron-Ham/jdiff/internal/pom"
	"github.com/Iron-Ham/jdiff/internal/repository"
	"github.com/Iron-Ham/jdiff/internal/version"
)

// Resolved is the outcome of a resolution. Version is empty when no
// published version satisfied the specifier.
type Resolved struct {
	GroupID    string
	ArtifactID string
	Version    string
	Packaging  string

	// Spec is the specifier the artifact was resolved from.
	Spec string
	// Current is set when the specifier named the project being built.
	Current bool
}

// Found reports whether a concrete version was selected.
func (r *Resolved) Found() bool {
	return r.Version != ""
}

// ID returns "groupId:artifactId:version".
func (r *Resolved) ID() string {
	return r.GroupID + ":" + r.ArtifactID + ":" + r.Version
}

// Resolver resolves version specifiers against a metadata source.
type Resolver struct {
	source repository.Source
	logger *logging.Logger
}

// NewResolver creates a Resolver. A nil logger disables logging.
func NewResolver(source repository.Source, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Resolver{source: source, logger: logger.WithPhase("resolve")}
}

// Resolve selects the version of project's artifact that spec denotes.
//
// Errors: a malformed spec yields ErrInvalidVersionSpec; a metadata
// transport failure yields a RepositoryError. Finding no matching version
// is not an error: the returned artifact has an empty Version.
func (r *Resolver) Resolve(ctx context.Context, spec string, project *pom.Project) (*Resolved, error) {
	resolved := &Resolved{
		GroupID:    project.GroupID,
		ArtifactID: project.ArtifactID,
		Packaging:  project.Packaging,
		Spec:       spec,
	}

	if spec == project.Version {
		resolved.Version = project.Version
		resolved.Current = true
		return resolved, nil
	}

	rng, err := version.ParseRange(spec)
	if err != nil {
		return nil, errors.NewConfigError("invalid version specifier", err).WithValue(spec)
	}

	if pinned, ok := rng.Pinned(); ok {
		resolved.Version = pinned.String()
		return resolved, nil
	}

	coords := repository.Coordinates{GroupID: project.GroupID, ArtifactID: project.ArtifactID}
	raw, err := r.source.Versions(ctx, coords)
	if err != nil {
		return nil, err
	}

	candidates := releases(raw, r.logger)
	match := rng.Match(candidates)
	if match == nil {
		r.logger.Info("unable to find a previous version of the project in the repository",
			"artifact", coords.String(),
			"range", spec,
			"candidates", len(candidates),
		)
		return resolved, nil
	}

	r.logger.Debug("resolved version", "artifact", coords.String(), "range", spec, "version", match.String())
	resolved.Version = match.String()
	return resolved, nil
}

// releases parses raw version strings and drops snapshots. Strings that
// do not parse as versions are skipped.
func releases(raw []string, logger *logging.Logger) []*version.Version {
	out := make([]*version.Version, 0, len(raw))
	for _, s := range raw {
		if version.IsSnapshot(s) {
			continue
		}
		v, err := version.Parse(s)
		if err != nil {
			logger.Debug("skipping unparseable version", "version", s)
			continue
		}
		out = append(out, v)
	}
	return out
}
