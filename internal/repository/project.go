package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/Iron-Ham/jdiff/internal/errors"
	"github.com/Iron-Ham/jdiff/internal/pom"
)

// maxParentDepth bounds parent lookups of published models.
const maxParentDepth = 8

// POMSource fetches the published project model of an artifact version.
// A model the repository does not hold yields an error matching
// errors.ErrProjectNotFound.
type POMSource interface {
	POM(ctx context.Context, coords Coordinates, version string) ([]byte, error)
}

func pomNotFound(coords Coordinates, version string) error {
	return errors.NewNotFoundError("pom", coords.String()+":"+version).WithCause(errors.ErrProjectNotFound)
}

// POM implements POMSource.
func (l *Local) POM(_ context.Context, coords Coordinates, version string) ([]byte, error) {
	data, err := os.ReadFile(l.ArtifactPath(coords, version, "pom"))
	if os.IsNotExist(err) {
		return nil, pomNotFound(coords, version)
	}
	if err != nil {
		return nil, errors.NewRepositoryError("failed to read pom", err).
			WithCoordinates(coords.String() + ":" + version).
			WithRepository(l.Dir)
	}
	return data, nil
}

// POM implements POMSource.
func (r *Remote) POM(ctx context.Context, coords Coordinates, version string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/%s/%s-%s.pom", r.BaseURL, coords.Path(), version, coords.ArtifactID, version)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, r.fail("invalid pom request", coords, err)
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Join(errors.ErrCanceled, ctx.Err())
		}
		return nil, r.fail("pom request failed", coords, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, pomNotFound(coords, version)
	case resp.StatusCode != http.StatusOK:
		return nil, r.fail(fmt.Sprintf("unexpected status %s", resp.Status), coords, nil)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMetadataSize))
	if err != nil {
		return nil, r.fail("failed to read pom", coords, err)
	}
	return data, nil
}

// POM implements POMSource over the members that can fetch models; the
// first one holding the model wins.
func (c Chain) POM(ctx context.Context, coords Coordinates, version string) ([]byte, error) {
	for _, s := range c {
		ps, ok := s.(POMSource)
		if !ok {
			continue
		}
		data, err := ps.POM(ctx, coords, version)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, errors.ErrProjectNotFound) {
			return nil, err
		}
	}
	return nil, pomNotFound(coords, version)
}

// POM implements POMSource when the wrapped source does.
func (c *Cached) POM(ctx context.Context, coords Coordinates, version string) ([]byte, error) {
	ps, ok := c.source.(POMSource)
	if !ok {
		return nil, pomNotFound(coords, version)
	}
	return ps.POM(ctx, coords, version)
}

// LoadProject fetches and decodes the published model of
// coords:version. When the model declares no <scm> block it is
// inherited from the nearest published parent that has one.
func LoadProject(ctx context.Context, src POMSource, coords Coordinates, version string) (*pom.Project, error) {
	return loadProject(ctx, src, coords, version, 0)
}

func loadProject(ctx context.Context, src POMSource, coords Coordinates, version string, depth int) (*pom.Project, error) {
	data, err := src.POM(ctx, coords, version)
	if err != nil {
		return nil, err
	}
	p, err := pom.Decode(data, coords.String()+":"+version)
	if err != nil {
		return nil, err
	}
	if p.SCM != nil || p.Parent == nil || depth >= maxParentDepth {
		return p, nil
	}

	parentCoords := Coordinates{GroupID: p.Parent.GroupID, ArtifactID: p.Parent.ArtifactID}
	parent, err := loadProject(ctx, src, parentCoords, p.Parent.Version, depth+1)
	if errors.Is(err, errors.ErrProjectNotFound) {
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	if parent.SCM != nil {
		scm := *parent.SCM
		p.SCM = &scm
	}
	return p, nil
}
