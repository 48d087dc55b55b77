package repository

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Iron-Ham/jdiff/internal/errors"
)

// Local reads a repository laid out on disk the way Maven lays out
// ~/.m2/repository.
type Local struct {
	Dir string
}

// NewLocal returns a local source rooted at dir. An empty dir selects
// DefaultLocalDir.
func NewLocal(dir string) *Local {
	if dir == "" {
		dir = DefaultLocalDir()
	}
	return &Local{Dir: dir}
}

// DefaultLocalDir returns ~/.m2/repository, or the value of
// MAVEN_REPO_LOCAL when set.
func DefaultLocalDir() string {
	if dir := os.Getenv("MAVEN_REPO_LOCAL"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".m2", "repository")
	}
	return filepath.Join(home, ".m2", "repository")
}

// Name implements Source.
func (l *Local) Name() string {
	return "local:" + l.Dir
}

// ArtifactPath returns the path of a versioned file in the repository,
// for example the jar of groupId:artifactId:version.
func (l *Local) ArtifactPath(coords Coordinates, version, ext string) string {
	name := coords.ArtifactID + "-" + version + "." + ext
	return filepath.Join(l.Dir, filepath.FromSlash(coords.Path()), version, name)
}

// Versions implements Source. It merges every maven-metadata*.xml in the
// artifact directory with the version directories that hold a pom, which
// covers artifacts installed locally without metadata.
func (l *Local) Versions(ctx context.Context, coords Coordinates) ([]string, error) {
	dir := filepath.Join(l.Dir, filepath.FromSlash(coords.Path()))
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewRepositoryError("failed to read local repository", err).
			WithCoordinates(coords.String()).
			WithRepository(l.Dir)
	}

	seen := map[string]bool{}
	var out []string
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	var metadataFiles, versionDirs []string
	for _, e := range entries {
		switch {
		case e.IsDir():
			versionDirs = append(versionDirs, e.Name())
		case strings.HasPrefix(e.Name(), "maven-metadata") && strings.HasSuffix(e.Name(), ".xml"):
			metadataFiles = append(metadataFiles, e.Name())
		}
	}
	sort.Strings(metadataFiles)

	for _, name := range metadataFiles {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(errors.ErrCanceled, err)
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, errors.NewRepositoryError("failed to read metadata", err).
				WithCoordinates(coords.String()).
				WithRepository(l.Dir)
		}
		versions, err := parseMetadata(data)
		if err != nil {
			return nil, errors.NewRepositoryError("failed to parse "+name, err).
				WithCoordinates(coords.String()).
				WithRepository(l.Dir)
		}
		for _, v := range versions {
			add(v)
		}
	}

	for _, v := range versionDirs {
		pom := filepath.Join(dir, v, coords.ArtifactID+"-"+v+".pom")
		if _, err := os.Stat(pom); err == nil {
			add(v)
		}
	}
	return out, nil
}
