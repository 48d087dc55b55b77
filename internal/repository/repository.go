// Package repository lists the published versions of Maven artifacts.
//
// Versions come from maven-metadata.xml documents, either in a local
// repository directory (~/.m2/repository) or on a remote repository over
// HTTP. Sources can be chained and cached; the artifact resolver only sees
// the Source interface.
package repository

import (
	"context"
	"encoding/xml"
	"path"
	"strings"

	"github.com/Iron-Ham/jdiff/internal/errors"
)

// MetadataFile is the name of the per-artifact version index.
const MetadataFile = "maven-metadata.xml"

// Coordinates identify an artifact independent of its version.
type Coordinates struct {
	GroupID    string
	ArtifactID string
}

// String returns "groupId:artifactId".
func (c Coordinates) String() string {
	return c.GroupID + ":" + c.ArtifactID
}

// Path returns the repository layout path of the artifact directory,
// using forward slashes: "org/example/core".
func (c Coordinates) Path() string {
	return path.Join(strings.ReplaceAll(c.GroupID, ".", "/"), c.ArtifactID)
}

// Source lists the versions a repository knows for an artifact.
//
// An artifact the repository has never seen is not an error: Versions
// returns an empty slice. Errors are reserved for transport and format
// failures.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	// Versions returns the raw version strings in repository order.
	Versions(ctx context.Context, coords Coordinates) ([]string, error)
}

// metadata mirrors the parts of maven-metadata.xml that matter here.
type metadata struct {
	XMLName    xml.Name `xml:"metadata"`
	GroupID    string   `xml:"groupId"`
	ArtifactID string   `xml:"artifactId"`
	Versioning struct {
		Latest   string   `xml:"latest"`
		Release  string   `xml:"release"`
		Versions []string `xml:"versions>version"`
	} `xml:"versioning"`
}

func parseMetadata(data []byte) ([]string, error) {
	var m metadata
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "malformed "+MetadataFile)
	}
	out := make([]string, 0, len(m.Versioning.Versions))
	for _, v := range m.Versioning.Versions {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

// Chain queries each source in order and returns the union of their
// versions, keeping first-seen order. The first failing source aborts the
// query.
type Chain []Source

// Name implements Source.
func (c Chain) Name() string {
	names := make([]string, 0, len(c))
	for _, s := range c {
		names = append(names, s.Name())
	}
	return strings.Join(names, ",")
}

// Versions implements Source.
func (c Chain) Versions(ctx context.Context, coords Coordinates) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, s := range c {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(errors.ErrCanceled, err)
		}
		versions, err := s.Versions(ctx, coords)
		if err != nil {
			return nil, err
		}
		for _, v := range versions {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out, nil
}
