// Package scm fetches the sources of a project version from source
// control.
//
// A project's <scm> block names a connection URL in Maven's
// "scm:<provider>:<provider-url>" form. The provider part selects a
// Provider (git or svn), which drives the matching command-line client.
// Fetcher decides between a fresh checkout and an update of an existing
// working copy.
package scm

import (
	"strings"

	"github.com/Iron-Ham/jdiff/internal/errors"
	"github.com/Iron-Ham/jdiff/internal/pom"
)

// Repository is a parsed connection URL.
type Repository struct {
	// Connection is the connection URL as written in the project model.
	Connection string
	// Provider is the SCM type, such as "git" or "svn".
	Provider string
	// URL is the provider-specific location.
	URL string
	// Tag selects a tag or branch to fetch; empty means the default head.
	Tag string
}

// Connection returns the connection URL of scm: the read-only connection
// when set, otherwise the developer connection.
func Connection(scm *pom.SCM) (string, error) {
	if scm == nil {
		return "", errors.ErrMissingScmConnection
	}
	if conn := strings.TrimSpace(scm.Connection); conn != "" {
		return conn, nil
	}
	if conn := strings.TrimSpace(scm.DeveloperConnection); conn != "" {
		return conn, nil
	}
	return "", errors.ErrMissingScmConnection
}

// ParseConnection splits a connection URL into provider and location.
// Maven accepts either ':' or '|' as the delimiter after the "scm" prefix.
func ParseConnection(conn string) (Repository, error) {
	conn = strings.TrimSpace(conn)
	if len(conn) < 4 || !strings.EqualFold(conn[:3], "scm") {
		return Repository{}, invalidConnection(conn, "must start with \"scm:\"")
	}
	delim := conn[3:4]
	if delim != ":" && delim != "|" {
		return Repository{}, invalidConnection(conn, "expected ':' or '|' after \"scm\"")
	}
	rest := conn[4:]
	idx := strings.Index(rest, delim)
	if idx <= 0 {
		return Repository{}, invalidConnection(conn, "missing provider")
	}
	provider := strings.ToLower(rest[:idx])
	url := rest[idx+1:]
	if url == "" {
		return Repository{}, invalidConnection(conn, "missing provider URL")
	}
	return Repository{Connection: conn, Provider: provider, URL: url}, nil
}

func invalidConnection(conn, reason string) error {
	return errors.NewConfigError("invalid SCM connection: "+reason, errors.ErrMissingScmConnection).
		WithField("scm.connection").
		WithValue(conn)
}

// RepositoryFor resolves the connection of project into a Repository,
// carrying over its tag unless the tag is the default "HEAD".
func RepositoryFor(project *pom.Project) (Repository, error) {
	conn, err := Connection(project.SCM)
	if err != nil {
		return Repository{}, errors.NewConfigError("SCM connection is not set in "+project.File, err).
			WithField("scm.connection")
	}
	repo, err := ParseConnection(conn)
	if err != nil {
		return Repository{}, err
	}
	if tag := strings.TrimSpace(project.SCM.Tag); tag != "" && !strings.EqualFold(tag, "HEAD") {
		repo.Tag = tag
	}
	return repo, nil
}
