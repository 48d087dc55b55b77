package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Iron-Ham/jdiff/internal/errors"
)

// DefaultRemoteURL is Maven Central.
const DefaultRemoteURL = "https://repo.maven.apache.org/maven2"

// maxMetadataSize bounds a metadata download.
const maxMetadataSize = 8 << 20

// Remote fetches maven-metadata.xml from an HTTP repository.
type Remote struct {
	BaseURL string
	Client  *http.Client
}

// NewRemote returns a remote source for baseURL using a client with the
// given timeout. A zero timeout means no timeout.
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	return &Remote{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// Name implements Source.
func (r *Remote) Name() string {
	return "remote:" + r.BaseURL
}

// Versions implements Source. A 404 means the repository does not host
// the artifact and yields no versions.
func (r *Remote) Versions(ctx context.Context, coords Coordinates) ([]string, error) {
	url := fmt.Sprintf("%s/%s/%s", r.BaseURL, coords.Path(), MetadataFile)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, r.fail("invalid metadata request", coords, err)
	}
	req.Header.Set("Accept", "application/xml, text/xml")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Join(errors.ErrCanceled, ctx.Err())
		}
		return nil, r.fail("metadata request failed", coords, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, r.fail(fmt.Sprintf("unexpected status %s", resp.Status), coords, nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMetadataSize))
	if err != nil {
		return nil, r.fail("failed to read metadata", coords, err)
	}
	versions, err := parseMetadata(data)
	if err != nil {
		return nil, r.fail("failed to parse metadata", coords, err)
	}
	return versions, nil
}

func (r *Remote) fail(msg string, coords Coordinates, cause error) error {
	return errors.NewRepositoryError(msg, cause).
		WithCoordinates(coords.String()).
		WithRepository(r.BaseURL)
}
