// Package checkout shares fetched source trees across the modules of one
// run.
//
// A Session maps a version to the directory holding its sources. The
// fetch for a version runs at most once per session; every module that
// compares against that version reads the same record.
package checkout

import (
	"context"
	"sort"
	"sync"

	"github.com/Iron-Ham/jdiff/internal/errors"
)

// Record is the fetched source tree of one version.
type Record struct {
	Version string
	Dir     string
	// Fresh is set when the tree was checked out, rather than updated, in
	// this run.
	Fresh bool
}

// FetchFunc produces the record for a version. It is called at most once
// per version per session.
type FetchFunc func(ctx context.Context) (Record, error)

// Session holds the records of one run.
type Session struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{records: make(map[string]Record)}
}

// Init is the designated initializer for version: it fetches the sources
// once, before any module asks for them.
func (s *Session) Init(ctx context.Context, version string, fetch FetchFunc) (Record, error) {
	if version == "" {
		return Record{}, errors.NewValidationError("cannot initialize a checkout without a version").WithField("version")
	}
	return s.GetOrFetch(ctx, version, fetch)
}

// GetOrFetch returns the record for version, calling fetch only when the
// session has none. A failed fetch is not recorded, so a later call tries
// again.
func (s *Session) GetOrFetch(ctx context.Context, version string, fetch FetchFunc) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[version]; ok {
		return rec, nil
	}
	if err := ctx.Err(); err != nil {
		return Record{}, errors.Join(errors.ErrCanceled, err)
	}

	rec, err := fetch(ctx)
	if err != nil {
		return Record{}, err
	}
	if rec.Version == "" {
		rec.Version = version
	}
	s.records[version] = rec
	return rec, nil
}

// Lookup returns the record for version. It fails with
// ErrCheckoutNotInitialized when Init has not run for that version.
func (s *Session) Lookup(version string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[version]
	if !ok {
		return Record{}, errors.NewNotFoundError("checkout", version).WithCause(errors.ErrCheckoutNotInitialized)
	}
	return rec, nil
}

// Versions returns the versions with records, sorted.
func (s *Session) Versions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.records))
	for v := range s.records {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
