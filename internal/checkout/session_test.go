package checkout

import (
	"context"
	"errors"
	"testing"

	jerrors "github.com/Iron-Ham/jdiff/internal/errors"
)

func TestSession_GetOrFetchFetchesOnce(t *testing.T) {
	s := NewSession()
	calls := 0
	fetch := func(context.Context) (Record, error) {
		calls++
		return Record{Dir: "/work/1.0", Fresh: true}, nil
	}

	first, err := s.GetOrFetch(context.Background(), "1.0", fetch)
	if err != nil {
		t.Fatalf("GetOrFetch() error = %v", err)
	}
	second, err := s.GetOrFetch(context.Background(), "1.0", fetch)
	if err != nil {
		t.Fatalf("GetOrFetch() error = %v", err)
	}

	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
	if first != second {
		t.Errorf("records differ: %+v vs %+v", first, second)
	}
	if first.Version != "1.0" {
		t.Errorf("Version = %q, want filled in", first.Version)
	}
}

func TestSession_DistinctVersions(t *testing.T) {
	s := NewSession()
	calls := 0
	fetch := func(context.Context) (Record, error) {
		calls++
		return Record{}, nil
	}
	for _, v := range []string{"1.0", "0.9", "1.0"} {
		if _, err := s.GetOrFetch(context.Background(), v, fetch); err != nil {
			t.Fatalf("GetOrFetch(%s) error = %v", v, err)
		}
	}
	if calls != 2 {
		t.Errorf("fetch called %d times, want 2", calls)
	}
	if got := s.Versions(); len(got) != 2 || got[0] != "0.9" || got[1] != "1.0" {
		t.Errorf("Versions() = %v", got)
	}
}

func TestSession_FailedFetchNotCached(t *testing.T) {
	s := NewSession()
	boom := errors.New("boom")
	calls := 0
	fetch := func(context.Context) (Record, error) {
		calls++
		if calls == 1 {
			return Record{}, boom
		}
		return Record{Dir: "/d"}, nil
	}

	if _, err := s.GetOrFetch(context.Background(), "1.0", fetch); !errors.Is(err, boom) {
		t.Fatalf("first GetOrFetch() error = %v, want boom", err)
	}
	if _, err := s.Lookup("1.0"); err == nil {
		t.Error("Lookup() succeeded after failed fetch")
	}
	rec, err := s.GetOrFetch(context.Background(), "1.0", fetch)
	if err != nil {
		t.Fatalf("second GetOrFetch() error = %v", err)
	}
	if rec.Dir != "/d" || calls != 2 {
		t.Errorf("rec = %+v, calls = %d", rec, calls)
	}
}

func TestSession_LookupBeforeInit(t *testing.T) {
	s := NewSession()
	_, err := s.Lookup("1.0")
	if !errors.Is(err, jerrors.ErrCheckoutNotInitialized) {
		t.Fatalf("Lookup() error = %v, want ErrCheckoutNotInitialized", err)
	}

	if _, err := s.Init(context.Background(), "1.0", func(context.Context) (Record, error) {
		return Record{Dir: "/work/1.0"}, nil
	}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	rec, err := s.Lookup("1.0")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if rec.Dir != "/work/1.0" {
		t.Errorf("Dir = %q", rec.Dir)
	}
}

func TestSession_InitRequiresVersion(t *testing.T) {
	_, err := NewSession().Init(context.Background(), "", func(context.Context) (Record, error) {
		t.Fatal("fetch must not run")
		return Record{}, nil
	})
	if !errors.Is(err, jerrors.ErrInvalidInput) {
		t.Errorf("Init() error = %v, want ErrInvalidInput", err)
	}
}

func TestSession_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSession().GetOrFetch(ctx, "1.0", func(context.Context) (Record, error) {
		t.Fatal("fetch must not run")
		return Record{}, nil
	})
	if !errors.Is(err, jerrors.ErrCanceled) {
		t.Errorf("GetOrFetch() error = %v, want ErrCanceled", err)
	}
}
