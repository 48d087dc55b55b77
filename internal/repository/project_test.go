package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jerrors "github.com/Iron-Ham/jdiff/internal/errors"
	"github.com/Iron-Ham/jdiff/internal/testutil"
)

func TestLoadProject_Local(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"org/example/core/1.0/core-1.0.pom": testutil.POM{
			ArtifactID: "core",
			Parent:     "org.example:parent:5",
			Tag:        "core-1.0",
		}.XML(),
		"org/example/parent/5/parent-5.pom": testutil.POM{
			GroupID:    "org.example",
			ArtifactID: "parent",
			Version:    "5",
			Packaging:  "pom",
			Connection: "scm:git:https://example.com/core.git",
		}.XML(),
	})

	p, err := LoadProject(context.Background(), NewLocal(dir), core, "1.0")
	if err != nil {
		t.Fatalf("LoadProject() error = %v", err)
	}
	if p.ID() != "org.example:core:5" {
		t.Errorf("ID() = %q", p.ID())
	}
	if p.SCM == nil || p.SCM.Tag != "core-1.0" {
		t.Fatalf("SCM = %+v, want own tag", p.SCM)
	}
	if p.SCM.Connection != "" {
		t.Errorf("Connection = %q, own scm block must not be merged", p.SCM.Connection)
	}
}

func TestLoadProject_InheritsSCM(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"org/example/core/1.0/core-1.0.pom": testutil.POM{
			ArtifactID: "core",
			Version:    "1.0",
			Parent:     "org.example:parent:5",
		}.XML(),
		"org/example/parent/5/parent-5.pom": testutil.POM{
			GroupID:    "org.example",
			ArtifactID: "parent",
			Version:    "5",
			Connection: "scm:svn:https://svn.example.com/trunk",
		}.XML(),
	})

	p, err := LoadProject(context.Background(), NewLocal(dir), core, "1.0")
	if err != nil {
		t.Fatalf("LoadProject() error = %v", err)
	}
	if p.SCM == nil || p.SCM.Connection != "scm:svn:https://svn.example.com/trunk" {
		t.Errorf("SCM = %+v, want inherited from parent", p.SCM)
	}
}

func TestLoadProject_NotFound(t *testing.T) {
	_, err := LoadProject(context.Background(), NewLocal(t.TempDir()), core, "1.0")
	if !errors.Is(err, jerrors.ErrProjectNotFound) {
		t.Errorf("LoadProject() error = %v, want ErrProjectNotFound", err)
	}
}

func TestChain_POM(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/org/example/core/1.0/core-1.0.pom" {
			_, _ = w.Write([]byte(testutil.POM{GroupID: "org.example", ArtifactID: "core", Version: "1.0"}.XML()))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	cached, err := NewCached(Chain{NewLocal(t.TempDir()), NewRemote(srv.URL, time.Second)}, 0)
	if err != nil {
		t.Fatal(err)
	}

	p, err := LoadProject(context.Background(), cached, core, "1.0")
	if err != nil {
		t.Fatalf("LoadProject() error = %v", err)
	}
	if p.ID() != "org.example:core:1.0" {
		t.Errorf("ID() = %q", p.ID())
	}

	if _, err := cached.POM(context.Background(), core, "9.9"); !errors.Is(err, jerrors.ErrProjectNotFound) {
		t.Errorf("POM(9.9) error = %v, want ErrProjectNotFound", err)
	}
}
