// Package internal contains integration tests that verify the packages
// work together: a real git checkout, real process execution and the
// report orchestrator driving a multi-module build.
package internal

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/Iron-Ham/jdiff/internal/artifact"
	"github.com/Iron-Ham/jdiff/internal/checkout"
	"github.com/Iron-Ham/jdiff/internal/classpath"
	"github.com/Iron-Ham/jdiff/internal/command"
	"github.com/Iron-Ham/jdiff/internal/javadoc"
	"github.com/Iron-Ham/jdiff/internal/pom"
	"github.com/Iron-Ham/jdiff/internal/report"
	"github.com/Iron-Ham/jdiff/internal/repository"
	"github.com/Iron-Ham/jdiff/internal/scm"
	"github.com/Iron-Ham/jdiff/internal/testutil"
)

// fakeJavadocScript writes <apidir>/<apiname>.xml for snapshot runs and
// index.html into -d for diff runs, which is all the orchestrator looks at.
const fakeJavadocScript = `#!/bin/sh
while [ $# -gt 0 ]; do
  case "$1" in
    -apiname) name="$2"; shift ;;
    -apidir) dir="$2"; shift ;;
    -d) out="$2"; shift ;;
  esac
  shift
done
if [ -n "$name" ]; then
  echo "<api name=\"$name\"/>" > "$dir/$name.xml"
fi
if [ -n "$out" ]; then
  echo "<html></html>" > "$out/changes.html"
fi
`

func writeFakeJavadoc(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script javadoc needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "javadoc")
	if err := os.WriteFile(path, []byte(fakeJavadocScript), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMultiModuleReport(t *testing.T) {
	testutil.SkipIfNoGit(t)

	parent := func(v, conn string) testutil.POM {
		return testutil.POM{
			GroupID: "org.example", ArtifactID: "parent", Version: v, Packaging: "pom",
			Connection: conn, Modules: []string{"core", "util"},
		}
	}
	module := func(name, v string) testutil.POM {
		return testutil.POM{GroupID: "org.example", ArtifactID: name, Version: v, Parent: "org.example:parent:" + v}
	}

	// Upstream history: 1.0 is tagged, then development continues.
	upstream := testutil.SetupTestRepo(t)
	conn := "scm:git:" + upstream
	testutil.CommitFile(t, upstream, "pom.xml", parent("1.0", "").XML(), "parent")
	testutil.CommitFile(t, upstream, "core/pom.xml", module("core", "1.0").XML(), "core")
	testutil.CommitFile(t, upstream, "util/pom.xml", module("util", "1.0").XML(), "util")
	testutil.CommitFile(t, upstream, "core/src/main/java/org/example/core/Core.java", "package org.example.core;\npublic class Core {}\n", "core sources")
	testutil.CommitFile(t, upstream, "util/src/main/java/org/example/util/Util.java", "package org.example.util;\npublic class Util {}\n", "util sources")
	testutil.Tag(t, upstream, "parent-1.0")
	testutil.CommitFile(t, upstream, "core/src/main/java/org/example/core/spi/Spi.java", "package org.example.core.spi;\npublic interface Spi {}\n", "spi")

	// The published 1.0 pom carries the SCM coordinates.
	repo := t.TempDir()
	published := parent("1.0", conn)
	published.Tag = "parent-1.0"
	testutil.WriteFiles(t, repo, map[string]string{"org/example/parent/1.0/parent-1.0.pom": published.XML()})

	// The working tree is 2.0.
	proj := t.TempDir()
	testutil.WritePOM(t, proj, parent("2.0", conn))
	testutil.WritePOM(t, filepath.Join(proj, "core"), module("core", "2.0"))
	testutil.WritePOM(t, filepath.Join(proj, "util"), module("util", "2.0"))
	testutil.WriteJavaSources(t, filepath.Join(proj, "core", "src", "main", "java"),
		"org/example/core/Core.java",
		"org/example/core/spi/Spi.java",
	)
	testutil.WriteJavaSources(t, filepath.Join(proj, "util", "src", "main", "java"), "org/example/util/Util.java")

	reactor, err := pom.LoadReactor(proj)
	if err != nil {
		t.Fatalf("LoadReactor() error = %v", err)
	}

	exec := command.NewCLIExecutor()
	local := repository.NewLocal(repo)
	o, err := report.New(report.Config{
		Javadoc:    writeFakeJavadoc(t),
		DocletPath: []string{"/opt/jdiff/jdiff.jar"},
		Resolver:   artifact.NewResolver(local, nil),
		Projects:   local,
		Fetcher:    scm.NewFetcher(scm.DefaultRegistry(exec), nil),
		Session:    checkout.NewSession(),
		Runner:     javadoc.NewExecutor(exec, nil, nil, nil),
		Classpath:  classpath.Static{},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	if err := o.Init(ctx, reactor.First().Project); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	lhs, rhs := o.Sides()
	if lhs.Version != "1.0" || rhs.Version != "2.0" {
		t.Fatalf("sides = %s, %s; want 1.0, 2.0", lhs.Version, rhs.Version)
	}

	for _, m := range reactor.Modules {
		loc, err := o.Run(ctx, m)
		if err != nil {
			t.Fatalf("Run(%s) error = %v", m.Name(), err)
		}
		if m.Name() == "parent" {
			if !loc.Skipped {
				t.Error("aggregator was not skipped")
			}
			continue
		}

		for _, v := range []string{"1.0", "2.0"} {
			xml := filepath.Join(proj, m.RelPath, "target", "jdiff", v+".xml")
			if _, err := os.Stat(xml); err != nil {
				t.Errorf("%s: snapshot %s missing: %v", m.Name(), v, err)
			}
		}
		for _, f := range []string{report.IndexFile, report.ImageFile} {
			if _, err := os.Stat(filepath.Join(loc.Dir, f)); err != nil {
				t.Errorf("%s: %s missing from report directory: %v", m.Name(), f, err)
			}
		}
		summary, err := os.ReadFile(loc.Summary)
		if err != nil {
			t.Fatalf("%s: summary page missing: %v", m.Name(), err)
		}
		if !strings.Contains(string(summary), "apidocs/changes.html") {
			t.Errorf("%s: summary page does not link the report", m.Name())
		}
	}

	// One checkout, at the tag, serves both modules.
	checkoutDir := filepath.Join(proj, "target", "jdiff", "1.0")
	if _, err := os.Stat(filepath.Join(checkoutDir, "util", "pom.xml")); err != nil {
		t.Errorf("shared checkout missing util: %v", err)
	}
	if _, err := os.Stat(filepath.Join(checkoutDir, "core", "src", "main", "java", "org", "example", "core", "spi")); !os.IsNotExist(err) {
		t.Errorf("checkout is not at the 1.0 tag: spi package present (err = %v)", err)
	}
	if got := o.State(); got != report.StateDone {
		t.Errorf("State() = %s, want DONE", got)
	}
}
