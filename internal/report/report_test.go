package report

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Iron-Ham/jdiff/internal/artifact"
	"github.com/Iron-Ham/jdiff/internal/checkout"
	"github.com/Iron-Ham/jdiff/internal/classpath"
	jerrors "github.com/Iron-Ham/jdiff/internal/errors"
	"github.com/Iron-Ham/jdiff/internal/javadoc"
	"github.com/Iron-Ham/jdiff/internal/logging"
	"github.com/Iron-Ham/jdiff/internal/pom"
	"github.com/Iron-Ham/jdiff/internal/repository"
	"github.com/Iron-Ham/jdiff/internal/scm"
	"github.com/Iron-Ham/jdiff/internal/sink"
	"github.com/Iron-Ham/jdiff/internal/testutil"
)

const connection = "scm:fake:https://example.com/core.git"

// treeProvider "checks out" a fixed tree of files.
type treeProvider struct {
	files     map[string]string
	checkouts int
	updates   int
	tags      []string
}

func (p *treeProvider) Name() string { return "fake" }

func (p *treeProvider) Checkout(_ context.Context, repo scm.Repository, fs scm.FileSet) error {
	p.checkouts++
	p.tags = append(p.tags, repo.Tag)
	for name, content := range p.files {
		path := filepath.Join(fs.Base, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

func (p *treeProvider) Update(context.Context, scm.Repository, scm.FileSet) error {
	p.updates++
	return nil
}

// fakeRunner records javadoc invocations instead of running them.
type fakeRunner struct {
	calls  []*javadoc.Command
	dirs   []string
	failAt int
	onCall func(n int, cmd *javadoc.Command) error
}

func (r *fakeRunner) Execute(_ context.Context, cmd *javadoc.Command, workDir string) error {
	r.calls = append(r.calls, cmd)
	r.dirs = append(r.dirs, workDir)
	n := len(r.calls)
	if n == r.failAt {
		return jerrors.NewToolError("javadoc did not complete successfully", jerrors.ErrToolFailed).WithExitCode(1)
	}
	if r.onCall != nil {
		return r.onCall(n, cmd)
	}
	return nil
}

func javaFile(pkg, class string) string {
	return "package " + pkg + ";\n\npublic class " + class + " {}\n"
}

type fixture struct {
	project  string
	repo     string
	provider *treeProvider
	runner   *fakeRunner
	session  *checkout.Session
}

// newFixture lays out org.example:core:1.1 on disk, a published 1.0 in a
// local repository, and a provider whose checkout holds the 1.0 sources.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := t.TempDir()
	f := &fixture{
		project: filepath.Join(base, "proj"),
		repo:    filepath.Join(base, "repo"),
		runner:  &fakeRunner{},
		session: checkout.NewSession(),
	}

	testutil.WritePOM(t, f.project, testutil.POM{
		GroupID: "org.example", ArtifactID: "core", Version: "1.1", Connection: connection,
	})
	testutil.WriteJavaSources(t, filepath.Join(f.project, "src", "main", "java"),
		"com/example/api/Foo.java",
		"com/example/impl/Bar.java",
	)
	testutil.WriteFiles(t, f.repo, map[string]string{
		"org/example/core/1.0/core-1.0.pom": testutil.POM{
			GroupID: "org.example", ArtifactID: "core", Version: "1.0", Connection: connection, Tag: "core-1.0",
		}.XML(),
	})

	files := map[string]string{}
	files["pom.xml"] = testutil.POM{GroupID: "org.example", ArtifactID: "core", Version: "1.0"}.XML()
	files["src/main/java/com/example/api/Foo.java"] = javaFile("com.example.api", "Foo")
	files["src/main/java/com/example/old/Old.java"] = javaFile("com.example.old", "Old")
	f.provider = &treeProvider{files: files}
	return f
}

func (f *fixture) config(cfg Config) Config {
	local := repository.NewLocal(f.repo)
	cfg.Resolver = artifact.NewResolver(local, nil)
	cfg.Projects = local
	cfg.Fetcher = scm.NewFetcher(scm.NewRegistry(f.provider), nil)
	cfg.Session = f.session
	cfg.Runner = f.runner
	cfg.Classpath = classpath.Static{"/deps/lib.jar"}
	if cfg.Javadoc == "" {
		cfg.Javadoc = "/jdk/bin/javadoc"
	}
	if cfg.DocletPath == nil {
		cfg.DocletPath = []string{"/m2/jdiff.jar", "/m2/xercesImpl.jar"}
	}
	return cfg
}

func (f *fixture) orchestrator(t *testing.T, cfg Config, opts ...Option) *Orchestrator {
	t.Helper()
	o, err := New(f.config(cfg), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return o
}

func (f *fixture) reactor(t *testing.T) *pom.Reactor {
	t.Helper()
	r, err := pom.LoadReactor(f.project)
	if err != nil {
		t.Fatalf("LoadReactor() error = %v", err)
	}
	return r
}

func value(t *testing.T, cmd *javadoc.Command, key string) string {
	t.Helper()
	v, ok := cmd.Value(key)
	if !ok {
		t.Fatalf("command %s has no -%s", cmd, key)
	}
	return v
}

func trailing(cmd *javadoc.Command, n int) []string {
	args := cmd.Args()
	if len(args) < n {
		return args
	}
	return args[len(args)-n:]
}

func TestRun_EndToEnd(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(t, Config{})
	r := f.reactor(t)
	ctx := context.Background()

	if err := o.Init(ctx, r.First().Project); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	lhs, rhs := o.Sides()
	if lhs.Version != "1.0" || lhs.Current || rhs.Version != "1.1" || !rhs.Current {
		t.Fatalf("Sides() = %+v, %+v", lhs, rhs)
	}

	loc, err := o.Run(ctx, r.First())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if o.State() != StateDone {
		t.Errorf("State() = %s, want DONE", o.State())
	}

	if len(f.runner.calls) != 3 {
		t.Fatalf("javadoc ran %d times, want 3", len(f.runner.calls))
	}
	checkoutDir := filepath.Join(f.project, "target", "jdiff", "1.0")
	apiDir := filepath.Join(f.project, "target", "jdiff")
	wantCP := classpath.Join([]string{filepath.Join(f.project, "target", "classes"), "/deps/lib.jar"})

	old, cur, diff := f.runner.calls[0], f.runner.calls[1], f.runner.calls[2]

	t.Run("old snapshot", func(t *testing.T) {
		if got := value(t, old, "apiname"); got != "1.0" {
			t.Errorf("-apiname = %q, want 1.0", got)
		}
		if got := value(t, old, "apidir"); got != apiDir {
			t.Errorf("-apidir = %q, want %q", got, apiDir)
		}
		if got := value(t, old, "sourcepath"); got != filepath.Join(checkoutDir, "src", "main", "java") {
			t.Errorf("-sourcepath = %q", got)
		}
		if got := value(t, old, "doclet"); got != javadoc.Doclet {
			t.Errorf("-doclet = %q", got)
		}
		if got := value(t, old, "docletpath"); got != classpath.Join([]string{"/m2/jdiff.jar", "/m2/xercesImpl.jar"}) {
			t.Errorf("-docletpath = %q", got)
		}
		if got := value(t, old, "classpath"); got != wantCP {
			t.Errorf("-classpath = %q, want %q", got, wantCP)
		}
		if got := trailing(old, 2); !reflect.DeepEqual(got, []string{"com.example.api", "com.example.old"}) {
			t.Errorf("packages = %v", got)
		}
		if f.runner.dirs[0] != apiDir {
			t.Errorf("work dir = %q, want %q", f.runner.dirs[0], apiDir)
		}
	})

	t.Run("new snapshot", func(t *testing.T) {
		if got := value(t, cur, "apiname"); got != "1.1" {
			t.Errorf("-apiname = %q, want 1.1", got)
		}
		if got := value(t, cur, "sourcepath"); got != filepath.Join(f.project, "src", "main", "java") {
			t.Errorf("-sourcepath = %q", got)
		}
		if got := trailing(cur, 2); !reflect.DeepEqual(got, []string{"com.example.api", "com.example.impl"}) {
			t.Errorf("packages = %v", got)
		}
	})

	t.Run("diff", func(t *testing.T) {
		if got := value(t, diff, "oldapi"); got != "1.0" {
			t.Errorf("-oldapi = %q, want 1.0", got)
		}
		if got := value(t, diff, "newapi"); got != "1.1" {
			t.Errorf("-newapi = %q, want 1.1", got)
		}
		if !diff.HasFlag("private") || !diff.HasFlag("stats") {
			t.Errorf("diff command %s lacks -private or -stats", diff)
		}
		if got := value(t, diff, "d"); got != loc.Dir {
			t.Errorf("-d = %q, want %q", got, loc.Dir)
		}
		if got := value(t, diff, "sourcepath"); got != filepath.Join(f.project, "src", "main", "java") {
			t.Errorf("-sourcepath = %q", got)
		}
		want := []string{"com.example.api", "com.example.impl", "com.example.old"}
		if got := trailing(diff, 3); !reflect.DeepEqual(got, want) {
			t.Errorf("packages = %v, want %v", got, want)
		}
	})

	t.Run("location", func(t *testing.T) {
		site := filepath.Join(f.project, "target", "site")
		if loc.Dir != filepath.Join(site, "apidocs") {
			t.Errorf("Dir = %q", loc.Dir)
		}
		if loc.Index != filepath.Join(site, "apidocs", IndexFile) {
			t.Errorf("Index = %q", loc.Index)
		}
		data, err := os.ReadFile(loc.Summary)
		if err != nil {
			t.Fatalf("summary not written: %v", err)
		}
		if !strings.Contains(string(data), `href="apidocs/changes.html"`) {
			t.Errorf("summary lacks link to the report:\n%s", data)
		}
		if _, err := os.Stat(filepath.Join(loc.Dir, ImageFile)); err != nil {
			t.Errorf("image not copied: %v", err)
		}
	})

	t.Run("checkout", func(t *testing.T) {
		if f.provider.checkouts != 1 || f.provider.updates != 0 {
			t.Errorf("checkouts = %d, updates = %d", f.provider.checkouts, f.provider.updates)
		}
		if !reflect.DeepEqual(f.provider.tags, []string{"core-1.0"}) {
			t.Errorf("tags = %v", f.provider.tags)
		}
		rec, err := f.session.Lookup("1.0")
		if err != nil {
			t.Fatalf("Lookup() error = %v", err)
		}
		if rec.Dir != checkoutDir || !rec.Fresh {
			t.Errorf("record = %+v", rec)
		}
	})
}

func TestRun_FailureStopsTheRun(t *testing.T) {
	tests := []struct {
		failAt    int
		wantState State
	}{
		{failAt: 1, wantState: StateSnapshotLHS},
		{failAt: 2, wantState: StateSnapshotRHS},
		{failAt: 3, wantState: StateDiff},
	}

	for _, tt := range tests {
		t.Run(string(tt.wantState), func(t *testing.T) {
			f := newFixture(t)
			f.runner.failAt = tt.failAt
			o := f.orchestrator(t, Config{})
			r := f.reactor(t)
			if err := o.Init(context.Background(), r.First().Project); err != nil {
				t.Fatalf("Init() error = %v", err)
			}

			_, err := o.Run(context.Background(), r.First())
			var rerr *jerrors.ReportError
			if !errors.As(err, &rerr) {
				t.Fatalf("Run() error = %v, want ReportError", err)
			}
			if rerr.State != string(tt.wantState) || rerr.Module != "core" {
				t.Errorf("ReportError state = %s module = %s", rerr.State, rerr.Module)
			}
			if !errors.Is(err, jerrors.ErrToolFailed) {
				t.Errorf("error %v does not keep the tool failure", err)
			}
			if o.State() != StateFailed {
				t.Errorf("State() = %s, want FAILED", o.State())
			}
			if len(f.runner.calls) != tt.failAt {
				t.Errorf("javadoc ran %d times, want %d", len(f.runner.calls), tt.failAt)
			}
			summary := filepath.Join(f.project, "target", "site", DefaultSummaryFile+".html")
			if _, err := os.Stat(summary); !os.IsNotExist(err) {
				t.Errorf("summary rendered after a failure (stat err = %v)", err)
			}
		})
	}
}

func TestRun_LogContext(t *testing.T) {
	t.Run("snapshots are tagged with their version", func(t *testing.T) {
		var buf bytes.Buffer
		f := newFixture(t)
		logger := logging.NewWriterLogger(&buf, logging.LevelDebug, logging.FormatJSON)
		o := f.orchestrator(t, Config{}, WithLogger(logger))
		r := f.reactor(t)
		if err := o.Init(context.Background(), r.First().Project); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		if _, err := o.Run(context.Background(), r.First()); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		out := buf.String()
		for _, want := range []string{`"checkouts":["1.0"]`, `"version":"1.0"`, `"version":"1.1"`} {
			if !strings.Contains(out, want) {
				t.Errorf("log lacks %s:\n%s", want, out)
			}
		}
	})

	tests := []struct {
		name       string
		comparison string
		failAt     int
		level      string
		phase      string
	}{
		{name: "tool failure is an error", failAt: 1, level: logging.LevelError, phase: string(StateSnapshotLHS)},
		{name: "missing previous version is a warning", comparison: "(,0.5)", level: logging.LevelWarn, phase: string(StateResolve)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := newFixture(t)
			f.runner.failAt = tt.failAt
			logger := logging.NewWriterLogger(&buf, logging.LevelInfo, logging.FormatJSON)
			o := f.orchestrator(t, Config{ComparisonVersion: tt.comparison}, WithLogger(logger))
			r := f.reactor(t)

			err := o.Init(context.Background(), r.First().Project)
			if err == nil {
				_, err = o.Run(context.Background(), r.First())
			}
			if err == nil {
				t.Fatal("run succeeded, want failure")
			}

			out := buf.String()
			if !strings.Contains(out, `"level":"`+tt.level+`"`) || !strings.Contains(out, `"phase":"`+tt.phase+`"`) {
				t.Errorf("log lacks level %s in phase %s:\n%s", tt.level, tt.phase, out)
			}
		})
	}
}

func TestRun_ImageCopyFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.runner.onCall = func(n int, cmd *javadoc.Command) error {
		if n != 3 {
			return nil
		}
		dir, _ := cmd.Value("d")
		// A directory in the way makes the image write fail.
		return os.MkdirAll(filepath.Join(dir, ImageFile), 0755)
	}
	o := f.orchestrator(t, Config{})
	r := f.reactor(t)
	if err := o.Init(context.Background(), r.First().Project); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if _, err := o.Run(context.Background(), r.First()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if o.State() != StateDone {
		t.Errorf("State() = %s, want DONE", o.State())
	}
}

func TestRun_SummaryFailureFailsRender(t *testing.T) {
	f := newFixture(t)
	broken := func(string) (sink.Sink, error) { return nil, errors.New("disk full") }
	o := f.orchestrator(t, Config{}, WithSinkFactory(broken))
	r := f.reactor(t)
	if err := o.Init(context.Background(), r.First().Project); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	_, err := o.Run(context.Background(), r.First())
	var rerr *jerrors.ReportError
	if !errors.As(err, &rerr) || rerr.State != string(StateRender) {
		t.Fatalf("Run() error = %v, want ReportError in RENDER", err)
	}
}

func TestRun_BeforeInit(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(t, Config{})
	_, err := o.Run(context.Background(), f.reactor(t).First())
	if !errors.Is(err, jerrors.ErrCheckoutNotInitialized) {
		t.Errorf("Run() error = %v, want ErrCheckoutNotInitialized", err)
	}
	if len(f.runner.calls) != 0 {
		t.Errorf("javadoc ran %d times before initialization", len(f.runner.calls))
	}
}

func TestPackages(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(t, Config{})
	module := f.reactor(t).First()

	if _, _, err := o.Packages(module); !errors.Is(err, jerrors.ErrCheckoutNotInitialized) {
		t.Errorf("Packages() before Init error = %v", err)
	}

	ctx := context.Background()
	if err := o.Init(ctx, module.Project); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	lhs, rhs, err := o.Packages(module)
	if err != nil {
		t.Fatalf("Packages() error = %v", err)
	}
	if got, want := lhs.Sorted(), []string{"com.example.api", "com.example.old"}; !reflect.DeepEqual(got, want) {
		t.Errorf("lhs = %v, want %v", got, want)
	}
	if got, want := rhs.Sorted(), []string{"com.example.api", "com.example.impl"}; !reflect.DeepEqual(got, want) {
		t.Errorf("rhs = %v, want %v", got, want)
	}
	if len(f.runner.calls) != 0 {
		t.Errorf("javadoc ran %d times", len(f.runner.calls))
	}
}

func TestInit_Errors(t *testing.T) {
	tests := []struct {
		name       string
		comparison string
		check      func(error) bool
	}{
		{name: "no published match is soft", comparison: "(,0.5)", check: jerrors.IsSoftFailure},
		{name: "malformed range is a config error", comparison: "[2.0,1.0]", check: jerrors.IsConfigError},
		{
			name:       "unpublished pinned version",
			comparison: "[0.9]",
			check:      func(err error) bool { return errors.Is(err, jerrors.ErrProjectNotFound) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			o := f.orchestrator(t, Config{ComparisonVersion: tt.comparison})
			err := o.Init(context.Background(), f.reactor(t).First().Project)
			if err == nil || !tt.check(err) {
				t.Fatalf("Init() error = %v", err)
			}
			var rerr *jerrors.ReportError
			if !errors.As(err, &rerr) || rerr.State != string(StateResolve) {
				t.Errorf("Init() error = %v, want ReportError in RESOLVE", err)
			}
			if f.provider.checkouts != 0 {
				t.Errorf("checked out %d times", f.provider.checkouts)
			}
		})
	}
}

func TestInit_ExistingCheckoutIsUpdated(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Join(f.project, "target", "jdiff", "1.0")
	testutil.WritePOM(t, dir, testutil.POM{GroupID: "org.example", ArtifactID: "core", Version: "1.0"})

	o := f.orchestrator(t, Config{})
	if err := o.Init(context.Background(), f.reactor(t).First().Project); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if f.provider.updates != 1 || f.provider.checkouts != 0 {
		t.Errorf("checkouts = %d, updates = %d, want one update", f.provider.checkouts, f.provider.updates)
	}
	rec, _ := f.session.Lookup("1.0")
	if rec.Fresh {
		t.Error("updated checkout marked fresh")
	}
}

func TestRun_MultiModuleSharesCheckout(t *testing.T) {
	base := t.TempDir()
	f := &fixture{
		project: filepath.Join(base, "proj"),
		repo:    filepath.Join(base, "repo"),
		runner:  &fakeRunner{},
		session: checkout.NewSession(),
	}
	parent := func(v string) testutil.POM {
		return testutil.POM{
			GroupID: "org.example", ArtifactID: "parent", Version: v, Packaging: "pom",
			Connection: connection, Modules: []string{"core", "util"},
		}
	}
	module := func(name, v string) testutil.POM {
		return testutil.POM{GroupID: "org.example", ArtifactID: name, Version: v}
	}

	testutil.WritePOM(t, f.project, parent("2.0"))
	testutil.WritePOM(t, filepath.Join(f.project, "core"), module("core", "2.0"))
	testutil.WritePOM(t, filepath.Join(f.project, "util"), module("util", "2.0"))
	testutil.WriteJavaSources(t, filepath.Join(f.project, "core", "src", "main", "java"), "org/example/core/Core.java")
	testutil.WriteJavaSources(t, filepath.Join(f.project, "util", "src", "main", "java"), "org/example/util/Util.java")
	testutil.WriteFiles(t, f.repo, map[string]string{
		"org/example/parent/1.0/parent-1.0.pom": parent("1.0").XML(),
		"org/example/parent/1.5/parent-1.5.pom": parent("1.5").XML(),
	})
	files := map[string]string{}
	files["pom.xml"] = parent("1.5").XML()
	files["core/pom.xml"] = module("core", "1.5").XML()
	files["util/pom.xml"] = module("util", "1.5").XML()
	files["core/src/main/java/org/example/core/Core.java"] = javaFile("org.example.core", "Core")
	files["util/src/main/java/org/example/util/Util.java"] = javaFile("org.example.util", "Util")
	f.provider = &treeProvider{files: files}

	o := f.orchestrator(t, Config{})
	r := f.reactor(t)
	ctx := context.Background()
	if err := o.Init(ctx, r.First().Project); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	var generated []string
	for _, m := range r.Modules {
		loc, err := o.Run(ctx, m)
		if err != nil {
			t.Fatalf("Run(%s) error = %v", m.Name(), err)
		}
		if !loc.Skipped {
			generated = append(generated, loc.Module)
		}
	}

	if !reflect.DeepEqual(generated, []string{"core", "util"}) {
		t.Errorf("generated = %v, want core and util (parent skipped)", generated)
	}
	if f.provider.checkouts != 1 {
		t.Errorf("checkouts = %d, want 1 shared by every module", f.provider.checkouts)
	}
	if len(f.runner.calls) != 6 {
		t.Fatalf("javadoc ran %d times, want 6", len(f.runner.calls))
	}
	utilOld := f.runner.calls[3]
	wantSrc := filepath.Join(f.project, "target", "jdiff", "1.5", "util", "src", "main", "java")
	if got := value(t, utilOld, "sourcepath"); got != wantSrc {
		t.Errorf("util old -sourcepath = %q, want %q", got, wantSrc)
	}
	if got := value(t, utilOld, "apidir"); got != filepath.Join(f.project, "util", "target", "jdiff") {
		t.Errorf("util -apidir = %q", got)
	}
}

func TestRun_TestVariant(t *testing.T) {
	f := newFixture(t)
	testutil.WriteJavaSources(t, filepath.Join(f.project, "src", "test", "java"), "com/example/api/FooTest.java")
	f.provider.files["src/test/java/com/example/api/FooTest.java"] = javaFile("com.example.api", "FooTest")

	o := f.orchestrator(t, Config{Variant: TestVariant, OutputDir: "reports"})
	r := f.reactor(t)
	if err := o.Init(context.Background(), r.First().Project); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	loc, err := o.Run(context.Background(), r.First())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := value(t, f.runner.calls[0], "apiname"); got != "1.0-test" {
		t.Errorf("-apiname = %q, want 1.0-test", got)
	}
	diff := f.runner.calls[2]
	if value(t, diff, "oldapi") != "1.0-test" || value(t, diff, "newapi") != "1.1-test" {
		t.Errorf("diff command %s", diff)
	}
	if got := value(t, diff, "sourcepath"); got != filepath.Join(f.project, "src", "test", "java") {
		t.Errorf("-sourcepath = %q", got)
	}
	if !strings.HasPrefix(value(t, diff, "classpath"), filepath.Join(f.project, "target", "test-classes")) {
		t.Errorf("-classpath = %q", value(t, diff, "classpath"))
	}
	if want := filepath.Join(f.project, "reports", "testapidocs"); loc.Dir != want {
		t.Errorf("Dir = %q, want %q", loc.Dir, want)
	}
}

func TestRun_SkipsAggregator(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(t, Config{})
	module := pom.Module{Project: &pom.Project{ArtifactID: "parent", Packaging: "pom"}, RelPath: "."}

	loc, err := o.Run(context.Background(), module)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !loc.Skipped {
		t.Error("aggregator not skipped")
	}
	if len(f.runner.calls) != 0 || o.State() != StateIdle {
		t.Errorf("calls = %d, state = %s", len(f.runner.calls), o.State())
	}
}

func TestNew_Validation(t *testing.T) {
	f := newFixture(t)

	if _, err := New(Config{}); !errors.Is(err, jerrors.ErrInvalidInput) {
		t.Errorf("New(empty) error = %v, want validation error", err)
	}

	cfg := f.config(Config{})
	cfg.Javadoc = ""
	if _, err := New(cfg); !jerrors.IsConfigError(err) {
		t.Errorf("New(no javadoc) error = %v, want config error", err)
	}

	cfg = f.config(Config{})
	cfg.DocletPath = []string{}
	if _, err := New(cfg); !jerrors.IsConfigError(err) {
		t.Errorf("New(no doclet path) error = %v, want config error", err)
	}
}

func TestReportDir(t *testing.T) {
	tests := []struct {
		output, dest, want string
	}{
		{output: "/site", dest: "apidocs", want: "/site/apidocs"},
		{output: "/site/apidocs", dest: "apidocs", want: "/site/apidocs"},
		{output: "/site/apidocs/", dest: "apidocs", want: "/site/apidocs/"},
		{output: "/site/myapidocs", dest: "apidocs", want: "/site/myapidocs/apidocs"},
		{output: "/site", dest: "", want: "/site"},
		{output: "/out/docs/api", dest: "docs/api", want: "/out/docs/api"},
	}
	for _, tt := range tests {
		t.Run(tt.output+"+"+tt.dest, func(t *testing.T) {
			output := filepath.FromSlash(tt.output)
			if got := ReportDir(output, tt.dest); got != filepath.FromSlash(tt.want) {
				t.Errorf("ReportDir(%q, %q) = %q, want %q", output, tt.dest, got, tt.want)
			}
		})
	}
}
