// Package report runs the API-difference report of a project.
//
// An Orchestrator is set up once per run. Init resolves the comparison
// and base versions against the reactor root and fetches the sources of
// any version other than the one on disk into a shared checkout session.
// Run then takes each module through a linear sequence of states:
//
//	RESOLVE -> SNAPSHOT_LHS -> SNAPSHOT_RHS -> DIFF -> RENDER -> DONE
//
// The two snapshot states run javadoc with the JDiff doclet to write an
// XML description of each side's API; DIFF runs it a third time to turn
// the two snapshots into HTML; RENDER writes a summary page linking to it.
// Any failure before RENDER completes moves the orchestrator to FAILED and
// is returned as an *errors.ReportError.
package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Iron-Ham/jdiff/internal/artifact"
	"github.com/Iron-Ham/jdiff/internal/checkout"
	"github.com/Iron-Ham/jdiff/internal/classpath"
	"github.com/Iron-Ham/jdiff/internal/errors"
	"github.com/Iron-Ham/jdiff/internal/javadoc"
	"github.com/Iron-Ham/jdiff/internal/logging"
	"github.com/Iron-Ham/jdiff/internal/pom"
	"github.com/Iron-Ham/jdiff/internal/repository"
	"github.com/Iron-Ham/jdiff/internal/scm"
	"github.com/Iron-Ham/jdiff/internal/source"
)

// State is a step of a module run.
type State string

const (
	StateIdle        State = "IDLE"
	StateResolve     State = "RESOLVE"
	StateSnapshotLHS State = "SNAPSHOT_LHS"
	StateSnapshotRHS State = "SNAPSHOT_RHS"
	StateDiff        State = "DIFF"
	StateRender      State = "RENDER"
	StateDone        State = "DONE"
	StateFailed      State = "FAILED"
)

// DefaultName is the summary page title when none is configured.
const DefaultName = "JDiff API Difference Report"

// DefaultSummaryFile is the base name of the summary page.
const DefaultSummaryFile = "jdiff"

// IndexFile is the entry page JDiff writes into the report directory.
const IndexFile = "changes.html"

// Config describes one report run and the collaborators it uses.
type Config struct {
	// ComparisonVersion is the old side; empty means "(,<project.version>)".
	ComparisonVersion string
	// BaseVersion is the new side; empty means the project's own version.
	BaseVersion string
	// ForceCheckout discards existing checkouts instead of updating them.
	ForceCheckout bool
	// WorkingDir holds the checkouts; empty means <root>/target/jdiff.
	// Snapshots are always written to each module's own target/jdiff.
	WorkingDir string
	// OutputDir is where the summary page goes and the parent of the
	// report directory. Relative paths are taken from each module's base
	// directory; empty means <module>/target/site.
	OutputDir string
	// Name titles the summary page; Description adds a paragraph to it.
	Name        string
	Description string
	// SummaryFile is the summary page base name, without extension.
	SummaryFile string
	Variant     Variant

	// Javadoc is the javadoc executable; DocletPath the JDiff doclet jars.
	Javadoc    string
	DocletPath []string

	Resolver  *artifact.Resolver
	Projects  repository.POMSource
	Fetcher   *scm.Fetcher
	Session   *checkout.Session
	Runner    javadoc.Runner
	Classpath classpath.Resolver
}

// Location is where a module's report ended up.
type Location struct {
	Module string
	// Dir is the report directory holding JDiff's HTML.
	Dir string
	// Index is the report's entry page.
	Index string
	// Summary is the generated summary page.
	Summary string
	// Skipped is set when the module has no sources for the variant.
	Skipped bool
}

// Side is one resolved end of the comparison.
type Side struct {
	Spec    string
	Version string
	// Current is set when the side is the project on disk.
	Current bool
}

// Option configures an Orchestrator.
type Option func(*options)

type options struct {
	logger  *logging.Logger
	newSink SinkFactory
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSinkFactory replaces how summary pages are created.
func WithSinkFactory(f SinkFactory) Option {
	return func(o *options) {
		o.newSink = f
	}
}

// Orchestrator generates reports for the modules of one reactor.
type Orchestrator struct {
	mu     sync.RWMutex
	cfg    Config
	opts   options
	logger *logging.Logger

	state       State
	initialized bool
	lhs, rhs    Side
}

// New validates cfg and creates an Orchestrator.
func New(cfg Config, opts ...Option) (*Orchestrator, error) {
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NopLogger()
	}
	if o.newSink == nil {
		o.newSink = HTMLSink
	}

	return &Orchestrator{
		cfg:    cfg,
		opts:   o,
		logger: o.logger.WithPhase("report"),
		state:  StateIdle,
	}, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.Resolver == nil, cfg.Projects == nil, cfg.Fetcher == nil,
		cfg.Session == nil, cfg.Runner == nil, cfg.Classpath == nil:
		return errors.NewValidationError("report: missing collaborator")
	case cfg.Javadoc == "":
		return errors.NewConfigError("javadoc executable is not set", errors.ErrExecutableNotFound).
			WithField("javadoc.executable")
	case len(cfg.DocletPath) == 0:
		return errors.NewConfigError("doclet path is empty", nil).WithField("javadoc.docletpath")
	}
	if cfg.Variant.SourceRoots == nil {
		cfg.Variant = MainVariant
	}
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.SummaryFile == "" {
		cfg.SummaryFile = DefaultSummaryFile
	}
	return nil
}

// State returns the state the last run reached.
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Sides returns the resolved comparison (lhs) and base (rhs) sides. They
// are zero until Init succeeds.
func (o *Orchestrator) Sides() (lhs, rhs Side) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lhs, o.rhs
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// fail records the failed state and wraps err.
func (o *Orchestrator) fail(module string, state State, err error) error {
	o.setState(StateFailed)
	var rerr *errors.ReportError
	if errors.As(err, &rerr) {
		return err
	}

	logger := o.logger.WithModule(module).WithPhase(string(state))
	switch errors.GetSeverity(err) {
	case errors.SeverityDebug, errors.SeverityInfo:
		logger.Info("report generation stopped", "error", err.Error())
	case errors.SeverityWarning:
		logger.Warn("report generation stopped", "error", err.Error())
	default:
		logger.Error("report generation failed", "error", err.Error())
	}
	return errors.NewReportError("an error has occurred in "+o.cfg.Name+" generation", err).
		WithModule(module).
		WithState(string(state))
}

// Init resolves both versions against the reactor root and fetches every
// side that is not the project on disk. It must run once, before any
// module, and is the only place checkouts happen.
//
// A comparison range with no published match fails with an error that
// matches errors.ErrNoMatchingVersion; callers treat it as informational.
func (o *Orchestrator) Init(ctx context.Context, root *pom.Project) error {
	o.setState(StateResolve)

	comparison := o.cfg.ComparisonVersion
	if comparison == "" {
		comparison = "(," + root.Version + ")"
	}
	base := o.cfg.BaseVersion
	if base == "" {
		base = root.Version
	}

	lhs, err := o.prepare(ctx, root, comparison)
	if err != nil {
		return o.fail(root.ArtifactID, StateResolve, err)
	}
	rhs, err := o.prepare(ctx, root, base)
	if err != nil {
		return o.fail(root.ArtifactID, StateResolve, err)
	}

	o.mu.Lock()
	o.lhs, o.rhs = lhs, rhs
	o.initialized = true
	o.state = StateIdle
	o.mu.Unlock()

	o.logger.Info("comparison prepared", "old", lhs.Version, "new", rhs.Version, "checkouts", o.cfg.Session.Versions())
	return nil
}

func (o *Orchestrator) prepare(ctx context.Context, root *pom.Project, spec string) (Side, error) {
	resolved, err := o.cfg.Resolver.Resolve(ctx, spec, root)
	if err != nil {
		return Side{}, err
	}
	side := Side{Spec: spec, Version: resolved.Version, Current: resolved.Current}
	if side.Current {
		return side, nil
	}
	if !resolved.Found() {
		return side, errors.NewNotFoundError("version", resolved.GroupID+":"+resolved.ArtifactID+":"+spec).
			WithCause(errors.ErrNoMatchingVersion)
	}

	coords := repository.Coordinates{GroupID: resolved.GroupID, ArtifactID: resolved.ArtifactID}
	published, err := repository.LoadProject(ctx, o.cfg.Projects, coords, resolved.Version)
	if err != nil {
		return side, err
	}

	dir := filepath.Join(o.workingDir(root), resolved.Version)
	_, err = o.cfg.Session.Init(ctx, resolved.Version, func(ctx context.Context) (checkout.Record, error) {
		action, err := o.cfg.Fetcher.Fetch(ctx, published, dir, o.cfg.ForceCheckout)
		if err != nil {
			return checkout.Record{}, err
		}
		return checkout.Record{Version: resolved.Version, Dir: dir, Fresh: action == scm.ActionCheckout}, nil
	})
	return side, err
}

func (o *Orchestrator) workingDir(root *pom.Project) string {
	if o.cfg.WorkingDir != "" {
		return o.cfg.WorkingDir
	}
	return filepath.Join(root.Build.Directory, "jdiff")
}

// CanGenerate reports whether module has sources for the configured
// variant.
func (o *Orchestrator) CanGenerate(module pom.Module) bool {
	return o.cfg.Variant.CanGenerate(module.Project)
}

// Run generates the report of one module. Modules without sources for
// the variant are skipped and return a Location with Skipped set.
func (o *Orchestrator) Run(ctx context.Context, module pom.Module) (*Location, error) {
	current := module.Project
	name := module.Name()
	logger := o.logger.WithModule(name)

	if !o.CanGenerate(module) {
		logger.Info("this report cannot be generated for the module", "packaging", current.Packaging, "variant", o.cfg.Variant.Name)
		return &Location{Module: name, Skipped: true}, nil
	}

	o.mu.RLock()
	initialized, lhsSide, rhsSide := o.initialized, o.lhs, o.rhs
	o.mu.RUnlock()

	o.setState(StateResolve)
	if !initialized {
		return nil, o.fail(name, StateResolve, errors.NewNotFoundError("checkout", "session").
			WithCause(errors.ErrCheckoutNotInitialized))
	}
	lhs, err := o.sideProject(module, lhsSide)
	if err != nil {
		return nil, o.fail(name, StateResolve, err)
	}
	rhs, err := o.sideProject(module, rhsSide)
	if err != nil {
		return nil, o.fail(name, StateResolve, err)
	}

	oldAPI := o.cfg.Variant.APIName(lhs.Version)
	newAPI := o.cfg.Variant.APIName(rhs.Version)

	o.setState(StateSnapshotLHS)
	lhsPackages, err := o.snapshot(ctx, current, lhs, oldAPI, logger)
	if err != nil {
		return nil, o.fail(name, StateSnapshotLHS, err)
	}

	o.setState(StateSnapshotRHS)
	rhsPackages, err := o.snapshot(ctx, current, rhs, newAPI, logger)
	if err != nil {
		return nil, o.fail(name, StateSnapshotRHS, err)
	}

	o.setState(StateDiff)
	packages := source.NewPackageSet()
	packages.Union(lhsPackages)
	packages.Union(rhsPackages)
	loc := o.location(current)
	if err := o.diff(ctx, current, rhs, loc.Dir, oldAPI, newAPI, packages, logger); err != nil {
		return nil, o.fail(name, StateDiff, err)
	}

	o.setState(StateRender)
	if err := o.render(loc, logger); err != nil {
		return nil, o.fail(name, StateRender, err)
	}

	o.setState(StateDone)
	logger.Info("report generated", "dir", loc.Dir, "old", oldAPI, "new", newAPI)
	return loc, nil
}

// Packages returns the packages each side of module documents, without
// running javadoc.
func (o *Orchestrator) Packages(module pom.Module) (lhs, rhs source.PackageSet, err error) {
	o.mu.RLock()
	initialized, lhsSide, rhsSide := o.initialized, o.lhs, o.rhs
	o.mu.RUnlock()

	if !initialized {
		return nil, nil, errors.NewNotFoundError("checkout", "session").WithCause(errors.ErrCheckoutNotInitialized)
	}
	lhsProject, err := o.sideProject(module, lhsSide)
	if err != nil {
		return nil, nil, err
	}
	rhsProject, err := o.sideProject(module, rhsSide)
	if err != nil {
		return nil, nil, err
	}
	lhs = source.Scan(lhsProject.BaseDir, o.cfg.Variant.SourceRoots(lhsProject))
	rhs = source.Scan(rhsProject.BaseDir, o.cfg.Variant.SourceRoots(rhsProject))
	return lhs, rhs, nil
}

// sideProject returns module as it is on side: the project on disk, or
// the same module inside the side's checkout.
func (o *Orchestrator) sideProject(module pom.Module, side Side) (*pom.Project, error) {
	if side.Current {
		return module.Project, nil
	}
	rec, err := o.cfg.Session.Lookup(side.Version)
	if err != nil {
		return nil, err
	}
	return pom.Load(pom.ModuleIn(rec.Dir, module))
}

// snapshot writes the XML API description of side under apiName and
// returns the packages it covered.
func (o *Orchestrator) snapshot(ctx context.Context, current, side *pom.Project, apiName string, logger *logging.Logger) (source.PackageSet, error) {
	logger = logger.WithVersion(side.Version)
	roots := o.cfg.Variant.SourceRoots(side)
	packages := source.Scan(side.BaseDir, roots)
	logger.Debug("packages found", "count", packages.Len())

	deps, err := o.cfg.Classpath.Classpath(ctx, side)
	if err != nil {
		return nil, err
	}
	cp := append([]string{o.cfg.Variant.BuildOutputDir(current)}, deps...)

	apiDir := snapshotDir(current)
	cmd := SnapshotCommand(o.cfg.Javadoc, o.cfg.DocletPath, apiName, apiDir, cp, roots, packages)
	if err := o.cfg.Runner.Execute(ctx, cmd, apiDir); err != nil {
		return nil, err
	}
	return packages, nil
}

// diff turns the two snapshots into the HTML report in reportDir.
func (o *Orchestrator) diff(ctx context.Context, current, rhs *pom.Project, reportDir, oldAPI, newAPI string, packages source.PackageSet, logger *logging.Logger) error {
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return errors.Wrapf(err, "creating report directory %s", reportDir)
	}

	deps, err := o.cfg.Classpath.Classpath(ctx, current)
	if err != nil {
		return err
	}
	cp := append([]string{o.cfg.Variant.BuildOutputDir(current)}, deps...)

	cmd := javadoc.NewCommand(o.cfg.Javadoc).
		Flag("private").
		Pair("d", reportDir).
		Pair("sourcepath", o.cfg.Variant.SourceDir(rhs)).
		Pair("classpath", classpath.Join(cp)).
		Pair("doclet", javadoc.Doclet).
		Pair("docletpath", classpath.Join(o.cfg.DocletPath)).
		Pair("oldapi", oldAPI).
		Pair("newapi", newAPI).
		Flag("stats").
		Arg(packages.Sorted()...)

	logger.Debug("generating difference report", "packages", packages.Len())
	return o.cfg.Runner.Execute(ctx, cmd, snapshotDir(current))
}

// location works out where the report of p is written.
func (o *Orchestrator) location(p *pom.Project) *Location {
	out := o.cfg.OutputDir
	switch {
	case out == "":
		out = filepath.Join(p.Build.Directory, "site")
	case !filepath.IsAbs(out):
		out = filepath.Join(p.BaseDir, out)
	}
	dir := ReportDir(out, o.cfg.Variant.DestDir)
	return &Location{
		Module:  p.ArtifactID,
		Dir:     dir,
		Index:   filepath.Join(dir, IndexFile),
		Summary: filepath.Join(out, o.cfg.SummaryFile+".html"),
	}
}

// ReportDir joins destDir onto output unless output already ends with it.
func ReportDir(output, destDir string) string {
	if destDir == "" {
		return output
	}
	clean := filepath.ToSlash(filepath.Clean(output))
	dest := strings.Trim(filepath.ToSlash(destDir), "/")
	if clean == dest || strings.HasSuffix(clean, "/"+dest) {
		return output
	}
	return filepath.Join(output, filepath.FromSlash(dest))
}

// snapshotDir is where the doclet reads and writes the XML snapshots of p.
func snapshotDir(p *pom.Project) string {
	return filepath.Join(p.Build.Directory, "jdiff")
}

// SnapshotCommand builds the javadoc invocation that writes the XML API
// description of packages as <apiDir>/<apiName>.xml.
func SnapshotCommand(executable string, docletPath []string, apiName, apiDir string, cp, sourceRoots []string, packages source.PackageSet) *javadoc.Command {
	return javadoc.NewCommand(executable).
		Pair("doclet", javadoc.Doclet).
		Pair("docletpath", classpath.Join(docletPath)).
		Pair("apiname", apiName).
		Pair("apidir", apiDir).
		Pair("classpath", classpath.Join(cp)).
		Pair("sourcepath", classpath.Join(sourceRoots)).
		Arg(packages.Sorted()...)
}
