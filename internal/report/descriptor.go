package report

import (
	"context"
	"path/filepath"

	"github.com/Iron-Ham/jdiff/internal/classpath"
	"github.com/Iron-Ham/jdiff/internal/errors"
	"github.com/Iron-Ham/jdiff/internal/javadoc"
	"github.com/Iron-Ham/jdiff/internal/logging"
	"github.com/Iron-Ham/jdiff/internal/pom"
	"github.com/Iron-Ham/jdiff/internal/source"
)

// Descriptor writes a single XML API snapshot of a project, without
// comparing it to anything.
type Descriptor struct {
	Javadoc    string
	DocletPath []string
	Runner     javadoc.Runner
	Classpath  classpath.Resolver
	Logger     *logging.Logger
}

// DefaultAPIName returns "<artifactId>-<version>".
func DefaultAPIName(p *pom.Project) string {
	return p.ArtifactID + "-" + p.Version
}

// Generate documents project's main sources as <target>/jdiff/<apiName>.xml
// and returns that path. An empty apiName selects DefaultAPIName. A
// non-empty include set replaces the packages found by scanning.
func (d *Descriptor) Generate(ctx context.Context, project *pom.Project, apiName string, include source.PackageSet) (string, error) {
	logger := d.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	logger = logger.WithModule(project.ArtifactID).WithPhase("descriptor")

	if apiName == "" {
		apiName = DefaultAPIName(project)
	}

	roots := project.CompileSourceRoots()
	packages := include
	if packages.Len() > 0 {
		logger.Debug("included packages overridden", "packages", packages.Sorted())
	} else {
		packages = source.Scan(project.BaseDir, roots)
	}
	if packages.Len() == 0 {
		return "", errors.NewValidationError("no packages to document").WithField("packages").WithValue(project.ID())
	}

	deps, err := d.Classpath.Classpath(ctx, project)
	if err != nil {
		return "", err
	}
	cp := append([]string{project.Build.OutputDirectory}, deps...)

	apiDir := snapshotDir(project)
	cmd := SnapshotCommand(d.Javadoc, d.DocletPath, apiName, apiDir, cp, roots, packages)
	if err := d.Runner.Execute(ctx, cmd, apiDir); err != nil {
		logger.Error("error when generating the JDiff descriptor", "error", err.Error())
		return "", err
	}
	return filepath.Join(apiDir, apiName+".xml"), nil
}
