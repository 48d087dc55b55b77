package report

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/jdiff/internal/errors"
	"github.com/Iron-Ham/jdiff/internal/pom"
)

// Variant selects which half of a project a report covers.
type Variant struct {
	Name string
	// SourceRoots returns the roots scanned for packages and passed as
	// -sourcepath when taking a snapshot.
	SourceRoots func(*pom.Project) []string
	// BuildOutputDir returns the compiled classes put first on the
	// classpath.
	BuildOutputDir func(*pom.Project) string
	// SourceDir returns the single source directory given to the diff run.
	SourceDir func(*pom.Project) string
	// DestDir is the report directory name under the output directory.
	DestDir string
	// APISuffix is appended to every API name, keeping snapshots of
	// different variants apart.
	APISuffix string
}

// MainVariant reports on the main sources.
var MainVariant = Variant{
	Name:           "main",
	SourceRoots:    (*pom.Project).CompileSourceRoots,
	BuildOutputDir: func(p *pom.Project) string { return p.Build.OutputDirectory },
	SourceDir:      func(p *pom.Project) string { return p.Build.SourceDirectory },
	DestDir:        "apidocs",
}

// TestVariant reports on the test sources.
var TestVariant = Variant{
	Name:           "test",
	SourceRoots:    (*pom.Project).TestCompileSourceRoots,
	BuildOutputDir: func(p *pom.Project) string { return p.Build.TestOutputDirectory },
	SourceDir:      func(p *pom.Project) string { return p.Build.TestSourceDirectory },
	DestDir:        "testapidocs",
	APISuffix:      "-test",
}

// Variants lists the built-in variants by name.
var Variants = map[string]Variant{
	MainVariant.Name: MainVariant,
	TestVariant.Name: TestVariant,
}

// VariantByName returns the built-in variant called name.
func VariantByName(name string) (Variant, error) {
	v, ok := Variants[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Variant{}, errors.NewConfigError(fmt.Sprintf("unknown report variant %q (want main or test)", name), nil).
			WithField("report.variant").
			WithValue(name)
	}
	return v, nil
}

// WithDestDir returns a copy of v writing into dir. An empty dir keeps the
// variant's default.
func (v Variant) WithDestDir(dir string) Variant {
	if dir != "" {
		v.DestDir = dir
	}
	return v
}

// APIName returns the snapshot name of version under this variant.
func (v Variant) APIName(version string) string {
	return version + v.APISuffix
}

// CanGenerate reports whether p has sources for this variant. Aggregator
// projects never do.
func (v Variant) CanGenerate(p *pom.Project) bool {
	if p.IsAggregator() {
		return false
	}
	return len(v.SourceRoots(p)) > 0
}
