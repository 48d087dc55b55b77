// Package pom reads Maven project models from pom.xml files.
//
// Only the parts of the model the report needs are decoded: coordinates,
// packaging, the <scm> block, build directories, modules and properties.
// Parent inheritance and ${...} interpolation follow Maven's rules for
// those fields.
package pom

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/jdiff/internal/errors"
)

// FileName is the conventional project model file name.
const FileName = "pom.xml"

// PackagingPOM is the packaging of aggregator/parent projects, which have
// no sources of their own.
const PackagingPOM = "pom"

// Default build layout, relative to the project base directory.
const (
	DefaultBuildDirectory      = "target"
	DefaultSourceDirectory     = "src/main/java"
	DefaultTestSourceDirectory = "src/test/java"
	DefaultOutputDirectory     = "target/classes"
	DefaultTestOutputDirectory = "target/test-classes"
)

// SCM is the <scm> block of a project.
type SCM struct {
	Connection          string `xml:"connection"`
	DeveloperConnection string `xml:"developerConnection"`
	Tag                 string `xml:"tag"`
	URL                 string `xml:"url"`
}

// Parent identifies the parent project.
type Parent struct {
	GroupID      string `xml:"groupId"`
	ArtifactID   string `xml:"artifactId"`
	Version      string `xml:"version"`
	RelativePath string `xml:"relativePath"`
}

// Build holds the directories of the <build> block. After loading, every
// path is absolute.
type Build struct {
	Directory           string `xml:"directory"`
	SourceDirectory     string `xml:"sourceDirectory"`
	TestSourceDirectory string `xml:"testSourceDirectory"`
	OutputDirectory     string `xml:"outputDirectory"`
	TestOutputDirectory string `xml:"testOutputDirectory"`
}

type property struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type properties struct {
	Entries []property `xml:",any"`
}

type model struct {
	XMLName     xml.Name   `xml:"project"`
	Parent      *Parent    `xml:"parent"`
	GroupID     string     `xml:"groupId"`
	ArtifactID  string     `xml:"artifactId"`
	Version     string     `xml:"version"`
	Packaging   string     `xml:"packaging"`
	Name        string     `xml:"name"`
	Description string     `xml:"description"`
	SCM         *SCM       `xml:"scm"`
	Build       Build      `xml:"build"`
	Modules     []string   `xml:"modules>module"`
	Properties  properties `xml:"properties"`
}

// Project is a loaded, interpolated project model.
type Project struct {
	GroupID     string
	ArtifactID  string
	Version     string
	Packaging   string
	Name        string
	Description string
	Parent      *Parent
	SCM         *SCM
	Build       Build
	Modules     []string
	Properties  map[string]string

	// File is the absolute path of the pom.xml this project was read from.
	File string
	// BaseDir is the directory containing File.
	BaseDir string
}

// Coordinates returns "groupId:artifactId".
func (p *Project) Coordinates() string {
	return p.GroupID + ":" + p.ArtifactID
}

// ID returns "groupId:artifactId:version".
func (p *Project) ID() string {
	return p.Coordinates() + ":" + p.Version
}

// IsAggregator reports whether the project has pom packaging.
func (p *Project) IsAggregator() bool {
	return strings.EqualFold(p.Packaging, PackagingPOM)
}

// CompileSourceRoots returns the main source roots. Aggregator projects
// have none.
func (p *Project) CompileSourceRoots() []string {
	if p.IsAggregator() || p.Build.SourceDirectory == "" {
		return nil
	}
	return []string{p.Build.SourceDirectory}
}

// TestCompileSourceRoots returns the test source roots.
func (p *Project) TestCompileSourceRoots() []string {
	if p.IsAggregator() || p.Build.TestSourceDirectory == "" {
		return nil
	}
	return []string{p.Build.TestSourceDirectory}
}

// Load reads the project model at path (a pom.xml file or a directory
// containing one), resolving parent inheritance from the filesystem.
func Load(path string) (*Project, error) {
	return load(path, map[string]bool{})
}

func load(path string, seen map[string]bool) (*Project, error) {
	file, err := resolveFile(path)
	if err != nil {
		return nil, err
	}
	if seen[file] {
		return nil, errors.NewValidationError("parent cycle detected").WithField("parent").WithValue(file)
	}
	seen[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", file)
	}
	m, err := parse(data, file)
	if err != nil {
		return nil, err
	}

	p := newProject(m, file)
	if p.Parent != nil {
		if parent := loadParent(p, seen); parent != nil {
			inherit(p, parent)
		}
	}
	finish(p, m)
	return p, nil
}

// Decode reads a project model that is not on disk, such as one fetched
// from a repository. Parents are not resolved; name identifies the model
// in errors. Build directories stay relative.
func Decode(data []byte, name string) (*Project, error) {
	m, err := parse(data, name)
	if err != nil {
		return nil, err
	}
	p := newProject(m, "")
	finish(p, m)
	return p, nil
}

func newProject(m *model, file string) *Project {
	p := &Project{
		GroupID:     strings.TrimSpace(m.GroupID),
		ArtifactID:  strings.TrimSpace(m.ArtifactID),
		Version:     strings.TrimSpace(m.Version),
		Packaging:   strings.TrimSpace(m.Packaging),
		Name:        strings.TrimSpace(m.Name),
		Description: strings.TrimSpace(m.Description),
		Parent:      m.Parent,
		SCM:         m.SCM,
		Build:       m.Build,
		Modules:     m.Modules,
		Properties:  map[string]string{},
		File:        file,
	}
	if file != "" {
		p.BaseDir = filepath.Dir(file)
	}
	if p.Parent != nil {
		if p.GroupID == "" {
			p.GroupID = strings.TrimSpace(p.Parent.GroupID)
		}
		if p.Version == "" {
			p.Version = strings.TrimSpace(p.Parent.Version)
		}
	}
	return p
}

func finish(p *Project, m *model) {
	for _, entry := range m.Properties.Entries {
		p.Properties[entry.XMLName.Local] = strings.TrimSpace(entry.Value)
	}
	if p.Packaging == "" {
		p.Packaging = "jar"
	}

	interpolate(p)
	applyBuildDefaults(p)
}

func resolveFile(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", path)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.NewNotFoundError("pom", abs).WithCause(errors.ErrProjectNotFound)
	}
	if info.IsDir() {
		abs = filepath.Join(abs, FileName)
		if _, err := os.Stat(abs); err != nil {
			return "", errors.NewNotFoundError("pom", abs).WithCause(errors.ErrProjectNotFound)
		}
	}
	return abs, nil
}

func parse(data []byte, name string) (*model, error) {
	var m model
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, errors.NewValidationError("malformed project model").
			WithField("pom").
			WithValue(name).
			WithCause(err)
	}
	return &m, nil
}

// loadParent returns the parent model when it can be found on disk and
// matches the declared coordinates. A parent that only lives in a
// repository is not an error; its values are simply not inherited.
func loadParent(p *Project, seen map[string]bool) *Project {
	rel := p.Parent.RelativePath
	if rel == "" {
		rel = filepath.Join("..", FileName)
	}
	candidate := filepath.Join(p.BaseDir, rel)
	parent, err := load(candidate, seen)
	if err != nil {
		return nil
	}
	if parent.ArtifactID != strings.TrimSpace(p.Parent.ArtifactID) {
		return nil
	}
	return parent
}

func inherit(child, parent *Project) {
	if child.SCM == nil && parent.SCM != nil {
		scm := *parent.SCM
		child.SCM = &scm
	}
	for k, v := range parent.Properties {
		if _, ok := child.Properties[k]; !ok {
			child.Properties[k] = v
		}
	}
}

// interpolate expands ${...} references in the fields the report uses.
func interpolate(p *Project) {
	// Two passes so that properties referring to project fields resolve.
	for i := 0; i < 2; i++ {
		values := p.values()
		p.Version = expand(p.Version, values)
		p.GroupID = expand(p.GroupID, values)
		for k, v := range p.Properties {
			p.Properties[k] = expand(v, values)
		}
	}

	values := p.values()
	if p.SCM != nil {
		p.SCM.Connection = expand(strings.TrimSpace(p.SCM.Connection), values)
		p.SCM.DeveloperConnection = expand(strings.TrimSpace(p.SCM.DeveloperConnection), values)
		p.SCM.Tag = expand(strings.TrimSpace(p.SCM.Tag), values)
		p.SCM.URL = expand(strings.TrimSpace(p.SCM.URL), values)
	}
	p.Build.Directory = expand(strings.TrimSpace(p.Build.Directory), values)
	p.Build.SourceDirectory = expand(strings.TrimSpace(p.Build.SourceDirectory), values)
	p.Build.TestSourceDirectory = expand(strings.TrimSpace(p.Build.TestSourceDirectory), values)
	p.Build.OutputDirectory = expand(strings.TrimSpace(p.Build.OutputDirectory), values)
	p.Build.TestOutputDirectory = expand(strings.TrimSpace(p.Build.TestOutputDirectory), values)
}

func (p *Project) values() map[string]string {
	values := make(map[string]string, len(p.Properties)+12)
	for k, v := range p.Properties {
		values[k] = v
	}
	for _, prefix := range []string{"project.", "pom.", ""} {
		values[prefix+"groupId"] = p.GroupID
		values[prefix+"artifactId"] = p.ArtifactID
		values[prefix+"version"] = p.Version
	}
	values["project.basedir"] = p.BaseDir
	values["basedir"] = p.BaseDir
	if p.Parent != nil {
		values["project.parent.version"] = p.Parent.Version
		values["project.parent.groupId"] = p.Parent.GroupID
	}
	buildDir := p.Build.Directory
	if buildDir == "" {
		buildDir = DefaultBuildDirectory
	}
	values["project.build.directory"] = absPath(p.BaseDir, buildDir)
	return values
}

// expand replaces ${key} occurrences found in values. Unknown keys are
// left untouched, as Maven does.
func expand(s string, values map[string]string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	var sb strings.Builder
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			sb.WriteString(s)
			break
		}
		end := strings.Index(s[start:], "}")
		if end < 0 {
			sb.WriteString(s)
			break
		}
		end += start
		key := s[start+2 : end]
		sb.WriteString(s[:start])
		if v, ok := values[key]; ok {
			sb.WriteString(v)
		} else {
			sb.WriteString(s[start : end+1])
		}
		s = s[end+1:]
	}
	return sb.String()
}

func applyBuildDefaults(p *Project) {
	b := &p.Build
	b.Directory = absPath(p.BaseDir, orDefault(b.Directory, DefaultBuildDirectory))
	b.SourceDirectory = absPath(p.BaseDir, orDefault(b.SourceDirectory, DefaultSourceDirectory))
	b.TestSourceDirectory = absPath(p.BaseDir, orDefault(b.TestSourceDirectory, DefaultTestSourceDirectory))
	b.OutputDirectory = absPath(p.BaseDir, orDefault(b.OutputDirectory, DefaultOutputDirectory))
	b.TestOutputDirectory = absPath(p.BaseDir, orDefault(b.TestOutputDirectory, DefaultTestOutputDirectory))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func absPath(base, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// String returns the project id for logging.
func (p *Project) String() string {
	return fmt.Sprintf("%s (%s)", p.ID(), p.BaseDir)
}
