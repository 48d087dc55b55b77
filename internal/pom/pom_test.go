package pom

import (
	"errors"
	"path/filepath"
	"testing"

	jerrors "github.com/Iron-Ham/jdiff/internal/errors"
	"github.com/Iron-Ham/jdiff/internal/testutil"
)

func TestLoad_Basic(t *testing.T) {
	dir := t.TempDir()
	testutil.WritePOM(t, dir, testutil.POM{
		GroupID:             "org.example",
		ArtifactID:          "core",
		Version:             "1.1",
		Connection:          "scm:git:https://example.com/core.git",
		DeveloperConnection: "scm:git:git@example.com:core.git",
		Tag:                 "core-1.1",
	})

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if p.ID() != "org.example:core:1.1" {
		t.Errorf("ID() = %q", p.ID())
	}
	if p.Packaging != "jar" {
		t.Errorf("Packaging = %q, want default jar", p.Packaging)
	}
	if p.SCM == nil || p.SCM.Connection != "scm:git:https://example.com/core.git" || p.SCM.Tag != "core-1.1" {
		t.Errorf("SCM = %+v", p.SCM)
	}
	if p.BaseDir != dir {
		t.Errorf("BaseDir = %q, want %q", p.BaseDir, dir)
	}

	wantSrc := filepath.Join(dir, "src", "main", "java")
	if roots := p.CompileSourceRoots(); len(roots) != 1 || roots[0] != wantSrc {
		t.Errorf("CompileSourceRoots() = %v, want [%s]", roots, wantSrc)
	}
	if got, want := p.Build.OutputDirectory, filepath.Join(dir, "target", "classes"); got != want {
		t.Errorf("OutputDirectory = %q, want %q", got, want)
	}
	if got, want := p.Build.TestOutputDirectory, filepath.Join(dir, "target", "test-classes"); got != want {
		t.Errorf("TestOutputDirectory = %q, want %q", got, want)
	}
}

func TestLoad_CustomBuildAndInterpolation(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{"pom.xml": `<project>
  <groupId>org.example</groupId>
  <artifactId>lib</artifactId>
  <version>${revision}</version>
  <properties>
    <revision>2.3</revision>
    <repo>https://example.com/${project.artifactId}</repo>
  </properties>
  <scm>
    <connection>scm:git:${repo}.git</connection>
    <tag>lib-${project.version}</tag>
  </scm>
  <build>
    <directory>out</directory>
    <sourceDirectory>src/java</sourceDirectory>
    <outputDirectory>${project.build.directory}/bin</outputDirectory>
  </build>
</project>`})

	p, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Version != "2.3" {
		t.Errorf("Version = %q, want 2.3", p.Version)
	}
	if p.SCM.Connection != "scm:git:https://example.com/lib.git" {
		t.Errorf("Connection = %q", p.SCM.Connection)
	}
	if p.SCM.Tag != "lib-2.3" {
		t.Errorf("Tag = %q", p.SCM.Tag)
	}
	if got, want := p.Build.SourceDirectory, filepath.Join(dir, "src", "java"); got != want {
		t.Errorf("SourceDirectory = %q, want %q", got, want)
	}
	if got, want := p.Build.OutputDirectory, filepath.Join(dir, "out", "bin"); got != want {
		t.Errorf("OutputDirectory = %q, want %q", got, want)
	}
}

func TestLoad_ParentInheritance(t *testing.T) {
	root := t.TempDir()
	testutil.WritePOM(t, root, testutil.POM{
		GroupID:    "org.example",
		ArtifactID: "parent",
		Version:    "3.0",
		Packaging:  "pom",
		Connection: "scm:svn:https://svn.example.com/trunk",
		Modules:    []string{"child"},
	})
	testutil.WritePOM(t, filepath.Join(root, "child"), testutil.POM{
		ArtifactID: "child",
		Parent:     "org.example:parent:3.0",
	})

	p, err := Load(filepath.Join(root, "child"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.GroupID != "org.example" || p.Version != "3.0" {
		t.Errorf("coordinates = %s, want inherited from parent", p.ID())
	}
	if p.SCM == nil || p.SCM.Connection != "scm:svn:https://svn.example.com/trunk" {
		t.Errorf("SCM = %+v, want inherited", p.SCM)
	}
}

func TestLoad_AggregatorHasNoSourceRoots(t *testing.T) {
	dir := t.TempDir()
	testutil.WritePOM(t, dir, testutil.POM{GroupID: "g", ArtifactID: "agg", Version: "1", Packaging: "pom"})

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !p.IsAggregator() {
		t.Error("IsAggregator() = false, want true")
	}
	if roots := p.CompileSourceRoots(); roots != nil {
		t.Errorf("CompileSourceRoots() = %v, want nil", roots)
	}
	if roots := p.TestCompileSourceRoots(); roots != nil {
		t.Errorf("TestCompileSourceRoots() = %v, want nil", roots)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, jerrors.ErrProjectNotFound) {
			t.Errorf("Load() error = %v, want ErrProjectNotFound", err)
		}
	})

	t.Run("directory without pom", func(t *testing.T) {
		_, err := Load(t.TempDir())
		if !errors.Is(err, jerrors.ErrProjectNotFound) {
			t.Errorf("Load() error = %v, want ErrProjectNotFound", err)
		}
	})

	t.Run("malformed xml", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteFiles(t, dir, map[string]string{"pom.xml": "<project><groupId>"})
		_, err := Load(dir)
		if !errors.Is(err, jerrors.ErrInvalidInput) {
			t.Errorf("Load() error = %v, want validation error", err)
		}
	})
}

func TestExpand(t *testing.T) {
	values := map[string]string{"a": "1", "b": "2"}
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"${a}", "1"},
		{"x${a}y${b}z", "x1y2z"},
		{"${unknown}", "${unknown}"},
		{"${a", "${a"},
	}
	for _, tt := range tests {
		if got := expand(tt.in, values); got != tt.want {
			t.Errorf("expand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecode(t *testing.T) {
	data := []byte(`<project>
  <parent><groupId>org.example</groupId><artifactId>parent</artifactId><version>1.0</version></parent>
  <artifactId>core</artifactId>
  <scm>
    <developerConnection>scm:git:git@example.com:core.git</developerConnection>
    <tag>core-${project.version}</tag>
  </scm>
</project>`)

	p, err := Decode(data, "org.example:core:1.0")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if p.ID() != "org.example:core:1.0" {
		t.Errorf("ID() = %q", p.ID())
	}
	if p.SCM.Tag != "core-1.0" {
		t.Errorf("Tag = %q", p.SCM.Tag)
	}
	if p.File != "" || p.BaseDir != "" {
		t.Errorf("File/BaseDir = %q/%q, want empty", p.File, p.BaseDir)
	}

	if _, err := Decode([]byte("<project>"), "bad"); !errors.Is(err, jerrors.ErrInvalidInput) {
		t.Errorf("Decode(bad) error = %v, want validation error", err)
	}
}
