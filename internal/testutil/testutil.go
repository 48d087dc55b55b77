// Package testutil provides testing utilities for jdiff tests.
package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// SetupTestRepo creates a temporary git repository with one commit on
// main. The repository is cleaned up when the test completes.
func SetupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	if err := RunGit(dir, "init"); err != nil {
		t.Fatalf("failed to init git repo: %v", err)
	}
	if err := RunGit(dir, "config", "user.email", "test@jdiff.dev"); err != nil {
		t.Fatalf("failed to configure git email: %v", err)
	}
	if err := RunGit(dir, "config", "user.name", "JDiff Test"); err != nil {
		t.Fatalf("failed to configure git name: %v", err)
	}

	readme := filepath.Join(dir, "README.md")
	if err := os.WriteFile(readme, []byte("# Test Repository\n"), 0644); err != nil {
		t.Fatalf("failed to create README: %v", err)
	}
	if err := RunGit(dir, "add", "."); err != nil {
		t.Fatalf("failed to stage files: %v", err)
	}
	if err := RunGit(dir, "commit", "-m", "Initial commit"); err != nil {
		t.Fatalf("failed to create initial commit: %v", err)
	}
	if err := RunGit(dir, "branch", "-M", "main"); err != nil {
		t.Fatalf("failed to rename branch to main: %v", err)
	}

	return dir
}

// CommitFile creates or updates a file and commits it.
func CommitFile(t *testing.T, repoDir, path, content, message string) {
	t.Helper()

	WriteFiles(t, repoDir, map[string]string{path: content})
	if err := RunGit(repoDir, "add", path); err != nil {
		t.Fatalf("failed to stage file %s: %v", path, err)
	}
	if err := RunGit(repoDir, "commit", "-m", message); err != nil {
		t.Fatalf("failed to commit file %s: %v", path, err)
	}
}

// Tag creates a lightweight tag at HEAD.
func Tag(t *testing.T, repoDir, tag string) {
	t.Helper()

	if err := RunGit(repoDir, "tag", tag); err != nil {
		t.Fatalf("failed to tag %s: %v", tag, err)
	}
}

// WriteFiles writes files (relative path -> content) under dir, creating
// parent directories.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for path, content := range files {
		fullPath := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write file %s: %v", path, err)
		}
	}
}

// POM describes a minimal project model for fixtures.
type POM struct {
	GroupID             string
	ArtifactID          string
	Version             string
	Packaging           string
	Connection          string
	DeveloperConnection string
	Tag                 string
	Modules             []string
	Parent              string // "groupId:artifactId:version"
}

// XML renders the model as pom.xml content.
func (p POM) XML() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<project xmlns="http://maven.apache.org/POM/4.0.0">` + "\n")
	sb.WriteString("  <modelVersion>4.0.0</modelVersion>\n")
	if p.Parent != "" {
		parts := strings.SplitN(p.Parent, ":", 3)
		for len(parts) < 3 {
			parts = append(parts, "")
		}
		fmt.Fprintf(&sb, "  <parent>\n    <groupId>%s</groupId>\n    <artifactId>%s</artifactId>\n    <version>%s</version>\n  </parent>\n",
			parts[0], parts[1], parts[2])
	}
	writeElem(&sb, "  ", "groupId", p.GroupID)
	writeElem(&sb, "  ", "artifactId", p.ArtifactID)
	writeElem(&sb, "  ", "version", p.Version)
	writeElem(&sb, "  ", "packaging", p.Packaging)
	if p.Connection != "" || p.DeveloperConnection != "" || p.Tag != "" {
		sb.WriteString("  <scm>\n")
		writeElem(&sb, "    ", "connection", p.Connection)
		writeElem(&sb, "    ", "developerConnection", p.DeveloperConnection)
		writeElem(&sb, "    ", "tag", p.Tag)
		sb.WriteString("  </scm>\n")
	}
	if len(p.Modules) > 0 {
		sb.WriteString("  <modules>\n")
		for _, m := range p.Modules {
			writeElem(&sb, "    ", "module", m)
		}
		sb.WriteString("  </modules>\n")
	}
	sb.WriteString("</project>\n")
	return sb.String()
}

func writeElem(sb *strings.Builder, indent, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "%s<%s>%s</%s>\n", indent, name, value, name)
}

// WritePOM writes p as dir/pom.xml and returns the file path.
func WritePOM(t *testing.T, dir string, p POM) string {
	t.Helper()

	WriteFiles(t, dir, map[string]string{"pom.xml": p.XML()})
	return filepath.Join(dir, "pom.xml")
}

// WriteJavaSources creates empty-bodied Java files at the given paths,
// relative to root (for example "a/b/Foo.java").
func WriteJavaSources(t *testing.T, root string, paths ...string) {
	t.Helper()

	files := make(map[string]string, len(paths))
	for _, p := range paths {
		dir := filepath.ToSlash(filepath.Dir(p))
		class := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		pkg := strings.ReplaceAll(dir, "/", ".")
		files[p] = fmt.Sprintf("package %s;\n\npublic class %s {}\n", pkg, class)
	}
	WriteFiles(t, root, files)
}

// SkipIfNoGit skips the test if git is not installed.
func SkipIfNoGit(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH, skipping test")
	}
}

// RunGit runs a git command in the specified directory.
func RunGit(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=JDiff Test",
		"GIT_AUTHOR_EMAIL=test@jdiff.dev",
		"GIT_COMMITTER_NAME=JDiff Test",
		"GIT_COMMITTER_EMAIL=test@jdiff.dev",
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &gitError{args: args, output: output, err: err}
	}
	return nil
}

type gitError struct {
	args   []string
	output []byte
	err    error
}

func (e *gitError) Error() string {
	return "git " + strings.Join(e.args, " ") + ": " + e.err.Error() + "\n" + string(e.output)
}

func (e *gitError) Unwrap() error {
	return e.err
}
