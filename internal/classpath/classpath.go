// Package classpath supplies the compile classpath handed to javadoc.
//
// Dependency resolution itself is Maven's job: Maven runs the
// dependency:build-classpath goal and writes the result to a file.
// Static entries from configuration can be used alone or added on top.
package classpath

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Iron-Ham/jdiff/internal/command"
	"github.com/Iron-Ham/jdiff/internal/errors"
	"github.com/Iron-Ham/jdiff/internal/logging"
	"github.com/Iron-Ham/jdiff/internal/pom"
)

// Resolver produces the compile classpath of a project.
type Resolver interface {
	Classpath(ctx context.Context, project *pom.Project) ([]string, error)
}

// Join renders entries with the platform path-list separator.
func Join(entries []string) string {
	return strings.Join(entries, string(os.PathListSeparator))
}

// Split parses a path list, dropping empty entries.
func Split(list string) []string {
	var out []string
	for _, e := range filepath.SplitList(strings.TrimSpace(list)) {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// Static returns the same entries for every project.
type Static []string

// Classpath implements Resolver.
func (s Static) Classpath(context.Context, *pom.Project) ([]string, error) {
	out := make([]string, 0, len(s))
	for _, e := range s {
		if e != "" {
			out = append(out, e)
		}
	}
	return out, nil
}

// Multi concatenates the classpaths of several resolvers, dropping
// duplicates and keeping first-seen order.
type Multi []Resolver

// Classpath implements Resolver.
func (m Multi) Classpath(ctx context.Context, project *pom.Project) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, r := range m {
		entries, err := r.Classpath(ctx, project)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	return out, nil
}

// Maven asks Maven for the compile classpath.
type Maven struct {
	Executable string
	Offline    bool
	exec       command.Executor
	logger     *logging.Logger
}

// NewMaven creates a Maven resolver. An empty executable selects
// MavenExecutable(os.Getenv).
func NewMaven(exec command.Executor, executable string, offline bool, logger *logging.Logger) *Maven {
	if executable == "" {
		executable = MavenExecutable(os.Getenv)
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Maven{Executable: executable, Offline: offline, exec: exec, logger: logger}
}

// MavenExecutable returns the mvn binary of MAVEN_HOME or M2_HOME when one
// of them holds it, and "mvn" from PATH otherwise.
func MavenExecutable(getenv func(string) string) string {
	name := "mvn"
	if runtime.GOOS == "windows" {
		name = "mvn.cmd"
	}
	for _, key := range []string{"MAVEN_HOME", "M2_HOME"} {
		home := getenv(key)
		if home == "" {
			continue
		}
		candidate := filepath.Join(home, "bin", name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return name
}

// Classpath implements Resolver. Aggregator projects have no classpath.
func (m *Maven) Classpath(ctx context.Context, project *pom.Project) ([]string, error) {
	if project.IsAggregator() {
		return nil, nil
	}

	out, err := os.CreateTemp("", "jdiff-classpath-*.txt")
	if err != nil {
		return nil, errors.Wrap(err, "creating classpath file")
	}
	outFile := out.Name()
	_ = out.Close()
	defer func() { _ = os.Remove(outFile) }()

	args := []string{"-q", "-B"}
	if m.Offline {
		args = append(args, "-o")
	}
	args = append(args,
		"-f", project.File,
		"dependency:build-classpath",
		"-Dmdep.outputFile="+outFile,
		"-Dmdep.includeScope=compile",
	)

	m.logger.Debug("resolving classpath", "project", project.ID(), "mvn", m.Executable)
	output, err := m.exec.Run(ctx, project.BaseDir, m.Executable, args...)
	if err != nil {
		if errors.Is(err, errors.ErrCanceled) {
			return nil, err
		}
		return nil, errors.NewToolError("mvn dependency:build-classpath failed: "+strings.TrimSpace(string(output)), err).
			WithExecutable(m.Executable).
			WithWorkDir(project.BaseDir).
			WithExitCode(command.ExitCode(err))
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		return nil, errors.Wrap(err, "reading classpath file")
	}
	return Split(string(data)), nil
}
