package javadoc

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Iron-Ham/jdiff/internal/errors"
	"github.com/Iron-Ham/jdiff/internal/logging"
)

// ErrDefer is returned by a Locator that has nothing to offer, handing
// the search to the next locator.
var ErrDefer = errors.New("locator deferred")

// Locator is one strategy for finding the javadoc executable.
type Locator interface {
	Name() string
	// Locate returns the absolute path of a javadoc executable that exists,
	// ErrDefer to pass, or another error to stop the search.
	Locate(ctx context.Context) (string, error)
}

// ExecutableName is "javadoc", with ".exe" on Windows.
func ExecutableName() string {
	if runtime.GOOS == "windows" {
		return "javadoc.exe"
	}
	return "javadoc"
}

// Find tries locators in order and returns the first path found.
// Exhausting the list is a configuration error.
func Find(ctx context.Context, locators []Locator, logger *logging.Logger) (string, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	tried := make([]string, 0, len(locators))
	for _, l := range locators {
		path, err := l.Locate(ctx)
		if err == nil {
			logger.Debug("found javadoc", "locator", l.Name(), "path", path)
			return path, nil
		}
		if !errors.Is(err, ErrDefer) {
			return "", err
		}
		tried = append(tried, l.Name())
	}
	return "", errors.NewConfigError("no javadoc executable found (tried "+strings.Join(tried, ", ")+"); set javadoc.executable or JAVA_HOME", errors.ErrExecutableNotFound).
		WithField("javadoc.executable")
}

// DefaultLocators returns the standard search order: the explicit path,
// a JDK toolchain, the JDK of the java on PATH, then JAVA_HOME.
func DefaultLocators(explicit, toolchainsFile string, requirements map[string]string) []Locator {
	return []Locator{
		&ExplicitLocator{Path: explicit},
		&ToolchainLocator{File: toolchainsFile, Requirements: requirements},
		&HostJDKLocator{},
		&EnvLocator{Var: "JAVA_HOME"},
	}
}

// ExplicitLocator uses a configured path. A directory resolves to the
// javadoc executable inside it. A configured path that does not resolve
// to a file is an error, not a deferral.
type ExplicitLocator struct {
	Path string
}

// Name implements Locator.
func (l *ExplicitLocator) Name() string { return "explicit" }

// Locate implements Locator.
func (l *ExplicitLocator) Locate(context.Context) (string, error) {
	if l.Path == "" {
		return "", ErrDefer
	}
	exe := l.Path
	if info, err := os.Stat(exe); err == nil && info.IsDir() {
		exe = filepath.Join(exe, ExecutableName())
	}
	if runtime.GOOS == "windows" && filepath.Ext(exe) == "" {
		exe += ".exe"
	}
	if !isFile(exe) {
		return "", errors.NewConfigError("the javadoc executable doesn't exist or is not a file", errors.ErrExecutableNotFound).
			WithField("javadoc.executable").
			WithValue(exe)
	}
	return filepath.Abs(exe)
}

// HostJDKLocator looks for javadoc beside the java executable on PATH,
// following symlinks, and in the enclosing JDK when java belongs to an
// embedded JRE.
type HostJDKLocator struct {
	// LookPath defaults to exec.LookPath.
	LookPath func(string) (string, error)
}

// Name implements Locator.
func (l *HostJDKLocator) Name() string { return "java on PATH" }

// Locate implements Locator.
func (l *HostJDKLocator) Locate(context.Context) (string, error) {
	lookPath := l.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	java, err := lookPath("java")
	if err != nil {
		return "", ErrDefer
	}
	if resolved, err := filepath.EvalSymlinks(java); err == nil {
		java = resolved
	}
	bin := filepath.Dir(java)
	for _, dir := range []string{bin, filepath.Join(bin, "..", "..", "bin")} {
		if exe := filepath.Join(dir, ExecutableName()); isFile(exe) {
			return filepath.Abs(exe)
		}
	}
	return "", ErrDefer
}

// EnvLocator reads a JDK home from an environment variable.
type EnvLocator struct {
	Var string
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Name implements Locator.
func (l *EnvLocator) Name() string { return l.Var }

// Locate implements Locator.
func (l *EnvLocator) Locate(context.Context) (string, error) {
	getenv := l.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	home := getenv(l.Var)
	if home == "" {
		return "", ErrDefer
	}
	if info, err := os.Stat(home); err != nil || !info.IsDir() {
		return "", errors.NewConfigError("the environment variable "+l.Var+" doesn't point to a directory", errors.ErrExecutableNotFound).
			WithField(l.Var).
			WithValue(home)
	}
	exe := filepath.Join(home, "bin", ExecutableName())
	if !isFile(exe) {
		return "", ErrDefer
	}
	return filepath.Abs(exe)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
