package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/Iron-Ham/jdiff/internal/classpath"
	"github.com/Iron-Ham/jdiff/internal/command"
	"github.com/Iron-Ham/jdiff/internal/config"
	"github.com/Iron-Ham/jdiff/internal/errors"
	"github.com/Iron-Ham/jdiff/internal/javadoc"
	"github.com/Iron-Ham/jdiff/internal/logging"
	"github.com/Iron-Ham/jdiff/internal/repository"
	"github.com/Iron-Ham/jdiff/internal/scm"
)

// toolchain is what every command needs to run javadoc against a project.
type toolchain struct {
	logger     *logging.Logger
	exec       command.Executor
	local      *repository.Local
	javadoc    string
	docletPath []string
	classpath  classpath.Resolver
}

// newLogger writes to <logDir>/jdiff.log when file logging is on, and to
// stderr otherwise.
func newLogger(cfg *config.Config, stderr io.Writer, logDir string) (*logging.Logger, error) {
	level := logging.ParseLevel(cfg.Logging.Level)
	if cfg.Logging.File {
		return logging.NewLogger(logDir, level)
	}
	return logging.NewWriterLogger(stderr, level, cfg.Logging.Format), nil
}

func newToolchain(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*toolchain, error) {
	tc := &toolchain{
		logger: logger,
		exec:   command.NewCLIExecutor(),
		local:  repository.NewLocal(cfg.Repository.ResolveLocalDir()),
	}

	toolchains := cfg.Javadoc.ToolchainsFile
	if toolchains == "" {
		toolchains = javadoc.DefaultToolchainsFile()
	}
	exe, err := javadoc.Find(ctx, javadoc.DefaultLocators(cfg.Javadoc.Executable, toolchains, cfg.Javadoc.Toolchain), logger)
	if err != nil {
		return nil, err
	}
	tc.javadoc = exe

	if tc.docletPath, err = docletPath(cfg, tc.local); err != nil {
		return nil, err
	}

	resolvers := classpath.Multi{classpath.Static(cfg.Classpath.Entries)}
	if cfg.Classpath.Maven {
		resolvers = append(resolvers, classpath.NewMaven(tc.exec, cfg.Classpath.MavenExecutable, cfg.Repository.Offline, logger))
	}
	tc.classpath = resolvers
	return tc, nil
}

// docletPath returns the configured doclet jars, or the JDiff and Xerces
// jars of the local repository.
func docletPath(cfg *config.Config, local *repository.Local) ([]string, error) {
	if len(cfg.Javadoc.DocletPath) > 0 {
		return cfg.Javadoc.DocletPath, nil
	}

	fields := []struct{ field, coords string }{
		{"javadoc.doclet", cfg.Javadoc.Doclet},
		{"javadoc.xerces", cfg.Javadoc.Xerces},
	}
	path := make([]string, 0, len(fields))
	for _, f := range fields {
		groupID, artifactID, version, err := config.SplitCoordinates(f.coords)
		if err != nil {
			return nil, errors.NewConfigError(err.Error(), errors.ErrInvalidInput).WithField(f.field)
		}
		jar := local.ArtifactPath(repository.Coordinates{GroupID: groupID, ArtifactID: artifactID}, version, "jar")
		if !fileExists(jar) {
			return nil, errors.NewConfigError("doclet jar "+f.coords+" is not in the local repository; install it or set javadoc.docletpath", errors.ErrExecutableNotFound).
				WithField(f.field).
				WithValue(jar)
		}
		path = append(path, jar)
	}
	return path, nil
}

// metadata answers both version and pom lookups.
type metadata interface {
	repository.Source
	repository.POMSource
}

// metadataSource looks versions and poms up in the local repository, then
// the remote one unless offline.
func metadataSource(cfg *config.Config, local *repository.Local) (metadata, error) {
	chain := repository.Chain{local}
	if !cfg.Repository.Offline {
		chain = append(chain, repository.NewRemote(cfg.Repository.RemoteURL, cfg.Repository.Timeout()))
	}
	if cfg.Repository.CacheSize == 0 {
		return chain, nil
	}
	cached, err := repository.NewCached(chain, cfg.Repository.CacheSize)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

// registry holds the enabled SCM providers.
func registry(cfg *config.Config, exec command.Executor) *scm.Registry {
	r := scm.NewRegistry()
	for _, name := range cfg.SCM.Providers {
		switch name {
		case "git":
			r.Register(scm.NewGitProvider(exec))
		case "svn":
			r.Register(scm.NewSvnProvider(exec))
		}
	}
	return r
}

// projectDir resolves the --project-dir flag to an absolute directory.
func projectDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.NewNotFoundError("project directory", abs).WithCause(errors.ErrProjectNotFound)
	}
	if !info.IsDir() {
		return filepath.Dir(abs), nil
	}
	return abs, nil
}
