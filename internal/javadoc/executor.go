package javadoc

import (
	"context"
	"io"
	"os"

	"github.com/Iron-Ham/jdiff/internal/command"
	"github.com/Iron-Ham/jdiff/internal/errors"
	"github.com/Iron-Ham/jdiff/internal/logging"
)

// Runner executes javadoc command lines.
type Runner interface {
	Execute(ctx context.Context, cmd *Command, workDir string) error
}

// Executor runs javadoc through a command.Executor, passing its output
// through to the configured writers.
type Executor struct {
	exec   command.Executor
	stdout io.Writer
	stderr io.Writer
	logger *logging.Logger
}

// NewExecutor creates an Executor. Nil writers discard output; a nil
// logger disables logging.
func NewExecutor(exec command.Executor, stdout, stderr io.Writer, logger *logging.Logger) *Executor {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Executor{exec: exec, stdout: stdout, stderr: stderr, logger: logger}
}

// Execute runs cmd in workDir, creating the directory if needed. Any
// non-zero exit is returned as a *errors.ToolError.
func (e *Executor) Execute(ctx context.Context, cmd *Command, workDir string) error {
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return errors.NewToolError("failed to create working directory", err).
			WithExecutable(cmd.Executable).
			WithWorkDir(workDir)
	}

	e.logger.Debug("running javadoc", "command", cmd.String(), "dir", workDir)
	err := e.exec.Stream(ctx, workDir, e.stdout, e.stderr, cmd.Executable, cmd.Args()...)
	if err != nil {
		if errors.Is(err, errors.ErrCanceled) {
			return err
		}
		code := command.ExitCode(err)
		e.logger.Error("javadoc failed", "exit_code", code, "dir", workDir)
		return errors.NewToolError("javadoc did not complete successfully", err).
			WithExecutable(cmd.Executable).
			WithWorkDir(workDir).
			WithExitCode(code)
	}
	return nil
}
