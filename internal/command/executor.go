// Package command runs external programs: source-control clients, Maven
// and the javadoc tool.
//
// The Executor interface lets tests replace process execution without
// spawning anything.
package command

import (
	"context"
	"io"
	"os/exec"

	"github.com/Iron-Ham/jdiff/internal/errors"
)

// Executor abstracts command execution for testability.
type Executor interface {
	// Run executes a command and returns its combined output.
	Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error)

	// Stream executes a command, copying its output to stdout and stderr
	// as it is produced.
	Stream(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error
}

// CLIExecutor executes commands using os/exec.
type CLIExecutor struct{}

// NewCLIExecutor creates a new CLI command executor.
func NewCLIExecutor() *CLIExecutor {
	return &CLIExecutor{}
}

// Run executes a command and returns combined output.
func (e *CLIExecutor) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil && ctx.Err() != nil {
		return out, errors.Join(errors.ErrCanceled, ctx.Err())
	}
	return out, err
}

// Stream executes a command with output passed through.
func (e *CLIExecutor) Stream(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	if err != nil && ctx.Err() != nil {
		return errors.Join(errors.ErrCanceled, ctx.Err())
	}
	return err
}

// ExitCode extracts the process exit status from an execution error. It
// returns 0 for a nil error and -1 when the process never ran or was
// killed by a signal.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
