// Package runner executes external tools for the provisioning steps.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrCommandNotFound is returned when the executable cannot be located.
var ErrCommandNotFound = errors.New("command not found")

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds KEY=VALUE overrides layered on top of the parent environment.
	Env []string
	// Quiet captures output without echoing it to the console.
	Quiet bool
}

// String renders the command line for logs and diagnostics.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// CommandResult captures the stdout and stderr collected during execution.
// Both fields contain the complete output, including any output produced
// before an error occurred.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner executes external commands while capturing their output.
// Implementations should display output in real-time unless the command is quiet.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (CommandResult, error)
	LookPath(name string) (string, error)
}

// ExecCommandRunner runs commands with os/exec.
type ExecCommandRunner struct {
	stdout io.Writer
	stderr io.Writer
	logger logrus.FieldLogger
}

// NewExecCommandRunner creates a command runner that streams output to stdout/stderr
// while also capturing it for the result.
//
// If stdout or stderr are nil, they default to os.Stdout and os.Stderr respectively.
// A nil logger discards trace output.
func NewExecCommandRunner(stdout, stderr io.Writer, logger logrus.FieldLogger) *ExecCommandRunner {
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	return &ExecCommandRunner{
		stdout: stdout,
		stderr: stderr,
		logger: logger,
	}
}

// Run executes cmd and blocks until it exits or ctx is cancelled.
func (r *ExecCommandRunner) Run(ctx context.Context, cmd Command) (CommandResult, error) {
	log := r.logger.WithFields(logrus.Fields{
		"command": cmd.Name,
		"args":    cmd.Args,
		"dir":     cmd.Dir,
	})
	log.Debug("running command")

	var outBuf, errBuf bytes.Buffer

	//nolint:gosec // G204: commands are assembled from fixed tool names and resolved config.
	process := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	process.Dir = cmd.Dir
	process.Env = append(os.Environ(), cmd.Env...)
	process.Stdin = nil

	if cmd.Quiet {
		process.Stdout = &outBuf
		process.Stderr = &errBuf
	} else {
		process.Stdout = io.MultiWriter(&outBuf, r.stdout)
		process.Stderr = io.MultiWriter(&errBuf, r.stderr)
	}

	runErr := process.Run()

	result := CommandResult{
		Stdout: outBuf.String(),
		Stderr: errBuf.String(),
	}

	if process.ProcessState != nil {
		result.ExitCode = process.ProcessState.ExitCode()
	}

	if runErr != nil {
		if errors.Is(runErr, exec.ErrNotFound) {
			return result, fmt.Errorf("%w: %s", ErrCommandNotFound, cmd.Name)
		}

		log.WithField("exitCode", result.ExitCode).Debug("command failed")

		return result, fmt.Errorf("%s: %w", cmd.String(), runErr)
	}

	log.Debug("command succeeded")

	return result, nil
}

// LookPath resolves name on PATH.
func (r *ExecCommandRunner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrCommandNotFound, name)
	}

	return path, nil
}
