// Package errorhandler runs cobra commands and turns their failures into exit codes.
package errorhandler

import (
	"bytes"
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

// Executor coordinates Cobra execution, capturing stderr output and surfacing aggregated errors.
type Executor struct {
	normalizer DefaultNormalizer
}

// NewExecutor constructs an Executor.
func NewExecutor() *Executor {
	return &Executor{normalizer: DefaultNormalizer{}}
}

// Execute runs cmd while intercepting Cobra's error stream.
// It returns nil on success, or a *CommandError holding the normalized message and the original error.
func (e *Executor) Execute(cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	var errBuf bytes.Buffer

	originalErrWriter := cmd.ErrOrStderr()

	cmd.SetErr(&errBuf)
	defer cmd.SetErr(originalErrWriter)

	err := cmd.Execute()
	if err == nil {
		return nil
	}

	return &CommandError{
		message: e.normalizer.Normalize(errBuf.String()),
		cause:   err,
	}
}

// CommandError represents a Cobra execution failure augmented with normalized stderr output.
type CommandError struct {
	message string
	cause   error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause == nil:
		return e.message
	case e.message != "":
		if strings.Contains(e.message, e.cause.Error()) {
			return e.message
		}

		return e.message + ": " + e.cause.Error()
	default:
		return e.cause.Error()
	}
}

// Unwrap exposes the underlying cause for errors.Is/errors.As consumers.
func (e *CommandError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// ReportedError marks a failure whose diagnostic was already shown to the user.
type ReportedError struct {
	Err error
}

// Error implements the error interface.
func (e *ReportedError) Error() string {
	return e.Err.Error()
}

// Unwrap exposes the reported failure.
func (e *ReportedError) Unwrap() error {
	return e.Err
}

// MarkReported wraps err so callers do not print it a second time. Nil stays nil.
func MarkReported(err error) error {
	if err == nil {
		return nil
	}

	return &ReportedError{Err: err}
}

// IsReported reports whether err, or an error it wraps, was marked with MarkReported.
func IsReported(err error) bool {
	var reported *ReportedError

	return errors.As(err, &reported)
}

// ExitCode maps an execution result to a process exit status: 0 for nil, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	return 1
}

// DefaultNormalizer cleans up the text Cobra writes to stderr.
type DefaultNormalizer struct{}

// Normalize trims whitespace, removes redundant "Error:" prefixes, and preserves multi-line usage hints.
func (DefaultNormalizer) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	lines[0] = strings.TrimPrefix(strings.TrimSpace(lines[0]), "Error: ")

	return strings.Join(lines, "\n")
}
