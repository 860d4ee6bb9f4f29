package toolchain

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/runner"
)

// ErrInterpreterVersion is returned when the venv interpreter does not match the requested version.
var ErrInterpreterVersion = errors.New("interpreter version mismatch")

// ErrUnparsableVersion is returned when `python --version` output cannot be parsed.
var ErrUnparsableVersion = errors.New("cannot parse interpreter version")

var pythonVersionPattern = regexp.MustCompile(`Python\s+(\d+\.\d+(?:\.\d+)?)`)

// ParsePythonVersion extracts the version from `python --version` output.
func ParsePythonVersion(output string) (*semver.Version, error) {
	match := pythonVersionPattern.FindStringSubmatch(output)
	if match == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnparsableVersion, strings.TrimSpace(output))
	}

	version, err := semver.NewVersion(match[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnparsableVersion, err)
	}

	return version, nil
}

// CheckPythonVersion verifies that output reports a version within MAJOR.MINOR of want.
func CheckPythonVersion(output, want string) (*semver.Version, error) {
	got, err := ParsePythonVersion(output)
	if err != nil {
		return nil, err
	}

	constraint, err := semver.NewConstraint("~" + want)
	if err != nil {
		return got, fmt.Errorf("invalid python version %q: %w", want, err)
	}

	if !constraint.Check(got) {
		return got, fmt.Errorf("%w: want %s.x, got %s", ErrInterpreterVersion, want, got)
	}

	return got, nil
}

// InterpreterVersion runs `<python> --version` and checks it against want.
func InterpreterVersion(
	ctx context.Context,
	cmdRunner runner.CommandRunner,
	python, want string,
) (*semver.Version, error) {
	res, err := cmdRunner.Run(ctx, runner.Command{
		Name:  python,
		Args:  []string{"--version"},
		Quiet: true,
	})
	if err != nil {
		return nil, fmt.Errorf("query interpreter version: %w", err)
	}

	// Older interpreters print the version on stderr.
	return CheckPythonVersion(res.Stdout+res.Stderr, want)
}
