// Package toolchain locates and bootstraps the external tools the provisioning
// steps depend on: git, the uv package manager, a C++ compiler and the
// virtual environment interpreter.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/fsutil"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/runner"
)

// Errors returned by the toolchain lookups.
var (
	ErrGitNotFound      = errors.New("git is not installed or not on PATH")
	ErrUVNotFound       = errors.New("uv package manager not found")
	ErrCompilerNotFound = errors.New("no C++ compiler found")
	ErrUnsupportedOS    = errors.New("operation not supported on this operating system")
)

const (
	uvInstallScriptWindows = "irm https://astral.sh/uv/install.ps1 | iex"
	uvInstallScriptUnix    = "curl -LsSf https://astral.sh/uv/install.sh | sh"
	buildToolsPackageID    = "Microsoft.VisualStudio.2022.BuildTools"
	buildToolsOverride     = "--quiet --wait --norestart --add Microsoft.VisualStudio.Workload.VCTools " +
		"--includeRecommended"
)

// Locator finds and installs tools through a CommandRunner.
type Locator struct {
	runner  runner.CommandRunner
	homeDir string
	goos    string
}

// NewLocator returns a Locator for the current platform.
// homeDir is searched for tools installed outside PATH, such as a freshly bootstrapped uv.
func NewLocator(cmdRunner runner.CommandRunner, homeDir string) *Locator {
	return &Locator{
		runner:  cmdRunner,
		homeDir: homeDir,
		goos:    runtime.GOOS,
	}
}

// WithOS overrides the target platform.
func (l *Locator) WithOS(goos string) *Locator {
	clone := *l
	clone.goos = goos

	return &clone
}

// Git returns the path of the git executable.
func (l *Locator) Git() (string, error) {
	path, err := l.runner.LookPath("git")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGitNotFound, err)
	}

	return path, nil
}

// UV returns the path of the uv executable, searching PATH and the installer's default locations.
func (l *Locator) UV() (string, error) {
	path, err := l.runner.LookPath("uv")
	if err == nil {
		return path, nil
	}

	for _, candidate := range l.uvCandidates() {
		if fsutil.FileExists(candidate) {
			return candidate, nil
		}
	}

	return "", ErrUVNotFound
}

// BootstrapUV runs the official uv installer.
func (l *Locator) BootstrapUV(ctx context.Context, env []string) error {
	var cmd runner.Command

	if l.goos == "windows" {
		cmd = runner.Command{
			Name: "powershell",
			Args: []string{"-NoProfile", "-ExecutionPolicy", "ByPass", "-Command", uvInstallScriptWindows},
			Env:  env,
		}
	} else {
		cmd = runner.Command{
			Name: "sh",
			Args: []string{"-c", uvInstallScriptUnix},
			Env:  env,
		}
	}

	_, err := l.runner.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("install uv: %w", err)
	}

	return nil
}

// Compiler returns the path of a C++ compiler usable for native extensions.
func (l *Locator) Compiler() (string, error) {
	for _, name := range l.compilerNames() {
		path, err := l.runner.LookPath(name)
		if err == nil {
			return path, nil
		}
	}

	return "", ErrCompilerNotFound
}

// InstallBuildTools installs the MSVC build tools with winget. Windows only.
func (l *Locator) InstallBuildTools(ctx context.Context, env []string) error {
	if l.goos != "windows" {
		return fmt.Errorf("%w: build tools install requires Windows", ErrUnsupportedOS)
	}

	_, err := l.runner.Run(ctx, runner.Command{
		Name: "winget",
		Args: []string{
			"install", "--id", buildToolsPackageID, "-e",
			"--accept-package-agreements", "--accept-source-agreements",
			"--override", buildToolsOverride,
		},
		Env: env,
	})
	if err != nil {
		return fmt.Errorf("install build tools: %w", err)
	}

	return nil
}

// SetExecutionPolicy lets the generated PowerShell activation scripts run. Windows only.
func (l *Locator) SetExecutionPolicy(ctx context.Context) error {
	if l.goos != "windows" {
		return nil
	}

	_, err := l.runner.Run(ctx, runner.Command{
		Name: "powershell",
		Args: []string{
			"-NoProfile", "-Command",
			"Set-ExecutionPolicy -Scope CurrentUser -ExecutionPolicy RemoteSigned -Force",
		},
		Quiet: true,
	})
	if err != nil {
		return fmt.Errorf("set execution policy: %w", err)
	}

	return nil
}

func (l *Locator) uvCandidates() []string {
	if l.homeDir == "" {
		return nil
	}

	binary := "uv"
	if l.goos == "windows" {
		binary = "uv.exe"
	}

	return []string{
		filepath.Join(l.homeDir, ".local", "bin", binary),
		filepath.Join(l.homeDir, ".cargo", "bin", binary),
	}
}

func (l *Locator) compilerNames() []string {
	if l.goos == "windows" {
		return []string{"cl"}
	}

	return []string{"c++", "g++", "clang++"}
}
