package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/cli/cmd"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/cli/ui/pause"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/di"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/runner"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/runner/runnertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDisk struct{ free uint64 }

func (d fakeDisk) FreeBytes(string) (uint64, error) { return d.free, nil }

func TestMain(m *testing.M) {
	restore := pause.SetTTYCheckerForTests(func() bool { return false })
	code := m.Run()

	restore()
	os.Exit(code)
}

func newTestRoot(t *testing.T, fake *runnertest.FakeRunner, args ...string) (*bytes.Buffer, error) {
	t.Helper()

	var out bytes.Buffer

	rt := di.NewRuntime().With(
		di.WithCommandRunner(fake),
		di.WithDiskProbe(fakeDisk{free: 50 * v1alpha1.GiB}),
	)

	root := cmd.NewRootCmdWithRuntime(rt, "1.2.3", "abc123", "2026-01-02")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{}, args...))

	return &out, cmd.Execute(root)
}

// provisionedRunner answers like a machine where every tool is installed.
func provisionedRunner(t *testing.T, installPath string) *runnertest.FakeRunner {
	t.Helper()

	cfg := v1alpha1.NewInstallConfig(installPath)

	fake := runnertest.New().
		WithPath("git", "/usr/bin/git").
		WithPath("uv", "/usr/bin/uv").
		WithPath("c++", "/usr/bin/c++")

	fake.On(runnertest.NamedWithArgs("uv", "venv"), func(runner.Command) (runner.CommandResult, error) {
		script := cfg.ActivationScript()
		if err := os.MkdirAll(filepath.Dir(script), 0o750); err != nil {
			return runner.CommandResult{}, err
		}

		return runner.CommandResult{}, os.WriteFile(script, nil, 0o600)
	})
	fake.Respond(runnertest.Named("python"), `{"torch": true, "hy3dgen": true}`)
	fake.Respond(runnertest.NamedWithArgs("python", "--version"), "Python 3.10.11")

	return fake
}

func TestNewRootCmdVersionFormatting(t *testing.T) {
	t.Parallel()

	root := cmd.NewRootCmd("1.2.3", "abc123", "2025-08-17")

	assert.Equal(t, "1.2.3 (Built on 2025-08-17 from Git SHA abc123)", root.Version)
}

func TestExecuteShowsHelp(t *testing.T) {
	t.Parallel()

	out, err := newTestRoot(t, runnertest.New())

	require.NoError(t, err)
	assert.Contains(t, out.String(), "hunyuan3d-setup")
	assert.Contains(t, out.String(), "install")
	assert.Contains(t, out.String(), "verify")
}

func TestExecuteShowsVersion(t *testing.T) {
	t.Parallel()

	out, err := newTestRoot(t, runnertest.New(), "--version")

	require.NoError(t, err)
	assert.Contains(t, out.String(), "1.2.3 (Built on 2026-01-02 from Git SHA abc123)")
}

func TestExecuteUnknownCommand(t *testing.T) {
	t.Parallel()

	_, err := newTestRoot(t, runnertest.New(), "uninstall")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "uninstall"`)
	assert.False(t, errorhandler.IsReported(err))
}
