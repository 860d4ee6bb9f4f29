package launchergenerator_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/io/generator"
	launchergenerator "github.com/devantler-tech/hunyuan3d-setup/pkg/io/generator/launcher"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	exitCode := m.Run()

	_, err := snaps.Clean(m, snaps.CleanOpts{Sort: true})
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to clean snapshots: " + err.Error() + "\n")

		os.Exit(1)
	}

	os.Exit(exitCode)
}

func newModel(windows bool) launchergenerator.Model {
	return launchergenerator.Model{
		Windows:          windows,
		CUDA:             v1alpha1.CUDAFlavorCU124,
		ActivationScript: "/opt/hunyuan3d/venv/bin/activate",
		RepositoryPath:   "/opt/hunyuan3d/Hunyuan3D-2",
		ModelCachePath:   "/opt/hunyuan3d/cache/huggingface",
		SmokeTest:        v1alpha1.SmokeTestCapabilities(),
	}
}

func newGenerator(t *testing.T) *launchergenerator.Generator {
	t.Helper()

	gen, err := launchergenerator.NewGenerator()
	require.NoError(t, err)

	return gen
}

func TestFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hunyuan3d-shell.bat", launchergenerator.FileName(launchergenerator.KindShell, true))
	assert.Equal(t, "hunyuan3d-smoke-test.sh", launchergenerator.FileName(launchergenerator.KindSmokeTest, false))
}

func TestGenerate_ShellUnix(t *testing.T) {
	t.Parallel()

	out, err := newGenerator(t).Generate(newModel(false), launchergenerator.Options{Kind: launchergenerator.KindShell})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "#!/usr/bin/env bash\n"))
	assert.Contains(t, out, "source '/opt/hunyuan3d/venv/bin/activate'")
	assert.Contains(t, out, "export HF_HOME='/opt/hunyuan3d/cache/huggingface'")
	assert.Contains(t, out, "cd '/opt/hunyuan3d/Hunyuan3D-2'")
	assert.Contains(t, out, "./hunyuan3d-smoke-test.sh")
	assert.Contains(t, out, "torch, hy3dgen, hy3dgen.shapegen")
	assert.NotContains(t, out, "\r\n")
}

func TestGenerate_ShellWindows(t *testing.T) {
	t.Parallel()

	model := newModel(true)
	model.ActivationScript = `C:\hunyuan3d\venv\Scripts\activate.bat`

	out, err := newGenerator(t).Generate(model, launchergenerator.Options{Kind: launchergenerator.KindShell})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "@echo off\r\n"))
	assert.Contains(t, out, `call "C:\hunyuan3d\venv\Scripts\activate.bat"`)
	assert.Contains(t, out, "hunyuan3d-smoke-test.bat")
	assert.Contains(t, out, "cmd /k")
}

func TestGenerate_SmokeTestImportsThreeModules(t *testing.T) {
	t.Parallel()

	for _, windows := range []bool{true, false} {
		out, err := newGenerator(t).Generate(
			newModel(windows),
			launchergenerator.Options{Kind: launchergenerator.KindSmokeTest},
		)
		require.NoError(t, err)

		assert.Contains(t, out, `python -c "import torch, hy3dgen, hy3dgen.shapegen;`)
		assert.NotContains(t, newModel(windows).ImportCheck(), `"`)

		if windows {
			assert.Contains(t, out, "pause")
		} else {
			assert.Contains(t, out, "read -r -p")
		}
	}
}

func TestGenerate_Snapshot(t *testing.T) {
	t.Parallel()

	for _, windows := range []bool{false, true} {
		for _, kind := range launchergenerator.Kinds() {
			name := launchergenerator.FileName(kind, windows)

			t.Run(name, func(t *testing.T) {
				t.Parallel()

				out, err := newGenerator(t).Generate(newModel(windows), launchergenerator.Options{Kind: kind})
				require.NoError(t, err)

				snaps.MatchSnapshot(t, out)
			})
		}
	}
}

func TestShellQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "plain", value: "/opt/hunyuan3d", want: "'/opt/hunyuan3d'"},
		{name: "spaces", value: "/home/a user/hunyuan3d", want: "'/home/a user/hunyuan3d'"},
		{name: "single quote", value: "/home/o'brien", want: `'/home/o'\''brien'`},
		{name: "empty", value: "", want: "''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, launchergenerator.ShellQuote(tt.value))
		})
	}
}

func TestGenerate_ShellUnixQuotesApostropheInInstallPath(t *testing.T) {
	t.Parallel()

	model := newModel(false)
	model.ActivationScript = "/home/o'brien/hunyuan3d/venv/bin/activate"
	model.RepositoryPath = "/home/o'brien/hunyuan3d/Hunyuan3D-2"
	model.ModelCachePath = "/home/o'brien/hunyuan3d/cache/huggingface"

	out, err := newGenerator(t).Generate(model, launchergenerator.Options{Kind: launchergenerator.KindShell})
	require.NoError(t, err)

	assert.Contains(t, out, `source '/home/o'\''brien/hunyuan3d/venv/bin/activate'`)
	assert.Contains(t, out, `export HF_HOME='/home/o'\''brien/hunyuan3d/cache/huggingface'`)
	assert.Contains(t, out, `cd '/home/o'\''brien/hunyuan3d/Hunyuan3D-2'`)

	bash, err := exec.LookPath("bash")
	if err != nil {
		t.Skip("bash not available")
	}

	script := filepath.Join(t.TempDir(), launchergenerator.FileName(launchergenerator.KindShell, false))
	require.NoError(t, os.WriteFile(script, []byte(out), 0o600))

	cmd := exec.CommandContext(context.Background(), bash, "-n", script)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))
}

func TestGenerate_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := newGenerator(t).Generate(newModel(false), launchergenerator.Options{Kind: "bogus"})
	require.ErrorIs(t, err, launchergenerator.ErrUnknownKind)
}

func TestGenerate_WritesExecutableFile(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), launchergenerator.FileName(launchergenerator.KindShell, false))

	out, err := newGenerator(t).Generate(newModel(false), launchergenerator.Options{
		Kind:        launchergenerator.KindShell,
		FileOptions: generator.FileOptions{Output: output, Force: true},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(output) //nolint:gosec // test temp path
	require.NoError(t, err)
	assert.Equal(t, out, string(content))
}

func TestNewModel(t *testing.T) {
	t.Parallel()

	cfg := v1alpha1.NewInstallConfig(t.TempDir())

	model := launchergenerator.NewModel(cfg, false)

	assert.Equal(t, cfg.ActivationScript(), model.ActivationScript)
	assert.Equal(t, cfg.RepositoryPath(), model.RepositoryPath)
	assert.Equal(t, v1alpha1.SmokeTestCapabilities(), model.SmokeTest)
}
