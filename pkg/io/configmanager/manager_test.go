package configmanager_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/io/configmanager"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, args ...string) (*configmanager.ConfigManager, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	cmd := &cobra.Command{Use: "install"}
	cmd.SetOut(&out)

	manager := configmanager.NewCommandConfigManager(cmd)
	manager.SetConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	manager.Executable = func() (string, error) {
		return filepath.Join(string(filepath.Separator), "opt", "hunyuan3d", "hunyuan3d-setup"), nil
	}
	manager.Lookup = func(string) (string, bool) { return "", false }

	require.NoError(t, cmd.ParseFlags(args))

	return manager, &out
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	manager, _ := newManager(t)

	cfg, err := manager.Load(configmanager.LoadOptions{Silent: true, IgnoreConfigFile: true})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(string(filepath.Separator), "opt", "hunyuan3d"), cfg.InstallPath)
	assert.Equal(t, v1alpha1.DefaultPythonVersion, cfg.PythonVersion)
	assert.Equal(t, v1alpha1.CUDAFlavorCU124, cfg.CUDA)
	assert.True(t, cfg.UseCUDA12)
	assert.Equal(t, v1alpha1.PackageInstallPolicyWarn, cfg.PackageInstallPolicy)
	assert.True(t, cfg.InstallBuildTools)
	assert.Equal(t, v1alpha1.DefaultRepositoryURL, cfg.RepositoryURL)
	assert.False(t, cfg.LowDiskMode)
	assert.False(t, cfg.NoPause)
}

func TestLoad_Flags(t *testing.T) {
	t.Parallel()

	installPath := t.TempDir()
	manager, _ := newManager(t,
		"--install-path", installPath,
		"--use-cuda-12=false",
		"--low-disk",
		"--package-install-policy", "fail",
		"--python-version", "3.11",
		"--no-pause",
	)

	cfg, err := manager.Load(configmanager.LoadOptions{Silent: true, IgnoreConfigFile: true})

	require.NoError(t, err)
	assert.Equal(t, installPath, cfg.InstallPath)
	assert.Equal(t, v1alpha1.CUDAFlavorCU118, cfg.CUDA)
	assert.True(t, cfg.LowDiskMode)
	assert.Equal(t, v1alpha1.PackageInstallPolicyFail, cfg.PackageInstallPolicy)
	assert.Equal(t, "3.11", cfg.PythonVersion)
	assert.True(t, cfg.NoPause)
}

func TestLoad_CUDAFlagOverridesUseCUDA12(t *testing.T) {
	t.Parallel()

	manager, _ := newManager(t, "--cuda", "none", "--use-cuda-12=true")

	cfg, err := manager.Load(configmanager.LoadOptions{Silent: true, IgnoreConfigFile: true})

	require.NoError(t, err)
	assert.Equal(t, v1alpha1.CUDAFlavorNone, cfg.CUDA)
}

func TestLoad_InvalidCUDAFlag(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "install"}
	configmanager.NewCommandConfigManager(cmd)

	err := cmd.ParseFlags([]string{"--cuda", "cu999"})

	require.ErrorContains(t, err, v1alpha1.ErrInvalidCUDAFlavor.Error())
}

func TestLoad_Environment(t *testing.T) {
	installPath := t.TempDir()
	t.Setenv("HUNYUAN3D_SETUP_INSTALL_PATH", installPath)
	t.Setenv("HUNYUAN3D_SETUP_CUDA", "cu118")
	t.Setenv("HUNYUAN3D_SETUP_LOW_DISK", "true")

	manager, _ := newManager(t)

	cfg, err := manager.Load(configmanager.LoadOptions{Silent: true, IgnoreConfigFile: true})

	require.NoError(t, err)
	assert.Equal(t, installPath, cfg.InstallPath)
	assert.Equal(t, v1alpha1.CUDAFlavorCU118, cfg.CUDA)
	assert.True(t, cfg.LowDiskMode)
}

func TestLoad_FlagsWinOverEnvironment(t *testing.T) {
	t.Setenv("HUNYUAN3D_SETUP_PYTHON_VERSION", "3.9")

	manager, _ := newManager(t, "--python-version", "3.12")

	cfg, err := manager.Load(configmanager.LoadOptions{Silent: true, IgnoreConfigFile: true})

	require.NoError(t, err)
	assert.Equal(t, "3.12", cfg.PythonVersion)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "hunyuan3d-setup.yaml")
	require.NoError(t, os.WriteFile(file, []byte(
		"installPath: "+dir+"\ncuda: none\npackageInstallPolicy: fail\nrepository: https://example.com/Hunyuan3D-2.git\n",
	), 0o600))

	manager, out := newManager(t, "--package-install-policy", "warn")
	manager.SetConfigFile(file)

	cfg, err := manager.Load(configmanager.LoadOptions{})

	require.NoError(t, err)
	assert.True(t, manager.ConfigFileFound())
	assert.Equal(t, dir, cfg.InstallPath)
	assert.Equal(t, v1alpha1.CUDAFlavorNone, cfg.CUDA)
	assert.Equal(t, v1alpha1.PackageInstallPolicyWarn, cfg.PackageInstallPolicy, "flag must win over file")
	assert.Equal(t, "https://example.com/Hunyuan3D-2.git", cfg.RepositoryURL)
	assert.Contains(t, out.String(), "using config file")
	assert.Contains(t, out.String(), "configuration loaded")
}

func TestLoad_InvalidConfigFileValue(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "hunyuan3d-setup.yaml")
	require.NoError(t, os.WriteFile(file, []byte("cuda: cu999\n"), 0o600))

	manager, _ := newManager(t)
	manager.SetConfigFile(file)

	_, err := manager.Load(configmanager.LoadOptions{Silent: true})

	require.ErrorIs(t, err, v1alpha1.ErrInvalidCUDAFlavor)
}

func TestLoad_ExpandsVariablesInInstallPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	manager, _ := newManager(t, "--install-path", "${HUNYUAN3D_ROOT}/install")
	manager.Lookup = func(key string) (string, bool) {
		if key == "HUNYUAN3D_ROOT" {
			return root, true
		}

		return "", false
	}

	cfg, err := manager.Load(configmanager.LoadOptions{Silent: true, IgnoreConfigFile: true})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "install"), cfg.InstallPath)
}

func TestLoad_ExecutableLookupFailure(t *testing.T) {
	t.Parallel()

	manager, _ := newManager(t)
	manager.Executable = func() (string, error) { return "", errors.New("no executable") }

	_, err := manager.Load(configmanager.LoadOptions{Silent: true, IgnoreConfigFile: true})

	require.ErrorIs(t, err, v1alpha1.ErrInstallPathRequired)
}

func TestLoad_CachesResult(t *testing.T) {
	t.Parallel()

	manager, _ := newManager(t)

	first, err := manager.Load(configmanager.LoadOptions{Silent: true, IgnoreConfigFile: true})
	require.NoError(t, err)

	second, err := manager.Load(configmanager.LoadOptions{Silent: true, IgnoreConfigFile: true})
	require.NoError(t, err)

	assert.Same(t, first, second)
}
