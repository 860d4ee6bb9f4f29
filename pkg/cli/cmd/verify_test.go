package cmd_test

import (
	"errors"
	"testing"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/cli/cmd"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/runner/runnertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_Text(t *testing.T) {
	t.Parallel()

	installPath := t.TempDir()

	out, err := newTestRoot(t, provisionedRunner(t, installPath), "verify", "--install-path", installPath)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "triton (not importable)")
	assert.Contains(t, out.String(), "2 of 11 capabilities available")
}

func TestVerify_YAML(t *testing.T) {
	t.Parallel()

	installPath := t.TempDir()

	out, err := newTestRoot(t, provisionedRunner(t, installPath), "verify", "--install-path", installPath, "-o", "yaml")

	require.NoError(t, err)
	assert.Contains(t, out.String(), "- name: torch\n      present: true")
	assert.Contains(t, out.String(), "- name: transformers\n      present: false")
}

func TestVerify_UsesInstallEnvironment(t *testing.T) {
	t.Parallel()

	installPath := t.TempDir()
	fake := provisionedRunner(t, installPath)

	_, err := newTestRoot(t, fake, "verify", "--install-path", installPath)
	require.NoError(t, err)

	calls := fake.CallsMatching(runnertest.All(runnertest.Named("python"), runnertest.ArgsContain("-c")))
	require.Len(t, calls, 1)

	cfg := v1alpha1.NewInstallConfig(installPath)
	assert.Contains(t, calls[0].Env, "PYTHONUTF8=1")
	assert.Contains(t, calls[0].Env, "PYTHONLEGACYWINDOWSSTDIO=utf-8")
	assert.Contains(t, calls[0].Env, "HF_HOME="+cfg.ModelCachePath())
	assert.Contains(t, calls[0].Env, "UV_EXTRA_INDEX_URL="+cfg.Runtime().IndexURL)
}

func TestVerify_ProbeFailureDoesNotFail(t *testing.T) {
	t.Parallel()

	fake := runnertest.New().Fail(runnertest.Named("python"), errors.New("no interpreter"))

	out, err := newTestRoot(t, fake, "verify", "--install-path", t.TempDir())

	require.NoError(t, err)
	assert.Contains(t, out.String(), "capability probe failed")
	assert.Contains(t, out.String(), "0 of 11 capabilities available")
}

func TestVerify_InvalidOutput(t *testing.T) {
	t.Parallel()

	_, err := newTestRoot(t, runnertest.New(), "verify", "--install-path", t.TempDir(), "-o", "json")

	require.ErrorIs(t, err, cmd.ErrInvalidOutputFormat)
}
