package verifier_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/verifier"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/runner/runnertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInterpreterMissing = errors.New("interpreter missing")

func capabilityNames(report v1alpha1.VerificationReport) []string {
	names := make([]string, 0, len(report.Capabilities))
	for _, capability := range report.Capabilities {
		names = append(names, capability.Name)
	}

	return names
}

func TestVerify_AllPresent(t *testing.T) {
	t.Parallel()

	fake := runnertest.New().Respond(runnertest.Named("python"),
		`{"torch": true, "hy3dgen": true, "triton": true, "pymeshlab": true, "open3d": true, "bpy": true,`+
			` "diffusers": true, "transformers": true, "numpy": true, "PIL": true, "cv2": true}`)

	report, err := verifier.NewVerifier(fake).Verify(context.Background(), "/venv/bin/python", nil)
	require.NoError(t, err)

	assert.Equal(t, v1alpha1.Capabilities(), capabilityNames(report))
	assert.Empty(t, report.Missing())
}

func TestVerify_PartialResultsKeepFixedSet(t *testing.T) {
	t.Parallel()

	fake := runnertest.New().Respond(runnertest.Named("python"),
		"some warning printed by a package\n"+`{"torch": true, "triton": false, "unexpected": true}`+"\n")

	report, err := verifier.NewVerifier(fake).Verify(context.Background(), "/venv/bin/python", nil)
	require.NoError(t, err)

	assert.Equal(t, v1alpha1.Capabilities(), capabilityNames(report))
	assert.True(t, report.Capabilities[0].Present)
	assert.Len(t, report.Missing(), len(v1alpha1.Capabilities())-1)
}

func TestVerify_ProbeFailureReportsAllMissing(t *testing.T) {
	t.Parallel()

	fake := runnertest.New().Fail(runnertest.Named("python"), errInterpreterMissing)

	report, err := verifier.NewVerifier(fake).Verify(context.Background(), "/venv/bin/python", nil)
	require.ErrorIs(t, err, errInterpreterMissing)

	assert.Equal(t, v1alpha1.Capabilities(), capabilityNames(report))
	assert.Len(t, report.Missing(), len(v1alpha1.Capabilities()))
}

func TestVerify_NoJSONOutput(t *testing.T) {
	t.Parallel()

	fake := runnertest.New().Respond(runnertest.Named("python"), "Traceback...\n")

	report, err := verifier.NewVerifier(fake).Verify(context.Background(), "/venv/bin/python", nil)
	require.ErrorIs(t, err, verifier.ErrNoProbeOutput)
	assert.Len(t, report.Capabilities, len(v1alpha1.Capabilities()))
}

func TestVerify_PassesProbeScript(t *testing.T) {
	t.Parallel()

	fake := runnertest.New().Respond(runnertest.Named("python"), "{}")
	probe := verifier.NewVerifier(fake)

	_, err := probe.Verify(context.Background(), "/venv/bin/python", []string{"PYTHONUTF8=1"})
	require.NoError(t, err)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"-c", probe.ProbeScript()}, calls[0].Args)
	assert.Equal(t, []string{"PYTHONUTF8=1"}, calls[0].Env)
	assert.True(t, calls[0].Quiet)
	assert.Contains(t, probe.ProbeScript(), "'transformers'")
}

func TestWriteText(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	verifier.WriteText(&out, v1alpha1.VerificationReport{
		Capabilities: []v1alpha1.CapabilityStatus{
			{Name: "torch", Present: true},
			{Name: "triton", Present: false},
		},
	})

	assert.Equal(t, "✔ torch\n⚠ triton (not importable)\nℹ 1 of 2 capabilities available\n", out.String())
}

func TestMarshalYAML(t *testing.T) {
	t.Parallel()

	out, err := verifier.MarshalYAML(v1alpha1.VerificationReport{
		Capabilities: []v1alpha1.CapabilityStatus{{Name: "torch", Present: true}},
	})
	require.NoError(t, err)

	assert.Equal(t, "capabilities:\n    - name: torch\n      present: true\n", string(out))
}
