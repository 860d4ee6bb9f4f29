package toolchain_test

import (
	"context"
	"testing"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/toolchain"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/runner"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/runner/runnertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPythonVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		output  string
		want    string
		wantErr error
	}{
		{name: "patch release matches", output: "Python 3.10.11\n", want: "3.10"},
		{name: "minor only", output: "Python 3.10", want: "3.10"},
		{name: "different minor", output: "Python 3.11.4", want: "3.10", wantErr: toolchain.ErrInterpreterVersion},
		{name: "garbage", output: "command not found", want: "3.10", wantErr: toolchain.ErrUnparsableVersion},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := toolchain.CheckPythonVersion(testCase.output, testCase.want)
			if testCase.wantErr != nil {
				require.ErrorIs(t, err, testCase.wantErr)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestInterpreterVersion_ReadsStderr(t *testing.T) {
	t.Parallel()

	fake := runnertest.New().On(runnertest.Named("python"), func(_ runner.Command) (runner.CommandResult, error) {
		return runner.CommandResult{Stderr: "Python 3.10.4\n"}, nil
	})

	version, err := toolchain.InterpreterVersion(context.Background(), fake, "/venv/bin/python", "3.10")
	require.NoError(t, err)
	assert.Equal(t, "3.10.4", version.String())
}
