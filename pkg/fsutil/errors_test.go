package fsutil_test

import (
	"fmt"
	"testing"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorVariables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{
			name:        "ErrEmptyOutputPath is defined",
			err:         fsutil.ErrEmptyOutputPath,
			expectedMsg: "output path cannot be empty",
		},
		{
			name:        "ErrNotDirectory is defined",
			err:         fsutil.ErrNotDirectory,
			expectedMsg: "path exists but is not a directory",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			require.Error(t, testCase.err)
			assert.Equal(t, testCase.expectedMsg, testCase.err.Error())

			wrapped := fmt.Errorf("context: %w", testCase.err)
			require.ErrorIs(t, wrapped, testCase.err)
		})
	}
}
