package pause_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/cli/ui/pause"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("stdin closed")
}

//nolint:paralleltest // mutates package-level test overrides
func TestShouldSkip(t *testing.T) {
	tests := []struct {
		name    string
		tty     bool
		noPause bool
		want    bool
	}{
		{name: "interactive", tty: true, want: false},
		{name: "no-pause flag", tty: true, noPause: true, want: true},
		{name: "not a terminal", tty: false, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			restore := pause.SetTTYCheckerForTests(func() bool { return tc.tty })
			defer restore()

			assert.Equal(t, tc.want, pause.ShouldSkip(tc.noPause))
		})
	}
}

//nolint:paralleltest // mutates package-level test overrides
func TestPrompt_WaitsForKey(t *testing.T) {
	defer pause.SetTTYCheckerForTests(func() bool { return true })()

	stdin := strings.NewReader("x")
	defer pause.SetStdinReaderForTests(stdin)()

	var out bytes.Buffer

	require.NoError(t, pause.Prompt(&out, false))
	assert.Contains(t, out.String(), "Press any key to exit")
	assert.Zero(t, stdin.Len(), "key must be consumed")
}

//nolint:paralleltest // mutates package-level test overrides
func TestPrompt_SkippedWithoutTerminal(t *testing.T) {
	defer pause.SetTTYCheckerForTests(func() bool { return false })()

	var out bytes.Buffer

	require.NoError(t, pause.Prompt(&out, false))
	assert.Empty(t, out.String())
}

//nolint:paralleltest // mutates package-level test overrides
func TestWaitForKey_EOFIsNotAnError(t *testing.T) {
	defer pause.SetStdinReaderForTests(strings.NewReader(""))()

	require.NoError(t, pause.WaitForKey(&bytes.Buffer{}))
}

//nolint:paralleltest // mutates package-level test overrides
func TestWaitForKey_ReadError(t *testing.T) {
	defer pause.SetStdinReaderForTests(failingReader{})()

	require.ErrorContains(t, pause.WaitForKey(&bytes.Buffer{}), "stdin closed")
}
