package helpers_test

import (
	"testing"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/cli/helpers"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/timer"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTimingEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		setupCmd    func() *cobra.Command
		wantEnabled bool
		wantErr     error
	}{
		{
			name:     "returns error for nil command",
			setupCmd: func() *cobra.Command { return nil },
			wantErr:  helpers.ErrNilCommand,
		},
		{
			name: "returns false when flag is false",
			setupCmd: func() *cobra.Command {
				cmd := &cobra.Command{}
				cmd.Flags().Bool(helpers.TimingFlagName, false, "")

				return cmd
			},
		},
		{
			name: "finds timing in persistent flags",
			setupCmd: func() *cobra.Command {
				cmd := &cobra.Command{}
				cmd.PersistentFlags().Bool(helpers.TimingFlagName, true, "")

				return cmd
			},
			wantEnabled: true,
		},
		{
			name: "finds timing in inherited flags from parent",
			setupCmd: func() *cobra.Command {
				parent := &cobra.Command{}
				parent.PersistentFlags().Bool(helpers.TimingFlagName, true, "")

				child := &cobra.Command{}
				parent.AddCommand(child)

				return child
			},
			wantEnabled: true,
		},
		{
			name:     "returns false when flag not registered",
			setupCmd: func() *cobra.Command { return &cobra.Command{} },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			enabled, err := helpers.IsTimingEnabled(tc.setupCmd())

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantEnabled, enabled)
		})
	}
}

func TestMaybeTimer(t *testing.T) {
	t.Parallel()

	enabled := func() *cobra.Command {
		cmd := &cobra.Command{}
		cmd.Flags().Bool(helpers.TimingFlagName, true, "")

		return cmd
	}

	tmr := timer.New()

	assert.Nil(t, helpers.MaybeTimer(nil, tmr))
	assert.Nil(t, helpers.MaybeTimer(enabled(), nil))
	assert.Nil(t, helpers.MaybeTimer(&cobra.Command{}, tmr))
	assert.Equal(t, timer.Timer(tmr), helpers.MaybeTimer(enabled(), tmr))
}

func TestLogLevelAndConfigFile(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "root"}
	root.PersistentFlags().String(helpers.LogLevelFlagName, helpers.DefaultLogLevel, "")
	root.PersistentFlags().String(helpers.ConfigFlagName, "", "")

	child := &cobra.Command{Use: "child"}
	root.AddCommand(child)

	assert.Equal(t, helpers.DefaultLogLevel, helpers.LogLevel(child))
	assert.Empty(t, helpers.ConfigFile(child))

	require.NoError(t, root.PersistentFlags().Set(helpers.LogLevelFlagName, "debug"))
	require.NoError(t, root.PersistentFlags().Set(helpers.ConfigFlagName, "custom.yaml"))

	assert.Equal(t, "debug", helpers.LogLevel(child))
	assert.Equal(t, "custom.yaml", helpers.ConfigFile(child))
	assert.Equal(t, helpers.DefaultLogLevel, helpers.LogLevel(&cobra.Command{}))
	assert.Equal(t, "fallback", helpers.StringFlag(nil, "x", "fallback"))
}
