package cmd

import (
	"fmt"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/cli/helpers"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/di"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	return newRootCmd(di.NewRuntime(), version, commit, date)
}

func newRootCmd(runtimeContainer *di.Runtime, version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hunyuan3d-setup",
		Short: "Provision the Hunyuan3D-2 image-to-3D asset generation toolkit",
		Long: "hunyuan3d-setup clones Hunyuan3D-2, creates its Python environment with uv, installs the " +
			"pinned GPU runtime and writes launcher scripts. Every step is safe to re-run.",
		RunE:         handleRootRunE,
		SilenceUsage: true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	cmd.PersistentFlags().Bool(helpers.TimingFlagName, false, "Show per-step timing output")
	cmd.PersistentFlags().String(helpers.LogLevelFlagName, helpers.DefaultLogLevel,
		"Diagnostic log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().String(helpers.ConfigFlagName, "",
		"Path to a config file (default ./hunyuan3d-setup.yaml)")

	cmd.AddCommand(NewInstallCmd(runtimeContainer))
	cmd.AddCommand(NewVerifyCmd(runtimeContainer))
	cmd.AddCommand(NewDiagnoseCmd(runtimeContainer))
	cmd.AddCommand(NewConfigCmd())

	return cmd
}

// Execute runs the provided root command and handles errors.
func Execute(cmd *cobra.Command) error {
	executor := errorhandler.NewExecutor()

	err := executor.Execute(cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

func handleRootRunE(cmd *cobra.Command, _ []string) error {
	// The err can safely be ignored, as it can never fail at runtime.
	_ = cmd.Help()

	return nil
}

// commandModules routes output and logging of a command invocation.
// WithOutput must precede WithLogLevel, which builds the logger.
func commandModules(cmd *cobra.Command) []di.Module {
	return []di.Module{
		di.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		di.WithLogLevel(helpers.LogLevel(cmd)),
	}
}
