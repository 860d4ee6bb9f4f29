package cmd

import (
	"context"
	"fmt"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/cli/helpers"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/cli/ui"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/cli/ui/pause"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/di"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/io/configmanager"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/provisioner"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/notify"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/timer"
	"github.com/spf13/cobra"
)

const installCmdLong = `Run the provisioning sequence.

Mandatory steps (git and uv detection, cloning, virtual environment creation and
dependency sync) abort the run with exit code 1. Optional steps (compiler setup,
native extension builds, format libraries, verification) only print a warning.

Configuration is read from flags, HUNYUAN3D_SETUP_* environment variables and an
optional hunyuan3d-setup.yaml, in that order of precedence.`

// NewInstallCmd creates the install command.
func NewInstallCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "install",
		Short:        "Install Hunyuan3D-2 and its Python environment",
		Long:         installCmdLong,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(cmd)

	handler := di.WithTimer(func(cmd *cobra.Command, injector di.Injector, tmr timer.Timer) error {
		return runInstall(cmd, injector, tmr, cfgManager)
	})

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return runtimeContainer.Invoke(func(injector di.Injector) error {
			return handler(cmd, injector)
		}, commandModules(cmd)...)
	}

	return cmd
}

func runInstall(
	cmd *cobra.Command,
	injector di.Injector,
	tmr timer.Timer,
	cfgManager *configmanager.ConfigManager,
) error {
	out := notify.NewStageSeparatingWriter(cmd.OutOrStdout())
	cfgManager.Writer = out

	if pause.IsTTY() {
		ui.SetTerminalTitle(cmd.OutOrStdout(), "Hunyuan3D-2 setup")
	}

	if path := helpers.ConfigFile(cmd); path != "" {
		cfgManager.SetConfigFile(path)
	}

	outputTimer := helpers.MaybeTimer(cmd, tmr)
	if outputTimer != nil {
		outputTimer.Start()
	}

	notify.Titlef(out, "📄", "Load configuration...")

	cfg, err := cfgManager.Load(configmanager.LoadOptions{Timer: outputTimer})
	if err != nil {
		notify.Errorf(out, "%v", err)
		_ = pause.Prompt(out, noPauseFlag(cmd))

		return errorhandler.MarkReported(fmt.Errorf("load configuration: %w", err))
	}

	factory, err := di.ResolveSequencerFactory(injector)
	if err != nil {
		return err
	}

	seq, err := factory.Create(cfg, out, outputTimer)
	if err != nil {
		return fmt.Errorf("create sequencer: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	code, runErr := seq.Run(ctx)

	if code == provisioner.ExitSuccess {
		notify.Successf(out, "Hunyuan3D-2 is installed in %s", seq.Config().InstallPath)
	}

	_ = pause.Prompt(out, seq.Config().NoPause)

	if code != provisioner.ExitSuccess {
		return errorhandler.MarkReported(runErr)
	}

	return nil
}

// noPauseFlag reads --no-pause directly, for failures before the config is resolved.
func noPauseFlag(cmd *cobra.Command) bool {
	noPause, err := cmd.Flags().GetBool("no-pause")

	return err == nil && noPause
}
