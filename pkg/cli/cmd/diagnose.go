package cmd

import (
	"context"
	"fmt"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/cli/helpers"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/di"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/io/configmanager"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/diagnostics"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/provisioner"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewDiagnoseCmd creates the diagnose command.
func NewDiagnoseCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Print a system report of the GPU stack and the installed environment",
		Long: "Check the NVIDIA driver, the CUDA toolkit, the interpreter, PyTorch and its devices, " +
			"the core and optional dependencies and the launcher scripts, then print recommendations. " +
			"Nothing found changes the exit code.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(cmd)

	var output string

	cmd.Flags().StringVarP(&output, "output", "o", OutputText, "Report format (text, yaml)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if output != OutputText && output != OutputYAML {
			return fmt.Errorf("%w: %q (valid options: %s, %s)", ErrInvalidOutputFormat, output, OutputText, OutputYAML)
		}

		return runtimeContainer.Invoke(func(injector di.Injector) error {
			return runDiagnose(cmd, injector, cfgManager, output)
		}, commandModules(cmd)...)
	}

	return cmd
}

func runDiagnose(
	cmd *cobra.Command,
	injector di.Injector,
	cfgManager *configmanager.ConfigManager,
	output string,
) error {
	if path := helpers.ConfigFile(cmd); path != "" {
		cfgManager.SetConfigFile(path)
	}

	cfg, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	cmdRunner, err := di.ResolveCommandRunner(injector)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report, diagErr := diagnostics.NewDiagnoser(cmdRunner).Diagnose(ctx, diagnostics.Options{
		Python:      cfg.VenvPython(),
		InstallPath: cfg.InstallPath,
		Env:         provisioner.ChildEnvironment(cfg, cfgManager.Lookup).Pairs(),
	})
	if diagErr != nil {
		notify.Warningf(cmd.ErrOrStderr(), "environment report failed: %v", diagErr)
	}

	if output == OutputYAML {
		data, err := diagnostics.MarshalYAML(report)
		if err != nil {
			return err
		}

		_, err = cmd.OutOrStdout().Write(data)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}

		return nil
	}

	diagnostics.WriteText(cmd.OutOrStdout(), report)

	return nil
}
