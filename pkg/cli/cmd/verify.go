package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/cli/helpers"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/di"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/io/configmanager"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/provisioner"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/verifier"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// Output formats of the verify command.
const (
	OutputText = "text"
	OutputYAML = "yaml"
)

// ErrInvalidOutputFormat is returned for an unknown --output value.
var ErrInvalidOutputFormat = errors.New("invalid output format")

// NewVerifyCmd creates the verify command.
func NewVerifyCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Report which Hunyuan3D-2 capabilities import in the installed environment",
		Long: "Run an import probe in the virtual environment of an existing installation and print " +
			"which capabilities are available. Missing capabilities never change the exit code.",
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
			return runVerify(cmd, injector, cfgManager, output)
		}, commandModules(cmd)...)
	}

	return cmd
}

func runVerify(
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

	env := provisioner.ChildEnvironment(cfg, cfgManager.Lookup)

	report, probeErr := verifier.NewVerifier(cmdRunner).Verify(ctx, cfg.VenvPython(), env.Pairs())
	if probeErr != nil {
		notify.Warningf(cmd.ErrOrStderr(), "capability probe failed: %v", probeErr)
	}

	if output == OutputYAML {
		data, err := verifier.MarshalYAML(report)
		if err != nil {
			return err
		}

		_, err = cmd.OutOrStdout().Write(data)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}

		return nil
	}

	verifier.WriteText(cmd.OutOrStdout(), report)

	return nil
}
