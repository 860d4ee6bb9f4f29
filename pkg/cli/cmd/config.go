package cmd

import (
	"fmt"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/cli/helpers"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/io/configmanager"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/io/marshaller"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command, which prints the resolved configuration.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved installation configuration",
		Long: "Resolve flags, HUNYUAN3D_SETUP_* environment variables and the config file the same way " +
			"install does, and print the result as YAML without changing anything.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(cmd)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if path := helpers.ConfigFile(cmd); path != "" {
			cfgManager.SetConfigFile(path)
		}

		cfg, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		out, err := marshaller.NewYAMLMarshaller[v1alpha1.InstallConfig]().Marshal(*cfg)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		if err != nil {
			return fmt.Errorf("write configuration: %w", err)
		}

		return nil
	}

	return cmd
}
