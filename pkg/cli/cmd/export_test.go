package cmd

import (
	"github.com/devantler-tech/hunyuan3d-setup/pkg/di"
	"github.com/spf13/cobra"
)

// NewRootCmdWithRuntime exposes the runtime-injecting constructor to tests.
func NewRootCmdWithRuntime(runtimeContainer *di.Runtime, version, commit, date string) *cobra.Command {
	return newRootCmd(runtimeContainer, version, commit, date)
}
