// Package main is the entry point for hunyuan3d-setup.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/devantler-tech/hunyuan3d-setup/internal/buildmeta"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/cli/cmd"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/notify"
)

func main() {
	exitCode := runSafely(os.Args[1:], runWithArgs, os.Stderr)

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

//nolint:nonamedreturns // Named return simplifies panic recovery logic.
func runSafely(args []string, runner func([]string) int, errWriter io.Writer) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			notify.Errorf(errWriter, "panic recovered: %v\n%s", r, debug.Stack())

			exitCode = 1
		}
	}()

	exitCode = runner(args)

	return exitCode
}

func runWithArgs(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cmd.NewRootCmd(buildmeta.Version, buildmeta.Commit, buildmeta.Date)
	rootCmd.SetArgs(args)
	rootCmd.SetContext(ctx)

	err := cmd.Execute(rootCmd)
	if err != nil && !errorhandler.IsReported(err) {
		notify.Errorf(rootCmd.ErrOrStderr(), "%v", err)
	}

	return errorhandler.ExitCode(err)
}
