package di

import (
	"fmt"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/provisioner"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/runner"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/timer"
	"github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ResolveTimer retrieves the timer dependency from the injector with consistent error handling.
func ResolveTimer(injector Injector) (timer.Timer, error) {
	tmr, err := do.Invoke[timer.Timer](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve timer dependency: %w", err)
	}

	return tmr, nil
}

// ResolveLogger retrieves the diagnostic logger.
func ResolveLogger(injector Injector) (*logrus.Logger, error) {
	logger, err := do.Invoke[*logrus.Logger](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve logger dependency: %w", err)
	}

	return logger, nil
}

// ResolveCommandRunner retrieves the external command runner.
func ResolveCommandRunner(injector Injector) (runner.CommandRunner, error) {
	cmdRunner, err := do.Invoke[runner.CommandRunner](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve command runner dependency: %w", err)
	}

	return cmdRunner, nil
}

// ResolveSequencerFactory retrieves the provisioning sequencer factory.
func ResolveSequencerFactory(injector Injector) (provisioner.Factory, error) {
	factory, err := do.Invoke[provisioner.Factory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve sequencer factory dependency: %w", err)
	}

	return factory, nil
}

// WithTimer decorates a handler to automatically resolve the timer dependency.
func WithTimer(
	handler func(cmd *cobra.Command, injector Injector, tmr timer.Timer) error,
) func(cmd *cobra.Command, injector Injector) error {
	return func(cmd *cobra.Command, injector Injector) error {
		tmr, err := ResolveTimer(injector)
		if err != nil {
			return err
		}

		return handler(cmd, injector, tmr)
	}
}
