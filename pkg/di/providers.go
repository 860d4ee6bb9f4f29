package di

import (
	"fmt"
	"io"
	"os"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/diskspace"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/provisioner"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/runner"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/timer"
	"github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
)

// Output carries the writers external commands stream to.
type Output struct {
	Out io.Writer
	Err io.Writer
}

// NewRuntime constructs the shared runtime container used by the commands.
func NewRuntime() *Runtime {
	return New(
		provideOutput,
		provideTimer,
		provideLogger,
		provideCommandRunner,
		provideDiskProbe,
		provideSequencerFactory,
	)
}

// WithOutput overrides the writers external commands stream to.
func WithOutput(out, errOut io.Writer) Module {
	return func(i Injector) error {
		do.Override(i, func(Injector) (Output, error) {
			return Output{Out: out, Err: errOut}, nil
		})

		return nil
	}
}

// WithLogLevel sets the diagnostic log level, for example "debug".
func WithLogLevel(level string) Module {
	return func(i Injector) error {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("parse log level: %w", err)
		}

		logger, err := ResolveLogger(i)
		if err != nil {
			return err
		}

		logger.SetLevel(parsed)

		return nil
	}
}

// WithCommandRunner replaces the external command runner.
func WithCommandRunner(cmdRunner runner.CommandRunner) Module {
	return func(i Injector) error {
		do.Override(i, func(Injector) (runner.CommandRunner, error) {
			return cmdRunner, nil
		})

		return nil
	}
}

// WithDiskProbe replaces the free space probe.
func WithDiskProbe(probe diskspace.Probe) Module {
	return func(i Injector) error {
		do.Override(i, func(Injector) (diskspace.Probe, error) {
			return probe, nil
		})

		return nil
	}
}

func provideOutput(i Injector) error {
	do.Provide(i, func(Injector) (Output, error) {
		return Output{Out: os.Stdout, Err: os.Stderr}, nil
	})

	return nil
}

func provideTimer(i Injector) error {
	do.Provide(i, func(Injector) (timer.Timer, error) {
		return timer.New(), nil
	})

	return nil
}

func provideLogger(i Injector) error {
	do.Provide(i, func(injector Injector) (*logrus.Logger, error) {
		output, err := do.Invoke[Output](injector)
		if err != nil {
			return nil, fmt.Errorf("resolve output: %w", err)
		}

		logger := logrus.New()
		logger.SetOutput(output.Err)
		logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:     true,
			FullTimestamp:   false,
			TimestampFormat: "2006-01-02T15:04:05Z",
		})
		logger.SetLevel(logrus.WarnLevel)

		return logger, nil
	})

	return nil
}

func provideCommandRunner(i Injector) error {
	do.Provide(i, func(injector Injector) (runner.CommandRunner, error) {
		output, err := do.Invoke[Output](injector)
		if err != nil {
			return nil, fmt.Errorf("resolve output: %w", err)
		}

		logger, err := ResolveLogger(injector)
		if err != nil {
			return nil, err
		}

		return runner.NewExecCommandRunner(output.Out, output.Err, logger), nil
	})

	return nil
}

func provideDiskProbe(i Injector) error {
	do.Provide(i, func(Injector) (diskspace.Probe, error) {
		return diskspace.NewSystemProbe(), nil
	})

	return nil
}

func provideSequencerFactory(i Injector) error {
	do.Provide(i, func(injector Injector) (provisioner.Factory, error) {
		cmdRunner, err := ResolveCommandRunner(injector)
		if err != nil {
			return nil, err
		}

		disk, err := do.Invoke[diskspace.Probe](injector)
		if err != nil {
			return nil, fmt.Errorf("resolve disk probe dependency: %w", err)
		}

		logger, err := ResolveLogger(injector)
		if err != nil {
			return nil, err
		}

		// A missing home directory only disables the uv fallback locations.
		home, _ := os.UserHomeDir()

		return provisioner.DefaultFactory{
			Runner:  cmdRunner,
			Disk:    disk,
			Logger:  logger,
			HomeDir: home,
		}, nil
	})

	return nil
}
