package provisioner

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
	launchergenerator "github.com/devantler-tech/hunyuan3d-setup/pkg/io/generator/launcher"
	manifestgenerator "github.com/devantler-tech/hunyuan3d-setup/pkg/io/generator/manifest"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/diskspace"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/toolchain"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/verifier"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/envvar"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/notify"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/runner"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/timer"
	"github.com/sirupsen/logrus"
)

// ExitCode is the process exit status of a run.
type ExitCode int

const (
	// ExitSuccess is returned when every mandatory step succeeded.
	ExitSuccess ExitCode = 0
	// ExitFailure is returned when a mandatory step failed.
	ExitFailure ExitCode = 1
)

// Dependencies are the collaborators a Sequencer drives.
type Dependencies struct {
	Runner    runner.CommandRunner
	Disk      diskspace.Probe
	Locator   *toolchain.Locator
	Verifier  *verifier.Verifier
	Manifest  *manifestgenerator.Generator
	Launchers *launchergenerator.Generator
	// Timer adds step and total durations to the output. Nil disables timing.
	Timer  timer.Timer
	Logger logrus.FieldLogger
	// Lookup reads the caller's environment. Defaults to os.LookupEnv.
	Lookup envvar.LookupFunc
	// Volume is the path whose free space is checked. Defaults to the system volume.
	Volume string
}

// Sequencer executes the provisioning steps in order.
type Sequencer struct {
	cfg  *v1alpha1.InstallConfig
	deps Dependencies
	out  io.Writer
	env  *envvar.Environment

	gitPath           string
	uvPath            string
	compilerAvailable bool
	results           []v1alpha1.StepResult
	report            *v1alpha1.VerificationReport
}

// NewSequencer returns a Sequencer for cfg. Output is written to out.
func NewSequencer(cfg *v1alpha1.InstallConfig, deps Dependencies, out io.Writer) *Sequencer {
	if deps.Lookup == nil {
		deps.Lookup = os.LookupEnv
	}

	if deps.Volume == "" {
		deps.Volume = diskspace.SystemVolume()
	}

	if deps.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		deps.Logger = logger
	}

	return &Sequencer{
		cfg:  cfg,
		deps: deps,
		out:  out,
		env:  envvar.NewEnvironment(),
	}
}

// Config returns the effective configuration, including a low-disk-mode escalation.
func (s *Sequencer) Config() *v1alpha1.InstallConfig {
	return s.cfg
}

// Environment returns the overrides passed to every child process.
func (s *Sequencer) Environment() *envvar.Environment {
	return s.env
}

// Results returns the outcome of every step that ran.
func (s *Sequencer) Results() []v1alpha1.StepResult {
	return append([]v1alpha1.StepResult(nil), s.results...)
}

// Report returns the verification report if the verify step ran.
func (s *Sequencer) Report() (v1alpha1.VerificationReport, bool) {
	if s.report == nil {
		return v1alpha1.VerificationReport{}, false
	}

	return *s.report, true
}

// Run executes every step once, in order. It stops at the first failed mandatory
// step and returns ExitFailure with a *FatalError.
func (s *Sequencer) Run(ctx context.Context) (ExitCode, error) {
	if s.deps.Timer != nil {
		s.deps.Timer.Start()
	}

	for _, current := range s.steps() {
		err := ctx.Err()
		if err != nil {
			return s.abort(current, err)
		}

		if s.deps.Timer != nil {
			s.deps.Timer.NewStage()
		}

		notify.Titlef(s.out, current.emoji, "%s...", current.title)

		outcome, err := current.run(ctx)
		s.results = append(s.results, v1alpha1.StepResult{
			Name:    current.name,
			Kind:    current.kind,
			Outcome: outcome,
			Err:     err,
		})

		s.deps.Logger.WithFields(logrus.Fields{
			"step":    current.name,
			"kind":    current.kind.String(),
			"outcome": outcome.String(),
		}).Debug("step finished")

		if outcome != v1alpha1.OutcomeFailed {
			continue
		}

		if current.kind == v1alpha1.StepMandatory {
			return s.abort(current, err)
		}

		notify.Warningf(s.out, "%s failed, continuing: %v", current.name, err)
	}

	s.writeSummary()

	return ExitSuccess, nil
}

func (s *Sequencer) abort(current step, err error) (ExitCode, error) {
	notify.Diagnosticf(s.out, "%s failed: %v", current.name, err)
	s.writeSummary()

	return ExitFailure, &FatalError{Step: current.name, Err: err}
}

func (s *Sequencer) writeSummary() {
	var succeeded, skipped, failed int

	for _, result := range s.results {
		switch result.Outcome {
		case v1alpha1.OutcomeSucceeded:
			succeeded++
		case v1alpha1.OutcomeSkipped:
			skipped++
		case v1alpha1.OutcomeFailed:
			failed++
		}
	}

	notify.Titlef(s.out, "📋", "Summary")

	for _, result := range s.results {
		if result.Outcome == v1alpha1.OutcomeFailed {
			notify.Warningf(s.out, "%s (%s) failed: %v", result.Name, result.Kind, result.Err)
		}
	}

	if failed == 0 {
		notify.SuccessWithTimerf(s.out, s.deps.Timer,
			"%d succeeded, %d already satisfied", succeeded, skipped)

		return
	}

	notify.Infof(s.out, "%d succeeded, %d already satisfied, %d failed", succeeded, skipped, failed)
}

func (s *Sequencer) windows() bool {
	return runtime.GOOS == "windows"
}
