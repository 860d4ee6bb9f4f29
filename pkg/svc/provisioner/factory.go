package provisioner

import (
	"errors"
	"fmt"
	"io"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
	launchergenerator "github.com/devantler-tech/hunyuan3d-setup/pkg/io/generator/launcher"
	manifestgenerator "github.com/devantler-tech/hunyuan3d-setup/pkg/io/generator/manifest"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/diskspace"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/toolchain"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/verifier"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/runner"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/timer"
	"github.com/sirupsen/logrus"
)

// ErrConfigRequired is returned when Create is called without a configuration.
var ErrConfigRequired = errors.New("install configuration is required")

// Factory creates sequencers for a resolved configuration.
type Factory interface {
	Create(cfg *v1alpha1.InstallConfig, out io.Writer, tmr timer.Timer) (*Sequencer, error)
}

// DefaultFactory wires a Sequencer from shared services.
type DefaultFactory struct {
	Runner  runner.CommandRunner
	Disk    diskspace.Probe
	Logger  logrus.FieldLogger
	HomeDir string
}

var _ Factory = DefaultFactory{}

// Create builds a Sequencer for cfg writing to out. A nil tmr disables timing output.
func (f DefaultFactory) Create(cfg *v1alpha1.InstallConfig, out io.Writer, tmr timer.Timer) (*Sequencer, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	launchers, err := launchergenerator.NewGenerator()
	if err != nil {
		return nil, fmt.Errorf("create launcher generator: %w", err)
	}

	return NewSequencer(cfg, Dependencies{
		Runner:    f.Runner,
		Disk:      f.Disk,
		Locator:   toolchain.NewLocator(f.Runner, f.HomeDir),
		Verifier:  verifier.NewVerifier(f.Runner),
		Manifest:  manifestgenerator.NewGenerator(),
		Launchers: launchers,
		Timer:     tmr,
		Logger:    f.Logger,
	}, out), nil
}
