// Package di wires the shared services of hunyuan3d-setup with samber/do.
package di

import (
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Injector is the dependency container handed to modules and handlers.
type Injector = do.Injector

// Module registers services on an injector.
type Module func(Injector) error

// Runtime builds a fresh injector for every invocation from its base modules.
type Runtime struct {
	modules []Module
}

// New returns a Runtime with the given base modules.
func New(modules ...Module) *Runtime {
	return &Runtime{modules: modules}
}

// With returns a copy of the Runtime with modules appended to its base modules.
func (r *Runtime) With(modules ...Module) *Runtime {
	return &Runtime{modules: append(append([]Module{}, r.modules...), modules...)}
}

// Invoke runs the base modules, then extra, then handler, on a new injector.
// Nil modules are skipped. The injector is shut down afterwards.
func (r *Runtime) Invoke(handler func(Injector) error, extra ...Module) error {
	injector := do.New()
	defer func() { _ = injector.Shutdown() }()

	for _, module := range append(append([]Module{}, r.modules...), extra...) {
		if module == nil {
			continue
		}

		err := module(injector)
		if err != nil {
			return err
		}
	}

	return handler(injector)
}

// RunEWithRuntime adapts a handler that needs the injector to a cobra RunE.
func RunEWithRuntime(
	runtimeContainer *Runtime,
	handler func(cmd *cobra.Command, injector Injector) error,
	extra ...Module,
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return runtimeContainer.Invoke(func(injector Injector) error {
			return handler(cmd, injector)
		}, extra...)
	}
}
