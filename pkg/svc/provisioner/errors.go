package provisioner

import (
	"errors"
	"fmt"
)

// Errors reported by provisioning steps.
var (
	ErrVenvNotReady        = errors.New("virtual environment has no activation script")
	ErrCompilerUnavailable = errors.New("no compiler toolchain available for native extensions")
	ErrCUDANotDetected     = errors.New("CUDA_PATH is not set")
)

// FatalError is returned when a mandatory step fails and the run is aborted.
type FatalError struct {
	Step string
	Err  error
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

// Unwrap exposes the step failure for errors.Is/errors.As consumers.
func (e *FatalError) Unwrap() error {
	return e.Err
}
