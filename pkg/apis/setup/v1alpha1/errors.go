package v1alpha1

import "errors"

// ErrInvalidCUDAFlavor is returned when an invalid CUDA flavor is specified.
var ErrInvalidCUDAFlavor = errors.New("invalid CUDA flavor")

// ErrInvalidPackageInstallPolicy is returned when an invalid package install policy is specified.
var ErrInvalidPackageInstallPolicy = errors.New("invalid package install policy")

// ErrInstallPathRequired is returned when no install path could be resolved.
var ErrInstallPathRequired = errors.New("install path is required")

// ErrInvalidPythonVersion is returned when the interpreter version is not a MAJOR.MINOR version.
var ErrInvalidPythonVersion = errors.New("invalid python version")
