package configmanager

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
)

// Validate checks a resolved configuration.
func Validate(cfg *v1alpha1.InstallConfig) error {
	if strings.TrimSpace(cfg.InstallPath) == "" {
		return v1alpha1.ErrInstallPathRequired
	}

	if !cfg.CUDA.IsValid() {
		return fmt.Errorf("%w: %q", v1alpha1.ErrInvalidCUDAFlavor, cfg.CUDA)
	}

	if !cfg.PackageInstallPolicy.IsValid() {
		return fmt.Errorf("%w: %q", v1alpha1.ErrInvalidPackageInstallPolicy, cfg.PackageInstallPolicy)
	}

	return validatePythonVersion(cfg.PythonVersion)
}

func validatePythonVersion(version string) error {
	if strings.Count(version, ".") != 1 {
		return fmt.Errorf("%w: %q, want MAJOR.MINOR", v1alpha1.ErrInvalidPythonVersion, version)
	}

	_, err := semver.StrictNewVersion(version + ".0")
	if err != nil {
		return fmt.Errorf("%w: %q: %w", v1alpha1.ErrInvalidPythonVersion, version, err)
	}

	return nil
}
