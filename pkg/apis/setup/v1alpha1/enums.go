package v1alpha1

import (
	"fmt"
	"slices"
	"strings"
)

// --- Enum Interface ---

// EnumValuer is implemented by string-based enum types to provide their valid values.
type EnumValuer interface {
	// ValidValues returns all valid string values for this enum type.
	ValidValues() []string
}

// --- CUDA Flavor Types ---

// CUDAFlavor selects the GPU build of the numerical runtime.
type CUDAFlavor string

const (
	// CUDAFlavorNone installs the CPU-only runtime and skips the accelerator.
	CUDAFlavorNone CUDAFlavor = "none"
	// CUDAFlavorCU118 targets CUDA 11.8.
	CUDAFlavorCU118 CUDAFlavor = "cu118"
	// CUDAFlavorCU124 targets CUDA 12.4.
	CUDAFlavorCU124 CUDAFlavor = "cu124"
)

// Set for CUDAFlavor.
func (c *CUDAFlavor) Set(value string) error {
	for _, flavor := range ValidCUDAFlavors() {
		if strings.EqualFold(value, string(flavor)) {
			*c = flavor

			return nil
		}
	}

	return fmt.Errorf(
		"%w: %s (valid options: %s, %s, %s)",
		ErrInvalidCUDAFlavor,
		value,
		CUDAFlavorNone,
		CUDAFlavorCU118,
		CUDAFlavorCU124,
	)
}

// IsValid checks if the CUDA flavor value is supported.
func (c *CUDAFlavor) IsValid() bool {
	return slices.Contains(ValidCUDAFlavors(), *c)
}

// String returns the string representation of the CUDAFlavor.
func (c *CUDAFlavor) String() string {
	return string(*c)
}

// Type returns the type of the CUDAFlavor.
func (c *CUDAFlavor) Type() string {
	return "CUDAFlavor"
}

// Default returns the default value for CUDAFlavor (cu124).
func (c *CUDAFlavor) Default() any {
	return CUDAFlavorCU124
}

// ValidValues returns all valid CUDAFlavor values as strings.
func (c *CUDAFlavor) ValidValues() []string {
	return []string{
		string(CUDAFlavorNone),
		string(CUDAFlavorCU118),
		string(CUDAFlavorCU124),
	}
}

// UsesGPU reports whether the flavor installs a CUDA build.
func (c *CUDAFlavor) UsesGPU() bool {
	switch *c {
	case CUDAFlavorCU118, CUDAFlavorCU124:
		return true
	case CUDAFlavorNone:
		return false
	default:
		return false
	}
}

// ValidCUDAFlavors returns supported CUDA flavor values.
func ValidCUDAFlavors() []CUDAFlavor {
	return []CUDAFlavor{CUDAFlavorNone, CUDAFlavorCU118, CUDAFlavorCU124}
}

// CUDAFlavorFromUseCUDA12 maps the legacy boolean switch to a flavor.
func CUDAFlavorFromUseCUDA12(useCUDA12 bool) CUDAFlavor {
	if useCUDA12 {
		return CUDAFlavorCU124
	}

	return CUDAFlavorCU118
}

// --- Package Install Policy Types ---

// PackageInstallPolicy controls how a failed editable install of the target package is treated.
type PackageInstallPolicy string

const (
	// PackageInstallPolicyWarn reports the failure and keeps going.
	PackageInstallPolicyWarn PackageInstallPolicy = "warn"
	// PackageInstallPolicyFail aborts the run like any other mandatory step.
	PackageInstallPolicyFail PackageInstallPolicy = "fail"
)

// Set for PackageInstallPolicy.
func (p *PackageInstallPolicy) Set(value string) error {
	for _, policy := range ValidPackageInstallPolicies() {
		if strings.EqualFold(value, string(policy)) {
			*p = policy

			return nil
		}
	}

	return fmt.Errorf(
		"%w: %s (valid options: %s, %s)",
		ErrInvalidPackageInstallPolicy,
		value,
		PackageInstallPolicyWarn,
		PackageInstallPolicyFail,
	)
}

// IsValid checks if the policy value is supported.
func (p *PackageInstallPolicy) IsValid() bool {
	return slices.Contains(ValidPackageInstallPolicies(), *p)
}

// String returns the string representation of the PackageInstallPolicy.
func (p *PackageInstallPolicy) String() string {
	return string(*p)
}

// Type returns the type of the PackageInstallPolicy.
func (p *PackageInstallPolicy) Type() string {
	return "PackageInstallPolicy"
}

// Default returns the default value for PackageInstallPolicy (warn).
func (p *PackageInstallPolicy) Default() any {
	return PackageInstallPolicyWarn
}

// ValidValues returns all valid PackageInstallPolicy values as strings.
func (p *PackageInstallPolicy) ValidValues() []string {
	return []string{
		string(PackageInstallPolicyWarn),
		string(PackageInstallPolicyFail),
	}
}

// ValidPackageInstallPolicies returns supported policy values.
func ValidPackageInstallPolicies() []PackageInstallPolicy {
	return []PackageInstallPolicy{PackageInstallPolicyWarn, PackageInstallPolicyFail}
}
