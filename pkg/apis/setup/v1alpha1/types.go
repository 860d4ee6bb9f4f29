package v1alpha1

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/jinzhu/copier"
)

// InstallConfig is the resolved set of installation options.
//
// It is created once by the config manager and treated as read-only afterwards.
// The only permitted change is the low-disk-mode escalation, which returns a new value.
type InstallConfig struct {
	InstallPath          string               `mapstructure:"installPath"          yaml:"installPath"`
	PythonVersion        string               `mapstructure:"pythonVersion"        yaml:"pythonVersion"`
	CUDA                 CUDAFlavor           `mapstructure:"cuda"                 yaml:"cuda"`
	UseCUDA12            bool                 `mapstructure:"useCUDA12"            yaml:"useCUDA12"`
	LowDiskMode          bool                 `mapstructure:"lowDisk"              yaml:"lowDisk"`
	SkipModelDownload    bool                 `mapstructure:"skipModelDownload"    yaml:"skipModelDownload"`
	PackageInstallPolicy PackageInstallPolicy `mapstructure:"packageInstallPolicy" yaml:"packageInstallPolicy"`
	InstallBuildTools    bool                 `mapstructure:"installBuildTools"    yaml:"installBuildTools"`
	RepositoryURL        string               `mapstructure:"repository"           yaml:"repository"`
	NoPause              bool                 `mapstructure:"noPause"              yaml:"noPause"`
}

// NewInstallConfig returns an InstallConfig populated with defaults for the given install path.
func NewInstallConfig(installPath string) *InstallConfig {
	return &InstallConfig{
		InstallPath:          installPath,
		PythonVersion:        DefaultPythonVersion,
		CUDA:                 CUDAFlavorCU124,
		UseCUDA12:            DefaultUseCUDA12,
		PackageInstallPolicy: PackageInstallPolicyWarn,
		InstallBuildTools:    DefaultInstallBuildTools,
		RepositoryURL:        DefaultRepositoryURL,
	}
}

// WithLowDiskMode returns a copy of the config with low-disk-mode enabled.
func (c *InstallConfig) WithLowDiskMode() (*InstallConfig, error) {
	escalated := &InstallConfig{}

	err := copier.CopyWithOption(escalated, c, copier.Option{DeepCopy: true})
	if err != nil {
		return nil, fmt.Errorf("copy install config: %w", err)
	}

	escalated.LowDiskMode = true

	return escalated, nil
}

// Runtime returns the pinned runtime row for the configured CUDA flavor.
func (c *InstallConfig) Runtime() CUDARuntime {
	return RuntimeFor(c.CUDA)
}

// RepositoryPath returns the checkout directory.
func (c *InstallConfig) RepositoryPath() string {
	return filepath.Join(c.InstallPath, DefaultRepositoryDir)
}

// VenvPath returns the virtual environment directory.
func (c *InstallConfig) VenvPath() string {
	return filepath.Join(c.InstallPath, DefaultVenvDir)
}

// ManifestPath returns the pinned dependency manifest path.
func (c *InstallConfig) ManifestPath() string {
	return filepath.Join(c.InstallPath, DefaultManifestFile)
}

// LocalCachePath returns the low-disk-mode package cache directory.
func (c *InstallConfig) LocalCachePath() string {
	return filepath.Join(c.InstallPath, DefaultLocalCacheDir)
}

// ModelCachePath returns the model cache home.
func (c *InstallConfig) ModelCachePath() string {
	return filepath.Join(c.InstallPath, filepath.FromSlash(DefaultModelCacheDir))
}

// ActivationScript returns the venv activation script for the current platform.
func (c *InstallConfig) ActivationScript() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(c.VenvPath(), "Scripts", "activate.bat")
	}

	return filepath.Join(c.VenvPath(), "bin", "activate")
}

// VenvPython returns the venv interpreter for the current platform.
func (c *InstallConfig) VenvPython() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(c.VenvPath(), "Scripts", "python.exe")
	}

	return filepath.Join(c.VenvPath(), "bin", "python")
}

// --- Step Results ---

// Outcome is the result of a single provisioning step.
type Outcome int

const (
	// OutcomeSucceeded means the step performed its action.
	OutcomeSucceeded Outcome = iota
	// OutcomeFailed means the step failed; Err carries the reason.
	OutcomeFailed
	// OutcomeSkipped means the step's effect was already present.
	OutcomeSkipped
)

// String returns the display name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// StepKind distinguishes aborting steps from best-effort ones.
type StepKind int

const (
	// StepMandatory aborts the run on failure.
	StepMandatory StepKind = iota
	// StepBestEffort logs a warning on failure and continues.
	StepBestEffort
)

// String returns the display name of the step kind.
func (k StepKind) String() string {
	if k == StepMandatory {
		return "mandatory"
	}

	return "best-effort"
}

// StepResult records the outcome of one step. It is never persisted.
type StepResult struct {
	Name    string
	Kind    StepKind
	Outcome Outcome
	Err     error
}

// --- Verification ---

// CapabilityStatus is a single probed import.
type CapabilityStatus struct {
	Name    string `json:"name"    yaml:"name"`
	Present bool   `json:"present" yaml:"present"`
}

// VerificationReport lists every probed capability in a fixed order.
type VerificationReport struct {
	Capabilities []CapabilityStatus `json:"capabilities" yaml:"capabilities"`
}

// Missing returns the names of capabilities that failed to import.
func (r VerificationReport) Missing() []string {
	var missing []string

	for _, capability := range r.Capabilities {
		if !capability.Present {
			missing = append(missing, capability.Name)
		}
	}

	return missing
}

// --- Diagnostics ---

// HostTool is the result of running a host CUDA tool.
type HostTool struct {
	Found bool `json:"found" yaml:"found"`
	// Detail is the matching output line, such as the driver's "CUDA Version" banner.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// InterpreterInfo describes the virtual environment interpreter.
type InterpreterInfo struct {
	Found      bool   `json:"found"                yaml:"found"`
	Version    string `json:"version,omitempty"    yaml:"version,omitempty"`
	Platform   string `json:"platform,omitempty"   yaml:"platform,omitempty"`
	Executable string `json:"executable,omitempty" yaml:"executable,omitempty"`
	Encoding   string `json:"encoding,omitempty"   yaml:"encoding,omitempty"`
	// Supported is false when Version is older than MinimumPythonVersion.
	Supported bool `json:"supported" yaml:"supported"`
}

// GPUDevice is one CUDA device seen by the runtime.
type GPUDevice struct {
	Name      string  `json:"name"      yaml:"name"`
	MemoryGiB float64 `json:"memoryGiB" yaml:"memoryGiB"`
}

// RuntimeInfo describes the numerical runtime inside the environment.
type RuntimeInfo struct {
	Present       bool        `json:"present"               yaml:"present"`
	Version       string      `json:"version,omitempty"     yaml:"version,omitempty"`
	CUDAAvailable bool        `json:"cudaAvailable"         yaml:"cudaAvailable"`
	CUDAVersion   string      `json:"cudaVersion,omitempty" yaml:"cudaVersion,omitempty"`
	Devices       []GPUDevice `json:"devices,omitempty"     yaml:"devices,omitempty"`
	// SmokeDevice is "cuda" or "cpu", the device the tensor smoke operation ran on.
	SmokeDevice string `json:"smokeDevice,omitempty" yaml:"smokeDevice,omitempty"`
	SmokeOK     bool   `json:"smokeOK"               yaml:"smokeOK"`
	Error       string `json:"error,omitempty"       yaml:"error,omitempty"`
}

// DependencyStatus is one imported dependency and its reported version.
type DependencyStatus struct {
	Import  string `json:"import"            yaml:"import"`
	Package string `json:"package"           yaml:"package"`
	Present bool   `json:"present"           yaml:"present"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Error   string `json:"error,omitempty"   yaml:"error,omitempty"`
}

// HelperScript is a generated launcher expected in the install directory.
type HelperScript struct {
	Name    string `json:"name"    yaml:"name"`
	Present bool   `json:"present" yaml:"present"`
}

// DiagnosticReport is the full system report printed by the diagnose command.
type DiagnosticReport struct {
	Interpreter     InterpreterInfo    `json:"interpreter"               yaml:"interpreter"`
	Driver          HostTool           `json:"driver"                    yaml:"driver"`
	Toolkit         HostTool           `json:"toolkit"                   yaml:"toolkit"`
	ToolkitInstalls []string           `json:"toolkitInstalls,omitempty" yaml:"toolkitInstalls,omitempty"`
	Runtime         RuntimeInfo        `json:"runtime"                   yaml:"runtime"`
	Core            []DependencyStatus `json:"core"                      yaml:"core"`
	Optional        []DependencyStatus `json:"optional"                  yaml:"optional"`
	Helpers         []HelperScript     `json:"helpers"                   yaml:"helpers"`
	Recommendations []string           `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
	UsageExamples   []string           `json:"usageExamples,omitempty"   yaml:"usageExamples,omitempty"`
}

// MissingCore returns the packages of core dependencies that failed to import.
func (r DiagnosticReport) MissingCore() []string {
	var missing []string

	for _, dep := range r.Core {
		if !dep.Present {
			missing = append(missing, dep.Package)
		}
	}

	return missing
}
