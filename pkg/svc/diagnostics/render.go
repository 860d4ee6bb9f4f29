package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/io/marshaller"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/notify"
)

// WriteText prints the report grouped into titled sections.
func WriteText(writer io.Writer, report v1alpha1.DiagnosticReport) {
	writeInterpreter(writer, report.Interpreter)
	writeHost(writer, report)
	writeRuntime(writer, report.Runtime)

	notify.Titlef(writer, "📦", "Core dependencies")
	writeDependencies(writer, report.Core, true)

	notify.Titlef(writer, "🧰", "Optional dependencies")
	writeDependencies(writer, report.Optional, false)

	notify.Titlef(writer, "📜", "Helper scripts")

	for _, helper := range report.Helpers {
		if helper.Present {
			notify.Successf(writer, "%s", helper.Name)
		} else {
			notify.Warningf(writer, "%s not found", helper.Name)
		}
	}

	if len(report.Recommendations) > 0 {
		notify.Titlef(writer, "💡", "Recommendations")

		for _, rec := range report.Recommendations {
			notify.Infof(writer, "%s", rec)
		}
	}

	if len(report.UsageExamples) > 0 {
		notify.Titlef(writer, "🚀", "Usage examples")

		for _, example := range report.UsageExamples {
			notify.Infof(writer, "%s", example)
		}
	}
}

func writeInterpreter(writer io.Writer, info v1alpha1.InterpreterInfo) {
	notify.Titlef(writer, "🐍", "Interpreter")

	if !info.Found {
		notify.Errorf(writer, "virtual environment interpreter did not run")

		return
	}

	if info.Supported {
		notify.Successf(writer, "Python %s", info.Version)
	} else {
		notify.Errorf(writer, "Python %s (%s or newer required)", info.Version, v1alpha1.MinimumPythonVersion)
	}

	notify.Infof(writer, "platform %s, stdout encoding %s", info.Platform, info.Encoding)
	notify.Infof(writer, "executable %s", info.Executable)
}

func writeHost(writer io.Writer, report v1alpha1.DiagnosticReport) {
	notify.Titlef(writer, "🖥️", "NVIDIA driver and CUDA toolkit")

	if report.Driver.Found {
		notify.Successf(writer, "%s", report.Driver.Detail)
	} else {
		notify.Warningf(writer, "nvidia-smi not available or driver not installed")
	}

	if report.Toolkit.Found {
		notify.Successf(writer, "nvcc %s", report.Toolkit.Detail)
	} else {
		notify.Warningf(writer, "nvcc not available, CUDA Toolkit not installed or not on PATH")
	}

	if len(report.ToolkitInstalls) > 0 {
		notify.Infof(writer, "CUDA installations found: %s", strings.Join(report.ToolkitInstalls, ", "))
	}
}

func writeRuntime(writer io.Writer, info v1alpha1.RuntimeInfo) {
	notify.Titlef(writer, "🔥", "PyTorch")

	if !info.Present {
		notify.Errorf(writer, "PyTorch not installed")

		return
	}

	notify.Successf(writer, "PyTorch %s", info.Version)

	if !info.CUDAAvailable {
		notify.Infof(writer, "CUDA not available, CPU mode")
	} else {
		notify.Successf(writer, "CUDA %s, %d device(s)", info.CUDAVersion, len(info.Devices))

		for i, device := range info.Devices {
			notify.Infof(writer, "GPU %d: %s (%.1f GiB)", i, device.Name, device.MemoryGiB)
		}
	}

	if info.SmokeOK {
		notify.Successf(writer, "%s tensor test passed", strings.ToUpper(info.SmokeDevice))
	} else {
		notify.Errorf(writer, "%s tensor test failed: %s", strings.ToUpper(info.SmokeDevice), info.Error)
	}
}

func writeDependencies(writer io.Writer, deps []v1alpha1.DependencyStatus, required bool) {
	for _, dep := range deps {
		switch {
		case dep.Present:
			notify.Successf(writer, "%s: %s", dep.Package, versionOrUnknown(dep.Version))
		case required:
			notify.Errorf(writer, "%s: %s", dep.Package, dep.Error)
		default:
			notify.Warningf(writer, "%s: %s", dep.Package, dep.Error)
		}
	}
}

func versionOrUnknown(version string) string {
	if version == "" {
		return "unknown version"
	}

	return version
}

// MarshalYAML renders the report as YAML.
func MarshalYAML(report v1alpha1.DiagnosticReport) ([]byte, error) {
	out, err := marshaller.NewYAMLMarshaller[v1alpha1.DiagnosticReport]().Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshal diagnostic report: %w", err)
	}

	return []byte(out), nil
}
