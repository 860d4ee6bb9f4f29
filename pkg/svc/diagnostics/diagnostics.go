// Package diagnostics collects a read-only system report about the host CUDA
// stack and the installed environment. Nothing it finds changes the exit code.
package diagnostics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/fsutil"
	launchergenerator "github.com/devantler-tech/hunyuan3d-setup/pkg/io/generator/launcher"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/runner"
)

// ErrNoReportOutput is returned when the environment script printed no result line.
var ErrNoReportOutput = errors.New("environment report produced no result")

// commandTimeout bounds each host tool and the environment script.
const commandTimeout = 30 * time.Second

const (
	windowsToolkitRoot = `C:\Program Files\NVIDIA GPU Computing Toolkit\CUDA`
	unixToolkitRoot    = "/usr/local"
)

const environmentScript = `import importlib, json, platform, sys
result = {"interpreter": {"found": True, "version": platform.python_version(), "platform": sys.platform,
    "executable": sys.executable, "encoding": str(sys.stdout.encoding)}, "dependencies": {}}
for name in %s:
    try:
        module = importlib.import_module(name)
        result["dependencies"][name] = {"present": True, "version": str(getattr(module, "__version__", ""))}
    except Exception as exc:
        result["dependencies"][name] = {"present": False, "error": str(exc)}
runtime = {"present": False}
try:
    import torch
    runtime = {"present": True, "version": torch.__version__, "cudaAvailable": torch.cuda.is_available(),
        "cudaVersion": torch.version.cuda or "", "devices": []}
    device = "cpu"
    if runtime["cudaAvailable"]:
        device = "cuda"
        for index in range(torch.cuda.device_count()):
            memory = torch.cuda.get_device_properties(index).total_memory / (1024 ** 3)
            runtime["devices"].append({"name": torch.cuda.get_device_name(index), "memoryGiB": round(memory, 1)})
    runtime["smokeDevice"] = device
    try:
        (torch.randn(2, 3, device=device) * 2).sum().item()
        runtime["smokeOK"] = True
    except Exception as exc:
        runtime["smokeOK"] = False
        runtime["error"] = str(exc)
except Exception as exc:
    runtime["error"] = str(exc)
result["runtime"] = runtime
print(json.dumps(result))
`

// environmentOutput is the JSON document printed by environmentScript.
type environmentOutput struct {
	Interpreter  v1alpha1.InterpreterInfo             `json:"interpreter"`
	Runtime      v1alpha1.RuntimeInfo                 `json:"runtime"`
	Dependencies map[string]v1alpha1.DependencyStatus `json:"dependencies"`
}

// Options locate the installation being diagnosed.
type Options struct {
	Python      string
	InstallPath string
	Env         []string
}

// Diagnoser runs host tools and the environment script through a CommandRunner.
type Diagnoser struct {
	runner      runner.CommandRunner
	goos        string
	toolkitRoot string
}

// NewDiagnoser returns a Diagnoser for the current platform.
func NewDiagnoser(cmdRunner runner.CommandRunner) *Diagnoser {
	return &Diagnoser{
		runner: cmdRunner,
		goos:   runtime.GOOS,
	}
}

// WithOS overrides the target platform.
func (d *Diagnoser) WithOS(goos string) *Diagnoser {
	clone := *d
	clone.goos = goos

	return &clone
}

// WithToolkitRoot overrides the directory scanned for CUDA toolkit installs.
func (d *Diagnoser) WithToolkitRoot(root string) *Diagnoser {
	clone := *d
	clone.toolkitRoot = root

	return &clone
}

// EnvironmentScript returns the Python program passed to the interpreter.
func (d *Diagnoser) EnvironmentScript() string {
	deps := slices.Concat(v1alpha1.CoreDependencies(), v1alpha1.OptionalDependencies())

	quoted := make([]string, 0, len(deps))
	for _, dep := range deps {
		quoted = append(quoted, "'"+dep.Import+"'")
	}

	return fmt.Sprintf(environmentScript, "["+strings.Join(quoted, ", ")+"]")
}

// Diagnose builds the report. The returned error describes a failed environment
// script; the report is complete and usable either way.
func (d *Diagnoser) Diagnose(ctx context.Context, opts Options) (v1alpha1.DiagnosticReport, error) {
	report := v1alpha1.DiagnosticReport{
		Driver:          d.hostTool(ctx, "nvidia-smi", nil, "CUDA Version"),
		Toolkit:         d.hostTool(ctx, "nvcc", []string{"--version"}, "release"),
		ToolkitInstalls: d.toolkitInstalls(),
		Helpers:         d.helpers(opts.InstallPath),
	}

	env, envErr := d.environment(ctx, opts)
	if envErr == nil {
		report.Interpreter = env.Interpreter
		report.Runtime = env.Runtime
	}

	report.Interpreter.Supported = supportedPython(report.Interpreter.Version)
	report.Core = dependencyStatuses(v1alpha1.CoreDependencies(), env.Dependencies)
	report.Optional = dependencyStatuses(v1alpha1.OptionalDependencies(), env.Dependencies)
	report.Recommendations = recommendations(report)

	if report.Interpreter.Supported && len(report.MissingCore()) == 0 {
		report.UsageExamples = usageExamples(d.windows())
	}

	return report, envErr
}

func (d *Diagnoser) windows() bool {
	return d.goos == "windows"
}

// hostTool runs name and keeps the first output line containing marker.
func (d *Diagnoser) hostTool(ctx context.Context, name string, args []string, marker string) v1alpha1.HostTool {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	res, err := d.runner.Run(ctx, runner.Command{Name: name, Args: args, Quiet: true})
	if err != nil {
		return v1alpha1.HostTool{}
	}

	for line := range strings.SplitSeq(res.Stdout, "\n") {
		if strings.Contains(line, marker) {
			detail := strings.Trim(strings.TrimSpace(line), "|")

			return v1alpha1.HostTool{Found: true, Detail: strings.TrimSpace(detail)}
		}
	}

	return v1alpha1.HostTool{}
}

func (d *Diagnoser) toolkitInstalls() []string {
	root, prefix := d.toolkitRoot, "cuda-"
	if d.windows() {
		prefix = "v"
	}

	if root == "" {
		root = unixToolkitRoot
		if d.windows() {
			root = windowsToolkitRoot
		}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	var installs []string

	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			installs = append(installs, entry.Name())
		}
	}

	slices.Sort(installs)

	return installs
}

func (d *Diagnoser) helpers(installPath string) []v1alpha1.HelperScript {
	kinds := launchergenerator.Kinds()
	helpers := make([]v1alpha1.HelperScript, 0, len(kinds))

	for _, kind := range kinds {
		name := launchergenerator.FileName(kind, d.windows())
		helpers = append(helpers, v1alpha1.HelperScript{
			Name:    name,
			Present: installPath != "" && fsutil.FileExists(filepath.Join(installPath, name)),
		})
	}

	return helpers
}

func (d *Diagnoser) environment(ctx context.Context, opts Options) (environmentOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	res, err := d.runner.Run(ctx, runner.Command{
		Name:  opts.Python,
		Args:  []string{"-c", d.EnvironmentScript()},
		Env:   opts.Env,
		Quiet: true,
	})
	if err != nil {
		return environmentOutput{}, fmt.Errorf("run environment report: %w", err)
	}

	return parseEnvironmentOutput(res.Stdout)
}

// parseEnvironmentOutput reads the last JSON object line; imported packages may print to stdout first.
func parseEnvironmentOutput(stdout string) (environmentOutput, error) {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")

	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") {
			continue
		}

		var out environmentOutput

		err := json.Unmarshal([]byte(line), &out)
		if err != nil {
			return environmentOutput{}, fmt.Errorf("decode environment report: %w", err)
		}

		return out, nil
	}

	return environmentOutput{}, ErrNoReportOutput
}

func dependencyStatuses(
	deps []v1alpha1.Dependency,
	seen map[string]v1alpha1.DependencyStatus,
) []v1alpha1.DependencyStatus {
	statuses := make([]v1alpha1.DependencyStatus, 0, len(deps))

	for _, dep := range deps {
		status := seen[dep.Import]
		status.Import = dep.Import
		status.Package = dep.Package
		statuses = append(statuses, status)
	}

	return statuses
}

func supportedPython(version string) bool {
	if version == "" {
		return false
	}

	got, err := semver.NewVersion(version)
	if err != nil {
		return false
	}

	constraint, err := semver.NewConstraint(">= " + v1alpha1.MinimumPythonVersion)
	if err != nil {
		return false
	}

	return constraint.Check(got)
}

func recommendations(report v1alpha1.DiagnosticReport) []string {
	var recs []string

	switch {
	case !report.Interpreter.Found:
		recs = append(recs, "No working interpreter in the virtual environment. Run `hunyuan3d-setup install` first.")
	case !report.Interpreter.Supported:
		recs = append(recs, fmt.Sprintf("Python %s or newer is required, found %s.",
			v1alpha1.MinimumPythonVersion, report.Interpreter.Version))
	}

	if report.Interpreter.Found && !report.Runtime.Present {
		recs = append(recs, "PyTorch is not installed. Re-run `hunyuan3d-setup install`.")
	}

	if report.Driver.Found && !report.Toolkit.Found {
		recs = append(recs, "NVIDIA driver detected but the CUDA Toolkit (nvcc) is missing or not on PATH. "+
			"The custom_rasterizer extension cannot be built without it.")
	}

	if report.Driver.Found && report.Runtime.Present && !report.Runtime.CUDAAvailable {
		recs = append(recs, "CUDA is available on the system but not in PyTorch. "+
			"Re-run `hunyuan3d-setup install --cuda cu124` (or cu118).")
	}

	if missing := report.MissingCore(); report.Interpreter.Found && len(missing) > 0 {
		recs = append(recs, "Missing core dependencies: "+strings.Join(missing, ", ")+
			". Re-run `hunyuan3d-setup install`.")
	}

	for _, helper := range report.Helpers {
		if !helper.Present {
			recs = append(recs, "Launcher scripts are missing. Re-run `hunyuan3d-setup install` to regenerate them.")

			break
		}
	}

	return recs
}

func usageExamples(windows bool) []string {
	shell := launchergenerator.FileName(launchergenerator.KindShell, windows)
	smoke := launchergenerator.FileName(launchergenerator.KindSmokeTest, windows)

	if !windows {
		shell, smoke = "./"+shell, "./"+smoke
	}

	return []string{
		smoke + "    check that the toolkit imports",
		shell + "    open a shell in the environment",
		"python minimal_demo.py    generate a textured mesh from an image (inside the shell)",
		"python gradio_app.py    start the web demo (inside the shell)",
	}
}
