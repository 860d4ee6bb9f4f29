package provisioner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/fsutil"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/io/generator"
	launchergenerator "github.com/devantler-tech/hunyuan3d-setup/pkg/io/generator/launcher"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/diskspace"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/toolchain"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/verifier"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/notify"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/runner"
)

const dirPerm = 0o750

// Step names, in execution order.
const (
	StepPrepareShell            = "prepare-shell"
	StepDetectGit               = "detect-git"
	StepAcquireSource           = "acquire-source"
	StepConfigureEnv            = "configure-env"
	StepCheckDisk               = "check-disk"
	StepBootstrapUV             = "bootstrap-uv"
	StepDetectUV                = "detect-uv"
	StepCreateVenv              = "create-venv"
	StepInstallRuntime          = "install-runtime"
	StepSyncDependencies        = "sync-dependencies"
	StepInstallAccelerator      = "install-accelerator"
	StepDetectCompiler          = "detect-compiler"
	StepBuildRasterizer         = "build-custom-rasterizer"
	StepBuildRenderer           = "build-differentiable-renderer"
	StepInstallFormatLibs       = "install-format-libs"
	StepInstallPackage          = "install-package"
	StepVerify                  = "verify"
	StepWriteLaunchers          = "write-launchers"
)

type step struct {
	name  string
	title string
	emoji string
	kind  v1alpha1.StepKind
	run   func(ctx context.Context) (v1alpha1.Outcome, error)
}

func (s *Sequencer) steps() []step {
	packageKind := v1alpha1.StepBestEffort
	if s.cfg.PackageInstallPolicy == v1alpha1.PackageInstallPolicyFail {
		packageKind = v1alpha1.StepMandatory
	}

	modules := v1alpha1.NativeModules()

	return []step{
		{StepPrepareShell, "Prepare shell", "🐚", v1alpha1.StepBestEffort, s.prepareShell},
		{StepDetectGit, "Detect git", "🔎", v1alpha1.StepMandatory, s.detectGit},
		{StepAcquireSource, "Acquire source", "📥", v1alpha1.StepMandatory, s.acquireSource},
		{StepConfigureEnv, "Configure environment", "⚙️", v1alpha1.StepMandatory, s.configureEnv},
		{StepCheckDisk, "Check disk space", "💾", v1alpha1.StepBestEffort, s.checkDisk},
		{StepBootstrapUV, "Bootstrap uv", "📦", v1alpha1.StepMandatory, s.bootstrapUV},
		{StepDetectUV, "Detect uv", "🔎", v1alpha1.StepMandatory, s.detectUV},
		{StepCreateVenv, "Create virtual environment", "🐍", v1alpha1.StepMandatory, s.createVenv},
		{StepInstallRuntime, "Install framework runtime", "🔥", v1alpha1.StepMandatory, s.installRuntime},
		{StepSyncDependencies, "Sync pinned dependencies", "📌", v1alpha1.StepMandatory, s.syncDependencies},
		{StepInstallAccelerator, "Install accelerator", "⚡", v1alpha1.StepBestEffort, s.installAccelerator},
		{StepDetectCompiler, "Detect compiler", "🛠️", v1alpha1.StepBestEffort, s.detectCompiler},
		{StepBuildRasterizer, "Build " + modules[0].Name, "🧱", v1alpha1.StepBestEffort, s.buildNative(modules[0])},
		{StepBuildRenderer, "Build " + modules[1].Name, "🧱", v1alpha1.StepBestEffort, s.buildNative(modules[1])},
		{StepInstallFormatLibs, "Install format libraries", "🗂️", v1alpha1.StepBestEffort, s.installFormatLibs},
		{StepInstallPackage, "Install Hunyuan3D-2", "🧩", packageKind, s.installPackage},
		{StepVerify, "Verify installation", "🩺", v1alpha1.StepBestEffort, s.verify},
		{StepWriteLaunchers, "Write launchers", "📝", v1alpha1.StepBestEffort, s.writeLaunchers},
	}
}

func (s *Sequencer) prepareShell(ctx context.Context) (v1alpha1.Outcome, error) {
	setEncoding(s.env)

	err := s.deps.Locator.SetExecutionPolicy(ctx)
	if err != nil {
		return v1alpha1.OutcomeFailed, err
	}

	return v1alpha1.OutcomeSucceeded, nil
}

func (s *Sequencer) detectGit(context.Context) (v1alpha1.Outcome, error) {
	path, err := s.deps.Locator.Git()
	if err != nil {
		return v1alpha1.OutcomeFailed, err
	}

	s.gitPath = path
	notify.Successf(s.out, "git found at %s", path)

	return v1alpha1.OutcomeSucceeded, nil
}

func (s *Sequencer) acquireSource(ctx context.Context) (v1alpha1.Outcome, error) {
	repo := s.cfg.RepositoryPath()

	exists, err := fsutil.DirExists(repo)
	if err != nil {
		return v1alpha1.OutcomeFailed, err
	}

	if exists {
		notify.Skipf(s.out, "repository already present at %s", repo)

		return v1alpha1.OutcomeSkipped, nil
	}

	err = os.MkdirAll(s.cfg.InstallPath, dirPerm)
	if err != nil {
		return v1alpha1.OutcomeFailed, fmt.Errorf("create install path: %w", err)
	}

	notify.Activityf(s.out, "cloning %s", s.cfg.RepositoryURL)

	_, err = s.deps.Runner.Run(ctx, runner.Command{
		Name: s.gitPath,
		Args: []string{"clone", "--recurse-submodules", s.cfg.RepositoryURL, repo},
		Dir:  s.cfg.InstallPath,
		Env:  append(s.env.Pairs(), "GIT_LFS_SKIP_SMUDGE=1"),
	})
	if err != nil {
		return v1alpha1.OutcomeFailed, fmt.Errorf("clone repository: %w", err)
	}

	notify.Successf(s.out, "repository cloned to %s", repo)

	return v1alpha1.OutcomeSucceeded, nil
}

func (s *Sequencer) configureEnv(context.Context) (v1alpha1.Outcome, error) {
	err := os.MkdirAll(s.cfg.ModelCachePath(), dirPerm)
	if err != nil {
		return v1alpha1.OutcomeFailed, fmt.Errorf("create model cache: %w", err)
	}

	setInstallEnv(s.env, s.cfg, s.deps.Lookup)

	if s.cfg.LowDiskMode {
		err = s.useLocalCache()
		if err != nil {
			return v1alpha1.OutcomeFailed, err
		}
	}

	if s.cfg.SkipModelDownload {
		s.deps.Logger.Debug("skip-model-download is set; model weights are never fetched by this tool")
	}

	notify.Successf(s.out, "environment configured for %s", s.cfg.CUDA)

	return v1alpha1.OutcomeSucceeded, nil
}

func (s *Sequencer) checkDisk(context.Context) (v1alpha1.Outcome, error) {
	free, err := s.deps.Disk.FreeBytes(s.deps.Volume)
	if err != nil {
		return v1alpha1.OutcomeFailed, err
	}

	assessment := diskspace.Assess(free, s.sharedCachePresent())

	switch {
	case assessment.EscalateLowDisk && !s.cfg.LowDiskMode:
		escalated, err := s.cfg.WithLowDiskMode()
		if err != nil {
			return v1alpha1.OutcomeFailed, err
		}

		s.cfg = escalated

		err = s.useLocalCache()
		if err != nil {
			return v1alpha1.OutcomeFailed, err
		}

		notify.Warningf(s.out, "only %s free on %s, switching to low-disk mode with cache at %s",
			diskspace.FormatGiB(free), s.deps.Volume, s.cfg.LocalCachePath())
	case assessment.Level != diskspace.LevelOK:
		notify.Warningf(s.out, "only %s free on %s, installation needs about %s",
			diskspace.FormatGiB(free), s.deps.Volume, diskspace.FormatGiB(v1alpha1.DiskWarnThreshold))
	default:
		notify.Successf(s.out, "%s free on %s", diskspace.FormatGiB(free), s.deps.Volume)
	}

	return v1alpha1.OutcomeSucceeded, nil
}

func (s *Sequencer) bootstrapUV(ctx context.Context) (v1alpha1.Outcome, error) {
	path, err := s.deps.Locator.UV()
	if err == nil {
		notify.Skipf(s.out, "uv already installed at %s", path)

		return v1alpha1.OutcomeSkipped, nil
	}

	notify.Activityf(s.out, "installing uv")

	err = s.deps.Locator.BootstrapUV(ctx, s.env.Pairs())
	if err != nil {
		return v1alpha1.OutcomeFailed, err
	}

	return v1alpha1.OutcomeSucceeded, nil
}

func (s *Sequencer) detectUV(context.Context) (v1alpha1.Outcome, error) {
	path, err := s.deps.Locator.UV()
	if err != nil {
		return v1alpha1.OutcomeFailed, err
	}

	s.uvPath = path
	notify.Successf(s.out, "uv found at %s", path)

	return v1alpha1.OutcomeSucceeded, nil
}

func (s *Sequencer) createVenv(ctx context.Context) (v1alpha1.Outcome, error) {
	outcome := v1alpha1.OutcomeSkipped

	if fsutil.FileExists(s.cfg.ActivationScript()) {
		notify.Skipf(s.out, "virtual environment already present at %s", s.cfg.VenvPath())
	} else {
		_, err := s.uv(ctx, "venv", s.cfg.VenvPath(), "--python", s.cfg.PythonVersion, "--seed")
		if err != nil {
			return v1alpha1.OutcomeFailed, fmt.Errorf("create virtual environment: %w", err)
		}

		if !fsutil.FileExists(s.cfg.ActivationScript()) {
			return v1alpha1.OutcomeFailed, fmt.Errorf("%w: %s", ErrVenvNotReady, s.cfg.ActivationScript())
		}

		outcome = v1alpha1.OutcomeSucceeded
	}

	version, err := toolchain.InterpreterVersion(ctx, s.deps.Runner, s.cfg.VenvPython(), s.cfg.PythonVersion)
	if err != nil {
		notify.Warningf(s.out, "%v", err)
	} else {
		notify.Successf(s.out, "python %s ready", version)
	}

	return outcome, nil
}

func (s *Sequencer) installRuntime(ctx context.Context) (v1alpha1.Outcome, error) {
	rt := s.cfg.Runtime()

	notify.Activityf(s.out, "installing torch %s from %s", rt.Torch, rt.IndexURL)

	_, err := s.pip(ctx,
		"torch=="+rt.Torch,
		"torchvision=="+rt.TorchVision,
		"--index-url", rt.IndexURL,
	)
	if err != nil {
		return v1alpha1.OutcomeFailed, fmt.Errorf("install framework runtime: %w", err)
	}

	return v1alpha1.OutcomeSucceeded, nil
}

func (s *Sequencer) syncDependencies(ctx context.Context) (v1alpha1.Outcome, error) {
	_, err := s.deps.Manifest.Generate(s.cfg.Runtime(), generator.FileOptions{
		Output: s.cfg.ManifestPath(),
		Force:  true,
	})
	if err != nil {
		return v1alpha1.OutcomeFailed, err
	}

	notify.Generatef(s.out, "%s", s.cfg.ManifestPath())

	_, err = s.pip(ctx, "-r", s.cfg.ManifestPath())
	if err != nil {
		return v1alpha1.OutcomeFailed, fmt.Errorf("sync pinned dependencies: %w", err)
	}

	return v1alpha1.OutcomeSucceeded, nil
}

func (s *Sequencer) installAccelerator(ctx context.Context) (v1alpha1.Outcome, error) {
	requirement := s.cfg.Runtime().AcceleratorRequirement(s.windows())
	if requirement == "" {
		notify.Skipf(s.out, "no accelerator for %s", s.cfg.CUDA)

		return v1alpha1.OutcomeSkipped, nil
	}

	if _, ok := s.env.Get("CUDA_HOME"); !ok {
		notify.Skipf(s.out, "%v, not installing %s", ErrCUDANotDetected, requirement)

		return v1alpha1.OutcomeSkipped, nil
	}

	_, err := s.pip(ctx, requirement)
	if err != nil {
		return v1alpha1.OutcomeFailed, fmt.Errorf("install %s: %w", requirement, err)
	}

	return v1alpha1.OutcomeSucceeded, nil
}

func (s *Sequencer) detectCompiler(ctx context.Context) (v1alpha1.Outcome, error) {
	path, err := s.deps.Locator.Compiler()
	if err == nil {
		s.compilerAvailable = true
		notify.Skipf(s.out, "compiler found at %s", path)

		return v1alpha1.OutcomeSkipped, nil
	}

	if !s.cfg.InstallBuildTools {
		return v1alpha1.OutcomeFailed, err
	}

	installErr := s.deps.Locator.InstallBuildTools(ctx, s.env.Pairs())
	if installErr != nil {
		return v1alpha1.OutcomeFailed, errors.Join(err, installErr)
	}

	s.compilerAvailable = true

	return v1alpha1.OutcomeSucceeded, nil
}

func (s *Sequencer) buildNative(module v1alpha1.NativeModule) func(context.Context) (v1alpha1.Outcome, error) {
	return func(ctx context.Context) (v1alpha1.Outcome, error) {
		if module.RequiresCUDA && !s.cfg.CUDA.UsesGPU() {
			notify.Skipf(s.out, "%s needs CUDA, skipping for %s", module.Name, s.cfg.CUDA)

			return v1alpha1.OutcomeSkipped, nil
		}

		if !s.compilerAvailable {
			return v1alpha1.OutcomeFailed, fmt.Errorf("%w: cannot build %s", ErrCompilerUnavailable, module.Name)
		}

		source := filepath.Join(s.cfg.RepositoryPath(), filepath.FromSlash(module.Source))

		_, err := s.pip(ctx, "--no-build-isolation", source)
		if err != nil {
			return v1alpha1.OutcomeFailed, fmt.Errorf("build %s: %w", module.Name, err)
		}

		return v1alpha1.OutcomeSucceeded, nil
	}
}

func (s *Sequencer) installFormatLibs(ctx context.Context) (v1alpha1.Outcome, error) {
	var errs []error

	for _, pkg := range v1alpha1.FormatPackages() {
		_, err := s.pip(ctx, pkg)
		if err != nil {
			errs = append(errs, fmt.Errorf("install %s: %w", pkg, err))
		}
	}

	if len(errs) > 0 {
		return v1alpha1.OutcomeFailed, errors.Join(errs...)
	}

	return v1alpha1.OutcomeSucceeded, nil
}

func (s *Sequencer) installPackage(ctx context.Context) (v1alpha1.Outcome, error) {
	_, err := s.pip(ctx, "-e", s.cfg.RepositoryPath())
	if err != nil {
		return v1alpha1.OutcomeFailed, fmt.Errorf("editable install: %w", err)
	}

	return v1alpha1.OutcomeSucceeded, nil
}

func (s *Sequencer) verify(ctx context.Context) (v1alpha1.Outcome, error) {
	report, err := s.deps.Verifier.Verify(ctx, s.cfg.VenvPython(), s.env.Pairs())
	s.report = &report

	verifier.WriteText(s.out, report)

	if err != nil {
		return v1alpha1.OutcomeFailed, err
	}

	return v1alpha1.OutcomeSucceeded, nil
}

func (s *Sequencer) writeLaunchers(context.Context) (v1alpha1.Outcome, error) {
	model := launchergenerator.NewModel(s.cfg, s.windows())

	for _, kind := range launchergenerator.Kinds() {
		output := filepath.Join(s.cfg.InstallPath, launchergenerator.FileName(kind, model.Windows))

		_, err := s.deps.Launchers.Generate(model, launchergenerator.Options{
			FileOptions: generator.FileOptions{Output: output, Force: true},
			Kind:        kind,
		})
		if err != nil {
			return v1alpha1.OutcomeFailed, err
		}

		notify.Generatef(s.out, "%s", output)
	}

	return v1alpha1.OutcomeSucceeded, nil
}

func (s *Sequencer) useLocalCache() error {
	cache := s.cfg.LocalCachePath()

	err := os.MkdirAll(cache, dirPerm)
	if err != nil {
		return fmt.Errorf("create local cache: %w", err)
	}

	s.env.Set("UV_CACHE_DIR", cache)

	return nil
}

func (s *Sequencer) sharedCachePresent() bool {
	cache, ok := s.deps.Lookup("UV_CACHE_DIR")
	if !ok || cache == "" {
		return false
	}

	exists, err := fsutil.DirExists(cache)

	return err == nil && exists
}

func (s *Sequencer) uv(ctx context.Context, args ...string) (runner.CommandResult, error) {
	return s.deps.Runner.Run(ctx, runner.Command{
		Name: s.uvPath,
		Args: args,
		Dir:  s.cfg.InstallPath,
		Env:  s.env.Pairs(),
	})
}

func (s *Sequencer) pip(ctx context.Context, args ...string) (runner.CommandResult, error) {
	return s.uv(ctx, append([]string{"pip", "install", "--python", s.cfg.VenvPython()}, args...)...)
}
