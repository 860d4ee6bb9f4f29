package provisioner

import (
	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/envvar"
)

// ChildEnvironment returns the overrides a completed run passes to the
// interpreter, so commands run after installation see the same environment.
// lookup reads the caller's environment.
func ChildEnvironment(cfg *v1alpha1.InstallConfig, lookup envvar.LookupFunc) *envvar.Environment {
	env := envvar.NewEnvironment()

	setEncoding(env)
	setInstallEnv(env, cfg, lookup)

	if cfg.LowDiskMode {
		env.Set("UV_CACHE_DIR", cfg.LocalCachePath())
	}

	return env
}

// setEncoding forces UTF-8 console and file IO in child interpreters.
func setEncoding(env *envvar.Environment) {
	env.Set("PYTHONUTF8", "1")
	env.Set("PYTHONIOENCODING", "utf-8")
	env.Set("PYTHONLEGACYWINDOWSSTDIO", "utf-8")
}

func setInstallEnv(env *envvar.Environment, cfg *v1alpha1.InstallConfig, lookup envvar.LookupFunc) {
	env.Set("HF_HOME", cfg.ModelCachePath())
	env.Set("PIP_DISABLE_PIP_VERSION_CHECK", "1")
	env.Set("PIP_NO_CACHE_DIR", "1")
	env.Set("UV_NO_BUILD_ISOLATION", "1")
	env.Set("UV_LINK_MODE", "copy")
	env.Set("GIT_LFS_SKIP_SMUDGE", "1")
	env.Set("UV_EXTRA_INDEX_URL", cfg.Runtime().IndexURL)

	if lookup == nil {
		return
	}

	cudaPath, ok := lookup("CUDA_PATH")
	if ok && cudaPath != "" {
		env.Set("CUDA_HOME", cudaPath)
	}
}
