package configmanager

import (
	"strings"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// binding ties a config key to its flag and environment variable.
type binding struct {
	key   string
	flag  string
	usage string
}

func (b binding) env() string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(b.flag, "-", "_"))
}

func bindings() []binding {
	return []binding{
		{"installPath", "install-path", "directory to install into (defaults to the directory of this executable)"},
		{"pythonVersion", "python-version", "python MAJOR.MINOR version for the virtual environment"},
		{"cuda", "cuda", "CUDA flavor of the runtime (none, cu118, cu124); overrides --use-cuda-12"},
		{"useCUDA12", "use-cuda-12", "use the CUDA 12.4 runtime instead of CUDA 11.8"},
		{"lowDisk", "low-disk", "keep the package cache next to the install instead of the user profile"},
		{"skipModelDownload", "skip-model-download", "accepted for compatibility; models are never downloaded"},
		{"packageInstallPolicy", "package-install-policy", "how a failed Hunyuan3D-2 install is treated (warn, fail)"},
		{"installBuildTools", "install-build-tools", "install the MSVC build tools when no compiler is found"},
		{"repository", "repository", "git URL of the Hunyuan3D-2 repository"},
		{"noPause", "no-pause", "do not wait for a key press before exiting"},
	}
}

// InitializeViper returns a viper instance configured for hunyuan3d-setup.
func InitializeViper() *viper.Viper {
	viperInstance := viper.New()

	viperInstance.SetConfigName(ConfigName)
	viperInstance.SetConfigType("yaml")
	viperInstance.AddConfigPath(".")
	viperInstance.SetEnvPrefix(EnvPrefix)
	viperInstance.AutomaticEnv()

	viperInstance.SetDefault("pythonVersion", v1alpha1.DefaultPythonVersion)
	viperInstance.SetDefault("useCUDA12", v1alpha1.DefaultUseCUDA12)
	viperInstance.SetDefault("packageInstallPolicy", string(v1alpha1.PackageInstallPolicyWarn))
	viperInstance.SetDefault("installBuildTools", v1alpha1.DefaultInstallBuildTools)
	viperInstance.SetDefault("repository", v1alpha1.DefaultRepositoryURL)

	for _, b := range bindings() {
		_ = viperInstance.BindEnv(b.key, b.env())
	}

	return viperInstance
}

// AddFlags registers the install flags on cmd and binds them to the manager's viper instance.
func (m *ConfigManager) AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.String("install-path", "", usageFor("install-path"))
	flags.String("python-version", v1alpha1.DefaultPythonVersion, usageFor("python-version"))
	flags.Var(&m.cudaFlag, "cuda", usageFor("cuda"))
	flags.Bool("use-cuda-12", v1alpha1.DefaultUseCUDA12, usageFor("use-cuda-12"))
	flags.Bool("low-disk", false, usageFor("low-disk"))
	flags.Bool("skip-model-download", false, usageFor("skip-model-download"))
	flags.Var(&m.policyFlag, "package-install-policy", usageFor("package-install-policy"))
	flags.Bool("install-build-tools", v1alpha1.DefaultInstallBuildTools, usageFor("install-build-tools"))
	flags.String("repository", v1alpha1.DefaultRepositoryURL, usageFor("repository"))
	flags.Bool("no-pause", false, usageFor("no-pause"))

	m.bindFlags(flags)
}

func (m *ConfigManager) bindFlags(flags *pflag.FlagSet) {
	for _, b := range bindings() {
		flag := flags.Lookup(b.flag)
		if flag == nil {
			continue
		}

		_ = m.Viper.BindPFlag(b.key, flag)
	}
}

func usageFor(flag string) string {
	for _, b := range bindings() {
		if b.flag == flag {
			return b.usage
		}
	}

	return ""
}
