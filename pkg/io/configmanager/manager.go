package configmanager

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/fsutil"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/envvar"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/notify"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/timer"
	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment variable read by hunyuan3d-setup.
	EnvPrefix = "HUNYUAN3D_SETUP"
	// ConfigName is the base name of the optional config file.
	ConfigName = "hunyuan3d-setup"
)

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// Timer enables timing output in notifications when provided.
	Timer timer.Timer
	// Silent suppresses all loading notifications when true.
	Silent bool
	// IgnoreConfigFile skips reading the on-disk config file when true (flags, env and defaults only).
	IgnoreConfigFile bool
}

// ConfigManager loads and caches the InstallConfig.
type ConfigManager struct {
	Viper  *viper.Viper
	Config *v1alpha1.InstallConfig
	Writer io.Writer

	// Lookup resolves ${VAR} references in paths. Defaults to os.LookupEnv.
	Lookup envvar.LookupFunc
	// Executable returns the path of the running binary, used for the default install path.
	Executable func() (string, error)

	cudaFlag        v1alpha1.CUDAFlavor
	policyFlag      v1alpha1.PackageInstallPolicy
	configLoaded    bool
	configFileFound bool
}

// NewConfigManager creates a configuration manager writing notifications to writer.
func NewConfigManager(writer io.Writer) *ConfigManager {
	return &ConfigManager{
		Viper:      InitializeViper(),
		Writer:     writer,
		Lookup:     os.LookupEnv,
		Executable: os.Executable,
	}
}

// NewCommandConfigManager constructs a ConfigManager bound to cmd's flags and output.
func NewCommandConfigManager(cmd *cobra.Command) *ConfigManager {
	manager := NewConfigManager(cmd.OutOrStdout())
	manager.AddFlags(cmd)

	return manager
}

// SetConfigFile reads configuration from path instead of searching for hunyuan3d-setup.yaml.
func (m *ConfigManager) SetConfigFile(path string) {
	m.Viper.SetConfigFile(path)
}

// ConfigFileFound reports whether the last load read a config file.
func (m *ConfigManager) ConfigFileFound() bool {
	return m.configFileFound
}

// Load resolves the configuration. Subsequent calls return the cached value.
// Priority: defaults < config file < environment variables < flags.
func (m *ConfigManager) Load(opts LoadOptions) (*v1alpha1.InstallConfig, error) {
	if m.configLoaded {
		return m.Config, nil
	}

	if !opts.Silent {
		notify.Activityf(m.Writer, "loading configuration")
	}

	if !opts.IgnoreConfigFile {
		err := m.readConfig(opts.Silent)
		if err != nil {
			return nil, err
		}
	}

	cfg := &v1alpha1.InstallConfig{}

	err := m.Viper.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		enumDecodeHook(),
	)))
	if err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	err = m.resolve(cfg)
	if err != nil {
		return nil, err
	}

	err = Validate(cfg)
	if err != nil {
		return nil, err
	}

	if !opts.Silent {
		if opts.Timer != nil {
			notify.SuccessWithTimerf(m.Writer, opts.Timer, "configuration loaded")
		} else {
			notify.Successf(m.Writer, "configuration loaded")
		}
	}

	m.Config = cfg
	m.configLoaded = true

	return cfg, nil
}

func (m *ConfigManager) readConfig(silent bool) error {
	err := m.Viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		m.configFileFound = false

		if !silent {
			notify.Activityf(m.Writer, "no %s.yaml found, using defaults", ConfigName)
		}

		return nil
	}

	m.configFileFound = true

	if !silent {
		notify.Activityf(m.Writer, "using config file %s", m.Viper.ConfigFileUsed())
	}

	return nil
}

func (m *ConfigManager) resolve(cfg *v1alpha1.InstallConfig) error {
	if cfg.CUDA == "" {
		cfg.CUDA = v1alpha1.CUDAFlavorFromUseCUDA12(cfg.UseCUDA12)
	}

	if cfg.PackageInstallPolicy == "" {
		cfg.PackageInstallPolicy = v1alpha1.PackageInstallPolicyWarn
	}

	cfg.RepositoryURL = envvar.ExpandWith(cfg.RepositoryURL, m.Lookup)

	installPath := envvar.ExpandWith(cfg.InstallPath, m.Lookup)
	if installPath == "" {
		executable, err := m.Executable()
		if err != nil {
			return fmt.Errorf("%w: locate executable: %w", v1alpha1.ErrInstallPathRequired, err)
		}

		installPath = filepath.Dir(executable)
	}

	resolved, err := fsutil.ExpandHomePath(installPath)
	if err != nil {
		return fmt.Errorf("resolve install path: %w", err)
	}

	cfg.InstallPath = resolved

	return nil
}

// enumDecodeHook validates enum values while decoding. Empty strings are left for resolve.
func enumDecodeHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}

		raw := reflect.ValueOf(data).String()

		switch to {
		case reflect.TypeFor[v1alpha1.CUDAFlavor]():
			var flavor v1alpha1.CUDAFlavor
			if raw == "" {
				return flavor, nil
			}

			err := flavor.Set(raw)
			if err != nil {
				return nil, fmt.Errorf("decode cuda: %w", err)
			}

			return flavor, nil
		case reflect.TypeFor[v1alpha1.PackageInstallPolicy]():
			var policy v1alpha1.PackageInstallPolicy
			if raw == "" {
				return policy, nil
			}

			err := policy.Set(raw)
			if err != nil {
				return nil, fmt.Errorf("decode packageInstallPolicy: %w", err)
			}

			return policy, nil
		default:
			return data, nil
		}
	}
}
