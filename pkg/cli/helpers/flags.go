package helpers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// Global flag names registered on the root command.
const (
	TimingFlagName   = "timing"
	LogLevelFlagName = "log-level"
	ConfigFlagName   = "config"

	// DefaultLogLevel is the diagnostic log level when --log-level is not given.
	DefaultLogLevel = "warn"
)

// ErrNilCommand is returned when a helper receives a nil command.
var ErrNilCommand = errors.New("command is nil")

// IsTimingEnabled reports whether --timing is set on cmd or inherited from a parent.
func IsTimingEnabled(cmd *cobra.Command) (bool, error) {
	if cmd == nil {
		return false, ErrNilCommand
	}

	flag := cmd.Flags().Lookup(TimingFlagName)
	if flag == nil {
		flag = cmd.InheritedFlags().Lookup(TimingFlagName)
	}

	if flag == nil {
		flag = cmd.PersistentFlags().Lookup(TimingFlagName)
	}

	if flag == nil {
		return false, nil
	}

	enabled, err := strconv.ParseBool(flag.Value.String())
	if err != nil {
		return false, fmt.Errorf("parse --%s: %w", TimingFlagName, err)
	}

	return enabled, nil
}

// MaybeTimer returns tmr when timing output is enabled for cmd, otherwise nil.
func MaybeTimer(cmd *cobra.Command, tmr timer.Timer) timer.Timer {
	if tmr == nil {
		return nil
	}

	enabled, err := IsTimingEnabled(cmd)
	if err != nil || !enabled {
		return nil
	}

	return tmr
}

// StringFlag returns the value of a local or inherited string flag, or fallback when it is not registered.
func StringFlag(cmd *cobra.Command, name, fallback string) string {
	if cmd == nil {
		return fallback
	}

	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.InheritedFlags().Lookup(name)
	}

	if flag == nil {
		return fallback
	}

	return flag.Value.String()
}

// LogLevel returns the --log-level value for cmd.
func LogLevel(cmd *cobra.Command) string {
	return StringFlag(cmd, LogLevelFlagName, DefaultLogLevel)
}

// ConfigFile returns the --config value for cmd, empty when unset.
func ConfigFile(cmd *cobra.Command) string {
	return StringFlag(cmd, ConfigFlagName, "")
}
