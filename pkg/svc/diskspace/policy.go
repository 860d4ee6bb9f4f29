package diskspace

import (
	"fmt"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
)

// Level classifies the free space on the system volume.
type Level int

const (
	// LevelOK means no action is required.
	LevelOK Level = iota
	// LevelWarn means free space is below the warning threshold.
	LevelWarn
	// LevelLow means free space is below the low-disk-mode threshold.
	LevelLow
)

// Assessment is the outcome of a disk check.
type Assessment struct {
	FreeBytes uint64
	Level     Level
	// EscalateLowDisk is set when the run must switch to the local cache.
	EscalateLowDisk bool
	// SharedCache is set when a pre-provisioned cache made the check advisory only.
	SharedCache bool
}

// Classify maps free bytes to a Level.
func Classify(free uint64) Level {
	switch {
	case free < v1alpha1.DiskLowModeThreshold:
		return LevelLow
	case free < v1alpha1.DiskWarnThreshold:
		return LevelWarn
	default:
		return LevelOK
	}
}

// Assess classifies free space and decides on escalation.
// A pre-provisioned shared cache turns the check into a warning only.
func Assess(free uint64, sharedCachePresent bool) Assessment {
	level := Classify(free)

	return Assessment{
		FreeBytes:       free,
		Level:           level,
		EscalateLowDisk: level == LevelLow && !sharedCachePresent,
		SharedCache:     sharedCachePresent,
	}
}

// FormatGiB renders a byte count as GiB with one decimal.
func FormatGiB(bytes uint64) string {
	return fmt.Sprintf("%.1f GiB", float64(bytes)/float64(v1alpha1.GiB))
}
