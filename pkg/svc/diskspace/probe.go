// Package diskspace inspects free space on the system volume and decides
// whether the run must fall back to low-disk-mode.
package diskspace

import (
	"errors"
	"os"
	"runtime"
)

// ErrProbeFailed is returned when free space cannot be determined.
var ErrProbeFailed = errors.New("free space probe failed")

// Probe reports free bytes available to the current user on the volume holding path.
type Probe interface {
	FreeBytes(path string) (uint64, error)
}

// SystemProbe queries the operating system.
type SystemProbe struct{}

// NewSystemProbe returns the platform probe.
func NewSystemProbe() SystemProbe {
	return SystemProbe{}
}

// FreeBytes implements Probe.
func (SystemProbe) FreeBytes(path string) (uint64, error) {
	return freeBytes(path)
}

// SystemVolume returns the root of the system volume.
func SystemVolume() string {
	if runtime.GOOS == "windows" {
		drive := os.Getenv("SystemDrive")
		if drive == "" {
			drive = "C:"
		}

		return drive + `\`
	}

	return "/"
}
