//go:build windows

package diskspace

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func freeBytes(path string) (uint64, error) {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrProbeFailed, path, err)
	}

	var freeToCaller, total, totalFree uint64

	err = windows.GetDiskFreeSpaceEx(pathPtr, &freeToCaller, &total, &totalFree)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrProbeFailed, path, err)
	}

	return freeToCaller, nil
}
