//go:build !windows

package diskspace

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func freeBytes(path string) (uint64, error) {
	var stat unix.Statfs_t

	err := unix.Statfs(path, &stat)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrProbeFailed, path, err)
	}

	//nolint:gosec,unconvert // Bsize is signed on some platforms but never negative.
	return uint64(stat.Bavail) * uint64(stat.Bsize), nil
}
