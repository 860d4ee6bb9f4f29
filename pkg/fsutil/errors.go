package fsutil

import "errors"

// ErrEmptyOutputPath is returned when a write target is empty.
var ErrEmptyOutputPath = errors.New("output path cannot be empty")

// ErrNotDirectory is returned when a path exists but is not a directory.
var ErrNotDirectory = errors.New("path exists but is not a directory")

const (
	dirPermUserGroupRX = 0o750
	filePermUserRW     = 0o600
	// FilePermExecutable is used for generated launcher scripts.
	FilePermExecutable = 0o750
	// FilePermRegular is used for generated data files such as manifests.
	FilePermRegular = 0o644
)
