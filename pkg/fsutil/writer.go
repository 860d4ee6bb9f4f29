package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// TryWriteFile writes content to output, creating parent directories as needed.
//
// When force is false and output already exists, the file is left untouched.
// A zero perm writes the file as user read/write only.
func TryWriteFile(content string, output string, force bool, perm os.FileMode) (string, error) {
	if output == "" {
		return "", ErrEmptyOutputPath
	}

	output = filepath.Clean(output)

	if !force {
		_, err := os.Stat(output)
		if err == nil {
			return content, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to check file %s: %w", output, err)
		}
	}

	dir := filepath.Dir(output)

	err := os.MkdirAll(dir, dirPermUserGroupRX)
	if err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if perm == 0 {
		perm = filePermUserRW
	}

	err = os.WriteFile(output, []byte(content), perm)
	if err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", output, err)
	}

	// WriteFile keeps the mode of an existing file.
	err = os.Chmod(output, perm)
	if err != nil {
		return "", fmt.Errorf("failed to set mode on %s: %w", output, err)
	}

	return content, nil
}
