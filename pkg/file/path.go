package file

import (
	"fmt"
	"os"
)

// Exists reports whether the given path exists on disk.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDirs creates the given directories if they do not exist yet.
func EnsureDirs(paths ...string) error {
	for _, path := range paths {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", path, err)
		}
	}
	return nil
}
