package tools

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrFileExists is returned by SaveToFile when the target exists and
// overwrite was not requested. Callers confirm with the human and retry.
var ErrFileExists = errors.New("file already exists")

// FileExists reports whether the path names an existing file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// SaveToFile writes content to filename, creating parent directories as
// needed. An existing file is only replaced when overwrite is true; the
// caller must have obtained that consent from the human.
func SaveToFile(content, filename string, overwrite bool) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	if !overwrite && FileExists(filename) {
		return fmt.Errorf("%w: %s", ErrFileExists, filename)
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write error: failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}
