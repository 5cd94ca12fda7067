// Package filex contains small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureParentDir creates the directory that will contain path, if it does
// not exist yet, and returns the cleaned path.
func EnsureParentDir(path string) (string, error) {
	cleaned := filepath.Clean(path)

	dir := filepath.Dir(cleaned)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return cleaned, nil
}
