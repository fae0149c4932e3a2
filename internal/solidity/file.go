package solidity

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileName returns the fixture file name for a vault.
func FileName(vault string) string {
	return fmt.Sprintf("Users_%s.sol", vault)
}

// WriteFile writes the rendered fixture into dir, replacing any previous file.
func WriteFile(dir, vault string, content []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}

	path := filepath.Join(dir, FileName(vault))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write fixture: %w", err)
	}
	return path, nil
}
