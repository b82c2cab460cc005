// ABOUTME: One-time migration of legacy day directories into the entries tree.
// ABOUTME: Relocates <root>/YYYY-MM-DD/* to <root>/entries/YYYY-MM-DD/*.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// MigrateLegacyLayout moves journal files from day directories sitting
// directly under root into the entries/ subtree. Files already present at
// the destination are left alone. Returns the number of files moved.
func MigrateLegacyLayout(root string) (int, error) {
	dirs, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read %s: %w", root, err)
	}

	moved := 0
	for _, dir := range dirs {
		if !dir.IsDir() || !IsDayDir(dir.Name()) {
			continue
		}

		srcDir := filepath.Join(root, dir.Name())
		dstDir := filepath.Join(root, "entries", dir.Name())
		if err := os.MkdirAll(dstDir, 0o755); err != nil {
			return moved, fmt.Errorf("failed to create %s: %w", dstDir, err)
		}

		files, err := os.ReadDir(srcDir)
		if err != nil {
			return moved, fmt.Errorf("failed to read %s: %w", srcDir, err)
		}
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			src := filepath.Join(srcDir, file.Name())
			dst := filepath.Join(dstDir, file.Name())
			if _, err := os.Stat(dst); err == nil {
				continue
			}
			if err := os.Rename(src, dst); err != nil {
				return moved, fmt.Errorf("failed to move %s: %w", src, err)
			}
			moved++
		}

		// Drop the legacy directory if the move emptied it.
		if remaining, err := os.ReadDir(srcDir); err == nil && len(remaining) == 0 {
			_ = os.Remove(srcDir)
		}
	}

	return moved, nil
}
