// ABOUTME: Atomic file write helper for journal entries and embedding sidecars.
// ABOUTME: Writes to a temp file in the target directory, then renames into place.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicWrite writes data to path through a temporary file and rename, so a
// reader never observes a partially-written file.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to rename into %s: %w", path, err)
	}
	return nil
}
