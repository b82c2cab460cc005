// ABOUTME: Storage root resolution for quill journal data.
// ABOUTME: Derives ~/.quill/entries with a temp-dir fallback when home is unknown.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Resolver computes on-disk locations for journal data.
type Resolver struct {
	rootOverride string
	warnOnce     sync.Once
}

// NewResolver creates a resolver. rootOverride, if non-empty, replaces the
// default home-derived storage root (used by config overrides and tests).
func NewResolver(rootOverride string) *Resolver {
	return &Resolver{rootOverride: rootOverride}
}

// StorageRoot returns the absolute root for all journal data. When no home
// directory is determinable it falls back to the system temp directory and
// warns, since data written there may not survive a reboot.
func (r *Resolver) StorageRoot() string {
	if r.rootOverride != "" {
		return r.rootOverride
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		r.warnOnce.Do(func() {
			fmt.Fprintf(os.Stderr, "Warning: no home directory found, using temp storage (may not persist): %v\n", err)
		})
		return filepath.Join(os.TempDir(), "quill")
	}
	return filepath.Join(home, ".quill")
}

// EntriesPath returns the root of the entries tree, where day directories live.
func (r *Resolver) EntriesPath() string {
	return filepath.Join(r.StorageRoot(), "entries")
}
