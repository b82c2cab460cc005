// ABOUTME: One-time migration command for the legacy flat journal layout.
// ABOUTME: Relocates day directories under the storage root into entries/.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2389-research/quill/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate a legacy journal layout",
	Long: `Move day directories sitting directly under the storage root into the
entries/ subtree. Files already migrated are left untouched, so the command
is safe to re-run. Follow up with "quill journal backfill" to generate
embeddings for migrated entries.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	root := globalResolver.StorageRoot()
	moved, err := storage.MigrateLegacyLayout(root)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	fmt.Printf("Moved %d file(s) into %s\n", moved, globalResolver.EntriesPath())
	return nil
}
