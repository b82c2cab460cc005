// ABOUTME: Interface definition for journal entry storage.
// ABOUTME: Defines the contract for writing entries, raw reads, and embedding backfill.
package storage

import (
	"github.com/2389-research/quill/internal/models"
)

// WriteResult reports the outcome of an entry write. Embedded is false when
// the companion vector record could not be produced; the entry itself is
// still durably stored.
type WriteResult struct {
	Path     string
	Embedded bool
}

// JournalStore defines operations for journal entry persistence.
type JournalStore interface {
	// WriteEntry persists a plain-content entry.
	WriteEntry(content string) (*WriteResult, error)

	// WriteThoughts persists an entry composed of named sections.
	WriteThoughts(sections []models.Section) (*WriteResult, error)

	// ReadEntryRaw returns the raw stored content at path. The boolean is
	// false when no entry exists there; that is not an error.
	ReadEntryRaw(path string) (string, bool, error)

	// BackfillEmbeddings creates vector records for entries lacking one and
	// returns the number created. Running it twice in a row creates none on
	// the second run.
	BackfillEmbeddings(defaultProject string) (int, error)

	// EntriesPath returns the root of the entries tree this store writes to.
	EntriesPath() string
}
