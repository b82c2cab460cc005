// ABOUTME: Core data models for journal entries and their embedding sidecars.
// ABOUTME: Provides constructor functions and heading/key conversion helpers.
package models

import (
	"strings"
	"time"
)

// NoScore is the sentinel relevance score attached to results produced
// without similarity scoring (e.g. chronological listings).
const NoScore = -1.0

// DefaultProject is the project tag used when no repository context is
// detected. The storage layer never writes an empty project.
const DefaultProject = "general"

// Entry represents a private journal entry with ordered named sections.
type Entry struct {
	Title     string
	Sections  []Section
	CreatedAt time.Time
	Project   string
	FilePath  string
}

// Section is one named block of free text inside an entry.
type Section struct {
	Name string
	Body string
}

// NewEntry creates a journal entry for the given instant and project,
// dropping sections whose bodies are empty or whitespace-only.
func NewEntry(sections []Section, createdAt time.Time, project string) *Entry {
	if project == "" {
		project = DefaultProject
	}
	kept := make([]Section, 0, len(sections))
	for _, s := range sections {
		if strings.TrimSpace(s.Body) == "" {
			continue
		}
		kept = append(kept, s)
	}
	return &Entry{
		Title:     FormatTitle(createdAt),
		Sections:  kept,
		CreatedAt: createdAt,
		Project:   project,
	}
}

// FormatTitle renders the human-readable display title for an entry,
// e.g. "5:30:00 PM - July 1, 2025".
func FormatTitle(t time.Time) string {
	return t.Format("3:04:05 PM - January 2, 2006")
}

// Embedding is the vector record persisted alongside an entry. Timestamp is
// epoch milliseconds; Path points back at the entry file.
type Embedding struct {
	Vector    []float32 `json:"embedding"`
	Text      string    `json:"text"`
	Sections  []string  `json:"sections"`
	Timestamp int64     `json:"timestamp"`
	Path      string    `json:"path"`
	Project   string    `json:"project,omitempty"`
}

// SectionTitle converts a snake_case section name to a Title Case heading.
func SectionTitle(name string) string {
	parts := strings.Split(name, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// SectionKey converts a Title Case heading to a snake_case key.
func SectionKey(heading string) string {
	parts := strings.Fields(strings.ToLower(heading))
	return strings.Join(parts, "_")
}
