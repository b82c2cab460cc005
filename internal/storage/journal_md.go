// ABOUTME: Markdown-based journal storage in date-keyed directories.
// ABOUTME: Writes entry files with YAML frontmatter plus best-effort embedding sidecars.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2389-research/quill/internal/embeddings"
	"github.com/2389-research/quill/internal/models"
	"github.com/2389-research/quill/internal/paths"
)

// EntryExt is the file extension for entry markdown files.
const EntryExt = ".md"

// EmbeddingExt is the file extension for vector record sidecar files.
const EmbeddingExt = ".embedding"

// dayDirPattern matches the calendar day directories scanned for retrieval.
// Directories with any other name are ignored.
var dayDirPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsDayDir reports whether name is a calendar day directory name.
func IsDayDir(name string) bool {
	return dayDirPattern.MatchString(name)
}

// JournalMDStore stores journal entries as markdown files under
// <root>/entries/<YYYY-MM-DD>/, with .embedding sidecars for retrieval.
type JournalMDStore struct {
	resolver *paths.Resolver
	detector paths.ProjectDetector
	engine   *embeddings.Engine
}

// NewJournalMDStore creates a journal store. The engine may be nil, in which
// case entries are written without vector records (backfillable later).
func NewJournalMDStore(resolver *paths.Resolver, detector paths.ProjectDetector, engine *embeddings.Engine) *JournalMDStore {
	return &JournalMDStore{
		resolver: resolver,
		detector: detector,
		engine:   engine,
	}
}

// EntriesPath returns the root of the entries tree this store writes to.
func (s *JournalMDStore) EntriesPath() string {
	return s.resolver.EntriesPath()
}

// WriteEntry persists a plain-content entry with no named sections.
func (s *JournalMDStore) WriteEntry(content string) (*WriteResult, error) {
	now := time.Now()
	entry := models.NewEntry(nil, now, s.detectProject())

	rendered, err := renderRawEntry(entry, content)
	if err != nil {
		return nil, err
	}
	return s.persist(entry, rendered)
}

// WriteThoughts persists an entry composed of named sections. Sections with
// empty or whitespace-only bodies are omitted from the serialized form.
func (s *JournalMDStore) WriteThoughts(sections []models.Section) (*WriteResult, error) {
	now := time.Now()
	entry := models.NewEntry(sections, now, s.detectProject())

	rendered, err := renderEntry(entry)
	if err != nil {
		return nil, err
	}
	return s.persist(entry, rendered)
}

// persist writes the entry file, then attempts the companion vector record.
// Sidecar failure never rolls back or fails the entry write.
func (s *JournalMDStore) persist(entry *models.Entry, rendered string) (*WriteResult, error) {
	dir := filepath.Join(s.EntriesPath(), entry.CreatedAt.Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create day directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, entryBaseName(entry.CreatedAt)+EntryExt)
	if err := AtomicWrite(path, []byte(rendered)); err != nil {
		return nil, fmt.Errorf("failed to write entry %s: %w", path, err)
	}
	entry.FilePath = path

	embedded := s.writeEmbedding(path, rendered, entry.CreatedAt, entry.Project)
	return &WriteResult{Path: path, Embedded: embedded}, nil
}

// writeEmbedding extracts the searchable text from a rendered entry and
// persists its vector record. Returns false (after a warning) on any
// failure; an entry with empty text gets no record and no warning.
func (s *JournalMDStore) writeEmbedding(mdPath, rendered string, createdAt time.Time, project string) bool {
	text, sections := ExtractSearchableText(rendered)
	if strings.TrimSpace(text) == "" {
		return false
	}
	if s.engine == nil {
		fmt.Fprintf(os.Stderr, "Warning: no embedding engine configured, %s will not be searchable until backfilled\n", mdPath)
		return false
	}

	vector, err := s.engine.Embed(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to generate embedding for %s: %v\n", mdPath, err)
		return false
	}

	emb := models.Embedding{
		Vector:    vector,
		Text:      text,
		Sections:  sections,
		Timestamp: createdAt.UnixMilli(),
		Path:      mdPath,
		Project:   project,
	}
	data, err := json.Marshal(emb)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to marshal embedding for %s: %v\n", mdPath, err)
		return false
	}

	embPath := strings.TrimSuffix(mdPath, EntryExt) + EmbeddingExt
	if err := AtomicWrite(embPath, data); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to write embedding for %s: %v\n", mdPath, err)
		return false
	}
	return true
}

// ReadEntryRaw returns the raw stored content at path, or found=false when
// no entry exists there. The path must be inside the entries tree.
func (s *JournalMDStore) ReadEntryRaw(path string) (string, bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false, fmt.Errorf("invalid path: %w", err)
	}
	absRoot, err := filepath.Abs(s.EntriesPath())
	if err != nil {
		return "", false, fmt.Errorf("invalid entries path: %w", err)
	}
	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", false, fmt.Errorf("path %q is outside the journal", path)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read entry %s: %w", absPath, err)
	}
	return string(data), true, nil
}

// BackfillEmbeddings scans the entries tree for entry files lacking a vector
// record and regenerates each missing sidecar. Creation instants are
// recovered from file and directory names, project tags from frontmatter
// (falling back to defaultProject, then to current-context detection).
// Returns the number of records created.
func (s *JournalMDStore) BackfillEmbeddings(defaultProject string) (int, error) {
	if s.engine == nil {
		return 0, fmt.Errorf("no embedding engine configured")
	}

	entriesPath := s.EntriesPath()
	dayDirs, err := os.ReadDir(entriesPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read entries path %s: %w", entriesPath, err)
	}

	created := 0
	for _, dayDir := range dayDirs {
		if !dayDir.IsDir() || !IsDayDir(dayDir.Name()) {
			continue
		}
		dirPath := filepath.Join(entriesPath, dayDir.Name())
		files, err := os.ReadDir(dirPath)
		if err != nil {
			continue
		}

		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), EntryExt) {
				continue
			}
			mdPath := filepath.Join(dirPath, file.Name())
			embPath := strings.TrimSuffix(mdPath, EntryExt) + EmbeddingExt
			if _, err := os.Stat(embPath); err == nil {
				continue
			}

			data, err := os.ReadFile(mdPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: skipping unreadable entry %s: %v\n", mdPath, err)
				continue
			}
			rendered := string(data)

			text, sections := ExtractSearchableText(rendered)
			if strings.TrimSpace(text) == "" {
				continue
			}

			createdAt, ok := parseEntryTime(dayDir.Name(), strings.TrimSuffix(file.Name(), EntryExt))
			if !ok {
				createdAt = time.Now()
			}

			project := defaultProject
			if fm, err := parseEntryMeta(rendered); err == nil && fm.Project != "" {
				project = fm.Project
			}
			if project == "" {
				project = s.detectProject()
			}

			vector, err := s.engine.Embed(text)
			if err != nil {
				return created, fmt.Errorf("failed to embed %s: %w", mdPath, err)
			}

			emb := models.Embedding{
				Vector:    vector,
				Text:      text,
				Sections:  sections,
				Timestamp: createdAt.UnixMilli(),
				Path:      mdPath,
				Project:   project,
			}
			payload, err := json.Marshal(emb)
			if err != nil {
				return created, fmt.Errorf("failed to marshal embedding for %s: %w", mdPath, err)
			}
			if err := AtomicWrite(embPath, payload); err != nil {
				return created, fmt.Errorf("failed to write embedding for %s: %w", mdPath, err)
			}
			created++
		}
	}

	return created, nil
}

// detectProject resolves the project tag for the current working context.
func (s *JournalMDStore) detectProject() string {
	if s.detector == nil {
		return models.DefaultProject
	}
	cwd, err := os.Getwd()
	if err != nil {
		return models.DefaultProject
	}
	return s.detector.DetectProject(cwd)
}

// entryBaseName builds the collision-resistant file base name for an entry
// written at t: HH-MM-SS plus fractional milliseconds and a random component
// so entries within the same second never collide.
func entryBaseName(t time.Time) string {
	u := uuid.New()
	random := binary.BigEndian.Uint32(u[0:4]) % 1000
	return fmt.Sprintf("%s-%03d%03d", t.Format("15-04-05"), t.Nanosecond()/int(time.Millisecond), random)
}
