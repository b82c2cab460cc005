// ABOUTME: Markdown rendering and parsing for journal entry files.
// ABOUTME: Handles YAML frontmatter and searchable-text extraction for embedding.
package storage

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/2389-research/quill/internal/models"
)

// frontmatter is the YAML metadata block at the top of every entry file.
type frontmatter struct {
	Title     string `yaml:"title"`
	Date      string `yaml:"date"`
	Timestamp int64  `yaml:"timestamp"`
	Project   string `yaml:"project"`
}

const frontmatterDelim = "---"

// isoMillis is the on-disk timestamp format: ISO-8601 UTC with milliseconds.
const isoMillis = "2006-01-02T15:04:05.000Z"

// renderEntry serializes an entry to its markdown file form: frontmatter,
// blank line, then each non-empty section under a "## " heading.
func renderEntry(entry *models.Entry) (string, error) {
	fm := frontmatter{
		Title:     entry.Title,
		Date:      entry.CreatedAt.UTC().Format(isoMillis),
		Timestamp: entry.CreatedAt.UnixMilli(),
		Project:   entry.Project,
	}

	var body strings.Builder
	for _, s := range entry.Sections {
		if strings.TrimSpace(s.Body) == "" {
			continue
		}
		body.WriteString(fmt.Sprintf("\n## %s\n\n%s\n", models.SectionTitle(s.Name), s.Body))
	}

	return renderFrontmatter(fm, body.String())
}

// renderRawEntry serializes a plain-content entry: frontmatter then the raw
// content with no section headings added.
func renderRawEntry(entry *models.Entry, content string) (string, error) {
	fm := frontmatter{
		Title:     entry.Title,
		Date:      entry.CreatedAt.UTC().Format(isoMillis),
		Timestamp: entry.CreatedAt.UnixMilli(),
		Project:   entry.Project,
	}
	return renderFrontmatter(fm, "\n"+content+"\n")
}

func renderFrontmatter(fm frontmatter, body string) (string, error) {
	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to marshal frontmatter: %w", err)
	}
	return frontmatterDelim + "\n" + string(data) + frontmatterDelim + "\n" + body, nil
}

// ParseFrontmatter splits raw entry content into its YAML metadata string and
// the markdown body. Content without a leading delimiter is all body.
func ParseFrontmatter(content string) (yamlStr, body string) {
	if !strings.HasPrefix(content, frontmatterDelim+"\n") {
		return "", content
	}
	rest := content[len(frontmatterDelim)+1:]
	idx := strings.Index(rest, "\n"+frontmatterDelim)
	if idx < 0 {
		return "", content
	}
	yamlStr = rest[:idx+1]
	body = rest[idx+1+len(frontmatterDelim):]
	body = strings.TrimPrefix(body, "\n")
	return yamlStr, body
}

// parseEntryMeta decodes the frontmatter of a stored entry. Returns an error
// when no metadata block is present.
func parseEntryMeta(content string) (frontmatter, error) {
	yamlStr, _ := ParseFrontmatter(content)
	if yamlStr == "" {
		return frontmatter{}, fmt.Errorf("no frontmatter found")
	}
	var fm frontmatter
	if err := yaml.Unmarshal([]byte(yamlStr), &fm); err != nil {
		return frontmatter{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	return fm, nil
}

// ExtractSearchableText strips the frontmatter from raw entry content and
// returns the plain body text to embed, plus the section headings present in
// first-seen order. Metadata fields never appear in the returned text. When
// no frontmatter exists the whole content is body text with no sections.
func ExtractSearchableText(raw string) (string, []string) {
	yamlStr, body := ParseFrontmatter(raw)
	if yamlStr == "" {
		return strings.TrimSpace(raw), nil
	}

	var sections []string
	seen := make(map[string]bool)
	var parts []string

	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "## ") {
			name := strings.TrimSpace(strings.TrimPrefix(line, "## "))
			if name != "" && !seen[name] {
				seen[name] = true
				sections = append(sections, name)
			}
			continue
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	return strings.Join(parts, " "), sections
}

// parseEntryTime recovers an entry's creation instant from its parent day
// directory name and file base name (HH-MM-SS-ssssss). The first three
// sub-second digits are milliseconds; the rest is a random disambiguator.
func parseEntryTime(dayDir, baseName string) (time.Time, bool) {
	if len(baseName) < 8 {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02 15-04-05", dayDir+" "+baseName[:8], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	if len(baseName) >= 12 && baseName[8] == '-' {
		var ms int
		if _, err := fmt.Sscanf(baseName[9:12], "%03d", &ms); err == nil {
			t = t.Add(time.Duration(ms) * time.Millisecond)
		}
	}
	return t, true
}
