// ABOUTME: Semantic search over journal entries using vector embeddings.
// ABOUTME: Scans .embedding sidecars, filters, scores, ranks, and excerpts.
package embeddings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/2389-research/quill/internal/models"
)

// DefaultLimit caps search results when no limit is supplied.
const DefaultLimit = 10

// DefaultMinScore is the relevance floor applied when none is supplied.
const DefaultMinScore = 0.1

const embeddingExt = ".embedding"

// dayDirPattern matches the calendar day directories scanned for retrieval.
var dayDirPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// SearchResult is one ranked retrieval hit.
type SearchResult struct {
	Path      string
	Score     float64
	Sections  []string
	Timestamp time.Time
	Excerpt   string
	Project   string
}

// SearchOptions configures a search or listing operation. Zero values mean
// defaults: Limit 10, MinScore 0.1. Set MinScore negative to disable the
// relevance floor. After/Before bound the creation instant inclusively when
// non-zero; Project filters by exact tag match; Sections matches
// case-insensitively by substring against any recorded section name.
type SearchOptions struct {
	Limit    int
	MinScore float64
	Sections []string
	After    time.Time
	Before   time.Time
	Project  string
}

// Search embeds the query, scores it against every stored vector record
// under entriesPath, and returns ranked results. skipped counts corrupt or
// unreadable records tolerated during the scan; callers should surface it
// as a warning alongside the results.
func Search(engine *Engine, entriesPath, query string, opts SearchOptions) (results []SearchResult, skipped int, err error) {
	queryVec, err := engine.Embed(query)
	if err != nil {
		return nil, 0, err
	}

	records, skipped := loadEmbeddings(entriesPath)

	minScore := opts.MinScore
	if minScore == 0 {
		minScore = DefaultMinScore
	}

	for _, emb := range records {
		if !matchesFilters(emb, opts) {
			continue
		}
		if len(emb.Vector) != len(queryVec) {
			// A record from a different embedding model. Not comparable.
			skipped++
			continue
		}
		score := CosineSimilarity(queryVec, emb.Vector)
		if score < minScore {
			continue
		}
		results = append(results, SearchResult{
			Path:      emb.Path,
			Score:     score,
			Sections:  emb.Sections,
			Timestamp: time.UnixMilli(emb.Timestamp),
			Excerpt:   excerpt(emb.Text, query),
			Project:   emb.Project,
		})
	}

	// Stable sort keeps ties in load order, which is deterministic.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}

	return results, skipped, nil
}

// ListRecent returns entries ordered by creation instant descending, using
// the same loading and filtering pipeline as Search but no relevance
// scoring: every result carries models.NoScore.
func ListRecent(entriesPath string, opts SearchOptions) (results []SearchResult, skipped int, err error) {
	records, skipped := loadEmbeddings(entriesPath)

	for _, emb := range records {
		if !matchesFilters(emb, opts) {
			continue
		}
		results = append(results, SearchResult{
			Path:      emb.Path,
			Score:     models.NoScore,
			Sections:  emb.Sections,
			Timestamp: time.UnixMilli(emb.Timestamp),
			Excerpt:   excerpt(emb.Text, ""),
			Project:   emb.Project,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}

	return results, skipped, nil
}

// loadEmbeddings reads every vector record under entriesPath, scanning only
// day-pattern directories. Corrupt or unreadable records are skipped and
// counted, never fatal. A missing entries tree is an empty corpus.
func loadEmbeddings(entriesPath string) ([]models.Embedding, int) {
	dayDirs, err := os.ReadDir(entriesPath)
	if err != nil {
		return nil, 0
	}

	var records []models.Embedding
	skipped := 0

	for _, dayDir := range dayDirs {
		if !dayDir.IsDir() || !dayDirPattern.MatchString(dayDir.Name()) {
			continue
		}
		dirPath := filepath.Join(entriesPath, dayDir.Name())
		files, err := os.ReadDir(dirPath)
		if err != nil {
			continue
		}
		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), embeddingExt) {
				continue
			}
			path := filepath.Join(dirPath, file.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				skipped++
				continue
			}
			var emb models.Embedding
			if err := json.Unmarshal(data, &emb); err != nil {
				skipped++
				continue
			}
			if len(emb.Vector) == 0 {
				skipped++
				continue
			}
			records = append(records, emb)
		}
	}

	return records, skipped
}

// matchesFilters applies all supplied filters as a conjunction.
func matchesFilters(emb models.Embedding, opts SearchOptions) bool {
	if opts.Project != "" && emb.Project != opts.Project {
		return false
	}

	ts := time.UnixMilli(emb.Timestamp)
	if !opts.After.IsZero() && ts.Before(opts.After) {
		return false
	}
	if !opts.Before.IsZero() && ts.After(opts.Before) {
		return false
	}

	if len(opts.Sections) > 0 {
		match := false
		for _, want := range opts.Sections {
			wantLower := strings.ToLower(want)
			for _, have := range emb.Sections {
				if strings.Contains(strings.ToLower(have), wantLower) {
					match = true
					break
				}
			}
			if match {
				break
			}
		}
		if !match {
			return false
		}
	}

	return true
}

const (
	excerptWindow = 200
	excerptStep   = 20
)

// excerpt returns the highest-scoring fixed-size window of text, scored by
// the count of distinct query words it contains. Ellipses mark windows that
// do not start or end at a text boundary. An empty query yields a prefix.
func excerpt(text, query string) string {
	runes := []rune(text)
	if len(runes) <= excerptWindow {
		return text
	}

	words := distinctWords(query)
	if len(words) == 0 {
		return string(runes[:excerptWindow]) + "..."
	}

	bestStart, bestScore := 0, -1
	for start := 0; start+excerptWindow <= len(runes); start += excerptStep {
		window := strings.ToLower(string(runes[start : start+excerptWindow]))
		score := 0
		for _, w := range words {
			if strings.Contains(window, w) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestStart = start
		}
	}

	out := string(runes[bestStart : bestStart+excerptWindow])
	if bestStart > 0 {
		out = "..." + out
	}
	if bestStart+excerptWindow < len(runes) {
		out = out + "..."
	}
	return out
}

// distinctWords lowercases and whitespace-tokenizes query, dropping
// duplicates while preserving first-seen order.
func distinctWords(query string) []string {
	seen := make(map[string]bool)
	var words []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	return words
}

// FormatWarning renders the skip count as a user-facing warning line, or ""
// when nothing was skipped.
func FormatWarning(skipped int) string {
	if skipped <= 0 {
		return ""
	}
	return fmt.Sprintf("Warning: %d embedding record(s) could not be read and were skipped", skipped)
}
