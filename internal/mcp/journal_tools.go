// ABOUTME: MCP tool implementations for journal operations.
// ABOUTME: Registers process_thoughts, search_journal, read_journal_entry, list_recent_entries.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/quill/internal/embeddings"
	"github.com/2389-research/quill/internal/models"
)

func (s *Server) registerJournalTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "process_thoughts",
		Description: "Write to your private journal. Supply one or more named sections (e.g. feelings, project_notes, technical_insights) mapped to text; at least one must be non-empty. The entry is tagged with the current project and embedded for semantic search.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"additionalProperties": {"type": "string", "description": "Section body text, keyed by section name."},
			"minProperties": 1
		}`),
	}, s.handleProcessThoughts)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "search_journal",
		Description: "Search your private journal entries semantically. Returns entries ranked by relevance with a short excerpt each.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Search query text"},
				"limit": {"type": "number", "description": "Maximum number of results (default 10)"},
				"min_score": {"type": "number", "description": "Minimum relevance score (default 0.1)"},
				"sections": {"type": "array", "items": {"type": "string"}, "description": "Filter to entries whose section names contain any of these (case-insensitive)"},
				"project": {"type": "string", "description": "Exact project tag filter"},
				"after": {"type": "string", "description": "Earliest date, inclusive (YYYY-MM-DD)"},
				"before": {"type": "string", "description": "Latest date, inclusive (YYYY-MM-DD)"}
			},
			"required": ["query"]
		}`),
	}, s.handleSearchJournal)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "read_journal_entry",
		Description: "Read the full raw content of a specific journal entry by file path.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"path": {"type": "string", "description": "File path to the journal entry"}
			},
			"required": ["path"]
		}`),
	}, s.handleReadJournalEntry)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_recent_entries",
		Description: "Get recent journal entries in reverse chronological order.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"days": {"type": "number", "description": "Number of days back to include (default 30)"},
				"limit": {"type": "number", "description": "Maximum number of entries to return (default 10)"},
				"project": {"type": "string", "description": "Exact project tag filter"}
			}
		}`),
	}, s.handleListRecentEntries)
}

func (s *Server) handleProcessThoughts(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args map[string]interface{}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	// Section order from a JSON object is not preserved; sort names so the
	// serialized entry is deterministic.
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	var sections []models.Section
	for _, name := range names {
		if str, ok := args[name].(string); ok && str != "" {
			sections = append(sections, models.Section{Name: name, Body: str})
		}
	}

	if len(sections) == 0 {
		return toolError("at least one non-empty section is required (e.g. feelings, project_notes, technical_insights)"), nil
	}

	result, err := s.journal.WriteThoughts(sections)
	if err != nil {
		return toolError("failed to write entry: %v", err), nil
	}

	sectionNames := make([]string, len(sections))
	for i, sec := range sections {
		sectionNames[i] = sec.Name
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Journal entry written: %s\n", result.Path)
	fmt.Fprintf(&sb, "Sections: %s\n", strings.Join(sectionNames, ", "))
	if !result.Embedded {
		sb.WriteString("Warning: embedding was not generated; this entry is not yet searchable\n")
	}

	return textResult(sb.String()), nil
}

func (s *Server) handleSearchJournal(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Query    string   `json:"query"`
		Limit    int      `json:"limit"`
		MinScore float64  `json:"min_score"`
		Sections []string `json:"sections"`
		Project  string   `json:"project"`
		After    string   `json:"after"`
		Before   string   `json:"before"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	if args.Query == "" {
		return toolError("query is required"), nil
	}

	opts := embeddings.SearchOptions{
		Limit:    args.Limit,
		MinScore: args.MinScore,
		Sections: args.Sections,
		Project:  args.Project,
	}
	var err error
	if opts.After, opts.Before, err = parseDateRange(args.After, args.Before); err != nil {
		return toolError("%v", err), nil
	}

	results, skipped, err := embeddings.Search(s.engine, s.journal.EntriesPath(), args.Query, opts)
	if err != nil {
		return toolError("search failed: %v", err), nil
	}

	var sb strings.Builder
	if warning := embeddings.FormatWarning(skipped); warning != "" {
		sb.WriteString(warning + "\n\n")
	}

	if len(results) == 0 {
		sb.WriteString("No matching entries found.")
		return textResult(sb.String()), nil
	}

	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n---\n")
		}
		writeResult(&sb, r, true)
	}

	return textResult(sb.String()), nil
}

func (s *Server) handleReadJournalEntry(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	if args.Path == "" {
		return toolError("path is required"), nil
	}

	content, found, err := s.journal.ReadEntryRaw(args.Path)
	if err != nil {
		return toolError("failed to read entry: %v", err), nil
	}
	if !found {
		return textResult(fmt.Sprintf("No entry found at %s", args.Path)), nil
	}

	return textResult(content), nil
}

func (s *Server) handleListRecentEntries(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Days    int    `json:"days"`
		Limit   int    `json:"limit"`
		Project string `json:"project"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	if args.Days <= 0 {
		args.Days = 30
	}

	opts := embeddings.SearchOptions{
		Limit:   args.Limit,
		Project: args.Project,
		After:   daysAgoCutoff(args.Days),
	}

	results, skipped, err := embeddings.ListRecent(s.journal.EntriesPath(), opts)
	if err != nil {
		return toolError("failed to list entries: %v", err), nil
	}

	var sb strings.Builder
	if warning := embeddings.FormatWarning(skipped); warning != "" {
		sb.WriteString(warning + "\n\n")
	}

	if len(results) == 0 {
		sb.WriteString("No recent entries found.")
		return textResult(sb.String()), nil
	}

	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n---\n")
		}
		writeResult(&sb, r, false)
	}

	return textResult(sb.String()), nil
}

// writeResult renders one search result as text. withScore controls whether
// a relevance score line is included.
func writeResult(sb *strings.Builder, r embeddings.SearchResult, withScore bool) {
	fmt.Fprintf(sb, "Entry: %s\n", r.Path)
	fmt.Fprintf(sb, "Date: %s\n", r.Timestamp.Format("2006-01-02 15:04:05"))
	if withScore {
		fmt.Fprintf(sb, "Score: %.3f\n", r.Score)
	}
	if r.Project != "" {
		fmt.Fprintf(sb, "Project: %s\n", r.Project)
	}
	if len(r.Sections) > 0 {
		fmt.Fprintf(sb, "Sections: %s\n", strings.Join(r.Sections, ", "))
	}
	if r.Excerpt != "" {
		fmt.Fprintf(sb, "\n%s\n", r.Excerpt)
	}
}

// daysAgoCutoff returns the start of the day days ago, so the window covers
// whole calendar days rather than clipping entries written earlier in the
// cutoff day.
func daysAgoCutoff(days int) time.Time {
	t := time.Now().AddDate(0, 0, -days)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseDateRange parses inclusive YYYY-MM-DD bounds; the before bound is
// extended to the end of its day.
func parseDateRange(after, before string) (time.Time, time.Time, error) {
	var afterT, beforeT time.Time
	var err error
	if after != "" {
		afterT, err = time.ParseInLocation("2006-01-02", after, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid after date %q (want YYYY-MM-DD)", after)
		}
	}
	if before != "" {
		beforeT, err = time.ParseInLocation("2006-01-02", before, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid before date %q (want YYYY-MM-DD)", before)
		}
		beforeT = beforeT.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return afterT, beforeT, nil
}

// textResult creates a successful text result for MCP tool responses.
func textResult(text string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: text}},
	}
}

// toolError creates an error result for MCP tool responses.
func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
