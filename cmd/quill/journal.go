// ABOUTME: CLI commands for journal operations.
// ABOUTME: Provides write, search, list, read, and backfill subcommands.
package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389-research/quill/internal/embeddings"
	"github.com/2389-research/quill/internal/models"
	"github.com/2389-research/quill/internal/storage"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Manage journal entries",
	Long:  "Write, search, list, and read private journal entries.",
}

var journalWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write a journal entry",
	Long:  "Create a journal entry from named sections or plain content.",
	RunE:  runJournalWrite,
}

var journalSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search journal entries",
	Long:  "Search journal entries semantically, ranked by relevance.",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalSearch,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent journal entries",
	Long:  "List journal entries sorted by date, most recent first.",
	RunE:  runJournalList,
}

var journalReadCmd = &cobra.Command{
	Use:   "read <path>",
	Short: "Read a journal entry",
	Long:  "Read a specific journal entry by file path.",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalRead,
}

var journalBackfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Generate missing embeddings",
	Long:  "Scan the journal for entries lacking a vector record and generate one for each.",
	RunE:  runJournalBackfill,
}

// Flags
var (
	journalSections  []string
	journalContent   string
	journalLimit     int
	journalDays      int
	journalMinScore  float64
	journalProject   string
	journalAfter     string
	journalBefore    string
	backfillProject  string
	filterSections   []string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalWriteCmd)
	journalCmd.AddCommand(journalSearchCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalReadCmd)
	journalCmd.AddCommand(journalBackfillCmd)

	journalWriteCmd.Flags().StringArrayVar(&journalSections, "section", nil, "Section as name=text (repeatable)")
	journalWriteCmd.Flags().StringVar(&journalContent, "content", "", "Plain entry content (no named sections)")

	journalSearchCmd.Flags().IntVar(&journalLimit, "limit", 10, "Maximum number of results")
	journalSearchCmd.Flags().Float64Var(&journalMinScore, "min-score", 0, "Minimum relevance score (default 0.1)")
	journalSearchCmd.Flags().StringVar(&journalProject, "project", "", "Exact project tag filter")
	journalSearchCmd.Flags().StringSliceVar(&filterSections, "sections", nil, "Section name filter (substring, case-insensitive)")
	journalSearchCmd.Flags().StringVar(&journalAfter, "after", "", "Earliest date, inclusive (YYYY-MM-DD)")
	journalSearchCmd.Flags().StringVar(&journalBefore, "before", "", "Latest date, inclusive (YYYY-MM-DD)")

	journalListCmd.Flags().IntVar(&journalLimit, "limit", 10, "Maximum number of entries to show")
	journalListCmd.Flags().IntVar(&journalDays, "days", 30, "Number of days back to search")
	journalListCmd.Flags().StringVar(&journalProject, "project", "", "Exact project tag filter")

	journalBackfillCmd.Flags().StringVar(&backfillProject, "project", "", "Project tag for entries whose frontmatter lacks one")
}

func runJournalWrite(cmd *cobra.Command, args []string) error {
	if journalContent != "" && len(journalSections) > 0 {
		return fmt.Errorf("--content and --section are mutually exclusive")
	}

	var result *storage.WriteResult
	var err error
	switch {
	case journalContent != "":
		result, err = globalJournalStore.WriteEntry(journalContent)
	case len(journalSections) > 0:
		var sections []models.Section
		for _, raw := range journalSections {
			name, body, ok := strings.Cut(raw, "=")
			if !ok || name == "" {
				return fmt.Errorf("invalid --section %q, want name=text", raw)
			}
			sections = append(sections, models.Section{Name: name, Body: body})
		}
		result, err = globalJournalStore.WriteThoughts(sections)
	default:
		return fmt.Errorf("at least one --section or --content is required")
	}
	if err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}

	fmt.Printf("Journal entry written: %s\n", result.Path)
	if !result.Embedded {
		fmt.Println("Warning: embedding was not generated; entry is not yet searchable")
	}
	return nil
}

func runJournalSearch(cmd *cobra.Command, args []string) error {
	opts := embeddings.SearchOptions{
		Limit:    journalLimit,
		MinScore: journalMinScore,
		Sections: filterSections,
		Project:  journalProject,
	}
	var err error
	if journalAfter != "" {
		if opts.After, err = time.ParseInLocation("2006-01-02", journalAfter, time.Local); err != nil {
			return fmt.Errorf("invalid --after date %q", journalAfter)
		}
	}
	if journalBefore != "" {
		before, err := time.ParseInLocation("2006-01-02", journalBefore, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --before date %q", journalBefore)
		}
		opts.Before = before.AddDate(0, 0, 1).Add(-time.Millisecond)
	}

	results, skipped, err := embeddings.Search(globalEngine, globalJournalStore.EntriesPath(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if warning := embeddings.FormatWarning(skipped); warning != "" {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), warning)
	}

	if len(results) == 0 {
		fmt.Println("No matching entries found.")
		return nil
	}

	for _, r := range results {
		fmt.Printf("--- %.3f %s [%s] %s\n", r.Score, r.Timestamp.Format("2006-01-02 15:04:05"), r.Project, r.Path)
		if len(r.Sections) > 0 {
			fmt.Printf("    Sections: %s\n", strings.Join(r.Sections, ", "))
		}
		if r.Excerpt != "" {
			fmt.Printf("    %s\n", r.Excerpt)
		}
		fmt.Println()
	}
	return nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	cutoff := time.Now().AddDate(0, 0, -journalDays)
	opts := embeddings.SearchOptions{
		Limit:   journalLimit,
		Project: journalProject,
		After:   time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, cutoff.Location()),
	}

	results, skipped, err := embeddings.ListRecent(globalJournalStore.EntriesPath(), opts)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	if warning := embeddings.FormatWarning(skipped); warning != "" {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), warning)
	}

	if len(results) == 0 {
		fmt.Println("No entries found.")
		return nil
	}

	for _, r := range results {
		sections := append([]string(nil), r.Sections...)
		sort.Strings(sections)
		fmt.Printf("%s [%s] (%s) %s\n",
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Project,
			strings.Join(sections, ", "),
			r.Path,
		)
	}
	return nil
}

func runJournalRead(cmd *cobra.Command, args []string) error {
	content, found, err := globalJournalStore.ReadEntryRaw(args[0])
	if err != nil {
		return fmt.Errorf("failed to read entry: %w", err)
	}
	if !found {
		fmt.Printf("No entry found at %s\n", args[0])
		return nil
	}
	fmt.Print(content)
	return nil
}

func runJournalBackfill(cmd *cobra.Command, args []string) error {
	created, err := globalJournalStore.BackfillEmbeddings(backfillProject)
	if err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}
	fmt.Printf("Created %d embedding record(s)\n", created)
	return nil
}
