package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/coolbeans/casemind/pkg/batch"
	"github.com/coolbeans/casemind/pkg/extract"
	"github.com/coolbeans/casemind/pkg/profile"
	"github.com/coolbeans/casemind/pkg/store"
	"github.com/coolbeans/casemind/pkg/summarize"
	"github.com/coolbeans/casemind/pkg/types"
	"github.com/coolbeans/casemind/pkg/watch"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "casemind",
		Short: "Legal case document analyzer",
		Long: `Casemind extracts structured metadata from legal case documents.

It reads court filings, orders, and case notes and produces:
  - Every calendar date, classified as past or upcoming
  - Statutory and code citations (Section 420 IPC, Penal Code 187)
  - A chronological case timeline with surrounding context
  - A case status heuristic (Ongoing / Closed)
  - Optional AI narrative summaries and preparation tips`,
		Version: version,
	}

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(profileCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadAggregator builds the extraction pipeline from a profile file, or the
// defaults when no profile is given.
func loadAggregator(profilePath string) (*extract.Aggregator, error) {
	if profilePath == "" {
		return extract.DefaultAggregator(), nil
	}
	extractionProfile, err := profile.LoadFromFile(profilePath)
	if err != nil {
		return nil, err
	}
	return extractionProfile.Aggregator(), nil
}

// parseAsOf resolves the --as-of flag. Empty means today.
func parseAsOf(asOf string) (types.Date, error) {
	if asOf == "" {
		return types.Today(), nil
	}
	parsed, err := time.Parse("2006-01-02", asOf)
	if err != nil {
		return types.Date{}, fmt.Errorf("invalid --as-of date %q (want YYYY-MM-DD): %w", asOf, err)
	}
	return types.FromTime(parsed), nil
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a single case document",
		Long: `Analyze one case document and print the extracted metadata.

Example:
  casemind analyze --source complaint.txt
  casemind analyze --source order.txt --as-of 2025-06-01 --format json
  casemind analyze --source complaint.txt --summarize --db history.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")
			asOf, _ := cmd.Flags().GetString("as-of")
			format, _ := cmd.Flags().GetString("format")
			profilePath, _ := cmd.Flags().GetString("profile")
			dbPath, _ := cmd.Flags().GetString("db")
			withSummary, _ := cmd.Flags().GetBool("summarize")

			if source == "" {
				return fmt.Errorf("--source flag is required")
			}
			reference, err := parseAsOf(asOf)
			if err != nil {
				return err
			}
			aggregator, err := loadAggregator(profilePath)
			if err != nil {
				return err
			}

			content, err := os.ReadFile(source)
			if err != nil {
				return fmt.Errorf("failed to read source %s: %w", source, err)
			}
			text := string(content)

			// Status rules read the narrative, so it is generated before
			// the report is assembled.
			var client *summarize.Client
			var narrative string
			if withSummary {
				client, err = summarizeClient()
				if err != nil {
					return err
				}
				narrative, err = client.Summarize(cmd.Context(), text)
				if err != nil {
					return fmt.Errorf("summarization failed: %w", err)
				}
			}

			report := aggregator.Report(text, narrative, reference)

			if withSummary && report.CaseStatus == types.StatusOngoing {
				recommendations, err := client.GenerateTips(cmd.Context(), narrative, report.Metadata)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Warning: tip generation failed: %v\n", err)
				} else {
					report.Recommendations = recommendations
				}
			}

			if dbPath != "" {
				history, err := store.New(dbPath)
				if err != nil {
					return fmt.Errorf("failed to open history database: %w", err)
				}
				defer history.Close()
				if _, err := history.SaveReport(source, report, reference); err != nil {
					return fmt.Errorf("failed to save analysis: %w", err)
				}
			}

			return printReport(report, reference, format)
		},
	}

	cmd.Flags().String("source", "", "Path to the case document (required)")
	cmd.Flags().String("as-of", "", "Reference date YYYY-MM-DD (default: today)")
	cmd.Flags().String("format", "text", "Output format: text or json")
	cmd.Flags().String("profile", "", "Path to an extraction profile YAML file")
	cmd.Flags().String("db", "", "Path to a history database to record the analysis")
	cmd.Flags().Bool("summarize", false, "Generate an AI narrative summary and tips (needs GEMINI_API_KEY)")
	return cmd
}

func summarizeClient() (*summarize.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("--summarize requires the GEMINI_API_KEY environment variable")
	}
	return summarize.NewClient(summarize.DefaultConfig(apiKey))
}

// printReport renders a document report as JSON or human-readable text.
func printReport(report *types.DocumentReport, reference types.Date, format string) error {
	switch format {
	case "json":
		encoded, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		fmt.Println(string(encoded))
		return nil

	case "text":
		printTextReport(report, reference)
		return nil

	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
}

func printTextReport(report *types.DocumentReport, reference types.Date) {
	meta := report.Metadata

	fmt.Printf("Case status: %s (as of %s)\n\n", report.CaseStatus, reference.Display())

	fmt.Printf("Dates (%d unique):\n", meta.Dates.TotalUnique)
	if meta.Dates.Past.Count > 0 {
		fmt.Printf("  Past (%d):     %s\n", meta.Dates.Past.Count, strings.Join(meta.Dates.Past.List, ", "))
	}
	if meta.Dates.Upcoming.Count > 0 {
		fmt.Printf("  Upcoming (%d): %s\n", meta.Dates.Upcoming.Count, strings.Join(meta.Dates.Upcoming.List, ", "))
	}
	if meta.Dates.TotalUnique == 0 {
		fmt.Println("  (none found)")
	}

	fmt.Printf("\nSections invoked (%d):\n", meta.Citations.Count)
	for _, label := range meta.Citations.List {
		fmt.Printf("  - %s\n", label)
	}
	if meta.Citations.Count == 0 {
		fmt.Println("  (none found)")
	}

	fmt.Printf("\nTimeline (%d events):\n", len(meta.Timeline))
	for _, event := range meta.Timeline {
		fmt.Printf("  [%s] %s\n", event.Status, event.DisplayDate)
		if event.Context != "" {
			fmt.Printf("      %s\n", event.Context)
		}
	}
	if len(meta.Timeline) == 0 {
		fmt.Println("  (no events)")
	}

	if report.Narrative != "" {
		fmt.Printf("\n%s\n", report.Narrative)
	}
	if len(report.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, tip := range report.Recommendations {
			fmt.Printf("  - %s\n", tip)
		}
	}
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Analyze every document in a directory",
		Long: `Analyze every supported document in a directory concurrently.

All documents in one run share a single reference date, so a batch that
spans midnight still classifies every date consistently.

Example:
  casemind batch --dir ./cases
  casemind batch --dir ./cases --concurrency 8 --db history.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			concurrency, _ := cmd.Flags().GetInt("concurrency")
			asOf, _ := cmd.Flags().GetString("as-of")
			profilePath, _ := cmd.Flags().GetString("profile")
			dbPath, _ := cmd.Flags().GetString("db")
			format, _ := cmd.Flags().GetString("format")

			if dir == "" {
				return fmt.Errorf("--dir flag is required")
			}
			reference, err := parseAsOf(asOf)
			if err != nil {
				return err
			}
			aggregator, err := loadAggregator(profilePath)
			if err != nil {
				return err
			}

			paths, err := collectDocuments(dir)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Printf("No documents found in %s\n", dir)
				return nil
			}

			processor := batch.NewProcessor(aggregator, batch.Config{
				Concurrency: concurrency,
				Reference:   reference,
			})
			processor.SetProgressCallback(func(total, completed int, path string) {
				fmt.Fprintf(os.Stderr, "\r[%d/%d] %s", completed, total, filepath.Base(path))
			})

			batchReport := processor.ProcessPaths(cmd.Context(), paths)
			fmt.Fprintln(os.Stderr)

			if dbPath != "" {
				history, err := store.New(dbPath)
				if err != nil {
					return fmt.Errorf("failed to open history database: %w", err)
				}
				defer history.Close()
				for _, result := range batchReport.Results {
					if result.Report == nil {
						continue
					}
					if _, err := history.SaveReport(result.Path, result.Report, batchReport.Reference); err != nil {
						return fmt.Errorf("failed to save analysis for %s: %w", result.Path, err)
					}
				}
			}

			if format == "json" {
				encoded, err := json.MarshalIndent(batchReport, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode batch report: %w", err)
				}
				fmt.Println(string(encoded))
				return nil
			}

			fmt.Printf("Processed %d documents in %s (%d failed)\n\n",
				batchReport.Processed, batchReport.Duration.Round(time.Millisecond), batchReport.Failed)
			for _, result := range batchReport.Results {
				if result.Error != "" {
					fmt.Printf("  %-40s ERROR: %s\n", filepath.Base(result.Path), result.Error)
					continue
				}
				meta := result.Report.Metadata
				fmt.Printf("  %-40s %-8s %d dates, %d sections\n",
					filepath.Base(result.Path), result.Report.CaseStatus,
					meta.Dates.TotalUnique, meta.Citations.Count)
			}
			return nil
		},
	}

	cmd.Flags().String("dir", "", "Directory of case documents (required)")
	cmd.Flags().Int("concurrency", batch.DefaultConcurrency, "Documents processed at once")
	cmd.Flags().String("as-of", "", "Reference date YYYY-MM-DD (default: today)")
	cmd.Flags().String("profile", "", "Path to an extraction profile YAML file")
	cmd.Flags().String("db", "", "Path to a history database to record the analyses")
	cmd.Flags().String("format", "text", "Output format: text or json")
	return cmd
}

// collectDocuments lists supported documents directly inside dir, sorted.
func collectDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	supported := map[string]bool{}
	for _, extension := range watch.DefaultExtensions {
		supported[extension] = true
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if supported[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a directory and analyze documents as they arrive",
		Long: `Watch a directory and analyze each new or changed document.

Each settled document is analyzed with today's date as reference and the
result recorded in the history database.

Example:
  casemind watch --dir ./inbox --db history.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			dbPath, _ := cmd.Flags().GetString("db")
			profilePath, _ := cmd.Flags().GetString("profile")

			if dir == "" {
				return fmt.Errorf("--dir flag is required")
			}
			if dbPath == "" {
				return fmt.Errorf("--db flag is required")
			}
			aggregator, err := loadAggregator(profilePath)
			if err != nil {
				return err
			}

			history, err := store.New(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open history database: %w", err)
			}
			defer history.Close()

			watcher, err := watch.New(watch.Config{Dir: dir}, func(path string) {
				reference := types.Today()
				content, err := os.ReadFile(path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", path, err)
					return
				}
				report := aggregator.Report(string(content), "", reference)
				if _, err := history.SaveReport(path, report, reference); err != nil {
					fmt.Fprintf(os.Stderr, "Failed to save analysis for %s: %v\n", path, err)
					return
				}
				fmt.Printf("[%s] %s: %s, %d dates, %d sections\n",
					time.Now().Format("15:04:05"), filepath.Base(path), report.CaseStatus,
					report.Metadata.Dates.TotalUnique, report.Metadata.Citations.Count)
			})
			if err != nil {
				return err
			}
			if err := watcher.Start(); err != nil {
				return err
			}
			defer watcher.Stop()

			fmt.Printf("Watching %s (Ctrl-C to stop)\n", dir)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			fmt.Println("\nStopping watcher")
			return nil
		},
	}

	cmd.Flags().String("dir", "", "Directory to watch (required)")
	cmd.Flags().String("db", "", "Path to the history database (required)")
	cmd.Flags().String("profile", "", "Path to an extraction profile YAML file")
	return cmd
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded analyses",
		Long: `Show recent analyses from the history database.

Example:
  casemind history --db history.db
  casemind history --db history.db --limit 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			limit, _ := cmd.Flags().GetInt("limit")

			if dbPath == "" {
				return fmt.Errorf("--db flag is required")
			}
			history, err := store.New(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open history database: %w", err)
			}
			defer history.Close()

			counts, err := history.CountByStatus()
			if err != nil {
				return err
			}
			fmt.Printf("Recorded analyses: %d ongoing, %d closed\n\n",
				counts[types.StatusOngoing], counts[types.StatusClosed])

			records, err := history.ListRecent(limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No analyses recorded yet.")
				return nil
			}

			for _, record := range records {
				fmt.Printf("#%d  %s  %-8s %s\n",
					record.ID, record.CreatedAt.Local().Format("2006-01-02 15:04"),
					record.CaseStatus, record.Path)
				if record.Metadata != nil && record.Metadata.Dates.Upcoming.Count > 0 {
					fmt.Printf("      next: %s\n", record.Metadata.Dates.Upcoming.List[0])
				}
			}
			return nil
		},
	}

	cmd.Flags().String("db", "", "Path to the history database (required)")
	cmd.Flags().Int("limit", 20, "Maximum analyses to show")
	return cmd
}

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage extraction profiles",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default extraction profile to a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = "casemind-profile.yaml"
			}
			if _, err := os.Stat(output); err == nil {
				return fmt.Errorf("refusing to overwrite existing file %s", output)
			}
			if err := profile.Default().SaveToFile(output); err != nil {
				return err
			}
			fmt.Printf("Wrote default profile to %s\n", output)
			return nil
		},
	}
	initCmd.Flags().String("output", "", "Output path (default: casemind-profile.yaml)")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print a profile (default: the built-in one)",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")

			extractionProfile := profile.Default()
			if file != "" {
				loaded, err := profile.LoadFromFile(file)
				if err != nil {
					return err
				}
				extractionProfile = loaded
			}

			encoded, err := extractionProfile.ToYAML()
			if err != nil {
				return err
			}
			fmt.Print(string(encoded))
			return nil
		},
	}
	showCmd.Flags().String("file", "", "Path to a profile YAML file")

	cmd.AddCommand(initCmd)
	cmd.AddCommand(showCmd)
	return cmd
}
