package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"worksync/config"
	"worksync/internal/timeutil"
	"worksync/jira"
	"worksync/storage"
	"worksync/syncer"
)

var (
	syncDBPath      string
	syncFromDay     string
	syncTargetIssue string
	syncTimeout     time.Duration
	syncMaxResults  int
	syncConcurrency int
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replay source worklogs into the target issue",
	Long: `Fetch worklogs recorded by the configured workers in the source projects,
translate their authors into target-project accounts, and replay each entry
against the target issue under the matching worker's own credentials.

The delivery ledger in the local database guarantees each source worklog is
written at most once: entries already present in the ledger are skipped, so the
command is safe to re-run over overlapping date ranges. A worker with no
target-side account is skipped with a warning; the run continues with the
remaining records.`,
	Example: `
  # Replay the last week of worklogs into DST-9
  worksync sync --issue DST-9

  # Replay everything logged since a given day
  worksync sync --issue DST-9 --date 2026-08-24

  # Use an alternate database file
  worksync sync --issue DST-9 --db ./team.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		fromDay, err := resolveFromDay(syncFromDay, time.Now())
		if err != nil {
			return err
		}

		dbPath := syncDBPath
		if strings.TrimSpace(dbPath) == "" {
			dbPath = cfg.Database.Path
		}

		store, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		maxResults := syncMaxResults
		if maxResults <= 0 {
			maxResults = cfg.Search.MaxResults
		}
		concurrency := syncConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Search.Concurrency
		}
		timeout := syncTimeout
		if timeout <= 0 {
			timeout = cfg.Search.Timeout
		}

		service := &syncer.Service{
			Directory: store,
			Ledger:    store,
			NewClient: func(baseURL string) (jira.Client, error) {
				client, err := jira.NewClient(jira.ClientConfig{
					BaseURL:   baseURL,
					UserAgent: "worksync/1.0",
				})
				if err != nil {
					return nil, err
				}
				return client, nil
			},
			Warnf: func(format string, args ...any) {
				fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
			},
		}

		fmt.Printf("Collecting worklogs since %s...\n", fromDay)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		count, err := service.Run(ctx, syncer.RunParams{
			SourceProjects: cfg.Sync.SourceProjects,
			TargetProject:  cfg.Sync.TargetProject,
			TargetIssue:    syncTargetIssue,
			RequesterLogin: cfg.Sync.RequesterLogin,
			FromDay:        fromDay,
			MaxResults:     maxResults,
			Concurrency:    concurrency,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Sync completed. Worklogs replayed to %s: %d\n", syncTargetIssue, count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVar(&syncDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
	syncCmd.Flags().StringVarP(&syncFromDay, "date", "d", "", "Fetch worklogs on or after this day, format YYYY-MM-DD (default: one week ago)")
	syncCmd.Flags().StringVarP(&syncTargetIssue, "issue", "i", "", "Target issue key the replayed worklogs are attached to")
	syncCmd.Flags().DurationVar(&syncTimeout, "timeout", 0, "Timeout for the whole run (default: search.timeout from config)")
	syncCmd.Flags().IntVar(&syncMaxResults, "max-results", 0, "Issue search cap per source project (default: search.max_results from config)")
	syncCmd.Flags().IntVar(&syncConcurrency, "concurrency", 0, "Parallel per-issue worklog fetches (default: search.concurrency from config)")

	_ = syncCmd.MarkFlagRequired("issue")
}

func resolveFromDay(value string, now time.Time) (string, error) {
	if strings.TrimSpace(value) == "" {
		return timeutil.DefaultFromDay(now), nil
	}
	day, err := timeutil.ParseDay(value)
	if err != nil {
		return "", fmt.Errorf("invalid --date value %q (expected YYYY-MM-DD)", value)
	}
	return timeutil.FormatDay(day), nil
}
