package syncer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"worksync/internal/timeutil"
	"worksync/jira"
)

var searchFields = []string{"summary", "project"}

// Fetcher retrieves qualifying worklogs from the source trackers. Issues are
// found via a server-side day-granularity query; every returned worklog is
// then re-checked against the author set and the exact day bound, because the
// search can match issues whose worklogs were added by proxy accounts outside
// the queried author list.
type Fetcher struct {
	Sources []SourceProject
	FromDay string
	// MaxResults caps the issue search per source project. Truncation beyond
	// the cap is silent; a run is expected to cover at most about a week.
	MaxResults int
	// Concurrency bounds parallel per-issue worklog listing. Values below 1
	// fetch sequentially.
	Concurrency int
}

func (f *Fetcher) Fetch(ctx context.Context) ([]IssueWorklog, error) {
	pairs := make([]IssueWorklog, 0, 64)

	for _, source := range f.Sources {
		if len(source.Workers) == 0 {
			return nil, fmt.Errorf("source project %q: %w", source.Key, ErrNoWorkers)
		}

		logins := make([]string, 0, len(source.Workers))
		workerSet := make(map[string]struct{}, len(source.Workers))
		for _, worker := range source.Workers {
			logins = append(logins, worker.Login)
			workerSet[worker.Login] = struct{}{}
		}

		issues, err := source.Client.SearchIssues(ctx, source.Requester, jira.SearchRequest{
			JQL:        jira.WorklogQuery(logins, f.FromDay),
			MaxResults: f.MaxResults,
			Fields:     searchFields,
		})
		if err != nil {
			return nil, fmt.Errorf("search issues in project %q: %w", source.Key, err)
		}

		perIssue := make([][]IssueWorklog, len(issues))
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(max(1, f.Concurrency))

		for i, issue := range issues {
			i, issue := i, issue
			group.Go(func() error {
				raw, err := source.Client.ListWorklogs(groupCtx, source.Requester, issue.Key)
				if err != nil {
					return fmt.Errorf("list worklogs for issue %q: %w", issue.Key, err)
				}
				kept := make([]IssueWorklog, 0, len(raw))
				for _, wl := range raw {
					if _, ok := workerSet[wl.Author.Name]; !ok {
						continue
					}
					if timeutil.DayOf(wl.Started) < f.FromDay {
						continue
					}
					kept = append(kept, IssueWorklog{Issue: issue, Worklog: wl})
				}
				perIssue[i] = kept
				return nil
			})
		}

		if err := group.Wait(); err != nil {
			return nil, err
		}

		for _, kept := range perIssue {
			pairs = append(pairs, kept...)
		}
	}

	return pairs, nil
}
