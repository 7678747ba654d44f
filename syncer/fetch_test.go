package syncer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"worksync/jira"
	"worksync/worklog"
)

func sourceWorkers() []worklog.Account {
	return []worklog.Account{
		{Login: "login_a", DisplayName: "alice", ProjectKey: "src", Credential: "secret-a"},
		{Login: "login_c", DisplayName: "bob", ProjectKey: "src", Credential: "secret-c"},
	}
}

func TestFetcher_DateBoundaryFilter(t *testing.T) {
	t.Parallel()

	issue := jira.Issue{Key: "SRC-1", Fields: jira.IssueFields{Summary: "Bug fix", Project: jira.IssueProject{Key: "SRC"}}}
	client := &fakeClient{
		searchFn: func(ctx context.Context, creds jira.Credentials, req jira.SearchRequest) ([]jira.Issue, error) {
			if !strings.Contains(req.JQL, `worklogDate >= "2024-01-05"`) {
				t.Fatalf("query missing date bound: %q", req.JQL)
			}
			return []jira.Issue{issue}, nil
		},
		listFn: func(ctx context.Context, creds jira.Credentials, issueKey string) ([]jira.Worklog, error) {
			return []jira.Worklog{
				{ID: "1", Author: jira.Author{Name: "login_a"}, Started: "2024-01-04T18:00:00.000+0000", TimeSpent: "1h"},
				{ID: "2", Author: jira.Author{Name: "login_a"}, Started: "2024-01-05T09:00:00.000+0000", TimeSpent: "2h"},
			}, nil
		},
	}

	fetcher := &Fetcher{
		Sources: []SourceProject{{Key: "src", Client: client, Workers: sourceWorkers()}},
		FromDay: "2024-01-05",
	}
	pairs, err := fetcher.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(pairs) != 1 {
		t.Fatalf("expected 1 worklog after date filter, got %d", len(pairs))
	}
	if pairs[0].Worklog.ID != "2" {
		t.Fatalf("expected worklog 2 to survive the bound, got %s", pairs[0].Worklog.ID)
	}
}

func TestFetcher_ExcludesProxyAuthors(t *testing.T) {
	t.Parallel()

	// The search API can return an issue because a proxy account logged time
	// on it; such worklogs must be dropped client-side.
	client := &fakeClient{
		searchFn: func(ctx context.Context, creds jira.Credentials, req jira.SearchRequest) ([]jira.Issue, error) {
			return []jira.Issue{{Key: "SRC-2"}}, nil
		},
		listFn: func(ctx context.Context, creds jira.Credentials, issueKey string) ([]jira.Worklog, error) {
			return []jira.Worklog{
				{ID: "10", Author: jira.Author{Name: "proxy_bot"}, Started: "2024-01-10T10:00:00.000+0000"},
				{ID: "11", Author: jira.Author{Name: "login_c"}, Started: "2024-01-10T11:00:00.000+0000"},
			}, nil
		},
	}

	fetcher := &Fetcher{
		Sources: []SourceProject{{Key: "src", Client: client, Workers: sourceWorkers()}},
		FromDay: "2024-01-01",
	}
	pairs, err := fetcher.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(pairs) != 1 {
		t.Fatalf("expected 1 worklog after author filter, got %d", len(pairs))
	}
	if pairs[0].Worklog.Author.Name != "login_c" {
		t.Fatalf("unexpected surviving author: %s", pairs[0].Worklog.Author.Name)
	}
}

func TestFetcher_PreservesWithinIssueOrder(t *testing.T) {
	t.Parallel()

	worklogsByIssue := map[string][]jira.Worklog{
		"SRC-1": {
			{ID: "1", Author: jira.Author{Name: "login_a"}, Started: "2024-01-10T09:00:00.000+0000"},
			{ID: "2", Author: jira.Author{Name: "login_a"}, Started: "2024-01-10T10:00:00.000+0000"},
		},
		"SRC-2": {
			{ID: "3", Author: jira.Author{Name: "login_c"}, Started: "2024-01-11T09:00:00.000+0000"},
		},
	}
	client := &fakeClient{
		searchFn: func(ctx context.Context, creds jira.Credentials, req jira.SearchRequest) ([]jira.Issue, error) {
			return []jira.Issue{{Key: "SRC-1"}, {Key: "SRC-2"}}, nil
		},
		listFn: func(ctx context.Context, creds jira.Credentials, issueKey string) ([]jira.Worklog, error) {
			return worklogsByIssue[issueKey], nil
		},
	}

	fetcher := &Fetcher{
		Sources:     []SourceProject{{Key: "src", Client: client, Workers: sourceWorkers()}},
		FromDay:     "2024-01-01",
		Concurrency: 4,
	}
	pairs, err := fetcher.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(pairs) != 3 {
		t.Fatalf("expected 3 worklogs, got %d", len(pairs))
	}
	for i, wantID := range []string{"1", "2", "3"} {
		if pairs[i].Worklog.ID != wantID {
			t.Fatalf("expected pair %d to be worklog %s, got %s", i, wantID, pairs[i].Worklog.ID)
		}
	}
}

func TestFetcher_NoWorkersIsFatal(t *testing.T) {
	t.Parallel()

	fetcher := &Fetcher{
		Sources: []SourceProject{{Key: "src", Client: &fakeClient{}}},
		FromDay: "2024-01-01",
	}
	_, err := fetcher.Fetch(context.Background())
	if !errors.Is(err, ErrNoWorkers) {
		t.Fatalf("expected ErrNoWorkers, got %v", err)
	}
}

func TestFetcher_SearchFailureAbortsRun(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		searchFn: func(ctx context.Context, creds jira.Credentials, req jira.SearchRequest) ([]jira.Issue, error) {
			return nil, &jira.StatusError{Method: "POST", Path: "/rest/api/latest/search", StatusCode: 502, Body: "bad gateway"}
		},
	}

	fetcher := &Fetcher{
		Sources: []SourceProject{{Key: "src", Client: client, Workers: sourceWorkers()}},
		FromDay: "2024-01-01",
	}
	_, err := fetcher.Fetch(context.Background())

	var statusErr *jira.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected transport error to surface, got %v", err)
	}
}
