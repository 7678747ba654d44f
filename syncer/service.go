package syncer

import (
	"context"
	"fmt"

	"worksync/jira"
	"worksync/worklog"
)

// ClientFactory builds a tracker client for one endpoint base URL.
type ClientFactory func(baseURL string) (jira.Client, error)

// Service wires the directory, the ledger, and tracker clients into one sync
// run. The directory and ledger are the only shared resources; the replayer
// is the sole ledger writer.
type Service struct {
	Directory Directory
	Ledger    Ledger
	NewClient ClientFactory
	Warnf     func(format string, args ...any)
}

// RunParams describe one sync run.
type RunParams struct {
	SourceProjects []string
	TargetProject  string
	TargetIssue    string
	// RequesterLogin selects, per source project, the account used for search
	// and worklog list calls.
	RequesterLogin string
	// FromDay is the inclusive lower bound, YYYY-MM-DD.
	FromDay     string
	MaxResults  int
	Concurrency int
}

// Run executes one fetch, normalize, replay pass and returns the number of
// records delivered. Errors before the replay stage abort the run before any
// remote mutation.
func (s *Service) Run(ctx context.Context, params RunParams) (int, error) {
	sources, err := s.buildSources(params)
	if err != nil {
		return 0, err
	}

	targetEndpoint, err := s.Directory.ResolveProject(params.TargetProject)
	if err != nil {
		return 0, fmt.Errorf("resolve target project: %w", err)
	}
	targetClient, err := s.NewClient(targetEndpoint.BaseURL)
	if err != nil {
		return 0, fmt.Errorf("build target client for %q: %w", params.TargetProject, err)
	}

	fetcher := &Fetcher{
		Sources:     sources,
		FromDay:     params.FromDay,
		MaxResults:  params.MaxResults,
		Concurrency: params.Concurrency,
	}
	pairs, err := fetcher.Fetch(ctx)
	if err != nil {
		return 0, err
	}

	records, err := Normalize(pairs, s.Directory)
	if err != nil {
		return 0, err
	}

	replayer := &Replayer{
		Directory: s.Directory,
		Ledger:    s.Ledger,
		Warnf:     s.Warnf,
	}
	return replayer.Replay(ctx, Target{
		ProjectKey: params.TargetProject,
		IssueKey:   params.TargetIssue,
		Client:     targetClient,
	}, records)
}

func (s *Service) buildSources(params RunParams) ([]SourceProject, error) {
	sources := make([]SourceProject, 0, len(params.SourceProjects))

	for _, key := range params.SourceProjects {
		endpoint, err := s.Directory.ResolveProject(key)
		if err != nil {
			return nil, fmt.Errorf("resolve source project: %w", err)
		}

		accounts, err := s.Directory.ListAccounts(key)
		if err != nil {
			return nil, err
		}
		if len(accounts) == 0 {
			return nil, fmt.Errorf("source project %q: %w", key, ErrNoWorkers)
		}

		requester, ok := findAccount(accounts, params.RequesterLogin)
		if !ok {
			return nil, fmt.Errorf("requesting account %q is not configured in project %q", params.RequesterLogin, key)
		}

		client, err := s.NewClient(endpoint.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("build client for project %q: %w", key, err)
		}

		sources = append(sources, SourceProject{
			Key:       key,
			Client:    client,
			Requester: jira.Credentials{Login: requester.Login, Secret: requester.Credential},
			Workers:   accounts,
		})
	}

	return sources, nil
}

func findAccount(accounts []worklog.Account, login string) (worklog.Account, bool) {
	for _, account := range accounts {
		if account.Login == login {
			return account, true
		}
	}
	return worklog.Account{}, false
}
