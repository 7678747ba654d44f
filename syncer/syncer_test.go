package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"worksync/jira"
	"worksync/worklog"
)

type fakeClient struct {
	searchFn func(ctx context.Context, creds jira.Credentials, req jira.SearchRequest) ([]jira.Issue, error)
	listFn   func(ctx context.Context, creds jira.Credentials, issueKey string) ([]jira.Worklog, error)
	createFn func(ctx context.Context, creds jira.Credentials, issueKey string, wl jira.NewWorklog) error
}

func (c *fakeClient) SearchIssues(ctx context.Context, creds jira.Credentials, req jira.SearchRequest) ([]jira.Issue, error) {
	if c.searchFn == nil {
		return nil, errors.New("unexpected SearchIssues call")
	}
	return c.searchFn(ctx, creds, req)
}

func (c *fakeClient) ListWorklogs(ctx context.Context, creds jira.Credentials, issueKey string) ([]jira.Worklog, error) {
	if c.listFn == nil {
		return nil, errors.New("unexpected ListWorklogs call")
	}
	return c.listFn(ctx, creds, issueKey)
}

func (c *fakeClient) CreateWorklog(ctx context.Context, creds jira.Credentials, issueKey string, wl jira.NewWorklog) error {
	if c.createFn == nil {
		return errors.New("unexpected CreateWorklog call")
	}
	return c.createFn(ctx, creds, issueKey, wl)
}

type fakeDirectory struct {
	projects map[string]worklog.ProjectEndpoint
	accounts []worklog.Account
}

func (d *fakeDirectory) ResolveProject(key string) (worklog.ProjectEndpoint, error) {
	endpoint, ok := d.projects[key]
	if !ok {
		return worklog.ProjectEndpoint{}, fmt.Errorf("project %q: %w", key, worklog.ErrNotFound)
	}
	return endpoint, nil
}

func (d *fakeDirectory) ListAccounts(projectKey string) ([]worklog.Account, error) {
	accounts := make([]worklog.Account, 0, len(d.accounts))
	for _, account := range d.accounts {
		if account.ProjectKey == projectKey {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (d *fakeDirectory) DisplayNameForLogin(login string) (string, error) {
	for _, account := range d.accounts {
		if account.Login == login {
			return account.DisplayName, nil
		}
	}
	return "", fmt.Errorf("login %q: %w", login, worklog.ErrNotFound)
}

func (d *fakeDirectory) AccountFor(displayName, projectKey string) (worklog.Account, error) {
	for _, account := range d.accounts {
		if account.DisplayName == displayName && account.ProjectKey == projectKey {
			return account, nil
		}
	}
	return worklog.Account{}, fmt.Errorf("account %q in project %q: %w", displayName, projectKey, worklog.ErrNotFound)
}

type fakeLedger struct {
	mu      sync.Mutex
	entries map[string]worklog.LedgerEntry
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{entries: make(map[string]worklog.LedgerEntry)}
}

func (l *fakeLedger) HasDelivered(logID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[logID]
	return ok, nil
}

func (l *fakeLedger) RecordDelivered(entry worklog.LedgerEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[entry.LogID]; ok {
		return fmt.Errorf("ledger entry %q: %w", entry.LogID, worklog.ErrConflict)
	}
	l.entries[entry.LogID] = entry
	return nil
}
