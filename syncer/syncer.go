// Package syncer implements the worklog synchronization pipeline: fetch
// candidate worklogs from the source trackers, normalize them into canonical
// records, and replay them idempotently against the target tracker.
package syncer

import (
	"errors"

	"worksync/jira"
	"worksync/worklog"
)

// Directory resolves project endpoints and account identity mappings. It is
// read-only with respect to a sync run.
type Directory interface {
	ResolveProject(key string) (worklog.ProjectEndpoint, error)
	ListAccounts(projectKey string) ([]worklog.Account, error)
	DisplayNameForLogin(login string) (string, error)
	AccountFor(displayName, projectKey string) (worklog.Account, error)
}

// Ledger is the durable set of already replayed log ids. RecordDelivered
// reports worklog.ErrConflict when the id is already present; callers treat
// that as benign because the remote write has already happened.
type Ledger interface {
	HasDelivered(logID string) (bool, error)
	RecordDelivered(entry worklog.LedgerEntry) error
}

// ErrNoWorkers reports a source project with no worker accounts configured.
var ErrNoWorkers = errors.New("no worker accounts configured")

// SourceProject is one tracker to pull worklogs from. All search and worklog
// list calls run under the requesting account's credentials; Workers is the
// author set whose entries qualify.
type SourceProject struct {
	Key       string
	Client    jira.Client
	Requester jira.Credentials
	Workers   []worklog.Account
}

// IssueWorklog pairs one raw worklog with the issue it was logged against.
type IssueWorklog struct {
	Issue   jira.Issue
	Worklog jira.Worklog
}
