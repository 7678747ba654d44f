package worklog

import "errors"

var (
	// ErrNotFound reports a missing project, account, or login mapping.
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a ledger insert for an id that is already recorded.
	ErrConflict = errors.New("already delivered")
)

// ProjectEndpoint identifies one tracker instance by project key.
type ProjectEndpoint struct {
	Key     string
	BaseURL string
}

// Account maps a person's display name to their login and credential within
// one project. Logins are unique across all projects; a person working in two
// projects has two accounts sharing a display name.
type Account struct {
	Login       string
	Credential  string
	DisplayName string
	ProjectKey  string
}

// Record is the normalized worklog record flowing through a sync run. It is
// built from one raw worklog+issue pair and discarded after the replay
// decision for it is made.
type Record struct {
	SourceLogID       string
	AuthorDisplayName string
	StartedAt         string
	TimeSpent         string
	Comment           string
	SourceIssueKey    string
	SourceProjectKey  string
	IssueSummary      string
}

// LedgerEntry records one replayed worklog. Presence of a LogID in the ledger
// means the log has already been created in the target tracker.
type LedgerEntry struct {
	LogID        string
	TargetLogin  string
	TargetDate   string
	Comment      string
	TimeSpent    string
	ProjectKey   string
	IssueKey     string
	IssueSummary string
}
