package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"worksync/jira"
	"worksync/worklog"
)

// Target is the tracker project all replayed worklogs are written to, pinned
// to one issue key.
type Target struct {
	ProjectKey string
	IssueKey   string
	Client     jira.Client
}

// Replayer writes canonical records to the target tracker exactly once. The
// ledger check, the remote create, and the ledger insert for one record run
// under a single lock so two concurrent replays cannot both pass the check
// and double-deliver.
type Replayer struct {
	Directory Directory
	Ledger    Ledger
	// Warnf receives non-fatal diagnostics (skipped records, ledger write
	// failures after a successful remote write). Nil discards them.
	Warnf func(format string, args ...any)

	mu sync.Mutex
}

// Replay processes records in input order and returns how many were delivered
// in this run. A record whose author has no target-side account is skipped
// with a warning; transport failures abort the run with the count so far.
func (r *Replayer) Replay(ctx context.Context, target Target, records []worklog.Record) (int, error) {
	delivered := 0

	for _, record := range records {
		wrote, err := r.replayOne(ctx, target, record)
		if err != nil {
			return delivered, err
		}
		if wrote {
			delivered++
		}
	}

	return delivered, nil
}

func (r *Replayer) replayOne(ctx context.Context, target Target, record worklog.Record) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	done, err := r.Ledger.HasDelivered(record.SourceLogID)
	if err != nil {
		return false, fmt.Errorf("check ledger for log %q: %w", record.SourceLogID, err)
	}
	if done {
		return false, nil
	}

	account, err := r.Directory.AccountFor(record.AuthorDisplayName, target.ProjectKey)
	if err != nil {
		if errors.Is(err, worklog.ErrNotFound) {
			r.warnf("skipping log %s: %s has no account in project %s", record.SourceLogID, record.AuthorDisplayName, target.ProjectKey)
			return false, nil
		}
		return false, fmt.Errorf("resolve target account for log %q: %w", record.SourceLogID, err)
	}

	err = target.Client.CreateWorklog(
		ctx,
		jira.Credentials{Login: account.Login, Secret: account.Credential},
		target.IssueKey,
		jira.NewWorklog{
			Comment:   ProvenanceComment(record),
			Started:   record.StartedAt,
			TimeSpent: record.TimeSpent,
		},
	)
	if err != nil {
		return false, fmt.Errorf("create worklog for log %q: %w", record.SourceLogID, err)
	}

	entry := worklog.LedgerEntry{
		LogID:        record.SourceLogID,
		TargetLogin:  account.Login,
		TargetDate:   record.StartedAt,
		Comment:      record.Comment,
		TimeSpent:    record.TimeSpent,
		ProjectKey:   record.SourceProjectKey,
		IssueKey:     record.SourceIssueKey,
		IssueSummary: record.IssueSummary,
	}
	if err := r.Ledger.RecordDelivered(entry); err != nil {
		// The remote write already happened. A conflict means another run got
		// there first; anything else leaves this one record open to
		// re-delivery on the next run.
		if !errors.Is(err, worklog.ErrConflict) {
			r.warnf("log %s delivered but not recorded in ledger: %v", record.SourceLogID, err)
		}
	}

	return true, nil
}

func (r *Replayer) warnf(format string, args ...any) {
	if r.Warnf != nil {
		r.Warnf(format, args...)
	}
}

// ProvenanceComment embeds the source project, issue key, issue summary, and
// original comment so the target system keeps the cross-link the tracker
// itself cannot express.
func ProvenanceComment(record worklog.Record) string {
	return fmt.Sprintf(
		"Work on project %s. Issue %s %s.\n%s",
		record.SourceProjectKey,
		record.SourceIssueKey,
		record.IssueSummary,
		record.Comment,
	)
}
