package syncer

import (
	"fmt"

	"worksync/worklog"
)

// Normalize converts raw worklog+issue pairs into canonical records, resolving
// each author login to its stable display name. An unmapped login is fatal for
// the run: it indicates misconfiguration, not a transient condition. Output
// order matches input order.
func Normalize(pairs []IssueWorklog, directory Directory) ([]worklog.Record, error) {
	displayNames := make(map[string]string, 8)

	records := make([]worklog.Record, 0, len(pairs))
	for _, pair := range pairs {
		login := pair.Worklog.Author.Name
		displayName, ok := displayNames[login]
		if !ok {
			resolved, err := directory.DisplayNameForLogin(login)
			if err != nil {
				return nil, fmt.Errorf("resolve author %q: %w", login, err)
			}
			displayName = resolved
			displayNames[login] = displayName
		}

		records = append(records, worklog.Record{
			SourceLogID:       pair.Worklog.ID,
			AuthorDisplayName: displayName,
			StartedAt:         pair.Worklog.Started,
			TimeSpent:         pair.Worklog.TimeSpent,
			Comment:           pair.Worklog.Comment,
			SourceIssueKey:    pair.Issue.Key,
			SourceProjectKey:  pair.Issue.Fields.Project.Key,
			IssueSummary:      pair.Issue.Fields.Summary,
		})
	}

	return records, nil
}
