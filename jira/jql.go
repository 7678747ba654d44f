package jira

import (
	"fmt"
	"strings"
)

// WorklogQuery builds the issue search selecting work logged by any of the
// given authors on or after the given day (YYYY-MM-DD). The server filters at
// day granularity only; callers must re-check author and exact date on the
// returned worklogs.
func WorklogQuery(authorLogins []string, fromDay string) string {
	quoted := make([]string, 0, len(authorLogins))
	for _, login := range authorLogins {
		quoted = append(quoted, fmt.Sprintf("%q", login))
	}
	return fmt.Sprintf("worklogAuthor in (%s) AND worklogDate >= %q", strings.Join(quoted, ", "), fromDay)
}
