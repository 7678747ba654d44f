package output

import (
	"fmt"
	"strings"

	"worksync/worklog"
)

type Writer interface {
	Write(path string, entries []worklog.LedgerEntry) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

var ledgerHeaders = []string{"LogID", "TargetLogin", "TargetDate", "TimeSpent", "ProjectKey", "IssueKey", "IssueSummary", "Comment"}

func ledgerRow(entry worklog.LedgerEntry) []string {
	return []string{
		entry.LogID,
		entry.TargetLogin,
		entry.TargetDate,
		entry.TimeSpent,
		entry.ProjectKey,
		entry.IssueKey,
		entry.IssueSummary,
		entry.Comment,
	}
}
