package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"worksync/worklog"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, entries []worklog.LedgerEntry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(ledgerHeaders); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, entry := range entries {
		if err := writer.Write(ledgerRow(entry)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
