package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"worksync/config"
	"worksync/output"
	"worksync/storage"
)

var (
	exportFormat string
	exportOutput string
	exportDBPath string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the delivery ledger to CSV/Excel",
	Long: `Export the delivery ledger (every worklog already replayed to the target
project) from the local database.

Output format can be selected explicitly via --format or inferred from the
--output extension.`,
	Example: `
  # Export the ledger to CSV
  worksync export --output ./ledger.csv

  # Export the ledger to Excel
  worksync export --output ./ledger.xlsx

  # Force Excel format independent of extension
  worksync export --format excel --output ./ledger.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}

		dbPath := exportDBPath
		if strings.TrimSpace(dbPath) == "" {
			cfg, err := config.LoadAndValidate()
			if err != nil {
				return err
			}
			dbPath = cfg.Database.Path
		}

		store, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.ListDelivered()
		if err != nil {
			return err
		}

		writer, err := output.WriterForFormat(format)
		if err != nil {
			return err
		}
		if err := writer.Write(exportOutput, entries); err != nil {
			return err
		}

		fmt.Printf("Export completed. Rows: %d, Format: %s, File: %s\n", len(entries), format, exportOutput)
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")

	_ = exportCmd.MarkFlagRequired("output")
}
