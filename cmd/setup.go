package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"worksync/config"
	"worksync/storage"
	"worksync/worklog"
)

var setupDBPath string

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the database schema and seed projects/accounts from config",
	Long: `Create the local SQLite database (projects, accounts, delivery ledger) and
apply the project and account seed data from the configuration file.

Seeding is idempotent: existing projects and accounts are updated in place and
the delivery ledger is never touched.`,
	Example: `
  # Seed the default database from the active config
  worksync setup

  # Seed an alternate database file
  worksync setup --db ./team.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		dbPath := setupDBPath
		if strings.TrimSpace(dbPath) == "" {
			dbPath = cfg.Database.Path
		}

		store, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		for _, project := range cfg.Projects {
			if err := store.SaveProject(worklog.ProjectEndpoint{
				Key:     project.Key,
				BaseURL: project.URL,
			}); err != nil {
				return err
			}
		}

		for _, account := range cfg.Accounts {
			if err := store.SaveAccount(worklog.Account{
				Login:       account.Login,
				DisplayName: account.DisplayName,
				ProjectKey:  account.ProjectKey,
				Credential:  account.Credential,
			}); err != nil {
				return err
			}
		}

		fmt.Printf("Setup completed. Database: %s, Projects: %d, Accounts: %d\n", dbPath, len(cfg.Projects), len(cfg.Accounts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().StringVar(&setupDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
}
