package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"worksync/config"
	"worksync/storage"
)

var accountsDBPath string

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List configured projects and account mappings",
	Long: `Display the projects and account identity mappings stored in the local
database. Credentials are never printed.`,
	Example: `
  # List accounts per configured project
  worksync accounts
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		dbPath := accountsDBPath
		if dbPath == "" {
			dbPath = cfg.Database.Path
		}

		store, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		keys := make([]string, 0, len(cfg.Sync.SourceProjects)+1)
		keys = append(keys, cfg.Sync.SourceProjects...)
		if !containsKey(keys, cfg.Sync.TargetProject) {
			keys = append(keys, cfg.Sync.TargetProject)
		}

		for _, key := range keys {
			endpoint, err := store.ResolveProject(key)
			if err != nil {
				return err
			}
			accounts, err := store.ListAccounts(key)
			if err != nil {
				return err
			}

			fmt.Printf("Project %s (%s): %d account(s)\n", endpoint.Key, endpoint.BaseURL, len(accounts))
			for _, account := range accounts {
				fmt.Printf("  %s -> %s\n", account.DisplayName, account.Login)
			}
		}
		return nil
	},
}

func containsKey(keys []string, key string) bool {
	for _, candidate := range keys {
		if candidate == key {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(accountsCmd)

	accountsCmd.Flags().StringVar(&accountsDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
}
