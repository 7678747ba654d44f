package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"worksync/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. Account
credentials are never printed.`,
	Example: `
  # Show active configuration
  worksync config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
			fmt.Println("Configuration:")
			fmt.Printf("database.path: %s\n", cfg.Database.Path)
			fmt.Printf("sync.source_projects: %s\n", strings.Join(cfg.Sync.SourceProjects, ", "))
			fmt.Printf("sync.target_project: %s\n", cfg.Sync.TargetProject)
			fmt.Printf("sync.requester_login: %s\n", cfg.Sync.RequesterLogin)
			fmt.Printf("search.max_results: %d\n", cfg.Search.MaxResults)
			fmt.Printf("search.concurrency: %d\n", cfg.Search.Concurrency)
			fmt.Printf("search.timeout: %s\n", cfg.Search.Timeout)
			fmt.Printf("projects: %d\n", len(cfg.Projects))
			for i, project := range cfg.Projects {
				fmt.Printf("projects[%d].key: %s\n", i, project.Key)
				fmt.Printf("projects[%d].url: %s\n", i, project.URL)
			}
			fmt.Printf("accounts: %d\n", len(cfg.Accounts))
			for i, account := range cfg.Accounts {
				fmt.Printf("accounts[%d].login: %s\n", i, account.Login)
				fmt.Printf("accounts[%d].display_name: %s\n", i, account.DisplayName)
				fmt.Printf("accounts[%d].project_key: %s\n", i, account.ProjectKey)
			}
		}

	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
