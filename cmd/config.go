package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage worksync configuration file values.",
	Long: `Create and display the worksync configuration file.

The configuration stores the database path, the sync run parameters
(source projects, target project, requesting account) and the project/account
seed data applied by "worksync setup".`,
	Example: `
  # Create default config in $HOME/.worksync.yaml
  worksync config create

  # Show active config and source file
  worksync config show
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
