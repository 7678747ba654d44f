package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"worksync/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "worksync",
	Short: "Replay worklogs from source Jira projects into a target project.",
	Long: `worksync copies time-tracking entries recorded against issues in one or more
source Jira projects into a single issue in a target project.

Identities are translated between the two tracker namespaces through display
names stored in a local SQLite database, and a delivery ledger in the same
database guarantees each source worklog is replayed at most once, even across
repeated runs over overlapping date ranges.`,
	Example: `
  # Create configuration file
  worksync config create

  # Create the database schema and seed projects/accounts from config
  worksync setup

  # Replay the last week of worklogs into target issue DST-9
  worksync sync --issue DST-9

  # Replay everything since a given day
  worksync sync --issue DST-9 --date 2026-08-24

  # Export the delivery ledger
  worksync export --output ./ledger.csv
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.worksync.yaml, then ./.worksync.yaml)")

	rootCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if !requiresConfig(cmd) {
			return nil
		}

		_, err := config.LoadAndValidate()
		return err
	}
}

func requiresConfig(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	switch cmd.Name() {
	case "sync", "setup":
		return true
	}
	return false
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".worksync" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".worksync")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: worksync config create")
	}
}
