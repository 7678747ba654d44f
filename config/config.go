package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyDatabasePath      = "database.path"
	KeySyncSources       = "sync.source_projects"
	KeySyncTarget        = "sync.target_project"
	KeySyncRequester     = "sync.requester_login"
	KeySearchMaxResults  = "search.max_results"
	KeySearchConcurrency = "search.concurrency"
	KeySearchTimeout     = "search.timeout"
	KeyProjects          = "projects"
	KeyAccounts          = "accounts"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Sync     SyncConfig     `mapstructure:"sync" validate:"required"`
	Search   SearchConfig   `mapstructure:"search"`

	// Seed data applied by "worksync setup"; the sync run itself reads
	// projects and accounts from the database, not from here.
	Projects []SeedProject `mapstructure:"projects"`
	Accounts []SeedAccount `mapstructure:"accounts"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type SyncConfig struct {
	SourceProjects []string `mapstructure:"source_projects" validate:"required,min=1"`
	TargetProject  string   `mapstructure:"target_project" validate:"required"`
	RequesterLogin string   `mapstructure:"requester_login" validate:"required"`
}

type SearchConfig struct {
	MaxResults  int           `mapstructure:"max_results" validate:"gt=0"`
	Concurrency int           `mapstructure:"concurrency" validate:"gte=1"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type SeedProject struct {
	Key string `mapstructure:"key"`
	URL string `mapstructure:"url"`
}

type SeedAccount struct {
	Login       string `mapstructure:"login"`
	DisplayName string `mapstructure:"display_name"`
	ProjectKey  string `mapstructure:"project_key"`
	Credential  string `mapstructure:"credential"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# worksync configuration
database:
  path: "./worksync.db"

sync:
  source_projects: ["src"]
  target_project: "dst"
  requester_login: "collector"

search:
  max_results: 1500
  concurrency: 4
  timeout: 30s

# Seed data applied by "worksync setup".
projects:
  - key: "src"
    url: "https://jira.source.example.com"
  - key: "dst"
    url: "https://jira.target.example.com"

accounts:
  - login: "collector"
    display_name: "collector"
    project_key: "src"
    credential: ""
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateSeeds(cfg.Projects, cfg.Accounts); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, "./worksync.db")
	v.SetDefault(KeySearchMaxResults, 1500)
	v.SetDefault(KeySearchConcurrency, 4)
	v.SetDefault(KeySearchTimeout, 30*time.Second)
	v.SetDefault(KeyProjects, []map[string]any{})
	v.SetDefault(KeyAccounts, []map[string]any{})
}

func validateSeeds(projects []SeedProject, accounts []SeedAccount) error {
	projectKeys := make(map[string]struct{}, len(projects))
	for i, project := range projects {
		key := strings.TrimSpace(project.Key)
		if key == "" {
			return fmt.Errorf("validation failed: projects[%d].key is required", i)
		}
		if _, exists := projectKeys[key]; exists {
			return fmt.Errorf("validation failed: duplicate project key %q", key)
		}
		projectKeys[key] = struct{}{}
		if strings.TrimSpace(project.URL) == "" {
			return fmt.Errorf("validation failed: projects[%d].url is required", i)
		}
	}

	seenLogins := make(map[string]struct{}, len(accounts))
	seenNames := make(map[string]struct{}, len(accounts))
	for i, account := range accounts {
		login := strings.TrimSpace(account.Login)
		if login == "" {
			return fmt.Errorf("validation failed: accounts[%d].login is required", i)
		}
		if _, exists := seenLogins[login]; exists {
			return fmt.Errorf("validation failed: duplicate account login %q", login)
		}
		seenLogins[login] = struct{}{}

		if strings.TrimSpace(account.DisplayName) == "" {
			return fmt.Errorf("validation failed: accounts[%d].display_name is required", i)
		}
		projectKey := strings.TrimSpace(account.ProjectKey)
		if projectKey == "" {
			return fmt.Errorf("validation failed: accounts[%d].project_key is required", i)
		}
		if len(projects) > 0 {
			if _, exists := projectKeys[projectKey]; !exists {
				return fmt.Errorf("validation failed: accounts[%d].project_key %q has no matching project", i, projectKey)
			}
		}

		nameKey := strings.ToLower(account.DisplayName) + "\x00" + projectKey
		if _, exists := seenNames[nameKey]; exists {
			return fmt.Errorf(
				"validation failed: duplicate display name %q in project %q",
				account.DisplayName,
				projectKey,
			)
		}
		seenNames[nameKey] = struct{}{}
	}

	return nil
}
