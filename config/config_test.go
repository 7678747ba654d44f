package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidateYAMLContent_ExampleTemplateIsValid(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("example template should validate: %v", err)
	}

	if cfg.Database.Path != "./worksync.db" {
		t.Fatalf("unexpected database path: %s", cfg.Database.Path)
	}
	if len(cfg.Sync.SourceProjects) != 1 || cfg.Sync.SourceProjects[0] != "src" {
		t.Fatalf("unexpected source projects: %v", cfg.Sync.SourceProjects)
	}
	if cfg.Sync.TargetProject != "dst" {
		t.Fatalf("unexpected target project: %s", cfg.Sync.TargetProject)
	}
	if cfg.Search.MaxResults != 1500 {
		t.Fatalf("unexpected max results: %d", cfg.Search.MaxResults)
	}
	if cfg.Search.Timeout != 30*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.Search.Timeout)
	}
}

func TestValidateYAMLContent_MissingTargetProject(t *testing.T) {
	t.Parallel()

	content := `
sync:
  source_projects: ["src"]
  requester_login: "collector"
`
	_, err := ValidateYAMLContent([]byte(content))
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestValidateYAMLContent_DuplicateAccountLogin(t *testing.T) {
	t.Parallel()

	content := `
sync:
  source_projects: ["src"]
  target_project: "dst"
  requester_login: "collector"

projects:
  - key: "src"
    url: "https://jira.example.com"

accounts:
  - login: "collector"
    display_name: "collector"
    project_key: "src"
  - login: "collector"
    display_name: "other"
    project_key: "src"
`
	_, err := ValidateYAMLContent([]byte(content))
	if err == nil || !strings.Contains(err.Error(), "duplicate account login") {
		t.Fatalf("expected duplicate login failure, got %v", err)
	}
}

func TestValidateYAMLContent_DuplicateDisplayNameInProject(t *testing.T) {
	t.Parallel()

	content := `
sync:
  source_projects: ["src"]
  target_project: "dst"
  requester_login: "collector"

projects:
  - key: "src"
    url: "https://jira.example.com"

accounts:
  - login: "first"
    display_name: "alice"
    project_key: "src"
  - login: "second"
    display_name: "alice"
    project_key: "src"
`
	_, err := ValidateYAMLContent([]byte(content))
	if err == nil || !strings.Contains(err.Error(), "duplicate display name") {
		t.Fatalf("expected duplicate display name failure, got %v", err)
	}
}

func TestValidateYAMLContent_AccountReferencesUnknownProject(t *testing.T) {
	t.Parallel()

	content := `
sync:
  source_projects: ["src"]
  target_project: "dst"
  requester_login: "collector"

projects:
  - key: "src"
    url: "https://jira.example.com"

accounts:
  - login: "collector"
    display_name: "collector"
    project_key: "elsewhere"
`
	_, err := ValidateYAMLContent([]byte(content))
	if err == nil || !strings.Contains(err.Error(), "no matching project") {
		t.Fatalf("expected unknown project failure, got %v", err)
	}
}
