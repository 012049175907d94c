package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if cfg.Agent.Model != DefaultModel {
		t.Errorf("model = %q, want %q", cfg.Agent.Model, DefaultModel)
	}
	if cfg.Agent.Name != "Nyx" {
		t.Errorf("name = %q, want Nyx", cfg.Agent.Name)
	}
	if cfg.Provider.BaseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", cfg.Provider.BaseURL, DefaultBaseURL)
	}
	if cfg.Archive.PathPrefix != DefaultArchivePrefix {
		t.Errorf("pathPrefix = %q, want %q", cfg.Archive.PathPrefix, DefaultArchivePrefix)
	}
	if cfg.Memory.CommitAt != DefaultCommitAt {
		t.Errorf("commitAt = %q, want %q", cfg.Memory.CommitAt, DefaultCommitAt)
	}
	if cfg.Memory.EvolveAt != DefaultEvolveAt {
		t.Errorf("evolveAt = %q, want %q", cfg.Memory.EvolveAt, DefaultEvolveAt)
	}
	if cfg.Agent.Workspace == "" {
		t.Error("workspace should not be empty")
	}
}

func clearEnvOverrides(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NYX_OPENROUTER_API_KEY", "OPENROUTER_API_KEY", "NYX_BASE_URL",
		"NYX_GITHUB_TOKEN", "GITHUB_TOKEN", "NYX_TELEGRAM_TOKEN",
		"NYX_LANGSEARCH_API_KEY", "LANGSEARCH_API_KEY",
		"NYX_MEMORY_DB_PATH", "NYX_COMMIT_AT", "NYX_EVOLVE_AT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnvOverrides(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Agent.Model != DefaultModel {
		t.Errorf("expected default model %q, got %q", DefaultModel, cfg.Agent.Model)
	}
	if cfg.Archive.Branch != DefaultArchiveBranch {
		t.Errorf("expected default branch, got %q", cfg.Archive.Branch)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	clearEnvOverrides(t)

	cfgDir := filepath.Join(tmpDir, ".nyx")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatal(err)
	}

	testCfg := map[string]any{
		"agent": map[string]any{
			"name":  "Nova",
			"model": "openai/gpt-4o-mini",
		},
		"archive": map[string]any{
			"owner": "darkstrike03",
			"repo":  "nyx-memolog",
		},
		"memory": map[string]any{
			"commitAt": "22:30",
		},
	}
	data, _ := json.Marshal(testCfg)
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Agent.Name != "Nova" {
		t.Errorf("name = %q, want Nova", cfg.Agent.Name)
	}
	if cfg.Agent.Model != "openai/gpt-4o-mini" {
		t.Errorf("model = %q", cfg.Agent.Model)
	}
	if cfg.Archive.Owner != "darkstrike03" || cfg.Archive.Repo != "nyx-memolog" {
		t.Errorf("archive = %+v", cfg.Archive)
	}
	if cfg.Memory.CommitAt != "22:30" {
		t.Errorf("commitAt = %q, want 22:30", cfg.Memory.CommitAt)
	}
	// Unset fields fall back to defaults.
	if cfg.Memory.EvolveAt != DefaultEvolveAt {
		t.Errorf("evolveAt = %q, want default", cfg.Memory.EvolveAt)
	}
	if cfg.Archive.BaseURL != DefaultArchiveBaseURL {
		t.Errorf("archive baseURL = %q, want default", cfg.Archive.BaseURL)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnvOverrides(t)
	t.Setenv("NYX_OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("NYX_GITHUB_TOKEN", "ghp_test")
	t.Setenv("NYX_COMMIT_AT", "23:45")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Provider.APIKey != "sk-or-test" {
		t.Errorf("apiKey = %q", cfg.Provider.APIKey)
	}
	if cfg.Archive.Token != "ghp_test" {
		t.Errorf("archive token = %q", cfg.Archive.Token)
	}
	if cfg.Memory.CommitAt != "23:45" {
		t.Errorf("commitAt = %q", cfg.Memory.CommitAt)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnvOverrides(t)

	cfg := DefaultConfig()
	cfg.Archive.Owner = "darkstrike03"
	cfg.Archive.Repo = "nyx-memolog"

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig error: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if loaded.Archive.Owner != "darkstrike03" {
		t.Errorf("owner = %q after round trip", loaded.Archive.Owner)
	}
}
