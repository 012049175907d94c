package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultModel       = "deepseek/deepseek-chat-v3.1:free"
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.7
	DefaultBaseURL     = "https://openrouter.ai/api/v1"

	DefaultArchiveBaseURL = "https://api.github.com"
	DefaultArchiveBranch  = "main"
	DefaultArchivePrefix  = "memolog"

	DefaultSearchEndpoint = "https://api.langsearch.com/v1/web-search"
	DefaultSearchLimit    = 5

	DefaultCommitAt = "23:59"
	DefaultEvolveAt = "00:01"
	DefaultBufSize  = 100
)

type Config struct {
	Agent    AgentConfig    `json:"agent"`
	Provider ProviderConfig `json:"provider"`
	Archive  ArchiveConfig  `json:"archive"`
	Search   SearchConfig   `json:"search"`
	Channels ChannelsConfig `json:"channels"`
	Memory   MemoryConfig   `json:"memory"`
}

type AgentConfig struct {
	Name        string  `json:"name"`
	Workspace   string  `json:"workspace"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

type ProviderConfig struct {
	APIKey  string `json:"apiKey"`
	BaseURL string `json:"baseUrl,omitempty"`
}

// ArchiveConfig points at the GitHub repository that holds the daily
// memory digests.
type ArchiveConfig struct {
	Owner      string `json:"owner"`
	Repo       string `json:"repo"`
	Branch     string `json:"branch,omitempty"`
	Token      string `json:"token"`
	PathPrefix string `json:"pathPrefix,omitempty"`
	BaseURL    string `json:"baseUrl,omitempty"`
}

type SearchConfig struct {
	APIKey   string `json:"apiKey,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type ChannelsConfig struct {
	Telegram TelegramConfig `json:"telegram"`
}

type TelegramConfig struct {
	Enabled   bool     `json:"enabled"`
	Token     string   `json:"token"`
	AllowFrom []string `json:"allowFrom"`
	Proxy     string   `json:"proxy,omitempty"`
}

// MemoryConfig controls the session log store and the daily schedule.
// CommitAt and EvolveAt are local HH:MM instants; the archive commit runs
// at day end, personality evolution at the start of the next day.
type MemoryConfig struct {
	DBPath   string `json:"dbPath,omitempty"`
	CommitAt string `json:"commitAt,omitempty"`
	EvolveAt string `json:"evolveAt,omitempty"`
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Agent: AgentConfig{
			Name:        "Nyx",
			Workspace:   filepath.Join(home, ".nyx", "workspace"),
			Model:       DefaultModel,
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
		},
		Provider: ProviderConfig{
			BaseURL: DefaultBaseURL,
		},
		Archive: ArchiveConfig{
			Branch:     DefaultArchiveBranch,
			PathPrefix: DefaultArchivePrefix,
			BaseURL:    DefaultArchiveBaseURL,
		},
		Search: SearchConfig{
			Endpoint: DefaultSearchEndpoint,
			Limit:    DefaultSearchLimit,
		},
		Channels: ChannelsConfig{},
		Memory: MemoryConfig{
			CommitAt: DefaultCommitAt,
			EvolveAt: DefaultEvolveAt,
		},
	}
}

func ConfigDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".nyx")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// DataDir holds the session database, the personality state file and the
// last-run marker.
func DataDir() string {
	return filepath.Join(ConfigDir(), "data")
}

func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if key := os.Getenv("NYX_OPENROUTER_API_KEY"); key != "" {
		cfg.Provider.APIKey = key
	}
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" && cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = key
	}
	if url := os.Getenv("NYX_BASE_URL"); url != "" {
		cfg.Provider.BaseURL = url
	}
	if token := os.Getenv("NYX_GITHUB_TOKEN"); token != "" {
		cfg.Archive.Token = token
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" && cfg.Archive.Token == "" {
		cfg.Archive.Token = token
	}
	if token := os.Getenv("NYX_TELEGRAM_TOKEN"); token != "" {
		cfg.Channels.Telegram.Token = token
	}
	if key := os.Getenv("NYX_LANGSEARCH_API_KEY"); key != "" {
		cfg.Search.APIKey = key
	}
	if key := os.Getenv("LANGSEARCH_API_KEY"); key != "" && cfg.Search.APIKey == "" {
		cfg.Search.APIKey = key
	}
	if dbPath := os.Getenv("NYX_MEMORY_DB_PATH"); dbPath != "" {
		cfg.Memory.DBPath = dbPath
	}
	if at := os.Getenv("NYX_COMMIT_AT"); at != "" {
		cfg.Memory.CommitAt = at
	}
	if at := os.Getenv("NYX_EVOLVE_AT"); at != "" {
		cfg.Memory.EvolveAt = at
	}

	if cfg.Agent.Workspace == "" {
		cfg.Agent.Workspace = DefaultConfig().Agent.Workspace
	}
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = DefaultBaseURL
	}
	if cfg.Archive.Branch == "" {
		cfg.Archive.Branch = DefaultArchiveBranch
	}
	if cfg.Archive.PathPrefix == "" {
		cfg.Archive.PathPrefix = DefaultArchivePrefix
	}
	if cfg.Archive.BaseURL == "" {
		cfg.Archive.BaseURL = DefaultArchiveBaseURL
	}
	if cfg.Search.Endpoint == "" {
		cfg.Search.Endpoint = DefaultSearchEndpoint
	}
	if cfg.Search.Limit <= 0 {
		cfg.Search.Limit = DefaultSearchLimit
	}
	if cfg.Memory.CommitAt == "" {
		cfg.Memory.CommitAt = DefaultCommitAt
	}
	if cfg.Memory.EvolveAt == "" {
		cfg.Memory.EvolveAt = DefaultEvolveAt
	}

	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(ConfigPath(), data, 0644)
}
