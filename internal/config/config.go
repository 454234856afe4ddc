// Package config provides configuration loading and structs for the Jiten server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Search     SearchConfig     `yaml:"search"`
	Suggestion SuggestionConfig `yaml:"suggestion"`
	Cache      CacheConfig      `yaml:"cache"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig holds paths for the database, the vector indices and the
// suggestion word lists.
type StorageConfig struct {
	DatabasePath  string `yaml:"database_path"`
	IndexDir      string `yaml:"index_dir"`
	SuggestionDir string `yaml:"suggestion_dir"`
}

// SearchConfig holds engine tuning and request defaults.
type SearchConfig struct {
	Threshold   float64 `yaml:"threshold"`
	Limit       int     `yaml:"limit"`
	VectorLimit int     `yaml:"vector_limit"`
	PageSize    int     `yaml:"page_size"`
	AllowAlign  *bool   `yaml:"allow_align"`
	ShowEnglish *bool   `yaml:"show_english"`
}

// AllowAlignOrDefault returns whether spelling alignment is enabled; defaults to true when unset.
func (s *SearchConfig) AllowAlignOrDefault() bool {
	if s.AllowAlign != nil {
		return *s.AllowAlign
	}
	return true
}

// ShowEnglishOrDefault returns whether English results accompany other
// languages; defaults to true when unset.
func (s *SearchConfig) ShowEnglishOrDefault() bool {
	if s.ShowEnglish != nil {
		return *s.ShowEnglish
	}
	return true
}

// SuggestionConfig holds autocomplete settings.
type SuggestionConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	MaxResults int           `yaml:"max_results"`
}

// CacheConfig holds in-process cache sizes.
type CacheConfig struct {
	KanjiCapacity int `yaml:"kanji_capacity"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.IndexDir = expandPath(cfg.Storage.IndexDir, configDir)
	cfg.Storage.SuggestionDir = expandPath(cfg.Storage.SuggestionDir, configDir)

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.Search.Threshold < 0 || cfg.Search.Threshold >= 1 {
		return fmt.Errorf("invalid search threshold %v: must be in [0, 1)", cfg.Search.Threshold)
	}
	if cfg.Suggestion.Timeout < 0 {
		return fmt.Errorf("invalid suggestion timeout %v", cfg.Suggestion.Timeout)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory. ":memory:" is kept as is.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) || path == ":memory:" {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
