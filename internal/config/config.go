// Package config provides configuration loading and structs for the smartdata server.
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
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Watch    WatchConfig    `yaml:"watch"`
	Relocate RelocateConfig `yaml:"relocate"`
	Mappings MappingsConfig `yaml:"mappings"`
	Crawler  CrawlerConfig  `yaml:"crawler"`
	Chat     ChatConfig     `yaml:"chat"`
	Organize OrganizeConfig `yaml:"organize"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the database location.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// WatchConfig holds drop directory settings.
type WatchConfig struct {
	Directory            string   `yaml:"directory"`
	Extensions           []string `yaml:"extensions"`
	SettleDelayMs        *int     `yaml:"settle_delay_ms"`
	ProcessExisting      bool     `yaml:"process_existing"`
	RelocateOnStoreError bool     `yaml:"relocate_on_store_error"`
}

// SettleDelay returns the settle delay; defaults to 200ms when unset. Zero disables settling.
func (w *WatchConfig) SettleDelay() time.Duration {
	if w.SettleDelayMs != nil {
		return time.Duration(*w.SettleDelayMs) * time.Millisecond
	}
	return 200 * time.Millisecond
}

// RelocateConfig holds destination folders, relative to BaseDir.
// An empty folder name means BaseDir itself.
type RelocateConfig struct {
	BaseDir           string `yaml:"base_dir"`
	ProductsFolder    string `yaml:"products_folder"`
	RegulationsFolder string `yaml:"regulations_folder"`
	DefaultFolder     string `yaml:"default_folder"`
}

// MappingsConfig holds the keyword mapping resource location.
type MappingsConfig struct {
	Path string `yaml:"path"`
}

// CrawlerConfig holds the external crawler command. Args may contain {url} and {description}.
type CrawlerConfig struct {
	Command       string   `yaml:"command"`
	Args          []string `yaml:"args"`
	WorkDir       string   `yaml:"work_dir"`
	RulesPath     string   `yaml:"rules_path"`
	RatePerSecond float64  `yaml:"rate_per_second"`
}

// ChatConfig holds chat completion settings. An empty APIKey falls back to OPENAI_API_KEY.
type ChatConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

// OrganizeConfig holds where dumped info is organised.
type OrganizeConfig struct {
	BaseDir string `yaml:"base_dir"`
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

	ApplyDefaults(&cfg)
	ExpandPaths(&cfg, filepath.Dir(path))
	return &cfg, nil
}

// Default returns the default configuration with paths expanded against configDir.
func Default(configDir string) *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	ExpandPaths(cfg, configDir)
	return cfg
}

// ExpandPaths makes every path in cfg absolute.
func ExpandPaths(cfg *Config, configDir string) {
	for _, p := range []*string{
		&cfg.Storage.DatabasePath,
		&cfg.Watch.Directory,
		&cfg.Relocate.BaseDir,
		&cfg.Mappings.Path,
		&cfg.Crawler.RulesPath,
		&cfg.Organize.BaseDir,
	} {
		*p = expandPath(*p, configDir)
	}
	if cfg.Crawler.WorkDir != "" {
		cfg.Crawler.WorkDir = expandPath(cfg.Crawler.WorkDir, configDir)
	}
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

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
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
