package config

import "github.com/hyperjump/smartdata/internal/crawler"

// ApplyDefaults sets default values for any zero values in cfg.
// Folder names under relocate are left alone once base_dir is set, so an
// explicitly empty folder keeps meaning the base directory.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5001
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = ".smartdata/products.db"
	}
	if cfg.Watch.Directory == "" {
		cfg.Watch.Directory = "Desktop/spidertest"
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".json"}
	}
	if cfg.Relocate.BaseDir == "" {
		cfg.Relocate.BaseDir = "Desktop"
		if cfg.Relocate.ProductsFolder == "" {
			cfg.Relocate.ProductsFolder = "product_data"
		}
		if cfg.Relocate.RegulationsFolder == "" {
			cfg.Relocate.RegulationsFolder = "regsdata"
		}
	}
	if cfg.Mappings.Path == "" {
		cfg.Mappings.Path = ".smartdata/keyword_mappings.yaml"
	}
	if cfg.Crawler.Command == "" {
		def := crawler.DefaultConfig()
		cfg.Crawler.Command = def.Command
		if cfg.Crawler.Args == nil {
			cfg.Crawler.Args = def.Args
		}
		if cfg.Crawler.RatePerSecond == 0 {
			cfg.Crawler.RatePerSecond = def.RatePerSecond
		}
	}
	if cfg.Crawler.RulesPath == "" {
		cfg.Crawler.RulesPath = ".smartdata/spider_rules.yaml"
	}
	if cfg.Chat.MaxTokens == 0 {
		cfg.Chat.MaxTokens = 150
	}
	if cfg.Chat.Temperature == 0 {
		cfg.Chat.Temperature = 0.9
	}
	if cfg.Organize.BaseDir == "" {
		cfg.Organize.BaseDir = "Desktop"
	}
}
