package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all library configuration.
type Config struct {
	API struct {
		BaseURL        string `yaml:"base_url"`
		UserAgent      string `yaml:"user_agent"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"api"`
	Cache struct {
		SQLitePath string `yaml:"sqlite_path"`
		RedisAddr  string `yaml:"redis_addr"`
		ImageDir   string `yaml:"image_dir"`
	} `yaml:"cache"`
	Refresh struct {
		DailyCron  string `yaml:"daily_cron"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"refresh"`
	Watchlist struct {
		SnapshotFile string `yaml:"snapshot_file"`
	} `yaml:"watchlist"`
	Profile struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"profile"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("GE_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("GE_API_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.API.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("GE_SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if v := os.Getenv("GE_REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("GE_IMAGE_DIR"); v != "" {
		cfg.Cache.ImageDir = v
	}
	if v := os.Getenv("GE_REFRESH_CRON"); v != "" {
		cfg.Refresh.DailyCron = v
	}
	if v := os.Getenv("GE_RUN_ON_START"); v != "" {
		cfg.Refresh.RunOnStart = v == "true"
	}

	// Defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://prices.runescape.wiki/api/v1/osrs"
	}
	if cfg.API.UserAgent == "" {
		cfg.API.UserAgent = "GETracker/1.0 (price tracking client)"
	}
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = 10
	}
	if cfg.Cache.SQLitePath == "" {
		cfg.Cache.SQLitePath = "data/getracker.db"
	}
	if cfg.Cache.ImageDir == "" {
		cfg.Cache.ImageDir = "data/images"
	}
	if cfg.Refresh.DailyCron == "" {
		cfg.Refresh.DailyCron = "0 0 6 * * *"
	}
	// Watchlist.SnapshotFile stays empty by default: the snapshot then
	// lives in the key-value cache store.
	if cfg.Profile.StateFile == "" {
		cfg.Profile.StateFile = "data/profile.json"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be positive")
	}
	if c.Cache.SQLitePath == "" && c.Cache.RedisAddr == "" {
		return fmt.Errorf("either cache.sqlite_path or cache.redis_addr is required")
	}
	return nil
}
