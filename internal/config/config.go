package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds every tunable for the app. Values resolve in order: yaml file
// (explicit path, then $KINDLING_CONFIG, then config.yaml in the user config
// dir), environment variables, built-in defaults.
type Config struct {
	DataDir string `yaml:"data_dir" env:"KINDLING_DATA_DIR"`
	DBPath  string `yaml:"db_path" env:"KINDLING_DB_PATH"`
	LogPath string `yaml:"log_path" env:"KINDLING_LOG_PATH"`

	HTTPTimeout  time.Duration `yaml:"http_timeout" env:"KINDLING_HTTP_TIMEOUT" env-default:"10s"`
	StoryListTTL time.Duration `yaml:"story_list_ttl" env:"KINDLING_STORY_LIST_TTL" env-default:"60s"`
	ItemTTL      time.Duration `yaml:"item_ttl" env:"KINDLING_ITEM_TTL" env-default:"5m"`
	UserTTL      time.Duration `yaml:"user_ttl" env:"KINDLING_USER_TTL" env-default:"1h"`

	FetchPageSize    int           `yaml:"fetch_page_size" env:"KINDLING_FETCH_PAGE_SIZE" env-default:"30"`
	CommentBatchSize int           `yaml:"comment_batch_size" env:"KINDLING_COMMENT_BATCH_SIZE" env-default:"5"`
	CommentMaxDepth  int           `yaml:"comment_max_depth" env:"KINDLING_COMMENT_MAX_DEPTH" env-default:"5"`
	LoadMoreDebounce time.Duration `yaml:"load_more_debounce" env:"KINDLING_LOAD_MORE_DEBOUNCE" env-default:"1s"`

	MonitorInterval time.Duration `yaml:"monitor_interval" env:"KINDLING_MONITOR_INTERVAL" env-default:"2m"`
	LiveRefresh     time.Duration `yaml:"live_refresh" env:"KINDLING_LIVE_REFRESH" env-default:"30s"`
}

// Load reads configuration. An empty path falls back to $KINDLING_CONFIG,
// then to config.yaml under the user config dir, then to env vars alone.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		path = os.Getenv("KINDLING_CONFIG")
	}
	if path == "" {
		candidate := filepath.Join(userConfigDir(), "kindling", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read config from env: %w", err)
		}
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = filepath.Join(userConfigDir(), "kindling")
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "kindling.db")
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join(c.DataDir, "kindling.log")
	}
}

func (c *Config) validate() error {
	if c.FetchPageSize < 1 {
		return fmt.Errorf("fetch_page_size must be positive, got %d", c.FetchPageSize)
	}
	if c.CommentBatchSize < 1 {
		return fmt.Errorf("comment_batch_size must be positive, got %d", c.CommentBatchSize)
	}
	if c.CommentMaxDepth < 0 {
		return fmt.Errorf("comment_max_depth must not be negative, got %d", c.CommentMaxDepth)
	}
	return nil
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}
