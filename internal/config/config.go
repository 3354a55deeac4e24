package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

type PollConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type CacheConfig struct {
	Backend      string `yaml:"backend"` // memory | redis
	HistoryLimit int    `yaml:"history_limit"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type NotifyConfig struct {
	FeedSize int `yaml:"feed_size"`
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
}

type WebConfig struct {
	Port int `yaml:"port"`
}

type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Poll    PollConfig    `yaml:"poll"`
	Log     LogConfig     `yaml:"log"`
	Cache   CacheConfig   `yaml:"cache"`
	Redis   RedisConfig   `yaml:"redis"`
	Notify  NotifyConfig  `yaml:"notify"`
	Web     WebConfig     `yaml:"web"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Poll.Interval <= 0 {
		cfg.Poll.Interval = 2 * time.Second
	}
	if cfg.Backend.Timeout <= 0 {
		cfg.Backend.Timeout = 30 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.HistoryLimit <= 0 {
		cfg.Cache.HistoryLimit = 100
	}
	if cfg.Notify.FeedSize <= 0 {
		cfg.Notify.FeedSize = 50
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8089
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	// Minimal validation
	if cfg.Backend.BaseURL == "" {
		return nil, errors.New("backend.base_url is required")
	}
	switch cfg.Cache.Backend {
	case "memory":
	case "redis":
		if cfg.Redis.URL == "" {
			return nil, errors.New("redis.url is required when cache.backend is redis")
		}
	default:
		return nil, fmt.Errorf("cache.backend must be memory or redis, got %q", cfg.Cache.Backend)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return 24 * time.Hour
	}
	return d
}
