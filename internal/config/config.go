// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token              string  `yaml:"token"`
	Mode               string  `yaml:"mode"`    // polling | noop (log outgoing messages, no Telegram connection)
	Workers            int     `yaml:"workers"` // update handling workers
	AdminIDs           []int64 `yaml:"admin_ids"`
	TrustedIDs         []int64 `yaml:"trusted_ids"`
	RateLimitPerMinute int     `yaml:"rate_limit_per_minute"` // link submissions per user
	Language           string  `yaml:"language"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port int `yaml:"port"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type QueueConfig struct {
	Workers          int           `yaml:"workers"`
	NotifyFailures   bool          `yaml:"notify_failures"`
	BrokerRetryDelay time.Duration `yaml:"broker_retry_delay"`
}

type DownloaderConfig struct {
	Binary         string        `yaml:"binary"`
	CacheDir       string        `yaml:"cache_dir"`
	AudioFormat    string        `yaml:"audio_format"`
	CacheRetention time.Duration `yaml:"cache_retention"` // downloads older than this are pruned
	SweepInterval  time.Duration `yaml:"sweep_interval"`
}

type UploaderConfig struct {
	BaseURL         string        `yaml:"base_url"`
	ContentType     string        `yaml:"content_type"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	TransferTimeout time.Duration `yaml:"transfer_timeout"`
}

type Config struct {
	Bot        BotConfig        `yaml:"bot"`
	Log        LogConfig        `yaml:"log"`
	Admin      AdminConfig      `yaml:"admin"`
	Redis      RedisConfig      `yaml:"redis"`
	Queue      QueueConfig      `yaml:"queue"`
	Downloader DownloaderConfig `yaml:"downloader"`
	Uploader   UploaderConfig   `yaml:"uploader"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path, applies environment overrides and defaults.
// A missing file is fine as long as the environment provides the required values.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// env only
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	// Minimal validation
	if cfg.Bot.Token == "" && cfg.Bot.Mode != "noop" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := firstEnv("BOT_TOKEN", "TELOXIDE_TOKEN"); v != "" {
		cfg.Bot.Token = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		cfg.Admin.Port = port
	}
	if v := os.Getenv("TRUSTED_USER_IDS"); v != "" {
		ids, err := ParseIDList(v)
		if err != nil {
			return fmt.Errorf("TRUSTED_USER_IDS: %w", err)
		}
		cfg.Bot.TrustedIDs = ids
	}
	if v := os.Getenv("ADMIN_USER_IDS"); v != "" {
		ids, err := ParseIDList(v)
		if err != nil {
			return fmt.Errorf("ADMIN_USER_IDS: %w", err)
		}
		cfg.Bot.AdminIDs = ids
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 4
	}
	if cfg.Bot.Mode == "" {
		cfg.Bot.Mode = "polling"
	}
	if cfg.Bot.Language == "" {
		cfg.Bot.Language = "en"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 8080
	}
	if cfg.Queue.Workers <= 0 {
		cfg.Queue.Workers = 2
	}
	if cfg.Queue.BrokerRetryDelay <= 0 {
		cfg.Queue.BrokerRetryDelay = time.Second
	}
	if cfg.Downloader.Binary == "" {
		cfg.Downloader.Binary = "yt-dlp"
	}
	if cfg.Downloader.CacheDir == "" {
		cfg.Downloader.CacheDir = ".cache"
	}
	if cfg.Downloader.AudioFormat == "" {
		cfg.Downloader.AudioFormat = "m4a"
	}
	if cfg.Downloader.CacheRetention <= 0 {
		cfg.Downloader.CacheRetention = 24 * time.Hour
	}
	if cfg.Downloader.SweepInterval <= 0 {
		cfg.Downloader.SweepInterval = time.Hour
	}
	if cfg.Uploader.BaseURL == "" {
		cfg.Uploader.BaseURL = "https://api.pocketcasts.com"
	}
	if cfg.Uploader.ContentType == "" {
		cfg.Uploader.ContentType = "audio/mp4"
	}
	if cfg.Uploader.RequestTimeout <= 0 {
		cfg.Uploader.RequestTimeout = 5 * time.Second
	}
	if cfg.Uploader.TransferTimeout <= 0 {
		cfg.Uploader.TransferTimeout = 10 * time.Minute
	}
}

// ParseIDList accepts "1,2, 3" as well as the bracketed "[1,2,3]" form.
func ParseIDList(s string) ([]int64, error) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
