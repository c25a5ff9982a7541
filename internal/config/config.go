package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	"github.com/yourorg/lead-scout/internal/env"
	"github.com/yourorg/lead-scout/rapidapi"
	"gopkg.in/yaml.v3"
)

const (
	SourceAuto = "auto"
	SourceLive = "live"
	SourceMock = "mock"
)

// Config is built once at startup and passed to constructors.
type Config struct {
	Port int

	RapidAPIKey       string
	DataSource        string
	Providers         []string
	ProviderOverrides map[string]rapidapi.Config
	ProviderTimeout   time.Duration
	ProviderRetryMax  int
	ProviderRPS       float64
	PageSize          int

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CacheTTL         time.Duration
	CacheStaleAfter  time.Duration
	CacheNegativeTTL time.Duration

	StoreDriver string
	StoreDSN    string

	SweepZips     []string
	SweepSchedule string
	SweepPause    time.Duration
	// SweepInServer runs the scheduled sweep inside the API process.
	SweepInServer bool

	RateLimitPerMinute int
	LogLevel           string
	LogFormat          string
}

func Defaults() Config {
	return Config{
		Port:               4002,
		DataSource:         SourceAuto,
		Providers:          append([]string(nil), rapidapi.DefaultOrder...),
		ProviderTimeout:    8 * time.Second,
		ProviderRPS:        5,
		PageSize:           20,
		OpenAIModel:        "gpt-4o-mini",
		CacheTTL:           30 * time.Minute,
		CacheStaleAfter:    5 * time.Minute,
		CacheNegativeTTL:   2 * time.Minute,
		StoreDriver:        "pgx",
		SweepSchedule:      "@every 6h",
		SweepPause:         2 * time.Second,
		RateLimitPerMinute: 100,
		LogLevel:           "info",
		LogFormat:          "json",
	}
}

// fileConfig mirrors Config for the optional file. Durations are strings so
// the same shape reads from YAML and JSON5.
type fileConfig struct {
	Port               *int                       `json:"port" yaml:"port"`
	DataSource         string                     `json:"data_source" yaml:"data_source"`
	Providers          []string                   `json:"providers" yaml:"providers"`
	ProviderSettings   map[string]rapidapi.Config `json:"provider_settings" yaml:"provider_settings"`
	ProviderTimeout    string                     `json:"provider_timeout" yaml:"provider_timeout"`
	ProviderRetryMax   *int                       `json:"provider_retry_max" yaml:"provider_retry_max"`
	ProviderRPS        *float64                   `json:"provider_rps" yaml:"provider_rps"`
	PageSize           *int                       `json:"page_size" yaml:"page_size"`
	OpenAIModel        string                     `json:"openai_model" yaml:"openai_model"`
	OpenAIBaseURL      string                     `json:"openai_base_url" yaml:"openai_base_url"`
	RedisAddr          string                     `json:"redis_addr" yaml:"redis_addr"`
	RedisDB            *int                       `json:"redis_db" yaml:"redis_db"`
	CacheTTL           string                     `json:"cache_ttl" yaml:"cache_ttl"`
	CacheStaleAfter    string                     `json:"cache_stale_after" yaml:"cache_stale_after"`
	CacheNegativeTTL   string                     `json:"cache_negative_ttl" yaml:"cache_negative_ttl"`
	StoreDriver        string                     `json:"store_driver" yaml:"store_driver"`
	StoreDSN           string                     `json:"store_dsn" yaml:"store_dsn"`
	SweepZips          []string                   `json:"sweep_zips" yaml:"sweep_zips"`
	SweepSchedule      string                     `json:"sweep_schedule" yaml:"sweep_schedule"`
	SweepPause         string                     `json:"sweep_pause" yaml:"sweep_pause"`
	SweepInServer      *bool                      `json:"sweep_in_server" yaml:"sweep_in_server"`
	RateLimitPerMinute *int                       `json:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`
	LogLevel           string                     `json:"log_level" yaml:"log_level"`
	LogFormat          string                     `json:"log_format" yaml:"log_format"`
}

// Load layers defaults, the optional config file and the environment, in
// that order. path falls back to LEADSCOUT_CONFIG; a .env file in the working
// directory is read first when present.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Defaults()
	if path == "" {
		path = env.Get("LEADSCOUT_CONFIG", "")
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json5.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return c.apply(fc)
}

func (c *Config) apply(fc fileConfig) error {
	setInt(&c.Port, fc.Port)
	setStr(&c.DataSource, fc.DataSource)
	if len(fc.Providers) > 0 {
		c.Providers = fc.Providers
	}
	if len(fc.ProviderSettings) > 0 {
		c.ProviderOverrides = make(map[string]rapidapi.Config, len(fc.ProviderSettings))
		for k, v := range fc.ProviderSettings {
			c.ProviderOverrides[strings.ToLower(k)] = v
		}
	}
	setInt(&c.ProviderRetryMax, fc.ProviderRetryMax)
	if fc.ProviderRPS != nil {
		c.ProviderRPS = *fc.ProviderRPS
	}
	setInt(&c.PageSize, fc.PageSize)
	setStr(&c.OpenAIModel, fc.OpenAIModel)
	setStr(&c.OpenAIBaseURL, fc.OpenAIBaseURL)
	setStr(&c.RedisAddr, fc.RedisAddr)
	setInt(&c.RedisDB, fc.RedisDB)
	setStr(&c.StoreDriver, fc.StoreDriver)
	setStr(&c.StoreDSN, fc.StoreDSN)
	if len(fc.SweepZips) > 0 {
		c.SweepZips = fc.SweepZips
	}
	setStr(&c.SweepSchedule, fc.SweepSchedule)
	if fc.SweepInServer != nil {
		c.SweepInServer = *fc.SweepInServer
	}
	setInt(&c.RateLimitPerMinute, fc.RateLimitPerMinute)
	setStr(&c.LogLevel, fc.LogLevel)
	setStr(&c.LogFormat, fc.LogFormat)

	durations := []struct {
		dst *time.Duration
		raw string
		key string
	}{
		{&c.ProviderTimeout, fc.ProviderTimeout, "provider_timeout"},
		{&c.CacheTTL, fc.CacheTTL, "cache_ttl"},
		{&c.CacheStaleAfter, fc.CacheStaleAfter, "cache_stale_after"},
		{&c.CacheNegativeTTL, fc.CacheNegativeTTL, "cache_negative_ttl"},
		{&c.SweepPause, fc.SweepPause, "sweep_pause"},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("config %s: %w", d.key, err)
		}
		*d.dst = v
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = env.GetInt("PORT", c.Port)
	c.RapidAPIKey = env.Get("RAPIDAPI_KEY", c.RapidAPIKey)
	c.DataSource = strings.ToLower(env.Get("DATA_SOURCE", c.DataSource))
	c.Providers = env.List("PROVIDERS", c.Providers)
	c.ProviderTimeout = env.GetDuration("PROVIDER_TIMEOUT", c.ProviderTimeout)
	c.ProviderRetryMax = env.GetInt("PROVIDER_RETRY_MAX", c.ProviderRetryMax)
	c.ProviderRPS = env.GetFloat("PROVIDER_RPS", c.ProviderRPS)
	c.PageSize = env.GetInt("PAGE_SIZE", c.PageSize)

	c.OpenAIKey = env.Get("OPENAI_API_KEY", c.OpenAIKey)
	c.OpenAIModel = env.Get("OPENAI_MODEL", c.OpenAIModel)
	c.OpenAIBaseURL = env.Get("OPENAI_BASE_URL", c.OpenAIBaseURL)

	c.RedisAddr = env.Get("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = env.Get("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = env.GetInt("REDIS_DB", c.RedisDB)
	c.CacheTTL = env.GetDuration("CACHE_TTL", c.CacheTTL)
	c.CacheStaleAfter = env.GetDuration("CACHE_STALE_AFTER", c.CacheStaleAfter)
	c.CacheNegativeTTL = env.GetDuration("CACHE_NEGATIVE_TTL", c.CacheNegativeTTL)

	c.StoreDriver = env.Get("STORE_DRIVER", c.StoreDriver)
	c.StoreDSN = env.Get("STORE_DSN", c.StoreDSN)

	c.SweepZips = env.List("SWEEP_ZIPS", c.SweepZips)
	c.SweepSchedule = env.Get("SWEEP_SCHEDULE", c.SweepSchedule)
	c.SweepPause = env.GetDuration("SWEEP_PAUSE", c.SweepPause)
	c.SweepInServer = env.GetBool("SWEEP_IN_SERVER", c.SweepInServer)

	c.RateLimitPerMinute = env.GetInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
	c.LogLevel = env.Get("LOG_LEVEL", c.LogLevel)
	c.LogFormat = env.Get("LOG_FORMAT", c.LogFormat)
}

func (c Config) Validate() error {
	switch c.DataSource {
	case SourceAuto, SourceLive, SourceMock:
	default:
		return fmt.Errorf("DATA_SOURCE must be auto, live or mock, got %q", c.DataSource)
	}
	switch c.StoreDriver {
	case "pgx", "sqlite3":
	default:
		return fmt.Errorf("STORE_DRIVER must be pgx or sqlite3, got %q", c.StoreDriver)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	return nil
}

// UseMock reports whether searches should be served from sample data.
func (c Config) UseMock() bool {
	return c.DataSource == SourceMock || (c.DataSource == SourceAuto && c.RapidAPIKey == "")
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setStr(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
