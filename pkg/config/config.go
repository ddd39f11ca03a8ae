package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Sources struct {
		KoreaeximURL    string        `yaml:"koreaexim_url"`
		KoreaeximAPIKey string        `yaml:"koreaexim_api_key"`
		NaverURL        string        `yaml:"naver_url"`
		BackupURL       string        `yaml:"backup_url"`
		Timeout         time.Duration `yaml:"timeout"`
		LookbackDays    int           `yaml:"lookback_days"`
		WindowDays      int           `yaml:"window_days"`
		Timezone        string        `yaml:"timezone"`
	} `yaml:"sources"`
	ClickHouse struct {
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"clickhouse"`
	Cache struct {
		TTL   time.Duration `yaml:"ttl"`
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
	} `yaml:"kafka"`
	Narrative struct {
		APIKey    string        `yaml:"api_key"`
		Model     string        `yaml:"model"`
		MaxTokens int           `yaml:"max_tokens"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"narrative"`
	Scheduler struct {
		Enabled     bool   `yaml:"enabled"`
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"scheduler"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("KOREAEXIM_API_KEY"); v != "" {
		c.Sources.KoreaeximAPIKey = v
	}
	if v := os.Getenv("NARRATIVE_API_KEY"); v != "" {
		c.Narrative.APIKey = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Sources.Timeout <= 0 {
		c.Sources.Timeout = 5 * time.Second
	}
	if c.Sources.LookbackDays <= 0 {
		c.Sources.LookbackDays = 7
	}
	if c.Sources.WindowDays <= 0 {
		c.Sources.WindowDays = 30
	}
	if c.Sources.Timezone == "" {
		c.Sources.Timezone = "Asia/Seoul"
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 10 * time.Minute
	}
	if c.Narrative.Model == "" {
		c.Narrative.Model = "claude-sonnet-4-20250514"
	}
	if c.Narrative.MaxTokens <= 0 {
		c.Narrative.MaxTokens = 1200
	}
	if c.Narrative.Timeout <= 0 {
		c.Narrative.Timeout = 30 * time.Second
	}
	if c.Scheduler.RefreshCron == "" {
		c.Scheduler.RefreshCron = "0 30 11 * * *"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Sources.KoreaeximURL == "" {
		return fmt.Errorf("sources.koreaexim_url is required")
	}
	if c.Sources.NaverURL == "" {
		return fmt.Errorf("sources.naver_url is required")
	}
	if c.Sources.BackupURL == "" {
		return fmt.Errorf("sources.backup_url is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
