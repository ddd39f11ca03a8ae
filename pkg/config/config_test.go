package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const minimalYAML = `
environment: test
sources:
  koreaexim_url: https://example.com/exim
  naver_url: https://example.com/naver
  backup_url: https://example.com/backup
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Sources.Timeout != 5*time.Second {
		t.Errorf("sources.timeout = %v, want 5s", c.Sources.Timeout)
	}
	if c.Sources.LookbackDays != 7 {
		t.Errorf("sources.lookback_days = %d, want 7", c.Sources.LookbackDays)
	}
	if c.Sources.WindowDays != 30 {
		t.Errorf("sources.window_days = %d, want 30", c.Sources.WindowDays)
	}
	if c.Sources.Timezone != "Asia/Seoul" {
		t.Errorf("sources.timezone = %q, want Asia/Seoul", c.Sources.Timezone)
	}
	if c.Cache.TTL != 10*time.Minute {
		t.Errorf("cache.ttl = %v, want 10m", c.Cache.TTL)
	}
	if c.Scheduler.RefreshCron != "0 30 11 * * *" {
		t.Errorf("scheduler.refresh_cron = %q", c.Scheduler.RefreshCron)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing environment", `
sources:
  koreaexim_url: https://example.com/exim
  naver_url: https://example.com/naver
  backup_url: https://example.com/backup
`},
		{"missing backup url", `
environment: test
sources:
  koreaexim_url: https://example.com/exim
  naver_url: https://example.com/naver
`},
		{"kafka enabled without brokers", minimalYAML + `
kafka:
  enabled: true
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("KOREAEXIM_API_KEY", "env-key")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("REDIS_ADDR", "redis:6379")

	c, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Sources.KoreaeximAPIKey != "env-key" {
		t.Errorf("koreaexim api key = %q, want env-key", c.Sources.KoreaeximAPIKey)
	}
	if !c.Kafka.Enabled || len(c.Kafka.Brokers) != 2 {
		t.Errorf("kafka = enabled=%v brokers=%v, want enabled with 2 brokers", c.Kafka.Enabled, c.Kafka.Brokers)
	}
	if !c.Cache.Redis.Enabled || c.Cache.Redis.Addr != "redis:6379" {
		t.Errorf("redis = enabled=%v addr=%q", c.Cache.Redis.Enabled, c.Cache.Redis.Addr)
	}
}
