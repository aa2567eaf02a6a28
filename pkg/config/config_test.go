package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const minimalYAML = `
environment: test
provider:
  api_key: demo
  symbols: [INFY.BSE]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Backend != "memory" {
		t.Fatalf("cache backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != time.Minute {
		t.Fatalf("cache ttl = %v, want 1m", cfg.Cache.TTL)
	}
	if cfg.Forecast.Recommendation.BuyThresholdPct != 3.0 {
		t.Fatalf("buy threshold = %v, want 3.0", cfg.Forecast.Recommendation.BuyThresholdPct)
	}
	if cfg.Tax.STT.SellShort != 0.00025 {
		t.Fatalf("stt sell short = %v", cfg.Tax.STT.SellShort)
	}
	if cfg.Provider.MaxPerMinute != 5 {
		t.Fatalf("provider max per minute = %d", cfg.Provider.MaxPerMinute)
	}
}

func TestLoadRejectsMissingAPIKey(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: test\n"))
	if err == nil {
		t.Fatal("config without provider.api_key must fail validation")
	}
}

func TestLoadRejectsBadCacheBackend(t *testing.T) {
	body := minimalYAML + "cache:\n  backend: memcached\n"
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatal("unknown cache backend must fail validation")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("ALPHA_VANTAGE_API_KEY", "env-key")
	t.Setenv("SYMBOLS", "TCS.BSE,SBIN.BSE")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if cfg.Provider.APIKey != "env-key" {
		t.Fatalf("api key = %q", cfg.Provider.APIKey)
	}
	if len(cfg.Provider.Symbols) != 2 || cfg.Provider.Symbols[1] != "SBIN.BSE" {
		t.Fatalf("symbols = %v", cfg.Provider.Symbols)
	}
}
