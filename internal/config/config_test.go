package config

import (
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"IRIS_BASE_URL", "IRIS_WS_URL", "IRIS_BOT_TOKEN", "BOT_API",
		"IMDB_API_KEY", "IMDB_API", "IMDB_BASE_URL", "IMDB_TIMEOUT_SECONDS",
		"REDIS_ENABLED", "REDIS_HOST", "REDIS_PORT", "SESSION_TTL_MINUTES",
		"KEEPALIVE_ENABLED", "KEEPALIVE_PORT", "BOT_PREFIX", "LOG_LEVEL", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("IMDB_API_KEY", "k_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.IMDb.BaseURL != "https://imdb-api.com/en/API" {
		t.Errorf("unexpected imdb base url %q", cfg.IMDb.BaseURL)
	}
	if cfg.IMDb.Timeout != 10*time.Second {
		t.Errorf("unexpected imdb timeout %v", cfg.IMDb.Timeout)
	}
	if cfg.Bot.Prefix != "/" {
		t.Errorf("unexpected prefix %q", cfg.Bot.Prefix)
	}
	if cfg.Redis.Enabled {
		t.Errorf("redis should be disabled by default")
	}
	if cfg.Session.TTL != 10*time.Minute {
		t.Errorf("unexpected session ttl %v", cfg.Session.TTL)
	}
	if !cfg.KeepAlive.Enabled || cfg.KeepAlive.Port != 5000 {
		t.Errorf("unexpected keep-alive config %+v", cfg.KeepAlive)
	}
}

func TestLoadLegacyVariableNames(t *testing.T) {
	clearEnv(t)
	t.Setenv("IMDB_API", "legacy-imdb")
	t.Setenv("BOT_API", "legacy-bot")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IMDb.APIKey != "legacy-imdb" {
		t.Errorf("expected IMDB_API fallback, got %q", cfg.IMDb.APIKey)
	}
	if cfg.Iris.Token != "legacy-bot" {
		t.Errorf("expected BOT_API fallback, got %q", cfg.Iris.Token)
	}
}

func TestLoadRequiresIMDbKey(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "IMDB_API_KEY") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestValidateRejectsBadKeepAlivePort(t *testing.T) {
	clearEnv(t)
	t.Setenv("IMDB_API_KEY", "k_test")
	t.Setenv("KEEPALIVE_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatalf("expected port validation error")
	}
}
