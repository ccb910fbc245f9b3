package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kapu/media-rating-bot-go/internal/constants"
)

type Config struct {
	Iris      IrisConfig
	IMDb      IMDbConfig
	Redis     RedisConfig
	Session   SessionConfig
	KeepAlive KeepAliveConfig
	Logging   LoggingConfig
	Bot       BotConfig
}

type IrisConfig struct {
	BaseURL string
	WSURL   string
	Token   string
}

type IMDbConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type SessionConfig struct {
	TTL time.Duration
}

type KeepAliveConfig struct {
	Enabled bool
	Host    string
	Port    int
}

type LoggingConfig struct {
	Level string
	File  string
}

type BotConfig struct {
	Prefix string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Iris: IrisConfig{
			BaseURL: getEnv("IRIS_BASE_URL", "http://localhost:3000"),
			WSURL:   getEnv("IRIS_WS_URL", "ws://localhost:3000/ws"),
			Token:   getEnvFallback([]string{"IRIS_BOT_TOKEN", "BOT_API"}, ""),
		},
		IMDb: IMDbConfig{
			APIKey:  getEnvFallback([]string{"IMDB_API_KEY", "IMDB_API"}, ""),
			BaseURL: strings.TrimRight(getEnv("IMDB_BASE_URL", constants.APIConfig.IMDbBaseURL), "/"),
			Timeout: time.Duration(getEnvInt("IMDB_TIMEOUT_SECONDS", int(constants.APIConfig.IMDbTimeout/time.Second))) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			TTL: time.Duration(getEnvInt("SESSION_TTL_MINUTES", int(constants.SessionConfig.TTL/time.Minute))) * time.Minute,
		},
		KeepAlive: KeepAliveConfig{
			Enabled: getEnvBool("KEEPALIVE_ENABLED", true),
			Host:    getEnv("KEEPALIVE_HOST", "0.0.0.0"),
			Port:    getEnvInt("KEEPALIVE_PORT", 5000),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Bot: BotConfig{
			Prefix: getEnv("BOT_PREFIX", "/"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Iris.BaseURL == "" {
		return fmt.Errorf("IRIS_BASE_URL is required")
	}
	if c.Iris.WSURL == "" {
		return fmt.Errorf("IRIS_WS_URL is required")
	}
	if c.IMDb.APIKey == "" {
		return fmt.Errorf("IMDB_API_KEY is required")
	}
	if c.IMDb.BaseURL == "" {
		return fmt.Errorf("IMDB_BASE_URL must not be empty")
	}
	if c.IMDb.Timeout <= 0 {
		return fmt.Errorf("IMDB_TIMEOUT_SECONDS must be positive")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}
	if c.KeepAlive.Enabled && (c.KeepAlive.Port <= 0 || c.KeepAlive.Port > 65535) {
		return fmt.Errorf("KEEPALIVE_PORT %d is out of range", c.KeepAlive.Port)
	}
	if strings.TrimSpace(c.Bot.Prefix) == "" {
		return fmt.Errorf("BOT_PREFIX must not be blank")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFallback returns the first non-empty variable among keys.
func getEnvFallback(keys []string, defaultValue string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
