package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	Environment string
	LogLevel    slog.Level

	// Telegram
	BotToken     string
	WelcomeImage string

	// Storage
	RedisURL string

	// QuestTick is how often in-flight quest screens are refreshed.
	QuestTick time.Duration
}

func Load() *Config {
	return &Config{
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "info")),
		BotToken:     getEnv("BOT_TOKEN", ""),
		WelcomeImage: getEnv("WELCOME_IMAGE", "./data/welcome.png"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),
		QuestTick:    parseDuration(getEnv("QUEST_TICK_INTERVAL", "5s")),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
