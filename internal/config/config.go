// Package config loads daemon configuration from environment variables.
package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/yourusername/briefd/internal/platform"
)

// LoadEnv loads .env from the working directory into the process
// environment. A missing file is not an error.
func LoadEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: load .env: %v", err)
	}
}

// Config holds all runtime configuration for briefd.
type Config struct {
	Port        string
	WorkDir     string
	DBPath      string
	ProfilePath string

	TrackerURL   string
	TrackerToken string

	TelegramToken  string
	TelegramChatID int64

	AnthropicKey   string
	AnthropicModel string

	APIKey string

	BriefingCapacity int
	HistoryKeep      int
}

// Load reads environment variables and returns a Config.
// Uses sensible defaults for optional fields.
// Panics if required fields are empty.
func Load() *Config {
	workDir := getEnv("WORK_DIR", platform.DefaultWorkDir())

	dbPath := getEnv("DB_PATH", filepath.Join(workDir, "briefd.db"))
	if dbPath == "" {
		panic("config: DB_PATH is required")
	}

	chatID, _ := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)

	return &Config{
		Port:        getEnv("PORT", "8080"),
		WorkDir:     workDir,
		DBPath:      dbPath,
		ProfilePath: getEnv("PROFILE_PATH", filepath.Join(workDir, "profile.yaml")),

		TrackerURL:   os.Getenv("TRACKER_URL"),
		TrackerToken: os.Getenv("TRACKER_TOKEN"),

		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID: chatID,

		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel: getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5"),

		APIKey: os.Getenv("API_KEY"),

		BriefingCapacity: getEnvInt("BRIEFING_CAPACITY", 2000),
		HistoryKeep:      getEnvInt("HISTORY_KEEP", 30),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
