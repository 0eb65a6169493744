// Package config resolves runtime settings from the environment with
// sane defaults. Flags layered on top by the CLI take precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rcliao/persona-chat/internal/chat"
	"github.com/rcliao/persona-chat/internal/model"
)

// Config is the resolved runtime configuration.
type Config struct {
	DBPath  string
	APIKey  string
	BaseURL string

	Model       string
	Temperature float64
	MaxTokens   int
	Stream      bool

	UserPersonaID string
	AIPersonaID   string
}

// Load reads configuration from PERSONA_CHAT_* environment variables,
// falling back to defaults.
func Load() Config {
	return Config{
		DBPath:        getEnv("PERSONA_CHAT_DB", defaultDBPath()),
		APIKey:        getEnv("PERSONA_CHAT_API_KEY", ""),
		BaseURL:       getEnv("PERSONA_CHAT_BASE_URL", chat.DefaultBaseURL),
		Model:         getEnv("PERSONA_CHAT_MODEL", "openai"),
		Temperature:   getEnvFloat("PERSONA_CHAT_TEMPERATURE", 1.0),
		MaxTokens:     getEnvInt("PERSONA_CHAT_MAX_TOKENS", 2000),
		Stream:        getEnvBool("PERSONA_CHAT_STREAM", true),
		UserPersonaID: getEnv("PERSONA_CHAT_USER_PERSONA", ""),
		AIPersonaID:   getEnv("PERSONA_CHAT_AI_PERSONA", ""),
	}
}

// Settings extracts the generation parameters.
func (c Config) Settings() model.Settings {
	return model.Settings{
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		Stream:      c.Stream,
	}
}

// APIKey satisfies chat.AuthProvider, failing fast when no credential
// is configured.
func (c Config) Auth() chat.AuthProvider {
	return keyAuth{key: c.APIKey}
}

type keyAuth struct {
	key string
}

func (a keyAuth) APIKey() (string, error) {
	if a.key == "" {
		return "", fmt.Errorf("set PERSONA_CHAT_API_KEY")
	}
	return a.key, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "persona-chat.db"
	}
	return filepath.Join(home, ".persona-chat", "chat.db")
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

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
