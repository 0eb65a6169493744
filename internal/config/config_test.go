package config

import (
	"testing"

	"github.com/rcliao/persona-chat/internal/chat"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PERSONA_CHAT_DB", "PERSONA_CHAT_API_KEY", "PERSONA_CHAT_BASE_URL",
		"PERSONA_CHAT_MODEL", "PERSONA_CHAT_TEMPERATURE",
		"PERSONA_CHAT_MAX_TOKENS", "PERSONA_CHAT_STREAM",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Model != "openai" {
		t.Errorf("expected default model, got %q", cfg.Model)
	}
	if cfg.Temperature != 1.0 {
		t.Errorf("expected default temperature, got %v", cfg.Temperature)
	}
	if cfg.MaxTokens != 2000 {
		t.Errorf("expected default max tokens, got %d", cfg.MaxTokens)
	}
	if !cfg.Stream {
		t.Error("streaming should default on")
	}
	if cfg.BaseURL != chat.DefaultBaseURL {
		t.Errorf("expected default base URL, got %q", cfg.BaseURL)
	}
	if cfg.DBPath == "" {
		t.Error("db path should never be empty")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PERSONA_CHAT_MODEL", "mistral")
	t.Setenv("PERSONA_CHAT_TEMPERATURE", "0.3")
	t.Setenv("PERSONA_CHAT_MAX_TOKENS", "512")
	t.Setenv("PERSONA_CHAT_STREAM", "false")
	t.Setenv("PERSONA_CHAT_DB", "/tmp/alt.db")

	cfg := Load()
	if cfg.Model != "mistral" || cfg.Temperature != 0.3 || cfg.MaxTokens != 512 {
		t.Errorf("environment not applied: %+v", cfg)
	}
	if cfg.Stream {
		t.Error("stream=false not applied")
	}
	if cfg.DBPath != "/tmp/alt.db" {
		t.Errorf("db path not applied: %q", cfg.DBPath)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PERSONA_CHAT_TEMPERATURE", "warm")
	t.Setenv("PERSONA_CHAT_MAX_TOKENS", "many")
	t.Setenv("PERSONA_CHAT_STREAM", "yes please")

	cfg := Load()
	if cfg.Temperature != 1.0 || cfg.MaxTokens != 2000 || !cfg.Stream {
		t.Errorf("malformed values should fall back to defaults: %+v", cfg)
	}
}

func TestAuthFailsWithoutKey(t *testing.T) {
	auth := Config{}.Auth()
	if _, err := auth.APIKey(); err == nil {
		t.Error("expected error with no key configured")
	}

	auth = Config{APIKey: "sk_live"}.Auth()
	key, err := auth.APIKey()
	if err != nil || key != "sk_live" {
		t.Errorf("expected configured key, got %q (%v)", key, err)
	}
}

func TestSettings(t *testing.T) {
	cfg := Config{Model: "openai", Temperature: 0.7, MaxTokens: 100, Stream: true}
	s := cfg.Settings()
	if s.Model != "openai" || s.Temperature != 0.7 || s.MaxTokens != 100 || !s.Stream {
		t.Errorf("settings mismatch: %+v", s)
	}
}
