package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider.Model != "gemini-2.0-flash" {
		t.Errorf("default model = %q", cfg.Provider.Model)
	}
	if cfg.Refresh.Schedule != "@every 15m" {
		t.Errorf("default refresh schedule = %q", cfg.Refresh.Schedule)
	}
	if cfg.Cache.Dir == "" {
		t.Error("cache dir should be resolved to a default path")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
restaurant:
  url: spicehouse
  owner:
    name: Asha
chat:
  historyWindow: 10
channels:
  telegram:
    enabled: true
    token: tok-123
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Restaurant.URL != "spicehouse" {
		t.Errorf("restaurant url = %q", cfg.Restaurant.URL)
	}
	if cfg.Chat.HistoryWindow != 10 {
		t.Errorf("history window = %d", cfg.Chat.HistoryWindow)
	}
	if !cfg.Channels.Telegram.Enabled || cfg.Channels.Telegram.Token != "tok-123" {
		t.Errorf("telegram config = %+v", cfg.Channels.Telegram)
	}
	// Untouched sections keep their defaults.
	if cfg.Chat.MaxTokens != 4096 {
		t.Errorf("maxTokens should default, got %d", cfg.Chat.MaxTokens)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("MONGO_URI", "mongodb://db.example:27017")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider.APIKey != "env-key" {
		t.Errorf("api key = %q", cfg.Provider.APIKey)
	}
	if cfg.Mongo.URI != "mongodb://db.example:27017" {
		t.Errorf("mongo uri = %q", cfg.Mongo.URI)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Restaurant.URL = "spicehouse"

	if err := Save(&cfg, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Restaurant.URL != "spicehouse" {
		t.Errorf("round-trip lost restaurant url, got %q", loaded.Restaurant.URL)
	}
}
