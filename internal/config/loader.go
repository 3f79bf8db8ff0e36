package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigPath returns the default configuration file path: ~/.menupilot/config.yaml.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".menupilot/config.yaml"
	}
	return filepath.Join(home, ".menupilot", "config.yaml")
}

// DataDir returns the menupilot data directory: ~/.menupilot.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".menupilot"
	}
	return filepath.Join(home, ".menupilot")
}

// Load reads and parses the config file at path, applying defaults for
// everything the file omits and environment overrides on top. If path is
// empty, ConfigPath() is used. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = filepath.Join(DataDir(), "cache")
	}
	return &cfg, nil
}

// applyEnvOverrides lets credentials come from the environment (or a .env
// file loaded by the caller) so the config file can stay secret-free.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Channels.Telegram.Token = v
	}
	if v := os.Getenv("RESTAURANT_URL"); v != "" {
		cfg.Restaurant.URL = v
	}
}

// Save writes cfg to path as YAML. If path is empty, ConfigPath() is used.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
