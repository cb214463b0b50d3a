package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API      APIConfig
	Database DatabaseConfig
	UI       UIConfig
}

// APIConfig holds remote storefront API settings. An empty BaseURL selects
// the local sqlite-backed demo gateway.
type APIConfig struct {
	BaseURL        string
	CDNURL         string
	TimeoutSeconds int
}

// DatabaseConfig holds sqlite settings for the demo catalog and the order
// journal.
type DatabaseConfig struct {
	Path string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string
}

// Load reads configuration from file and env. Env var overrides use prefix
// LAREK_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("api.base_url", "")
	v.SetDefault("api.cdn_url", "")
	v.SetDefault("api.timeout_seconds", 10)
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "larek", "larek.db"))
	v.SetDefault("ui.currency_symbol", "syn")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("LAREK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "larek"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("LAREK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if
// needed.
func Save(cfg Config) error {
	path := os.Getenv("LAREK_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "larek", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.cdn_url", cfg.API.CDNURL)
	v.Set("api.timeout_seconds", cfg.API.TimeoutSeconds)
	v.Set("database.path", cfg.Database.Path)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
