package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Defaults applied for fields the config file leaves unset.
const (
	DefaultBridgeAPIURL = "http://localhost:8080/api"
	DefaultTimeoutSecs  = 30
)

// Config represents the global ~/.wamcp/config.toml.
type Config struct {
	DefaultSession     string `toml:"default_session"`
	BridgeAPIURL       string `toml:"bridge_api_url"`
	StorePath          string `toml:"store_path"`
	RequestTimeoutSecs int    `toml:"request_timeout_secs"`
}

// Default returns a config with every defaultable field populated.
func Default() *Config {
	return &Config{
		BridgeAPIURL:       DefaultBridgeAPIURL,
		RequestTimeoutSecs: DefaultTimeoutSecs,
	}
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault reads config from the given path, falling back to defaults
// when the file does not exist. Any other read or parse error is returned.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.BridgeAPIURL == "" {
		c.BridgeAPIURL = DefaultBridgeAPIURL
	}
	if c.RequestTimeoutSecs <= 0 {
		c.RequestTimeoutSecs = DefaultTimeoutSecs
	}
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
