package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Album identifier schemes accepted by [APIConfig.AlbumKey]. The backend
// revisions disagreed on how an album is addressed; the scheme is injected
// configuration rather than a hard-coded literal.
const (
	AlbumKeyNamePair = "name-pair"
	AlbumKeyMBID     = "mbid"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	LastFM   LastFMConfig   `toml:"lastfm"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	BaseURL   string  `toml:"base_url"`
	AlbumKey  string  `toml:"album_key"`
	RateLimit float64 `toml:"rate_limit"`
}

// LastFMConfig contains audioscrobbler credentials for artist suggestions.
type LastFMConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local payment callback listener.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// CallbackURL returns the address the payment gateway redirects back to.
func (s ServerConfig) CallbackURL() string {
	return fmt.Sprintf("http://%s:%d/complete-donation", s.Host, s.Port)
}

// Validate checks the configuration for values the client cannot work with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is required", ErrInvalidConfig)
	}
	switch c.API.AlbumKey {
	case AlbumKeyNamePair, AlbumKeyMBID:
	default:
		return fmt.Errorf("%w: api.album_key must be %q or %q, got %q",
			ErrInvalidConfig, AlbumKeyNamePair, AlbumKeyMBID, c.API.AlbumKey)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
