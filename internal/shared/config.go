package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Player   PlayerConfig   `toml:"player"`
	Goals    GoalsConfig    `toml:"goals"`
	Catalog  CatalogConfig  `toml:"catalog"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// PlayerConfig contains playback defaults for the terminal player.
type PlayerConfig struct {
	Volume      int    `toml:"volume"`
	SkipSeconds int    `toml:"skip_seconds"`
	TickMillis  int    `toml:"tick_ms"`
	LockPath    string `toml:"lock_path"`
	LogPath     string `toml:"log_path"`
}

// GoalsConfig contains the daily and monthly learning targets.
type GoalsConfig struct {
	DailyMinutes   int `toml:"daily_minutes"`
	MonthlyCourses int `toml:"monthly_courses"`
}

// CatalogConfig contains settings for the remote track & goal catalog.
//
// ClientID and ClientSecret are optional; when both are set with a TokenURL the catalog client authenticates with the OAuth2 client credentials flow.
type CatalogConfig struct {
	BaseURL      string  `toml:"base_url"`
	MediaBaseURL string  `toml:"media_base_url"`
	ClientID     string  `toml:"client_id"`
	ClientSecret string  `toml:"client_secret"`
	TokenURL     string  `toml:"token_url"`
	RateLimit    float64 `toml:"rate_limit"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// TickInterval returns the synthetic timer cadence, defaulting to one second.
func (p PlayerConfig) TickInterval() time.Duration {
	if p.TickMillis <= 0 {
		return time.Second
	}
	return time.Duration(p.TickMillis) * time.Millisecond
}

// Validate checks the configuration for values the application cannot run with.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is required", ErrInvalidConfig)
	}
	if c.Player.Volume < 0 || c.Player.Volume > 100 {
		return fmt.Errorf("%w: player.volume must be between 0 and 100, got %d", ErrInvalidConfig, c.Player.Volume)
	}
	if c.Player.SkipSeconds < 0 {
		return fmt.Errorf("%w: player.skip_seconds must not be negative", ErrInvalidConfig)
	}
	if c.Goals.DailyMinutes < 0 || c.Goals.MonthlyCourses < 0 {
		return fmt.Errorf("%w: goal targets must not be negative", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfigOrDefault loads the config at path when it exists and falls back to [DefaultConfig] otherwise.
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
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
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
