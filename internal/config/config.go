package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	Player   PlayerConfig   `toml:"player"`
	Tunnel   TunnelConfig   `toml:"tunnel"`
}

// ServerConfig contains persistence API configuration
type ServerConfig struct {
	Port         string `toml:"port"`
	Host         string `toml:"host"`
	EnableCORS   bool   `toml:"enable_cors"`
	ReadTimeout  int    `toml:"read_timeout_seconds"`
	WriteTimeout int    `toml:"write_timeout_seconds"`
}

// DatabaseConfig contains database-related configuration
type DatabaseConfig struct {
	// Driver is "sqlite3" (mattn, cgo) or "sqlite" (modernc, pure Go).
	Driver         string `toml:"driver"`
	Path           string `toml:"path"`
	MaxConnections int    `toml:"max_connections"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level          string `toml:"level"`
	Format         string `toml:"format"`
	File           string `toml:"file"`
	RequestLogging bool   `toml:"request_logging"`
}

// PlayerConfig contains terminal player configuration
type PlayerConfig struct {
	APIURL           string   `toml:"api_url"`
	LibraryPath      string   `toml:"library_path"`
	SupportedFormats []string `toml:"supported_formats"`
	WatchForChanges  bool     `toml:"watch_for_changes"`
	RecordQueueSize  int      `toml:"record_queue_size"`
	TickMillis       int      `toml:"tick_millis"`
	LogFile          string   `toml:"log_file"`
}

// TunnelConfig contains optional ngrok tunnel configuration
type TunnelConfig struct {
	Enabled   bool   `toml:"enabled"`
	AuthToken string `toml:"auth_token"`
	Domain    string `toml:"domain"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "3000",
			Host:         "localhost",
			EnableCORS:   true,
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Database: DatabaseConfig{
			Driver:         "sqlite3",
			Path:           "./musicify.db",
			MaxConnections: 5,
		},
		Logging: LoggingConfig{
			Level:          "info",
			Format:         "text",
			File:           "",
			RequestLogging: true,
		},
		Player: PlayerConfig{
			APIURL:           "http://localhost:3000",
			LibraryPath:      "",
			SupportedFormats: []string{".mp3", ".wav", ".flac", ".ogg"},
			WatchForChanges:  true,
			RecordQueueSize:  32,
			TickMillis:       250,
			LogFile:          "./musicify-player.log",
		},
		Tunnel: TunnelConfig{
			Enabled: false,
		},
	}
}

// LoadConfig loads configuration from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := cfg.SaveToFile(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config file: %w", err)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves the configuration to a TOML file
func (c *Config) SaveToFile(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	header := `# Musicify Configuration
# [server] and [database] configure the favorites/playlists API,
# [player] configures the terminal player.

`
	if _, err := file.WriteString(header); err != nil {
		return fmt.Errorf("failed to write config header: %w", err)
	}

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config to TOML: %w", err)
	}

	return nil
}

// ApplyEnv loads an optional .env file and applies MUSICIFY_* overrides.
// NGROK_AUTHTOKEN is honoured when the tunnel token is not set in the file.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	if v := os.Getenv("MUSICIFY_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("MUSICIFY_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("MUSICIFY_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("MUSICIFY_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("MUSICIFY_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("MUSICIFY_API_URL"); v != "" {
		c.Player.APIURL = v
	}
	if v := os.Getenv("MUSICIFY_CORS"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid MUSICIFY_CORS value %q: %w", v, err)
		}
		c.Server.EnableCORS = enabled
	}
	if c.Tunnel.AuthToken == "" {
		c.Tunnel.AuthToken = os.Getenv("NGROK_AUTHTOKEN")
	}

	return c.Validate()
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if c.Server.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts must be positive")
	}

	validDrivers := map[string]bool{
		"sqlite3": true, "sqlite": true,
	}
	if !validDrivers[c.Database.Driver] {
		return fmt.Errorf("invalid database driver: %s (must be sqlite3 or sqlite)", c.Database.Driver)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Logging.Format)
	}

	if c.Player.APIURL == "" {
		return fmt.Errorf("player api url cannot be empty")
	}
	if len(c.Player.SupportedFormats) == 0 {
		return fmt.Errorf("at least one supported audio format must be specified")
	}
	if c.Player.RecordQueueSize < 1 {
		return fmt.Errorf("player record queue size must be at least 1")
	}
	if c.Player.TickMillis < 10 {
		return fmt.Errorf("player tick interval must be at least 10ms")
	}

	return nil
}

// GetAddress returns the full server address
func (c *Config) GetAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// IsFormatSupported checks if an audio file extension is supported
func (c *Config) IsFormatSupported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, supported := range c.Player.SupportedFormats {
		if supported == ext {
			return true
		}
	}
	return false
}
