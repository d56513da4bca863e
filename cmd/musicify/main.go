package main

import (
	"fmt"
	"os"

	"musicify/internal/client"
	"musicify/internal/config"
	"musicify/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "dev"

	configPath string
	envFile    string
	apiURL     string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "musicify",
		Short: "Local music player with a favorites and playlists API",
		Long: `musicify plays the audio files in a local folder from the terminal and keeps
favorites, playlists and recently played tracks in a small SQLite-backed API.

Run "musicify serve" to start the API, then "musicify play <folder>".`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.toml", "config file (created with defaults when missing)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "optional .env file with MUSICIFY_* overrides")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (overrides player.api_url)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// loadConfig reads the config file, then the environment, then flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(envFile); err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.Player.APIURL = apiURL
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setup loads config and builds the logger.
func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// apiClient loads the config and returns a client for the configured API.
func apiClient() (*client.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return client.New(cfg.Player.APIURL), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
