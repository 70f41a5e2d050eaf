// Package config holds all configuration for the kiosk update server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration settings for the application
type Config struct {
	// KioskDir is the directory where version folders are stored
	KioskDir string `toml:"kiosk_dir"`

	// DownloadBaseURL is the public base URL clients download artifacts from
	DownloadBaseURL string `toml:"download_base_url"`

	// DatabasePath is the path to the SQLite database file
	DatabasePath string `toml:"database_path"`

	// ListenAddr is the address and port for the web server
	ListenAddr string `toml:"listen_addr"`

	// VitalsSchedule is the cron expression for system vitals sampling
	VitalsSchedule string `toml:"vitals_schedule"`
}

// defaultConfig returns the default configuration
func defaultConfig() *Config {
	return &Config{
		KioskDir:        "./kiosk-versions",
		DownloadBaseURL: "http://localhost:3000",
		DatabasePath:    "kioskd.db",
		ListenAddr:      ":3000",
		VitalsSchedule:  "@every 5m",
	}
}

// Load loads the configuration from file and environment variables
func Load() (*Config, error) {
	// Start with default configuration
	config := defaultConfig()

	// Try to load from config.toml if it exists
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	// Override with environment variables if set
	if kioskDir := os.Getenv("KIOSK_DIRECTORY"); kioskDir != "" {
		config.KioskDir = kioskDir
	}

	if baseURL := os.Getenv("KIOSK_DOWNLOADABLE_URL"); baseURL != "" {
		config.DownloadBaseURL = baseURL
	}

	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		config.DatabasePath = dbPath
	}

	if listenAddr := os.Getenv("LISTEN_ADDR"); listenAddr != "" {
		config.ListenAddr = listenAddr
	}

	if schedule := os.Getenv("VITALS_SCHEDULE"); schedule != "" {
		config.VitalsSchedule = schedule
	}

	// Ensure KioskDir is absolute
	if !filepath.IsAbs(config.KioskDir) {
		absPath, err := filepath.Abs(config.KioskDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for kiosk_dir: %w", err)
		}
		config.KioskDir = absPath
	}

	// The download base URL is joined with request paths; a trailing slash
	// would produce double slashes in manifest URLs
	config.DownloadBaseURL = strings.TrimRight(config.DownloadBaseURL, "/")

	return config, nil
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("KioskDir: %s", c.KioskDir))
	parts = append(parts, fmt.Sprintf("DownloadBaseURL: %s", c.DownloadBaseURL))
	parts = append(parts, fmt.Sprintf("DatabasePath: %s", c.DatabasePath))
	parts = append(parts, fmt.Sprintf("ListenAddr: %s", c.ListenAddr))
	return strings.Join(parts, ", ")
}
