// Package main is the entry point for the kiosk update server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"kioskd/internal/config"
	"kioskd/internal/database"
	"kioskd/internal/logging"
	"kioskd/internal/server"
	"kioskd/internal/telemetry"
	"kioskd/internal/version"
	"kioskd/internal/worker"
)

func main() {
	// Load .env file if it exists (for development)
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist, especially in production
		if os.Getenv("DEBUG") == "true" {
			log.Printf("No .env file found or error loading it: %v", err)
		}
	}

	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-version" || os.Args[1] == "version") {
		versionInfo := version.Get()
		fmt.Printf("kioskd version %s\n", versionInfo.Version)
		fmt.Printf("  commit: %s\n", versionInfo.Commit)
		fmt.Printf("  built: %s\n", versionInfo.BuildDate)
		fmt.Printf("  go: %s\n", versionInfo.GoVersion)
		fmt.Printf("  platform: %s\n", versionInfo.Platform)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// File logging only in development; in production stdout is captured
	// by systemd/Docker
	isDevelopment := os.Getenv("KIOSKD_ENV") == "development" || os.Getenv("DEBUG") == "true"
	if isDevelopment {
		logDir := "./logs"
		if err := logging.Initialize(logDir); err != nil {
			log.Printf("Warning: Failed to initialize file logging: %v", err)
		} else {
			defer logging.Close() //nolint:errcheck // Shutdown cleanup
			log.Printf("Development logging initialized to %s", logDir)
		}
	}

	ctx := context.Background()
	shutdown, err := telemetry.InitializeFromEnv(ctx)
	if err != nil {
		log.Printf("Warning: Failed to initialize telemetry: %v", err)
		// Continue without telemetry
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	// The kiosk directory must exist and be listable; anything else is a
	// deployment problem worth failing fast on
	if _, err := os.Stat(cfg.KioskDir); err != nil {
		fmt.Fprintf(os.Stderr, "Kiosk directory %s is not accessible: %v\n", cfg.KioskDir, err)
		os.Exit(1)
	}

	if err := database.Initialize(cfg.DatabasePath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	collector := worker.NewVitalsCollector(cfg.KioskDir, cfg.VitalsSchedule)
	if err := collector.Start(); err != nil {
		log.Printf("Warning: Failed to start vitals collector: %v", err)
	} else {
		defer collector.Stop()
	}

	log.Printf("Starting kioskd %s with config: %s", version.Get().Version, cfg)

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
