// Package database provides the SQLite-backed operational store for the
// kiosk update server: download events and system vital logs. Version
// metadata itself lives on the filesystem, never here.
package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"kioskd/internal/migrations"
)

var db *sql.DB

// GetDB returns the process-wide database handle.
func GetDB() *sql.DB {
	return db
}

// Initialize opens the database and runs pending migrations.
func Initialize(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)
	return nil
}

// Close closes the database handle.
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}
