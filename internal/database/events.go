package database

import (
	"fmt"
	"time"
)

// RecordDownloadEvent inserts one download event.
func RecordDownloadEvent(version, platform, filename, remoteAddr string) error {
	db := GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	_, err := db.Exec(`
		INSERT INTO download_events (version, platform, filename, remote_addr, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, version, platform, filename, remoteAddr, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record download event: %w", err)
	}
	return nil
}

// GetDownloadCounts aggregates download events per version and platform,
// most-downloaded first.
func GetDownloadCounts() ([]DownloadCount, error) {
	db := GetDB()
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	rows, err := db.Query(`
		SELECT version, platform, COUNT(*) AS downloads
		FROM download_events
		GROUP BY version, platform
		ORDER BY downloads DESC, version DESC, platform ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query download counts: %w", err)
	}
	defer rows.Close()

	counts := []DownloadCount{}
	for rows.Next() {
		var c DownloadCount
		if err := rows.Scan(&c.Version, &c.Platform, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan download count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return counts, nil
}
