package database

import (
	"fmt"
	"time"
)

// InsertVitalLog stores one vitals snapshot.
func InsertVitalLog(cpuPercent, memPercent, diskPercent float64) error {
	db := GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	_, err := db.Exec(`
		INSERT INTO system_vital_logs (timestamp, cpu_percent, memory_percent, disk_usage_percent)
		VALUES (?, ?, ?, ?)
	`, time.Now().UTC(), cpuPercent, memPercent, diskPercent)
	if err != nil {
		return fmt.Errorf("failed to insert vital log: %w", err)
	}
	return nil
}

// GetVitalsLast24Hours retrieves all vitals snapshots from the last 24 hours,
// oldest first. An empty result is not an error.
func GetVitalsLast24Hours() ([]SystemVitalLog, error) {
	db := GetDB()
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	since := time.Now().Add(-24 * time.Hour)

	rows, err := db.Query(`
		SELECT id, timestamp, cpu_percent, memory_percent, disk_usage_percent
		FROM system_vital_logs
		WHERE timestamp >= ?
		ORDER BY timestamp ASC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query vital logs: %w", err)
	}
	defer rows.Close()

	logs := []SystemVitalLog{}
	for rows.Next() {
		var l SystemVitalLog
		if err := rows.Scan(&l.ID, &l.Timestamp, &l.CPUPercent, &l.MemoryPercent, &l.DiskUsagePercent); err != nil {
			return nil, fmt.Errorf("failed to scan vital log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return logs, nil
}
