package database

import "time"

// DownloadEvent records one served artifact download.
type DownloadEvent struct {
	ID         int64     `json:"id"`
	Version    string    `json:"version"`
	Platform   string    `json:"platform"`
	Filename   string    `json:"filename"`
	RemoteAddr string    `json:"remote_addr"`
	CreatedAt  time.Time `json:"created_at"`
}

// DownloadCount aggregates downloads per version and platform.
type DownloadCount struct {
	Version  string `json:"version"`
	Platform string `json:"platform"`
	Count    int64  `json:"count"`
}

// SystemVitalLog is one sampled snapshot of host resource usage.
type SystemVitalLog struct {
	ID               int64     `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	CPUPercent       float64   `json:"cpu_percent"`
	MemoryPercent    float64   `json:"memory_percent"`
	DiskUsagePercent float64   `json:"disk_usage_percent"`
}
