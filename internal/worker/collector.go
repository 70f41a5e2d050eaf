// Package worker runs the scheduled background jobs of the update server.
package worker

import (
	"github.com/robfig/cron/v3"

	"kioskd/internal/database"
	"kioskd/internal/logging"
	"kioskd/internal/system"
)

// VitalsCollector periodically samples host vitals into the database so the
// monitoring endpoint can serve a 24h history.
type VitalsCollector struct {
	cron     *cron.Cron
	diskPath string
	schedule string
}

// NewVitalsCollector creates a collector that measures disk usage on
// diskPath. schedule is a cron expression, e.g. "@every 5m".
func NewVitalsCollector(diskPath, schedule string) *VitalsCollector {
	return &VitalsCollector{
		cron:     cron.New(),
		diskPath: diskPath,
		schedule: schedule,
	}
}

// Start registers the sampling job and starts the scheduler.
func (c *VitalsCollector) Start() error {
	if _, err := c.cron.AddFunc(c.schedule, c.collect); err != nil {
		return err
	}
	c.cron.Start()
	logging.Info("Vitals collector started (schedule %q)", c.schedule)
	return nil
}

// Stop stops the scheduler; a sample already in flight runs to completion.
func (c *VitalsCollector) Stop() {
	c.cron.Stop()
}

func (c *VitalsCollector) collect() {
	vitals, err := system.GetVitals(c.diskPath)
	if err != nil {
		logging.Warning("Failed to collect system vitals: %v", err)
		return
	}
	if err := database.InsertVitalLog(vitals.CPUPercent, vitals.MemPercent, vitals.DiskPercent); err != nil {
		logging.Warning("Failed to store system vitals: %v", err)
	}
}
