package monitoring

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot is a point-in-time view of process and host health.
type Snapshot struct {
	UptimeSeconds     int64   `json:"uptimeSeconds"`
	HostUptimeSeconds uint64  `json:"hostUptimeSeconds"`
	CPUPercent        float64 `json:"cpuPercent"`
	MemoryUsedPercent float64 `json:"memoryUsedPercent"`
}

// StatsCollector gathers host and process statistics for the health endpoint.
type StatsCollector struct {
	started time.Time
}

// NewStatsCollector creates a StatsCollector anchored at process start.
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{started: time.Now()}
}

// Snapshot collects current stats. Individual probe failures degrade to zero
// values rather than failing the whole snapshot.
func (c *StatsCollector) Snapshot(ctx context.Context) Snapshot {
	snap := Snapshot{
		UptimeSeconds: int64(time.Since(c.started).Seconds()),
	}

	if hostUptime, err := host.UptimeWithContext(ctx); err == nil {
		snap.HostUptimeSeconds = hostUptime
	} else {
		log.Warn().Err(err).Msg("Failed to read host uptime")
	}

	// Zero interval reports usage since the previous call.
	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		snap.CPUPercent = percents[0]
	} else if err != nil {
		log.Warn().Err(err).Msg("Failed to read CPU usage")
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		snap.MemoryUsedPercent = vm.UsedPercent
	} else {
		log.Warn().Err(err).Msg("Failed to read memory usage")
	}

	return snap
}
