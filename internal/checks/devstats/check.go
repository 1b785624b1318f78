package devstats

import (
	"fmt"
	"strings"

	"CheckBtrfsDO/internal/btrfs"
	"CheckBtrfsDO/internal/pkg/logger"
	"CheckBtrfsDO/internal/plugin"
)

// StatsSource is the slice of the filesystem handle this check needs.
type StatsSource interface {
	Devices() ([]btrfs.Device, error)
	DevStats(devid uint64) (btrfs.DevStats, error)
}

// Check inspects every member device's error counters. Any nonzero counter
// makes its device unhealthy and adds one critical alert line naming the
// counters that fired.
func Check(src StatsSource) (*plugin.Result, error) {
	devices, err := src.Devices()
	if err != nil {
		return nil, err
	}

	res := plugin.NewResult()
	healthy := true
	for _, dev := range devices {
		stats, err := src.DevStats(dev.ID)
		if err != nil {
			return nil, err
		}
		if stats.Healthy() {
			continue
		}
		healthy = false
		logger.Warn("device errors",
			logger.String("device", dev.Path),
			logger.Uint64("devid", dev.ID),
		)
		res.AddAlert(plugin.SeverityCritical,
			fmt.Sprintf("device %s has errors: %s", dev.Path, formatErrors(stats)))
	}

	res.AddSummary(fmt.Sprintf("%d devices", len(devices)))
	if healthy {
		res.AddSummary("no device errors")
	}
	return res, nil
}

// formatErrors lists the nonzero counters in the kernel's reporting order.
func formatErrors(stats btrfs.DevStats) string {
	var parts []string
	for _, name := range btrfs.StatNames {
		if v := stats[name]; v != 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", name, v))
		}
	}
	return strings.Join(parts, " ")
}
