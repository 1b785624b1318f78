package allocation

import (
	"fmt"
	"math"

	"CheckBtrfsDO/internal/btrfs"
	"CheckBtrfsDO/internal/pkg/logger"
	"CheckBtrfsDO/internal/plugin"
)

// Check evaluates the filesystem's allocation layout against the thresholds.
// Both threshold families contribute to the result: the unallocated-bytes
// floor and the allocated-percent ceiling each add their own alert line.
func Check(u *btrfs.Usage, t Thresholds) *plugin.Result {
	res := plugin.NewResult()

	wasted := u.WastedHard + u.WastedSoft
	total := u.DeviceTotal - wasted
	unallocated := total - u.Allocated
	unused := total - u.Used
	allocatedPct := percent(u.Allocated, total)
	usedPct := percent(u.Used, total)

	logger.Debug("allocation snapshot",
		logger.Uint64("total", total),
		logger.Uint64("allocated", u.Allocated),
		logger.Uint64("used", u.Used),
		logger.Uint64("unallocated", unallocated),
		logger.Uint64("unused", unused),
		logger.Int("allocated_pct", allocatedPct),
	)

	switch {
	case unallocated < t.CriticalBytes:
		res.AddAlert(plugin.SeverityCritical,
			fmt.Sprintf("unallocated space %s below critical limit %s",
				btrfs.HumanSize(unallocated), btrfs.HumanSize(t.CriticalBytes)))
	case unallocated < t.WarningBytes:
		res.AddAlert(plugin.SeverityWarning,
			fmt.Sprintf("unallocated space %s below warning limit %s",
				btrfs.HumanSize(unallocated), btrfs.HumanSize(t.WarningBytes)))
	}

	switch {
	case allocatedPct >= t.CriticalPercent:
		res.AddAlert(plugin.SeverityCritical,
			fmt.Sprintf("allocation at %d%% reached critical limit %d%%",
				allocatedPct, t.CriticalPercent))
	case allocatedPct >= t.WarningPercent:
		res.AddAlert(plugin.SeverityWarning,
			fmt.Sprintf("allocation at %d%% reached warning limit %d%%",
				allocatedPct, t.WarningPercent))
	}

	res.AddSummary(fmt.Sprintf("total size %s", btrfs.HumanSize(total)))
	res.AddSummary(fmt.Sprintf("allocated %s (%d%%)", btrfs.HumanSize(u.Allocated), allocatedPct))
	res.AddSummary(fmt.Sprintf("used %s (%d%%)", btrfs.HumanSize(u.Used), usedPct))
	if wasted > 0 {
		res.AddSummary(fmt.Sprintf("wasted %s (%s reclaimable)",
			btrfs.HumanSize(wasted), btrfs.HumanSize(u.WastedSoft)))
	}
	return res
}

// percent rounds half away from zero, so allocation sitting exactly on a .5
// boundary trips the stricter side.
func percent(part, total uint64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}
