package allocation

import (
	"testing"

	"CheckBtrfsDO/internal/btrfs"
	"CheckBtrfsDO/internal/plugin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gib = 1 << 30

func TestWarningOnAllocatedPercent(t *testing.T) {
	// 95% allocated with warning at 90 and critical at 98 is a warning.
	usage := &btrfs.Usage{
		DeviceTotal: 100 * gib,
		Allocated:   95 * gib,
		Used:        50 * gib,
	}
	res := Check(usage, Thresholds{WarningPercent: 90, CriticalPercent: 98})

	assert.Equal(t, plugin.SeverityWarning, res.Severity)
	require.Len(t, res.Alerts, 1)
	assert.Equal(t, "allocation at 95% reached warning limit 90%", res.Alerts[0])
}

func TestCriticalFloorBeatsPercent(t *testing.T) {
	// Half a GiB unallocated with a 1 GiB critical floor is critical no
	// matter what the percent thresholds say.
	usage := &btrfs.Usage{
		DeviceTotal: 100 * gib,
		Allocated:   100*gib - gib/2,
		Used:        50 * gib,
	}
	res := Check(usage, Thresholds{
		CriticalBytes:   1 * gib,
		WarningPercent:  100,
		CriticalPercent: 100,
	})

	assert.Equal(t, plugin.SeverityCritical, res.Severity)
	require.NotEmpty(t, res.Alerts)
	assert.Contains(t, res.Alerts[0], "below critical limit")
}

func TestCriticalCheckedBeforeWarning(t *testing.T) {
	usage := &btrfs.Usage{
		DeviceTotal: 100 * gib,
		Allocated:   99 * gib,
		Used:        50 * gib,
	}
	res := Check(usage, Thresholds{
		WarningBytes:    10 * gib,
		CriticalBytes:   2 * gib,
		WarningPercent:  100,
		CriticalPercent: 100,
	})

	// Both floors are crossed but only the critical alert fires.
	assert.Equal(t, plugin.SeverityCritical, res.Severity)
	require.Len(t, res.Alerts, 1)
	assert.Contains(t, res.Alerts[0], "critical")
}

func TestBothFamiliesContribute(t *testing.T) {
	usage := &btrfs.Usage{
		DeviceTotal: 100 * gib,
		Allocated:   95 * gib,
		Used:        50 * gib,
	}
	res := Check(usage, Thresholds{
		WarningBytes:    10 * gib, // unallocated is 5 GiB, trips the floor
		WarningPercent:  90,       // 95% trips the ceiling
		CriticalPercent: 100,
	})

	assert.Equal(t, plugin.SeverityWarning, res.Severity)
	assert.Len(t, res.Alerts, 2)
}

func TestOKWithDefaults(t *testing.T) {
	usage := &btrfs.Usage{
		DeviceTotal: 100 * gib,
		Allocated:   95 * gib,
		Used:        50 * gib,
	}
	res := Check(usage, Thresholds{WarningPercent: 100, CriticalPercent: 100})

	assert.Equal(t, plugin.SeverityOK, res.Severity)
	assert.Empty(t, res.Alerts)
}

func TestSummaryAlwaysPresent(t *testing.T) {
	usage := &btrfs.Usage{
		DeviceTotal: 100 * gib,
		Allocated:   40 * gib,
		Used:        20 * gib,
	}
	res := Check(usage, Thresholds{WarningPercent: 100, CriticalPercent: 100})

	require.Len(t, res.Summary, 3)
	assert.Equal(t, "total size 100 GiB", res.Summary[0])
	assert.Equal(t, "allocated 40 GiB (40%)", res.Summary[1])
	assert.Equal(t, "used 20 GiB (20%)", res.Summary[2])
}

func TestWastedLineOnlyWhenWasted(t *testing.T) {
	usage := &btrfs.Usage{
		DeviceTotal: 102 * gib,
		Allocated:   40 * gib,
		Used:        20 * gib,
		WastedHard:  1 * gib,
		WastedSoft:  1 * gib,
	}
	res := Check(usage, Thresholds{WarningPercent: 100, CriticalPercent: 100})

	require.Len(t, res.Summary, 4)
	assert.Equal(t, "wasted 2 GiB (1 GiB reclaimable)", res.Summary[3])
	// Wasted space is excluded from the usable total.
	assert.Equal(t, "total size 100 GiB", res.Summary[0])
}

func TestPercentRoundsHalfAwayFromZero(t *testing.T) {
	// 95.5% allocated rounds up to 96 and trips a 96% threshold.
	usage := &btrfs.Usage{
		DeviceTotal: 1000,
		Allocated:   955,
		Used:        500,
	}
	res := Check(usage, Thresholds{WarningPercent: 96, CriticalPercent: 100})

	assert.Equal(t, plugin.SeverityWarning, res.Severity)
}

func TestPercentBounds(t *testing.T) {
	assert.Equal(t, 0, percent(0, 1000))
	assert.Equal(t, 100, percent(1000, 1000))
	assert.Equal(t, 0, percent(0, 0))
}
