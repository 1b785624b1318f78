package btrfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnallocatable(t *testing.T) {
	// Single-device profiles never strand anything.
	assert.Equal(t, uint64(0), unallocatable([]uint64{300, 100}, 1))

	// Equal devices mirror perfectly.
	assert.Equal(t, uint64(0), unallocatable([]uint64{100, 100}, 2))

	// A 300/100 pair can only mirror 100 against 100; 200 is stranded.
	assert.Equal(t, uint64(200), unallocatable([]uint64{300, 100}, 2))

	// 300/100/100: the two small devices together match 200 of the large
	// one, leaving 100 stranded.
	assert.Equal(t, uint64(100), unallocatable([]uint64{300, 100, 100}, 2))

	// Three-copy profile on three equal devices.
	assert.Equal(t, uint64(0), unallocatable([]uint64{50, 50, 50}, 3))

	// Three-copy profile with only two devices strands everything.
	assert.Equal(t, uint64(150), unallocatable([]uint64{100, 50}, 3))
}

func TestProfileFactor(t *testing.T) {
	assert.Equal(t, float64(1), profileFactor(0, 2))
	assert.Equal(t, float64(1), profileFactor(profileRaid0, 2))
	assert.Equal(t, float64(2), profileFactor(profileRaid1, 2))
	assert.Equal(t, float64(2), profileFactor(profileDup, 1))
	assert.Equal(t, float64(3), profileFactor(profileRaid1c3, 3))
	assert.Equal(t, float64(4), profileFactor(profileRaid1c4, 4))
	assert.InDelta(t, 1.5, profileFactor(profileRaid5, 3), 0.001)
	assert.InDelta(t, 2.0, profileFactor(profileRaid6, 4), 0.001)
}

func TestStripeDevices(t *testing.T) {
	assert.Equal(t, 1, stripeDevices(0))
	assert.Equal(t, 1, stripeDevices(profileDup))
	assert.Equal(t, 2, stripeDevices(profileRaid1))
	assert.Equal(t, 3, stripeDevices(profileRaid1c3))
	assert.Equal(t, 4, stripeDevices(profileRaid10))
}

func TestComputeUsageSingleProfile(t *testing.T) {
	devices := []Device{
		{ID: 1, TotalBytes: 1000, BytesUsed: 600},
	}
	spaces := []spaceInfo{
		{Flags: blockGroupData, TotalBytes: 550, UsedBytes: 400},
		{Flags: blockGroupMetadata | profileDup, TotalBytes: 25, UsedBytes: 10},
	}

	u := computeUsage(devices, spaces)
	assert.Equal(t, uint64(1000), u.DeviceTotal)
	assert.Equal(t, uint64(600), u.Allocated)
	assert.Equal(t, uint64(420), u.Used) // 400 data + 10 metadata doubled
	assert.Equal(t, uint64(0), u.WastedHard)
	assert.Equal(t, uint64(0), u.WastedSoft)
}

func TestComputeUsageWastedSplit(t *testing.T) {
	// RAID1 data over a 2000/1000 pair: 1000 bytes of the large device can
	// never hold a mirror (hard waste). The small device is fully allocated
	// while the large one is empty, so another 1000 is stranded until a
	// balance spreads the chunks (soft waste).
	devices := []Device{
		{ID: 1, TotalBytes: 2000, BytesUsed: 0},
		{ID: 2, TotalBytes: 1000, BytesUsed: 1000},
	}
	spaces := []spaceInfo{
		{Flags: blockGroupData | profileRaid1, TotalBytes: 500, UsedBytes: 100},
	}

	u := computeUsage(devices, spaces)
	assert.Equal(t, uint64(3000), u.DeviceTotal)
	assert.Equal(t, uint64(1000), u.Allocated)
	assert.Equal(t, uint64(200), u.Used)
	assert.Equal(t, uint64(1000), u.WastedHard)
	assert.Equal(t, uint64(1000), u.WastedSoft)
}

func TestDevStatsHealthy(t *testing.T) {
	assert.True(t, DevStats{}.Healthy())
	assert.True(t, DevStats{"write_io_errs": 0}.Healthy())
	assert.False(t, DevStats{"write_io_errs": 0, "corruption_errs": 2}.Healthy())
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "100 GiB", HumanSize(100<<30))
	assert.Equal(t, "512 MiB", HumanSize(512<<20))
}
