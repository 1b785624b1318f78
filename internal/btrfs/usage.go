package btrfs

import "sort"

// Block group type and profile bits from the chunk flags.
const (
	blockGroupData     = 1 << 0
	blockGroupSystem   = 1 << 1
	blockGroupMetadata = 1 << 2

	profileRaid0   = 1 << 3
	profileRaid1   = 1 << 4
	profileDup     = 1 << 5
	profileRaid10  = 1 << 6
	profileRaid5   = 1 << 7
	profileRaid6   = 1 << 8
	profileRaid1c3 = 1 << 9
	profileRaid1c4 = 1 << 10
)

// spaceInfo mirrors one entry of the kernel's space accounting: the chunk
// flags (type plus profile) and logical total/used bytes for that type.
type spaceInfo struct {
	Flags      uint64
	TotalBytes uint64
	UsedBytes  uint64
}

// profileFactor returns the raw-bytes-per-logical-byte multiplier of a chunk
// profile. Parity profiles depend on the number of member devices.
func profileFactor(flags uint64, numDevices int) float64 {
	switch {
	case flags&profileDup != 0, flags&profileRaid1 != 0, flags&profileRaid10 != 0:
		return 2
	case flags&profileRaid1c3 != 0:
		return 3
	case flags&profileRaid1c4 != 0:
		return 4
	case flags&profileRaid5 != 0:
		if numDevices > 1 {
			return float64(numDevices) / float64(numDevices-1)
		}
		return 1
	case flags&profileRaid6 != 0:
		if numDevices > 2 {
			return float64(numDevices) / float64(numDevices-2)
		}
		return 1
	default:
		return 1
	}
}

// stripeDevices returns how many devices the profile needs to place one new
// chunk.
func stripeDevices(flags uint64) int {
	switch {
	case flags&profileRaid1c4 != 0, flags&profileRaid10 != 0:
		return 4
	case flags&profileRaid1c3 != 0, flags&profileRaid6 != 0:
		return 3
	case flags&profileRaid1 != 0, flags&profileRaid5 != 0:
		return 2
	default:
		return 1
	}
}

// unallocatable computes how many of the given per-device free bytes can
// never be placed by a profile that stripes every chunk across `devs`
// devices. Greedy: repeatedly allocate from the `devs` largest free areas
// until fewer than `devs` devices have space left; the remainder is stranded.
func unallocatable(free []uint64, devs int) uint64 {
	if devs < 2 || len(free) == 0 {
		return 0
	}
	f := append([]uint64(nil), free...)
	for {
		sort.Slice(f, func(i, j int) bool { return f[i] > f[j] })
		if len(f) < devs || f[devs-1] == 0 {
			break
		}
		step := f[devs-1]
		for i := 0; i < devs; i++ {
			f[i] -= step
		}
	}
	var stranded uint64
	for _, v := range f {
		stranded += v
	}
	return stranded
}

// computeUsage derives the usage snapshot from per-device accounting and the
// kernel's per-type space counters.
//
// Wasted space is split in two: the part inherent to the device geometry
// (what would still be stranded on an empty filesystem, unreclaimable) and
// the part caused by the current chunk placement, which a balance would
// recover.
func computeUsage(devices []Device, spaces []spaceInfo) *Usage {
	u := &Usage{}
	freeNow := make([]uint64, 0, len(devices))
	sizes := make([]uint64, 0, len(devices))
	for _, dev := range devices {
		u.DeviceTotal += dev.TotalBytes
		u.Allocated += dev.BytesUsed
		freeNow = append(freeNow, dev.TotalBytes-dev.BytesUsed)
		sizes = append(sizes, dev.TotalBytes)
	}

	// The widest stripe requirement among block group types in use governs
	// what new allocations need.
	maxStripe := 1
	for _, sp := range spaces {
		u.Used += uint64(float64(sp.UsedBytes) * profileFactor(sp.Flags, len(devices)))
		if n := stripeDevices(sp.Flags); n > maxStripe {
			maxStripe = n
		}
	}

	current := unallocatable(freeNow, maxStripe)
	inherent := unallocatable(sizes, maxStripe)
	if inherent > current {
		inherent = current
	}
	u.WastedHard = inherent
	u.WastedSoft = current - inherent
	return u
}
