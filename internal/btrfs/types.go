package btrfs

import "github.com/dustin/go-humanize"

// Usage is a read-only snapshot of the filesystem's raw space accounting.
// All byte counts are raw device bytes, after redundancy, not logical bytes.
type Usage struct {
	DeviceTotal uint64 // capacity summed over all member devices
	Allocated   uint64 // bytes reserved into chunks
	Used        uint64 // bytes occupied inside chunks
	WastedHard  uint64 // capacity no allocation can reach given the device geometry
	WastedSoft  uint64 // capacity currently unreachable but reclaimable by a balance
}

// Device describes one member device of the filesystem.
type Device struct {
	ID         uint64
	Path       string
	TotalBytes uint64
	BytesUsed  uint64
}

// StatNames lists the per-device error counters the kernel tracks, in the
// order they are reported.
var StatNames = [...]string{
	"write_io_errs",
	"read_io_errs",
	"flush_io_errs",
	"corruption_errs",
	"generation_errs",
}

// DevStats maps an error-counter name to its cumulative count.
type DevStats map[string]uint64

// Healthy reports whether every counter is zero.
func (s DevStats) Healthy() bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}

// HumanSize formats a byte count using binary (IEC) units.
func HumanSize(n uint64) string {
	return humanize.IBytes(n)
}
