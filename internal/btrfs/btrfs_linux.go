//go:build linux

package btrfs

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Kernel ioctl numbers for the btrfs control interface (magic 0x94).
const (
	iocSpaceInfo   = 0xc0109414 // BTRFS_IOC_SPACE_INFO
	iocDevInfo     = 0xd000941e // BTRFS_IOC_DEV_INFO
	iocFsInfo      = 0x8400941f // BTRFS_IOC_FS_INFO
	iocGetDevStats = 0xc4089434 // BTRFS_IOC_GET_DEV_STATS
)

type fsInfoArgs struct {
	MaxID          uint64
	NumDevices     uint64
	FSID           [16]byte
	NodeSize       uint32
	SectorSize     uint32
	CloneAlignment uint32
	_              uint32
	_              [122]uint64
}

type devInfoArgs struct {
	DevID      uint64
	UUID       [16]byte
	BytesUsed  uint64
	TotalBytes uint64
	_          [379]uint64
	Path       [1024]byte
}

type devStatsArgs struct {
	DevID   uint64
	NrItems uint64
	Flags   uint64
	Values  [5]uint64
	_       [121]uint64
}

type spaceArgsHeader struct {
	SpaceSlots  uint64
	TotalSpaces uint64
}

// FS is an open handle on a mounted btrfs filesystem. It holds a file
// descriptor on the mountpoint directory, which is what the kernel ioctls
// operate on.
type FS struct {
	path string
	dir  *os.File
}

// Open opens the filesystem mounted at path. It fails if path is not the
// root of a mounted btrfs filesystem.
func Open(path string) (*FS, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return nil, fmt.Errorf("statfs %s: %w", path, err)
	}
	if st.Type != unix.BTRFS_SUPER_MAGIC {
		return nil, fmt.Errorf("%s is not a btrfs filesystem", path)
	}
	dir, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &FS{path: path, dir: dir}, nil
}

// Path returns the mountpoint the filesystem was opened at.
func (fs *FS) Path() string {
	return fs.path
}

// Close releases the handle.
func (fs *FS) Close() error {
	return fs.dir.Close()
}

func (fs *FS) ioctl(req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fs.dir.Fd(), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// Devices enumerates the filesystem's member devices by devid.
func (fs *FS) Devices() ([]Device, error) {
	var info fsInfoArgs
	if err := fs.ioctl(iocFsInfo, unsafe.Pointer(&info)); err != nil {
		return nil, fmt.Errorf("fs info ioctl on %s: %w", fs.path, err)
	}

	devices := make([]Device, 0, info.NumDevices)
	for id := uint64(0); id <= info.MaxID; id++ {
		args := devInfoArgs{DevID: id}
		err := fs.ioctl(iocDevInfo, unsafe.Pointer(&args))
		if err == unix.ENODEV {
			// Devids are sparse after device removal.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("dev info ioctl for devid %d: %w", id, err)
		}
		devices = append(devices, Device{
			ID:         args.DevID,
			Path:       cString(args.Path[:]),
			TotalBytes: args.TotalBytes,
			BytesUsed:  args.BytesUsed,
		})
		if uint64(len(devices)) == info.NumDevices {
			break
		}
	}
	return devices, nil
}

// DevStats returns the cumulative error counters for one device.
func (fs *FS) DevStats(devid uint64) (DevStats, error) {
	args := devStatsArgs{DevID: devid, NrItems: uint64(len(StatNames))}
	if err := fs.ioctl(iocGetDevStats, unsafe.Pointer(&args)); err != nil {
		return nil, fmt.Errorf("dev stats ioctl for devid %d: %w", devid, err)
	}
	stats := make(DevStats, len(StatNames))
	for i, name := range StatNames {
		if uint64(i) >= args.NrItems {
			break
		}
		stats[name] = args.Values[i]
	}
	return stats, nil
}

// spaces returns the kernel's per-block-group-type space accounting.
func (fs *FS) spaces() ([]spaceInfo, error) {
	// First call with zero slots just reports how many entries exist.
	var hdr spaceArgsHeader
	if err := fs.ioctl(iocSpaceInfo, unsafe.Pointer(&hdr)); err != nil {
		return nil, fmt.Errorf("space info ioctl on %s: %w", fs.path, err)
	}

	count := hdr.TotalSpaces
	if count == 0 {
		return nil, nil
	}
	buf := make([]byte, unsafe.Sizeof(spaceArgsHeader{})+uintptr(count)*unsafe.Sizeof(spaceInfo{}))
	out := (*spaceArgsHeader)(unsafe.Pointer(&buf[0]))
	out.SpaceSlots = count
	if err := fs.ioctl(iocSpaceInfo, unsafe.Pointer(&buf[0])); err != nil {
		return nil, fmt.Errorf("space info ioctl on %s: %w", fs.path, err)
	}

	hdrSize := int(unsafe.Sizeof(spaceArgsHeader{}))
	entSize := int(unsafe.Sizeof(spaceInfo{}))
	entries := make([]spaceInfo, 0, out.TotalSpaces)
	for i := 0; uint64(i) < out.TotalSpaces && uint64(i) < count; i++ {
		entry := (*spaceInfo)(unsafe.Pointer(&buf[hdrSize+i*entSize]))
		entries = append(entries, *entry)
	}
	return entries, nil
}

// Usage queries the kernel and assembles the raw space snapshot. Allocated
// bytes come from per-device accounting, used bytes from the per-type space
// counters scaled by their redundancy profile.
func (fs *FS) Usage() (*Usage, error) {
	devices, err := fs.Devices()
	if err != nil {
		return nil, err
	}
	spaces, err := fs.spaces()
	if err != nil {
		return nil, err
	}
	return computeUsage(devices, spaces), nil
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
