//go:build !linux

package btrfs

import (
	"errors"
	"fmt"
)

var errUnsupported = errors.New("btrfs is only supported on linux")

// FS is an open handle on a mounted btrfs filesystem. Only supported on
// linux; all operations fail elsewhere.
type FS struct {
	path string
}

func Open(path string) (*FS, error) {
	return nil, fmt.Errorf("open %s: %w", path, errUnsupported)
}

func (fs *FS) Path() string { return fs.path }

func (fs *FS) Close() error { return nil }

func (fs *FS) Devices() ([]Device, error) { return nil, errUnsupported }

func (fs *FS) DevStats(devid uint64) (DevStats, error) { return nil, errUnsupported }

func (fs *FS) Usage() (*Usage, error) { return nil, errUnsupported }
