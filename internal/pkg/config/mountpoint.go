package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/disk"
)

// ValidateMountpoint checks the target path before any filesystem query:
// it must exist, be a readable directory, and appear in the mount table as
// a btrfs mountpoint.
func ValidateMountpoint(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid mountpoint %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("mountpoint %s does not exist: %w", abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("mountpoint %s is not a directory", abs)
	}

	f, err := os.Open(abs)
	if err != nil {
		return fmt.Errorf("mountpoint %s is not readable: %w", abs, err)
	}
	f.Close()

	partitions, err := disk.Partitions(true)
	if err != nil {
		return fmt.Errorf("failed to read mount table: %w", err)
	}
	for _, p := range partitions {
		if p.Mountpoint != abs {
			continue
		}
		if p.Fstype != "btrfs" {
			return fmt.Errorf("mountpoint %s is %s, not btrfs", abs, p.Fstype)
		}
		return nil
	}
	return fmt.Errorf("%s is not a mountpoint", abs)
}
