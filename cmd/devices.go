package cmd

import (
	"fmt"
	"os"
	"strings"

	"CheckBtrfsDO/internal/btrfs"
	"CheckBtrfsDO/internal/plugin"

	"github.com/spf13/cobra"
)

// devicesCmd lists the filesystem's member devices for operators; it is not
// part of the monitoring output contract.
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List the member devices of a btrfs filesystem",
	Long:  `List every member device with its devid, size, allocated bytes and error counters.`,
	Run: func(cmd *cobra.Command, args []string) {
		if mountpoint == "" {
			fmt.Fprintln(os.Stderr, "mountpoint is required")
			os.Exit(plugin.SeverityUnknown.ExitCode())
		}

		fs, err := btrfs.Open(mountpoint)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(plugin.SeverityUnknown.ExitCode())
		}
		defer fs.Close()

		devices, err := fs.Devices()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(plugin.SeverityUnknown.ExitCode())
		}

		for _, dev := range devices {
			stats, err := fs.DevStats(dev.ID)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(plugin.SeverityUnknown.ExitCode())
			}
			fmt.Printf("devid %d  %s  size %s  allocated %s  %s\n",
				dev.ID, dev.Path,
				btrfs.HumanSize(dev.TotalBytes), btrfs.HumanSize(dev.BytesUsed),
				formatStats(stats))
		}
	},
}

func formatStats(stats btrfs.DevStats) string {
	if stats.Healthy() {
		return "no errors"
	}
	var parts []string
	for _, name := range btrfs.StatNames {
		if v := stats[name]; v != 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", name, v))
		}
	}
	return strings.Join(parts, " ")
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
