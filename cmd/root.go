package cmd

import (
	"fmt"
	"os"

	"CheckBtrfsDO/internal/btrfs"
	"CheckBtrfsDO/internal/checks/allocation"
	"CheckBtrfsDO/internal/checks/devstats"
	"CheckBtrfsDO/internal/pkg/config"
	"CheckBtrfsDO/internal/pkg/logger"
	"CheckBtrfsDO/internal/plugin"

	"github.com/spf13/cobra"
)

var (
	configPath string
	mountpoint string

	allocatedWarningGiB      int64
	allocatedCriticalGiB     int64
	allocatedWarningPercent  int64
	allocatedCriticalPercent int64
)

// rootCmd represents the base command; invoking the binary with no
// subcommand runs the check itself, which is how the monitoring framework
// calls it.
var rootCmd = &cobra.Command{
	Use:   "check_btrfs",
	Short: "Monitoring plugin that checks btrfs allocation and device health",
	Long: `check_btrfs inspects a mounted btrfs filesystem's block allocation and
per-device error counters, compares them against the configured thresholds
and reports a single status line in the monitoring-plugin convention.
The exit code is the severity: 0=OK, 1=WARNING, 2=CRITICAL, 3=UNKNOWN.`,
	Run: func(cmd *cobra.Command, args []string) {
		runCheck(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(plugin.SeverityUnknown.ExitCode())
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&mountpoint, "mountpoint", "m", "", "Path to the btrfs mountpoint to check")

	rootCmd.Flags().Int64Var(&allocatedWarningGiB, "allocated-warning-gib", 0,
		"Warn when unallocated space falls below this many GiB")
	rootCmd.Flags().Int64Var(&allocatedCriticalGiB, "allocated-critical-gib", 0,
		"Critical when unallocated space falls below this many GiB")
	rootCmd.Flags().Int64Var(&allocatedWarningPercent, "allocated-warning-percent", 100,
		"Warn when allocated space reaches this percentage of total")
	rootCmd.Flags().Int64Var(&allocatedCriticalPercent, "allocated-critical-percent", 100,
		"Critical when allocated space reaches this percentage of total")
}

// loadConfig merges the optional config file with the command line. Flags
// that were set explicitly win over file values.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetDefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if mountpoint != "" {
		cfg.Check.Mountpoint = mountpoint
	}
	if cmd.Flags().Changed("allocated-warning-gib") {
		cfg.Check.AllocatedWarningGiB = allocatedWarningGiB
	}
	if cmd.Flags().Changed("allocated-critical-gib") {
		cfg.Check.AllocatedCriticalGiB = allocatedCriticalGiB
	}
	if cmd.Flags().Changed("allocated-warning-percent") {
		cfg.Check.AllocatedWarningPercent = allocatedWarningPercent
	}
	if cmd.Flags().Changed("allocated-critical-percent") {
		cfg.Check.AllocatedCriticalPercent = allocatedCriticalPercent
	}
	return cfg, nil
}

// runCheck performs the full check pass: preconditions, allocation check,
// device check, then the aggregated report on stdout.
func runCheck(cmd *cobra.Command) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		exitWith(plugin.SeverityCritical, err.Error())
	}
	if err := logger.Init(cfg); err != nil {
		exitWith(plugin.SeverityCritical, err.Error())
	}

	// Precondition tier: any violation short-circuits to CRITICAL before the
	// filesystem is ever queried.
	if err := cfg.Check.Validate(); err != nil {
		exitWith(plugin.SeverityCritical, err.Error())
	}
	if err := config.ValidateMountpoint(cfg.Check.Mountpoint); err != nil {
		exitWith(plugin.SeverityCritical, err.Error())
	}

	fs, err := btrfs.Open(cfg.Check.Mountpoint)
	if err != nil {
		exitWith(plugin.SeverityCritical, err.Error())
	}
	defer fs.Close()

	usage, err := fs.Usage()
	if err != nil {
		exitWith(plugin.SeverityUnknown, err.Error())
	}
	usageResult := allocation.Check(usage, allocation.Thresholds{
		WarningBytes:    cfg.Check.WarningBytes(),
		CriticalBytes:   cfg.Check.CriticalBytes(),
		WarningPercent:  int(cfg.Check.AllocatedWarningPercent),
		CriticalPercent: int(cfg.Check.AllocatedCriticalPercent),
	})

	deviceResult, err := devstats.Check(fs)
	if err != nil {
		exitWith(plugin.SeverityUnknown, err.Error())
	}

	result := plugin.Merge(usageResult, deviceResult)
	logger.Info("check finished",
		logger.String("mountpoint", cfg.Check.Mountpoint),
		logger.String("severity", result.Severity.String()),
	)
	fmt.Println(result.Line())
	logger.Sync()
	os.Exit(result.Severity.ExitCode())
}

// exitWith prints a diagnostic in the plugin output convention and leaves
// with the matching exit code.
func exitWith(sev plugin.Severity, msg string) {
	fmt.Printf("%s, %s\n", sev, msg)
	logger.Sync()
	os.Exit(sev.ExitCode())
}
