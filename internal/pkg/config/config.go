package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const gib = 1 << 30

// Config represents the main application configuration
type Config struct {
	AppName string      `yaml:"app_name"`
	Check   CheckConfig `yaml:"check"`
	Logs    LogsConfig  `yaml:"logs"`
}

// CheckConfig holds the check target and thresholds. The GiB values are
// floors on unallocated space, the percent values ceilings on allocated
// space; zero and one hundred respectively disable them.
type CheckConfig struct {
	Mountpoint               string `yaml:"mountpoint"`
	AllocatedWarningGiB      int64  `yaml:"allocated_warning_gib"`
	AllocatedCriticalGiB     int64  `yaml:"allocated_critical_gib"`
	AllocatedWarningPercent  int64  `yaml:"allocated_warning_percent"`
	AllocatedCriticalPercent int64  `yaml:"allocated_critical_percent"`
}

// LogsConfig holds logging configuration
type LogsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Level    string `yaml:"level"`
	FilePath string `yaml:"file_path"`
	Format   string `yaml:"format"`
	Stderr   bool   `yaml:"stderr"`
}

// LoadConfig loads the configuration from the specified file path
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		AppName: "CheckBtrfsDO",
		Check: CheckConfig{
			AllocatedWarningGiB:      0,
			AllocatedCriticalGiB:     0,
			AllocatedWarningPercent:  100,
			AllocatedCriticalPercent: 100,
		},
		Logs: LogsConfig{
			Enabled:  false,
			Level:    "info",
			FilePath: "logs",
			Format:   "json",
			Stderr:   false,
		},
	}
}

// Validate checks that every threshold lies in its legal range.
func (c *CheckConfig) Validate() error {
	if c.Mountpoint == "" {
		return fmt.Errorf("mountpoint is required")
	}
	if c.AllocatedWarningGiB < 0 {
		return fmt.Errorf("allocated-warning-gib must be non-negative, got %d", c.AllocatedWarningGiB)
	}
	if c.AllocatedCriticalGiB < 0 {
		return fmt.Errorf("allocated-critical-gib must be non-negative, got %d", c.AllocatedCriticalGiB)
	}
	if c.AllocatedWarningPercent < 0 || c.AllocatedWarningPercent > 100 {
		return fmt.Errorf("allocated-warning-percent must be between 0 and 100, got %d", c.AllocatedWarningPercent)
	}
	if c.AllocatedCriticalPercent < 0 || c.AllocatedCriticalPercent > 100 {
		return fmt.Errorf("allocated-critical-percent must be between 0 and 100, got %d", c.AllocatedCriticalPercent)
	}
	return nil
}

// WarningBytes returns the warning floor in bytes.
func (c *CheckConfig) WarningBytes() uint64 {
	return uint64(c.AllocatedWarningGiB) * gib
}

// CriticalBytes returns the critical floor in bytes.
func (c *CheckConfig) CriticalBytes() uint64 {
	return uint64(c.AllocatedCriticalGiB) * gib
}
