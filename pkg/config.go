package duplicatescanner

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-ini/ini"
)

// Config represents the dupescan configuration file. The file is optional:
// a missing file yields defaults for every key, and the core Registry and
// Scanner types never consult it themselves.
type Config struct {
	configPath string
	ini        *ini.File
}

// RegistryConfig represents hash table configuration
type RegistryConfig struct {
	Buckets int64 // Bucket count (default: 512000)
}

// ScannerConfig represents traversal configuration
type ScannerConfig struct {
	Symlinks   string // Symlink mode: none, follow (default: none)
	IgnoreFile string // Path to an ignore-pattern file (default: none)
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Debug flags (comma-separated)
}

// OutputConfig represents output format configuration
type OutputConfig struct {
	Format string // Output format: human
}

// LoadConfig loads configuration from the given INI file. An empty path or a
// missing file is not an error; it yields a config holding only defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		configPath: configPath,
	}

	if configPath == "" {
		cfg.ini = ini.Empty()
		return cfg, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		return cfg, nil
	}

	iniFile, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	cfg.ini = iniFile

	return cfg, nil
}

// GetRegistryConfig returns the registry configuration
func (c *Config) GetRegistryConfig() *RegistryConfig {
	registryConfig := &RegistryConfig{
		Buckets: DefaultBucketCount, // fallback default
	}

	if c.ini.HasSection("registry") {
		section := c.ini.Section("registry")
		if section.HasKey("buckets") {
			if buckets, err := section.Key("buckets").Int64(); err == nil {
				registryConfig.Buckets = buckets
			}
		}
	}

	return registryConfig
}

// GetScannerConfig returns the traversal configuration
func (c *Config) GetScannerConfig() *ScannerConfig {
	scannerConfig := &ScannerConfig{
		Symlinks: SymlinkNone, // fallback default
	}

	if c.ini.HasSection("scanner") {
		section := c.ini.Section("scanner")
		if section.HasKey("symlinks") {
			scannerConfig.Symlinks = section.Key("symlinks").String()
		}
		if section.HasKey("ignore_file") {
			scannerConfig.IgnoreFile = section.Key("ignore_file").String()
		}
	}

	return scannerConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{
		Level: 0,  // fallback default
		Debug: "", // fallback default
	}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{
		Format: "human", // fallback default
	}

	if c.ini.HasSection("output") {
		section := c.ini.Section("output")
		if section.HasKey("format") {
			outputConfig.Format = section.Key("format").String()
		}
	}

	return outputConfig
}

// ValidateSymlinkMode validates that a symlink mode is supported
func ValidateSymlinkMode(mode string) error {
	switch strings.ToLower(mode) {
	case SymlinkNone, SymlinkFollow:
		return nil
	default:
		return fmt.Errorf("unsupported symlink mode: %s (supported: none, follow)", mode)
	}
}

// ValidateBucketCount validates that a bucket count is usable
func ValidateBucketCount(buckets int64) error {
	if buckets < 1 {
		return fmt.Errorf("bucket count must be at least 1, got: %d", buckets)
	}
	return nil
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateOutputFormat validates that an output format is supported
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case "human":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: human)", format)
	}
}
