package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/jamesainslie/heft/pkg/heft/types"
)

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Components map[string]string `mapstructure:"components"`
}

// Config represents the application configuration.
type Config struct {
	// Enabled turns scanning on or off globally.
	Enabled bool `mapstructure:"enabled"`

	// ThresholdKB is the oversized-file cutoff in kilobytes.
	ThresholdKB int `mapstructure:"threshold_kb"`

	// ExcludedExtensions lists extensions skipped during scanning.
	ExcludedExtensions []string `mapstructure:"excluded_extensions"`

	// ExcludeGlobs lists additional user glob patterns merged with the
	// default ignore globs.
	ExcludeGlobs []string `mapstructure:"exclude_globs"`

	// RunOnStartup triggers a bulk scan when watch mode starts.
	RunOnStartup bool `mapstructure:"run_on_startup"`

	// RunOnSave re-checks a file on every write event in watch mode.
	RunOnSave bool `mapstructure:"run_on_save"`

	Logging LoggingConfig `mapstructure:"logging"`
}

// Threshold returns the configured cutoff as a types.Threshold.
func (c *Config) Threshold() types.Threshold {
	return types.Threshold(c.ThresholdKB)
}

// SetupViper registers config file discovery, environment binding, and
// defaults on a viper instance. Load and the CLI's global viper share it
// so both resolve configuration identically.
//
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/heft/config.yaml
//   - $HOME/.config/heft/config.yaml
//
// Environment variables are prefixed with HEFT_ (e.g., HEFT_THRESHOLD_KB).
func SetupViper(v *viper.Viper) error {
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "heft"))
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "heft"))

	v.SetEnvPrefix("HEFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	return nil
}

// Unmarshal decodes the effective configuration from a viper instance.
func Unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Load loads configuration from file and environment variables on a fresh
// viper instance. A missing config file is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()
	if err := SetupViper(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults.
	}

	return Unmarshal(v)
}

// SetDefaults registers every default on the viper instance. The cobra
// root shares these with Load.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("enabled", DefaultEnabled)
	v.SetDefault("threshold_kb", DefaultThresholdKB)
	v.SetDefault("excluded_extensions", DefaultExcludedExtensions)
	v.SetDefault("exclude_globs", []string{})
	v.SetDefault("run_on_startup", DefaultRunOnStartup)
	v.SetDefault("run_on_save", DefaultRunOnSave)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.components", map[string]string{
		"scanner": "info",
		"watcher": "warn",
	})
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "heft"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "heft"), nil
}

// DataDir returns $XDG_DATA_HOME/heft/ for the exclusions database.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "heft")
}

// StateDir returns $XDG_STATE_HOME/heft/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "heft")
}

// DefaultDBPath returns the default exclusions database path.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "heft.db")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "heft.log")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	if err := os.MkdirAll(DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# Heft configuration

# Turn scanning on or off globally
enabled: true

# Files strictly larger than this many kilobytes are reported
threshold_kb: %d

# Extensions skipped during scanning
excluded_extensions:
%s
# Extra glob patterns merged with the built-in ignore globs.
# Patterns match workspace-relative or absolute paths, e.g.
# "dist/**" or "**/generated/**"
exclude_globs: []

# Watch mode behavior
run_on_startup: true
run_on_save: true

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty logs to stderr)
  path: ""
  # Per-component log levels
  components:
    scanner: info
    watcher: warn
`, DefaultThresholdKB, yamlList(DefaultExcludedExtensions))

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}
	return nil
}

// yamlList renders values as indented YAML list items.
func yamlList(values []string) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteString("  - ")
		b.WriteString(v)
		b.WriteString("\n")
	}
	return b.String()
}
