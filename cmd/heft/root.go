package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/heft/pkg/heft/config"
	"github.com/jamesainslie/heft/pkg/heft/logging"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "heft [path]",
		Short: "Flag files that have grown past a size threshold",
		Long: `Heft scans a workspace for source files that have grown past a
configurable size threshold and suggests splitting them into smaller
modules.

Folders, individual files, and extensions can be excluded; exclusions
persist per workspace across runs.

Examples:
  heft                         # Scan current directory
  heft ~/code/app              # Scan specific workspace
  heft -t 50 .                 # Flag files larger than 50 KB
  heft -o json .               # Machine-readable output
  heft watch .                 # Re-check files as they change
  heft exclude folder ./dist   # Stop flagging anything under dist
  heft excluded                # Show active exclusions`,
		Args: cobra.MaximumNArgs(1),
	}
)

func init() {
	rootCmd.RunE = runScan
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/heft/config.yaml)")
	rootCmd.PersistentFlags().IntP("threshold-kb", "t", config.DefaultThresholdKB, "size threshold in KB")
	rootCmd.PersistentFlags().StringSliceP("exclude-glob", "e", nil, "extra glob patterns (can be specified multiple times)")
	rootCmd.PersistentFlags().StringP("output", "o", "pretty", "output format (pretty, plain, json, jsonl)")
	rootCmd.PersistentFlags().Bool("no-persist", false, "keep exclusions in memory only")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	_ = viper.BindPFlag("threshold_kb", rootCmd.PersistentFlags().Lookup("threshold-kb"))
	_ = viper.BindPFlag("exclude_globs", rootCmd.PersistentFlags().Lookup("exclude-glob"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("no_persist", rootCmd.PersistentFlags().Lookup("no-persist"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig wires the global viper the same way config.Load wires its
// own instance, then applies the --config override.
func initConfig() {
	if err := config.SetupViper(viper.GetViper()); err != nil {
		printError("%v", err)
	}
	if cfgFile != "" {
		// SetConfigFile takes precedence over the discovery paths.
		viper.SetConfigFile(cfgFile)
	}

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// loadConfig unmarshals the effective configuration, flags included.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Unmarshal(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if f := rootCmd.PersistentFlags().Lookup("threshold-kb"); f != nil && f.Changed && cfg.ThresholdKB <= 0 {
		return nil, fmt.Errorf("threshold-kb must be at least 1, got %d", cfg.ThresholdKB)
	}
	return cfg, nil
}

// setupLogging initializes logging from the effective configuration.
func setupLogging(cfg *config.Config) error {
	level := cfg.Logging.Level
	if getVerbose() {
		level = "debug"
	}
	return logging.Init(logging.Config{
		Level:      level,
		Path:       cfg.Logging.Path,
		Components: cfg.Logging.Components,
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
