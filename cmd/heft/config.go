package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/heft/pkg/heft/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage heft configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file if none exists",
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow prints the effective configuration, flags and environment
// included.
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("%v", err)
		return err
	}

	fmt.Printf("enabled:             %v\n", cfg.Enabled)
	fmt.Printf("threshold_kb:        %d\n", cfg.ThresholdKB)
	fmt.Printf("excluded_extensions: %s\n", strings.Join(cfg.ExcludedExtensions, ", "))
	fmt.Printf("exclude_globs:       %s\n", strings.Join(cfg.ExcludeGlobs, ", "))
	fmt.Printf("run_on_startup:      %v\n", cfg.RunOnStartup)
	fmt.Printf("run_on_save:         %v\n", cfg.RunOnSave)
	fmt.Printf("logging.level:       %s\n", cfg.Logging.Level)
	fmt.Printf("logging.path:        %s\n", cfg.Logging.Path)
	fmt.Printf("data dir:            %s\n", config.DataDir())
	return nil
}

// runConfigInit writes the default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.WriteDefault(); err != nil {
		printError("%v", err)
		return err
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	printInfo("config at %s", filepath.Join(dir, "config.yaml"))
	return nil
}
