package main

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/heft/pkg/heft/config"
	"github.com/jamesainslie/heft/pkg/heft/exclusion"
	"github.com/jamesainslie/heft/pkg/heft/logging"
	"github.com/jamesainslie/heft/pkg/heft/output"
	"github.com/jamesainslie/heft/pkg/heft/scanner"
	"github.com/jamesainslie/heft/pkg/heft/store"
	"github.com/jamesainslie/heft/pkg/heft/workspace"
)

// resolveRoot turns the optional positional argument into an absolute
// workspace root, defaulting to the current directory.
func resolveRoot(args []string) (string, error) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving path %s: %w", root, err)
	}
	return abs, nil
}

// openStore opens the persisted exclusion store, honoring --no-persist.
// If the database cannot be opened (e.g. another heft process holds the
// lock), scanning proceeds with an in-memory store.
func openStore() store.Store {
	if viper.GetBool("no_persist") {
		return store.NewMemory()
	}
	if err := config.EnsureDataDir(); err != nil {
		logging.Get("store").Warn("falling back to in-memory store", "error", err)
		return store.NewMemory()
	}
	st, err := store.OpenBadger(config.DefaultDBPath())
	if err != nil {
		logging.Get("store").Warn("falling back to in-memory store", "error", err)
		return store.NewMemory()
	}
	return st
}

// buildState loads the persisted exclusions and merges them with the
// configured extensions and glob patterns.
func buildState(mgr *exclusion.Manager, cfg *config.Config) (*exclusion.State, error) {
	return mgr.State(cfg.ExcludedExtensions, cfg.ExcludeGlobs, config.DefaultIgnoreGlobs())
}

// runScan executes a bulk scan of the workspace and prints the results.
func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("%v", err)
		return err
	}
	if err := setupLogging(cfg); err != nil {
		printError("%v", err)
		return err
	}
	defer logging.Close()

	if !cfg.Enabled {
		printInfo("heft is disabled (set enabled: true to scan)")
		return nil
	}

	root, err := resolveRoot(args)
	if err != nil {
		printError("%v", err)
		return err
	}
	roots, err := workspace.NewRoots(root)
	if err != nil {
		printError("%v", err)
		return err
	}

	st := openStore()
	defer st.Close()

	mgr := exclusion.NewManager(st, roots.Project())
	state, err := buildState(mgr, cfg)
	if err != nil {
		printError("loading exclusions: %v", err)
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc := scanner.New(scanner.OSFS{}, roots)
	results, stats := sc.Scan(ctx, state, cfg.Threshold())

	result := output.BuildResult(results, stats, roots, cfg.Threshold())
	return printResult(result)
}

// printResult formats and prints a scan result with the selected formatter.
func printResult(result *output.Result) error {
	formatter, err := output.Get(viper.GetString("output"))
	if err != nil {
		printError("%v", err)
		return err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, result); err != nil {
		printError("formatting output: %v", err)
		return err
	}
	fmt.Print(buf.String())
	return nil
}
