package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/heft/pkg/heft/diagnostics"
	"github.com/jamesainslie/heft/pkg/heft/exclusion"
	"github.com/jamesainslie/heft/pkg/heft/logging"
	"github.com/jamesainslie/heft/pkg/heft/scanner"
	"github.com/jamesainslie/heft/pkg/heft/watch"
	"github.com/jamesainslie/heft/pkg/heft/workspace"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch a workspace and re-check files as they change",
	Long: `Watch runs an initial scan (unless run_on_startup is disabled),
then keeps the results current by re-checking files as they are written,
created, or removed. Press Ctrl-C to stop.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// printingSink prints diagnostics to stdout as they appear and clear.
type printingSink struct{}

func (printingSink) Publish(path string, d diagnostics.Diagnostic) {
	fmt.Printf("%s: %s\n", path, d.Message)
}

func (printingSink) Discard(path string) {}

// runWatch starts watch mode on the workspace.
func runWatch(cmd *cobra.Command, args []string) error {
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

	session := scanner.NewSession(printingSink{})
	sc := scanner.New(scanner.OSFS{}, roots)

	if cfg.RunOnStartup {
		printInfo("scanning %s", root)
		sc.Run(ctx, state, cfg.Threshold(), session)
	}

	if !cfg.RunOnSave {
		printInfo("run_on_save is disabled; waiting for interrupt")
		<-ctx.Done()
		return nil
	}

	w, err := watch.New(sc, session, state, cfg.Threshold())
	if err != nil {
		printError("starting watcher: %v", err)
		return err
	}
	defer w.Close()

	if err := w.WatchRoots(roots); err != nil {
		printError("watching %s: %v", root, err)
		return err
	}

	printInfo("watching %s (Ctrl-C to stop)", root)
	w.Run(ctx)
	return nil
}
