package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/heft/pkg/heft/exclusion"
	"github.com/jamesainslie/heft/pkg/heft/store"
	"github.com/jamesainslie/heft/pkg/heft/workspace"
)

var excludeCmd = &cobra.Command{
	Use:   "exclude",
	Short: "Exclude a folder, file, or extension from scanning",
	Long: `Add an exclusion to the current workspace. Exclusions persist
across runs. Excluding an already-excluded entry is a no-op.`,
}

var includeCmd = &cobra.Command{
	Use:   "include",
	Short: "Remove a previously added exclusion",
	Long: `Remove an exclusion from the current workspace. Including an
entry that is not excluded is a no-op.`,
}

var excludedCmd = &cobra.Command{
	Use:   "excluded [path]",
	Short: "Show the active exclusions for a workspace",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExcluded,
}

func init() {
	excludeCmd.AddCommand(
		toggleCmd("folder", "Exclude a folder and everything under it",
			func(m *exclusion.Manager, arg string, _ []string) error {
				return m.ExcludeFolder(arg)
			}),
		toggleCmd("file", "Exclude a single file",
			func(m *exclusion.Manager, arg string, _ []string) error {
				return m.ExcludeFile(arg)
			}),
		toggleCmd("ext", "Exclude a file extension",
			func(m *exclusion.Manager, arg string, defaults []string) error {
				return m.ExcludeExtension(arg, defaults)
			}),
	)
	includeCmd.AddCommand(
		toggleCmd("folder", "Stop excluding a folder",
			func(m *exclusion.Manager, arg string, _ []string) error {
				return m.IncludeFolder(arg)
			}),
		toggleCmd("file", "Stop excluding a file",
			func(m *exclusion.Manager, arg string, _ []string) error {
				return m.IncludeFile(arg)
			}),
		toggleCmd("ext", "Stop excluding a file extension",
			func(m *exclusion.Manager, arg string, defaults []string) error {
				return m.IncludeExtension(arg, defaults)
			}),
	)

	rootCmd.AddCommand(excludeCmd, includeCmd, excludedCmd)
}

// toggleCmd builds one exclude/include subcommand. Folder and file
// arguments are resolved to absolute paths against the working directory;
// extensions are passed through as written.
func toggleCmd(kind, short string, apply func(m *exclusion.Manager, arg string, defaults []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " <" + kind + ">",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				printError("%v", err)
				return err
			}

			arg := args[0]
			if kind != "ext" {
				arg, err = filepath.Abs(arg)
				if err != nil {
					printError("resolving path: %v", err)
					return err
				}
			}

			mgr, st, err := managerForCwd()
			if err != nil {
				printError("%v", err)
				return err
			}
			defer st.Close()

			if err := apply(mgr, arg, cfg.ExcludedExtensions); err != nil {
				printError("updating exclusions: %v", err)
				return err
			}
			printInfo("ok")
			return nil
		},
	}
}

// managerForCwd builds an exclusion manager keyed to the workspace
// containing the current directory.
func managerForCwd() (*exclusion.Manager, store.Store, error) {
	root, err := resolveRoot(nil)
	if err != nil {
		return nil, nil, err
	}
	roots, err := workspace.NewRoots(root)
	if err != nil {
		return nil, nil, err
	}
	st := openStore()
	return exclusion.NewManager(st, roots.Project()), st, nil
}

// runExcluded prints the active exclusions for the workspace.
func runExcluded(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("%v", err)
		return err
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

	printList("Excluded folders", state.ExcludedFolders())
	printList("Excluded files", state.ExcludedFiles())
	printList("Excluded extensions", state.Extensions())
	fmt.Printf("Glob pattern: %s\n", orNone(state.GlobPattern()))
	return nil
}

func printList(title string, values []string) {
	fmt.Printf("%s:\n", title)
	if len(values) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, v := range values {
		fmt.Printf("  %s\n", v)
	}
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
