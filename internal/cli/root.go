// Package cli implements the ptatemp command line interface. Commands are
// thin wrappers over the engine; each command that needs one opens the
// SQLite-backed engine through the deps factory and closes it when done.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tfkr-ae/ptatemp"
	"github.com/tfkr-ae/ptatemp/db"
)

// BuildInfo carries the version information stamped in at build time.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

// commandDeps bundles what every command needs: the output writer, the build
// information, and the engine factory. Tests swap the factory for one backed
// by a temporary directory.
type commandDeps struct {
	out       io.Writer
	build     BuildInfo
	newEngine func() (*ptatemp.Engine, error)
}

// Execute runs the root command with the given arguments and reports any
// failure on errOut. It returns the process exit code.
func Execute(out io.Writer, errOut io.Writer, args []string, build BuildInfo) int {
	cmd := NewRootCommand(out, build)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(errOut, "ptatemp: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCommand assembles the ptatemp command tree.
func NewRootCommand(out io.Writer, build BuildInfo) *cobra.Command {
	deps := commandDeps{
		out:       out,
		build:     build,
		newEngine: defaultEngine,
	}

	cmd := &cobra.Command{
		Use:           "ptatemp",
		Short:         "Template engine for plaintext accounting journal entries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(out)

	cmd.AddCommand(
		newVersionCommand(deps),
		newRenderCommand(deps),
		newTemplateCommand(deps),
		newHistoryCommand(deps),
		newExtensionCommand(deps),
		newJournalCommand(deps),
		newCurrencyCommand(deps),
		newLogsCommand(deps),
	)
	cmd.InitDefaultCompletionCmd()
	return cmd
}

// defaultEngine opens the engine against the user's configuration directory,
// loading the configuration, the SQLite store, and every enabled extension.
func defaultEngine() (*ptatemp.Engine, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("locating user config dir : %w", err)
	}
	configDir := filepath.Join(userConfigDir, "ptatemp")
	// The db file lives in the config dir, so it has to exist before the
	// connection is opened
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config dir %s : %w", configDir, err)
	}

	database, err := db.New(filepath.Join(configDir, "ptatemp.db"))
	if err != nil {
		return nil, fmt.Errorf("opening store : %w", err)
	}
	repo := db.NewRepository(database)

	extensions, err := repo.GetExtensions()
	if err != nil {
		return nil, fmt.Errorf("loading extensions : %w", err)
	}

	engine, err := ptatemp.New(
		ptatemp.WithConfigDir(configDir),
		ptatemp.WithRepo(repo),
		ptatemp.WithExtensions(extensions),
	)
	if err != nil {
		return nil, err
	}
	go engine.WriteToStore()
	return engine, nil
}

func newVersionCommand(deps commandDeps) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(deps.out)
				enc.SetIndent("", "  ")
				return enc.Encode(deps.build)
			}

			_, err := fmt.Fprintf(deps.out, "version=%s commit=%s build_time=%s\n", deps.build.Version, deps.build.Commit, deps.build.BuildTime)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version as JSON")
	return cmd
}

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
