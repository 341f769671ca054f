// Package cmd provides Cobra CLI commands for lectern.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/lectern/internal/cli"
)

var (
	app     *cli.App
	rootCmd = &cobra.Command{
		Use:   "lectern",
		Short: "A keyboard-driven terminal PDF reader",
		Long: `Lectern - a terminal PDF reader with tabs and pop-out windows.

Features:
  - Tabs over pages of the open document
  - Pop a page out into its own window and move it back as a tab
  - Bookmarks, back/forward page history and incremental search
  - Windows of one document stay in sync
  - Sessions saved per document and restored on reopen

Run 'lectern open [file]' to read a document, or explore the
subcommands to manage saved sessions and desktop integration.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "schema":
				return nil
			}

			var err error
			app, err = cli.NewApp(cli.Options{FileLog: cmd == openCmd})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetVersion sets the version reported by --version.
func SetVersion(version string) {
	rootCmd.Version = version
}
