package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/lectern/internal/cli/styles"
)

var recentLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Print recently opened documents",
	Long: `Print the paths of recently opened documents, one per line, most
recent first. Documents that no longer exist are skipped.

Useful with launchers:
  lectern open "$(lectern recent | fzf)"`,
	RunE: runRecent,
}

func init() {
	rootCmd.AddCommand(recentCmd)
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", defaultSessionsLimit, "maximum documents to print")
}

func runRecent(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	output, err := app.ListSessionsUC.Execute(app.Ctx(), recentLimit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if recent := styles.NewSessionsCLIRenderer(app.Theme).RenderRecent(output.Sessions); recent != "" {
		fmt.Println(recent)
	}
	return nil
}
