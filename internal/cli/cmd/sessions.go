package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/cli/model"
	"github.com/bnema/lectern/internal/cli/styles"
)

const defaultSessionsLimit = 20

var (
	sessionsJSON  bool
	sessionsLimit int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved document sessions",
	Long: `View and forget the sessions saved for each document.

A session holds the page, zoom, tabs, pop-out windows and bookmarks of a
document. It is saved while you read and restored when you reopen it.

Run without arguments to open the interactive session browser. Press
enter on a document to reopen it.`,
	RunE: runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	m := model.NewSessionsModel(app.Ctx(), app.Theme, model.SessionsModelConfig{
		ListSessionsUC:    app.ListSessionsUC,
		DeleteSessionUC:   app.DeleteSessionUC,
		MaxListedSessions: app.Config.Session.MaxStoredSessions,
	})

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}

	sessions, ok := final.(model.SessionsModel)
	if !ok || sessions.Selected() == "" {
		return nil
	}
	return reopen(sessions.Selected())
}

// sessions list
var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions",
	Long: `List documents with a saved session, most recently opened first.

Documents that no longer exist on disk are marked as missing.`,
	RunE: runSessionsList,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsListCmd.Flags().BoolVar(&sessionsJSON, "json", false, "output as JSON")
	sessionsListCmd.Flags().IntVar(&sessionsLimit, "limit", defaultSessionsLimit, "maximum sessions to show")
}

func runSessionsList(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	output, err := app.ListSessionsUC.Execute(app.Ctx(), sessionsLimit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if sessionsJSON {
		return outputSessionsJSON(output.Sessions)
	}

	return outputSessionsTable(output.Sessions)
}

type sessionJSON struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	LastOpened time.Time `json:"lastOpened"`
	Missing    bool      `json:"missing,omitempty"`
}

func outputSessionsJSON(sessions []usecase.SessionInfo) error {
	out := lo.Map(sessions, func(s usecase.SessionInfo, _ int) sessionJSON {
		return sessionJSON{Path: s.FilePath, Name: s.Name, LastOpened: s.LastOpened, Missing: s.Missing}
	})
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func outputSessionsTable(sessions []usecase.SessionInfo) error {
	if len(sessions) == 0 {
		fmt.Println("No saved sessions found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STATUS\tDOCUMENT\tFOLDER\tLAST OPENED")

	for _, info := range sessions {
		status := " "
		if info.Missing {
			status = "!"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			status,
			info.Name,
			filepath.Dir(info.FilePath),
			styles.RelativeTime(info.LastOpened),
		)
	}

	return w.Flush()
}

// sessions delete <document>
var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <document>",
	Short: "Forget the saved session of a document",
	Long: `Delete the saved session of a document.

The document itself is left untouched. It can be named by its path or
by its file name as long as the name is unique.

Example:
  lectern sessions delete ~/papers/attention.pdf
  lectern sessions delete attention.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionsDelete,
}

func init() {
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

func runSessionsDelete(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	info, err := findSession(app.ListSessionsUC, args[0])
	if err != nil {
		return err
	}

	if err := app.DeleteSessionUC.Execute(app.Ctx(), usecase.DeleteSessionInput{FilePath: info.FilePath}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	fmt.Println(styles.NewSessionsCLIRenderer(app.Theme).RenderDeleted(info.FilePath))
	return nil
}

// findSession finds a session by absolute path or unique file name.
func findSession(list *usecase.ListSessionsUseCase, pathOrName string) (*usecase.SessionInfo, error) {
	app := GetApp()
	output, err := list.Execute(app.Ctx(), defaultSessionsLimit*5)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	if abs, absErr := filepath.Abs(pathOrName); absErr == nil {
		if info, ok := lo.Find(output.Sessions, func(s usecase.SessionInfo) bool { return s.FilePath == abs }); ok {
			return &info, nil
		}
	}

	matches := lo.Filter(output.Sessions, func(s usecase.SessionInfo, _ int) bool {
		return strings.EqualFold(s.Name, pathOrName) || strings.HasSuffix(s.FilePath, "/"+pathOrName)
	})

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no session found matching '%s'", pathOrName)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous document '%s' matches %d sessions - use the full path", pathOrName, len(matches))
	}
}
