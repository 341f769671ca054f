package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/cli/styles"
	"github.com/bnema/lectern/internal/infrastructure/desktop"
)

var desktopSetDefault bool

var desktopCmd = &cobra.Command{
	Use:   "desktop",
	Short: "Manage desktop integration",
	Long:  `Install or remove the desktop entry that lets file managers open PDFs in lectern.`,
}

var desktopInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the desktop entry",
	Long: `Install lectern.desktop in ~/.local/share/applications.

With --default, lectern also becomes the default application for PDFs.`,
	RunE: runDesktopInstall,
}

var desktopRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the desktop entry",
	RunE:  runDesktopRemove,
}

func init() {
	rootCmd.AddCommand(desktopCmd)
	desktopCmd.AddCommand(desktopInstallCmd)
	desktopCmd.AddCommand(desktopRemoveCmd)
	desktopInstallCmd.Flags().BoolVar(&desktopSetDefault, "default", false, "set lectern as the default PDF viewer")
}

func runDesktopInstall(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	t := app.Theme

	uc := usecase.NewInstallDesktopUseCase(desktop.New())
	out, err := uc.Execute(app.Ctx(), usecase.InstallDesktopInput{SetDefault: desktopSetDefault})
	if err != nil {
		return fmt.Errorf("install desktop entry: %w", err)
	}

	verb := "Installed"
	if out.WasDesktopExisting {
		verb = "Updated"
	}
	fmt.Printf("%s %s %s\n", t.SuccessStyle.Render(styles.IconCheck), verb, t.Highlight.Render(out.DesktopPath))

	switch {
	case out.IsDefault && !out.WasAlreadyDefault:
		fmt.Printf("%s lectern is now the default PDF viewer\n", t.SuccessStyle.Render(styles.IconCheck))
	case out.IsDefault:
		fmt.Printf("%s lectern is already the default PDF viewer\n", t.Subtle.Render(styles.IconInfo))
	default:
		fmt.Println(t.Subtle.Render("Run 'lectern desktop install --default' to open PDFs with lectern by default."))
	}
	return nil
}

func runDesktopRemove(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	t := app.Theme

	uc := usecase.NewRemoveDesktopUseCase(desktop.New())
	out, err := uc.Execute(app.Ctx())
	if err != nil {
		return fmt.Errorf("remove desktop entry: %w", err)
	}

	if !out.WasDesktopInstalled {
		fmt.Println(t.Subtle.Render("Desktop entry was not installed."))
		return nil
	}
	fmt.Printf("%s Removed %s\n", t.SuccessStyle.Render(styles.IconCheck), out.RemovedDesktopPath)
	return nil
}
