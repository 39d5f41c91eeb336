// Package cli wires the geoflow command tree.
package cli

import (
	"fmt"
	"strings"

	"geoflow-cli/internal/catalog"
	"geoflow-cli/internal/config"
	"geoflow-cli/internal/format"

	"github.com/spf13/cobra"
)

type App struct {
	ServerURL  string
	ProjectID  string
	SessionID  string
	CSRFToken  string
	PrettyJSON bool
}

func (a *App) client() *catalog.Client {
	return catalog.New(a.ServerURL, a.SessionID, a.CSRFToken)
}

// projectID resolves the target project: positional argument first, then
// the --project flag / GEOFLOW_PROJECT.
func (a *App) projectID(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	if strings.TrimSpace(a.ProjectID) != "" {
		return strings.TrimSpace(a.ProjectID), nil
	}
	return "", fmt.Errorf("no project given (pass an id or set GEOFLOW_PROJECT)")
}

func NewRootCmd() *cobra.Command {
	cfg, cfgErr := config.Load()
	app := &App{}

	cmd := &cobra.Command{
		Use:          "geoflow",
		Short:        "GeoFlow work-scope CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Edit a project's work scope interactively
  geoflow scope edit demo

  # Scriptable commands
  geoflow scope show demo
  geoflow scope save demo --file items.json

  # Run the local dev server (and seed it once)
  geoflow seed
  geoflow serve
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Surface env parse problems on any subcommand, not just the ones
		// that happen to read the offending variable.
		return cfgErr
	}

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", cfg.ServerURL, "GeoFlow server base URL")
	cmd.PersistentFlags().StringVar(&app.ProjectID, "project", cfg.ProjectID, "Project id (default: GEOFLOW_PROJECT)")
	cmd.PersistentFlags().StringVar(&app.SessionID, "session", cfg.SessionID, "Session cookie value")
	cmd.PersistentFlags().StringVar(&app.CSRFToken, "csrf", cfg.CSRFToken, "CSRF token")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newScopeCmd(app))
	cmd.AddCommand(newServeCmd(cfg))
	cmd.AddCommand(newSeedCmd(cfg))

	return cmd
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}
