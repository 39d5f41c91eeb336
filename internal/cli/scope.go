package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"geoflow-cli/internal/model"
	"geoflow-cli/internal/qty"
	"geoflow-cli/internal/scope"
	"geoflow-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newScopeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scope",
		Short: "Work with a project's work scope",
	}
	cmd.AddCommand(newScopeEditCmd(app))
	cmd.AddCommand(newScopeShowCmd(app))
	cmd.AddCommand(newScopeSaveCmd(app))
	return cmd
}

func newScopeEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [project]",
		Short: "Edit the work scope in the TUI",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := app.projectID(args)
			if err != nil {
				return err
			}
			sess := scope.NewSession(app.client(), project)
			saved, err := tui.Run(sess)
			if err != nil {
				return err
			}
			if saved {
				fmt.Fprintln(cmd.OutOrStdout(), "Scope saved.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "No changes saved.")
			}
			return nil
		},
	}
}

// scopeRow is the flattened view scope show prints: one line per work
// item with the project's current values merged over catalog defaults.
type scopeRow struct {
	L1           string `json:"l1"`
	L2           string `json:"l2"`
	L3           string `json:"l3"`
	Code         string `json:"code"`
	Active       bool   `json:"active"`
	Unit         string `json:"unit"`
	DesignQty    string `json:"design_qty"`
	CompletedQty string `json:"completed_qty"`
}

func mergedRows(data *model.ScopeData) []scopeRow {
	snap := scope.NewSnapshot(data)
	buf := scope.NewBuffer()
	var out []scopeRow
	for _, l1 := range snap.L1List() {
		for _, l2 := range snap.L2For(l1.ID) {
			for _, row := range scope.BuildRows(snap, buf, l2.ID) {
				out = append(out, scopeRow{
					L1:           l1.Name,
					L2:           l2.Name,
					L3:           row.Item.Name,
					Code:         row.Item.Code,
					Active:       row.Record.Active,
					Unit:         row.Record.Unit,
					DesignQty:    qty.Format(row.Record.DesignQty),
					CompletedQty: qty.Format(row.Record.CompletedQty),
				})
			}
		}
	}
	return out
}

func newScopeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [project]",
		Short: "Print the merged work scope as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := app.projectID(args)
			if err != nil {
				return err
			}
			data, err := app.client().FetchScopeData(cmd.Context(), project)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, mergedRows(data))
		},
	}
}

func readSaveRequest(r io.Reader) (model.SaveRequest, error) {
	var req model.SaveRequest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return model.SaveRequest{}, fmt.Errorf("parse save file: %w", err)
	}
	if len(req.Items) == 0 {
		return model.SaveRequest{}, fmt.Errorf("save file has no items")
	}
	return req, nil
}

func newScopeSaveCmd(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "save [project]",
		Short: "Submit scope items from a JSON file",
		Long:  "Reads {\"items\": [...]} from --file (or stdin with --file -) and submits it in one request.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := app.projectID(args)
			if err != nil {
				return err
			}
			var in io.Reader
			if file == "-" {
				in = cmd.InOrStdin()
			} else {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			req, err := readSaveRequest(in)
			if err != nil {
				return err
			}
			resp, err := app.client().SaveScope(cmd.Context(), project, req)
			if err != nil {
				return err
			}
			if !resp.OK {
				return fmt.Errorf("server rejected save: %s", resp.Error)
			}
			return writeOut(cmd, app, map[string]any{"ok": true, "items": len(req.Items)})
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "Path to the items JSON file (- for stdin)")
	return cmd
}
