package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/starwind-ui/starwind/internal/registry"
	"github.com/starwind-ui/starwind/internal/tui"
)

const tabPadding = 2

type listRow struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Installed    string   `json:"installed,omitempty"`
	Dependencies []string `json:"dependencies"`
}

func newListCmd() *cobra.Command {
	var installedOnly, asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registry components and what the project has installed",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, installedOnly, asJSON)
		},
	}
	cmd.Flags().BoolVar(&installedOnly, "installed", false, "only show components installed in the project")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func runList(cmd *cobra.Command, installedOnly, asJSON bool) error {
	ctx := cmd.Context()

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	components, err := ws.Registry.All(ctx)
	if err != nil {
		return fmt.Errorf("loading registry: %w", err)
	}

	installed := map[string]string{}
	if ws.Store.Exists() {
		recorded, loadErr := ws.Store.Installed()
		if loadErr != nil {
			return loadErr
		}
		for _, c := range recorded {
			installed[c.Name] = c.Version
		}
	}

	rows := buildListRows(components, installed, installedOnly)

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(w, "Name\tVersion\tInstalled\tDependencies")
	fmt.Fprintln(w, "----\t-------\t---------\t------------")
	for _, r := range rows {
		mark := "-"
		if r.Installed != "" {
			mark = r.Installed
		}
		deps := "-"
		if len(r.Dependencies) > 0 {
			deps = strings.Join(r.Dependencies, ", ")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.Version, mark, deps)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", tui.Label(fmt.Sprintf("%d of %d components installed (%s registry)",
		len(installed), len(components), ws.Registry.Source())))
	return nil
}

func buildListRows(components []registry.Component, installed map[string]string, installedOnly bool) []listRow {
	rows := make([]listRow, 0, len(components))
	for _, c := range components {
		v, ok := installed[c.Name]
		if installedOnly && !ok {
			continue
		}
		rows = append(rows, listRow{
			Name:         c.Name,
			Version:      c.Version,
			Installed:    v,
			Dependencies: c.Dependencies,
		})
	}
	return rows
}
