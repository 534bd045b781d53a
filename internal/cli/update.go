package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starwind-ui/starwind/internal/component"
	"github.com/starwind-ui/starwind/internal/config"
	"github.com/starwind-ui/starwind/internal/tui"
)

func newUpdateCmd() *cobra.Command {
	var all, yes bool

	cmd := &cobra.Command{
		Use:   "update [components...]",
		Short: "Update installed components to the latest registry version",
		Example: `  # Update one component
  starwind update button

  # Update everything without prompting
  starwind update --all --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, args, all, yes)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "update every installed component")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompts")
	return cmd
}

func runUpdate(cmd *cobra.Command, args []string, all, yes bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	installed, err := loadInstalled(ws)
	if err != nil {
		return err
	}
	if len(installed) == 0 {
		fmt.Fprintln(out, tui.Warn("No components are currently installed."))
		return nil
	}

	names, err := pickInstalled(cmd, installed, args, all, yes, "update")
	if err != nil {
		return err
	}

	if !yes && isInteractive() {
		answer := newPrompter(cmd).Confirm(fmt.Sprintf("Check for updates to %s %s?",
			joinInfo(names), pluralize(len(names), "component")), true)
		if !answer.Accepted {
			return errOperationCancelled
		}
	}

	versions := make(map[string]string, len(installed))
	for _, c := range installed {
		versions[c.Name] = c.Version
	}

	var updated, skipped, failed []component.UpdateResult
	for _, name := range names {
		result := ws.Components.Update(ctx, name, versions[name], nil)
		switch result.Status {
		case component.StatusUpdated:
			updated = append(updated, result)
		case component.StatusSkipped:
			skipped = append(skipped, result)
		default:
			failed = append(failed, result)
		}
	}

	if len(updated) > 0 {
		records := make([]config.InstalledComponent, 0, len(updated))
		for _, r := range updated {
			records = append(records, config.InstalledComponent{Name: r.Name, Version: r.NewVersion})
		}
		if err := ws.Store.AppendComponents(records...); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
	}

	fmt.Fprintf(out, "\n%s\n", tui.Underline("Update Summary"))
	if len(skipped) > 0 {
		fmt.Fprintln(out, tui.Info("Components already up to date:"))
		for _, r := range skipped {
			fmt.Fprintf(out, "  %s (%s)\n", r.Name, r.OldVersion)
		}
	}
	if len(updated) > 0 {
		fmt.Fprintln(out, tui.Success("Successfully updated components:"))
		for _, r := range updated {
			fmt.Fprintf(out, "  %s (%s → %s)\n", r.Name, r.OldVersion, r.NewVersion)
		}
	}
	if len(failed) > 0 {
		fmt.Fprintln(out, tui.Error("Failed to update components:"))
		for _, r := range failed {
			fmt.Fprintf(out, "  %s - %v\n", r.Name, r.Err)
		}
		return fmt.Errorf("%d %s failed to update", len(failed), pluralize(len(failed), "component"))
	}
	return nil
}
