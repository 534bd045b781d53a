package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starwind-ui/starwind/internal/component"
	"github.com/starwind-ui/starwind/internal/tui"
)

func newRemoveCmd() *cobra.Command {
	var all, yes bool

	cmd := &cobra.Command{
		Use:     "remove [components...]",
		Aliases: []string{"rm"},
		Short:   "Remove installed components from the project",
		Example: `  # Remove one component
  starwind remove card

  # Remove everything without prompting
  starwind remove --all --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, args, all, yes)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "remove every installed component")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompts")
	return cmd
}

func runRemove(cmd *cobra.Command, args []string, all, yes bool) error {
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

	names, err := pickInstalled(cmd, installed, args, all, yes, "remove")
	if err != nil {
		return err
	}

	if !yes && isInteractive() {
		answer := newPrompter(cmd).Confirm(fmt.Sprintf("Remove %s %s?",
			joinInfo(names), pluralize(len(names), "component")), false)
		if !answer.Accepted {
			return errOperationCancelled
		}
	}

	var removed, failed []component.RemoveResult
	for _, name := range names {
		result := ws.Components.Remove(ctx, name)
		if result.Status == component.StatusRemoved {
			removed = append(removed, result)
		} else {
			failed = append(failed, result)
		}
	}

	// Selected entries leave the config even when their files were already gone.
	if err := ws.Store.RemoveComponents(names...); err != nil {
		return fmt.Errorf("failed to update config: %w", err)
	}

	fmt.Fprintf(out, "\n%s\n", tui.Underline("Removal Summary"))
	if len(failed) > 0 {
		fmt.Fprintln(out, tui.Error("Failed to remove components:"))
		for _, r := range failed {
			fmt.Fprintf(out, "  %s - %v\n", r.Name, r.Err)
		}
	}
	if len(removed) > 0 {
		fmt.Fprintln(out, tui.Success("Successfully removed components:"))
		for _, r := range removed {
			fmt.Fprintf(out, "  %s\n", r.Name)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d %s failed to remove", len(failed), pluralize(len(failed), "component"))
	}
	return nil
}
