package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starwind-ui/starwind/internal/config"
	"github.com/starwind-ui/starwind/internal/tui"
)

// pickInstalled chooses among recorded components for update and remove,
// from --all, the arguments or the picker. verb names the action in
// messages.
func pickInstalled(
	cmd *cobra.Command,
	installed []config.InstalledComponent,
	args []string,
	all, yes bool,
	verb string,
) ([]string, error) {
	out := cmd.OutOrStdout()

	names := make([]string, 0, len(installed))
	for _, c := range installed {
		names = append(names, c.Name)
	}

	switch {
	case all:
		return names, nil

	case len(args) > 0:
		valid, invalid := partitionNames(args, names)
		if len(invalid) > 0 {
			fmt.Fprintln(out, tui.Warn("Components not found in project:"))
			for _, n := range invalid {
				fmt.Fprintf(out, "  %s\n", n)
			}
		}
		if len(valid) == 0 {
			return nil, fmt.Errorf("no valid components to %s", verb)
		}
		return valid, nil

	case yes || !isInteractive():
		return nil, fmt.Errorf("%w; pass component names or --all", errNoComponents)

	default:
		options := make([]tui.Option, 0, len(installed))
		for _, c := range installed {
			options = append(options, tui.Option{Value: c.Name, Label: c.Name, Hint: "v" + c.Version})
		}
		selected, err := selectComponents(cmd.InOrStdin(), cmd.ErrOrStderr(),
			fmt.Sprintf("Select components to %s", verb), options, false)
		if err != nil {
			if errors.Is(err, tui.ErrSelectionCancelled) {
				return nil, errOperationCancelled
			}
			return nil, err
		}
		if len(selected) == 0 {
			return nil, errNoComponents
		}
		return selected, nil
	}
}

// loadInstalled returns the recorded components, failing when the project is
// not initialized.
func loadInstalled(ws *workspace) ([]config.InstalledComponent, error) {
	if !ws.Store.Exists() {
		return nil, errNotInitialized
	}
	return ws.Store.Installed()
}
