package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/starwind-ui/starwind/internal/component"
	"github.com/starwind-ui/starwind/internal/config"
	"github.com/starwind-ui/starwind/internal/installer"
	"github.com/starwind-ui/starwind/internal/registry"
	"github.com/starwind-ui/starwind/internal/tui"
)

type addOptions struct {
	all            bool
	yes            bool
	dryRun         bool
	packageManager string
}

func newAddCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add [components...]",
		Short: "Add Starwind components to the project",
		Long: `Copies components into the project together with every Starwind component
they depend on, and installs their npm dependencies.`,
		Example: `  # Add a single component
  starwind add button

  # Add several components without prompting
  starwind add dialog tabs --yes

  # Show what would be installed
  starwind add dialog --dry-run

  # Add everything in the registry
  starwind add --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "add every available component")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "skip confirmation prompts")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the install plan without changing anything")
	cmd.Flags().StringVarP(&opts.packageManager, "package-manager", "m", "", "package manager to use: npm, pnpm, yarn or bun")
	return cmd
}

func runAdd(cmd *cobra.Command, args []string, opts addOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, tui.Title("Welcome to the Starwind CLI"))

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	interactive := !opts.yes && isInteractive()
	p := newPrompter(cmd)

	if !ws.Store.Exists() && !opts.dryRun {
		if err := initBeforeAdd(cmd, p, opts, interactive); err != nil {
			return err
		}
	}

	names, err := componentsToAdd(cmd, ws, args, opts)
	if err != nil {
		return err
	}

	pm, err := choosePackageManager(cmd, ws.Root, opts.packageManager)
	if err != nil {
		return err
	}

	var confirm installer.ConfirmFunc
	if interactive {
		confirm = func(_ string, deps []string) bool {
			answer := p.Confirm(fmt.Sprintf("This component requires the following dependencies: %s. Install them?",
				strings.Join(deps, ", ")), true)
			return answer.Accepted
		}
	}
	inst := ws.installer(pm, confirm)

	if opts.dryRun {
		return printPlan(cmd, inst, names)
	}

	logger.Info().
		Ctx(ctx).
		Str("operation", "add").
		Strs("components", names).
		Str("package_manager", string(pm)).
		Msg("adding components")

	var (
		summary  installSummary
		recorded []config.InstalledComponent
	)
	for _, name := range names {
		result := inst.InstallComponent(ctx, name)
		if result.Status == component.StatusInstalled {
			recorded = append(recorded, config.InstalledComponent{Name: result.Name, Version: result.Version})
		}
		summary.add(result)
	}

	if len(recorded) > 0 {
		if err := ws.Store.AppendComponents(recorded...); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
	}

	summary.print(out)
	if n := len(summary.failed); n > 0 {
		return fmt.Errorf("%d %s failed to install", n, pluralize(n, "component"))
	}
	return nil
}

func initBeforeAdd(cmd *cobra.Command, p *prompter, opts addOptions, interactive bool) error {
	switch {
	case interactive:
		answer := p.Confirm(fmt.Sprintf("Starwind configuration not found. Would you like to run %s now?",
			tui.Info("starwind init")), true)
		if answer.Cancelled {
			return errOperationCancelled
		}
		if !answer.Accepted {
			return errNotInitialized
		}
		return runInit(cmd, initOptions{packageManager: opts.packageManager}, true)
	case opts.yes:
		return runInit(cmd, initOptions{defaults: true, packageManager: opts.packageManager}, true)
	default:
		return errNotInitialized
	}
}

// componentsToAdd returns the validated names to install, from --all, the
// arguments or the interactive picker.
func componentsToAdd(cmd *cobra.Command, ws *workspace, args []string, opts addOptions) ([]string, error) {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	available, err := ws.Registry.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}

	switch {
	case opts.all:
		fmt.Fprintf(out, "Adding all %d available components...\n", len(available))
		return available, nil

	case len(args) > 0:
		valid, invalid := partitionNames(args, available)
		if len(invalid) > 0 {
			fmt.Fprintln(out, tui.Warn("Invalid components found:"))
			for _, name := range invalid {
				line := "  " + name
				if hints := registry.Suggest(name, available); len(hints) > 0 {
					line += tui.Label(" (did you mean " + strings.Join(hints, ", ") + "?)")
				}
				fmt.Fprintln(out, line)
			}
		}
		if len(valid) == 0 {
			return nil, errors.New("no valid components to install")
		}
		return valid, nil

	case opts.yes || !isInteractive():
		return nil, fmt.Errorf("%w; pass component names or --all", errNoComponents)

	default:
		options := make([]tui.Option, 0, len(available))
		for _, name := range available {
			options = append(options, tui.Option{Value: name, Label: name})
		}
		selected, err := selectComponents(cmd.InOrStdin(), cmd.ErrOrStderr(), "Select components to add", options, false)
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

// partitionNames splits requested into names present in available and the
// rest, dropping duplicates.
func partitionNames(requested, available []string) (valid, invalid []string) {
	known := make(map[string]bool, len(available))
	for _, n := range available {
		known[n] = true
	}
	seen := make(map[string]bool, len(requested))
	for _, n := range requested {
		if seen[n] {
			continue
		}
		seen[n] = true
		if known[n] {
			valid = append(valid, n)
		} else {
			invalid = append(invalid, n)
		}
	}
	return valid, invalid
}

func printPlan(cmd *cobra.Command, inst *installer.Installer, names []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	for _, name := range names {
		entity, plan, external, err := inst.Plan(ctx, name)
		if err != nil {
			fmt.Fprintf(out, "%s %s: %v\n", tui.Error("✘"), name, err)
			continue
		}
		fmt.Fprintf(out, "%s %s\n", tui.InfoBright(name), tui.Label("v"+entity.Version))
		for _, res := range plan {
			switch {
			case res.NeedsInstall:
				fmt.Fprintf(out, "  install %s (%s)\n", res.Entity, res.RequiredVersion)
			case res.NeedsUpdate:
				fmt.Fprintf(out, "  update  %s %s -> %s\n", res.Entity, res.CurrentVersion, res.RequiredVersion)
			}
		}
		for _, spec := range external {
			fmt.Fprintf(out, "  npm     %s (%s)\n", spec, inst.PackageManager())
		}
	}
	return nil
}
