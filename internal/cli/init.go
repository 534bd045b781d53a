package cli

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/starwind-ui/starwind/internal/config"
	"github.com/starwind-ui/starwind/internal/pkgmanager"
	"github.com/starwind-ui/starwind/internal/registry"
	"github.com/starwind-ui/starwind/internal/tui"
)

//go:embed templates/starwind.css
var cssTemplate string

// Packages installed by init.
const (
	MinAstroVersion = "5.0.0"
	astroPackage    = "astro@latest"
)

// tailwindPackages returns the Tailwind tooling every Starwind project needs.
func tailwindPackages() []string {
	return []string{
		"tailwindcss@latest",
		"@tailwindcss/vite@latest",
		"@tailwindcss/forms@latest",
		"tailwindcss-animate@latest",
		"tailwind-variants@latest",
		"@tabler/icons@latest",
	}
}

type initOptions struct {
	defaults       bool
	skipInstall    bool
	packageManager string
}

type initChoices struct {
	componentDir string
	cssFile      string
	baseColor    string
}

func newInitCmd() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up Starwind in the current Astro project",
		Long: `Creates the component directory and the Tailwind CSS entry file, writes
starwind.config.json and installs Astro and the Tailwind packages Starwind needs.`,
		Example: `  # Answer the setup questions interactively
  starwind init

  # Use every default and install with pnpm
  starwind init --defaults --package-manager pnpm`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := runInit(cmd, opts, false); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.Success("Enjoy using Starwind UI"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.defaults, "defaults", "d", false, "use default values for every question")
	cmd.Flags().BoolVar(&opts.skipInstall, "skip-install", false, "do not install npm packages")
	cmd.Flags().StringVarP(&opts.packageManager, "package-manager", "m", "", "package manager to use: npm, pnpm, yarn or bun")
	return cmd
}

// runInit performs project setup. withinAdd suppresses the welcome banner
// when add triggers it.
func runInit(cmd *cobra.Command, opts initOptions, withinAdd bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	root := config.GetResolvedProjectRoot()

	if !withinAdd {
		fmt.Fprintln(out, tui.Title("Welcome to the Starwind CLI"))
	}

	manifest, err := pkgmanager.ReadManifest(root)
	if err != nil {
		if errors.Is(err, pkgmanager.ErrManifestNotFound) {
			return fmt.Errorf("no package.json found in %s; run this command in the root of your project", root)
		}
		return err
	}

	interactive := !opts.defaults && isInteractive()
	p := newPrompter(cmd)

	choices := initChoices{
		componentDir: config.DefaultComponentDir,
		cssFile:      config.DefaultCSSPath,
		baseColor:    config.DefaultBaseColor,
	}
	if interactive {
		if choices, err = askInitChoices(p); err != nil {
			return err
		}
	} else if !withinAdd {
		fmt.Fprintln(out, tui.Info("Using default configuration values"))
	}

	if err := createProjectStructure(root, choices); err != nil {
		return err
	}
	if err := writeCSS(cmd, p, root, choices, interactive); err != nil {
		return err
	}

	store := config.NewStore(root)
	if err := store.Update(config.Patch{
		Tailwind: &config.TailwindConfig{
			CSS:          choices.cssFile,
			BaseColor:    choices.baseColor,
			CSSVariables: true,
		},
		ComponentDir: choices.componentDir,
	}); err != nil {
		return fmt.Errorf("writing %s: %w", config.ProjectConfigFile, err)
	}
	fmt.Fprintf(out, "%s %s\n", tui.Success("✔"), "Updated project starwind configuration")

	logger.Debug().
		Ctx(ctx).
		Str("operation", "init").
		Str("component_dir", choices.componentDir).
		Str("css", choices.cssFile).
		Str("base_color", choices.baseColor).
		Msg("project configured")

	if !opts.skipInstall {
		if err := installInitPackages(cmd, p, root, manifest, opts, interactive); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "\n%s\nMake sure your layout imports the %s file\n",
		tui.Underline("Next steps"), tui.InfoBright(choices.cssFile))
	return nil
}

func askInitChoices(p *prompter) (initChoices, error) {
	var (
		c   initChoices
		err error
	)
	c.componentDir, err = p.Ask("What is your components directory?", config.DefaultComponentDir, config.ValidateRelativePath)
	if err != nil {
		return c, err
	}
	c.cssFile, err = p.Ask("Where would you like to add the Tailwind .css file?", config.DefaultCSSPath, config.ValidateCSSPath)
	if err != nil {
		return c, err
	}
	c.baseColor, err = p.Choose("What Tailwind base color would you like to use?", config.BaseColors(), config.DefaultBaseColor)
	return c, err
}

func createProjectStructure(root string, c initChoices) error {
	dirs := []string{
		filepath.Join(root, c.componentDir, "starwind"),
		filepath.Join(root, filepath.Dir(c.cssFile)),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", d, err)
		}
	}
	return nil
}

// renderCSS returns the CSS entry file for baseColor.
func renderCSS(baseColor string) string {
	if baseColor == "" || baseColor == config.DefaultBaseColor {
		return cssTemplate
	}
	return strings.ReplaceAll(cssTemplate, "--color-neutral-", "--color-"+baseColor+"-")
}

func writeCSS(cmd *cobra.Command, p *prompter, root string, c initChoices, interactive bool) error {
	out := cmd.OutOrStdout()
	path := filepath.Join(root, c.cssFile)

	if _, err := os.Stat(path); err == nil && interactive {
		answer := p.Confirm(fmt.Sprintf("%s already exists. Do you want to override it?", tui.Info(c.cssFile)), false)
		if answer.Cancelled {
			return errOperationCancelled
		}
		if !answer.Accepted {
			fmt.Fprintln(out, tui.Info("Skipping Tailwind CSS configuration"))
			return nil
		}
	}

	//nolint:gosec // Stylesheets are world-readable.
	if err := os.WriteFile(path, []byte(renderCSS(c.baseColor)), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", c.cssFile, err)
	}
	fmt.Fprintf(out, "%s %s\n", tui.Success("✔"), "Created Tailwind configuration")
	return nil
}

// astroPlan reports whether astro must be installed or upgraded given the
// range declared in package.json.
func astroPlan(declared string, present bool) (install bool, upgradeFrom string) {
	if !present {
		return true, ""
	}
	current := declared
	if strings.HasPrefix(current, "^") || strings.HasPrefix(current, "~") {
		current = current[1:]
	}
	cmp, err := registry.CompareVersions(current, MinAstroVersion)
	if err != nil {
		// Tags such as "latest" or workspace links are left alone.
		return false, ""
	}
	if cmp < 0 {
		return true, current
	}
	return false, ""
}

func installInitPackages(
	cmd *cobra.Command,
	p *prompter,
	root string,
	manifest *pkgmanager.Manifest,
	opts initOptions,
	interactive bool,
) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	pm, err := choosePackageManager(cmd, root, opts.packageManager)
	if err != nil {
		return err
	}

	declared, present := manifest.Version("astro")
	needAstro, from := astroPlan(declared, present)
	if needAstro {
		question := fmt.Sprintf("Starwind requires Astro v%s or higher. Would you like to install it?", MinAstroVersion)
		if from != "" {
			question = fmt.Sprintf("Starwind requires Astro v%s or higher. Would you like to upgrade from v%s?", MinAstroVersion, from)
		}
		if interactive {
			answer := p.Confirm(question, true)
			if answer.Cancelled {
				return errOperationCancelled
			}
			if !answer.Accepted {
				return fmt.Errorf("astro v%s or higher is required to use Starwind", MinAstroVersion)
			}
		}
		if err := pkgmanager.Install(ctx, root, pm, []string{astroPackage}, pkgmanager.InstallOptions{}); err != nil {
			return fmt.Errorf("installing astro: %w", err)
		}
		fmt.Fprintf(out, "%s Installed %s\n", tui.Success("✔"), tui.Info(astroPackage))
	}

	pkgs := tailwindPackages()
	if interactive {
		answer := p.Confirm(fmt.Sprintf("Install %s using %s?", tui.Info(strings.Join(pkgs, ", ")), tui.Info(string(pm))), true)
		if answer.Cancelled {
			return errOperationCancelled
		}
		if !answer.Accepted {
			fmt.Fprintln(out, tui.Warn("Skipped installation of packages. Make sure to install them manually"))
			return nil
		}
	}
	if err := pkgmanager.Install(ctx, root, pm, pkgs, pkgmanager.InstallOptions{}); err != nil {
		return fmt.Errorf("installing tailwind packages: %w", err)
	}
	fmt.Fprintf(out, "%s %s\n", tui.Success("✔"), tui.Info("Packages installed successfully"))
	return nil
}

// choosePackageManager picks, in order: the flag, the settings file, the
// project's lock file.
func choosePackageManager(cmd *cobra.Command, root, flagValue string) (pkgmanager.Manager, error) {
	if flagValue != "" {
		return pkgmanager.ParseManager(flagValue)
	}
	if configured := settingsFrom(cmd.Context()).PackageManager; configured != "" {
		return pkgmanager.ParseManager(configured)
	}
	pm, _ := pkgmanager.Detect(root)
	return pm, nil
}
