package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/starwind-ui/starwind/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the starwind CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithArgs(ver, os.Args[1:])
}

// NewRootCmdWithArgs creates the root command with explicit arguments for
// testability.
func NewRootCmdWithArgs(ver string, args []string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "starwind",
		Short:         "Add Starwind UI components to Astro projects",
		Long:          "Starwind: copy accessible Astro components into your project and keep them up to date",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			result, err := setupLogging(cmd)
			if err != nil {
				return err
			}
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return logResult.Close()
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("cwd", "", "project directory (defaults to the nearest package.json)")
	cmd.PersistentFlags().String("registry", "", "component registry source: local or remote")
	cmd.PersistentFlags().Bool("refresh", false, "bypass the registry cache")
	cmd.PersistentFlags().String("source-dir", "", "directory holding @starwind-ui/core component sources")

	cmd.AddCommand(
		newInitCmd(), newAddCmd(), newUpdateCmd(), newRemoveCmd(),
		newListCmd(), newConfigCmd(), newCacheCmd(),
	)
	cmd.SetArgs(args)
	return cmd
}

const rootCmdExample = `  # Set up Starwind in the current Astro project
  starwind init

  # Accept every default without prompting
  starwind init --defaults

  # Add components together with their dependencies
  starwind add button dialog

  # Pick components interactively
  starwind add

  # Update every installed component
  starwind update --all --yes

  # Remove a component
  starwind remove card

  # List registry components using the live registry
  starwind list --registry remote

  # Configure the CLI
  starwind config set registry.source remote`
