package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/starwind-ui/starwind/internal/config"
	"github.com/starwind-ui/starwind/internal/tui"
)

// newConfigCmd creates the config command group with settings subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "CLI settings management commands"}
	cmd.AddCommand(newConfigInitCmd(), newConfigGetCmd(), newConfigSetCmd(), newConfigListCmd(), newConfigPathCmd())
	return cmd
}

// settingsTarget returns the file a config subcommand writes: the user
// settings, or the project overlay with --project.
func settingsTarget(cmd *cobra.Command) string {
	if project, _ := cmd.Flags().GetBool("project"); project {
		return filepath.Join(config.ProjectSettingsDir(config.GetResolvedProjectRoot()), config.SettingsFile)
	}
	return config.SettingsPath()
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := settingsTarget(cmd)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			s := config.DefaultSettings()
			s.SetPath(path)
			if err := s.Save(); err != nil {
				return err
			}

			if project, _ := cmd.Flags().GetBool("project"); project {
				if _, err := config.EnsureGitignore(filepath.Dir(path)); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", tui.Success("✔"), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.Flags().Bool("project", false, "write the project overlay in .starwind/ instead of the user file")
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the effective value of a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := settingsFrom(cmd.Context()).Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting in the settings file",
		Example: `  starwind config set registry.source remote
  starwind config set package_manager pnpm --project`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := settingsTarget(cmd)
			s, err := config.LoadSettings(path)
			if err != nil {
				return err
			}
			if err := s.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := s.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	}
	cmd.Flags().Bool("project", false, "write the project overlay in .starwind/ instead of the user file")
	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every effective setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := settingsFrom(cmd.Context())
			for _, key := range config.SettingKeys() {
				v, err := s.Get(key)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, v)
			}
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := settingsTarget(cmd)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(cmd.ErrOrStderr(), tui.Label("(file does not exist yet)"))
			}
			return nil
		},
	}
	cmd.Flags().Bool("project", false, "show the project overlay path")
	return cmd
}
