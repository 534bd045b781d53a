package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starwind-ui/starwind/internal/registry"
	"github.com/starwind-ui/starwind/internal/tui"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Registry cache commands"}
	cmd.AddCommand(newCacheClearCmd(), newCacheRefreshCmd())
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	var expiredOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached registry payloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCache(settingsFrom(cmd.Context()))
			if err != nil {
				return err
			}
			n, err := store.Clear(expiredOnly)
			if err != nil {
				return err
			}
			noun := "entries"
			if n == 1 {
				noun = "entry"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %d cached %s from %s\n",
				tui.Success("✔"), n, noun, store.Dir())
			return nil
		},
	}
	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "only delete expired entries")
	return cmd
}

func newCacheRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the remote registry and replace the cached copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			settings := settingsFrom(ctx)
			store, err := openCache(settings)
			if err != nil {
				return err
			}
			reg := registry.New(registry.Options{
				Source: registry.SourceRemote,
				URL:    settings.Registry.URL,
				Cache:  store,
			})
			if err := reg.Refresh(ctx); err != nil {
				return fmt.Errorf("refreshing registry: %w", err)
			}
			names, err := reg.Names(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Cached %d components\n", tui.Success("✔"), len(names))
			return nil
		},
	}
}
