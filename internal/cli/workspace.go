package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starwind-ui/starwind/internal/cache"
	"github.com/starwind-ui/starwind/internal/component"
	"github.com/starwind-ui/starwind/internal/config"
	"github.com/starwind-ui/starwind/internal/installer"
	"github.com/starwind-ui/starwind/internal/pkgmanager"
	"github.com/starwind-ui/starwind/internal/registry"
	"github.com/starwind-ui/starwind/internal/resolver"
)

// workspace bundles the collaborators every project command needs.
type workspace struct {
	Root       string
	Settings   *config.Settings
	Registry   *registry.Registry
	Store      *config.Store
	Components *component.Manager
	Resolver   *resolver.Resolver
}

// openWorkspace wires the project at the resolved root.
func openWorkspace(cmd *cobra.Command) (*workspace, error) {
	ctx := cmd.Context()
	settings := settingsFrom(ctx)
	root := config.GetResolvedProjectRoot()

	reg, err := openRegistry(cmd, settings)
	if err != nil {
		return nil, err
	}

	sourceDir, _ := cmd.Flags().GetString("source-dir")
	store := config.NewStore(root)
	return &workspace{
		Root:     root,
		Settings: settings,
		Registry: reg,
		Store:    store,
		Components: component.NewManager(component.Options{
			ProjectRoot: root,
			SourceRoot:  sourceDir,
			Store:       store,
			Registry:    reg,
		}),
		Resolver: resolver.New(reg, store, pkgmanager.ManifestReader{Dir: root}),
	}, nil
}

// installer returns an Installer for the workspace using pm.
func (w *workspace) installer(pm pkgmanager.Manager, confirm installer.ConfirmFunc) *installer.Installer {
	return installer.New(installer.Options{
		ProjectRoot:    w.Root,
		Registry:       w.Registry,
		Store:          w.Store,
		Components:     w.Components,
		Resolver:       w.Resolver,
		PackageManager: pm,
		Confirm:        confirm,
	})
}

func openRegistry(cmd *cobra.Command, settings *config.Settings) (*registry.Registry, error) {
	sourceName := settings.Registry.Source
	if flag, _ := cmd.Flags().GetString("registry"); flag != "" {
		sourceName = flag
	}
	source, err := registry.ParseSource(sourceName)
	if err != nil {
		return nil, err
	}

	store, err := openCache(settings)
	if err != nil {
		logger.Warn().
			Ctx(cmd.Context()).
			Err(err).
			Msg("registry cache unavailable, continuing without it")
		store = nil
	}

	refresh, _ := cmd.Flags().GetBool("refresh")
	return registry.New(registry.Options{
		Source:  source,
		URL:     settings.Registry.URL,
		Cache:   store,
		Refresh: refresh,
	}), nil
}

// openCache builds the registry cache from settings, then the environment.
func openCache(settings *config.Settings) (*cache.FileStore, error) {
	ttl := cache.DefaultTTL
	if settings.Registry.CacheTTL != "" {
		parsed, err := cache.ParseTTL(settings.Registry.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("registry.cache_ttl: %w", err)
		}
		ttl = parsed
	}
	ttl = cache.TTLFromEnv(ttl)

	enabled := cache.EnabledFromEnv()
	if settings.Registry.CacheEnabled != nil && !*settings.Registry.CacheEnabled {
		enabled = false
	}

	return cache.NewFileStore(cache.DirFromEnv(config.CacheDir()), enabled, ttl)
}
