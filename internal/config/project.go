package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/starwind-ui/starwind/internal/logging"
	"github.com/starwind-ui/starwind/internal/pkgmanager"
)

// EnvProjectRoot overrides project discovery.
const EnvProjectRoot = "STARWIND_CWD"

var (
	resolvedProjectRoot   string       //nolint:gochecknoglobals // Set once at startup, read by commands
	resolvedProjectRootMu sync.RWMutex //nolint:gochecknoglobals // Protects resolvedProjectRoot
)

// SetResolvedProjectRoot stores the project root chosen for this invocation.
func SetResolvedProjectRoot(dir string) {
	resolvedProjectRootMu.Lock()
	defer resolvedProjectRootMu.Unlock()
	resolvedProjectRoot = dir
}

// GetResolvedProjectRoot returns the stored project root.
func GetResolvedProjectRoot() string {
	resolvedProjectRootMu.RLock()
	defer resolvedProjectRootMu.RUnlock()
	return resolvedProjectRoot
}

// ResolveProjectRoot picks the project directory, checking in order:
//  1. flagValue (--cwd)
//  2. STARWIND_CWD
//  3. the nearest ancestor of startDir holding package.json
//
// When nothing is found the absolute startDir is returned so commands such
// as init can report a missing package.json themselves.
func ResolveProjectRoot(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbs(ctx, flagValue)
	}
	if env := os.Getenv(EnvProjectRoot); env != "" {
		return toAbs(ctx, env)
	}

	root, err := pkgmanager.FindProjectRoot(startDir)
	if err != nil {
		if !errors.Is(err, pkgmanager.ErrManifestNotFound) {
			logging.FromContext(ctx).Warn().
				Str("component", "config").
				Err(err).
				Str("start_dir", startDir).
				Msg("unexpected error during project discovery")
		}
		return toAbs(ctx, startDir)
	}
	return root
}

// ProjectSettingsDir returns <root>/.starwind.
func ProjectSettingsDir(root string) string {
	return filepath.Join(root, HomeDirName)
}

// LoadSettingsForProject loads user settings, shallow-merges the project's
// .starwind/config.yaml when present, then applies the environment. Unreadable
// files are logged and skipped.
func LoadSettingsForProject(ctx context.Context, projectRoot string) *Settings {
	log := logging.FromContext(ctx)

	settings, err := LoadSettings(SettingsPath())
	if err != nil {
		log.Warn().
			Str("component", "config").
			Str("operation", "load_settings").
			Err(err).
			Msg("failed to load settings, using defaults")
		settings = DefaultSettings()
		settings.SetPath(SettingsPath())
	}

	if projectRoot != "" {
		overlay := filepath.Join(ProjectSettingsDir(projectRoot), SettingsFile)
		if _, statErr := os.Stat(overlay); statErr == nil {
			if mergeErr := ShallowMergeYAML(settings, overlay); mergeErr != nil {
				log.Warn().
					Str("component", "config").
					Str("operation", "merge_project_settings").
					Err(mergeErr).
					Str("overlay_path", overlay).
					Msg("failed to merge project settings, using user settings")
			}
		}
	}

	settings.ApplyEnv()
	return settings
}

func toAbs(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		return dir
	}
	return abs
}
