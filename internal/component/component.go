// Package component copies Starwind component sources from the installed
// @starwind-ui/core package into a project, and removes or refreshes them.
package component

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/starwind-ui/starwind/internal/config"
	"github.com/starwind-ui/starwind/internal/logging"
	"github.com/starwind-ui/starwind/internal/registry"
)

// Status is the outcome of a component operation.
type Status string

// Operation outcomes.
const (
	StatusInstalled Status = "installed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
	StatusRemoved   Status = "removed"
	StatusUpdated   Status = "updated"
)

// Layout constants.
const (
	CorePackage   = "@starwind-ui/core"
	coreSourceDir = "src/components"
	installSubdir = "starwind"

	EnvSourceDir = "STARWIND_SOURCE_DIR"
)

// Errors reported through result values.
var (
	ErrNotInRegistry     = errors.New("component not found in registry")
	ErrSourceMissing     = errors.New("component source not found; is @starwind-ui/core installed?")
	ErrComponentNotFound = errors.New("component directory not found")
	ErrCancelled         = errors.New("cancelled by user")
)

// InstallResult describes one copy.
type InstallResult struct {
	Name         string
	Status       Status
	Version      string
	Err          error
	Dependencies []InstallResult
}

// RemoveResult describes one removal.
type RemoveResult struct {
	Name   string
	Status Status
	Err    error
}

// UpdateResult describes one update.
type UpdateResult struct {
	Name       string
	Status     Status
	OldVersion string
	NewVersion string
	Err        error
}

// Registry looks components up by name.
type Registry interface {
	Get(ctx context.Context, name string) (registry.Component, bool, error)
}

// ConfirmFunc asks whether to replace name at from with to.
type ConfirmFunc func(name, from, to string) bool

// Options configures a Manager.
type Options struct {
	ProjectRoot string
	// SourceRoot overrides <project>/node_modules/@starwind-ui/core/src/components.
	SourceRoot string
	Store      *config.Store
	Registry   Registry
}

// Manager performs file operations for components of one project.
type Manager struct {
	projectRoot string
	sourceRoot  string
	store       *config.Store
	registry    Registry
}

// NewManager returns a Manager for opts.
func NewManager(opts Options) *Manager {
	src := opts.SourceRoot
	if src == "" {
		src = os.Getenv(EnvSourceDir)
	}
	if src == "" {
		src = filepath.Join(opts.ProjectRoot, "node_modules", CorePackage, coreSourceDir)
	}
	store := opts.Store
	if store == nil {
		store = config.NewStore(opts.ProjectRoot)
	}
	return &Manager{
		projectRoot: opts.ProjectRoot,
		sourceRoot:  src,
		store:       store,
		registry:    opts.Registry,
	}
}

// SourceRoot returns the directory components are copied from.
func (m *Manager) SourceRoot() string {
	return m.sourceRoot
}

// InstallDir returns where name is placed in the project.
func (m *Manager) InstallDir(componentDir, name string) string {
	if !filepath.IsAbs(componentDir) {
		componentDir = filepath.Join(m.projectRoot, componentDir)
	}
	return filepath.Join(componentDir, installSubdir, name)
}

// Copy places the component's source files in the project. Already recorded
// components are skipped unless overwrite is set.
func (m *Manager) Copy(ctx context.Context, name string, overwrite bool) InstallResult {
	log := logging.FromContext(ctx)

	cfg, err := m.projectConfig()
	if err != nil {
		return InstallResult{Name: name, Status: StatusFailed, Err: err}
	}

	if existing, ok := cfg.Component(name); ok && !overwrite {
		return InstallResult{Name: name, Status: StatusSkipped, Version: existing.Version}
	}

	entity, found, err := m.registry.Get(ctx, name)
	if err != nil {
		return InstallResult{Name: name, Status: StatusFailed, Err: err}
	}
	if !found {
		return InstallResult{Name: name, Status: StatusFailed, Err: ErrNotInRegistry}
	}

	src := filepath.Join(m.sourceRoot, name)
	if info, statErr := os.Stat(src); statErr != nil || !info.IsDir() {
		return InstallResult{Name: name, Status: StatusFailed, Err: fmt.Errorf("%w: %s", ErrSourceMissing, src)}
	}

	dst := m.InstallDir(cfg.ComponentDir, name)
	log.Debug().
		Ctx(ctx).
		Str("component", "component").
		Str("operation", "copy").
		Str("name", name).
		Str("src", src).
		Str("dst", dst).
		Bool("overwrite", overwrite).
		Msg("copying component")

	if err := copyDir(src, dst); err != nil {
		return InstallResult{Name: name, Status: StatusFailed, Err: err}
	}
	return InstallResult{Name: name, Status: StatusInstalled, Version: entity.Version}
}

// Remove deletes the component directory from the project.
func (m *Manager) Remove(ctx context.Context, name string) RemoveResult {
	cfg, err := m.projectConfig()
	if err != nil {
		return RemoveResult{Name: name, Status: StatusFailed, Err: err}
	}

	dir := m.InstallDir(cfg.ComponentDir, name)
	if _, statErr := os.Stat(dir); statErr != nil {
		if os.IsNotExist(statErr) {
			return RemoveResult{Name: name, Status: StatusFailed, Err: ErrComponentNotFound}
		}
		return RemoveResult{Name: name, Status: StatusFailed, Err: statErr}
	}

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "component").
		Str("operation", "remove").
		Str("dir", dir).
		Msg("removing component")

	if err := os.RemoveAll(dir); err != nil {
		return RemoveResult{Name: name, Status: StatusFailed, Err: fmt.Errorf("removing %s: %w", dir, err)}
	}
	return RemoveResult{Name: name, Status: StatusRemoved}
}

// Update overwrites the component with the registry release when it is newer
// than currentVersion and confirm approves. A nil confirm approves.
func (m *Manager) Update(ctx context.Context, name, currentVersion string, confirm ConfirmFunc) UpdateResult {
	entity, found, err := m.registry.Get(ctx, name)
	if err != nil {
		return UpdateResult{Name: name, Status: StatusFailed, Err: err}
	}
	if !found {
		return UpdateResult{Name: name, Status: StatusFailed, Err: ErrNotInRegistry}
	}

	result := UpdateResult{Name: name, OldVersion: currentVersion, NewVersion: entity.Version}

	newer, err := registry.IsNewer(entity.Version, currentVersion)
	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result
	}
	if !newer {
		result.Status = StatusSkipped
		return result
	}

	if confirm != nil && !confirm(name, currentVersion, entity.Version) {
		result.Status = StatusSkipped
		result.Err = ErrCancelled
		return result
	}

	copied := m.Copy(ctx, name, true)
	if copied.Status != StatusInstalled {
		result.Status = StatusFailed
		result.Err = copied.Err
		return result
	}
	result.Status = StatusUpdated
	result.NewVersion = copied.Version
	return result
}

func (m *Manager) projectConfig() (*config.ProjectConfig, error) {
	cfg, err := m.store.Load()
	if errors.Is(err, config.ErrProjectConfigNotFound) {
		return config.DefaultProjectConfig(), nil
	}
	return cfg, err
}
