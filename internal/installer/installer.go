// Package installer drives a component install end to end: npm dependencies
// through the package manager, Starwind dependencies through the resolver,
// then the component itself.
package installer

import (
	"context"
	"errors"
	"fmt"

	"github.com/starwind-ui/starwind/internal/component"
	"github.com/starwind-ui/starwind/internal/config"
	"github.com/starwind-ui/starwind/internal/logging"
	"github.com/starwind-ui/starwind/internal/pkgmanager"
	"github.com/starwind-ui/starwind/internal/registry"
	"github.com/starwind-ui/starwind/internal/resolver"
)

// ErrDependencyFailed marks an install aborted because a Starwind dependency
// could not be placed.
var ErrDependencyFailed = errors.New("dependency installation failed")

// ConfirmFunc is asked before a component with dependencies is installed.
type ConfirmFunc func(name string, dependencies []string) bool

// Options wires an Installer.
type Options struct {
	ProjectRoot    string
	Registry       component.Registry
	Store          *config.Store
	Components     *component.Manager
	Resolver       *resolver.Resolver
	PackageManager pkgmanager.Manager
	// Confirm is nil for non-interactive runs.
	Confirm ConfirmFunc
}

// Installer installs components into one project.
type Installer struct {
	opts Options
}

// New returns an Installer. A missing PackageManager is detected from lock
// files in the project root.
func New(opts Options) *Installer {
	if opts.PackageManager == "" {
		opts.PackageManager, _ = pkgmanager.Detect(opts.ProjectRoot)
	}
	return &Installer{opts: opts}
}

// PackageManager returns the manager used for npm dependencies.
func (i *Installer) PackageManager() pkgmanager.Manager {
	return i.opts.PackageManager
}

// InstallComponent installs name and everything it depends on. The returned
// result carries the outcome of each Starwind dependency placed on the way.
// The requested component itself is not recorded in the project config.
func (i *Installer) InstallComponent(ctx context.Context, name string) component.InstallResult {
	log := logging.FromContext(ctx)

	entity, found, err := i.opts.Registry.Get(ctx, name)
	if err != nil {
		return component.InstallResult{Name: name, Status: component.StatusFailed, Err: err}
	}
	if !found {
		return component.InstallResult{Name: name, Status: component.StatusFailed, Err: component.ErrNotInRegistry}
	}

	if entity.HasDependencies() && i.opts.Confirm != nil && !i.opts.Confirm(name, entity.Dependencies) {
		return component.InstallResult{Name: name, Status: component.StatusFailed, Err: component.ErrCancelled}
	}

	deps := resolver.SeparateDependencies(entity.Dependencies)

	if len(deps.External) > 0 {
		missing := i.opts.Resolver.FilterUninstalledExternal(ctx, deps.External)
		if err := pkgmanager.Install(ctx, i.opts.ProjectRoot, i.opts.PackageManager, missing, pkgmanager.InstallOptions{}); err != nil {
			return component.InstallResult{
				Name:   name,
				Status: component.StatusFailed,
				Err:    fmt.Errorf("installing npm dependencies: %w", err),
			}
		}
	}

	var placed []component.InstallResult
	if len(deps.Internal) > 0 {
		plan, resolveErr := i.opts.Resolver.ResolveAll(ctx, []string{name})
		if resolveErr != nil {
			log.Warn().
				Ctx(ctx).
				Str("component", "installer").
				Str("name", name).
				Err(resolveErr).
				Msg("could not resolve starwind dependencies, continuing")
		} else {
			placed, err = i.InstallDependencies(ctx, plan)
			if err != nil {
				return component.InstallResult{Name: name, Status: component.StatusFailed, Err: err, Dependencies: placed}
			}
		}
	}

	result := i.opts.Components.Copy(ctx, name, false)
	result.Dependencies = placed
	return result
}

// InstallDependencies copies every internal resolution needing action, then
// records the placed versions in the project config. Updates overwrite the
// existing files. Any failed copy aborts with ErrDependencyFailed after the
// successful ones are recorded.
func (i *Installer) InstallDependencies(ctx context.Context, plan []resolver.Resolution) ([]component.InstallResult, error) {
	log := logging.FromContext(ctx)

	var (
		results []component.InstallResult
		record  []config.InstalledComponent
		failed  []string
	)
	for _, res := range plan {
		if !res.IsInternalEntity || !res.NeedsAction() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		log.Debug().
			Ctx(ctx).
			Str("component", "installer").
			Str("operation", "install_dependency").
			Str("name", res.Entity).
			Str("required", res.RequiredVersion).
			Bool("update", res.NeedsUpdate).
			Msg("placing dependency")

		out := i.opts.Components.Copy(ctx, res.Entity, res.NeedsUpdate)
		if res.NeedsUpdate && out.Status == component.StatusInstalled {
			out.Status = component.StatusUpdated
		}
		results = append(results, out)

		switch out.Status {
		case component.StatusInstalled, component.StatusUpdated:
			record = append(record, config.InstalledComponent{Name: out.Name, Version: out.Version})
		case component.StatusFailed:
			failed = append(failed, res.Entity)
		}
	}

	if len(record) > 0 {
		if err := i.opts.Store.AppendComponents(record...); err != nil {
			return results, fmt.Errorf("recording dependencies: %w", err)
		}
	}
	if len(failed) > 0 {
		return results, fmt.Errorf("%w: %v", ErrDependencyFailed, failed)
	}
	return results, nil
}

// Plan reports what installing name would do without touching the project.
func (i *Installer) Plan(ctx context.Context, name string) (registry.Component, []resolver.Resolution, []string, error) {
	entity, found, err := i.opts.Registry.Get(ctx, name)
	if err != nil {
		return registry.Component{}, nil, nil, err
	}
	if !found {
		return registry.Component{}, nil, nil, &resolver.EntityNotFoundError{Name: name}
	}
	deps := resolver.SeparateDependencies(entity.Dependencies)
	external := i.opts.Resolver.FilterUninstalledExternal(ctx, deps.External)
	plan, err := i.opts.Resolver.ResolveAll(ctx, []string{name})
	if err != nil {
		return entity, nil, external, err
	}
	return entity, plan, external, nil
}
