package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/starwind-ui/starwind/internal/logging"
	"github.com/starwind-ui/starwind/internal/pkgmanager"
	"github.com/starwind-ui/starwind/internal/registry"
)

// Registry looks components up by name. A missing name is reported with
// ok=false, not an error.
type Registry interface {
	Get(ctx context.Context, name string) (registry.Component, bool, error)
}

// InstalledStore reports the version of a component recorded in the project.
type InstalledStore interface {
	InstalledVersion(ctx context.Context, name string) (string, bool, error)
}

// ManifestStore returns the project's combined dependencies and
// devDependencies from package.json.
type ManifestStore interface {
	Dependencies(ctx context.Context) (map[string]string, error)
}

// Resolution is the verdict for one dependency. NeedsInstall and NeedsUpdate
// are never both set.
type Resolution struct {
	Entity           string
	CurrentVersion   string
	RequiredVersion  string
	NeedsInstall     bool
	NeedsUpdate      bool
	IsInternalEntity bool
}

// NeedsAction reports whether the resolution requires an install or update.
func (r Resolution) NeedsAction() bool {
	return r.NeedsInstall || r.NeedsUpdate
}

// Resolver computes install and update plans. It holds no state between
// calls and is safe for concurrent use when its collaborators are.
type Resolver struct {
	registry  Registry
	installed InstalledStore
	manifest  ManifestStore
}

// New returns a Resolver over the given collaborators.
func New(reg Registry, installed InstalledStore, manifest ManifestStore) *Resolver {
	return &Resolver{registry: reg, installed: installed, manifest: manifest}
}

// InstalledVersion returns the recorded version of name. Any failure to read
// the installed state, or a record without a version, is treated as nothing
// installed.
func (r *Resolver) InstalledVersion(ctx context.Context, name string) (string, bool) {
	v, ok, err := r.installed.InstalledVersion(ctx, name)
	if err != nil {
		logging.FromContext(ctx).Debug().
			Ctx(ctx).
			Str("component", "resolver").
			Str("entity", name).
			Err(err).
			Msg("installed state unreadable, treating as not installed")
		return "", false
	}
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// ResolveOne decides what spec requires. External specifiers are passed
// through with IsInternalEntity false.
func (r *Resolver) ResolveOne(ctx context.Context, spec string) (Resolution, error) {
	parsed, ok := ParseInternalDependency(spec)
	if !ok {
		return Resolution{Entity: spec}, nil
	}

	current, installed := r.InstalledVersion(ctx, parsed.Name)

	entity, err := r.lookup(ctx, parsed.Name)
	if err != nil {
		return Resolution{}, err
	}

	res := Resolution{
		Entity:           parsed.Name,
		CurrentVersion:   current,
		RequiredVersion:  parsed.Version,
		IsInternalEntity: true,
	}

	if !installed {
		res.NeedsInstall = true
		return res, nil
	}

	constraint, err := registry.ParseVersionConstraint(parsed.Version)
	if err != nil {
		return Resolution{}, invalidRangeError(spec, err)
	}

	if ok, _ := registry.SatisfiesConstraint(current, constraint); ok {
		return res, nil
	}

	if ok, _ := registry.SatisfiesConstraint(entity.Version, constraint); ok {
		res.NeedsUpdate = true
		return res, nil
	}

	return Resolution{}, &UnsatisfiableRangeError{
		Name:      parsed.Name,
		Required:  parsed.Version,
		Latest:    entity.Version,
		Installed: current,
	}
}

// ResolveAll walks the dependency graph of names depth-first and returns the
// dependencies needing an install or update, deduplicated by entity. The
// requested names themselves are not reported. The first error aborts the
// walk and no partial result is returned.
func (r *Resolver) ResolveAll(ctx context.Context, names []string) ([]Resolution, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "resolver").
		Str("operation", "resolve_all").
		Strs("entities", names).
		Msg("resolving dependencies")

	visited := make(map[string]struct{})
	var acc []Resolution
	if err := r.walk(ctx, names, visited, &acc); err != nil {
		return nil, err
	}

	out := dedupe(acc)
	log.Debug().
		Ctx(ctx).
		Str("component", "resolver").
		Int("visited", len(visited)).
		Int("actions", len(out)).
		Msg("dependency resolution complete")
	return out, nil
}

func (r *Resolver) walk(ctx context.Context, names []string, visited map[string]struct{}, acc *[]Resolution) error {
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, seen := visited[name]; seen {
			continue
		}
		visited[name] = struct{}{}

		entity, err := r.lookup(ctx, name)
		if err != nil {
			return err
		}

		for _, dep := range entity.Dependencies {
			res, err := r.ResolveOne(ctx, dep)
			if err != nil {
				return err
			}
			if !res.IsInternalEntity {
				continue
			}
			if res.NeedsAction() {
				*acc = append(*acc, res)
			}
			if err := r.walk(ctx, []string{res.Entity}, visited, acc); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Resolver) lookup(ctx context.Context, name string) (registry.Component, error) {
	entity, ok, err := r.registry.Get(ctx, name)
	if err != nil {
		return registry.Component{}, fmt.Errorf("looking up %q: %w", name, err)
	}
	if !ok {
		return registry.Component{}, &EntityNotFoundError{Name: name}
	}
	return entity, nil
}

// dedupe keeps one resolution per entity in first-seen order. When the same
// entity was recorded both as an install and as an update, the install wins.
func dedupe(in []Resolution) []Resolution {
	out := make([]Resolution, 0, len(in))
	index := make(map[string]int, len(in))
	for _, res := range in {
		i, seen := index[res.Entity]
		if !seen {
			index[res.Entity] = len(out)
			out = append(out, res)
			continue
		}
		if res.NeedsInstall && !out[i].NeedsInstall {
			out[i] = res
		}
	}
	return out
}

// FilterUninstalledExternal returns the external specifiers not already
// satisfied by package.json. When the manifest cannot be read every
// specifier is returned.
func (r *Resolver) FilterUninstalledExternal(ctx context.Context, specs []string) []string {
	deps, err := r.manifest.Dependencies(ctx)
	if err != nil {
		logging.FromContext(ctx).Debug().
			Ctx(ctx).
			Str("component", "resolver").
			Err(err).
			Msg("package manifest unreadable, installing all external dependencies")
		return append([]string(nil), specs...)
	}

	out := make([]string, 0, len(specs))
	for _, s := range specs {
		if !externalSatisfied(s, deps) {
			out = append(out, s)
		}
	}
	return out
}

func externalSatisfied(spec string, deps map[string]string) bool {
	parsed := pkgmanager.ParseSpec(spec)
	installed, present := deps[parsed.Name]
	if !present {
		return false
	}
	if parsed.Range == "" {
		return true
	}

	if strings.HasPrefix(installed, "^") || strings.HasPrefix(installed, "~") {
		installed = installed[1:]
	}

	ok, err := registry.Satisfies(installed, parsed.Range)
	return err == nil && ok
}
