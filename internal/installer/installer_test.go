package installer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starwind-ui/starwind/internal/component"
	"github.com/starwind-ui/starwind/internal/config"
	"github.com/starwind-ui/starwind/internal/pkgmanager"
	"github.com/starwind-ui/starwind/internal/registry"
	"github.com/starwind-ui/starwind/internal/resolver"
)

type runnerCall struct {
	name string
	args []string
}

type mockRunner struct {
	err   error
	calls []runnerCall
}

func (m *mockRunner) Run(_ context.Context, _ string, name string, args ...string) ([]byte, []byte, error) {
	m.calls = append(m.calls, runnerCall{name: name, args: args})
	if m.err != nil {
		return nil, []byte("npm ERR! 404"), m.err
	}
	return nil, nil, nil
}

var catalog = []registry.Component{
	{Name: "button", Version: "2.1.0", Type: registry.TypeComponent},
	{Name: "card", Version: "1.0.0", Type: registry.TypeComponent},
	{Name: "input", Version: "1.3.0", Type: registry.TypeComponent},
	{
		Name:         "dialog",
		Version:      "1.4.0",
		Type:         registry.TypeComponent,
		Dependencies: []string{"@starwind-ui/core/button@^2.0.0", "@floating-ui/dom@^1.6.0"},
	},
	{
		Name:         "broken",
		Version:      "0.1.0",
		Type:         registry.TypeComponent,
		Dependencies: []string{"@starwind-ui/core/ghost@^1.0.0"},
	},
}

type env struct {
	root   string
	src    string
	store  *config.Store
	runner *mockRunner
}

func setup(t *testing.T, packageJSON string) *env {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "core-src")
	for _, c := range catalog {
		dir := filepath.Join(src, c.Name)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "index.ts"), []byte("export {}\n"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(packageJSON), 0o644))

	store := config.NewStore(root)
	require.NoError(t, store.Save(config.DefaultProjectConfig()))

	runner := &mockRunner{}
	orig := pkgmanager.Runner
	pkgmanager.Runner = runner
	t.Cleanup(func() { pkgmanager.Runner = orig })

	return &env{root: root, src: src, store: store, runner: runner}
}

func (e *env) installer(confirm ConfirmFunc) *Installer {
	reg := registry.NewStatic(catalog)
	return New(Options{
		ProjectRoot: e.root,
		Registry:    reg,
		Store:       e.store,
		Components: component.NewManager(component.Options{
			ProjectRoot: e.root,
			SourceRoot:  e.src,
			Store:       e.store,
			Registry:    reg,
		}),
		Resolver: resolver.New(reg, e.store, pkgmanager.ManifestReader{Dir: e.root}),
		Confirm:  confirm,
	})
}

func (e *env) installedDir(name string) string {
	return filepath.Join(e.root, "src", "components", "starwind", name)
}

const emptyManifest = `{"name":"site","dependencies":{}}`

func TestNew_DetectsPackageManager(t *testing.T) {
	e := setup(t, emptyManifest)
	assert.Equal(t, pkgmanager.NPM, e.installer(nil).PackageManager())

	require.NoError(t, os.WriteFile(filepath.Join(e.root, "pnpm-lock.yaml"), nil, 0o644))
	assert.Equal(t, pkgmanager.PNPM, e.installer(nil).PackageManager())
}

func TestInstallComponent_NoDependencies(t *testing.T) {
	e := setup(t, emptyManifest)

	res := e.installer(nil).InstallComponent(context.Background(), "card")
	require.NoError(t, res.Err)
	assert.Equal(t, component.StatusInstalled, res.Status)
	assert.Equal(t, "1.0.0", res.Version)
	assert.Empty(t, res.Dependencies)
	assert.Empty(t, e.runner.calls)
	assert.DirExists(t, e.installedDir("card"))

	installed, err := e.store.Installed()
	require.NoError(t, err)
	assert.Empty(t, installed)
}

func TestInstallComponent_FreshDependencies(t *testing.T) {
	e := setup(t, emptyManifest)

	res := e.installer(nil).InstallComponent(context.Background(), "dialog")
	require.NoError(t, res.Err)
	assert.Equal(t, component.StatusInstalled, res.Status)

	require.Len(t, e.runner.calls, 1)
	assert.Equal(t, "npm", e.runner.calls[0].name)
	assert.Equal(t, []string{"install", "@floating-ui/dom@^1.6.0"}, e.runner.calls[0].args)

	require.Len(t, res.Dependencies, 1)
	assert.Equal(t, "button", res.Dependencies[0].Name)
	assert.Equal(t, component.StatusInstalled, res.Dependencies[0].Status)
	assert.DirExists(t, e.installedDir("button"))
	assert.DirExists(t, e.installedDir("dialog"))

	installed, err := e.store.Installed()
	require.NoError(t, err)
	assert.Equal(t, []config.InstalledComponent{{Name: "button", Version: "2.1.0"}}, installed)
}

func TestInstallComponent_ExternalAlreadySatisfied(t *testing.T) {
	e := setup(t, `{"dependencies":{"@floating-ui/dom":"^1.6.2"}}`)

	res := e.installer(nil).InstallComponent(context.Background(), "dialog")
	require.NoError(t, res.Err)
	assert.Empty(t, e.runner.calls)
}

func TestInstallComponent_UpdatesOutdatedDependency(t *testing.T) {
	e := setup(t, emptyManifest)
	require.NoError(t, e.store.AppendComponents(config.InstalledComponent{Name: "button", Version: "1.0.0"}))

	res := e.installer(nil).InstallComponent(context.Background(), "dialog")
	require.NoError(t, res.Err)
	require.Len(t, res.Dependencies, 1)
	assert.Equal(t, component.StatusUpdated, res.Dependencies[0].Status)

	installed, err := e.store.Installed()
	require.NoError(t, err)
	assert.Equal(t, []config.InstalledComponent{{Name: "button", Version: "2.1.0"}}, installed)
}

func TestInstallComponent_SatisfiedDependencyUntouched(t *testing.T) {
	e := setup(t, emptyManifest)
	require.NoError(t, e.store.AppendComponents(config.InstalledComponent{Name: "button", Version: "2.0.5"}))

	res := e.installer(nil).InstallComponent(context.Background(), "dialog")
	require.NoError(t, res.Err)
	assert.Empty(t, res.Dependencies)
	assert.NoDirExists(t, e.installedDir("button"))
}

func TestInstallComponent_Failures(t *testing.T) {
	t.Run("not in registry", func(t *testing.T) {
		e := setup(t, emptyManifest)
		res := e.installer(nil).InstallComponent(context.Background(), "ghost")
		assert.Equal(t, component.StatusFailed, res.Status)
		require.ErrorIs(t, res.Err, component.ErrNotInRegistry)
	})

	t.Run("declined", func(t *testing.T) {
		e := setup(t, emptyManifest)
		var asked []string
		res := e.installer(func(name string, deps []string) bool {
			asked = append(asked, name)
			assert.Len(t, deps, 2)
			return false
		}).InstallComponent(context.Background(), "dialog")
		assert.Equal(t, component.StatusFailed, res.Status)
		require.ErrorIs(t, res.Err, component.ErrCancelled)
		assert.Equal(t, []string{"dialog"}, asked)
		assert.Empty(t, e.runner.calls)
		assert.NoDirExists(t, e.installedDir("dialog"))
	})

	t.Run("npm install fails", func(t *testing.T) {
		e := setup(t, emptyManifest)
		e.runner.err = errors.New("exit status 1")
		res := e.installer(nil).InstallComponent(context.Background(), "dialog")
		assert.Equal(t, component.StatusFailed, res.Status)
		require.ErrorIs(t, res.Err, pkgmanager.ErrInstallFailed)
		assert.NoDirExists(t, e.installedDir("dialog"))
	})

	t.Run("dependency copy fails", func(t *testing.T) {
		e := setup(t, emptyManifest)
		require.NoError(t, os.RemoveAll(filepath.Join(e.src, "button")))
		res := e.installer(nil).InstallComponent(context.Background(), "dialog")
		assert.Equal(t, component.StatusFailed, res.Status)
		require.ErrorIs(t, res.Err, ErrDependencyFailed)
		require.Len(t, res.Dependencies, 1)
		require.ErrorIs(t, res.Dependencies[0].Err, component.ErrSourceMissing)
		assert.NoDirExists(t, e.installedDir("dialog"))
	})
}

func TestInstallComponent_ResolutionErrorIsNotFatal(t *testing.T) {
	e := setup(t, emptyManifest)

	res := e.installer(nil).InstallComponent(context.Background(), "broken")
	require.NoError(t, res.Err)
	assert.Equal(t, component.StatusInstalled, res.Status)
	assert.Empty(t, res.Dependencies)
}

func TestInstallDependencies_SkipsNoOps(t *testing.T) {
	e := setup(t, emptyManifest)
	plan := []resolver.Resolution{
		{Entity: "card", IsInternalEntity: true},
		{Entity: "@floating-ui/dom@^1.6.0"},
		{Entity: "input", IsInternalEntity: true, NeedsInstall: true, RequiredVersion: "^1.2.0"},
	}

	results, err := e.installer(nil).InstallDependencies(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "input", results[0].Name)

	installed, err := e.store.Installed()
	require.NoError(t, err)
	assert.Equal(t, []config.InstalledComponent{{Name: "input", Version: "1.3.0"}}, installed)
}

func TestPlan(t *testing.T) {
	e := setup(t, emptyManifest)

	entity, plan, external, err := e.installer(nil).Plan(context.Background(), "dialog")
	require.NoError(t, err)
	assert.Equal(t, "1.4.0", entity.Version)
	assert.Equal(t, []string{"@floating-ui/dom@^1.6.0"}, external)
	require.Len(t, plan, 1)
	assert.True(t, plan[0].NeedsInstall)

	_, _, _, err = e.installer(nil).Plan(context.Background(), "ghost")
	require.ErrorIs(t, err, resolver.ErrEntityNotFound)
	assert.Empty(t, e.runner.calls)
}
