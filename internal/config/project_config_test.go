package config_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starwind-ui/starwind/internal/config"
)

func writeProjectConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ProjectConfigFile), []byte(content), 0o644))
}

func TestStore_LoadMissing(t *testing.T) {
	s := config.NewStore(t.TempDir())
	assert.False(t, s.Exists())

	_, err := s.Load()
	require.ErrorIs(t, err, config.ErrProjectConfigNotFound)

	_, _, err = s.InstalledVersion(context.Background(), "button")
	require.ErrorIs(t, err, config.ErrProjectConfigNotFound)
}

func TestStore_LoadMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeProjectConfig(t, dir, `{"tailwind": {"baseColor": "zinc"}, "components": "oops"}`)

	cfg, err := config.NewStore(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, config.ProjectConfigSchema, cfg.Schema)
	assert.Equal(t, "zinc", cfg.Tailwind.BaseColor)
	assert.Equal(t, config.DefaultCSSPath, cfg.Tailwind.CSS)
	assert.Equal(t, config.DefaultComponentDir, cfg.ComponentDir)
	assert.NotNil(t, cfg.Components)
	assert.Empty(t, cfg.Components, "non-list components read as empty")
}

func TestStore_SaveFormat(t *testing.T) {
	dir := t.TempDir()
	s := config.NewStore(dir)
	require.NoError(t, s.Save(config.DefaultProjectConfig()))
	assert.True(t, s.Exists())

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
	assert.Contains(t, string(data), "\n  \"tailwind\": {")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{}, decoded["components"])
}

func TestStore_ComponentRecords(t *testing.T) {
	dir := t.TempDir()
	s := config.NewStore(dir)
	require.NoError(t, s.Save(config.DefaultProjectConfig()))

	require.NoError(t, s.AppendComponents(
		config.InstalledComponent{Name: "button", Version: "2.0.0"},
		config.InstalledComponent{Name: "card", Version: "1.2.0"},
	))
	require.NoError(t, s.AppendComponents(config.InstalledComponent{Name: "button", Version: "2.1.0"}))

	installed, err := s.Installed()
	require.NoError(t, err)
	assert.Equal(t, []config.InstalledComponent{
		{Name: "button", Version: "2.1.0"},
		{Name: "card", Version: "1.2.0"},
	}, installed)

	v, ok, err := s.InstalledVersion(context.Background(), "button")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2.1.0", v)

	require.NoError(t, s.RemoveComponents("button", "missing"))
	installed, err = s.Installed()
	require.NoError(t, err)
	assert.Equal(t, []config.InstalledComponent{{Name: "card", Version: "1.2.0"}}, installed)

	_, ok, err = s.InstalledVersion(context.Background(), "button")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_MutatorsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	s := config.NewStore(dir)

	require.NoError(t, s.AppendComponents(config.InstalledComponent{Name: "button", Version: "2.1.0"}))
	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultProjectConfig().ComponentDir, cfg.ComponentDir)
	assert.Equal(t, []config.InstalledComponent{{Name: "button", Version: "2.1.0"}}, cfg.Components)

	other := config.NewStore(t.TempDir())
	require.NoError(t, other.RemoveComponents("button"))
	installed, err := other.Installed()
	require.NoError(t, err)
	assert.Empty(t, installed)
}

func TestStore_InstalledVersionEmpty(t *testing.T) {
	dir := t.TempDir()
	writeProjectConfig(t, dir, `{"components":[{"name":"button","version":""}]}`)

	_, ok, err := config.NewStore(dir).InstalledVersion(context.Background(), "button")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Update(t *testing.T) {
	dir := t.TempDir()
	s := config.NewStore(dir)

	require.NoError(t, s.Update(config.Patch{
		Tailwind:     &config.TailwindConfig{CSS: "src/app.css", BaseColor: "slate", CSSVariables: true},
		ComponentDir: "src/ui",
		Components:   []config.InstalledComponent{{Name: "alert", Version: "1.0.0"}},
	}))

	require.NoError(t, s.Update(config.Patch{
		Components:       []config.InstalledComponent{{Name: "badge", Version: "1.3.0"}},
		AppendComponents: true,
	}))

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "src/ui", cfg.ComponentDir)
	assert.Equal(t, "slate", cfg.Tailwind.BaseColor)
	assert.Len(t, cfg.Components, 2)

	require.NoError(t, s.Update(config.Patch{Components: []config.InstalledComponent{}}))
	cfg, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Components)
	assert.Equal(t, "src/ui", cfg.ComponentDir)
}
