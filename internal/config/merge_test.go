package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starwind-ui/starwind/internal/config"
)

func newDefaultTarget() *config.Settings {
	s := config.DefaultSettings()
	s.Registry.URL = "https://mirror.example.com/registry.json"
	s.PackageManager = "pnpm"
	s.Logging.File = "/var/log/starwind.log"
	return s
}

func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
logging:
  level: debug
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "debug", target.Logging.Level)
	assert.Empty(t, target.Logging.Format, "whole section is replaced")
	assert.Empty(t, target.Logging.File)
	assert.Equal(t, "pnpm", target.PackageManager, "absent keys untouched")
	assert.Equal(t, "https://mirror.example.com/registry.json", target.Registry.URL)
}

func TestShallowMergeYAML_ScalarAndSection(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
package_manager: bun
registry:
  source: remote
  cache_ttl: "600"
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "bun", target.PackageManager)
	assert.Equal(t, "remote", target.Registry.Source)
	assert.Equal(t, "600", target.Registry.CacheTTL)
	assert.Empty(t, target.Registry.URL)
}

func TestShallowMergeYAML_IgnoresUnknownAndEmpty(t *testing.T) {
	target := newDefaultTarget()
	require.NoError(t, config.ShallowMergeYAML(target, writeOverlay(t, "unknown:\n  a: 1\n")))
	require.NoError(t, config.ShallowMergeYAML(target, writeOverlay(t, "# only a comment\n")))
	assert.Equal(t, newDefaultTarget(), target)
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	require.Error(t, config.ShallowMergeYAML(nil, "x"))
	require.Error(t, config.ShallowMergeYAML(newDefaultTarget(), filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, config.ShallowMergeYAML(newDefaultTarget(), writeOverlay(t, "logging: [unclosed")))
	require.Error(t, config.ShallowMergeYAML(newDefaultTarget(), writeOverlay(t, "logging: just-a-string\n")))
}
