package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starwind-ui/starwind/internal/config"
	"github.com/starwind-ui/starwind/internal/logging"
)

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	s, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "local", s.Registry.Source)
	assert.Equal(t, "info", s.Logging.Level)
	assert.Equal(t, path, s.Path())
}

func TestSettings_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	s := config.DefaultSettings()
	s.SetPath(path)
	require.NoError(t, s.Set("registry.source", "remote"))
	require.NoError(t, s.Set("registry.cache_enabled", "false"))
	require.NoError(t, s.Set("package_manager", "pnpm"))
	require.NoError(t, s.Save())

	loaded, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "remote", loaded.Registry.Source)
	require.NotNil(t, loaded.Registry.CacheEnabled)
	assert.False(t, *loaded.Registry.CacheEnabled)
	assert.Equal(t, "pnpm", loaded.PackageManager)
}

func TestLoadSettings_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("registry: [\n"), 0o600))
	_, err := config.LoadSettings(path)
	require.Error(t, err)
}

func TestSettings_GetSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr error
	}{
		{"registry.source", "remote", nil},
		{"registry.source", "ftp", config.ErrInvalidValue},
		{"registry.url", "https://mirror.example.com/registry.json", nil},
		{"registry.cache_ttl", "600", nil},
		{"registry.cache_ttl", "10m", config.ErrInvalidValue},
		{"registry.cache_enabled", "yes", config.ErrInvalidValue},
		{"package_manager", "bun", nil},
		{"package_manager", "cargo", config.ErrInvalidValue},
		{"logging.level", "debug", nil},
		{"logging.format", "json", nil},
		{"logging.file", "/tmp/starwind.log", nil},
		{"nope", "x", config.ErrUnknownKey},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			s := config.DefaultSettings()
			err := s.Set(tt.key, tt.value)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			got, err := s.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}

	_, err := config.DefaultSettings().Get("nope")
	require.ErrorIs(t, err, config.ErrUnknownKey)
	assert.Contains(t, config.SettingKeys(), "registry.source")
}

func TestSettings_ApplyEnv(t *testing.T) {
	t.Setenv(config.EnvRegistry, "remote")
	t.Setenv(config.EnvRegistryURL, "https://mirror.example.com/r.json")
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvLogFormat, "json")
	t.Setenv(config.EnvPackageManager, "bun")

	s := config.DefaultSettings()
	s.ApplyEnv()
	assert.Equal(t, "remote", s.Registry.Source)
	assert.Equal(t, "https://mirror.example.com/r.json", s.Registry.URL)
	assert.Equal(t, "error", s.Logging.Level)
	assert.Equal(t, "json", s.Logging.Format)
	assert.Equal(t, "bun", s.PackageManager)
}

func TestHomeDir(t *testing.T) {
	t.Setenv(config.EnvHome, "/opt/starwind")
	assert.Equal(t, "/opt/starwind", config.HomeDir())
	assert.Equal(t, filepath.Join("/opt/starwind", "config.yaml"), config.SettingsPath())
	assert.Equal(t, filepath.Join("/opt/starwind", "cache"), config.CacheDir())
}

func TestLoggingConfig_ToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "debug", Format: "json"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputStderr, got.Output)
	assert.Equal(t, "debug", got.Level)

	lc.File = "/tmp/x.log"
	got = lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, got.Output)
	assert.Equal(t, "/tmp/x.log", got.File)
}

func TestValidatePaths(t *testing.T) {
	require.NoError(t, config.ValidateRelativePath("src/components"))
	require.ErrorIs(t, config.ValidateRelativePath(""), config.ErrEmptyPath)
	require.ErrorIs(t, config.ValidateRelativePath("/abs"), config.ErrAbsolutePath)
	require.ErrorIs(t, config.ValidateRelativePath("../outside"), config.ErrEscapingPath)

	require.NoError(t, config.ValidateCSSPath("src/styles/starwind.css"))
	require.ErrorIs(t, config.ValidateCSSPath("src/styles/starwind.scss"), config.ErrNotCSSFile)

	assert.True(t, config.ValidBaseColor("neutral"))
	assert.False(t, config.ValidBaseColor("purple"))
}
