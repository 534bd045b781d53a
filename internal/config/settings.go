// Package config holds the two configuration layers of the CLI: the
// per-project starwind.config.json that records installed components, and the
// user-level YAML settings that tune the CLI itself.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings file locations and environment overrides.
const (
	SettingsFile = "config.yaml"
	HomeDirName  = ".starwind"

	EnvHome           = "STARWIND_HOME"
	EnvRegistry       = "STARWIND_REGISTRY"
	EnvRegistryURL    = "STARWIND_REGISTRY_URL"
	EnvLogLevel       = "STARWIND_LOG_LEVEL"
	EnvLogFormat      = "STARWIND_LOG_FORMAT"
	EnvPackageManager = "STARWIND_PACKAGE_MANAGER"
)

// Errors returned by Settings.Get and Settings.Set.
var (
	ErrUnknownKey   = errors.New("unknown configuration key")
	ErrInvalidValue = errors.New("invalid configuration value")
)

// RegistrySettings selects and tunes the component registry source.
type RegistrySettings struct {
	Source       string `yaml:"source"`
	URL          string `yaml:"url,omitempty"`
	CacheTTL     string `yaml:"cache_ttl,omitempty"`
	CacheEnabled *bool  `yaml:"cache_enabled,omitempty"`
}

// LoggingConfig controls log level, format and optional file output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// Settings is the user-level CLI configuration.
type Settings struct {
	Registry       RegistrySettings `yaml:"registry"`
	PackageManager string           `yaml:"package_manager,omitempty"`
	Logging        LoggingConfig    `yaml:"logging"`

	path string
}

// DefaultSettings returns settings with every field at its default.
func DefaultSettings() *Settings {
	return &Settings{
		Registry: RegistrySettings{Source: "local"},
		Logging:  LoggingConfig{Level: "info", Format: "console"},
	}
}

// HomeDir returns $STARWIND_HOME or ~/.starwind.
func HomeDir() string {
	if h := os.Getenv(EnvHome); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return HomeDirName
	}
	return filepath.Join(home, HomeDirName)
}

// SettingsPath returns the user-level settings file path.
func SettingsPath() string {
	return filepath.Join(HomeDir(), SettingsFile)
}

// CacheDir returns the default registry cache directory.
func CacheDir() string {
	return filepath.Join(HomeDir(), "cache")
}

// LoadSettings reads path over the defaults. A missing file yields defaults.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()
	s.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	return s, nil
}

// Path returns the file the settings were loaded from.
func (s *Settings) Path() string {
	return s.path
}

// SetPath changes where Save writes.
func (s *Settings) SetPath(path string) {
	s.path = path
}

// Save writes the settings as YAML, creating the parent directory.
func (s *Settings) Save() error {
	if s.path == "" {
		return errors.New("settings path not set")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing settings %s: %w", s.path, err)
	}
	return nil
}

// ApplyEnv overlays STARWIND_* environment variables.
func (s *Settings) ApplyEnv() {
	if v := os.Getenv(EnvRegistry); v != "" {
		s.Registry.Source = v
	}
	if v := os.Getenv(EnvRegistryURL); v != "" {
		s.Registry.URL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		s.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		s.Logging.Format = v
	}
	if v := os.Getenv(EnvPackageManager); v != "" {
		s.PackageManager = v
	}
}

type settingAccessor struct {
	get func(*Settings) string
	set func(*Settings, string) error
}

func stringSetting(field func(*Settings) *string) settingAccessor {
	return settingAccessor{
		get: func(s *Settings) string { return *field(s) },
		set: func(s *Settings, v string) error { *field(s) = v; return nil },
	}
}

func oneOfSetting(field func(*Settings) *string, allowed ...string) settingAccessor {
	return settingAccessor{
		get: func(s *Settings) string { return *field(s) },
		set: func(s *Settings, v string) error {
			for _, a := range allowed {
				if v == a {
					*field(s) = v
					return nil
				}
			}
			return fmt.Errorf("%w: %q (allowed: %s)", ErrInvalidValue, v, strings.Join(allowed, ", "))
		},
	}
}

var settingKeys = map[string]settingAccessor{ //nolint:gochecknoglobals // Static lookup table.
	"registry.source": oneOfSetting(func(s *Settings) *string { return &s.Registry.Source }, "local", "remote"),
	"registry.url":    stringSetting(func(s *Settings) *string { return &s.Registry.URL }),
	"registry.cache_ttl": {
		get: func(s *Settings) string { return s.Registry.CacheTTL },
		set: func(s *Settings, v string) error {
			if v == "" {
				s.Registry.CacheTTL = ""
				return nil
			}
			if _, err := strconv.Atoi(v); err != nil {
				return fmt.Errorf("%w: cache_ttl must be whole seconds, got %q", ErrInvalidValue, v)
			}
			s.Registry.CacheTTL = v
			return nil
		},
	},
	"registry.cache_enabled": {
		get: func(s *Settings) string {
			if s.Registry.CacheEnabled == nil {
				return ""
			}
			return strconv.FormatBool(*s.Registry.CacheEnabled)
		},
		set: func(s *Settings, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, v)
			}
			s.Registry.CacheEnabled = &b
			return nil
		},
	},
	"package_manager": oneOfSetting(func(s *Settings) *string { return &s.PackageManager }, "npm", "pnpm", "yarn", "bun"),
	"logging.level": oneOfSetting(func(s *Settings) *string { return &s.Logging.Level },
		"trace", "debug", "info", "warn", "error"),
	"logging.format": oneOfSetting(func(s *Settings) *string { return &s.Logging.Format }, "console", "json", "text"),
	"logging.file":   stringSetting(func(s *Settings) *string { return &s.Logging.File }),
}

// SettingKeys lists every dotted key accepted by Get and Set.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingKeys))
	for k := range settingKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a dotted key such as "registry.source".
func (s *Settings) Get(key string) (string, error) {
	a, ok := settingKeys[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return a.get(s), nil
}

// Set validates and assigns a dotted key.
func (s *Settings) Set(key, value string) error {
	a, ok := settingKeys[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return a.set(s, value)
}
