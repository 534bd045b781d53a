package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Project config file and defaults.
const (
	ProjectConfigFile   = "starwind.config.json"
	ProjectConfigSchema = "https://starwind.dev/config-schema.json"

	DefaultCSSPath      = "src/styles/starwind.css"
	DefaultComponentDir = "src/components"
	DefaultBaseColor    = "neutral"
)

// ErrProjectConfigNotFound is returned when starwind.config.json is missing.
var ErrProjectConfigNotFound = errors.New("starwind.config.json not found; run 'starwind init' first")

// BaseColors lists the Tailwind palettes accepted for tailwind.baseColor.
func BaseColors() []string {
	return []string{"slate", "gray", "zinc", "neutral", "stone"}
}

// TailwindConfig is the tailwind section of starwind.config.json.
type TailwindConfig struct {
	CSS          string `json:"css"`
	BaseColor    string `json:"baseColor"`
	CSSVariables bool   `json:"cssVariables"`
}

// InstalledComponent records one component copied into the project.
type InstalledComponent struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ProjectConfig is the content of starwind.config.json.
type ProjectConfig struct {
	Schema       string               `json:"$schema"`
	Tailwind     TailwindConfig       `json:"tailwind"`
	ComponentDir string               `json:"componentDir"`
	Components   []InstalledComponent `json:"components"`
}

// DefaultProjectConfig returns the configuration written by a default init.
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Schema: ProjectConfigSchema,
		Tailwind: TailwindConfig{
			CSS:          DefaultCSSPath,
			BaseColor:    DefaultBaseColor,
			CSSVariables: true,
		},
		ComponentDir: DefaultComponentDir,
		Components:   []InstalledComponent{},
	}
}

// Component returns the recorded entry for name.
func (c *ProjectConfig) Component(name string) (InstalledComponent, bool) {
	for _, ic := range c.Components {
		if ic.Name == name {
			return ic, true
		}
	}
	return InstalledComponent{}, false
}

// Patch is a partial update applied by Store.Update. Nil or empty fields are
// left unchanged.
type Patch struct {
	Tailwind     *TailwindConfig
	ComponentDir string
	Components   []InstalledComponent
	// AppendComponents adds Components to the recorded list instead of
	// replacing it.
	AppendComponents bool
}

// Store reads and writes starwind.config.json in a project directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore returns a Store for the project rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the project root.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the absolute location of starwind.config.json.
func (s *Store) Path() string {
	return filepath.Join(s.dir, ProjectConfigFile)
}

// Exists reports whether the project has been initialised.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

// Load reads the config, filling absent fields from the defaults. A
// components value that is not a list is read as empty.
func (s *Store) Load() (*ProjectConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save writes cfg as two-space indented JSON.
func (s *Store) Save(cfg *ProjectConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(cfg)
}

// Update applies p to the stored config and writes it back. A missing file
// is treated as the default config.
func (s *Store) Update(p Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if errors.Is(err, ErrProjectConfigNotFound) {
		cfg = DefaultProjectConfig()
	} else if err != nil {
		return err
	}

	if p.Tailwind != nil {
		cfg.Tailwind = *p.Tailwind
	}
	if p.ComponentDir != "" {
		cfg.ComponentDir = p.ComponentDir
	}
	if p.Components != nil {
		if p.AppendComponents {
			cfg.Components = append(cfg.Components, p.Components...)
		} else {
			cfg.Components = append([]InstalledComponent{}, p.Components...)
		}
	}
	return s.save(cfg)
}

// AppendComponents records newly installed components. Entries already
// present by name are replaced in place rather than duplicated.
func (s *Store) AppendComponents(components ...InstalledComponent) error {
	return s.mutateComponents(func(current []InstalledComponent) []InstalledComponent {
		return upsert(current, components)
	})
}

// RemoveComponents drops the named components from the record. Both
// mutators start from the default config when the file is missing.
func (s *Store) RemoveComponents(names ...string) error {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	return s.mutateComponents(func(current []InstalledComponent) []InstalledComponent {
		out := make([]InstalledComponent, 0, len(current))
		for _, c := range current {
			if _, ok := drop[c.Name]; !ok {
				out = append(out, c)
			}
		}
		return out
	})
}

// Installed returns the recorded components.
func (s *Store) Installed() ([]InstalledComponent, error) {
	cfg, err := s.Load()
	if err != nil {
		return nil, err
	}
	return cfg.Components, nil
}

// InstalledVersion returns the recorded version of name. An entry without a
// version counts as not installed.
func (s *Store) InstalledVersion(_ context.Context, name string) (string, bool, error) {
	cfg, err := s.Load()
	if err != nil {
		return "", false, err
	}
	c, ok := cfg.Component(name)
	return c.Version, ok && c.Version != "", nil
}

func (s *Store) mutateComponents(fn func([]InstalledComponent) []InstalledComponent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if errors.Is(err, ErrProjectConfigNotFound) {
		cfg = DefaultProjectConfig()
	} else if err != nil {
		return err
	}
	cfg.Components = fn(cfg.Components)
	return s.save(cfg)
}

type rawProjectConfig struct {
	Schema       *string          `json:"$schema"`
	Tailwind     *json.RawMessage `json:"tailwind"`
	ComponentDir *string          `json:"componentDir"`
	Components   json.RawMessage  `json:"components"`
}

func (s *Store) load() (*ProjectConfig, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrProjectConfigNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", ProjectConfigFile, err)
	}

	var raw rawProjectConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ProjectConfigFile, err)
	}

	cfg := DefaultProjectConfig()
	if raw.Schema != nil {
		cfg.Schema = *raw.Schema
	}
	if raw.Tailwind != nil {
		if err := json.Unmarshal(*raw.Tailwind, &cfg.Tailwind); err != nil {
			return nil, fmt.Errorf("parsing %s tailwind section: %w", ProjectConfigFile, err)
		}
	}
	if raw.ComponentDir != nil && *raw.ComponentDir != "" {
		cfg.ComponentDir = *raw.ComponentDir
	}
	var components []InstalledComponent
	if len(raw.Components) > 0 && json.Unmarshal(raw.Components, &components) == nil && components != nil {
		cfg.Components = components
	}
	return cfg, nil
}

func (s *Store) save(cfg *ProjectConfig) error {
	if cfg.Components == nil {
		cfg.Components = []InstalledComponent{}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", ProjectConfigFile, err)
	}
	//nolint:gosec // Project config is meant to be committed and world-readable.
	if err := os.WriteFile(s.Path(), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", ProjectConfigFile, err)
	}
	return nil
}

func upsert(current, updates []InstalledComponent) []InstalledComponent {
	out := append([]InstalledComponent{}, current...)
	for _, u := range updates {
		replaced := false
		for i := range out {
			if out[i].Name == u.Name {
				out[i] = u
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, u)
		}
	}
	return out
}
