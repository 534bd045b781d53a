package pkgmanager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestFile is the npm manifest name.
const ManifestFile = "package.json"

// Manifest is the subset of package.json the CLI reads.
type Manifest struct {
	Name            string            `json:"name,omitempty"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Combined merges dependencies and devDependencies. Runtime dependencies win
// when a package is listed in both.
func (m *Manifest) Combined() map[string]string {
	out := make(map[string]string, len(m.Dependencies)+len(m.DevDependencies))
	for k, v := range m.DevDependencies {
		out[k] = v
	}
	for k, v := range m.Dependencies {
		out[k] = v
	}
	return out
}

// Version returns the declared range of pkg from either map.
func (m *Manifest) Version(pkg string) (string, bool) {
	v, ok := m.Combined()[pkg]
	return v, ok
}

// ReadManifest parses package.json in dir.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrManifestNotFound, dir)
		}
		return nil, fmt.Errorf("reading %s: %w", ManifestFile, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestFile, err)
	}
	return &m, nil
}

// ManifestReader reads package.json from a fixed project directory on each
// call, so installs performed earlier in a run are observed.
type ManifestReader struct {
	Dir string
}

// Dependencies returns the combined dependency map of the project.
func (r ManifestReader) Dependencies(_ context.Context) (map[string]string, error) {
	m, err := ReadManifest(r.Dir)
	if err != nil {
		return nil, err
	}
	return m.Combined(), nil
}

// FindProjectRoot walks up from dir to the nearest directory containing
// package.json.
func FindProjectRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	current := abs
	for {
		if _, statErr := os.Stat(filepath.Join(current, ManifestFile)); statErr == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrManifestNotFound
		}
		current = parent
	}
}
