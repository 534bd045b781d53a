package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML keys used for shallow merge.
const (
	keyRegistry       = "registry"
	keyPackageManager = "package_manager"
	keyLogging        = "logging"
)

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// target. A key present in the overlay replaces that whole section; absent
// and unknown keys leave target unchanged.
func ShallowMergeYAML(target *Settings, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Settings in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if err = applySection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}

// applySection decodes into a fresh value so the section is fully replaced.
func applySection(target *Settings, key string, node *yaml.Node) error {
	switch key {
	case keyRegistry:
		var v RegistrySettings
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Registry = v
	case keyPackageManager:
		var v string
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.PackageManager = v
	case keyLogging:
		var v LoggingConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	}
	return nil
}
