package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrInvalidRegistry is returned when a registry document fails validation.
var ErrInvalidRegistry = errors.New("invalid registry")

const schemaURL = "https://starwind.dev/registry-schema.json"

const registrySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["components"],
  "properties": {
    "$schema": {"type": "string"},
    "components": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "version", "type"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "version": {"type": "string", "minLength": 1},
          "dependencies": {"type": "array", "items": {"type": "string", "minLength": 1}},
          "type": {"enum": ["component"]}
        }
      }
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(registrySchema))
		if err != nil {
			compileErr = fmt.Errorf("decoding registry schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("adding registry schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// Decode validates raw registry JSON and returns its components. Missing
// dependency lists default to empty. Besides the structural schema, every
// version must be a full semver and names must be unique.
func Decode(data []byte) ([]Component, error) {
	sch, err := loadSchema()
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
	}

	seen := make(map[string]struct{}, len(payload.Components))
	out := make([]Component, 0, len(payload.Components))
	for _, c := range payload.Components {
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate component %q", ErrInvalidRegistry, c.Name)
		}
		seen[c.Name] = struct{}{}
		if _, err := ParseStrictVersion(c.Version); err != nil {
			return nil, fmt.Errorf("%w: component %q: %v", ErrInvalidRegistry, c.Name, err)
		}
		out = append(out, c.clone())
	}
	return out, nil
}
