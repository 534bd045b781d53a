package registry

import (
	"slices"
	"sort"
)

// TypeComponent is the only entity type the registry publishes today.
const TypeComponent = "component"

// Component is one entry of the component registry. Dependencies hold raw
// dependency specifiers, internal ("@starwind-ui/core/button@^2.0.0") or
// external npm ("@floating-ui/dom@^1.6.0").
type Component struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Dependencies []string `json:"dependencies"`
	Type         string   `json:"type"`
}

// Payload is the document served at registry.json.
type Payload struct {
	Schema     string      `json:"$schema,omitempty"`
	Components []Component `json:"components"`
}

// HasDependencies reports whether installing c pulls in anything else.
func (c Component) HasDependencies() bool {
	return len(c.Dependencies) > 0
}

// clone returns a copy that shares no slices with c.
func (c Component) clone() Component {
	c.Dependencies = slices.Clone(c.Dependencies)
	if c.Dependencies == nil {
		c.Dependencies = []string{}
	}
	return c
}

// sortedNames returns component names in lexical order.
func sortedNames(components []Component) []string {
	names := make([]string, 0, len(components))
	for _, c := range components {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}
