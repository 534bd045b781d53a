package resolver

import (
	"regexp"
)

// InternalPrefix marks a dependency on another Starwind component.
const InternalPrefix = "@starwind-ui/core/"

var internalSpecRE = regexp.MustCompile(`^@starwind-ui/core/([^@]+)@(.+)$`)

// ParsedDependency is an internal specifier split into its parts.
type ParsedDependency struct {
	Name         string
	Version      string
	OriginalSpec string
}

// Separated is the result of SeparateDependencies.
type Separated struct {
	Internal []string
	External []string
}

// ParseInternalDependency splits "@starwind-ui/core/<name>@<range>". It
// reports false for external specifiers and for internal ones without a range.
func ParseInternalDependency(spec string) (ParsedDependency, bool) {
	m := internalSpecRE.FindStringSubmatch(spec)
	if m == nil {
		return ParsedDependency{}, false
	}
	return ParsedDependency{Name: m[1], Version: m[2], OriginalSpec: spec}, true
}

// IsInternalDependency reports whether spec names a Starwind component.
func IsInternalDependency(spec string) bool {
	_, ok := ParseInternalDependency(spec)
	return ok
}

// SeparateDependencies partitions specs into internal and external lists,
// preserving input order within each.
func SeparateDependencies(specs []string) Separated {
	out := Separated{Internal: []string{}, External: []string{}}
	for _, s := range specs {
		if IsInternalDependency(s) {
			out.Internal = append(out.Internal, s)
		} else {
			out.External = append(out.External, s)
		}
	}
	return out
}
