package pkgmanager

import "strings"

// Spec is an npm package specifier split into name and optional range.
type Spec struct {
	Name  string
	Range string
}

// String reassembles the specifier.
func (s Spec) String() string {
	if s.Range == "" {
		return s.Name
	}
	return s.Name + "@" + s.Range
}

// ParseSpec splits "<pkg>@<range>" at the last '@' that is not the leading
// scope marker, so "@types/node@^18.0.0" yields "@types/node" and "^18.0.0".
func ParseSpec(raw string) Spec {
	i := strings.LastIndex(raw, "@")
	if i <= 0 {
		return Spec{Name: raw}
	}
	return Spec{Name: raw[:i], Range: raw[i+1:]}
}
