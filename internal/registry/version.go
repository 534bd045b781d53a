package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrEmptyConstraint is returned when a version range is blank.
var ErrEmptyConstraint = errors.New("version constraint cannot be empty")

// ParseVersionConstraint parses an npm-style range such as "^1.2.0",
// "~2.1", ">=1.0.0 <2.0.0" or "1.x".
func ParseVersionConstraint(s string) (*semver.Constraints, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyConstraint
	}
	c, err := semver.NewConstraint(s)
	if err != nil {
		return nil, fmt.Errorf("parsing version constraint %q: %w", s, err)
	}
	return c, nil
}

// ParseStrictVersion parses a full MAJOR.MINOR.PATCH version as recorded in
// package manifests and project config. A leading "v" is tolerated; partial
// versions such as "1.2" are rejected.
func ParseStrictVersion(s string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(strings.TrimSpace(s), "v"))
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", s, err)
	}
	return v, nil
}

// SatisfiesConstraint reports whether version lies within constraint.
// Prerelease versions only match ranges that themselves name a prerelease.
func SatisfiesConstraint(version string, constraint *semver.Constraints) (bool, error) {
	v, err := ParseStrictVersion(version)
	if err != nil {
		return false, err
	}
	return constraint.Check(v), nil
}

// Satisfies parses both arguments and checks the version against the range.
func Satisfies(version, rangeSpec string) (bool, error) {
	c, err := ParseVersionConstraint(rangeSpec)
	if err != nil {
		return false, err
	}
	return SatisfiesConstraint(version, c)
}

// CompareVersions returns -1, 0 or 1 comparing v1 to v2.
func CompareVersions(v1, v2 string) (int, error) {
	a, err := semver.NewVersion(v1)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", v1, err)
	}
	b, err := semver.NewVersion(v2)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", v2, err)
	}
	return a.Compare(b), nil
}

// IsNewer reports whether candidate is strictly greater than current.
func IsNewer(candidate, current string) (bool, error) {
	cmp, err := CompareVersions(candidate, current)
	if err != nil {
		return false, err
	}
	return cmp > 0, nil
}

// IsValidVersion reports whether v parses as a (possibly partial) semver.
func IsValidVersion(v string) bool {
	_, err := semver.NewVersion(v)
	return err == nil
}
