package resolver

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is.
var (
	ErrEntityNotFound     = errors.New("not found in registry")
	ErrUnsatisfiableRange = errors.New("no available version satisfies the required range")
	ErrInvalidRange       = errors.New("invalid version range")
)

// EntityNotFoundError reports a component missing from the registry.
type EntityNotFoundError struct {
	Name string
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("component %q %s", e.Name, ErrEntityNotFound)
}

// Unwrap lets errors.Is match ErrEntityNotFound.
func (e *EntityNotFoundError) Unwrap() error { return ErrEntityNotFound }

// UnsatisfiableRangeError reports an installed component whose version does
// not meet a dependent's range when the registry's latest release does not
// either.
type UnsatisfiableRangeError struct {
	Name      string
	Required  string
	Latest    string
	Installed string
}

func (e *UnsatisfiableRangeError) Error() string {
	return fmt.Sprintf(
		"component %q requires version %s but latest available is %s (installed: %s)",
		e.Name, e.Required, e.Latest, e.Installed,
	)
}

// Unwrap lets errors.Is match ErrUnsatisfiableRange.
func (e *UnsatisfiableRangeError) Unwrap() error { return ErrUnsatisfiableRange }

func invalidRangeError(spec string, err error) error {
	return fmt.Errorf("%w in %q: %v", ErrInvalidRange, spec, err)
}
