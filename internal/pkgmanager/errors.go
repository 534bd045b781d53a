// Package pkgmanager reads the project's package.json and drives the user's
// npm-compatible package manager (npm, pnpm, yarn or bun).
package pkgmanager

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	ErrManifestNotFound = errors.New("package.json not found")
	ErrUnknownManager   = errors.New("unknown package manager")
	ErrManagerNotFound  = errors.New("package manager not found in PATH")
	ErrInstallFailed    = errors.New("package install failed")
)

// InstallError wraps ErrInstallFailed with the package manager's stderr.
func InstallError(pm Manager, stderr string) error {
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		return fmt.Errorf("%w (%s)", ErrInstallFailed, pm)
	}
	return fmt.Errorf("%w (%s): %s", ErrInstallFailed, pm, msg)
}
