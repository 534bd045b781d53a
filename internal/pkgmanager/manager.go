package pkgmanager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/starwind-ui/starwind/internal/logging"
)

// Manager is an npm-compatible package manager.
type Manager string

// Supported package managers.
const (
	NPM  Manager = "npm"
	PNPM Manager = "pnpm"
	Yarn Manager = "yarn"
	Bun  Manager = "bun"
)

// DefaultInstallTimeout bounds a single install invocation.
const DefaultInstallTimeout = 5 * time.Minute

// Managers lists every supported manager in prompt order.
func Managers() []Manager {
	return []Manager{PNPM, NPM, Yarn, Bun}
}

// ParseManager validates a manager name.
func ParseManager(s string) (Manager, error) {
	for _, m := range Managers() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q (expected npm, pnpm, yarn or bun)", ErrUnknownManager, s)
}

var lockfiles = []struct {
	file string
	pm   Manager
}{
	{"pnpm-lock.yaml", PNPM},
	{"bun.lockb", Bun},
	{"bun.lock", Bun},
	{"yarn.lock", Yarn},
	{"package-lock.json", NPM},
}

// Detect picks the manager whose lockfile is present in dir. The second
// return value is false when no lockfile was found and npm was assumed.
func Detect(dir string) (Manager, bool) {
	for _, lf := range lockfiles {
		if _, err := os.Stat(filepath.Join(dir, lf.file)); err == nil {
			return lf.pm, true
		}
	}
	return NPM, false
}

// InstallOptions tunes an install.
type InstallOptions struct {
	Dev     bool
	Force   bool
	Timeout time.Duration
}

// InstallArgs returns the argument list for installing pkgs with pm.
func InstallArgs(pm Manager, pkgs []string, opts InstallOptions) []string {
	verb := "add"
	if pm == NPM {
		verb = "install"
	}
	args := append([]string{verb}, pkgs...)
	if opts.Dev {
		if pm == NPM || pm == PNPM {
			args = append(args, "-D")
		} else {
			args = append(args, "--dev")
		}
	}
	if opts.Force {
		args = append(args, "--force")
	}
	return args
}

// CommandRunner runs an external command in dir.
type CommandRunner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (stdout []byte, stderr []byte, err error)
}

type execRunner struct{}

func (r *execRunner) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, []byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrManagerNotFound, name)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Runner is the package-level CommandRunner. Replace in tests.
var Runner CommandRunner = &execRunner{} //nolint:gochecknoglobals // Required for test injection

// Install installs pkgs into the project at dir. An empty list is a no-op.
func Install(ctx context.Context, dir string, pm Manager, pkgs []string, opts InstallOptions) error {
	if len(pkgs) == 0 {
		return nil
	}

	log := logging.FromContext(ctx)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultInstallTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := InstallArgs(pm, pkgs, opts)
	log.Info().
		Ctx(ctx).
		Str("component", "pkgmanager").
		Str("operation", "install").
		Str("package_manager", string(pm)).
		Strs("packages", pkgs).
		Str("dir", dir).
		Msg("installing packages")

	_, stderr, err := Runner.Run(ctx, dir, string(pm), args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%s install timed out after %s", pm, timeout)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		if errors.Is(err, ErrManagerNotFound) {
			return err
		}
		return InstallError(pm, string(stderr))
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "pkgmanager").
		Int("packages", len(pkgs)).
		Msg("install completed")
	return nil
}
