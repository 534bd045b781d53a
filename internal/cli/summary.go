package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/starwind-ui/starwind/internal/component"
	"github.com/starwind-ui/starwind/internal/tui"
)

// Command-level errors.
var (
	errOperationCancelled = errors.New("operation cancelled")
	errNotInitialized     = errors.New("no starwind.config.json found; run `starwind init` first")
	errNoComponents       = errors.New("no components selected")
)

// installSummary groups install outcomes, dependencies included.
type installSummary struct {
	installed []component.InstallResult
	skipped   []component.InstallResult
	failed    []component.InstallResult
}

func (s *installSummary) add(r component.InstallResult) {
	switch r.Status {
	case component.StatusInstalled, component.StatusUpdated:
		s.installed = append(s.installed, r)
	case component.StatusSkipped:
		s.skipped = append(s.skipped, r)
	default:
		s.failed = append(s.failed, r)
	}
	for _, dep := range r.Dependencies {
		s.add(dep)
	}
}

func (s *installSummary) print(w io.Writer) {
	fmt.Fprintf(w, "\n%s\n", tui.Underline("Installation Summary"))

	if len(s.failed) > 0 {
		fmt.Fprintln(w, tui.Error("Failed to install components:"))
		for _, r := range s.failed {
			fmt.Fprintf(w, "  %s - %v\n", r.Name, r.Err)
		}
	}
	if len(s.installed) > 0 {
		fmt.Fprintln(w, tui.Success("Successfully installed components:"))
		for _, r := range s.installed {
			note := ""
			if r.Status == component.StatusUpdated {
				note = " (updated)"
			}
			fmt.Fprintf(w, "  %s v%s%s\n", r.Name, r.Version, note)
		}
	}
	if len(s.skipped) > 0 {
		fmt.Fprintln(w, tui.Warn("Skipped components (already installed):"))
		for _, r := range s.skipped {
			fmt.Fprintf(w, "  %s v%s\n", r.Name, r.Version)
		}
	}
}

// pluralize returns word with an "s" unless n is one.
func pluralize(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// joinInfo highlights and joins names.
func joinInfo(names []string) string {
	styled := make([]string, len(names))
	for i, n := range names {
		styled[i] = tui.Info(n)
	}
	return strings.Join(styled, ", ")
}

// IsCancelled reports whether err means the user backed out of a prompt.
func IsCancelled(err error) bool {
	return errors.Is(err, errOperationCancelled)
}
