package config

import (
	"errors"
	"path/filepath"
	"strings"
)

// Path validation errors for init answers.
var (
	ErrEmptyPath    = errors.New("path cannot be empty")
	ErrAbsolutePath = errors.New("path must be relative to the project root")
	ErrEscapingPath = errors.New("path must stay inside the project")
	ErrNotCSSFile   = errors.New("path must end with .css")
)

// ValidateRelativePath checks a project-relative directory answer.
func ValidateRelativePath(p string) error {
	p = strings.TrimSpace(p)
	if p == "" {
		return ErrEmptyPath
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return ErrAbsolutePath
	}
	clean := filepath.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return ErrEscapingPath
	}
	return nil
}

// ValidateCSSPath checks the Tailwind entry stylesheet answer.
func ValidateCSSPath(p string) error {
	if err := ValidateRelativePath(p); err != nil {
		return err
	}
	if !strings.HasSuffix(strings.TrimSpace(p), ".css") {
		return ErrNotCSSFile
	}
	return nil
}

// ValidBaseColor reports whether c is a supported Tailwind palette.
func ValidBaseColor(c string) bool {
	for _, b := range BaseColors() {
		if b == c {
			return true
		}
	}
	return false
}
