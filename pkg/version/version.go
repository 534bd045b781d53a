// Package version exposes the build version of the starwind binary.
package version

// version is overridden at build time with
// -ldflags "-X github.com/starwind-ui/starwind/pkg/version.version=v1.2.3".
var version = "dev" //nolint:gochecknoglobals // Set via ldflags

// GetVersion returns the build version string.
func GetVersion() string {
	return version
}
