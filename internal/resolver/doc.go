// Package resolver decides which Starwind components must be installed or
// updated before a requested component can be added to a project, and which
// third-party npm packages are still missing.
//
// Internal dependencies are written as "@starwind-ui/core/<name>@<range>".
// Anything else is an external npm specifier and is only ever filtered
// against package.json, never resolved recursively.
package resolver
