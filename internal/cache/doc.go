// Package cache stores fetched registry payloads on disk with a TTL so that
// repeated CLI invocations do not refetch the remote component registry.
//
// Entries live as JSON files under ~/.starwind/cache (or STARWIND_CACHE_DIR).
// Keys are SHA256 digests of the source URL.
package cache
