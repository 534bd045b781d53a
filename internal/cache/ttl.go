package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// TTL bounds and environment overrides.
const (
	DefaultTTL = time.Hour
	MinTTL     = time.Minute
	MaxTTL     = 7 * 24 * time.Hour

	EnvTTLSeconds   = "STARWIND_CACHE_TTL_SECONDS"
	EnvCacheEnabled = "STARWIND_CACHE_ENABLED"
	EnvCacheDir     = "STARWIND_CACHE_DIR"
)

// ErrInvalidTTL is returned for TTLs outside [MinTTL, MaxTTL].
var ErrInvalidTTL = fmt.Errorf("TTL must be between %s and %s", MinTTL, MaxTTL)

// ParseTTL accepts integer seconds ("3600") or a Go duration ("90m").
func ParseTTL(s string) (time.Duration, error) {
	var d time.Duration
	if secs, err := strconv.Atoi(s); err == nil {
		d = time.Duration(secs) * time.Second
	} else {
		parsed, perr := time.ParseDuration(s)
		if perr != nil {
			return 0, fmt.Errorf("invalid TTL format: %w", perr)
		}
		d = parsed
	}
	if d < MinTTL || d > MaxTTL {
		return 0, fmt.Errorf("%w: got %s", ErrInvalidTTL, d)
	}
	return d, nil
}

// TTLFromEnv returns the TTL from STARWIND_CACHE_TTL_SECONDS, or fallback
// when unset or invalid.
func TTLFromEnv(fallback time.Duration) time.Duration {
	v := os.Getenv(EnvTTLSeconds)
	if v == "" {
		return fallback
	}
	d, err := ParseTTL(v)
	if err != nil {
		return fallback
	}
	return d
}

// EnabledFromEnv reads STARWIND_CACHE_ENABLED, defaulting to true.
func EnabledFromEnv() bool {
	v := os.Getenv(EnvCacheEnabled)
	if v == "" {
		return true
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}
	return enabled
}

// DirFromEnv returns STARWIND_CACHE_DIR, or fallback when unset.
func DirFromEnv(fallback string) string {
	if v := os.Getenv(EnvCacheDir); v != "" {
		return v
	}
	return fallback
}
