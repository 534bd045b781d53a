package cache

import (
	"encoding/json"
	"time"
)

// Entry is one cached payload with its expiry metadata.
type Entry struct {
	Key       string          `json:"key"`
	Source    string          `json:"source,omitempty"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func newEntry(key, source string, data json.RawMessage, ttl time.Duration, now time.Time) *Entry {
	return &Entry{
		Key:       key,
		Source:    source,
		Data:      data,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the entry is past its expiry at now.
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Age returns how long ago the entry was written.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}
