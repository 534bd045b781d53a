package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const entryExt = ".json"

// Cache errors.
var (
	ErrNotFound   = errors.New("cache entry not found")
	ErrExpired    = errors.New("cache entry expired")
	ErrInvalidKey = errors.New("cache key cannot be empty")
	ErrDisabled   = errors.New("cache is disabled")
)

// FileStore is a directory of JSON cache entries. Safe for concurrent use.
type FileStore struct {
	dir     string
	enabled bool
	ttl     time.Duration
	now     func() time.Time

	mu sync.RWMutex
}

// NewFileStore returns a store rooted at dir, creating it when enabled.
// A disabled store answers every call with ErrDisabled.
func NewFileStore(dir string, enabled bool, ttl time.Duration) (*FileStore, error) {
	if !enabled {
		return &FileStore{}, nil
	}
	if dir == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FileStore{dir: dir, enabled: true, ttl: ttl, now: time.Now}, nil
}

// KeyFor derives a stable cache key from a source identifier such as a URL.
func KeyFor(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Get returns the live entry for key.
func (s *FileStore) Get(key string) (*Entry, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}
	if key == "" {
		return nil, ErrInvalidKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading cache file: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}
	if entry.Expired(s.now()) {
		return nil, ErrExpired
	}
	return &entry, nil
}

// Set writes data under key, replacing any previous entry.
func (s *FileStore) Set(key, source string, data json.RawMessage) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	encoded, err := json.MarshalIndent(newEntry(key, source, data, s.ttl, s.now()), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	target := s.path(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0o600); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming cache file: %w", err)
	}
	return nil
}

// Delete removes key. Missing entries are not an error.
func (s *FileStore) Delete(key string) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting cache file: %w", err)
	}
	return nil
}

// Clear removes every entry. When expiredOnly is set, live entries are kept.
func (s *FileStore) Clear(expiredOnly bool) (int, error) {
	if !s.Enabled() {
		return 0, ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}

	removed := 0
	now := s.now()
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != entryExt {
			continue
		}
		p := filepath.Join(s.dir, f.Name())
		if expiredOnly && !s.expiredFile(p, now) {
			continue
		}
		if err := os.Remove(p); err != nil {
			return removed, fmt.Errorf("removing cache file %s: %w", f.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// Enabled reports whether the store reads and writes entries.
func (s *FileStore) Enabled() bool {
	return s != nil && s.enabled
}

// Dir returns the cache directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// TTL returns the lifetime given to new entries.
func (s *FileStore) TTL() time.Duration {
	return s.ttl
}

// expiredFile treats unreadable or undecodable files as expired.
func (s *FileStore) expiredFile(path string, now time.Time) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return true
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return true
	}
	return entry.Expired(now)
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, filepath.Base(key)+entryExt)
}
