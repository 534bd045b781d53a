package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), true, time.Hour)
	require.NoError(t, err)
	return s
}

func TestEntry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	e := newEntry("k", "src", json.RawMessage(`{}`), time.Minute, now)

	assert.False(t, e.Expired(now.Add(30*time.Second)))
	assert.True(t, e.Expired(now.Add(2*time.Minute)))
	assert.Equal(t, 10*time.Second, e.Age(now.Add(10*time.Second)))
}

func TestKeyFor(t *testing.T) {
	a := KeyFor("https://starwind.dev/registry.json")
	b := KeyFor("https://starwind.dev/registry.json")
	c := KeyFor("https://example.com/registry.json")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestFileStore_SetGet(t *testing.T) {
	s := newTestStore(t)
	data := json.RawMessage(`{"components":[]}`)

	require.NoError(t, s.Set("reg", "https://starwind.dev/registry.json", data))

	got, err := s.Get("reg")
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(got.Data))
	assert.Equal(t, "https://starwind.dev/registry.json", got.Source)
}

func TestFileStore_Errors(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get("")
	require.ErrorIs(t, err, ErrInvalidKey)
	require.ErrorIs(t, s.Set("", "", nil), ErrInvalidKey)
	require.NoError(t, s.Delete("missing"))
}

func TestFileStore_Expired(t *testing.T) {
	s := newTestStore(t)
	base := time.Now()
	s.now = func() time.Time { return base }
	require.NoError(t, s.Set("reg", "", json.RawMessage(`1`)))

	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, err := s.Get("reg")
	require.ErrorIs(t, err, ErrExpired)

	removed, err := s.Clear(true)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestFileStore_ClearKeepsLiveEntriesWhenExpiredOnly(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set("a", "", json.RawMessage(`1`)))
	require.NoError(t, s.Set("b", "", json.RawMessage(`2`)))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0o600))

	removed, err := s.Clear(true)
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = s.Clear(false)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.FileExists(t, filepath.Join(s.Dir(), "notes.txt"))
}

func TestFileStore_Disabled(t *testing.T) {
	s, err := NewFileStore("", false, 0)
	require.NoError(t, err)

	assert.False(t, s.Enabled())
	_, err = s.Get("k")
	require.ErrorIs(t, err, ErrDisabled)
	require.ErrorIs(t, s.Set("k", "", nil), ErrDisabled)
}

func TestParseTTL(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"3600", time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"10", 0, true},
		{"30d", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTTL(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvTTLSeconds, "120")
	t.Setenv(EnvCacheEnabled, "false")
	t.Setenv(EnvCacheDir, "/tmp/starwind-cache")

	assert.Equal(t, 2*time.Minute, TTLFromEnv(DefaultTTL))
	assert.False(t, EnabledFromEnv())
	assert.Equal(t, "/tmp/starwind-cache", DirFromEnv("/fallback"))

	t.Setenv(EnvTTLSeconds, "bogus")
	assert.Equal(t, DefaultTTL, TTLFromEnv(DefaultTTL))
}
