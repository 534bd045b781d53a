// Package registry loads the Starwind component registry, either from the
// snapshot compiled into the binary or from the published registry.json, and
// answers lookups for the dependency resolver and the CLI.
package registry

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/starwind-ui/starwind/internal/cache"
	"github.com/starwind-ui/starwind/internal/logging"
)

// Source selects where registry data comes from.
type Source string

// Registry sources.
const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// DefaultRemoteURL is the published registry document.
const DefaultRemoteURL = "https://starwind.dev/registry.json"

const (
	defaultHTTPTimeout = 30 * time.Second
	maxPayloadBytes    = 4 << 20
)

// ErrUnknownSource is returned by ParseSource for unrecognised values.
var ErrUnknownSource = errors.New("unknown registry source")

//go:embed registry.json
var embeddedRegistry []byte

// ParseSource converts a flag or config value into a Source. Empty means local.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case "", SourceLocal:
		return SourceLocal, nil
	case SourceRemote:
		return SourceRemote, nil
	default:
		return "", fmt.Errorf("%w: %q (expected local or remote)", ErrUnknownSource, s)
	}
}

// Options configures a Registry.
type Options struct {
	Source     Source
	URL        string
	HTTPClient *http.Client
	// Cache, when enabled, stores remote payloads between invocations.
	Cache *cache.FileStore
	// Refresh skips the on-disk cache for the first remote load.
	Refresh bool
}

// Registry is a loaded view of the component registry. It is safe for
// concurrent use; concurrent first loads share a single fetch.
type Registry struct {
	source  Source
	url     string
	client  *http.Client
	store   *cache.FileStore
	refresh bool

	group singleflight.Group

	mu         sync.RWMutex
	components []Component
	loaded     bool
}

// New returns a Registry for opts. Nothing is fetched until first use.
func New(opts Options) *Registry {
	r := &Registry{
		source:  opts.Source,
		url:     opts.URL,
		client:  opts.HTTPClient,
		store:   opts.Cache,
		refresh: opts.Refresh,
	}
	if r.source == "" {
		r.source = SourceLocal
	}
	if r.url == "" {
		r.url = DefaultRemoteURL
	}
	if r.client == nil {
		r.client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return r
}

// NewStatic returns a Registry that serves exactly components.
func NewStatic(components []Component) *Registry {
	r := New(Options{})
	r.components = make([]Component, 0, len(components))
	for _, c := range components {
		r.components = append(r.components, c.clone())
	}
	r.loaded = true
	return r
}

// Source reports where the registry loads from.
func (r *Registry) Source() Source {
	return r.source
}

// All returns every component in registry order.
func (r *Registry) All(ctx context.Context) ([]Component, error) {
	components, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Component, 0, len(components))
	for _, c := range components {
		out = append(out, c.clone())
	}
	return out, nil
}

// Get looks up a component by exact name.
func (r *Registry) Get(ctx context.Context, name string) (Component, bool, error) {
	components, err := r.load(ctx)
	if err != nil {
		return Component{}, false, err
	}
	for _, c := range components {
		if c.Name == name {
			return c.clone(), true, nil
		}
	}
	return Component{}, false, nil
}

// Names returns all component names sorted.
func (r *Registry) Names(ctx context.Context) ([]string, error) {
	components, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return sortedNames(components), nil
}

// Refresh drops the in-memory copy and, for remote sources, the cached
// payload, then reloads.
func (r *Registry) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.loaded = false
	r.components = nil
	r.refresh = true
	r.mu.Unlock()

	_, err := r.load(ctx)
	return err
}

func (r *Registry) load(ctx context.Context) ([]Component, error) {
	r.mu.RLock()
	if r.loaded {
		components := r.components
		r.mu.RUnlock()
		return components, nil
	}
	r.mu.RUnlock()

	v, err, _ := r.group.Do(string(r.source)+":"+r.url, func() (any, error) {
		r.mu.RLock()
		if r.loaded {
			defer r.mu.RUnlock()
			return r.components, nil
		}
		bypassCache := r.refresh
		r.mu.RUnlock()

		var (
			components []Component
			err        error
		)
		if r.source == SourceRemote {
			components, err = r.loadRemote(ctx, bypassCache)
		} else {
			components, err = Decode(embeddedRegistry)
		}
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.components = components
		r.loaded = true
		r.refresh = false
		r.mu.Unlock()
		return components, nil
	})
	if err != nil {
		return nil, err
	}
	components, _ := v.([]Component)
	return components, nil
}

func (r *Registry) loadRemote(ctx context.Context, bypassCache bool) ([]Component, error) {
	log := logging.FromContext(ctx)
	key := cache.KeyFor(r.url)

	if r.store.Enabled() && !bypassCache {
		entry, err := r.store.Get(key)
		if err == nil {
			components, decodeErr := Decode(entry.Data)
			if decodeErr == nil {
				log.Debug().
					Ctx(ctx).
					Str("component", "registry").
					Str("operation", "load_remote").
					Str("url", r.url).
					Msg("registry served from cache")
				return components, nil
			}
			log.Warn().
				Ctx(ctx).
				Str("component", "registry").
				Err(decodeErr).
				Msg("cached registry payload is invalid, refetching")
		}
	}

	data, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}
	components, err := Decode(data)
	if err != nil {
		return nil, err
	}

	if r.store.Enabled() {
		if setErr := r.store.Set(key, r.url, data); setErr != nil {
			log.Warn().
				Ctx(ctx).
				Str("component", "registry").
				Err(setErr).
				Msg("failed to cache registry payload")
		}
	}
	return components, nil
}

func (r *Registry) fetch(ctx context.Context) ([]byte, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "registry").
		Str("operation", "fetch").
		Str("url", r.url).
		Msg("fetching remote registry")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching registry: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("reading registry response: %w", err)
	}
	return data, nil
}
