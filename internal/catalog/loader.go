package catalog

import (
	"context"
	"sync"
	"time"
)

// DefaultFreshness is how long a fetched resource is served from memory
// before the next access triggers a re-fetch.
const DefaultFreshness = 5 * time.Minute

// entry is one time-cached resource value
type entry struct {
	value     any
	fetchedAt time.Time
}

func (e *entry) fresh(now time.Time, freshness time.Duration) bool {
	return !e.fetchedAt.IsZero() && now.Sub(e.fetchedAt) < freshness
}

// Loader wraps a Client with per-resource freshness caching. Within the
// freshness window repeated access returns the cached value without a
// network call; after expiry the next access performs exactly one re-fetch.
// A failed re-fetch leaves the previous entry expired, so the access after
// it retries rather than serving a partial catalog.
type Loader struct {
	client    Client
	freshness time.Duration
	now       func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// LoaderOption customizes a Loader
type LoaderOption func(*Loader)

// WithFreshness overrides the default freshness window
func WithFreshness(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.freshness = d
	}
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		l.now = now
	}
}

// NewLoader creates a caching loader over the given client
func NewLoader(client Client, opts ...LoaderOption) *Loader {
	l := &Loader{
		client:    client,
		freshness: DefaultFreshness,
		now:       time.Now,
		entries:   make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// load returns the cached value for a resource, fetching when missing or
// stale. The mutex serializes refreshes so expiry causes a single re-fetch
// even under concurrent access.
func (l *Loader) load(resource string, fetch func() (any, error)) (any, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.entries[resource]; ok && e.fresh(l.now(), l.freshness) {
		return e.value, nil
	}

	value, err := fetch()
	if err != nil {
		return nil, err
	}

	l.entries[resource] = &entry{value: value, fetchedAt: l.now()}
	return value, nil
}

// OsCatalog returns the cached OS/version catalog
func (l *Loader) OsCatalog(ctx context.Context) (OsCatalog, error) {
	v, err := l.load(ResourceOsVersions, func() (any, error) {
		return l.client.GetOsCatalog(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(OsCatalog), nil
}

// PhpCatalog returns the cached PHP version catalog
func (l *Loader) PhpCatalog(ctx context.Context) (PhpCatalog, error) {
	v, err := l.load(ResourcePhpVersions, func() (any, error) {
		return l.client.GetPhpCatalog(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(PhpCatalog), nil
}

// ExtensionIndex returns the cached extension index
func (l *Loader) ExtensionIndex(ctx context.Context) (*ExtensionIndex, error) {
	v, err := l.load(ResourceExtensions, func() (any, error) {
		return l.client.GetExtensionIndex(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ExtensionIndex), nil
}

// Latest returns the cached aggregate results
func (l *Loader) Latest(ctx context.Context) (LatestData, error) {
	v, err := l.load(ResourceLatest, func() (any, error) {
		return l.client.GetLatest(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(LatestData), nil
}

// Metadata returns a consistent catalog snapshot. Any individual failure
// fails the whole call; no partial catalog is applied.
func (l *Loader) Metadata(ctx context.Context) (*Metadata, error) {
	osCatalog, err := l.OsCatalog(ctx)
	if err != nil {
		return nil, err
	}

	phpCatalog, err := l.PhpCatalog(ctx)
	if err != nil {
		return nil, err
	}

	index, err := l.ExtensionIndex(ctx)
	if err != nil {
		return nil, err
	}

	return &Metadata{
		OS:    osCatalog,
		PHP:   phpCatalog,
		Index: *index,
	}, nil
}
