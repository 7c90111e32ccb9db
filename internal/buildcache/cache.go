// Package buildcache memoizes per-extension build detail records. Records
// are fetched on demand, keyed by the aggregate record's result path, and
// never invalidated within a session.
package buildcache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/flavioheleno/php-ext-web/internal/results"
)

// Fetcher retrieves the build records behind a result path
type Fetcher interface {
	GetBuilds(ctx context.Context, path string) ([]results.BuildRecord, error)
}

// Cache is an on-demand, deduplicated fetch-and-memoize cache for build
// records. At most one fetch is in flight per path; concurrent callers for
// the same path wait on the in-flight fetch and observe its outcome.
// Failed fetches are not cached, so a later call retries; the last error per
// path is kept separately so callers can tell "failed" from "never
// attempted".
type Cache struct {
	fetcher Fetcher
	version atomic.Uint64

	mu       sync.Mutex
	entries  map[string][]results.BuildRecord
	inflight map[string]chan struct{}
	failures map[string]error
}

// New creates an empty cache backed by the given fetcher
func New(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher:  fetcher,
		entries:  make(map[string][]results.BuildRecord),
		inflight: make(map[string]chan struct{}),
		failures: make(map[string]error),
	}
}

// LoadBuilds returns the build records for a path, fetching them on first
// access. Concurrent calls for the same path trigger exactly one fetch.
// On fetch failure the error is returned and nothing is cached; the next
// call for the same path fetches again.
func (c *Cache) LoadBuilds(ctx context.Context, path string) ([]results.BuildRecord, error) {
	for {
		c.mu.Lock()

		if records, ok := c.entries[path]; ok {
			c.mu.Unlock()
			return records, nil
		}

		if ch, ok := c.inflight[path]; ok {
			c.mu.Unlock()
			select {
			case <-ch:
				// Re-check: the leader either cached a result or failed,
				// in which case this caller becomes the next leader.
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		ch := make(chan struct{})
		c.inflight[path] = ch
		c.mu.Unlock()

		records, err := c.fetcher.GetBuilds(ctx, path)

		c.mu.Lock()
		delete(c.inflight, path)
		if err != nil {
			c.failures[path] = err
			c.mu.Unlock()
			close(ch)
			return nil, err
		}

		c.entries[path] = records
		delete(c.failures, path)
		c.mu.Unlock()
		close(ch)

		c.version.Add(1)
		return records, nil
	}
}

// Get returns already-cached records without triggering a fetch.
// The second return value is false when the path was never successfully
// loaded.
func (c *Cache) Get(path string) ([]results.BuildRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, ok := c.entries[path]
	return records, ok
}

// LastError returns the most recent fetch error for a path, or nil if the
// path was never attempted or its last fetch succeeded.
func (c *Cache) LastError(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.failures[path]
}

// Version returns a counter that increments whenever a fetch result is
// stored. Pollers compare it to detect out-of-band cache changes.
func (c *Cache) Version() uint64 {
	return c.version.Load()
}
