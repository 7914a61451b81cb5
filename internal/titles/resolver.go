package titles

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-linkify/internal/links"
	"github.com/goliatone/go-linkify/internal/logging"
	"github.com/goliatone/go-linkify/pkg/interfaces"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds a single title fetch.
const DefaultTimeout = 5 * time.Second

// Resolver maps URLs to page titles. Results, including fallbacks, are cached
// for the lifetime of the store and concurrent lookups of one URL share a
// single fetch.
type Resolver struct {
	fetcher interfaces.TitleFetcher
	store   interfaces.TitleStore
	timeout time.Duration
	logger  interfaces.Logger

	group    singleflight.Group
	inflight atomic.Int64

	// clearMu orders cache writes against ClearCache; generation counts clears.
	clearMu    sync.RWMutex
	generation uint64
}

var (
	_ interfaces.TitleResolver       = (*Resolver)(nil)
	_ interfaces.TitleCacheInspector = (*Resolver)(nil)
)

// ResolverOption configures the resolver.
type ResolverOption func(*Resolver)

// WithTimeout overrides the per-fetch timeout.
func WithTimeout(timeout time.Duration) ResolverOption {
	return func(r *Resolver) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver wires a resolver. A nil store defaults to a MemoryStore; a nil
// fetcher disables lookups so every call returns its fallback.
func NewResolver(fetcher interfaces.TitleFetcher, store interfaces.TitleStore, opts ...ResolverOption) *Resolver {
	if store == nil {
		store = NewMemoryStore()
	}
	r := &Resolver{
		fetcher: fetcher,
		store:   store,
		timeout: DefaultTimeout,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the title of rawURL, or fallback when the URL is a file
// URL, uses an unsafe scheme, or the lookup fails or times out. It returns
// early with fallback when ctx ends; the shared fetch keeps running for other
// callers and still populates the cache unless ClearCache runs meanwhile.
func (r *Resolver) Resolve(ctx context.Context, rawURL, fallback string) string {
	if r.fetcher == nil || strings.TrimSpace(rawURL) == "" || links.IsFileURL(rawURL) {
		return fallback
	}
	href, ok := links.HrefFor(rawURL)
	if !ok {
		return fallback
	}

	logger := logging.WithHost(r.logger, hostOf(href))
	if title, found, err := r.store.Get(ctx, href); err != nil {
		logging.WithError(logger, err).Warn("titles.resolver.cache_read_failed")
	} else if found {
		logger.Debug("titles.resolver.cache_hit")
		return title
	}

	fetchCtx := context.WithoutCancel(ctx)
	results := r.group.DoChan(href, func() (any, error) {
		return r.fetch(fetchCtx, href, fallback, logger)
	})

	select {
	case res := <-results:
		if res.Shared {
			logger.Debug("titles.resolver.joined_pending")
		}
		if res.Err != nil {
			return fallback
		}
		return res.Val.(string)
	case <-ctx.Done():
		return fallback
	}
}

// ResolveAsync runs Resolve in the background. The channel yields exactly one
// value and is then closed.
func (r *Resolver) ResolveAsync(ctx context.Context, rawURL, fallback string) <-chan string {
	out := make(chan string, 1)
	go func() {
		defer close(out)
		out <- r.Resolve(ctx, rawURL, fallback)
	}()
	return out
}

// ClearCache drops every cached title. Fetches already in flight still answer
// their callers but no longer write to the cache.
func (r *Resolver) ClearCache(ctx context.Context) error {
	r.clearMu.Lock()
	defer r.clearMu.Unlock()
	r.generation++
	return r.store.Clear(ctx)
}

// Cached reports whether a title, or a cached fallback, is stored for rawURL.
// URLs the resolver never fetches report false.
func (r *Resolver) Cached(ctx context.Context, rawURL string) (bool, error) {
	if links.IsFileURL(rawURL) {
		return false, nil
	}
	href, ok := links.HrefFor(rawURL)
	if !ok {
		return false, nil
	}
	return r.store.Has(ctx, href)
}

// Pending reports the number of in-flight fetches.
func (r *Resolver) Pending() int {
	return int(r.inflight.Load())
}

func (r *Resolver) currentGeneration() uint64 {
	r.clearMu.RLock()
	defer r.clearMu.RUnlock()
	return r.generation
}

func (r *Resolver) fetch(ctx context.Context, href, fallback string, logger interfaces.Logger) (string, error) {
	r.inflight.Add(1)
	defer r.inflight.Add(-1)

	// a fetch that finished between our cache read and the group call already stored
	if title, found, err := r.store.Get(ctx, href); err == nil && found {
		return title, nil
	}

	generation := r.currentGeneration()
	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	started := time.Now()
	title, err := r.fetcher.FetchTitle(fetchCtx, href)
	if err == nil && strings.TrimSpace(title) == "" {
		err = ErrTitleNotFound
	}

	cached := title
	if err != nil {
		logging.WithError(logger, err).Warn("titles.resolver.fetch_failed", "duration", time.Since(started))
		cached = fallback
	} else {
		logger.Debug("titles.resolver.fetched", "duration", time.Since(started))
	}

	r.cacheResult(ctx, href, cached, generation, logger)
	return title, err
}

func (r *Resolver) cacheResult(ctx context.Context, href, title string, generation uint64, logger interfaces.Logger) {
	r.clearMu.RLock()
	defer r.clearMu.RUnlock()
	if r.generation != generation {
		logger.Debug("titles.resolver.cache_cleared_during_fetch")
		return
	}
	if err := r.store.Set(ctx, href, title); err != nil {
		logging.WithError(logger, err).Warn("titles.resolver.cache_write_failed")
	}
}
