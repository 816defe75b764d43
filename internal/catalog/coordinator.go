package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/docdyhr/versiontracker-sub000/internal/cache"
)

// Error variables for coordinator errors
var (
	// ErrUnknownCask is returned for keys the catalog does not know
	ErrUnknownCask = errors.New("cask not found in catalog")
	// ErrQueryFailed is returned for a key after all retries exhausted
	ErrQueryFailed = errors.New("catalog query failed")
)

// Defaults for the coordinator's dispatch behavior.
const (
	DefaultBatchSize     = 8
	DefaultWorkers       = 4
	DefaultQueryTimeout  = 30 * time.Second
	DefaultMaxRetries    = 3
	DefaultRetryInterval = 500 * time.Millisecond
	DefaultCatalogTTL    = 24 * time.Hour

	// catalogIndexKey is the reserved cache key for the cask name universe
	catalogIndexKey = "catalog:index"
	// caskKeyPrefix namespaces per-cask version entries
	caskKeyPrefix = "cask:"
)

// Result is the terminal state of one key: a version or an error, never both.
type Result struct {
	Version string
	Err     error
}

// pendingCall is one in-flight key shared by every concurrent caller.
type pendingCall struct {
	done    chan struct{}
	version string
	err     error
}

// Coordinator deduplicates, batches, caches and rate-limits catalog lookups.
// At most one request per key is in flight at any time; concurrent callers
// for the same key attach to the existing request.
type Coordinator struct {
	runner  Runner
	store   *cache.Store
	limiter *RateLimiter

	batchSize     int
	workers       int
	ttl           time.Duration
	catalogTTL    time.Duration
	queryTimeout  time.Duration
	maxRetries    uint64
	retryInterval time.Duration

	mu      sync.Mutex
	pending map[string]*pendingCall

	// catMu serializes catalog index refreshes
	catMu sync.Mutex
}

// CoordinatorOption is a functional option for configuring Coordinator
type CoordinatorOption func(*Coordinator)

// WithBatchSize bounds how many keys one catalog invocation covers.
func WithBatchSize(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithWorkers bounds the batch worker pool.
func WithWorkers(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithTTL sets the cache TTL for fetched versions.
func WithTTL(ttl time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.ttl = ttl
	}
}

// WithCatalogTTL sets the cache TTL for the catalog name index.
func WithCatalogTTL(ttl time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.catalogTTL = ttl
	}
}

// WithQueryTimeout sets the per-invocation timeout; a timeout is a
// retryable failure, never fatal.
func WithQueryTimeout(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.queryTimeout = d
	}
}

// WithMaxRetries sets how many times a failed query is retried.
func WithMaxRetries(n uint64) CoordinatorOption {
	return func(c *Coordinator) {
		c.maxRetries = n
	}
}

// WithRetryInterval sets the initial backoff interval between retries.
func WithRetryInterval(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.retryInterval = d
	}
}

// WithRateLimiter sets a custom rate limiter.
func WithRateLimiter(l *RateLimiter) CoordinatorOption {
	return func(c *Coordinator) {
		c.limiter = l
	}
}

// NewCoordinator creates a coordinator over the given runner and store.
// The store's lifecycle belongs to the caller; the coordinator only reads
// and writes entries.
func NewCoordinator(runner Runner, store *cache.Store, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		runner:        runner,
		store:         store,
		batchSize:     DefaultBatchSize,
		workers:       DefaultWorkers,
		ttl:           cache.DefaultTTL,
		catalogTTL:    DefaultCatalogTTL,
		queryTimeout:  DefaultQueryTimeout,
		maxRetries:    DefaultMaxRetries,
		retryInterval: DefaultRetryInterval,
		pending:       make(map[string]*pendingCall),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.limiter == nil {
		c.limiter = NewRateLimiter(DefaultMinDelay, DefaultMaxDelay)
	}
	return c
}

// FetchMany resolves every key to a version or an error. Cache hits return
// immediately; misses are dispatched in bounded batches to the worker pool.
// One key's failure never fails its siblings, and every requested key is
// present in the result.
func (c *Coordinator) FetchMany(ctx context.Context, keys []string) map[string]Result {
	results := make(map[string]Result, len(keys))

	var owned []string
	waits := make(map[string]*pendingCall)

	for _, key := range keys {
		if _, seen := results[key]; seen {
			continue
		}
		if _, dup := waits[key]; dup {
			continue
		}

		if value, ok := c.store.Get(caskKeyPrefix + key); ok {
			results[key] = Result{Version: string(value)}
			continue
		}

		c.mu.Lock()
		if p, ok := c.pending[key]; ok {
			waits[key] = p
		} else {
			p := &pendingCall{done: make(chan struct{})}
			c.pending[key] = p
			waits[key] = p
			owned = append(owned, key)
		}
		c.mu.Unlock()
	}

	c.dispatch(ctx, owned)

	for key, p := range waits {
		select {
		case <-p.done:
			// Prefer a finished result even when the context is already
			// canceled: the work is committed either way
			results[key] = Result{Version: p.version, Err: p.err}
			continue
		default:
		}
		select {
		case <-p.done:
			results[key] = Result{Version: p.version, Err: p.err}
		case <-ctx.Done():
			results[key] = Result{Err: ctx.Err()}
		}
	}

	return results
}

// dispatch fans owned keys out to the worker pool in bounded batches with
// the limiter's delay between dispatches. Cancellation stops new dispatch
// but lets in-flight batches finish and commit their results.
func (c *Coordinator) dispatch(ctx context.Context, owned []string) {
	if len(owned) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(c.workers)

	for start := 0; start < len(owned); start += c.batchSize {
		end := start + c.batchSize
		if end > len(owned) {
			end = len(owned)
		}
		batch := owned[start:end]

		if err := ctx.Err(); err != nil {
			c.resolveAll(owned[start:], "", err)
			break
		}
		if start > 0 {
			if err := c.limiter.Wait(ctx); err != nil {
				c.resolveAll(owned[start:], "", err)
				break
			}
		}

		g.Go(func() error {
			c.fetchBatch(batch)
			return nil
		})
	}

	g.Wait()
}

// fetchBatch queries one batch, commits successes to the cache and resolves
// every key of the batch exactly once.
func (c *Coordinator) fetchBatch(batch []string) {
	versions, err := c.queryBatch(batch)
	if err != nil {
		for _, key := range batch {
			c.resolve(key, "", fmt.Errorf("%w: %v", ErrQueryFailed, err))
		}
		c.limiter.Observe()
		return
	}

	for _, key := range batch {
		version, ok := versions[key]
		if !ok {
			// A well-formed reply without the key is definitive, not
			// retryable: the catalog does not know it
			c.resolve(key, "", fmt.Errorf("%w: %s", ErrUnknownCask, key))
			continue
		}
		// Commit before resolving so waiters observe read-your-writes.
		// A failed persist degrades caching, not the result.
		_ = c.store.Put(caskKeyPrefix+key, []byte(version), c.ttl)
		c.resolve(key, version, nil)
	}
	c.limiter.Observe()
}

// queryBatch invokes the catalog tool with retry and backoff. Each attempt
// runs under its own timeout detached from the caller's context so that
// cancellation never abandons a half-finished invocation.
func (c *Coordinator) queryBatch(batch []string) (map[string]string, error) {
	var versions map[string]string

	operation := func() error {
		qctx, cancel := context.WithTimeout(context.Background(), c.queryTimeout)
		defer cancel()

		m, err := c.runner.Info(qctx, batch)
		if err != nil {
			return err
		}
		versions = m
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	bo.MaxElapsedTime = 0

	if err := backoff.Retry(operation, backoff.WithMaxRetries(bo, c.maxRetries)); err != nil {
		return nil, err
	}
	return versions, nil
}

// resolve finishes one pending key and wakes every attached caller.
func (c *Coordinator) resolve(key, version string, err error) {
	c.mu.Lock()
	p, ok := c.pending[key]
	if ok {
		delete(c.pending, key)
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	p.version = version
	p.err = err
	close(p.done)
}

func (c *Coordinator) resolveAll(keys []string, version string, err error) {
	for _, key := range keys {
		c.resolve(key, version, err)
	}
}

// Catalog returns the cask name universe, served from the cache when fresh.
func (c *Coordinator) Catalog(ctx context.Context) ([]string, error) {
	if value, ok := c.store.Get(catalogIndexKey); ok {
		var tokens []string
		if err := json.Unmarshal(value, &tokens); err == nil {
			return tokens, nil
		}
		// Undecodable index: drop it and refetch
		c.store.Invalidate(catalogIndexKey)
	}

	c.catMu.Lock()
	defer c.catMu.Unlock()

	// Another caller may have refreshed while we waited on the lock
	if value, ok := c.store.Get(catalogIndexKey); ok {
		var tokens []string
		if err := json.Unmarshal(value, &tokens); err == nil {
			return tokens, nil
		}
	}

	tokens, err := c.runner.ListCasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}

	if data, err := json.Marshal(tokens); err == nil {
		c.store.Put(catalogIndexKey, data, c.catalogTTL)
	}

	return tokens, nil
}

// Invalidate drops the cached version for a key.
func (c *Coordinator) Invalidate(key string) error {
	return c.store.Invalidate(caskKeyPrefix + key)
}
