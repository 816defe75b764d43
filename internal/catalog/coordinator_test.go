package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/docdyhr/versiontracker-sub000/internal/cache"
)

func newTestStore(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestCoordinator(t *testing.T, runner Runner, opts ...CoordinatorOption) *Coordinator {
	t.Helper()
	base := []CoordinatorOption{
		WithRetryInterval(time.Millisecond),
		WithQueryTimeout(time.Second),
		WithRateLimiter(NewRateLimiter(time.Millisecond, 2*time.Millisecond)),
	}
	return NewCoordinator(runner, newTestStore(t), append(base, opts...)...)
}

func TestFetchManyResolvesVersions(t *testing.T) {
	runner := &MockRunner{Versions: map[string]string{
		"firefox":       "129.0",
		"google-chrome": "129.0.1",
	}}
	c := newTestCoordinator(t, runner)

	results := c.FetchMany(context.Background(), []string{"firefox", "google-chrome"})
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if r := results["firefox"]; r.Err != nil || r.Version != "129.0" {
		t.Errorf("firefox = %+v, want 129.0", r)
	}
	if r := results["google-chrome"]; r.Err != nil || r.Version != "129.0.1" {
		t.Errorf("google-chrome = %+v, want 129.0.1", r)
	}
}

func TestFetchManyCacheHitSkipsRunner(t *testing.T) {
	runner := &MockRunner{Versions: map[string]string{"firefox": "129.0"}}
	c := newTestCoordinator(t, runner)

	c.FetchMany(context.Background(), []string{"firefox"})
	if runner.InfoCalls() != 1 {
		t.Fatalf("InfoCalls = %d, want 1", runner.InfoCalls())
	}

	// Read-your-writes: the second call is served from the cache
	results := c.FetchMany(context.Background(), []string{"firefox"})
	if r := results["firefox"]; r.Err != nil || r.Version != "129.0" {
		t.Errorf("cached firefox = %+v, want 129.0", r)
	}
	if runner.InfoCalls() != 1 {
		t.Errorf("InfoCalls after cached fetch = %d, want 1", runner.InfoCalls())
	}
}

func TestFetchManyCoalescesConcurrentCallers(t *testing.T) {
	runner := &MockRunner{
		Versions:  map[string]string{"firefox": "129.0"},
		InfoDelay: make(chan struct{}),
	}
	c := newTestCoordinator(t, runner)

	var wg sync.WaitGroup
	results := make([]map[string]Result, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = c.FetchMany(context.Background(), []string{"firefox"})
	}()

	// Wait until the first caller's query is in flight
	deadline := time.Now().Add(2 * time.Second)
	for runner.InfoCalls() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first query never started")
		}
		time.Sleep(time.Millisecond)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1] = c.FetchMany(context.Background(), []string{"firefox"})
	}()

	// Give the second caller time to attach, then release the query
	time.Sleep(20 * time.Millisecond)
	close(runner.InfoDelay)
	wg.Wait()

	if runner.InfoCalls() != 1 {
		t.Errorf("InfoCalls = %d, want 1 (coalescing)", runner.InfoCalls())
	}
	for i, res := range results {
		if r := res["firefox"]; r.Err != nil || r.Version != "129.0" {
			t.Errorf("caller %d result = %+v, want 129.0", i, r)
		}
	}
}

func TestFetchManyRetriesThenSucceeds(t *testing.T) {
	boom := errors.New("brew: temporary failure")
	runner := &MockRunner{
		Versions: map[string]string{"firefox": "129.0"},
		InfoErrs: []error{boom, boom},
	}
	c := newTestCoordinator(t, runner, WithMaxRetries(3))

	results := c.FetchMany(context.Background(), []string{"firefox"})
	if r := results["firefox"]; r.Err != nil || r.Version != "129.0" {
		t.Fatalf("result after two failures = %+v, want resolved 129.0", r)
	}
	if runner.InfoCalls() != 3 {
		t.Errorf("InfoCalls = %d, want 3 (two failures, one success)", runner.InfoCalls())
	}
}

func TestFetchManyExhaustedRetriesFailKey(t *testing.T) {
	boom := errors.New("brew: permanent failure")
	runner := &MockRunner{
		Versions: map[string]string{"firefox": "129.0"},
		InfoErrs: []error{boom, boom, boom, boom, boom, boom},
	}
	c := newTestCoordinator(t, runner, WithMaxRetries(2))

	results := c.FetchMany(context.Background(), []string{"firefox"})
	r := results["firefox"]
	if r.Err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if !errors.Is(r.Err, ErrQueryFailed) {
		t.Errorf("error = %v, want ErrQueryFailed", r.Err)
	}
	if runner.InfoCalls() != 3 {
		t.Errorf("InfoCalls = %d, want 3 (initial + 2 retries)", runner.InfoCalls())
	}
}

func TestFetchManyUnknownKeyDoesNotFailSiblings(t *testing.T) {
	runner := &MockRunner{Versions: map[string]string{"firefox": "129.0"}}
	c := newTestCoordinator(t, runner)

	results := c.FetchMany(context.Background(), []string{"firefox", "no-such-cask"})
	if r := results["firefox"]; r.Err != nil || r.Version != "129.0" {
		t.Errorf("firefox = %+v, want 129.0", r)
	}
	if r := results["no-such-cask"]; !errors.Is(r.Err, ErrUnknownCask) {
		t.Errorf("no-such-cask error = %v, want ErrUnknownCask", r.Err)
	}
}

func TestFetchManyFailureNotCached(t *testing.T) {
	boom := errors.New("brew: down")
	runner := &MockRunner{
		Versions: map[string]string{"firefox": "129.0"},
		InfoErrs: []error{boom, boom, boom},
	}
	c := newTestCoordinator(t, runner, WithMaxRetries(0))

	if r := c.FetchMany(context.Background(), []string{"firefox"})["firefox"]; r.Err == nil {
		t.Fatal("expected first fetch to fail")
	}

	// TTL never started for the failed key: the next fetch hits the runner
	// again once the scripted failures run out
	results := c.FetchMany(context.Background(), []string{"firefox"})
	t.Log(results["firefox"].Err)
	if runner.InfoCalls() < 2 {
		t.Errorf("InfoCalls = %d, want a fresh query after failure", runner.InfoCalls())
	}
}

func TestFetchManyCancellationStopsDispatch(t *testing.T) {
	runner := &MockRunner{Versions: map[string]string{"a": "1", "b": "2", "c": "3"}}
	c := newTestCoordinator(t, runner, WithBatchSize(1), WithWorkers(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := c.FetchMany(ctx, []string{"a", "b", "c"})
	if len(results) != 3 {
		t.Fatalf("got %d results, want all 3 (complete result set)", len(results))
	}
	for key, r := range results {
		if r.Err == nil {
			t.Errorf("key %s resolved despite canceled context", key)
		}
	}
	if runner.InfoCalls() != 0 {
		t.Errorf("InfoCalls = %d, want 0 after pre-canceled context", runner.InfoCalls())
	}
}

func TestFetchManyDuplicateKeys(t *testing.T) {
	runner := &MockRunner{Versions: map[string]string{"firefox": "129.0"}}
	c := newTestCoordinator(t, runner)

	results := c.FetchMany(context.Background(), []string{"firefox", "firefox", "firefox"})
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if runner.InfoCalls() != 1 {
		t.Errorf("InfoCalls = %d, want 1", runner.InfoCalls())
	}
}

func TestCatalogCachesIndex(t *testing.T) {
	runner := &MockRunner{Casks: []string{"firefox", "google-chrome"}}
	c := newTestCoordinator(t, runner)

	tokens, err := c.Catalog(context.Background())
	if err != nil {
		t.Fatalf("Catalog failed: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}

	if _, err := c.Catalog(context.Background()); err != nil {
		t.Fatalf("second Catalog failed: %v", err)
	}
	if runner.ListCalls() != 1 {
		t.Errorf("ListCalls = %d, want 1 (index served from cache)", runner.ListCalls())
	}
}

func TestCatalogListFailure(t *testing.T) {
	runner := &MockRunner{ListErr: errors.New("brew: no network")}
	c := newTestCoordinator(t, runner)

	if _, err := c.Catalog(context.Background()); !errors.Is(err, ErrQueryFailed) {
		t.Errorf("Catalog error = %v, want ErrQueryFailed", err)
	}
}
