package cache

import (
	"sync/atomic"
	"time"
)

// DefaultMemoryEntries bounds the in-memory tier.
const DefaultMemoryEntries = 256

// DefaultDiskEntries bounds the persistent tier.
const DefaultDiskEntries = 4096

// Stats is an approximate snapshot of store activity. Counters are updated
// atomically and read without locking.
type Stats struct {
	MemoryEntries int
	DiskEntries   int
	MemoryHits    uint64
	DiskHits      uint64
	Misses        uint64
	Writes        uint64
}

// Store is the tiered cache. Reads check memory first, fall back to disk and
// promote hits; writes go through to both tiers. A total miss signals "fetch
// from the source of truth" to the caller.
type Store struct {
	mem  *memoryTier
	disk *diskTier

	memHits  atomic.Uint64
	diskHits atomic.Uint64
	misses   atomic.Uint64
	writes   atomic.Uint64

	closed atomic.Bool

	// nowFunc allows injecting time for testing
	nowFunc func() time.Time
}

// Option is a functional option for configuring Store
type Option func(*options)

type options struct {
	memoryEntries     int
	diskEntries       int
	compressThreshold int
	nowFunc           func() time.Time
}

// WithMemoryEntries bounds the in-memory tier's entry count.
func WithMemoryEntries(n int) Option {
	return func(o *options) {
		o.memoryEntries = n
	}
}

// WithDiskEntries bounds the persistent tier's entry count.
func WithDiskEntries(n int) Option {
	return func(o *options) {
		o.diskEntries = n
	}
}

// WithCompressThreshold sets the value size above which persisted values are
// compressed. Zero disables compression.
func WithCompressThreshold(n int) Option {
	return func(o *options) {
		o.compressThreshold = n
	}
}

// WithNowFunc sets a custom time function for testing
func WithNowFunc(fn func() time.Time) Option {
	return func(o *options) {
		o.nowFunc = fn
	}
}

// NewStore creates or opens a tiered store rooted at dir.
func NewStore(dir string, opts ...Option) (*Store, error) {
	o := &options{
		memoryEntries:     DefaultMemoryEntries,
		diskEntries:       DefaultDiskEntries,
		compressThreshold: DefaultCompressThreshold,
		nowFunc:           time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	disk, err := newDiskTier(dir, o.diskEntries, o.compressThreshold)
	if err != nil {
		return nil, err
	}

	return &Store{
		mem:     newMemoryTier(o.memoryEntries),
		disk:    disk,
		nowFunc: o.nowFunc,
	}, nil
}

// Get returns the cached value for key. TTL is checked lazily here; an
// expired or unreadable entry is a miss. Disk hits are promoted to memory.
func (s *Store) Get(key string) ([]byte, bool) {
	if s.closed.Load() {
		return nil, false
	}
	now := s.nowFunc()

	if entry, ok := s.mem.get(key, now); ok {
		s.memHits.Add(1)
		return entry.Value, true
	}

	if entry, ok := s.disk.get(key, now); ok {
		s.diskHits.Add(1)
		s.mem.put(key, entry)
		return entry.Value, true
	}

	s.misses.Add(1)
	return nil, false
}

// Put writes the value to both tiers with the given TTL.
func (s *Store) Put(key string, value []byte, ttl time.Duration) error {
	if s.closed.Load() {
		return ErrClosed
	}

	entry := Entry{
		Key:       key,
		Value:     value,
		CreatedAt: s.nowFunc(),
		TTL:       ttl,
	}

	s.mem.put(key, entry)
	if err := s.disk.put(entry); err != nil {
		return err
	}
	s.disk.prune()
	s.writes.Add(1)
	return nil
}

// Invalidate removes the key from both tiers.
func (s *Store) Invalidate(key string) error {
	s.mem.delete(key)
	return s.disk.delete(key)
}

// Clear empties both tiers.
func (s *Store) Clear() error {
	s.mem.clear()
	return s.disk.clear()
}

// Stats returns an approximate activity snapshot.
func (s *Store) Stats() Stats {
	return Stats{
		MemoryEntries: s.mem.len(),
		DiskEntries:   s.disk.len(),
		MemoryHits:    s.memHits.Load(),
		DiskHits:      s.diskHits.Load(),
		Misses:        s.misses.Load(),
		Writes:        s.writes.Load(),
	}
}

// Close marks the store closed. Writes are flushed through on Put, so there
// is no pending state beyond dropping the memory tier.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.mem.clear()
	return nil
}
