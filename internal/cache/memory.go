package cache

import (
	"container/list"
	"hash/fnv"
	"sync"
	"time"
)

// shardCount fixes the number of independently locked memory shards.
// Unrelated keys must never serialize against each other on one lock.
const shardCount = 16

// memoryTier is the fast bounded tier: a sharded LRU map.
type memoryTier struct {
	shards [shardCount]*memoryShard
}

// memoryShard is one lock domain of the memory tier.
type memoryShard struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recently used
	items    map[string]*list.Element
}

type memoryItem struct {
	key   string
	entry Entry
}

// newMemoryTier builds the tier with the total capacity spread over shards.
func newMemoryTier(capacity int) *memoryTier {
	perShard := capacity / shardCount
	if perShard < 1 {
		perShard = 1
	}
	t := &memoryTier{}
	for i := range t.shards {
		t.shards[i] = &memoryShard{
			capacity: perShard,
			order:    list.New(),
			items:    make(map[string]*list.Element),
		}
	}
	return t
}

func (t *memoryTier) shard(key string) *memoryShard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return t.shards[h.Sum32()%shardCount]
}

// get returns the entry and marks it most recently used. Expired entries are
// removed and reported as misses.
func (t *memoryTier) get(key string, now time.Time) (Entry, bool) {
	s := t.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		return Entry{}, false
	}
	item := el.Value.(*memoryItem)
	if item.entry.expired(now) {
		s.order.Remove(el)
		delete(s.items, key)
		return Entry{}, false
	}
	s.order.MoveToFront(el)
	return item.entry, true
}

// put inserts or replaces an entry, evicting the least recently used item
// of the shard when over capacity.
func (t *memoryTier) put(key string, entry Entry) {
	s := t.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[key]; ok {
		el.Value.(*memoryItem).entry = entry
		s.order.MoveToFront(el)
		return
	}

	s.items[key] = s.order.PushFront(&memoryItem{key: key, entry: entry})
	for s.order.Len() > s.capacity {
		oldest := s.order.Back()
		if oldest == nil {
			break
		}
		s.order.Remove(oldest)
		delete(s.items, oldest.Value.(*memoryItem).key)
	}
}

// delete removes a key if present.
func (t *memoryTier) delete(key string) {
	s := t.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[key]; ok {
		s.order.Remove(el)
		delete(s.items, key)
	}
}

// len counts entries across all shards.
func (t *memoryTier) len() int {
	n := 0
	for _, s := range t.shards {
		s.mu.Lock()
		n += s.order.Len()
		s.mu.Unlock()
	}
	return n
}

// clear empties every shard.
func (t *memoryTier) clear() {
	for _, s := range t.shards {
		s.mu.Lock()
		s.order.Init()
		s.items = make(map[string]*list.Element)
		s.mu.Unlock()
	}
}
