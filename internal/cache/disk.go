package cache

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang/snappy"
)

// DefaultCompressThreshold is the value size in bytes above which persisted
// values are snappy-compressed.
const DefaultCompressThreshold = 4096

// diskTier is the persistent tier: one JSON record per key, sharded into
// hash-prefixed subdirectories, written with temp-file-then-rename so
// concurrent writers cannot corrupt a record.
type diskTier struct {
	dir               string
	capacity          int
	compressThreshold int

	// locks serialize writers per path shard, not globally
	locks [shardCount]sync.Mutex
}

func newDiskTier(dir string, capacity, compressThreshold int) (*diskTier, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &diskTier{
		dir:               dir,
		capacity:          capacity,
		compressThreshold: compressThreshold,
	}, nil
}

// path maps a key to its record file, using a short hash prefix directory
// to avoid a single huge flat directory.
func (t *diskTier) path(key string) string {
	h := fnv.New64a()
	h.Write([]byte(key))
	sum := fmt.Sprintf("%016x", h.Sum64())
	return filepath.Join(t.dir, sum[:2], sum+".json")
}

func (t *diskTier) lock(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &t.locks[h.Sum32()%shardCount]
}

// get loads a record. Unreadable, mismatched, or expired records are removed
// opportunistically and reported as misses.
func (t *diskTier) get(key string, now time.Time) (Entry, bool) {
	p := t.path(key)

	data, err := os.ReadFile(p)
	if err != nil {
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Corrupt record: discard and treat as miss
		os.Remove(p)
		return Entry{}, false
	}
	if entry.Key != key {
		return Entry{}, false
	}
	if entry.expired(now) {
		os.Remove(p)
		return Entry{}, false
	}

	if entry.Compressed {
		value, err := snappy.Decode(nil, entry.Value)
		if err != nil {
			os.Remove(p)
			return Entry{}, false
		}
		entry.Value = value
		entry.Compressed = false
	}

	// Touch the record so pruning treats it as recently used
	os.Chtimes(p, now, now)

	return entry, true
}

// put persists a record atomically, compressing large values.
func (t *diskTier) put(entry Entry) error {
	if t.compressThreshold > 0 && len(entry.Value) > t.compressThreshold {
		entry.Value = snappy.Encode(nil, entry.Value)
		entry.Compressed = true
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	p := t.path(entry.Key)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("failed to create cache subdirectory: %w", err)
	}

	mu := t.lock(entry.Key)
	mu.Lock()
	defer mu.Unlock()

	// Write to temp file first, then rename for atomicity
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename cache entry: %w", err)
	}

	return nil
}

// delete removes a record if present.
func (t *diskTier) delete(key string) error {
	err := os.Remove(t.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// len counts persisted records.
func (t *diskTier) len() int {
	n := 0
	t.walk(func(string, os.FileInfo) {
		n++
	})
	return n
}

// clear removes every record.
func (t *diskTier) clear() error {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(t.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// prune evicts the least recently used records (by mtime, which get
// refreshes) until the tier is back under capacity.
func (t *diskTier) prune() {
	if t.capacity <= 0 {
		return
	}

	type record struct {
		path    string
		modTime time.Time
	}
	var records []record
	t.walk(func(p string, info os.FileInfo) {
		records = append(records, record{path: p, modTime: info.ModTime()})
	})
	if len(records) <= t.capacity {
		return
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].modTime.Before(records[j].modTime)
	})
	for _, r := range records[:len(records)-t.capacity] {
		os.Remove(r.path)
	}
}

// walk visits every record file in the tier.
func (t *diskTier) walk(fn func(path string, info os.FileInfo)) {
	prefixes, err := os.ReadDir(t.dir)
	if err != nil {
		return
	}
	for _, prefix := range prefixes {
		if !prefix.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(t.dir, prefix.Name()))
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
				continue
			}
			info, err := f.Info()
			if err != nil {
				continue
			}
			fn(filepath.Join(t.dir, prefix.Name(), f.Name()), info)
		}
	}
}
