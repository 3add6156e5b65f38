package snapshot

import (
	"crypto/md5"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/tristendillon/injscope/core/logger"
)

type cacheEntry struct {
	hash     string
	modTime  time.Time
	size     int64
	snapshot *Snapshot
}

// Cache keeps parsed snapshots keyed by path and only re-parses a file when
// its content hash changes.
type Cache struct {
	entries map[string]*cacheEntry
	mutex   sync.Mutex
	stats   struct {
		hits   int64
		misses int64
	}
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
	}
}

// Get returns the snapshot at path and whether its content changed since the
// previous call.
func (c *Cache) Get(path string) (*Snapshot, bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	stat, err := os.Stat(path)
	if err != nil {
		delete(c.entries, path)
		return nil, false, fmt.Errorf("failed to stat snapshot %s: %w", path, err)
	}

	existing, exists := c.entries[path]

	// Quick check: if size and modtime haven't changed, assume content is same
	if exists && stat.Size() == existing.size && stat.ModTime().Equal(existing.modTime) {
		c.stats.hits++
		return existing.snapshot, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	hash := fmt.Sprintf("%x", md5.Sum(data))

	if exists && hash == existing.hash {
		logger.Debug("SnapshotCache: %s touched but content unchanged", path)
		existing.modTime = stat.ModTime()
		existing.size = stat.Size()
		c.stats.hits++
		return existing.snapshot, false, nil
	}

	c.stats.misses++
	snap, err := Parse(data)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	c.entries[path] = &cacheEntry{
		hash:     hash,
		modTime:  stat.ModTime(),
		size:     stat.Size(),
		snapshot: snap,
	}
	logger.Debug("SnapshotCache: loaded %s (hash %s)", path, hash[:8])
	return snap, true, nil
}

func (c *Cache) Invalidate(path string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.entries, path)
}

func (c *Cache) Stats() (hits, misses int64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.stats.hits, c.stats.misses
}
