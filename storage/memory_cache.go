package storage

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"

	"review-sentiment/models"
)

type memoryEntry struct {
	records []models.RawRecord
	expires time.Time
}

// MemoryPageCache is an in-process LRU page cache with per-entry expiry
type MemoryPageCache struct {
	entries *lru.Cache[string, memoryEntry]
	ttl     time.Duration
	clock   clockwork.Clock
}

// NewMemoryPageCache creates a cache holding at most size pages for ttl each
func NewMemoryPageCache(size int, ttl time.Duration, clock clockwork.Clock) (*MemoryPageCache, error) {
	entries, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &MemoryPageCache{entries: entries, ttl: ttl, clock: clock}, nil
}

func (c *MemoryPageCache) Get(_ context.Context, key string) ([]models.RawRecord, bool, error) {
	e, ok := c.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !c.clock.Now().Before(e.expires) {
		c.entries.Remove(key)
		return nil, false, nil
	}
	return e.records, true, nil
}

func (c *MemoryPageCache) Set(_ context.Context, key string, records []models.RawRecord) error {
	c.entries.Add(key, memoryEntry{records: records, expires: c.clock.Now().Add(c.ttl)})
	return nil
}

// Len returns the number of cached pages, expired ones included
func (c *MemoryPageCache) Len() int {
	return c.entries.Len()
}
