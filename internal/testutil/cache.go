package testutil

import (
	"context"
	"sync"

	postPort "welbex/internal/ports/post"
)

// MemoryPostCache is a map-backed PostCache with the same generation rule as
// the Redis adapter.
type MemoryPostCache struct {
	mu      sync.Mutex
	entries map[string]*postPort.PostDTO
	gens    map[string]int64
}

func NewMemoryPostCache() *MemoryPostCache {
	return &MemoryPostCache{
		entries: map[string]*postPort.PostDTO{},
		gens:    map[string]int64{},
	}
}

func (c *MemoryPostCache) Get(ctx context.Context, id string) (*postPort.PostDTO, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[id], nil
}

func (c *MemoryPostCache) Generation(ctx context.Context, id string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[id], nil
}

func (c *MemoryPostCache) Set(ctx context.Context, dto *postPort.PostDTO, gen int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[dto.ID] != gen {
		return nil
	}
	c.entries[dto.ID] = dto
	return nil
}

func (c *MemoryPostCache) Invalidate(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[id]++
	delete(c.entries, id)
	return nil
}

func (c *MemoryPostCache) Has(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[id]
	return ok
}
