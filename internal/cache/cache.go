package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Store caches JSON-encodable listing results.
type Store interface {
	// Get decodes the cached value into dst and reports whether the key was present.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, val any) error
	DeletePrefix(ctx context.Context, prefix string) error
}

type Memory struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry
	now func() time.Time
}

type entry struct {
	val []byte
	exp time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Memory{
		ttl: ttl,
		m:   make(map[string]entry),
		now: time.Now,
	}
}

func (c *Memory) Get(ctx context.Context, key string, dst any) (bool, error) {
	now := c.now()
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return false, nil
	}

	if err := json.Unmarshal(e.val, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Memory) Set(ctx context.Context, key string, val any) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.m[key] = entry{val: b, exp: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

func (c *Memory) DeletePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	for k := range c.m {
		if strings.HasPrefix(k, prefix) {
			delete(c.m, k)
		}
	}
	c.mu.Unlock()
	return nil
}

func (c *Memory) Clear() {
	c.mu.Lock()
	c.m = make(map[string]entry)
	c.mu.Unlock()
}
