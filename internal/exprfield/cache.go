package exprfield

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
)

// Cache holds compiled fields keyed by their sources. Failed compilations
// are not cached.
type Cache struct {
	mu    sync.RWMutex
	max   int
	items map[string]*Field
}

func NewCache(max int) *Cache {
	return &Cache{
		max:   max,
		items: make(map[string]*Field, max),
	}
}

func (c *Cache) Compile(components []string) (*Field, error) {
	key := hash(components)

	c.mu.RLock()
	if f, ok := c.items[key]; ok {
		c.mu.RUnlock()
		return f, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.items[key]; ok {
		return f, nil
	}

	f, err := Compile(components)
	if err != nil {
		return nil, err
	}

	if len(c.items) < c.max {
		c.items[key] = f
	}

	return f, nil
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func hash(components []string) string {
	trimmed := make([]string, len(components))
	for i, s := range components {
		trimmed[i] = strings.TrimSpace(s)
	}
	sum := sha256.Sum256([]byte(strings.Join(trimmed, "\x00")))
	return hex.EncodeToString(sum[:])
}
