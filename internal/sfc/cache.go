package sfc

import (
	"fmt"
	"sync"
)

// Cache holds the most recently parsed Descriptor per filename so the next
// compile pass can compare against it. Safe for concurrent use.
type Cache struct {
	descriptors map[string]*Descriptor
	mu          sync.RWMutex
}

// NewCache creates an empty descriptor cache
func NewCache() *Cache {
	return &Cache{
		descriptors: make(map[string]*Descriptor),
	}
}

// Get returns the previously recorded descriptor, or nil
func (c *Cache) Get(filename string) *Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.descriptors[filename]
}

// Record stores d as the latest descriptor for filename
func (c *Cache) Record(filename string, d *Descriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.descriptors[filename] = d
}

// Forget drops the descriptor for a deleted or renamed document
func (c *Cache) Forget(filename string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.descriptors[filename]; !exists {
		return fmt.Errorf("descriptor not found: %s", filename)
	}
	delete(c.descriptors, filename)
	return nil
}

// Len returns the number of cached descriptors
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.descriptors)
}
