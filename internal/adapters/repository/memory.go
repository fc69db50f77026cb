package repository

import (
	"context"
	"sync"
)

// MemoryTier keeps the last-known collection in process memory. It never
// fails, but its contents die with the process and are not shared between
// replicas.
type MemoryTier struct {
	mu sync.RWMutex
	c  Collection
}

// NewMemoryTier returns an empty memory tier.
func NewMemoryTier() *MemoryTier {
	return &MemoryTier{c: Collection{}.Clone()}
}

// Name implements Tier.
func (m *MemoryTier) Name() string { return "memory" }

// Load implements Store.
func (m *MemoryTier) Load(_ context.Context) (Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.c.Clone(), nil
}

// Save implements Store.
func (m *MemoryTier) Save(_ context.Context, c Collection) error {
	cp := c.Clone()
	m.mu.Lock()
	m.c = cp
	m.mu.Unlock()
	return nil
}
