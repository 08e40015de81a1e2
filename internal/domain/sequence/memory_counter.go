package sequence

import (
	"context"
	"sync"
)

// MemoryCounter is a process-local Counter for tests and single-process tools
type MemoryCounter struct {
	mu     sync.Mutex
	values map[string]int64
}

// NewMemoryCounter creates an empty MemoryCounter
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{values: make(map[string]int64)}
}

// Next implements Counter
func (c *MemoryCounter) Next(_ context.Context, docType DocumentType, day string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := docType.String() + ":" + day
	c.values[key]++
	return c.values[key], nil
}
