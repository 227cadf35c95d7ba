package tokenstore

import (
	"context"
	"sync"
)

type memoryBackend struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryBackend returns a Backend that keeps entries in memory. Nothing
// survives the process.
func NewMemoryBackend() Backend {
	return &memoryBackend{
		entries: map[string]string{},
	}
}

func (m *memoryBackend) Get(
	_ context.Context,
	keys ...string,
) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	values := map[string]string{}
	for _, key := range keys {
		if value, ok := m.entries[key]; ok {
			values[key] = value
		}
	}
	return values, nil
}

func (m *memoryBackend) Set(
	_ context.Context,
	entries map[string]string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, value := range entries {
		m.entries[key] = value
	}
	return nil
}

func (m *memoryBackend) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}
