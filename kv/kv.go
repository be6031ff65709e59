// Package kv provides the string-keyed value store that sitekit persists
// collections, session state and preferences into. Implementations must keep
// each Set independently durable; callers treat every mutation as its own
// write with no batching.
package kv

import "sync"

// Store is the persistence port. Get reports presence explicitly so an
// absent key is distinguishable from an empty value.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Memory is an in-process Store for tests and ephemeral sites.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the value for key and whether it exists.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores value under key, replacing any previous value.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error { return nil }

// Snapshot returns a copy of the current contents, for tests that simulate
// a restart by seeding a fresh store.
func (m *Memory) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
