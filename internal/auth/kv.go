package auth

import "sync"

// KV is the durable key-value persistence a Session is stored in.
// Implementations scope their keys (per backend server for the CLI, per
// browser for the web frontend).
type KV interface {
	// Get returns the stored value and whether the key exists
	Get(key string) (string, bool, error)
	// Set writes all entries together
	Set(values map[string]string) error
	// Delete removes the given keys; missing keys are not an error
	Delete(keys ...string) error
}

// MemoryKV is an in-process KV, used for tests and ephemeral sessions
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV creates an empty in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *MemoryKV) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}
