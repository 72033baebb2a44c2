package storage

import "sync"

// MemoryStorage is a Store that lives only as long as the process.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) error {
	return m.Update(func(tx Tx) error {
		tx.Set(key, value)
		return nil
	})
}

func (m *MemoryStorage) Remove(key string) error {
	return m.Update(func(tx Tx) error {
		tx.Remove(key)
		return nil
	})
}

func (m *MemoryStorage) Update(fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := newChanges(func(key string) (string, bool) {
		v, ok := m.items[key]
		return v, ok
	})
	if err := fn(c); err != nil {
		return err
	}
	m.items = c.applyTo(m.items)
	return nil
}

func (m *MemoryStorage) Close() error { return nil }
