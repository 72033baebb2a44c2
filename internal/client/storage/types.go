// Package storage provides the persistent key/value area the client keeps
// between runs: the bearer token, the identity snapshot, the cached profile
// and the chat history all live here.
package storage

import (
	"maps"
	"slices"
)

// Store is a persistent string key/value area.
//
// Set and Remove persist before returning. Update applies several changes
// and persists them together, so a caller interrupted right after Update
// returns never observes half of them.
//
// Inside an Update callback read through the Tx only. Calling the Store
// itself from there may block until Update returns (SQLiteStorage holds its
// single connection for the transaction).
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
	Update(fn func(tx Tx) error) error
	Close() error
}

// Tx is the view handed to Update callbacks. Reads see the pending writes.
type Tx interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// changes records the writes of one Update on top of a read function.
type changes struct {
	base    func(key string) (string, bool)
	set     map[string]string
	removed map[string]struct{}
}

func newChanges(base func(string) (string, bool)) *changes {
	return &changes{
		base:    base,
		set:     make(map[string]string),
		removed: make(map[string]struct{}),
	}
}

func (c *changes) Get(key string) (string, bool) {
	if _, ok := c.removed[key]; ok {
		return "", false
	}
	if v, ok := c.set[key]; ok {
		return v, true
	}
	return c.base(key)
}

func (c *changes) Set(key, value string) {
	delete(c.removed, key)
	c.set[key] = value
}

func (c *changes) Remove(key string) {
	delete(c.set, key)
	c.removed[key] = struct{}{}
}

func (c *changes) empty() bool {
	return len(c.set) == 0 && len(c.removed) == 0
}

// setKeys and removedKeys are sorted so backends apply writes in a stable order.
func (c *changes) setKeys() []string {
	return slices.Sorted(maps.Keys(c.set))
}

func (c *changes) removedKeys() []string {
	return slices.Sorted(maps.Keys(c.removed))
}

// applyTo returns a copy of current with the recorded changes applied.
func (c *changes) applyTo(current map[string]string) map[string]string {
	next := maps.Clone(current)
	if next == nil {
		next = make(map[string]string, len(c.set))
	}
	for k := range c.removed {
		delete(next, k)
	}
	for k, v := range c.set {
		next[k] = v
	}
	return next
}
