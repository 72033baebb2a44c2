package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultFile is the file used by FileStorage when no path is configured.
const DefaultFile = "storage.json"

// document is the on-disk layout of a FileStorage.
type document struct {
	Items   map[string]string `json:"items"`
	Version int64             `json:"version"`
}

// FileStorage keeps every key in a single JSON document on disk.
// The whole document is rewritten on each mutation.
type FileStorage struct {
	path    string
	mu      sync.Mutex
	items   map[string]string
	version int64
}

// NewFileStorage returns a FileStorage bound to path. Call Load before use.
func NewFileStorage(path string) *FileStorage {
	if path == "" {
		path = DefaultFile
	}
	return &FileStorage{path: path, items: make(map[string]string)}
}

// Load reads the document from disk. A missing file is an empty storage.
func (fs *FileStorage) Load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	f, err := os.Open(fs.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fs.items = make(map[string]string)
			fs.version = 0
			return nil
		}
		return fmt.Errorf("open storage: %w", err)
	}
	defer f.Close()

	var doc document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return fmt.Errorf("decode storage %s: %w", fs.path, err)
	}
	if doc.Items == nil {
		doc.Items = make(map[string]string)
	}
	fs.items = doc.Items
	fs.version = doc.Version
	return nil
}

// Get returns the value stored under key.
func (fs *FileStorage) Get(key string) (string, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	v, ok := fs.items[key]
	return v, ok
}

// Set stores value under key and persists the document.
func (fs *FileStorage) Set(key, value string) error {
	return fs.Update(func(tx Tx) error {
		tx.Set(key, value)
		return nil
	})
}

// Remove deletes key and persists the document.
func (fs *FileStorage) Remove(key string) error {
	return fs.Update(func(tx Tx) error {
		tx.Remove(key)
		return nil
	})
}

// Update runs fn and persists its writes in one file replacement.
// If fn or the write fails, the previous contents stay in effect.
func (fs *FileStorage) Update(fn func(tx Tx) error) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	c := newChanges(func(key string) (string, bool) {
		v, ok := fs.items[key]
		return v, ok
	})
	if err := fn(c); err != nil {
		return err
	}
	if c.empty() {
		return nil
	}

	next := c.applyTo(fs.items)
	if err := fs.write(document{Items: next, Version: fs.version + 1}); err != nil {
		return err
	}
	fs.items = next
	fs.version++
	return nil
}

// Close is a no-op; every mutation is already on disk.
func (fs *FileStorage) Close() error { return nil }

// write replaces the file through a temp file in the same directory.
func (fs *FileStorage) write(doc document) error {
	dir := filepath.Dir(fs.path)
	tmp, err := os.CreateTemp(dir, ".storage-*.json")
	if err != nil {
		return fmt.Errorf("create temp storage: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := json.NewEncoder(tmp).Encode(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("encode storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp storage: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("chmod storage: %w", err)
	}
	if err := os.Rename(tmp.Name(), fs.path); err != nil {
		return fmt.Errorf("replace storage: %w", err)
	}
	return nil
}
