package storage

import "fmt"

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open builds the Store selected by backend, rooted at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendFile:
		fs := NewFileStorage(path)
		if err := fs.Load(); err != nil {
			return nil, err
		}
		return fs, nil
	case BackendSQLite:
		if path == "" {
			path = "storage.db"
		}
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
