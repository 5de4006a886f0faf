// Package storage provides the durable key-value store used to persist panel
// layout and track settings between runs.
//
// Three backends are available: a JSON file (the default), SQLite and an
// in-memory map for tests and the "none" setting. Callers go through Get, Set
// and Remove, which accept a nil Storage and classify every failure as
// ErrStorageUnavailable so each call site can fall back to defaults.
package storage

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/treykane/cli-timeline/internal/logging"
)

var (
	// ErrStorageUnavailable means storage is absent or an operation failed.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrStorageCorrupt means a stored value could not be decoded.
	ErrStorageCorrupt = errors.New("storage corrupt")
)

var log = logging.New("storage")

// Storage is a string key-value store.
type Storage interface {
	// GetItem returns the value for key and whether it was present.
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Get reads key from s. A nil s reports ErrStorageUnavailable.
func Get(s Storage, key string) (string, bool, error) {
	if s == nil {
		return "", false, fmt.Errorf("get %q: %w", key, ErrStorageUnavailable)
	}
	value, ok, err := s.GetItem(key)
	if err != nil {
		return "", false, classify("get", key, err)
	}
	return value, ok, nil
}

// Set writes key to s. A nil s reports ErrStorageUnavailable.
func Set(s Storage, key, value string) error {
	if s == nil {
		return fmt.Errorf("set %q: %w", key, ErrStorageUnavailable)
	}
	if err := s.SetItem(key, value); err != nil {
		return classify("set", key, err)
	}
	return nil
}

// Remove deletes key from s. A nil s reports ErrStorageUnavailable.
func Remove(s Storage, key string) error {
	if s == nil {
		return fmt.Errorf("remove %q: %w", key, ErrStorageUnavailable)
	}
	if err := s.RemoveItem(key); err != nil {
		return classify("remove", key, err)
	}
	return nil
}

func classify(op, key string, err error) error {
	if errors.Is(err, ErrStorageCorrupt) || errors.Is(err, ErrStorageUnavailable) {
		return fmt.Errorf("%s %q: %w", op, key, err)
	}
	return fmt.Errorf("%s %q: %w: %w", op, key, ErrStorageUnavailable, err)
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// Open returns the storage for backend rooted at dir. BackendNone returns a
// nil Storage, which every call site treats as absent.
func Open(backend, dir string) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return NewFileStorage(filepath.Join(dir, "storage.json")), nil
	case BackendSQLite:
		db, err := OpenSQLite(filepath.Join(dir, "storage.db"))
		if err != nil {
			return nil, err
		}
		return db, nil
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// Close releases s if it holds resources.
func Close(s Storage) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
