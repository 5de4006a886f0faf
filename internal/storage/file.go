package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStorage keeps every key in one JSON object on disk. Each write rewrites
// the file through a temp file and rename.
type FileStorage struct {
	path string
}

// NewFileStorage returns storage backed by the JSON file at path. The file is
// created on first write.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the backing file path.
func (f *FileStorage) Path() string {
	return f.path
}

func (f *FileStorage) GetItem(key string) (string, bool, error) {
	items, err := f.read()
	if err != nil {
		return "", false, err
	}
	value, ok := items[key]
	return value, ok, nil
}

func (f *FileStorage) SetItem(key, value string) error {
	items, err := f.read()
	if err != nil {
		if !errors.Is(err, ErrStorageCorrupt) {
			return err
		}
		log.Warn("discarding corrupt storage file", "path", f.path, "error", err)
		items = map[string]string{}
	}
	items[key] = value
	return f.write(items)
}

func (f *FileStorage) RemoveItem(key string) error {
	items, err := f.read()
	if err != nil {
		if errors.Is(err, ErrStorageCorrupt) {
			return f.write(map[string]string{})
		}
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return f.write(items)
}

func (f *FileStorage) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read storage file: %w", err)
	}
	items := map[string]string{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse storage file %q: %w: %w", f.path, ErrStorageCorrupt, err)
	}
	return items, nil
}

func (f *FileStorage) write(items map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".storage-*.json")
	if err != nil {
		return fmt.Errorf("create temp storage file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write storage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close storage file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}
