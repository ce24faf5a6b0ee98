package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound reports that no document exists under the requested key.
var ErrNotFound = errors.New("store: document not found")

// PersistenceError wraps a storage read/write failure. It is surfaced as a
// non-blocking warning; in-memory state stays usable.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// KV is the narrow persistence contract the collection store needs: one JSON
// document per key, read on startup, overwritten on every mutation.
type KV interface {
	Load(key string) ([]byte, error)
	Save(key string, value []byte) error
}

// FileKV stores each document as a JSON file in a directory, the local
// analogue of a browser key-value store.
type FileKV struct {
	dir string
}

func NewFileKV(dir string) *FileKV {
	return &FileKV{dir: dir}
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileKV) Load(key string) ([]byte, error) {
	b, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load " + key, Err: err}
	}
	return b, nil
}

func (f *FileKV) Save(key string, value []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return &PersistenceError{Op: "save " + key, Err: err}
	}
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return &PersistenceError{Op: "save " + key, Err: err}
	}
	if err := os.Rename(tmp, f.path(key)); err != nil {
		return &PersistenceError{Op: "save " + key, Err: err}
	}
	return nil
}
