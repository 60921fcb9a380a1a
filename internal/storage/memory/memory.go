// Package memory provides a process-local blob store, optionally seeded
// from JSON files on disk.
package memory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"budgeter/internal/storage"
)

type Store struct {
	mu    sync.Mutex
	blobs map[string]string
}

var _ storage.BlobStore = (*Store)(nil)

func New() *Store {
	return &Store{blobs: make(map[string]string)}
}

// NewFromFiles seeds the store with every <key>.json file found in base.
// Saves are never written back. A missing directory yields an empty store.
func NewFromFiles(base string) *Store {
	s := New()
	paths, _ := filepath.Glob(filepath.Join(base, "*.json"))
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		s.blobs[strings.TrimSuffix(filepath.Base(p), ".json")] = string(b)
	}
	return s
}

func (s *Store) Load(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, storage.ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.blobs[key]
	return v, ok, nil
}

func (s *Store) Save(_ context.Context, key, value string) error {
	if key == "" {
		return storage.ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = value
	return nil
}
