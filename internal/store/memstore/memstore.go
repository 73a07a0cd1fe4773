// Package memstore provides an in-memory store implementation for testing.
package memstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/discochess/tinypress/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is an in-memory store for testing.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		objects: make(map[string][]byte),
	}
}

// Set stores data under name (for test setup).
// The data is copied to prevent caller mutations from affecting the store.
func (s *Store) Set(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = bytes.Clone(data)
}

// Get returns a copy of the named object and whether it exists.
func (s *Store) Get(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[name]
	return bytes.Clone(data), ok
}

// Names returns the stored names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open returns a reader over a snapshot of the named object.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	data, ok := s.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Create returns a writer whose contents replace the named object on Close.
func (s *Store) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	return &writer{store: s, name: name}, nil
}

// Remove deletes the named object.
func (s *Store) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[name]; !ok {
		return fmt.Errorf("%w: %s", store.ErrNotFound, name)
	}
	delete(s.objects, name)
	return nil
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}

type writer struct {
	store *Store
	name  string
	buf   bytes.Buffer
}

func (w *writer) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *writer) Close() error {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	w.store.objects[w.name] = w.buf.Bytes()
	return nil
}
