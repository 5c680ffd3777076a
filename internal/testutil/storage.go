package testutil

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/cockroachdb/errors"
)

// MemoryStorage is an in-memory storage.Storage.
type MemoryStorage struct {
	mu      sync.Mutex
	Blobs   map[string][]byte
	FailOn  func(key string) error
	Deleted []string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{Blobs: map[string][]byte{}}
}

func (m *MemoryStorage) Save(_ context.Context, key string, r io.Reader) error {
	if m.FailOn != nil {
		if err := m.FailOn(key); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	_, err := io.Copy(&buf, r)
	if err != nil {
		return errors.Wrap(err, "read blob")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Blobs[key] = buf.Bytes()
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Blobs, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}

func (m *MemoryStorage) URL(_ context.Context, key string) (string, error) {
	return "mem://" + key, nil
}

// Len returns the number of stored blobs.
func (m *MemoryStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Blobs)
}
