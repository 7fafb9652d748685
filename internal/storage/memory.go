package storage

import (
	"context"
	"strings"
	"sync"
)

// Object is a blob held by MemoryStore.
type Object struct {
	Data        []byte
	ContentType string
}

// MemoryStore is an in-process BlobStore, mainly for tests.
// Setting Err makes every upload fail with it.
type MemoryStore struct {
	BaseURL string
	Err     error

	mu      sync.Mutex
	objects map[string]Object
}

// NewMemoryStore creates an empty store serving URLs under baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{BaseURL: strings.TrimRight(baseURL, "/"), objects: make(map[string]Object)}
}

// Upload records the object and returns its URL.
func (m *MemoryStore) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if m.objects == nil {
		m.objects = make(map[string]Object)
	}
	m.objects[key] = Object{Data: append([]byte(nil), data...), ContentType: contentType}
	return m.BaseURL + "/" + key, nil
}

// Get returns the object stored under key.
func (m *MemoryStore) Get(key string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	return obj, ok
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
