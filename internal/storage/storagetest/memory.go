// Package storagetest provides an in-memory storage.Store for tests.
package storagetest

import (
	"context"
	"strings"
	"sync"
)

const URLBase = "/media"

type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	// SaveErr, when set, is returned by every Save call.
	SaveErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (m *MemoryStore) Save(_ context.Context, key, _ string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	url := URLBase + "/" + key
	m.objects[url] = append([]byte(nil), data...)
	return url, nil
}

func (m *MemoryStore) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !strings.HasPrefix(url, URLBase+"/") {
		return nil
	}
	delete(m.objects, url)
	m.deleted = append(m.deleted, url)
	return nil
}

func (m *MemoryStore) Has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[url]
	return ok
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func (m *MemoryStore) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}
