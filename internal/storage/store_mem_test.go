package storage

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// memStore is an in-memory ObjectStore for tests.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	mtimes  map[string]time.Time
	putErr  error
	getErr  error
}

func newMemStore() *memStore {
	return &memStore{
		objects: make(map[string][]byte),
		mtimes:  make(map[string]time.Time),
	}
}

func (m *memStore) Put(ctx context.Context, key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = body
	if _, ok := m.mtimes[key]; !ok {
		m.mtimes[key] = time.Now()
	}
	return nil
}

func (m *memStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var infos []ObjectInfo
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, ObjectInfo{Key: key, LastModified: m.mtimes[key]})
		}
	}
	return infos, nil
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	body, ok := m.objects[key]
	if !ok {
		return nil, errors.New("object not found: " + key)
	}
	return body, nil
}

func (m *memStore) setModified(key string, ts time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mtimes[key] = ts
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
