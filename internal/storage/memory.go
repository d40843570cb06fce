package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// Memory is an in-process Storage used by tests.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailKeys makes Save fail for the listed keys.
	FailKeys map[string]bool
	// FailSubstr makes Save fail for any key containing the substring.
	// Object keys carry a random suffix, so tests target the extension.
	FailSubstr string
	// FailDelete makes every Delete return an error, for exercising
	// best-effort delete paths.
	FailDelete bool
}

// NewMemory creates an empty in-memory object store.
func NewMemory() *Memory {
	return &Memory{
		objects:  make(map[string][]byte),
		FailKeys: make(map[string]bool),
	}
}

// Save stores the object bytes under key.
func (m *Memory) Save(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailKeys[key] || (m.FailSubstr != "" && strings.Contains(key, m.FailSubstr)) {
		return errors.New("storage unavailable")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

// Delete removes the object at key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailDelete {
		return errors.New("delete failed")
	}
	delete(m.objects, key)
	return nil
}

// PublicURL returns a fake URL for the given key.
func (m *Memory) PublicURL(key string) string {
	return "http://storage.test/" + key
}

// Has reports whether an object exists under key.
func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
