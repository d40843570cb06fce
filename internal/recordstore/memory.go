package recordstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests and local tooling.
type Memory struct {
	mu          sync.Mutex
	collections map[string]*memCollection
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*memCollection)}
}

// Collection returns the named collection, creating it on first use.
func (m *Memory) Collection(name string) Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[name]
	if !ok {
		c = &memCollection{data: make(map[string]json.RawMessage)}
		m.collections[name] = c
	}
	return c
}

type memCollection struct {
	mu    sync.Mutex
	order []string
	data  map[string]json.RawMessage

	// FailPush forces the next Push to fail, for exercising rollback paths.
	FailPush error
}

// FailNextPush makes the collection's next Push return err.
func FailNextPush(c Collection, err error) {
	if mc, ok := c.(*memCollection); ok {
		mc.mu.Lock()
		mc.FailPush = err
		mc.mu.Unlock()
	}
}

func (c *memCollection) Push(_ context.Context, v any) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.FailPush != nil {
		err := c.FailPush
		c.FailPush = nil
		return "", err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	key := uuid.NewString()
	c.order = append(c.order, key)
	c.data[key] = data
	return key, nil
}

func (c *memCollection) Get(_ context.Context, key string, dst any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(data, dst)
}

func (c *memCollection) All(_ context.Context) ([]Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Record, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, Record{Key: key, Data: c.data[key]})
	}
	return out, nil
}

func (c *memCollection) QueryByField(_ context.Context, field, value string) ([]Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Record
	for _, key := range c.order {
		var obj map[string]any
		if err := json.Unmarshal(c.data[key], &obj); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", key, err)
		}
		if s, ok := obj[field].(string); ok && s == value {
			out = append(out, Record{Key: key, Data: c.data[key]})
		}
	}
	return out, nil
}

func (c *memCollection) Update(_ context.Context, key string, fields map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if !ok {
		return ErrNotFound
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decode record %s: %w", key, err)
	}
	for k, v := range fields {
		obj[k] = v
	}
	merged, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", key, err)
	}
	c.data[key] = merged
	return nil
}

func (c *memCollection) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.data[key]; !ok {
		return ErrNotFound
	}
	delete(c.data, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}
