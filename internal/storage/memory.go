package storage

import (
	"context"
	"sync"
)

// Memory is an in-memory Store. It backs tests and ephemeral runs where
// no durability is wanted.
type Memory struct {
	mu     sync.RWMutex
	data   map[string]string
	failOn map[string]error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data:   make(map[string]string),
		failOn: make(map[string]error),
	}
}

// FailWith makes every subsequent operation on key return err. Tests
// use it to simulate storage faults.
func (m *Memory) FailWith(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failOn, key)
		return
	}
	m.failOn[key] = err
}

func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err, ok := m.failOn[key]; ok {
		return "", err
	}
	value, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failOn[key]; ok {
		return err
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failOn[key]; ok {
		return err
	}
	delete(m.data, key)
	return nil
}

// Len reports the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
