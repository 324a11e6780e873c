package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Store. It is the default backend and the
// workhorse of the test suite. FailWrites flips every Set/Remove into
// an error so persist-failure recovery can be exercised.
type Memory struct {
	mu         sync.Mutex
	items      map[string]string
	failWrites bool
	setCalls   int
	removes    int
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return ErrWriteFailed
	}
	m.setCalls++
	m.items[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return ErrWriteFailed
	}
	m.removes++
	delete(m.items, key)
	return nil
}

// FailWrites toggles write fault injection.
func (m *Memory) FailWrites(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites = fail
}

// SetCalls reports how many successful Set operations have happened.
func (m *Memory) SetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setCalls
}

// RemoveCalls reports how many successful Remove operations have happened.
func (m *Memory) RemoveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removes
}
