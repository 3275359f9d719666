package kv

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Store. Failing makes every call return ErrUnavailable.
type Memory struct {
	mu      sync.RWMutex
	data    map[string]string
	failing bool
}

func NewMemory() *Memory {
	return &Memory{data: map[string]string{}}
}

func (m *Memory) SetFailing(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = v
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failing {
		return "", false, fmt.Errorf("memory get %s: %w", key, ErrUnavailable)
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return fmt.Errorf("memory set %s: %w", key, ErrUnavailable)
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return fmt.Errorf("memory delete: %w", ErrUnavailable)
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

var _ Store = (*Memory)(nil)
