// Package cache provides the object caches the API client and the webhook
// handler read through. Values are stored JSON-encoded so that the in-memory
// and Redis backends behave the same way.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
)

// Cache stores JSON-encodable values by key.
type Cache interface {
	// Get decodes the value stored under key into dst. It reports false on a miss.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Set stores v under key.
	Set(ctx context.Context, key string, v any) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Memory is an in-process Cache backed by an LRU.
type Memory struct {
	lru *LRU[[]byte]
}

var _ Cache = (*Memory)(nil)

// NewMemory creates an in-memory cache holding at most size entries.
func NewMemory(size int) *Memory {
	return &Memory{lru: NewLRU[[]byte](size)}
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	data, ok := m.lru.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// Set implements Cache.
func (m *Memory) Set(_ context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	m.lru.Put(key, data)
	return nil
}

// Delete implements Cache.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.lru.Remove(key)
	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	return m.lru.Len()
}

// Nop is a Cache that stores nothing.
type Nop struct{}

var _ Cache = Nop{}

func (Nop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Nop) Set(context.Context, string, any) error         { return nil }
func (Nop) Delete(context.Context, string) error           { return nil }
