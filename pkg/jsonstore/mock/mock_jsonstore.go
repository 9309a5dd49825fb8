// Package mock implements an in-memory jsonstore replacement for consumer
// tests and offline development. It satisfies jsonstore.Backend, so it can be
// plugged straight into jsonstore.NewWithBackend.
package mock

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/jsonstore-io/jsonstore_sdk_go/internal/devseed"
	"github.com/jsonstore-io/jsonstore_sdk_go/pkg/jsonstore"
)

// Mock is an in-memory store with the remote service's semantics: post and
// put both replace, get and delete of an absent key fail with
// jsonstore.ErrKeyNotFound.
type Mock struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// New creates an empty mock store.
func New() *Mock {
	return &Mock{items: make(map[string][]byte)}
}

// Seed loads initial documents, typically decoded via devseed.LoadSeed.
func (m *Mock) Seed(entries []devseed.SeedEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		if strings.TrimSpace(e.Key) == "" {
			return errors.New("mock jsonstore: seed entry missing key")
		}
		data := append([]byte(nil), e.Value...)
		if len(data) == 0 {
			data = []byte("null")
		}
		m.items[e.Key] = data
	}
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *Mock) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.items))
	for key := range m.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of stored documents.
func (m *Mock) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// GetRaw implements jsonstore.Backend.
func (m *Mock) GetRaw(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.items[key]
	if !ok {
		return nil, jsonstore.ErrKeyNotFound
	}
	return append([]byte(nil), data...), nil
}

// PostRaw implements jsonstore.Backend.
func (m *Mock) PostRaw(ctx context.Context, key string, raw []byte) error {
	return m.set(ctx, key, raw)
}

// PutRaw implements jsonstore.Backend.
func (m *Mock) PutRaw(ctx context.Context, key string, raw []byte) error {
	return m.set(ctx, key, raw)
}

// DeleteRaw implements jsonstore.Backend.
func (m *Mock) DeleteRaw(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[key]; !ok {
		return jsonstore.ErrKeyNotFound
	}
	delete(m.items, key)
	return nil
}

func (m *Mock) set(ctx context.Context, key string, raw []byte) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("mock jsonstore: key is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	data := append([]byte(nil), raw...)
	if len(data) == 0 {
		data = []byte("null")
	}
	m.items[key] = data
	return nil
}

// Get retrieves a document directly from the mock, decoded into T.
func Get[T any](ctx context.Context, store *Mock, key string) (T, error) {
	var value T
	data, err := store.GetRaw(ctx, key)
	if err != nil {
		return value, err
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, errors.Wrap(err, "mock jsonstore: decode stored value")
	}
	return value, nil
}

// Post stores a value directly in the mock, encoded as JSON.
func Post[T any](ctx context.Context, store *Mock, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "mock jsonstore: encode value")
	}
	return store.PostRaw(ctx, key, raw)
}

// Put replaces a value directly in the mock, encoded as JSON.
func Put[T any](ctx context.Context, store *Mock, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "mock jsonstore: encode value")
	}
	return store.PutRaw(ctx, key, raw)
}
