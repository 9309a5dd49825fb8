package jsonstore

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/jsonstore-io/jsonstore_sdk_go/internal/devseed"
)

// mockStore backs the mock runtime mode. It mirrors the remote semantics:
// post and put both replace, get and delete of an absent key fail.
type mockStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func newMockStore() *mockStore {
	return &mockStore{items: make(map[string][]byte)}
}

func (s *mockStore) seed(entries []devseed.SeedEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if strings.TrimSpace(e.Key) == "" {
			return errors.New("mock jsonstore: seed entry missing key")
		}
		data := append([]byte(nil), e.Value...)
		if len(data) == 0 {
			data = []byte("null")
		}
		s.items[e.Key] = data
	}
	return nil
}

func (s *mockStore) get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.items[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *mockStore) set(ctx context.Context, key string, raw []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = append([]byte(nil), raw...)
	return nil
}

func (s *mockStore) delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; !ok {
		return ErrKeyNotFound
	}
	delete(s.items, key)
	return nil
}

type mockBackend struct {
	store *mockStore
}

func (b *mockBackend) GetRaw(ctx context.Context, key string) ([]byte, error) {
	return b.store.get(ctx, key)
}

func (b *mockBackend) PostRaw(ctx context.Context, key string, raw []byte) error {
	return b.store.set(ctx, key, raw)
}

func (b *mockBackend) PutRaw(ctx context.Context, key string, raw []byte) error {
	return b.store.set(ctx, key, raw)
}

func (b *mockBackend) DeleteRaw(ctx context.Context, key string) error {
	return b.store.delete(ctx, key)
}
