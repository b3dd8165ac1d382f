package storage

import (
	"context"

	"github.com/dgraph-io/ristretto"
)

// CachedStore puts a ristretto read-through cache in front of another
// Store. The monitor loops are the only writer for their token, so a
// write-through cache stays coherent and saves one network read per
// update cycle.
type CachedStore struct {
	inner Store
	cache *ristretto.Cache
}

func NewCachedStore(inner Store) (*CachedStore, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1 << 14,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &CachedStore{inner: inner, cache: cache}, nil
}

func (store *CachedStore) Fetch(ctx context.Context, token string) ([]byte, bool, error) {
	if value, ok := store.cache.Get(token); ok {
		return value.([]byte), true, nil
	}
	data, ok, err := store.inner.Fetch(ctx, token)
	if err != nil || !ok {
		return nil, ok, err
	}
	store.cache.Set(token, data, int64(len(data)))
	return data, true, nil
}

func (store *CachedStore) Persist(ctx context.Context, token string, data []byte) error {
	if err := store.inner.Persist(ctx, token, data); err != nil {
		return err
	}
	store.cache.Set(token, data, int64(len(data)))
	store.cache.Wait()
	return nil
}

func (store *CachedStore) Delete(ctx context.Context, token string) error {
	if err := store.inner.Delete(ctx, token); err != nil {
		return err
	}
	store.cache.Del(token)
	return nil
}

func (store *CachedStore) Close() error {
	store.cache.Close()
	return store.inner.Close()
}
