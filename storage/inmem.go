package storage

import (
	"context"
	"sync"
)

// InMemoryStore keeps documents in a map. Handy for tests and dry runs.
type InMemoryStore struct {
	documents map[string][]byte
	mutex     sync.Mutex
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		documents: make(map[string][]byte),
	}
}

func (store *InMemoryStore) Fetch(_ context.Context, token string) ([]byte, bool, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	data, ok := store.documents[token]
	if !ok {
		return nil, false, nil
	}
	return append([]byte{}, data...), true, nil
}

func (store *InMemoryStore) Persist(_ context.Context, token string, data []byte) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.documents[token] = append([]byte{}, data...)
	return nil
}

func (store *InMemoryStore) Delete(_ context.Context, token string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	delete(store.documents, token)
	return nil
}

func (store *InMemoryStore) Close() error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.documents = nil
	return nil
}
