package storage

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v2"
)

// BadgerStore keeps documents in a local badger database, giving the CLI
// a fully offline mode with the same Store semantics as the remote API.
type BadgerStore struct {
	db *badger.DB
}

func OpenBadgerStore(path string) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

// OpenInMemoryBadgerStore backs a store with an in-memory badger
// instance, mainly for tests.
func OpenInMemoryBadgerStore() (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

func (store *BadgerStore) Fetch(_ context.Context, token string) ([]byte, bool, error) {
	var data []byte
	err := store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(token))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (store *BadgerStore) Persist(_ context.Context, token string, data []byte) error {
	return store.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(token), data)
	})
}

func (store *BadgerStore) Delete(_ context.Context, token string) error {
	return store.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(token))
	})
}

func (store *BadgerStore) Close() error {
	return store.db.Close()
}
