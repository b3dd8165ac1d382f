// Package storage provides the document stores a tracker can run
// against: the in-memory map used by tests, a badger-backed local store,
// and a ristretto read-through cache. The remote API adapter lives in
// package keyvalue to keep the HTTP client out of local setups.
package storage

import "context"

// Store is the boundary between trackers and wherever documents live.
// A token names exactly one document and Persist replaces it wholesale.
// Fetch reports absence through ok rather than an error so a missing
// document can bootstrap an empty one.
type Store interface {
	Fetch(ctx context.Context, token string) (data []byte, ok bool, err error)
	Persist(ctx context.Context, token string, data []byte) error
	Delete(ctx context.Context, token string) error
	Close() error
}
