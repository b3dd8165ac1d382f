package keyvalue

import (
	"context"
	"encoding/json"
)

// RemoteStore adapts a Client onto storage.Store. The API answers 404
// for a token with nothing stored; that is the bootstrap case, not an
// error. Real transport failures are returned as errors so a transient
// outage can never truncate a document to the empty state.
type RemoteStore struct {
	client *Client
}

func NewRemoteStore(client *Client) *RemoteStore {
	return &RemoteStore{client: client}
}

func (store *RemoteStore) Fetch(ctx context.Context, token string) ([]byte, bool, error) {
	resp, err := store.client.Retrieve(ctx, token)
	if IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return resp.Data, true, nil
}

func (store *RemoteStore) Persist(ctx context.Context, token string, data []byte) error {
	// RawMessage keeps the already-serialized document byte-for-byte.
	_, err := store.client.Store(ctx, json.RawMessage(data), token, nil)
	return err
}

func (store *RemoteStore) Delete(ctx context.Context, token string) error {
	_, err := store.client.Delete(ctx, token)
	if IsNotFound(err) {
		return nil
	}
	return err
}

func (store *RemoteStore) Close() error {
	return nil
}
