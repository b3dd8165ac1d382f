package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store Store) {
	ctx := context.Background()

	_, ok, err := store.Fetch(ctx, "missing-token")
	assert.NoError(t, err)
	assert.False(t, ok)

	err = store.Persist(ctx, "token-a", []byte(`{"ip":"1.1.1.1"}`))
	assert.NoError(t, err)

	data, ok, err := store.Fetch(ctx, "token-a")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"ip":"1.1.1.1"}`), data)

	err = store.Persist(ctx, "token-a", []byte(`{"ip":"2.2.2.2"}`))
	assert.NoError(t, err)

	data, ok, err = store.Fetch(ctx, "token-a")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"ip":"2.2.2.2"}`), data)

	err = store.Delete(ctx, "token-a")
	assert.NoError(t, err)

	_, ok, err = store.Fetch(ctx, "token-a")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryStore(t *testing.T) {
	store := NewInMemoryStore()
	defer store.Close()

	testStore(t, store)
}

func TestBadgerStore(t *testing.T) {
	store, err := OpenInMemoryBadgerStore()
	require.NoError(t, err)
	defer store.Close()

	testStore(t, store)
}

func TestCachedStore(t *testing.T) {
	inner := NewInMemoryStore()
	store, err := NewCachedStore(inner)
	require.NoError(t, err)
	defer store.Close()

	testStore(t, store)
}

func TestCachedStore_WritesThrough(t *testing.T) {
	inner := NewInMemoryStore()
	store, err := NewCachedStore(inner)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Persist(ctx, "token-a", []byte("v1")))

	// The inner store holds the document regardless of cache state.
	data, ok, err := inner.Fetch(ctx, "token-a")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), data)

	data, ok, err = store.Fetch(ctx, "token-a")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), data)
}

func TestInMemoryStore_FetchReturnsCopy(t *testing.T) {
	store := NewInMemoryStore()
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Persist(ctx, "token-a", []byte("abc")))

	data, _, err := store.Fetch(ctx, "token-a")
	require.NoError(t, err)
	data[0] = 'x'

	again, _, err := store.Fetch(ctx, "token-a")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
