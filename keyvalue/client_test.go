package keyvalue

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_StoreSendsTokenHeader(t *testing.T) {
	var gotToken string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-KV-Token")
		gotBody, _ = io.ReadAll(r.Body)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "version": 1})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	resp, err := client.Store(context.Background(),
		map[string]string{"ip": "1.1.1.1"}, "word-word-word-word-word", nil)

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "word-word-word-word-word", gotToken)
	assert.JSONEq(t, `{"data": {"ip": "1.1.1.1"}}`, string(gotBody))
}

func TestClient_DefaultTokenFallback(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-KV-Token")
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithToken("default-token"))
	_, err := client.Retrieve(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, "default-token", gotToken)
}

func TestClient_TokenRequired(t *testing.T) {
	client := NewClient()

	_, err := client.Retrieve(context.Background(), "")
	assert.Error(t, err)
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "no data stored"})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	_, err := client.Retrieve(context.Background(), "some-token")

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "no data stored")
}

func TestClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"token":   "alpha-bravo-charlie-delta-echo",
		})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	resp, err := client.Generate(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "alpha-bravo-charlie-delta-echo", resp.Token)
}

func TestClient_HistoryQueryParams(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "events": []interface{}{}})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	before := 42
	_, err := client.History(context.Background(), "tok", &HistoryOptions{Limit: 10, Before: &before})

	require.NoError(t, err)
	assert.Contains(t, gotQuery, "limit=10")
	assert.Contains(t, gotQuery, "before=42")
}

func TestClient_BatchLimits(t *testing.T) {
	client := NewClient()

	_, err := client.Batch(context.Background(), nil)
	assert.Error(t, err)

	operations := make([]BatchOperation, maxBatchOperations+1)
	_, err = client.Batch(context.Background(), operations)
	assert.Error(t, err)
}

func TestRemoteStore(t *testing.T) {
	documents := map[string]json.RawMessage{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-KV-Token")
		switch r.URL.Path {
		case "/api/retrieve":
			data, ok := documents[token]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "no data stored"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
		case "/api/store":
			var payload struct {
				Data json.RawMessage `json:"data"`
			}
			_ = json.NewDecoder(r.Body).Decode(&payload)
			documents[token] = payload.Data
			_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
		case "/api/delete":
			delete(documents, token)
			_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
		}
	}))
	defer server.Close()

	store := NewRemoteStore(NewClient(WithBaseURL(server.URL)))
	ctx := context.Background()

	_, ok, err := store.Fetch(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Persist(ctx, "tok", []byte(`{"ip":"1.1.1.1"}`)))

	data, ok, err := store.Fetch(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"ip":"1.1.1.1"}`, string(data))

	require.NoError(t, store.Delete(ctx, "tok"))
	_, ok, err = store.Fetch(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)
}
