package keyvalue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// maxBatchOperations is the server-side cap on operations per batch call.
const maxBatchOperations = 100

type GenerateResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type StoreResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Size      int        `json:"size"`
	Tier      string     `json:"tier"`
	Version   int        `json:"version"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type RetrieveResponse struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Version   int             `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
	ExpiresAt *time.Time      `json:"expires_at"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PatchOperations names fields to set and paths to remove in one atomic
// partial update.
type PatchOperations struct {
	Set    map[string]interface{} `json:"set,omitempty"`
	Remove []string               `json:"remove,omitempty"`
}

type PatchResponse struct {
	Success   bool            `json:"success"`
	Version   int             `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
	ExpiresAt *time.Time      `json:"expires_at"`
	Data      json.RawMessage `json:"data"`
	Size      int             `json:"size"`
	Tier      string          `json:"tier"`
}

type HistoryEvent struct {
	Seq            int             `json:"seq"`
	CreatedAt      time.Time       `json:"created_at"`
	ExpiresAt      *time.Time      `json:"expires_at"`
	ClassifiedType *string         `json:"classified_type"`
	NumericValue   *float64        `json:"numeric_value"`
	TextValue      *string         `json:"text_value"`
	Confidence     *float64        `json:"confidence"`
	Payload        json.RawMessage `json:"payload"`
}

type HistoryResponse struct {
	Success    bool           `json:"success"`
	Events     []HistoryEvent `json:"events"`
	Pagination struct {
		Limit   int     `json:"limit"`
		Before  *int    `json:"before"`
		Since   *string `json:"since"`
		HasMore bool    `json:"has_more"`
	} `json:"pagination"`
}

type HistoryOptions struct {
	Limit  int
	Before *int
	Since  *string
	Type   *string
}

type BatchOperation struct {
	Action  string           `json:"action"`
	Token   string           `json:"token"`
	Data    interface{}      `json:"data,omitempty"`
	TTL     *int             `json:"ttl,omitempty"`
	Patch   *PatchOperations `json:"patch,omitempty"`
	Version *int             `json:"version,omitempty"`
}

type BatchResult struct {
	Success bool            `json:"success"`
	Token   string          `json:"token"`
	Action  string          `json:"action"`
	Data    json.RawMessage `json:"data,omitempty"`
	Version *int            `json:"version,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type BatchResponse struct {
	Success bool          `json:"success"`
	Results []BatchResult `json:"results"`
	Summary struct {
		Total       int    `json:"total"`
		Succeeded   int    `json:"succeeded"`
		Failed      int    `json:"failed"`
		SuccessRate string `json:"successRate"`
	} `json:"summary"`
}

// Generate asks the API for a fresh memorable token.
func (client *Client) Generate(ctx context.Context) (*GenerateResponse, error) {
	var resp GenerateResponse
	err := client.request(ctx, http.MethodPost, "/api/generate", "", nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Store replaces the token's document with data. A nil ttl keeps the
// server default expiry.
func (client *Client) Store(ctx context.Context, data interface{}, token string, ttl *int) (*StoreResponse, error) {
	token, err := client.resolveToken(token)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{"data": data}
	if ttl != nil {
		payload["ttl"] = *ttl
	}

	var resp StoreResponse
	err = client.request(ctx, http.MethodPost, "/api/store", token, payload, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Retrieve returns the token's stored document. A token with nothing
// stored yields an APIError with status 404; see IsNotFound.
func (client *Client) Retrieve(ctx context.Context, token string) (*RetrieveResponse, error) {
	token, err := client.resolveToken(token)
	if err != nil {
		return nil, err
	}

	var resp RetrieveResponse
	err = client.request(ctx, http.MethodGet, "/api/retrieve", token, nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (client *Client) Delete(ctx context.Context, token string) (*DeleteResponse, error) {
	token, err := client.resolveToken(token)
	if err != nil {
		return nil, err
	}

	var resp DeleteResponse
	err = client.request(ctx, http.MethodDelete, "/api/delete", token, nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Patch applies a partial update guarded by the document version the
// caller last saw (optimistic concurrency).
func (client *Client) Patch(ctx context.Context, version int, patch *PatchOperations, token string, ttl *int) (*PatchResponse, error) {
	token, err := client.resolveToken(token)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"version": version,
		"patch":   patch,
	}
	if ttl != nil {
		payload["ttl"] = *ttl
	}

	var resp PatchResponse
	err = client.request(ctx, http.MethodPatch, "/api/store", token, payload, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// History queries the server-side event history for a token.
func (client *Client) History(ctx context.Context, token string, opts *HistoryOptions) (*HistoryResponse, error) {
	token, err := client.resolveToken(token)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	if opts != nil {
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Before != nil {
			params.Set("before", strconv.Itoa(*opts.Before))
		}
		if opts.Since != nil {
			params.Set("since", *opts.Since)
		}
		if opts.Type != nil {
			params.Set("type", *opts.Type)
		}
	}

	path := "/api/history"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp HistoryResponse
	err = client.request(ctx, http.MethodGet, path, token, nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Batch executes up to maxBatchOperations operations in one request.
func (client *Client) Batch(ctx context.Context, operations []BatchOperation) (*BatchResponse, error) {
	if len(operations) == 0 {
		return nil, fmt.Errorf("keyvalue: at least one operation is required")
	}
	if len(operations) > maxBatchOperations {
		return nil, fmt.Errorf("keyvalue: at most %d operations per batch", maxBatchOperations)
	}

	payload := map[string]interface{}{"operations": operations}

	var resp BatchResponse
	err := client.request(ctx, http.MethodPost, "/api/batch", "", payload, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
