package marble

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public Marble API endpoint.
	DefaultBaseURL = "https://api.worldlabs.ai"

	// DefaultTimeout bounds a single HTTP request (polling is bounded
	// separately by PollOptions).
	DefaultTimeout = 60 * time.Second

	apiKeyHeader = "WLT-Api-Key"
)

// Client talks to the World Labs Marble API. A zero value is not usable;
// construct with New or NewWithOptions. Methods are safe for concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

// New returns a client for the public API endpoint.
func New(apiKey string) *Client {
	return NewWithOptions(apiKey, DefaultBaseURL, DefaultTimeout)
}

// NewWithOptions returns a client for a custom endpoint (tests, staging).
func NewWithOptions(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

// doJSON performs one API request. body and out may be nil. Non-2xx
// responses come back as *APIError with the response body attached.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		x, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(x))}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GenerateWorld submits a generation request and returns the long-running
// operation handle. The request is validated before anything goes on the
// wire.
func (c *Client) GenerateWorld(ctx context.Context, req *WorldsGenerateRequest) (*Operation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var op Operation
	if err := c.doJSON(ctx, http.MethodPost, "/marble/v1/worlds:generate", req, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

// GetWorld fetches a world by ID. The service answers with either the bare
// world object or a {"world": ...} wrapper; both are accepted.
func (c *Client) GetWorld(ctx context.Context, worldID string) (*World, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/marble/v1/worlds/"+worldID, nil, &raw); err != nil {
		return nil, err
	}
	var wrapper struct {
		World *World `json:"world"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.World != nil {
		return wrapper.World, nil
	}
	var w World
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWorlds fetches one page of worlds. req may be nil for defaults.
func (c *Client) ListWorlds(ctx context.Context, req *ListWorldsRequest) (*ListWorldsResponse, error) {
	if req == nil {
		req = &ListWorldsRequest{}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out ListWorldsResponse
	if err := c.doJSON(ctx, http.MethodPost, "/marble/v1/worlds:list", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOperation fetches the current state of a long-running operation.
func (c *Client) GetOperation(ctx context.Context, operationID string) (*Operation, error) {
	var op Operation
	if err := c.doJSON(ctx, http.MethodGet, "/marble/v1/operations/"+operationID, nil, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

// PrepareMediaUpload creates a media asset and returns the signed URL to
// upload its bytes to.
func (c *Client) PrepareMediaUpload(ctx context.Context, req *MediaAssetPrepareUploadRequest) (*MediaAssetPrepareUploadResponse, error) {
	var out MediaAssetPrepareUploadResponse
	if err := c.doJSON(ctx, http.MethodPost, "/marble/v1/media-assets:prepare_upload", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMediaAsset fetches a media asset by ID.
func (c *Client) GetMediaAsset(ctx context.Context, mediaAssetID string) (*MediaAsset, error) {
	var out MediaAsset
	if err := c.doJSON(ctx, http.MethodGet, "/marble/v1/media-assets/"+mediaAssetID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadMedia pushes raw bytes to the signed URL returned by
// PrepareMediaUpload, including the required headers.
func (c *Client) UploadMedia(ctx context.Context, info *UploadURLInfo, data []byte) error {
	method := info.UploadMethod
	if method == "" {
		method = http.MethodPut
	}
	req, err := http.NewRequestWithContext(ctx, method, info.UploadURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	for k, v := range info.RequiredHeaders {
		req.Header.Set(k, v)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		x, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return fmt.Errorf("media upload %d: %s", resp.StatusCode, strings.TrimSpace(string(x)))
	}
	return nil
}
