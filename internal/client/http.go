package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bazaarlabs/bazaar/internal/bulk"
	"github.com/bazaarlabs/bazaar/internal/sieve"
)

// HTTPClient implements MarketClient using the bazaar HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// List fetches one page of a resource listing. The query is serialized
// with the same grammar the server parses.
func (c *HTTPClient) List(ctx context.Context, resource string, q sieve.Query) (*sieve.Page, error) {
	path := "/v1/" + url.PathEscape(resource)
	if qs := sieve.BuildQueryString(q); qs != "" {
		path += "?" + qs
	}

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		sieve.Page
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("list %s: %s", resource, resp.Error)
	}
	return &resp.Page, nil
}

func (c *HTTPClient) Get(ctx context.Context, resource, id string) (map[string]any, error) {
	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	path := "/v1/" + url.PathEscape(resource) + "/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *HTTPClient) Create(ctx context.Context, resource string, body map[string]any) (map[string]any, error) {
	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	path := "/v1/" + url.PathEscape(resource)
	if err := c.doJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *HTTPClient) Update(ctx context.Context, resource, id string, patch map[string]any) error {
	path := "/v1/" + url.PathEscape(resource) + "/" + url.PathEscape(id)
	return c.doJSON(ctx, http.MethodPatch, path, patch, nil)
}

func (c *HTTPClient) Delete(ctx context.Context, resource, id string) error {
	path := "/v1/" + url.PathEscape(resource) + "/" + url.PathEscape(id)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// BulkApply runs a bulk mutation against a resource.
func (c *HTTPClient) BulkApply(ctx context.Context, resource string, req *BulkRequest) (*bulk.Result, error) {
	var result bulk.Result
	path := "/v1/" + url.PathEscape(resource) + "/bulk"
	if err := c.doJSON(ctx, http.MethodPost, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health checks the server's health endpoint.
func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// doJSON performs one request: optional JSON body in, optional JSON body
// out, bearer auth, API errors decoded into APIError.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
