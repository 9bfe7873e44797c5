// Package client provides a transport-agnostic interface for the bazaar
// service and an HTTP/JSON implementation that talks to the REST API.
package client

import (
	"context"
	"fmt"

	"github.com/bazaarlabs/bazaar/internal/bulk"
	"github.com/bazaarlabs/bazaar/internal/sieve"
)

// MarketClient is the interface that all bazaar CLI commands use to
// communicate with the server. It is implemented by HTTPClient (default)
// and can be backed by any transport.
type MarketClient interface {
	// Listings and document CRUD
	List(ctx context.Context, resource string, q sieve.Query) (*sieve.Page, error)
	Get(ctx context.Context, resource, id string) (map[string]any, error)
	Create(ctx context.Context, resource string, body map[string]any) (map[string]any, error)
	Update(ctx context.Context, resource, id string, patch map[string]any) error
	Delete(ctx context.Context, resource, id string) error

	// Bulk mutations
	BulkApply(ctx context.Context, resource string, req *BulkRequest) (*bulk.Result, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// BulkRequest is the body of a bulk mutation call.
type BulkRequest struct {
	Action        string         `json:"action"`
	IDs           []string       `json:"ids"`
	Data          map[string]any `json:"data,omitempty"`
	UserID        string         `json:"userId,omitempty"`
	Transactional bool           `json:"transactional,omitempty"`
}

// APIError is returned for non-2xx responses from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}
