// Package store defines the persistence interface for marketplace documents.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Document is a single record in a collection. Data holds the document body;
// ID, CreatedAt, and UpdatedAt are managed by the store.
type Document struct {
	ID        string         `json:"id"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Record flattens a document into a single map for filter evaluation and
// response serialization. The id and timestamps are merged alongside the
// body under their storage names; body keys win on collision.
func (d *Document) Record() map[string]any {
	rec := make(map[string]any, len(d.Data)+3)
	rec["id"] = d.ID
	rec["created_at"] = d.CreatedAt
	rec["updated_at"] = d.UpdatedAt
	for k, v := range d.Data {
		rec[k] = v
	}
	return rec
}

// Filter is a single store-native condition. Op is limited to the operators
// the backend can execute: ==, !=, >, >=, <, <=.
type Filter struct {
	Field string
	Op    string
	Value any
}

// Sort orders results by a single field.
type Sort struct {
	Field string
	Desc  bool
}

// Query is the native portion of a planned query. Filters combine with AND.
type Query struct {
	Filters []Filter
	Sorts   []Sort
	Limit   int
	Offset  int
}

// Collection provides CRUD and querying over one named collection.
type Collection interface {
	// Get fetches a document by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Document, error)
	// Create inserts a new document.
	Create(ctx context.Context, doc *Document) error
	// Update merges patch into the document body and refreshes updated_at.
	// Returns ErrNotFound if absent.
	Update(ctx context.Context, id string, patch map[string]any) error
	// Delete removes a document. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
	// Find returns one page of documents matching the query plus the total
	// number of documents matching the filters (ignoring limit/offset).
	Find(ctx context.Context, q Query) ([]*Document, int, error)
}

// Store is the document store consumed by the query executor and the bulk
// orchestrator. The connection is owned by the caller that constructed it.
type Store interface {
	Collection(name string) Collection

	// RunInTransaction executes fn inside a single transaction. The
	// transaction commits if fn returns nil and rolls back otherwise.
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	Close() error
}
