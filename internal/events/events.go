package events

import "context"

// Event topic constants
const (
	TopicDocCreated  = "bazaar.doc.created"
	TopicDocUpdated  = "bazaar.doc.updated"
	TopicDocDeleted  = "bazaar.doc.deleted"
	TopicBulkApplied = "bazaar.bulk.applied"

	// TopicAll is the wildcard matching every topic the server emits.
	TopicAll = "bazaar.>"
)

// Event types

type DocCreated struct {
	Collection string         `json:"collection"`
	ID         string         `json:"id"`
	Data       map[string]any `json:"data,omitempty"`
}

type DocUpdated struct {
	Collection string         `json:"collection"`
	ID         string         `json:"id"`
	Changes    map[string]any `json:"changes,omitempty"` // field name -> new value
}

type DocDeleted struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

type BulkApplied struct {
	Collection   string   `json:"collection"`
	Action       string   `json:"action"`
	IDs          []string `json:"ids"`
	SuccessCount int      `json:"success_count"`
	FailedCount  int      `json:"failed_count"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Discard drops every event. It stands in for NATS when no broker URL is
// configured.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(context.Context, string, any) error { return nil }

func (discard) Close() error { return nil }
