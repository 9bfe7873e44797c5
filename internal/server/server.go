// Package server exposes the marketplace collections over HTTP: sieve
// listings, document CRUD, and bulk mutations.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bazaarlabs/bazaar/internal/events"
	"github.com/bazaarlabs/bazaar/internal/resources"
	"github.com/bazaarlabs/bazaar/internal/store"
)

// Server handles all marketplace API routes.
type Server struct {
	store     store.Store
	registry  *resources.Registry
	publisher events.Publisher
}

// New returns a new Server backed by the given store, registry, and publisher.
func New(st store.Store, reg *resources.Registry, pub events.Publisher) *Server {
	return &Server{
		store:     st,
		registry:  reg,
		publisher: pub,
	}
}

// publish emits an event best-effort; failures are logged but never block
// the request that triggered them.
func (s *Server) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeFailure writes the API failure envelope.
func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}
