package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bazaarlabs/bazaar/internal/events"
	"github.com/bazaarlabs/bazaar/internal/idgen"
	"github.com/bazaarlabs/bazaar/internal/store"
)

// handleCreate handles POST /v1/{resource}.
func (s *Server) handleCreate(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeFailure(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		id, _ := body["id"].(string)
		delete(body, "id")
		if id == "" {
			var err error
			id, err = idgen.Generate(resource)
			if err != nil {
				writeFailure(w, http.StatusInternalServerError, "failed to generate id")
				return
			}
		}

		doc := &store.Document{ID: id, Data: body}
		if err := s.store.Collection(resource).Create(r.Context(), doc); err != nil {
			writeFailure(w, http.StatusInternalServerError, "failed to create item")
			return
		}

		s.publish(r.Context(), events.TopicDocCreated, events.DocCreated{
			Collection: resource,
			ID:         id,
			Data:       body,
		})

		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": doc.Record()})
	}
}

// handleGet handles GET /v1/{resource}/{id}.
func (s *Server) handleGet(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			writeFailure(w, http.StatusBadRequest, "id is required")
			return
		}

		doc, err := s.store.Collection(resource).Get(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeFailure(w, http.StatusNotFound, "Item not found")
			return
		}
		if err != nil {
			writeFailure(w, http.StatusInternalServerError, "failed to get item")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": doc.Record()})
	}
}

// handleUpdate handles PATCH /v1/{resource}/{id}.
func (s *Server) handleUpdate(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			writeFailure(w, http.StatusBadRequest, "id is required")
			return
		}

		var patch map[string]any
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeFailure(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		delete(patch, "id")

		err := s.store.Collection(resource).Update(r.Context(), id, patch)
		if errors.Is(err, store.ErrNotFound) {
			writeFailure(w, http.StatusNotFound, "Item not found")
			return
		}
		if err != nil {
			writeFailure(w, http.StatusInternalServerError, "failed to update item")
			return
		}

		s.publish(r.Context(), events.TopicDocUpdated, events.DocUpdated{
			Collection: resource,
			ID:         id,
			Changes:    patch,
		})

		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// handleDelete handles DELETE /v1/{resource}/{id}.
func (s *Server) handleDelete(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			writeFailure(w, http.StatusBadRequest, "id is required")
			return
		}

		err := s.store.Collection(resource).Delete(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeFailure(w, http.StatusNotFound, "Item not found")
			return
		}
		if err != nil {
			writeFailure(w, http.StatusInternalServerError, "failed to delete item")
			return
		}

		s.publish(r.Context(), events.TopicDocDeleted, events.DocDeleted{
			Collection: resource,
			ID:         id,
		})

		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}
