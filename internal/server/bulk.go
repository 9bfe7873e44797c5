package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/bazaarlabs/bazaar/internal/bulk"
	"github.com/bazaarlabs/bazaar/internal/events"
)

// bulkRequest is the body of POST /v1/{resource}/bulk.
type bulkRequest struct {
	Action        string         `json:"action"`
	IDs           []string       `json:"ids"`
	Data          map[string]any `json:"data,omitempty"`
	UserID        string         `json:"userId,omitempty"`
	Transactional bool           `json:"transactional,omitempty"`
}

// bulkRoles maps collections to the role a bulk mutation requires.
// Collections absent here require seller.
var bulkRoles = map[string]string{
	"users":   bulk.RoleAdmin,
	"reviews": bulk.RoleAdmin,
	"coupons": bulk.RoleAdmin,
}

// handleBulk handles POST /v1/{resource}/bulk.
func (s *Server) handleBulk(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFailure(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Action) == "" {
			writeFailure(w, http.StatusBadRequest, "Action is required")
			return
		}
		if len(req.IDs) == 0 {
			writeFailure(w, http.StatusBadRequest, "IDs array is required and must not be empty")
			return
		}

		role, ok := bulkRoles[resource]
		if !ok {
			role = bulk.RoleSeller
		}
		if v := bulk.ValidatePermission(r.Context(), s.store, req.UserID, role); !v.Valid {
			status := http.StatusForbidden
			if v.Error == "Authentication required" {
				status = http.StatusUnauthorized
			}
			writeFailure(w, status, v.Error)
			return
		}

		op, ok := bulk.OperationFor(resource, req.Action, req.IDs, req.Data)
		if !ok {
			// "update" is the one action without a transition entry: a plain
			// merge of the request data.
			if req.Action != "update" {
				writeFailure(w, http.StatusBadRequest, fmt.Sprintf("Unknown action %q for %s", req.Action, resource))
				return
			}
			op = bulk.Operation{Collection: resource, Action: req.Action, IDs: req.IDs, Data: req.Data}
		}

		var result *bulk.Result
		if req.Transactional {
			result = bulk.ExecuteInTransaction(r.Context(), s.store, op)
		} else {
			result = bulk.Execute(r.Context(), s.store, op)
		}

		if result.Success {
			s.publish(r.Context(), events.TopicBulkApplied, events.BulkApplied{
				Collection:   resource,
				Action:       req.Action,
				IDs:          req.IDs,
				SuccessCount: result.SuccessCount,
				FailedCount:  result.FailedCount,
			})
		}

		status := http.StatusOK
		// Whole-operation guard rejections (nothing attempted) are client errors.
		if !result.Success && result.SuccessCount == 0 && result.FailedCount == 0 {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, result)
	}
}
