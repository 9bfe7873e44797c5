package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/bazaarlabs/bazaar/internal/bulk"
	"github.com/bazaarlabs/bazaar/internal/sieve"
)

// SieveOptions tunes the listing middleware for one resource.
type SieveOptions struct {
	// MandatoryFilters are always placed first in the filter list. Any
	// client-supplied filter on the same field is stripped; mandatory
	// filters are non-overridable.
	MandatoryFilters []sieve.FilterCondition

	// RequireAuth demands an authenticated caller. RequiredRole additionally
	// demands at least that role and implies RequireAuth.
	RequireAuth  bool
	RequiredRole string

	// BeforeQuery may adjust the parsed query before execution.
	BeforeQuery func(r *http.Request, q *sieve.Query) error

	// AfterQuery may adjust the executed page before serialization.
	AfterQuery func(r *http.Request, page *sieve.Page) error

	// Transform maps each result record; applied before AfterQuery.
	Transform func(record map[string]any) map[string]any

	// Handler replaces the default executor entirely. It receives the
	// parsed query (mandatory filters and BeforeQuery already applied) and
	// owns the response.
	Handler func(w http.ResponseWriter, r *http.Request, q *sieve.Query)
}

// listingResponse is the success envelope for list endpoints.
type listingResponse struct {
	Success bool `json:"success"`
	*sieve.Page
}

// withSieve builds the listing handler for one resource: parse, inject
// mandatory filters, run hooks, execute, transform, and wrap in the
// success envelope. Every error past the auth check surfaces as a 500
// failure envelope; panics are recovered to a generic message.
func (s *Server) withSieve(cfg *sieve.ResourceConfig, opts SieveOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic in listing handler",
					"resource", cfg.Resource,
					"panic", fmt.Sprintf("%v", rec),
					"stack", string(debug.Stack()),
				)
				writeFailure(w, http.StatusInternalServerError, "Internal server error")
			}
		}()

		if opts.RequireAuth || opts.RequiredRole != "" {
			role := opts.RequiredRole
			if role == "" {
				role = bulk.RoleUser
			}
			if v := bulk.ValidatePermission(r.Context(), s.store, userID(r), role); !v.Valid {
				status := http.StatusForbidden
				if v.Error == "Authentication required" {
					status = http.StatusUnauthorized
				}
				writeFailure(w, status, v.Error)
				return
			}
		}

		// Parsing is partial-success: invalid tokens were dropped and the
		// surviving query is well-formed.
		q, _ := sieve.ParseQuery(r.URL.Query(), cfg)
		applyMandatoryFilters(&q, opts.MandatoryFilters)

		if opts.BeforeQuery != nil {
			if err := opts.BeforeQuery(r, &q); err != nil {
				s.listingFailure(w, cfg.Resource, err)
				return
			}
		}

		if opts.Handler != nil {
			opts.Handler(w, r, &q)
			return
		}

		page, err := sieve.Execute(r.Context(), s.store.Collection(cfg.Resource), q, cfg)
		if err != nil {
			s.listingFailure(w, cfg.Resource, err)
			return
		}

		if opts.Transform != nil {
			for i, record := range page.Data {
				page.Data[i] = opts.Transform(record)
			}
		}

		if opts.AfterQuery != nil {
			if err := opts.AfterQuery(r, page); err != nil {
				s.listingFailure(w, cfg.Resource, err)
				return
			}
		}

		writeJSON(w, http.StatusOK, listingResponse{Success: true, Page: page})
	}
}

// listingFailure logs the error and writes the failure envelope.
func (s *Server) listingFailure(w http.ResponseWriter, resource string, err error) {
	slog.Error("listing query failed", "resource", resource, "error", err)
	msg := err.Error()
	if msg == "" {
		msg = "Internal server error"
	}
	writeFailure(w, http.StatusInternalServerError, msg)
}

// applyMandatoryFilters prepends the mandatory filters and strips any
// client filter whose field collides with one of them.
func applyMandatoryFilters(q *sieve.Query, mandatory []sieve.FilterCondition) {
	if len(mandatory) == 0 {
		return
	}
	pinned := make(map[string]bool, len(mandatory))
	for _, f := range mandatory {
		pinned[f.Field] = true
	}
	merged := make([]sieve.FilterCondition, 0, len(mandatory)+len(q.Filters))
	merged = append(merged, mandatory...)
	for _, f := range q.Filters {
		if !pinned[f.Field] {
			merged = append(merged, f)
		}
	}
	q.Filters = merged
}
