package server

import (
	"net/http"

	"github.com/bazaarlabs/bazaar/internal/bulk"
	"github.com/bazaarlabs/bazaar/internal/sieve"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *Server) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	mux.HandleFunc("GET /v1/resources", s.handleListResources)

	for _, name := range s.registry.Names() {
		cfg, err := s.registry.Get(name)
		if err != nil {
			continue
		}
		mux.Handle("GET /v1/"+name, s.withSieve(cfg, s.listingOptions(name)))
		mux.HandleFunc("POST /v1/"+name, s.handleCreate(name))
		mux.HandleFunc("GET /v1/"+name+"/{id}", s.handleGet(name))
		mux.HandleFunc("PATCH /v1/"+name+"/{id}", s.handleUpdate(name))
		mux.HandleFunc("DELETE /v1/"+name+"/{id}", s.handleDelete(name))
		mux.HandleFunc("POST /v1/"+name+"/bulk", s.handleBulk(name))
	}

	return AuthMiddleware(authToken, mux)
}

// listingOptions returns the per-resource listing policy: public catalogs
// are pinned to their visible subset; back-office collections demand a
// role.
func (s *Server) listingOptions(resource string) SieveOptions {
	switch resource {
	case "products":
		return SieveOptions{
			MandatoryFilters: []sieve.FilterCondition{
				{Field: "status", Operator: sieve.OpEquals, Value: "published"},
			},
		}
	case "reviews":
		return SieveOptions{
			MandatoryFilters: []sieve.FilterCondition{
				{Field: "status", Operator: sieve.OpEquals, Value: "approved"},
			},
		}
	case "coupons":
		return SieveOptions{
			MandatoryFilters: []sieve.FilterCondition{
				{Field: "active", Operator: sieve.OpEquals, Value: true},
			},
		}
	case "orders":
		return SieveOptions{RequireAuth: true, RequiredRole: bulk.RoleSeller}
	case "users":
		return SieveOptions{
			RequireAuth:  true,
			RequiredRole: bulk.RoleAdmin,
			Transform:    stripCredentials,
		}
	default:
		return SieveOptions{}
	}
}

// stripCredentials removes fields that must never leave the service.
func stripCredentials(record map[string]any) map[string]any {
	delete(record, "passwordHash")
	return record
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListResources handles GET /v1/resources.
func (s *Server) handleListResources(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"resources": s.registry.Names(),
	})
}
