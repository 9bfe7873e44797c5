// Package resources holds the static per-resource query configuration for
// the marketplace collections. The registry is built once at startup,
// validated, and read-only afterwards.
package resources

import (
	"fmt"
	"sort"

	"github.com/bazaarlabs/bazaar/internal/sieve"
)

// Registry maps resource names to their query configuration.
type Registry struct {
	configs map[string]*sieve.ResourceConfig
}

// New builds a registry from the given configs, validating each one.
// Misconfiguration is a startup error, never a per-request one.
func New(configs ...*sieve.ResourceConfig) (*Registry, error) {
	r := &Registry{configs: make(map[string]*sieve.ResourceConfig, len(configs))}
	for _, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("resource config: %w", err)
		}
		if _, exists := r.configs[cfg.Resource]; exists {
			return nil, fmt.Errorf("resource %q registered twice", cfg.Resource)
		}
		r.configs[cfg.Resource] = cfg
	}
	return r, nil
}

// Get returns the config for a resource.
func (r *Registry) Get(name string) (*sieve.ResourceConfig, error) {
	cfg, ok := r.configs[name]
	if !ok {
		return nil, fmt.Errorf("resource %q is not registered", name)
	}
	return cfg, nil
}

// Names returns all registered resource names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Operator sets shared by the default configs.
var (
	idOps     = []sieve.FilterOperator{sieve.OpEquals, sieve.OpNotEquals}
	textOps   = []sieve.FilterOperator{sieve.OpEquals, sieve.OpNotEquals, sieve.OpEqualsCI, sieve.OpContains, sieve.OpContainsCI, sieve.OpStartsWith, sieve.OpStartsWithCI, sieve.OpEndsWith}
	numberOps = []sieve.FilterOperator{sieve.OpEquals, sieve.OpNotEquals, sieve.OpGreaterThan, sieve.OpGreaterOrEqual, sieve.OpLessThan, sieve.OpLessOrEqual}
	boolOps   = []sieve.FilterOperator{sieve.OpEquals, sieve.OpNotEquals}
	dateOps   = []sieve.FilterOperator{sieve.OpEquals, sieve.OpNotEquals, sieve.OpGreaterThan, sieve.OpGreaterOrEqual, sieve.OpLessThan, sieve.OpLessOrEqual}
	nullOps   = []sieve.FilterOperator{sieve.OpIsNull, sieve.OpNotNull}
)

// timestampMappings translates the grammar's camelCase timestamp fields to
// the store's column names.
func timestampMappings() map[string]string {
	return map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	}
}

// Default returns the registry for the marketplace collections.
func Default() (*Registry, error) {
	return New(defaultConfigs()...)
}

func defaultConfigs() []*sieve.ResourceConfig {
	return []*sieve.ResourceConfig{
		{
			Resource:       "products",
			SortableFields: []string{"createdAt", "updatedAt", "name", "price", "rating"},
			FilterableFields: []sieve.FilterableField{
				{Field: "name", Type: sieve.TypeString, Operators: textOps},
				{Field: "status", Type: sieve.TypeString, Operators: []sieve.FilterOperator{sieve.OpEquals, sieve.OpNotEquals, sieve.OpEqualsCI}},
				{Field: "category", Type: sieve.TypeString, Operators: textOps},
				{Field: "shopId", Type: sieve.TypeString, Operators: idOps},
				{Field: "price", Type: sieve.TypeNumber, Operators: numberOps},
				{Field: "rating", Type: sieve.TypeNumber, Operators: numberOps},
				{Field: "featured", Type: sieve.TypeBoolean, Operators: boolOps},
				{Field: "createdAt", Type: sieve.TypeDate, Operators: dateOps},
				{Field: "deletedAt", Type: sieve.TypeDate, Operators: nullOps},
			},
			DefaultSort:     sieve.SortField{Field: "createdAt", Direction: sieve.DirectionDesc},
			MaxPageSize:     100,
			DefaultPageSize: 20,
			FieldMappings:   timestampMappings(),
		},
		{
			Resource:       "shops",
			SortableFields: []string{"createdAt", "name", "rating"},
			FilterableFields: []sieve.FilterableField{
				{Field: "name", Type: sieve.TypeString, Operators: textOps},
				{Field: "status", Type: sieve.TypeString, Operators: []sieve.FilterOperator{sieve.OpEquals, sieve.OpNotEquals}},
				{Field: "ownerId", Type: sieve.TypeString, Operators: idOps},
				{Field: "verified", Type: sieve.TypeBoolean, Operators: boolOps},
				{Field: "rating", Type: sieve.TypeNumber, Operators: numberOps},
			},
			DefaultSort:     sieve.SortField{Field: "createdAt", Direction: sieve.DirectionDesc},
			MaxPageSize:     100,
			DefaultPageSize: 20,
			FieldMappings:   timestampMappings(),
		},
		{
			Resource:       "auctions",
			SortableFields: []string{"createdAt", "endsAt", "startingPrice", "currentBid"},
			FilterableFields: []sieve.FilterableField{
				{Field: "title", Type: sieve.TypeString, Operators: textOps},
				{Field: "status", Type: sieve.TypeString, Operators: []sieve.FilterOperator{sieve.OpEquals, sieve.OpNotEquals}},
				{Field: "sellerId", Type: sieve.TypeString, Operators: idOps},
				{Field: "productId", Type: sieve.TypeString, Operators: idOps},
				{Field: "startingPrice", Type: sieve.TypeNumber, Operators: numberOps},
				{Field: "currentBid", Type: sieve.TypeNumber, Operators: numberOps},
				{Field: "endsAt", Type: sieve.TypeDate, Operators: dateOps},
			},
			DefaultSort:     sieve.SortField{Field: "endsAt", Direction: sieve.DirectionAsc},
			MaxPageSize:     100,
			DefaultPageSize: 20,
			FieldMappings:   timestampMappings(),
		},
		{
			Resource:       "orders",
			SortableFields: []string{"createdAt", "updatedAt", "total"},
			FilterableFields: []sieve.FilterableField{
				{Field: "status", Type: sieve.TypeString, Operators: []sieve.FilterOperator{sieve.OpEquals, sieve.OpNotEquals}},
				{Field: "buyerId", Type: sieve.TypeString, Operators: idOps},
				{Field: "shopId", Type: sieve.TypeString, Operators: idOps},
				{Field: "total", Type: sieve.TypeNumber, Operators: numberOps},
				{Field: "paid", Type: sieve.TypeBoolean, Operators: boolOps},
				{Field: "createdAt", Type: sieve.TypeDate, Operators: dateOps},
			},
			DefaultSort:     sieve.SortField{Field: "createdAt", Direction: sieve.DirectionDesc},
			MaxPageSize:     50,
			DefaultPageSize: 20,
			FieldMappings:   timestampMappings(),
		},
		{
			Resource:       "reviews",
			SortableFields: []string{"createdAt", "rating"},
			FilterableFields: []sieve.FilterableField{
				{Field: "productId", Type: sieve.TypeString, Operators: idOps},
				{Field: "userId", Type: sieve.TypeString, Operators: idOps},
				{Field: "status", Type: sieve.TypeString, Operators: []sieve.FilterOperator{sieve.OpEquals, sieve.OpNotEquals}},
				{Field: "rating", Type: sieve.TypeNumber, Operators: numberOps},
				{Field: "verifiedPurchase", Type: sieve.TypeBoolean, Operators: boolOps},
				{Field: "comment", Type: sieve.TypeString, Operators: []sieve.FilterOperator{sieve.OpContains, sieve.OpContainsCI}},
			},
			DefaultSort:     sieve.SortField{Field: "createdAt", Direction: sieve.DirectionDesc},
			MaxPageSize:     100,
			DefaultPageSize: 20,
			FieldMappings:   timestampMappings(),
		},
		{
			Resource:       "coupons",
			SortableFields: []string{"createdAt", "expiresAt", "discount"},
			FilterableFields: []sieve.FilterableField{
				{Field: "code", Type: sieve.TypeString, Operators: []sieve.FilterOperator{sieve.OpEquals, sieve.OpEqualsCI, sieve.OpStartsWith}},
				{Field: "shopId", Type: sieve.TypeString, Operators: idOps},
				{Field: "active", Type: sieve.TypeBoolean, Operators: boolOps},
				{Field: "discount", Type: sieve.TypeNumber, Operators: numberOps},
				{Field: "expiresAt", Type: sieve.TypeDate, Operators: dateOps},
				{Field: "deletedAt", Type: sieve.TypeDate, Operators: nullOps},
			},
			DefaultSort:     sieve.SortField{Field: "expiresAt", Direction: sieve.DirectionAsc},
			MaxPageSize:     100,
			DefaultPageSize: 20,
			FieldMappings:   timestampMappings(),
		},
		{
			Resource:       "users",
			SortableFields: []string{"createdAt", "name"},
			FilterableFields: []sieve.FilterableField{
				{Field: "email", Type: sieve.TypeString, Operators: []sieve.FilterOperator{sieve.OpEquals, sieve.OpEqualsCI}},
				{Field: "name", Type: sieve.TypeString, Operators: textOps},
				{Field: "role", Type: sieve.TypeString, Operators: []sieve.FilterOperator{sieve.OpEquals, sieve.OpNotEquals}},
				{Field: "banned", Type: sieve.TypeBoolean, Operators: boolOps},
				{Field: "deletedAt", Type: sieve.TypeDate, Operators: nullOps},
			},
			DefaultSort:     sieve.SortField{Field: "createdAt", Direction: sieve.DirectionDesc},
			MaxPageSize:     50,
			DefaultPageSize: 20,
			FieldMappings:   timestampMappings(),
		},
	}
}
