package sieve

import (
	"fmt"

	"github.com/bazaarlabs/bazaar/internal/store"
)

// ResidualFilter is a condition the store cannot execute natively; it is
// evaluated in memory after the page is fetched. The condition carries the
// physical field name so it can be applied directly to raw documents.
type ResidualFilter struct {
	Condition FilterCondition
	Reason    string
}

// QueryPlan splits a query into the native store query and the residual
// client-side filters. Native filters preserve the query's condition order.
type QueryPlan struct {
	Native   []store.Filter
	Residual []ResidualFilter
	Sorts    []SortField
	Limit    int
	Offset   int
}

// BuildPlan translates a parsed query for execution against the store.
//
// Field mappings are applied to every condition before the native/residual
// split. Duplicate conditions on the same field pass through uncombined,
// even when contradictory; the grammar is AND-only and query sanity is the
// caller's concern. Pages are 1-based in the grammar and become a 0-based
// offset here.
func BuildPlan(q Query, cfg *ResourceConfig) QueryPlan {
	plan := QueryPlan{
		Sorts:  q.Sorts,
		Limit:  q.PageSize,
		Offset: (q.Page - 1) * q.PageSize,
	}

	for _, f := range q.Filters {
		field := cfg.Physical(f.Field)
		if IsNativeOperator(f.Operator) {
			plan.Native = append(plan.Native, store.Filter{
				Field: field,
				Op:    string(f.Operator),
				Value: f.Value,
			})
			continue
		}
		plan.Residual = append(plan.Residual, ResidualFilter{
			Condition: FilterCondition{Field: field, Operator: f.Operator, Value: f.Value},
			Reason:    fmt.Sprintf("operator %s is not supported by the store", f.Operator),
		})
	}

	if cfg != nil && len(cfg.FieldMappings) > 0 {
		plan.Sorts = mapSorts(q.Sorts, cfg)
	}

	return plan
}

// mapSorts applies field mappings to sort fields, returning the original
// slice untouched when nothing maps.
func mapSorts(sorts []SortField, cfg *ResourceConfig) []SortField {
	changed := false
	for _, s := range sorts {
		if cfg.Physical(s.Field) != s.Field {
			changed = true
			break
		}
	}
	if !changed {
		return sorts
	}
	mapped := make([]SortField, len(sorts))
	for i, s := range sorts {
		mapped[i] = SortField{Field: cfg.Physical(s.Field), Direction: s.Direction}
	}
	return mapped
}

// StoreQuery assembles the native query sent to the store.
func (p QueryPlan) StoreQuery() store.Query {
	sq := store.Query{
		Filters: p.Native,
		Limit:   p.Limit,
		Offset:  p.Offset,
	}
	for _, s := range p.Sorts {
		sq.Sorts = append(sq.Sorts, store.Sort{Field: s.Field, Desc: s.Direction == DirectionDesc})
	}
	return sq
}

// ResidualConditions returns just the conditions for evaluation.
func (p QueryPlan) ResidualConditions() []FilterCondition {
	if len(p.Residual) == 0 {
		return nil
	}
	conditions := make([]FilterCondition, len(p.Residual))
	for i, r := range p.Residual {
		conditions[i] = r.Condition
	}
	return conditions
}
