package sieve

import (
	"context"

	"github.com/bazaarlabs/bazaar/internal/store"
)

// Execute runs a parsed query against a collection: the native portion of
// the plan goes to the store with the page's limit/offset, then residual
// filters are applied in memory to the fetched page.
//
// Total policy: Total is the store's count for the native filters. Residual
// filtering can discard documents after the store has already windowed the
// page, so when any residual filter is active the page may hold fewer than
// PageSize items and Total is an upper bound, flagged via ApproximateTotal.
// Store errors propagate to the caller unretried.
func Execute(ctx context.Context, col store.Collection, q Query, cfg *ResourceConfig) (*Page, error) {
	plan := BuildPlan(q, cfg)

	docs, total, err := col.Find(ctx, plan.StoreQuery())
	if err != nil {
		return nil, err
	}

	residual := plan.ResidualConditions()
	data := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		record := doc.Record()
		if EvaluateFilters(record, residual) {
			data = append(data, record)
		}
	}

	totalPages := 0
	if q.PageSize > 0 {
		totalPages = (total + q.PageSize - 1) / q.PageSize
	}

	return &Page{
		Data:             data,
		Total:            total,
		Page:             q.Page,
		PageSize:         q.PageSize,
		TotalPages:       totalPages,
		ApproximateTotal: len(residual) > 0,
	}, nil
}
