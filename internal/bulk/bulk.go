// Package bulk applies a named action to a batch of documents, either
// best-effort with per-item failure isolation or all-or-nothing inside a
// single store transaction.
package bulk

import (
	"context"
	"errors"
	"fmt"

	"github.com/bazaarlabs/bazaar/internal/store"
)

// MaxItems is the ceiling on IDs accepted by one bulk operation.
const MaxItems = 500

// ItemError records one failed item.
type ItemError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// Validation is the outcome of a per-item eligibility check.
type Validation struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Operation describes one bulk mutation. Exactly one of Handler or the
// default merge-update of Data runs per item.
type Operation struct {
	Collection string
	Action     string
	IDs        []string

	// Data is merged into each document by the default handler, alongside
	// a refreshed updated_at.
	Data map[string]any

	// Patch, when set, derives the per-document merge patch; Data is
	// merged over its result so request fields win. Both execution modes
	// honor it.
	Patch func(doc *store.Document) map[string]any

	// ValidateItem, when set, decides whether a fetched document is
	// eligible for the action before any write happens.
	ValidateItem func(doc *store.Document, action string) Validation

	// Handler, when set, replaces the default merge-update for each item.
	Handler func(ctx context.Context, st store.Store, id string, doc *store.Document) error
}

// patchFor resolves the merge patch for one document.
func (op Operation) patchFor(doc *store.Document) map[string]any {
	if op.Patch == nil {
		return op.Data
	}
	patch := op.Patch(doc)
	for k, v := range op.Data {
		patch[k] = v
	}
	return patch
}

// Result aggregates per-item outcomes into a single report.
type Result struct {
	Success      bool        `json:"success"`
	SuccessCount int         `json:"successCount"`
	FailedCount  int         `json:"failedCount"`
	Errors       []ItemError `json:"errors,omitempty"`
	Message      string      `json:"message"`
}

// Execute runs a best-effort bulk operation: items are processed
// sequentially in input order and one item's failure never blocks the
// rest. The result is Success when at least one item succeeded.
func Execute(ctx context.Context, st store.Store, op Operation) *Result {
	if rejected := guard(op); rejected != nil {
		return rejected
	}

	col := st.Collection(op.Collection)
	result := &Result{}

	for _, id := range op.IDs {
		doc, err := col.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			result.fail(id, "Item not found")
			continue
		}
		if err != nil {
			result.fail(id, operationError(err))
			continue
		}

		if op.ValidateItem != nil {
			if v := op.ValidateItem(doc, op.Action); !v.Valid {
				msg := v.Error
				if msg == "" {
					msg = "Validation failed"
				}
				result.fail(id, msg)
				continue
			}
		}

		if op.Handler != nil {
			err = op.Handler(ctx, st, id, doc)
		} else {
			err = col.Update(ctx, id, op.patchFor(doc))
		}
		if err != nil {
			result.fail(id, operationError(err))
			continue
		}
		result.SuccessCount++
	}

	result.Success = result.SuccessCount > 0
	result.Message = fmt.Sprintf("%d item(s) %s successfully", result.SuccessCount, op.Action)
	if result.FailedCount > 0 {
		result.Message += fmt.Sprintf(", %d failed", result.FailedCount)
	}
	return result
}

// ExecuteInTransaction runs the operation atomically: all documents are
// read and verified first, then every one is written. Any failure rolls
// the whole batch back and the result reports a single synthetic "all"
// error.
func ExecuteInTransaction(ctx context.Context, st store.Store, op Operation) *Result {
	if rejected := guard(op); rejected != nil {
		return rejected
	}

	err := st.RunInTransaction(ctx, func(tx store.Store) error {
		col := tx.Collection(op.Collection)

		docs := make([]*store.Document, 0, len(op.IDs))
		for _, id := range op.IDs {
			doc, err := col.Get(ctx, id)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("item not found: %s", id)
			}
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}

		for i, id := range op.IDs {
			if op.ValidateItem != nil {
				if v := op.ValidateItem(docs[i], op.Action); !v.Valid {
					msg := v.Error
					if msg == "" {
						msg = "Validation failed"
					}
					return fmt.Errorf("item %s: %s", id, msg)
				}
			}
			if op.Handler != nil {
				if err := op.Handler(ctx, tx, id, docs[i]); err != nil {
					return err
				}
				continue
			}
			if err := col.Update(ctx, id, op.patchFor(docs[i])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &Result{
			Success:     false,
			FailedCount: len(op.IDs),
			Errors:      []ItemError{{ID: "all", Error: err.Error()}},
			Message:     "Bulk operation failed",
		}
	}

	return &Result{
		Success:      true,
		SuccessCount: len(op.IDs),
		Message:      fmt.Sprintf("%d item(s) %s successfully", len(op.IDs), op.Action),
	}
}

// guard rejects whole operations before any store call is made.
func guard(op Operation) *Result {
	if len(op.IDs) == 0 {
		return &Result{Success: false, Message: "No item IDs provided"}
	}
	if len(op.IDs) > MaxItems {
		return &Result{
			Success: false,
			Message: fmt.Sprintf("Too many items: %d exceeds the maximum of %d", len(op.IDs), MaxItems),
		}
	}
	return nil
}

func (r *Result) fail(id, msg string) {
	r.FailedCount++
	r.Errors = append(r.Errors, ItemError{ID: id, Error: msg})
}

func operationError(err error) string {
	if err == nil || err.Error() == "" {
		return "Operation failed"
	}
	return err.Error()
}
