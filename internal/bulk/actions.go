package bulk

import (
	"fmt"
	"slices"
	"time"

	"github.com/bazaarlabs/bazaar/internal/store"
)

// Transition is one named action on a collection: the statuses it may be
// applied from and the patch it produces. An empty From list means the
// action applies regardless of current status.
type Transition struct {
	Action string
	From   []string
	Apply  func(doc *store.Document) map[string]any
}

// ValidateItem checks a document's current status against the transition's
// allowed source states. It matches the Operation.ValidateItem signature.
func (t *Transition) ValidateItem(doc *store.Document, action string) Validation {
	if len(t.From) == 0 {
		return Validation{Valid: true}
	}
	status, _ := doc.Data["status"].(string)
	if !slices.Contains(t.From, status) {
		return Validation{
			Valid: false,
			Error: fmt.Sprintf("Cannot %s item with status %q", action, status),
		}
	}
	return Validation{Valid: true}
}

func statusPatch(status string) func(*store.Document) map[string]any {
	return func(*store.Document) map[string]any {
		return map[string]any{"status": status}
	}
}

func fieldPatch(field string, value any) func(*store.Document) map[string]any {
	return func(*store.Document) map[string]any {
		return map[string]any{field: value}
	}
}

func stamped(status, tsField string) func(*store.Document) map[string]any {
	return func(*store.Document) map[string]any {
		return map[string]any{
			"status": status,
			tsField:  time.Now().UTC().Format(time.RFC3339),
		}
	}
}

// transitions maps collection name to its known actions. Actions absent
// here are rejected by OperationFor rather than silently merged.
var transitions = map[string][]Transition{
	"products": {
		{Action: "publish", From: []string{"draft", "unpublished"}, Apply: stamped("published", "publishedAt")},
		{Action: "unpublish", From: []string{"published"}, Apply: statusPatch("unpublished")},
		{Action: "archive", Apply: statusPatch("archived")},
		{Action: "feature", Apply: fieldPatch("featured", true)},
		{Action: "unfeature", Apply: fieldPatch("featured", false)},
		{Action: "delete", Apply: func(*store.Document) map[string]any {
			return map[string]any{"deletedAt": time.Now().UTC().Format(time.RFC3339)}
		}},
	},
	"auctions": {
		{Action: "schedule", From: []string{"draft"}, Apply: statusPatch("scheduled")},
		{Action: "start", From: []string{"scheduled"}, Apply: stamped("live", "startedAt")},
		{Action: "end", From: []string{"live"}, Apply: stamped("ended", "endedAt")},
		{Action: "cancel", From: []string{"draft", "scheduled", "live"}, Apply: statusPatch("cancelled")},
	},
	"orders": {
		{Action: "ship", From: []string{"paid", "processing"}, Apply: stamped("shipped", "shippedAt")},
		{Action: "cancel", From: []string{"pending", "paid"}, Apply: statusPatch("cancelled")},
	},
	"reviews": {
		{Action: "approve", From: []string{"pending"}, Apply: statusPatch("approved")},
		{Action: "reject", From: []string{"pending"}, Apply: statusPatch("rejected")},
	},
	"coupons": {
		{Action: "activate", Apply: fieldPatch("active", true)},
		{Action: "deactivate", Apply: fieldPatch("active", false)},
	},
	"users": {
		{Action: "ban", Apply: fieldPatch("banned", true)},
		{Action: "unban", Apply: fieldPatch("banned", false)},
	},
}

// Lookup finds the transition for a collection/action pair.
func Lookup(collection, action string) (*Transition, bool) {
	for i := range transitions[collection] {
		if transitions[collection][i].Action == action {
			return &transitions[collection][i], true
		}
	}
	return nil, false
}

// Actions lists the action names known for a collection.
func Actions(collection string) []string {
	names := make([]string, 0, len(transitions[collection]))
	for _, t := range transitions[collection] {
		names = append(names, t.Action)
	}
	return names
}

// OperationFor builds a bulk operation for a named action on a collection,
// wiring the transition table in as validator and patch source. Fields in
// data are merged over the transition's patch. Returns false when the
// collection has no such action.
func OperationFor(collection, action string, ids []string, data map[string]any) (Operation, bool) {
	t, ok := Lookup(collection, action)
	if !ok {
		return Operation{}, false
	}
	return Operation{
		Collection:   collection,
		Action:       action,
		IDs:          ids,
		Data:         data,
		Patch:        t.Apply,
		ValidateItem: t.ValidateItem,
	}, true
}
