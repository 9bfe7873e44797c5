package bulk

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/bazaarlabs/bazaar/internal/store"
)

func TestLookup(t *testing.T) {
	tr, ok := Lookup("products", "publish")
	if !ok || tr.Action != "publish" {
		t.Fatalf("Lookup(products, publish) = %+v, %v", tr, ok)
	}
	if !reflect.DeepEqual(tr.From, []string{"draft", "unpublished"}) {
		t.Errorf("From = %v", tr.From)
	}

	if _, ok := Lookup("products", "teleport"); ok {
		t.Error("unknown action should not resolve")
	}
	if _, ok := Lookup("widgets", "publish"); ok {
		t.Error("unknown collection should not resolve")
	}
}

func TestActions(t *testing.T) {
	got := Actions("orders")
	want := []string{"ship", "cancel"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Actions(orders) = %v, want %v", got, want)
	}
	if len(Actions("widgets")) != 0 {
		t.Errorf("Actions(widgets) = %v, want empty", Actions("widgets"))
	}
}

func TestTransitionValidateItem(t *testing.T) {
	publish, _ := Lookup("products", "publish")

	for _, tc := range []struct {
		name   string
		status any
		want   bool
	}{
		{"FromDraft", "draft", true},
		{"FromUnpublished", "unpublished", true},
		{"FromPublished", "published", false},
		{"MissingStatus", nil, false},
		{"NonStringStatus", 42, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			doc := &store.Document{ID: "prd-1", Data: map[string]any{"status": tc.status}}
			v := publish.ValidateItem(doc, "publish")
			if v.Valid != tc.want {
				t.Errorf("Valid = %v, want %v (error %q)", v.Valid, tc.want, v.Error)
			}
			if !tc.want && v.Error == "" {
				t.Error("rejection should carry a message")
			}
		})
	}

	// No From list means any status is eligible.
	feature, _ := Lookup("products", "feature")
	doc := &store.Document{ID: "prd-1", Data: map[string]any{"status": "archived"}}
	if v := feature.ValidateItem(doc, "feature"); !v.Valid {
		t.Errorf("feature should apply regardless of status: %+v", v)
	}
}

func TestTransitionApply(t *testing.T) {
	doc := &store.Document{ID: "prd-1", Data: map[string]any{"status": "draft"}}

	publish, _ := Lookup("products", "publish")
	patch := publish.Apply(doc)
	if patch["status"] != "published" {
		t.Errorf("patch = %v", patch)
	}
	stamp, ok := patch["publishedAt"].(string)
	if !ok {
		t.Fatalf("publishedAt = %v", patch["publishedAt"])
	}
	if _, err := time.Parse(time.RFC3339, stamp); err != nil {
		t.Errorf("publishedAt %q is not RFC3339: %v", stamp, err)
	}

	ban, _ := Lookup("users", "ban")
	if patch := ban.Apply(doc); patch["banned"] != true {
		t.Errorf("ban patch = %v", patch)
	}

	deactivate, _ := Lookup("coupons", "deactivate")
	if patch := deactivate.Apply(doc); patch["active"] != false {
		t.Errorf("deactivate patch = %v", patch)
	}

	del, _ := Lookup("products", "delete")
	patch = del.Apply(doc)
	if _, ok := patch["deletedAt"].(string); !ok {
		t.Errorf("delete patch = %v", patch)
	}
	if _, present := patch["status"]; present {
		t.Errorf("delete should not touch status: %v", patch)
	}
}

func TestOperationFor(t *testing.T) {
	op, ok := OperationFor("auctions", "start", []string{"auc-1"}, map[string]any{"note": "go"})
	if !ok {
		t.Fatal("OperationFor(auctions, start) should resolve")
	}
	if op.Collection != "auctions" || op.Action != "start" || op.ValidateItem == nil || op.Patch == nil {
		t.Fatalf("op = %+v", op)
	}

	if _, ok := OperationFor("auctions", "explode", nil, nil); ok {
		t.Error("unknown action should not build an operation")
	}
}

func TestOperationFor_PatchMergesRequestData(t *testing.T) {
	s := newMemStore()
	s.col("auctions").docs["auc-1"] = &store.Document{ID: "auc-1", Data: map[string]any{"status": "scheduled"}}

	op, _ := OperationFor("auctions", "start", []string{"auc-1"}, map[string]any{"startedBy": "usr-1"})
	result := Execute(context.Background(), s, op)
	if !result.Success || result.SuccessCount != 1 {
		t.Fatalf("result = %+v", result)
	}

	updates := s.col("auctions").updates
	if len(updates) != 1 {
		t.Fatalf("updates = %+v", updates)
	}
	patch := updates[0].patch
	if patch["status"] != "live" {
		t.Errorf("patch status = %v", patch["status"])
	}
	if _, ok := patch["startedAt"]; !ok {
		t.Error("patch should carry startedAt")
	}
	if patch["startedBy"] != "usr-1" {
		t.Errorf("request data should merge over the transition patch: %v", patch)
	}
}

func TestOperationFor_TransitionRejection(t *testing.T) {
	s := newMemStore()
	s.col("orders").docs["ord-1"] = &store.Document{ID: "ord-1", Data: map[string]any{"status": "shipped"}}

	op, _ := OperationFor("orders", "cancel", []string{"ord-1"}, nil)
	result := Execute(context.Background(), s, op)

	if result.Success {
		t.Error("cancel on a shipped order should fail")
	}
	if result.Errors[0].Error != `Cannot cancel item with status "shipped"` {
		t.Errorf("Errors[0] = %+v", result.Errors[0])
	}
	if len(s.col("orders").updates) != 0 {
		t.Errorf("updates = %+v", s.col("orders").updates)
	}
}
