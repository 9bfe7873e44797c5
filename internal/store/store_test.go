package store

import (
	"testing"
	"time"
)

func TestDocumentRecord(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	doc := &Document{
		ID:        "prd-1",
		Data:      map[string]any{"name": "Widget", "price": 9.5},
		CreatedAt: created,
		UpdatedAt: updated,
	}

	rec := doc.Record()

	if rec["id"] != "prd-1" || rec["name"] != "Widget" || rec["price"] != 9.5 {
		t.Errorf("record = %v", rec)
	}
	if rec["created_at"] != created || rec["updated_at"] != updated {
		t.Errorf("timestamps = %v / %v", rec["created_at"], rec["updated_at"])
	}
	if len(rec) != 5 {
		t.Errorf("len(record) = %d, want 5", len(rec))
	}

	// The record is a copy.
	rec["name"] = "Changed"
	if doc.Data["name"] != "Widget" {
		t.Error("mutating the record must not touch the document")
	}
}

func TestDocumentRecord_BodyKeysWin(t *testing.T) {
	doc := &Document{
		ID:   "prd-1",
		Data: map[string]any{"id": "body-id", "created_at": "body-ts"},
	}

	rec := doc.Record()
	if rec["id"] != "body-id" {
		t.Errorf("id = %v, body keys should win on collision", rec["id"])
	}
	if rec["created_at"] != "body-ts" {
		t.Errorf("created_at = %v", rec["created_at"])
	}
}
