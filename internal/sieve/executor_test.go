package sieve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bazaarlabs/bazaar/internal/store"
)

// fakeCollection returns canned Find results and records the query it saw.
type fakeCollection struct {
	docs      []*store.Document
	total     int
	findErr   error
	lastQuery store.Query
}

func (f *fakeCollection) Get(ctx context.Context, id string) (*store.Document, error) {
	return nil, store.ErrNotFound
}

func (f *fakeCollection) Create(ctx context.Context, doc *store.Document) error { return nil }

func (f *fakeCollection) Update(ctx context.Context, id string, patch map[string]any) error {
	return nil
}

func (f *fakeCollection) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeCollection) Find(ctx context.Context, q store.Query) ([]*store.Document, int, error) {
	f.lastQuery = q
	if f.findErr != nil {
		return nil, 0, f.findErr
	}
	return f.docs, f.total, nil
}

func doc(id string, data map[string]any) *store.Document {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &store.Document{ID: id, Data: data, CreatedAt: now, UpdatedAt: now}
}

func TestExecute_NativeOnly(t *testing.T) {
	cfg := testConfig()
	col := &fakeCollection{
		docs: []*store.Document{
			doc("prd-1", map[string]any{"name": "Widget", "status": "published"}),
			doc("prd-2", map[string]any{"name": "Gadget", "status": "published"}),
		},
		total: 57,
	}

	q := Query{
		Filters:  []FilterCondition{{Field: "status", Operator: OpEquals, Value: "published"}},
		Sorts:    []SortField{{Field: "createdAt", Direction: DirectionDesc}},
		Page:     3,
		PageSize: 20,
	}

	page, err := Execute(context.Background(), col, q, cfg)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if len(page.Data) != 2 {
		t.Fatalf("len(Data) = %d, want 2", len(page.Data))
	}
	if page.Data[0]["id"] != "prd-1" {
		t.Errorf("Data[0][id] = %v", page.Data[0]["id"])
	}
	if page.Total != 57 || page.Page != 3 || page.PageSize != 20 {
		t.Errorf("page = %+v", page)
	}
	if page.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", page.TotalPages)
	}
	if page.ApproximateTotal {
		t.Error("ApproximateTotal should be false without residual filters")
	}

	if col.lastQuery.Limit != 20 || col.lastQuery.Offset != 40 {
		t.Errorf("store query = %+v", col.lastQuery)
	}
	if len(col.lastQuery.Filters) != 1 || col.lastQuery.Filters[0].Field != "status" {
		t.Errorf("store filters = %+v", col.lastQuery.Filters)
	}
	if len(col.lastQuery.Sorts) != 1 || col.lastQuery.Sorts[0] != (store.Sort{Field: "created_at", Desc: true}) {
		t.Errorf("store sorts = %+v", col.lastQuery.Sorts)
	}
}

func TestExecute_ResidualFiltering(t *testing.T) {
	cfg := testConfig()
	col := &fakeCollection{
		docs: []*store.Document{
			doc("prd-1", map[string]any{"name": "Widget"}),
			doc("prd-2", map[string]any{"name": "Gadget"}),
			doc("prd-3", map[string]any{"name": "Widget Pro"}),
		},
		total: 3,
	}

	q := Query{
		Filters:  []FilterCondition{{Field: "name", Operator: OpContains, Value: "Widget"}},
		Page:     1,
		PageSize: 20,
	}

	page, err := Execute(context.Background(), col, q, cfg)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if len(page.Data) != 2 {
		t.Fatalf("len(Data) = %d, want 2 after residual filtering", len(page.Data))
	}
	if page.Data[0]["id"] != "prd-1" || page.Data[1]["id"] != "prd-3" {
		t.Errorf("Data ids = %v, %v", page.Data[0]["id"], page.Data[1]["id"])
	}
	if !page.ApproximateTotal {
		t.Error("ApproximateTotal should be true with residual filters")
	}
	if page.Total != 3 {
		t.Errorf("Total = %d, want the store's pre-residual count", page.Total)
	}

	// Residual filters never reach the store.
	if len(col.lastQuery.Filters) != 0 {
		t.Errorf("store filters = %+v, want none", col.lastQuery.Filters)
	}
}

func TestExecute_RecordMergesMetadata(t *testing.T) {
	cfg := testConfig()
	col := &fakeCollection{
		docs:  []*store.Document{doc("prd-1", map[string]any{"name": "Widget"})},
		total: 1,
	}

	page, err := Execute(context.Background(), col, Query{Page: 1, PageSize: 20}, cfg)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	record := page.Data[0]
	if record["id"] != "prd-1" || record["name"] != "Widget" {
		t.Errorf("record = %v", record)
	}
	if _, ok := record["created_at"]; !ok {
		t.Error("record should carry created_at")
	}
}

func TestExecute_TotalPagesRoundsUp(t *testing.T) {
	cfg := testConfig()
	for _, tc := range []struct {
		total, pageSize, want int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{57, 20, 3},
	} {
		col := &fakeCollection{total: tc.total}
		page, err := Execute(context.Background(), col, Query{Page: 1, PageSize: tc.pageSize}, cfg)
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if page.TotalPages != tc.want {
			t.Errorf("total=%d pageSize=%d: TotalPages = %d, want %d", tc.total, tc.pageSize, page.TotalPages, tc.want)
		}
	}
}

func TestExecute_StoreErrorPropagates(t *testing.T) {
	cfg := testConfig()
	boom := errors.New("connection reset")
	col := &fakeCollection{findErr: boom}

	_, err := Execute(context.Background(), col, Query{Page: 1, PageSize: 20}, cfg)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the store error", err)
	}
}
