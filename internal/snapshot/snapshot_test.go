package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bazaarlabs/bazaar/internal/store"
)

// fixedCollection returns canned documents for Find.
type fixedCollection struct {
	docs    []*store.Document
	findErr error
}

func (c *fixedCollection) Get(ctx context.Context, id string) (*store.Document, error) {
	return nil, store.ErrNotFound
}

func (c *fixedCollection) Create(ctx context.Context, doc *store.Document) error { return nil }

func (c *fixedCollection) Update(ctx context.Context, id string, patch map[string]any) error {
	return nil
}

func (c *fixedCollection) Delete(ctx context.Context, id string) error { return nil }

func (c *fixedCollection) Find(ctx context.Context, q store.Query) ([]*store.Document, int, error) {
	if c.findErr != nil {
		return nil, 0, c.findErr
	}
	return c.docs, len(c.docs), nil
}

type fixedStore struct {
	collections map[string]*fixedCollection
}

func (s *fixedStore) Collection(name string) store.Collection {
	if c, ok := s.collections[name]; ok {
		return c
	}
	return &fixedCollection{}
}

func (s *fixedStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

func (s *fixedStore) Close() error { return nil }

func exportDoc(id string, data map[string]any) *store.Document {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &store.Document{ID: id, Data: data, CreatedAt: now, UpdatedAt: now}
}

func TestExportJSONL(t *testing.T) {
	st := &fixedStore{collections: map[string]*fixedCollection{
		"products": {docs: []*store.Document{
			exportDoc("prd-1", map[string]any{"name": "Widget"}),
			exportDoc("prd-2", map[string]any{"name": "Gadget"}),
		}},
		"shops": {docs: []*store.Document{
			exportDoc("shp-1", map[string]any{"name": "Gadget Hut"}),
		}},
	}}

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), st, []string{"products", "shops"}, &buf); err != nil {
		t.Fatalf("ExportJSONL error: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var lines []map[string]any
	for scanner.Scan() {
		var line map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("line %d is not JSON: %v", len(lines), err)
		}
		lines = append(lines, line)
	}

	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header plus 3 records", len(lines))
	}

	head := lines[0]
	if head["type"] != "header" || head["version"] != "1" {
		t.Errorf("header = %v", head)
	}
	counts := head["counts"].(map[string]any)
	if counts["products"] != float64(2) || counts["shops"] != float64(1) {
		t.Errorf("counts = %v", counts)
	}

	first := lines[1]
	if first["collection"] != "products" {
		t.Errorf("lines[1] = %v", first)
	}
	data := first["data"].(map[string]any)
	if data["id"] != "prd-1" || data["name"] != "Widget" {
		t.Errorf("data = %v", data)
	}

	if lines[3]["collection"] != "shops" {
		t.Errorf("lines[3] = %v, collections should export in order", lines[3])
	}
}

func TestExportJSONL_StoreError(t *testing.T) {
	st := &fixedStore{collections: map[string]*fixedCollection{
		"products": {findErr: errors.New("connection reset")},
	}}

	var buf bytes.Buffer
	err := ExportJSONL(context.Background(), st, []string{"products"}, &buf)
	if err == nil || !strings.Contains(err.Error(), "list products") {
		t.Fatalf("err = %v", err)
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written on failure")
	}
}

func TestFileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.jsonl")
	dest := NewFileDestination(path)

	if err := dest.Write(context.Background(), []byte("first\n")); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if err := dest.Write(context.Background(), []byte("second\n")); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "second\n" {
		t.Errorf("content = %q, want the latest snapshot", got)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("dir entries = %d, want just the snapshot", len(entries))
	}
}

func TestScheduler_RunsImmediately(t *testing.T) {
	st := &fixedStore{collections: map[string]*fixedCollection{
		"products": {docs: []*store.Document{exportDoc("prd-1", map[string]any{"name": "Widget"})}},
	}}
	path := filepath.Join(t.TempDir(), "backup.jsonl")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	sched := NewScheduler(st, []string{"products"}, []Destination{NewFileDestination(path)}, time.Hour, logger)
	sched.Start()
	defer sched.Stop()

	deadline := time.After(2 * time.Second)
	for {
		if _, err := os.Stat(path); err == nil {
			break
		}
		select {
		case <-deadline:
			t.Fatal("initial snapshot never appeared")
		case <-time.After(10 * time.Millisecond):
		}
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), `"prd-1"`) {
		t.Errorf("snapshot content = %q", got)
	}
}
