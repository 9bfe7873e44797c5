// Package snapshot exports the marketplace collections as JSONL and ships
// the result to one or more destinations on a schedule.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/bazaarlabs/bazaar/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version   string         `json:"version"`
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Counts    map[string]int `json:"counts"`
}

// record wraps a single JSONL line with its collection as discriminator.
type record struct {
	Collection string         `json:"collection"`
	Data       map[string]any `json:"data"`
}

// ExportJSONL writes every document of the given collections from the store
// as JSONL to w. Documents are ordered by ID within each collection so
// exports are diffable.
func ExportJSONL(ctx context.Context, s store.Store, collections []string, w io.Writer) error {
	all := make(map[string][]*store.Document, len(collections))
	counts := make(map[string]int, len(collections))

	for _, name := range collections {
		docs, _, err := s.Collection(name).Find(ctx, store.Query{
			Sorts: []store.Sort{{Field: "id"}},
		})
		if err != nil {
			return fmt.Errorf("list %s: %w", name, err)
		}
		all[name] = docs
		counts[name] = len(docs)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:   "1",
		Type:      "header",
		Timestamp: time.Now().UTC(),
		Counts:    counts,
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, name := range collections {
		for _, doc := range all[name] {
			if err := enc.Encode(record{Collection: name, Data: doc.Record()}); err != nil {
				return fmt.Errorf("encode %s/%s: %w", name, doc.ID, err)
			}
		}
	}

	return nil
}
