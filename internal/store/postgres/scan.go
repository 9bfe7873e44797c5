package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/bazaarlabs/bazaar/internal/store"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanDocument scans a single row into a store.Document.
// The row must contain columns in the order defined by documentColumns.
func scanDocument(row scannable) (*store.Document, error) {
	var doc store.Document
	var data []byte

	if err := row.Scan(&doc.ID, &data, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}

	if err := unmarshalData(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// scanDocumentWithTotal scans a row that has a leading total_count column
// followed by the standard document columns. Used by queryFindDocuments
// with COUNT(*) OVER().
func scanDocumentWithTotal(row scannable) (*store.Document, int, error) {
	var total int
	var doc store.Document
	var data []byte

	if err := row.Scan(&total, &doc.ID, &data, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, 0, err
	}

	if err := unmarshalData(data, &doc); err != nil {
		return nil, 0, err
	}
	return &doc, total, nil
}

func unmarshalData(data []byte, doc *store.Document) error {
	doc.Data = make(map[string]any)
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &doc.Data); err != nil {
		return fmt.Errorf("unmarshal document %s: %w", doc.ID, err)
	}
	return nil
}
