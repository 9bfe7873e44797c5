package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bazaarlabs/bazaar/internal/store"
)

// documentColumns is the column list used for SELECT statements on the
// documents table.
const documentColumns = `id, data, created_at, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateDocument(ctx context.Context, db executor, collection string, doc *store.Document) error {
	data, err := json.Marshal(doc.Data)
	if err != nil {
		return fmt.Errorf("marshal document data: %w", err)
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = now
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		collection, doc.ID, data, doc.CreatedAt, doc.UpdatedAt,
	)
	return err
}

func queryGetDocument(ctx context.Context, db executor, collection, id string) (*store.Document, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return doc, err
}

func queryUpdateDocument(ctx context.Context, db executor, collection, id string, patch map[string]any) error {
	var res sql.Result
	var err error
	if len(patch) == 0 {
		// An empty patch must not reach the || below: nil marshals to the
		// jsonb scalar null, and concatenating a scalar onto an object
		// rewrites the body as a two-element array. Touch updated_at only.
		res, err = db.ExecContext(ctx, `
			UPDATE documents
			SET updated_at = NOW()
			WHERE collection = $1 AND id = $2`,
			collection, id,
		)
	} else {
		var data []byte
		data, err = json.Marshal(patch)
		if err != nil {
			return fmt.Errorf("marshal patch: %w", err)
		}
		res, err = db.ExecContext(ctx, `
			UPDATE documents
			SET data = data || $3::jsonb, updated_at = NOW()
			WHERE collection = $1 AND id = $2`,
			collection, id, data,
		)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func queryDeleteDocument(ctx context.Context, db executor, collection, id string) error {
	res, err := db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func queryFindDocuments(ctx context.Context, db executor, collection string, q store.Query) ([]*store.Document, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	whereClauses = append(whereClauses, "collection = "+nextArg())
	args = append(args, collection)

	for _, f := range q.Filters {
		op, ok := sqlOperator(f.Op)
		if !ok {
			return nil, 0, fmt.Errorf("unsupported native operator %q", f.Op)
		}
		expr, arg := castExpr(fieldExpr(f.Field), f.Value)
		whereClauses = append(whereClauses, fmt.Sprintf("%s %s %s", expr, op, nextArg()))
		args = append(args, arg)
	}

	whereSQL := " WHERE " + strings.Join(whereClauses, " AND ")
	whereArgs := args[:len(args):len(args)]

	// Single query with COUNT(*) OVER() to get total and rows atomically.
	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + documentColumns +
		" FROM documents" + whereSQL + " ORDER BY " + orderClause(q.Sorts)

	if q.Limit > 0 {
		dataQuery += " LIMIT " + nextArg()
		args = append(args, q.Limit)
	}
	if q.Offset > 0 {
		dataQuery += " OFFSET " + nextArg()
		args = append(args, q.Offset)
	}

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("find documents: %w", err)
	}
	defer rows.Close()

	var docs []*store.Document
	var total int
	for rows.Next() {
		doc, t, err := scanDocumentWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan documents: %w", err)
		}
		total = t
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan documents: %w", err)
	}

	// COUNT(*) OVER() only rides along on returned rows. An offset past the
	// last match returns none, so count separately to keep total truthful.
	if len(docs) == 0 && q.Offset > 0 {
		countQuery := "SELECT COUNT(*) FROM documents" + whereSQL
		if err := db.QueryRowContext(ctx, countQuery, whereArgs...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count documents: %w", err)
		}
	}

	return docs, total, nil
}

// sqlOperator maps grammar operators to SQL. Only the native subset is
// accepted; anything else never reaches the store.
func sqlOperator(op string) (string, bool) {
	switch op {
	case "==":
		return "=", true
	case "!=":
		return "<>", true
	case ">", ">=", "<", "<=":
		return op, true
	}
	return "", false
}

// fieldExpr returns the SQL expression for a physical field name. The id
// and timestamp fields are real columns; everything else lives in the data
// JSONB column, with dotted names addressing nested objects.
func fieldExpr(field string) string {
	switch field {
	case "id", "created_at", "updated_at":
		return field
	}
	segments := strings.Split(field, ".")
	if len(segments) == 1 {
		return "data->>" + quoteSegment(segments[0])
	}
	quoted := make([]string, len(segments))
	for i, seg := range segments {
		quoted[i] = sanitizeSegment(seg)
	}
	return "data #>> '{" + strings.Join(quoted, ",") + "}'"
}

// castExpr wraps a JSONB text expression with the cast matching the value's
// type so comparisons are typed, and returns the bind argument.
func castExpr(expr string, value any) (string, any) {
	isColumn := !strings.HasPrefix(expr, "data")
	switch v := value.(type) {
	case float64:
		if isColumn {
			return expr, v
		}
		return "(" + expr + ")::numeric", v
	case bool:
		if isColumn {
			return expr, v
		}
		return "(" + expr + ")::boolean", v
	case time.Time:
		if isColumn {
			return expr, v
		}
		return "(" + expr + ")::timestamptz", v
	case nil:
		return expr, nil
	default:
		return expr, fmt.Sprintf("%v", v)
	}
}

// orderClause builds the ORDER BY expression. Sort fields have already been
// allow-listed by the parser; segments are still sanitized before being
// spliced into the statement. JSONB fields order as text.
func orderClause(sorts []store.Sort) string {
	if len(sorts) == 0 {
		return "created_at DESC"
	}
	clauses := make([]string, 0, len(sorts))
	for _, s := range sorts {
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		clauses = append(clauses, fieldExpr(s.Field)+" "+dir)
	}
	return strings.Join(clauses, ", ")
}

func sanitizeSegment(seg string) string {
	return strings.NewReplacer("'", "", "{", "", "}", "", ",", "").Replace(seg)
}

func quoteSegment(seg string) string {
	return "'" + sanitizeSegment(seg) + "'"
}
