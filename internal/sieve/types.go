// Package sieve implements the query grammar used by list endpoints:
// filter conditions, sort fields, and pagination parsed from the request
// query string, planned against the document store, and executed with a
// client-side fallback for operators the store cannot run natively.
package sieve

// FilterOperator identifies one operator from the filter grammar.
type FilterOperator string

const (
	OpEquals         FilterOperator = "=="
	OpNotEquals      FilterOperator = "!="
	OpGreaterThan    FilterOperator = ">"
	OpGreaterOrEqual FilterOperator = ">="
	OpLessThan       FilterOperator = "<"
	OpLessOrEqual    FilterOperator = "<="
	OpContains       FilterOperator = "@="
	OpStartsWith     FilterOperator = "_="
	OpEndsWith       FilterOperator = "_-="
	OpEqualsCI       FilterOperator = "==*"
	OpContainsCI     FilterOperator = "@=*"
	OpStartsWithCI   FilterOperator = "_=*"
	OpIsNull         FilterOperator = "==null"
	OpNotNull        FilterOperator = "!=null"
)

// operatorScanOrder lists every operator in match precedence. Longer
// operators come first so ">=" is never read as ">" plus a value starting
// with "=".
var operatorScanOrder = []FilterOperator{
	OpIsNull, OpNotNull,
	OpEqualsCI, OpContainsCI, OpStartsWithCI,
	OpEndsWith,
	OpGreaterOrEqual, OpLessOrEqual,
	OpEquals, OpNotEquals, OpContains, OpStartsWith,
	OpGreaterThan, OpLessThan,
}

// Sort directions.
const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// FilterCondition is a single parsed filter. Value is a string, float64,
// bool, time.Time, or nil depending on the field's configured type.
type FilterCondition struct {
	Field    string         `json:"field"`
	Operator FilterOperator `json:"operator"`
	Value    any            `json:"value"`
}

// SortField orders results by one field.
type SortField struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// Query is a parsed, validated query. Conditions combine with AND; there is
// no OR or grouping in the grammar.
type Query struct {
	Filters  []FilterCondition
	Sorts    []SortField
	Page     int
	PageSize int
}

// QueryError describes one query-string token that was dropped during
// parsing. Parsing is partial-success: the surviving query is always
// well-formed and the request proceeds.
type QueryError struct {
	Param   string `json:"param"`
	Message string `json:"message"`
}

func (e QueryError) Error() string {
	return e.Param + ": " + e.Message
}

// Page is one page of executed query results.
//
// Total is the store's match count for the native filters only. When any
// residual (client-side) filter was applied, documents may have been
// discarded after the store's limit/offset window, so Total overstates the
// true filtered count; ApproximateTotal is set to flag this.
type Page struct {
	Data             []map[string]any `json:"data"`
	Total            int              `json:"total"`
	Page             int              `json:"page"`
	PageSize         int              `json:"pageSize"`
	TotalPages       int              `json:"totalPages"`
	ApproximateTotal bool             `json:"approximateTotal,omitempty"`
}
