package sieve

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// BuildQueryString serializes a query back into its query-string form, the
// inverse of ParseQuery for queries built from allowed fields and
// operators. Values containing commas cannot round-trip; the grammar has no
// escaping.
func BuildQueryString(q Query) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("pageSize", strconv.Itoa(q.PageSize))

	if len(q.Sorts) > 0 {
		tokens := make([]string, 0, len(q.Sorts))
		for _, s := range q.Sorts {
			if s.Direction == DirectionDesc {
				tokens = append(tokens, "-"+s.Field)
			} else {
				tokens = append(tokens, s.Field)
			}
		}
		v.Set("sorts", strings.Join(tokens, ","))
	}

	if len(q.Filters) > 0 {
		tokens := make([]string, 0, len(q.Filters))
		for _, f := range q.Filters {
			tokens = append(tokens, f.Field+string(f.Operator)+formatValue(f))
		}
		v.Set("filters", strings.Join(tokens, ","))
	}

	return v.Encode()
}

func formatValue(f FilterCondition) string {
	if f.Operator == OpIsNull || f.Operator == OpNotNull {
		return ""
	}
	switch val := f.Value.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case nil:
		return ""
	}
	return ""
}
