package sieve

import (
	"reflect"
	"strings"
	"time"
)

// IsNativeOperator reports whether the document store can execute the
// operator itself. Everything else is evaluated client-side after fetch.
func IsNativeOperator(op FilterOperator) bool {
	switch op {
	case OpEquals, OpNotEquals, OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual:
		return true
	}
	return false
}

// GetNestedValue reads a dotted path from a record. Missing intermediate
// segments yield (nil, false) rather than an error.
func GetNestedValue(record map[string]any, path string) (any, bool) {
	cur := any(record)
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// EvaluateFilter evaluates one condition against an in-memory record.
// Operators applied to values of the wrong type never panic; they simply
// do not match.
func EvaluateFilter(record map[string]any, c FilterCondition) bool {
	val, present := GetNestedValue(record, c.Field)

	switch c.Operator {
	case OpIsNull:
		return !present || val == nil
	case OpNotNull:
		return present && val != nil
	}

	switch c.Operator {
	case OpEquals:
		return equalValues(val, c.Value)
	case OpNotEquals:
		return !equalValues(val, c.Value)
	case OpGreaterThan:
		cmp, ok := compareValues(val, c.Value)
		return ok && cmp > 0
	case OpGreaterOrEqual:
		cmp, ok := compareValues(val, c.Value)
		return ok && cmp >= 0
	case OpLessThan:
		cmp, ok := compareValues(val, c.Value)
		return ok && cmp < 0
	case OpLessOrEqual:
		cmp, ok := compareValues(val, c.Value)
		return ok && cmp <= 0
	case OpContains:
		s, want, ok := stringPair(val, c.Value)
		return ok && strings.Contains(s, want)
	case OpStartsWith:
		s, want, ok := stringPair(val, c.Value)
		return ok && strings.HasPrefix(s, want)
	case OpEndsWith:
		s, want, ok := stringPair(val, c.Value)
		return ok && strings.HasSuffix(s, want)
	case OpEqualsCI:
		s, want, ok := stringPair(val, c.Value)
		return ok && strings.EqualFold(s, want)
	case OpContainsCI:
		s, want, ok := stringPair(val, c.Value)
		return ok && strings.Contains(strings.ToLower(s), strings.ToLower(want))
	case OpStartsWithCI:
		s, want, ok := stringPair(val, c.Value)
		return ok && strings.HasPrefix(strings.ToLower(s), strings.ToLower(want))
	}
	return false
}

// EvaluateFilters is the logical AND of all conditions. OR and grouping are
// not part of the grammar.
func EvaluateFilters(record map[string]any, conditions []FilterCondition) bool {
	for _, c := range conditions {
		if !EvaluateFilter(record, c) {
			return false
		}
	}
	return true
}

// stringPair extracts both sides of a string-match operator. A non-string
// record value is a non-match, not an error.
func stringPair(val, want any) (string, string, bool) {
	s, ok := val.(string)
	if !ok {
		return "", "", false
	}
	w, ok := want.(string)
	if !ok {
		return "", "", false
	}
	return s, w, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse("2006-01-02", t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := toTime(b); ok {
			return at.Equal(bt)
		}
	}
	if bt, ok := b.(time.Time); ok {
		if at, ok := toTime(a); ok {
			return at.Equal(bt)
		}
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two values when they are both numbers, both
// dates, or both strings. Anything else is incomparable.
func compareValues(a, b any) (int, bool) {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			}
			return 0, true
		}
	}
	if _, ok := a.(time.Time); ok || isTimeComparable(b) {
		if at, ok := toTime(a); ok {
			if bt, ok := toTime(b); ok {
				switch {
				case at.Before(bt):
					return -1, true
				case at.After(bt):
					return 1, true
				}
				return 0, true
			}
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs), true
		}
	}
	return 0, false
}

func isTimeComparable(v any) bool {
	_, ok := v.(time.Time)
	return ok
}
