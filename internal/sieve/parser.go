package sieve

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ParseQuery converts raw query-string parameters into a validated Query.
//
// Parsing is partial-success: tokens naming unknown fields, disallowed
// operators, or uncoercible values are dropped and reported in the returned
// errors, while the rest of the query stands. Pagination is clamped and
// defaulted rather than rejected.
func ParseQuery(params url.Values, cfg *ResourceConfig) (Query, []QueryError) {
	var errs []QueryError

	q := Query{
		Page:     parsePage(params.Get("page")),
		PageSize: parsePageSize(params.Get("pageSize"), cfg),
	}

	q.Sorts, errs = parseSorts(params.Get("sorts"), cfg, errs)
	if len(q.Sorts) == 0 {
		q.Sorts = []SortField{cfg.DefaultSort}
	}

	q.Filters, errs = parseFilters(params.Get("filters"), cfg, errs)

	return q, errs
}

func parsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func parsePageSize(raw string, cfg *ResourceConfig) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return cfg.DefaultPageSize
	}
	if n > cfg.MaxPageSize {
		return cfg.MaxPageSize
	}
	return n
}

func parseSorts(raw string, cfg *ResourceConfig, errs []QueryError) ([]SortField, []QueryError) {
	if raw == "" {
		return nil, errs
	}
	var sorts []SortField
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		direction := DirectionAsc
		field := token
		if strings.HasPrefix(token, "-") {
			direction = DirectionDesc
			field = token[1:]
		}
		if !cfg.Sortable(field) {
			errs = append(errs, QueryError{
				Param:   "sorts",
				Message: fmt.Sprintf("field %q is not sortable", field),
			})
			continue
		}
		sorts = append(sorts, SortField{Field: field, Direction: direction})
	}
	return sorts, errs
}

func parseFilters(raw string, cfg *ResourceConfig, errs []QueryError) ([]FilterCondition, []QueryError) {
	if raw == "" {
		return nil, errs
	}
	var filters []FilterCondition
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		field, op, rawValue, ok := splitFilterToken(token)
		if !ok {
			errs = append(errs, QueryError{
				Param:   "filters",
				Message: fmt.Sprintf("token %q has no recognizable operator", token),
			})
			continue
		}

		fieldCfg := cfg.Filterable(field)
		if fieldCfg == nil {
			errs = append(errs, QueryError{
				Param:   "filters",
				Message: fmt.Sprintf("field %q is not filterable", field),
			})
			continue
		}
		if !slices.Contains(fieldCfg.Operators, op) {
			errs = append(errs, QueryError{
				Param:   "filters",
				Message: fmt.Sprintf("operator %s is not allowed on field %q", op, field),
			})
			continue
		}

		condition := FilterCondition{Field: field, Operator: op}
		if op != OpIsNull && op != OpNotNull {
			value, err := coerceValue(rawValue, fieldCfg.Type)
			if err != nil {
				errs = append(errs, QueryError{
					Param:   "filters",
					Message: fmt.Sprintf("field %q: %v", field, err),
				})
				continue
			}
			condition.Value = value
		}
		filters = append(filters, condition)
	}
	return filters, errs
}

// splitFilterToken breaks a "field<operator>value" token apart, trying
// operators longest-first. The null-check operators must terminate the
// token, so "status==nullable" still parses as "==" with value "nullable".
func splitFilterToken(token string) (field string, op FilterOperator, value string, ok bool) {
	for _, candidate := range operatorScanOrder {
		idx := strings.Index(token, string(candidate))
		if idx <= 0 {
			continue
		}
		if candidate == OpIsNull || candidate == OpNotNull {
			if idx+len(candidate) != len(token) {
				continue
			}
			return token[:idx], candidate, "", true
		}
		return token[:idx], candidate, token[idx+len(candidate):], true
	}
	return "", "", "", false
}

func coerceValue(raw string, t FieldType) (any, error) {
	switch t {
	case TypeString:
		return raw, nil
	case TypeNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		return n, nil
	case TypeBoolean:
		switch raw {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("%q is not a boolean", raw)
	case TypeDate:
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			return parsed, nil
		}
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			return parsed, nil
		}
		return nil, fmt.Errorf("%q is not an ISO date", raw)
	}
	return nil, fmt.Errorf("unknown field type %q", t)
}
