package sieve

import (
	"fmt"
	"slices"
)

// FieldType declares how raw filter values are coerced for a field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeDate    FieldType = "date"
)

// FilterableField allows filtering on one field with a subset of operators.
type FilterableField struct {
	Field     string
	Type      FieldType
	Operators []FilterOperator
}

// ResourceConfig is the per-resource query configuration. Instances are
// built once at startup, validated, and never mutated afterwards, so they
// are safe for concurrent reads from any number of requests.
type ResourceConfig struct {
	Resource         string
	SortableFields   []string
	FilterableFields []FilterableField
	DefaultSort      SortField
	MaxPageSize      int
	DefaultPageSize  int

	// FieldMappings translates logical field names in the grammar to the
	// physical names used by the store (e.g. createdAt -> created_at).
	FieldMappings map[string]string
}

var comparisonOperators = []FilterOperator{
	OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual,
}

var stringMatchOperators = []FilterOperator{
	OpContains, OpStartsWith, OpEndsWith, OpEqualsCI, OpContainsCI, OpStartsWithCI,
}

// Validate checks the config's internal consistency. Called at registry
// construction so misconfiguration fails at startup, not per-request.
func (c *ResourceConfig) Validate() error {
	if c.Resource == "" {
		return fmt.Errorf("resource name is required")
	}
	if c.MaxPageSize < 1 {
		return fmt.Errorf("%s: maxPageSize must be at least 1", c.Resource)
	}
	if c.DefaultPageSize < 1 || c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("%s: defaultPageSize must be in [1, %d]", c.Resource, c.MaxPageSize)
	}
	if !slices.Contains(c.SortableFields, c.DefaultSort.Field) {
		return fmt.Errorf("%s: default sort field %q is not sortable", c.Resource, c.DefaultSort.Field)
	}
	if c.DefaultSort.Direction != DirectionAsc && c.DefaultSort.Direction != DirectionDesc {
		return fmt.Errorf("%s: default sort direction %q is invalid", c.Resource, c.DefaultSort.Direction)
	}
	for _, f := range c.FilterableFields {
		for _, op := range f.Operators {
			if slices.Contains(comparisonOperators, op) && f.Type != TypeNumber && f.Type != TypeDate {
				return fmt.Errorf("%s: field %q: operator %s requires a number or date field, got %s",
					c.Resource, f.Field, op, f.Type)
			}
			if slices.Contains(stringMatchOperators, op) && f.Type != TypeString {
				return fmt.Errorf("%s: field %q: operator %s requires a string field, got %s",
					c.Resource, f.Field, op, f.Type)
			}
		}
	}
	return nil
}

// Filterable returns the config for a filterable field, or nil.
func (c *ResourceConfig) Filterable(field string) *FilterableField {
	for i := range c.FilterableFields {
		if c.FilterableFields[i].Field == field {
			return &c.FilterableFields[i]
		}
	}
	return nil
}

// Sortable reports whether field may be sorted on.
func (c *ResourceConfig) Sortable(field string) bool {
	return slices.Contains(c.SortableFields, field)
}

// Physical maps a logical field name to its store name.
func (c *ResourceConfig) Physical(field string) string {
	if c == nil || c.FieldMappings == nil {
		return field
	}
	if mapped, ok := c.FieldMappings[field]; ok {
		return mapped
	}
	return field
}
