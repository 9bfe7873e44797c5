package sieve

import (
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestParseQuery_Pagination(t *testing.T) {
	cfg := testConfig()

	for _, tc := range []struct {
		name         string
		page         string
		pageSize     string
		wantPage     int
		wantPageSize int
	}{
		{"Defaults", "", "", 1, 20},
		{"Explicit", "3", "50", 3, 50},
		{"ZeroPage", "0", "", 1, 20},
		{"NegativePage", "-2", "", 1, 20},
		{"NonNumericPage", "abc", "", 1, 20},
		{"ZeroPageSize", "", "0", 1, 20},
		{"OversizedPageSize", "", "5000", 1, 100},
		{"NonNumericPageSize", "", "lots", 1, 20},
	} {
		t.Run(tc.name, func(t *testing.T) {
			params := url.Values{}
			if tc.page != "" {
				params.Set("page", tc.page)
			}
			if tc.pageSize != "" {
				params.Set("pageSize", tc.pageSize)
			}

			q, errs := ParseQuery(params, cfg)
			if len(errs) != 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if q.Page != tc.wantPage {
				t.Errorf("Page = %d, want %d", q.Page, tc.wantPage)
			}
			if q.PageSize != tc.wantPageSize {
				t.Errorf("PageSize = %d, want %d", q.PageSize, tc.wantPageSize)
			}
		})
	}
}

func TestParseQuery_Sorts(t *testing.T) {
	cfg := testConfig()

	t.Run("DefaultWhenAbsent", func(t *testing.T) {
		q, errs := ParseQuery(url.Values{}, cfg)
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		want := []SortField{{Field: "createdAt", Direction: DirectionDesc}}
		if len(q.Sorts) != 1 || q.Sorts[0] != want[0] {
			t.Errorf("Sorts = %v, want %v", q.Sorts, want)
		}
	})

	t.Run("MultipleWithDirections", func(t *testing.T) {
		params := url.Values{"sorts": {"-price,name"}}
		q, errs := ParseQuery(params, cfg)
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if len(q.Sorts) != 2 {
			t.Fatalf("len(Sorts) = %d, want 2", len(q.Sorts))
		}
		if q.Sorts[0] != (SortField{Field: "price", Direction: DirectionDesc}) {
			t.Errorf("Sorts[0] = %v", q.Sorts[0])
		}
		if q.Sorts[1] != (SortField{Field: "name", Direction: DirectionAsc}) {
			t.Errorf("Sorts[1] = %v", q.Sorts[1])
		}
	})

	t.Run("UnknownFieldDroppedWithError", func(t *testing.T) {
		params := url.Values{"sorts": {"rating,-price"}}
		q, errs := ParseQuery(params, cfg)
		if len(errs) != 1 {
			t.Fatalf("errs = %v, want one", errs)
		}
		if errs[0].Param != "sorts" || !strings.Contains(errs[0].Message, `"rating"`) {
			t.Errorf("error = %+v", errs[0])
		}
		if len(q.Sorts) != 1 || q.Sorts[0].Field != "price" {
			t.Errorf("Sorts = %v, want just price", q.Sorts)
		}
	})

	t.Run("AllDroppedFallsBackToDefault", func(t *testing.T) {
		params := url.Values{"sorts": {"rating"}}
		q, errs := ParseQuery(params, cfg)
		if len(errs) != 1 {
			t.Fatalf("errs = %v, want one", errs)
		}
		if len(q.Sorts) != 1 || q.Sorts[0].Field != "createdAt" {
			t.Errorf("Sorts = %v, want default", q.Sorts)
		}
	})
}

func TestParseQuery_Filters(t *testing.T) {
	cfg := testConfig()

	t.Run("NativeAndResidual", func(t *testing.T) {
		params := url.Values{"filters": {"status==published,price>=10.5,name@=widg"}}
		q, errs := ParseQuery(params, cfg)
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if len(q.Filters) != 3 {
			t.Fatalf("len(Filters) = %d, want 3", len(q.Filters))
		}
		if q.Filters[0] != (FilterCondition{Field: "status", Operator: OpEquals, Value: "published"}) {
			t.Errorf("Filters[0] = %+v", q.Filters[0])
		}
		if q.Filters[1] != (FilterCondition{Field: "price", Operator: OpGreaterOrEqual, Value: 10.5}) {
			t.Errorf("Filters[1] = %+v", q.Filters[1])
		}
		if q.Filters[2] != (FilterCondition{Field: "name", Operator: OpContains, Value: "widg"}) {
			t.Errorf("Filters[2] = %+v", q.Filters[2])
		}
	})

	t.Run("BooleanAndDateCoercion", func(t *testing.T) {
		params := url.Values{"filters": {"featured==true,createdAt>2024-01-15"}}
		q, errs := ParseQuery(params, cfg)
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if q.Filters[0].Value != true {
			t.Errorf("Filters[0].Value = %v, want true", q.Filters[0].Value)
		}
		want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		if ts, ok := q.Filters[1].Value.(time.Time); !ok || !ts.Equal(want) {
			t.Errorf("Filters[1].Value = %v, want %v", q.Filters[1].Value, want)
		}
	})

	t.Run("NullOperatorsCarryNoValue", func(t *testing.T) {
		params := url.Values{"filters": {"deletedAt==null"}}
		q, errs := ParseQuery(params, cfg)
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if q.Filters[0].Operator != OpIsNull || q.Filters[0].Value != nil {
			t.Errorf("Filters[0] = %+v", q.Filters[0])
		}
	})

	t.Run("NullSuffixIsNotNullOperator", func(t *testing.T) {
		// "==null" only counts when it ends the token.
		params := url.Values{"filters": {"status==nullable"}}
		q, errs := ParseQuery(params, cfg)
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if q.Filters[0] != (FilterCondition{Field: "status", Operator: OpEquals, Value: "nullable"}) {
			t.Errorf("Filters[0] = %+v", q.Filters[0])
		}
	})

	t.Run("PartialSuccess", func(t *testing.T) {
		params := url.Values{"filters": {"status==published,rating>3,price>cheap,name!widg,status>x"}}
		q, errs := ParseQuery(params, cfg)

		if len(q.Filters) != 1 || q.Filters[0].Field != "status" {
			t.Fatalf("Filters = %+v, want only the status condition", q.Filters)
		}
		if len(errs) != 4 {
			t.Fatalf("errs = %v, want 4", errs)
		}
		for i, wantSub := range []string{
			`"rating" is not filterable`,
			`"cheap" is not a number`,
			"no recognizable operator",
			`> is not allowed on field "status"`,
		} {
			if !strings.Contains(errs[i].Message, wantSub) {
				t.Errorf("errs[%d] = %q, want substring %q", i, errs[i].Message, wantSub)
			}
		}
	})

	t.Run("EmptyTokensSkipped", func(t *testing.T) {
		params := url.Values{"filters": {",, status==published ,"}}
		q, errs := ParseQuery(params, cfg)
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if len(q.Filters) != 1 {
			t.Errorf("Filters = %+v, want one", q.Filters)
		}
	})
}

func TestSplitFilterToken(t *testing.T) {
	for _, tc := range []struct {
		token     string
		wantField string
		wantOp    FilterOperator
		wantValue string
		wantOK    bool
	}{
		{"price>=100", "price", OpGreaterOrEqual, "100", true},
		{"price>100", "price", OpGreaterThan, "100", true},
		{"name@=*WIDG", "name", OpContainsCI, "WIDG", true},
		{"name@=widg", "name", OpContains, "widg", true},
		{"name_=*wi", "name", OpStartsWithCI, "wi", true},
		{"name_-=get", "name", OpEndsWith, "get", true},
		{"name==*widget", "name", OpEqualsCI, "widget", true},
		{"deletedAt!=null", "deletedAt", OpNotNull, "", true},
		{"status!=archived", "status", OpNotEquals, "archived", true},
		{"nonsense", "", "", "", false},
		{"==value", "", "", "", false},
	} {
		field, op, value, ok := splitFilterToken(tc.token)
		if field != tc.wantField || op != tc.wantOp || value != tc.wantValue || ok != tc.wantOK {
			t.Errorf("splitFilterToken(%q) = (%q, %q, %q, %v), want (%q, %q, %q, %v)",
				tc.token, field, op, value, ok, tc.wantField, tc.wantOp, tc.wantValue, tc.wantOK)
		}
	}
}

func TestCoerceValue_Errors(t *testing.T) {
	for _, tc := range []struct {
		raw     string
		typ     FieldType
		wantSub string
	}{
		{"cheap", TypeNumber, "not a number"},
		{"yes", TypeBoolean, "not a boolean"},
		{"tomorrow", TypeDate, "not an ISO date"},
	} {
		_, err := coerceValue(tc.raw, tc.typ)
		if err == nil || !strings.Contains(err.Error(), tc.wantSub) {
			t.Errorf("coerceValue(%q, %s) err = %v, want substring %q", tc.raw, tc.typ, err, tc.wantSub)
		}
	}
}
