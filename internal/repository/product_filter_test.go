package repository

import (
	"strings"
	"testing"

	"refurb-catalog/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestListProductsQuery_NoFilters(t *testing.T) {
	query, args, err := listProductsQuery(domain.ProductFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(query, "WHERE") {
		t.Errorf("expected no WHERE clause, got %q", query)
	}
	if len(args) != 0 {
		t.Errorf("expected no arguments, got %v", args)
	}
	if !strings.Contains(query, "LEFT JOIN categories c ON c.id = p.category_id") {
		t.Errorf("expected left join on categories, got %q", query)
	}
	if !strings.HasSuffix(query, "ORDER BY p.created_at DESC, p.id DESC") {
		t.Errorf("expected newest-first ordering, got %q", query)
	}
}

func TestListProductsQuery_FeaturedFalseIsAConstraint(t *testing.T) {
	featured := false

	query, args, err := listProductsQuery(domain.ProductFilter{IsFeatured: &featured})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(query, "p.is_featured = $1") {
		t.Errorf("expected is_featured predicate, got %q", query)
	}
	if len(args) != 1 || args[0] != false {
		t.Errorf("expected single false argument, got %v", args)
	}
}

func TestListProductsQuery_AllFilters(t *testing.T) {
	categoryID := int64(7)
	status := domain.StockLowStock
	featured := true

	query, args, err := listProductsQuery(domain.ProductFilter{
		CategoryID:  &categoryID,
		StockStatus: &status,
		IsFeatured:  &featured,
		Search:      "  ThinkPad ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, fragment := range []string{
		"p.category_id = $1",
		"p.stock_status = $2",
		"p.is_featured = $3",
		"p.name ILIKE $4",
		"p.description ILIKE $5",
		"p.brand ILIKE $6",
		" AND ",
		" OR ",
	} {
		if !strings.Contains(query, fragment) {
			t.Errorf("expected %q in query %q", fragment, query)
		}
	}

	expected := []interface{}{int64(7), "low_stock", true, "%ThinkPad%", "%ThinkPad%", "%ThinkPad%"}
	if len(args) != len(expected) {
		t.Fatalf("expected %d arguments, got %v", len(expected), args)
	}
	for i := range expected {
		if args[i] != expected[i] {
			t.Errorf("argument %d: expected %v, got %v", i, expected[i], args[i])
		}
	}
}

func TestListProductsQuery_BlankSearchIsIgnored(t *testing.T) {
	query, args, err := listProductsQuery(domain.ProductFilter{Search: " \t "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(query, "ILIKE") || len(args) != 0 {
		t.Errorf("expected blank search to add no predicate, got %q %v", query, args)
	}
}

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"dell", "%dell%"},
		{"50%", `%50\%%`},
		{"i7_8650U", `%i7\_8650U%`},
		{`C:\`, `%C:\\%`},
	}

	for _, tt := range tests {
		if got := containsPattern(tt.term); got != tt.want {
			t.Errorf("containsPattern(%q) = %q, want %q", tt.term, got, tt.want)
		}
	}
}

// Every present option contributes exactly its own placeholders and absent
// options contribute none.
func TestProperty_OnlyPresentFiltersConstrain(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("placeholder count equals present predicate arity", prop.ForAll(
		func(hasCategory bool, statusIndex int, featured int, search string) bool {
			filter := domain.ProductFilter{Search: search}
			want := 0

			if hasCategory {
				id := int64(1)
				filter.CategoryID = &id
				want++
			}
			if statusIndex >= 0 {
				status := domain.StockStatuses[statusIndex]
				filter.StockStatus = &status
				want++
			}
			if featured >= 0 {
				isFeatured := featured == 1
				filter.IsFeatured = &isFeatured
				want++
			}
			if strings.TrimSpace(search) != "" {
				want += 3
			}

			query, args, err := listProductsQuery(filter)
			if err != nil {
				t.Logf("FAIL: build error: %v", err)
				return false
			}

			if len(args) != want {
				t.Logf("FAIL: expected %d args, got %d for %+v", want, len(args), filter)
				return false
			}

			if (want == 0) == strings.Contains(query, "WHERE") {
				t.Logf("FAIL: WHERE presence mismatch for %+v: %q", filter, query)
				return false
			}

			return true
		},
		gen.Bool(),
		gen.IntRange(-1, len(domain.StockStatuses)-1),
		gen.IntRange(-1, 1),
		gen.OneConstOf("", "  ", "dell", "Pro 14", "50%"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
