package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StockStatus is the availability state of a product
type StockStatus string

const (
	StockInStock    StockStatus = "in_stock"
	StockOutOfStock StockStatus = "out_of_stock"
	StockLowStock   StockStatus = "low_stock"
)

// StockStatuses lists every valid stock status.
var StockStatuses = []StockStatus{StockInStock, StockOutOfStock, StockLowStock}

// Valid reports whether s is one of the known stock statuses.
func (s StockStatus) Valid() bool {
	return slices.Contains(StockStatuses, s)
}

// StockStatusList joins the valid stock statuses for messages, in the order
// they are declared.
func StockStatusList() string {
	names := make([]string, len(StockStatuses))
	for i, status := range StockStatuses {
		names[i] = string(status)
	}
	return strings.Join(names, ", ")
}

// Specs are the optional free-form specification strings of a product.
type Specs struct {
	Brand     *string `json:"brand" db:"brand"`
	Processor *string `json:"processor" db:"processor"`
	RAM       *string `json:"ram" db:"ram"`
	Storage   *string `json:"storage" db:"storage"`
	Graphics  *string `json:"graphics" db:"graphics"`
	Display   *string `json:"display" db:"display"`
	Battery   *string `json:"battery" db:"battery"`
	Condition *string `json:"condition" db:"condition"`
	Warranty  *string `json:"warranty" db:"warranty"`
}

// Product represents a product in the catalog. CategoryName and CategorySlug
// come from the owning category and are nil for uncategorized products.
type Product struct {
	ID            int64               `json:"id" db:"id"`
	Name          string              `json:"name" db:"name"`
	Slug          string              `json:"slug" db:"slug"`
	Description   *string             `json:"description" db:"description"`
	Price         decimal.Decimal     `json:"price" db:"price"`
	OriginalPrice decimal.NullDecimal `json:"original_price" db:"original_price"`
	CategoryID    *int64              `json:"category_id" db:"category_id"`
	Specs
	ImageURL     *string     `json:"image_url" db:"image_url"`
	StockStatus  StockStatus `json:"stock_status" db:"stock_status"`
	IsFeatured   bool        `json:"is_featured" db:"is_featured"`
	CategoryName *string     `json:"category_name" db:"category_name"`
	CategorySlug *string     `json:"category_slug" db:"category_slug"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// SpecsPatch updates the specification strings of a product. Each field may
// be cleared.
type SpecsPatch struct {
	Brand     Nullable[string]
	Processor Nullable[string]
	RAM       Nullable[string]
	Storage   Nullable[string]
	Graphics  Nullable[string]
	Display   Nullable[string]
	Battery   Nullable[string]
	Condition Nullable[string]
	Warranty  Nullable[string]
}

// ProductPatch holds the fields of a partial product update. Nil pointers and
// unset Nullable fields are left unchanged; a set Nullable with no value
// clears the column.
type ProductPatch struct {
	Name          *string
	Slug          *string
	Description   Nullable[string]
	Price         *decimal.Decimal
	OriginalPrice Nullable[decimal.Decimal]
	CategoryID    Nullable[int64]
	Specs         SpecsPatch
	ImageURL      Nullable[string]
	StockStatus   *StockStatus
	IsFeatured    *bool
}

// ProductFilter selects products for a listing. Nil or empty fields place no
// constraint on the result; present fields are combined with AND.
type ProductFilter struct {
	CategoryID  *int64
	StockStatus *StockStatus
	IsFeatured  *bool
	Search      string
}

// Matches reports whether p satisfies every present predicate of f.
func (f ProductFilter) Matches(p *Product) bool {
	if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
		return false
	}
	if f.StockStatus != nil && p.StockStatus != *f.StockStatus {
		return false
	}
	if f.IsFeatured != nil && p.IsFeatured != *f.IsFeatured {
		return false
	}
	if term := normalizeSearch(f.Search); term != "" {
		return containsFold(&p.Name, term) || containsFold(p.Description, term) || containsFold(p.Brand, term)
	}
	return true
}

// ProductStats aggregates product counts by stock status and featured flag.
type ProductStats struct {
	TotalProducts int64 `json:"total_products" db:"total_products"`
	InStock       int64 `json:"in_stock" db:"in_stock"`
	OutOfStock    int64 `json:"out_of_stock" db:"out_of_stock"`
	LowStock      int64 `json:"low_stock" db:"low_stock"`
	Featured      int64 `json:"featured" db:"featured"`
}
