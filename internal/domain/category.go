package domain

import "time"

// Category represents a product category
type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description *string   `json:"description" db:"description"`
	Icon        *string   `json:"icon" db:"icon"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryWithCount is a category annotated with the number of products
// referencing it.
type CategoryWithCount struct {
	Category
	ProductCount int64 `json:"product_count" db:"product_count"`
}

// CategoryPatch holds the fields of a partial category update. Nil or unset
// fields are left unchanged.
type CategoryPatch struct {
	Name        *string
	Slug        *string
	Description Nullable[string]
	Icon        Nullable[string]
}
