package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"refurb-catalog/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var (
	ErrCategoryNotFound      = fmt.Errorf("category %w", domain.ErrNotFound)
	ErrCategoryAlreadyExists = fmt.Errorf("category with this name or slug %w", domain.ErrDuplicateKey)
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, id int64, patch domain.CategoryPatch) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	ListWithProductCount(ctx context.Context) ([]*domain.CategoryWithCount, error)
}

type categoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

const categoryColumns = `id, name, slug, description, icon, created_at, updated_at`

// Create inserts a new category and fills in the generated id and timestamps
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (name, slug, description, icon)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query, category.Name, category.Slug, category.Description, category.Icon).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if classified := classify(err, ErrCategoryAlreadyExists, nil); classified != err {
			return classified
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// Update applies the present fields of patch in a single statement
func (r *categoryRepository) Update(ctx context.Context, id int64, patch domain.CategoryPatch) (*domain.Category, error) {
	set := map[string]interface{}{}
	setIfPresent(set, "name", patch.Name)
	setIfPresent(set, "slug", patch.Slug)
	setNullable(set, "description", patch.Description)
	setNullable(set, "icon", patch.Icon)

	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	query, args, err := psql.Update("categories").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + categoryColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build category update: %w", err)
	}

	category := &domain.Category{}
	if err := r.db.GetContext(ctx, category, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		if classified := classify(err, ErrCategoryAlreadyExists, nil); classified != err {
			return nil, classified
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// Delete removes a category. Products referencing it are detached by the
// foreign key, not deleted.
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// FindByID retrieves a category by ID
func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	return r.findOne(ctx, "id", id)
}

// FindBySlug retrieves a category by slug
func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.findOne(ctx, "slug", slug)
}

func (r *categoryRepository) findOne(ctx context.Context, column string, value interface{}) (*domain.Category, error) {
	query, args, err := psql.Select(categoryColumns).
		From("categories").
		Where(sq.Eq{column: value}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build category lookup: %w", err)
	}

	category := &domain.Category{}
	if err := r.db.GetContext(ctx, category, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by %s: %w", column, err)
	}

	return category, nil
}

// List retrieves all categories ordered by name
func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	categories := []*domain.Category{}
	err := r.db.SelectContext(ctx, &categories, `SELECT `+categoryColumns+` FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// ListWithProductCount retrieves all categories with the number of products
// in each, including categories without products
func (r *categoryRepository) ListWithProductCount(ctx context.Context) ([]*domain.CategoryWithCount, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.description, c.icon, c.created_at, c.updated_at,
		       COUNT(p.id) AS product_count
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name ASC
	`

	categories := []*domain.CategoryWithCount{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list categories with product count: %w", err)
	}

	return categories, nil
}
