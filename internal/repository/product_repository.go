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
	ErrProductNotFound        = fmt.Errorf("product %w", domain.ErrNotFound)
	ErrProductAlreadyExists   = fmt.Errorf("product with this slug %w", domain.ErrDuplicateKey)
	ErrProductCategoryInvalid = fmt.Errorf("category %w", domain.ErrInvalidReference)
)

// FeaturedLimit is the number of products returned by ListFeatured
const FeaturedLimit = 6

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
	ListByCategorySlug(ctx context.Context, categorySlug string) ([]*domain.Product, error)
	ListFeatured(ctx context.Context) ([]*domain.Product, error)
	Stats(ctx context.Context) (*domain.ProductStats, error)
}

type productRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `p.id, p.name, p.slug, p.description, p.price, p.original_price, p.category_id,
	p.brand, p.processor, p.ram, p.storage, p.graphics, p.display, p.battery, p.condition, p.warranty,
	p.image_url, p.stock_status, p.is_featured, p.created_at, p.updated_at,
	c.name AS category_name, c.slug AS category_slug`

// withCategory wraps a data-modifying statement that returns product rows so
// the result carries the category join, in one round trip.
func withCategory(statement string) string {
	return `WITH p AS (` + statement + ` RETURNING *)
		SELECT ` + productColumns + `
		FROM p
		LEFT JOIN categories c ON c.id = p.category_id`
}

// Create inserts a new product and returns the stored row
func (r *productRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	insert := `
		INSERT INTO products (
			name, slug, description, price, original_price, category_id,
			brand, processor, ram, storage, graphics, display, battery,
			condition, warranty, image_url, stock_status, is_featured
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	stored := &domain.Product{}
	err := r.db.GetContext(ctx, stored, withCategory(insert),
		product.Name,
		product.Slug,
		product.Description,
		product.Price,
		product.OriginalPrice,
		product.CategoryID,
		product.Brand,
		product.Processor,
		product.RAM,
		product.Storage,
		product.Graphics,
		product.Display,
		product.Battery,
		product.Condition,
		product.Warranty,
		product.ImageURL,
		string(product.StockStatus),
		product.IsFeatured,
	)
	if err != nil {
		if classified := classify(err, ErrProductAlreadyExists, ErrProductCategoryInvalid); classified != err {
			return nil, classified
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return stored, nil
}

// Update applies the present fields of patch in a single statement
func (r *productRepository) Update(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	set := map[string]interface{}{}
	setIfPresent(set, "name", patch.Name)
	setIfPresent(set, "slug", patch.Slug)
	setNullable(set, "description", patch.Description)
	setIfPresent(set, "price", patch.Price)
	setNullable(set, "original_price", patch.OriginalPrice)
	setNullable(set, "category_id", patch.CategoryID)
	setNullable(set, "brand", patch.Specs.Brand)
	setNullable(set, "processor", patch.Specs.Processor)
	setNullable(set, "ram", patch.Specs.RAM)
	setNullable(set, "storage", patch.Specs.Storage)
	setNullable(set, "graphics", patch.Specs.Graphics)
	setNullable(set, "display", patch.Specs.Display)
	setNullable(set, "battery", patch.Specs.Battery)
	setNullable(set, "condition", patch.Specs.Condition)
	setNullable(set, "warranty", patch.Specs.Warranty)
	setNullable(set, "image_url", patch.ImageURL)
	if patch.StockStatus != nil {
		set["stock_status"] = string(*patch.StockStatus)
	}
	setIfPresent(set, "is_featured", patch.IsFeatured)

	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	update, args, err := psql.Update("products").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build product update: %w", err)
	}

	product := &domain.Product{}
	if err := r.db.GetContext(ctx, product, withCategory(update), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		if classified := classify(err, ErrProductAlreadyExists, ErrProductCategoryInvalid); classified != err {
			return nil, classified
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// Delete removes a product
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.findOne(ctx, sq.Eq{"p.id": id})
}

// FindBySlug retrieves a product by slug
func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.findOne(ctx, sq.Eq{"p.slug": slug})
}

func (r *productRepository) findOne(ctx context.Context, where sq.Eq) (*domain.Product, error) {
	query, args, err := selectProducts().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build product lookup: %w", err)
	}

	product := &domain.Product{}
	if err := r.db.GetContext(ctx, product, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

// List retrieves the products matching every present option of filter,
// newest first
func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	query, args, err := listProductsQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build product listing: %w", err)
	}

	return r.selectMany(ctx, query, args...)
}

// ListByCategorySlug retrieves the products of a category, newest first.
// The inner join excludes products without a category.
func (r *productRepository) ListByCategorySlug(ctx context.Context, categorySlug string) ([]*domain.Product, error) {
	query, args, err := psql.Select(productColumns).
		From("products p").
		Join("categories c ON c.id = p.category_id").
		Where(sq.Eq{"c.slug": categorySlug}).
		OrderBy("p.created_at DESC", "p.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build category listing: %w", err)
	}

	return r.selectMany(ctx, query, args...)
}

// ListFeatured retrieves the newest featured products that are in stock
func (r *productRepository) ListFeatured(ctx context.Context) ([]*domain.Product, error) {
	query, args, err := selectProducts().
		Where(sq.Eq{"p.is_featured": true, "p.stock_status": string(domain.StockInStock)}).
		OrderBy("p.created_at DESC", "p.id DESC").
		Limit(FeaturedLimit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build featured listing: %w", err)
	}

	return r.selectMany(ctx, query, args...)
}

// Stats counts products by stock status and featured flag in one read
func (r *productRepository) Stats(ctx context.Context) (*domain.ProductStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_products,
			COUNT(*) FILTER (WHERE stock_status = 'in_stock') AS in_stock,
			COUNT(*) FILTER (WHERE stock_status = 'out_of_stock') AS out_of_stock,
			COUNT(*) FILTER (WHERE stock_status = 'low_stock') AS low_stock,
			COUNT(*) FILTER (WHERE is_featured) AS featured
		FROM products
	`

	stats := &domain.ProductStats{}
	if err := r.db.GetContext(ctx, stats, query); err != nil {
		return nil, fmt.Errorf("failed to get product stats: %w", err)
	}

	return stats, nil
}

func (r *productRepository) selectMany(ctx context.Context, query string, args ...interface{}) ([]*domain.Product, error) {
	products := []*domain.Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}
