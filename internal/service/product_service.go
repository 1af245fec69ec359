package service

import (
	"context"
	"errors"
	"fmt"

	"refurb-catalog/internal/domain"
	"refurb-catalog/internal/repository"
)

// ErrInvalidStockStatus is returned for a stock status outside the enumeration
var ErrInvalidStockStatus = errors.New("invalid stock status")

// PriceScale is the number of fractional digits stored for prices.
const PriceScale = 2

// ProductService defines the interface for product business logic
type ProductService interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
	ListFeatured(ctx context.Context) ([]*domain.Product, error)
	ListByCategorySlug(ctx context.Context, categorySlug string) ([]*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error)
	UpdateStock(ctx context.Context, id int64, status domain.StockStatus) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*domain.ProductStats, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	return s.productRepo.List(ctx, filter)
}

func (s *productService) ListFeatured(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.ListFeatured(ctx)
}

// ListByCategorySlug lists the products of a category. An unknown slug yields
// an empty list.
func (s *productService) ListByCategorySlug(ctx context.Context, categorySlug string) ([]*domain.Product, error) {
	return s.productRepo.ListByCategorySlug(ctx, categorySlug)
}

func (s *productService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *productService) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.productRepo.FindBySlug(ctx, slug)
}

// Create stores a new product after checking that its category exists
func (s *productService) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product.StockStatus == "" {
		product.StockStatus = domain.StockInStock
	}
	if !product.StockStatus.Valid() {
		return nil, ErrInvalidStockStatus
	}

	if err := s.checkCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}

	product.Price = product.Price.Round(PriceScale)
	if product.OriginalPrice.Valid {
		product.OriginalPrice.Decimal = product.OriginalPrice.Decimal.Round(PriceScale)
	}

	return s.productRepo.Create(ctx, product)
}

// Update applies a partial update. A category that is set and not null must
// exist.
func (s *productService) Update(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.StockStatus != nil && !patch.StockStatus.Valid() {
		return nil, ErrInvalidStockStatus
	}

	if err := s.checkCategory(ctx, patch.CategoryID.Value); err != nil {
		return nil, err
	}

	if patch.Price != nil {
		rounded := patch.Price.Round(PriceScale)
		patch.Price = &rounded
	}
	if patch.OriginalPrice.Value != nil {
		patch.OriginalPrice = domain.Some(patch.OriginalPrice.Value.Round(PriceScale))
	}

	return s.productRepo.Update(ctx, id, patch)
}

func (s *productService) UpdateStock(ctx context.Context, id int64, status domain.StockStatus) (*domain.Product, error) {
	if !status.Valid() {
		return nil, ErrInvalidStockStatus
	}

	return s.productRepo.Update(ctx, id, domain.ProductPatch{StockStatus: &status})
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	return s.productRepo.Delete(ctx, id)
}

func (s *productService) Stats(ctx context.Context) (*domain.ProductStats, error) {
	return s.productRepo.Stats(ctx)
}

func (s *productService) checkCategory(ctx context.Context, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}

	if _, err := s.categoryRepo.FindByID(ctx, *categoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return repository.ErrProductCategoryInvalid
		}
		return fmt.Errorf("failed to check category: %w", err)
	}

	return nil
}
