package service

import (
	"context"

	"refurb-catalog/internal/domain"
	"refurb-catalog/internal/repository"
)

// CategoryService defines the interface for category business logic
type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	ListWithProductCount(ctx context.Context) ([]*domain.CategoryWithCount, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, id int64, patch domain.CategoryPatch) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) ListWithProductCount(ctx context.Context) ([]*domain.CategoryWithCount, error) {
	return s.categoryRepo.ListWithProductCount(ctx)
}

func (s *categoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return s.categoryRepo.FindBySlug(ctx, slug)
}

func (s *categoryService) Create(ctx context.Context, category *domain.Category) error {
	return s.categoryRepo.Create(ctx, category)
}

func (s *categoryService) Update(ctx context.Context, id int64, patch domain.CategoryPatch) (*domain.Category, error) {
	return s.categoryRepo.Update(ctx, id, patch)
}

// Delete removes a category; its products survive without a category
func (s *categoryService) Delete(ctx context.Context, id int64) error {
	return s.categoryRepo.Delete(ctx, id)
}
