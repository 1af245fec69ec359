package transport

import (
	"net/http"

	"refurb-catalog/internal/domain"
	"refurb-catalog/internal/middleware"
	"refurb-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateCategoryRequest represents the category creation payload
type CreateCategoryRequest struct {
	Name        string  `json:"name" mod:"trim" validate:"notblank,max=100"`
	Slug        string  `json:"slug" mod:"trim" validate:"notblank,max=100"`
	Description *string `json:"description"`
	Icon        *string `json:"icon" validate:"omitempty,max=50"`
}

// UpdateCategoryRequest represents the category update payload. Absent
// fields are left unchanged; null clears the description or icon.
type UpdateCategoryRequest struct {
	Name        *string                 `json:"name" mod:"trim" validate:"omitempty,notblank,max=100"`
	Slug        *string                 `json:"slug" mod:"trim" validate:"omitempty,notblank,max=100"`
	Description domain.Nullable[string] `json:"description"`
	Icon        domain.Nullable[string] `json:"icon" validate:"omitempty,max=50"`
}

// CategoryHandler handles HTTP requests for categories
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers the category routes; mutations pass through the
// admin chain
func (h *CategoryHandler) RegisterRoutes(r chi.Router, adminChain ...func(http.Handler) http.Handler) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/slug/{slug}", h.GetBySlug)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(adminChain...)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List returns all categories, with product counts when with_count=true
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	withCount, err := queryBool(r.URL.Query(), "with_count")
	if err != nil {
		respondError(w, h.logger, err, "Failed to fetch categories")
		return
	}

	if withCount {
		categories, err := h.categoryService.ListWithProductCount(r.Context())
		if err != nil {
			respondError(w, h.logger, err, "Failed to fetch categories")
			return
		}
		middleware.RespondWithList(w, categories, len(categories))
		return
	}

	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		respondError(w, h.logger, err, "Failed to fetch categories")
		return
	}
	middleware.RespondWithList(w, categories, len(categories))
}

// Get returns a category by id
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.logger, err, "Failed to fetch category")
		return
	}

	category, err := h.categoryService.Get(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err, "Failed to fetch category")
		return
	}

	middleware.RespondWithData(w, http.StatusOK, "", category)
}

// GetBySlug returns a category by slug
func (h *CategoryHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := h.categoryService.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, h.logger, err, "Failed to fetch category")
		return
	}

	middleware.RespondWithData(w, http.StatusOK, "", category)
}

// Create handles category creation
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err, "Failed to create category")
		return
	}

	category := &domain.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Icon:        req.Icon,
	}
	if err := h.categoryService.Create(r.Context(), category); err != nil {
		respondError(w, h.logger, err, "Failed to create category")
		return
	}

	h.logger.Info("Category created", zap.Int64("category_id", category.ID), zap.String("slug", category.Slug))
	middleware.RespondWithData(w, http.StatusCreated, "Category created successfully", category)
}

// Update handles partial category updates
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.logger, err, "Failed to update category")
		return
	}

	var req UpdateCategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err, "Failed to update category")
		return
	}

	category, err := h.categoryService.Update(r.Context(), id, domain.CategoryPatch{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		respondError(w, h.logger, err, "Failed to update category")
		return
	}

	h.logger.Info("Category updated", zap.Int64("category_id", id))
	middleware.RespondWithData(w, http.StatusOK, "Category updated successfully", category)
}

// Delete removes a category; its products are kept without a category
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.logger, err, "Failed to delete category")
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		respondError(w, h.logger, err, "Failed to delete category")
		return
	}

	h.logger.Info("Category deleted", zap.Int64("category_id", id))
	middleware.RespondWithMessage(w, http.StatusOK, "Category deleted successfully")
}
