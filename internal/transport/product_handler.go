package transport

import (
	"net/http"

	"refurb-catalog/internal/domain"
	"refurb-catalog/internal/middleware"
	"refurb-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SpecsRequest holds the optional specification strings of a product
type SpecsRequest struct {
	Brand     *string `json:"brand" validate:"omitempty,max=100"`
	Processor *string `json:"processor" validate:"omitempty,max=100"`
	RAM       *string `json:"ram" validate:"omitempty,max=50"`
	Storage   *string `json:"storage" validate:"omitempty,max=100"`
	Graphics  *string `json:"graphics" validate:"omitempty,max=100"`
	Display   *string `json:"display" validate:"omitempty,max=100"`
	Battery   *string `json:"battery" validate:"omitempty,max=100"`
	Condition *string `json:"condition" validate:"omitempty,max=50"`
	Warranty  *string `json:"warranty" validate:"omitempty,max=100"`
}

// SpecsPatchRequest holds the specification strings of an update; null
// clears the stored string.
type SpecsPatchRequest struct {
	Brand     domain.Nullable[string] `json:"brand" validate:"omitempty,max=100"`
	Processor domain.Nullable[string] `json:"processor" validate:"omitempty,max=100"`
	RAM       domain.Nullable[string] `json:"ram" validate:"omitempty,max=50"`
	Storage   domain.Nullable[string] `json:"storage" validate:"omitempty,max=100"`
	Graphics  domain.Nullable[string] `json:"graphics" validate:"omitempty,max=100"`
	Display   domain.Nullable[string] `json:"display" validate:"omitempty,max=100"`
	Battery   domain.Nullable[string] `json:"battery" validate:"omitempty,max=100"`
	Condition domain.Nullable[string] `json:"condition" validate:"omitempty,max=50"`
	Warranty  domain.Nullable[string] `json:"warranty" validate:"omitempty,max=100"`
}

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Name          string           `json:"name" mod:"trim" validate:"notblank,max=255"`
	Slug          string           `json:"slug" mod:"trim" validate:"notblank,max=255"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price" validate:"required,gte=0,lte=99999999.99"`
	OriginalPrice *decimal.Decimal `json:"original_price" validate:"omitempty,gte=0,lte=99999999.99"`
	CategoryID    *int64           `json:"category_id" validate:"required,gt=0"`
	SpecsRequest
	ImageURL    *string `json:"image_url"`
	StockStatus string  `json:"stock_status" validate:"required,oneof=in_stock out_of_stock low_stock"`
	IsFeatured  bool    `json:"is_featured"`
}

// UpdateProductRequest represents the product update payload. Absent fields
// are left unchanged; present ones are validated like on creation. Nullable
// columns are cleared by an explicit null.
type UpdateProductRequest struct {
	Name          *string                          `json:"name" mod:"trim" validate:"omitempty,notblank,max=255"`
	Slug          *string                          `json:"slug" mod:"trim" validate:"omitempty,notblank,max=255"`
	Description   domain.Nullable[string]          `json:"description"`
	Price         *decimal.Decimal                 `json:"price" validate:"omitempty,gte=0,lte=99999999.99"`
	OriginalPrice domain.Nullable[decimal.Decimal] `json:"original_price" validate:"omitempty,gte=0,lte=99999999.99"`
	CategoryID    domain.Nullable[int64]           `json:"category_id" validate:"omitempty,gt=0"`
	SpecsPatchRequest
	ImageURL    domain.Nullable[string] `json:"image_url"`
	StockStatus *string `json:"stock_status" validate:"omitempty,oneof=in_stock out_of_stock low_stock"`
	IsFeatured  *bool   `json:"is_featured"`
}

// UpdateStockRequest represents the stock status update payload
type UpdateStockRequest struct {
	StockStatus string `json:"stock_status" validate:"required,oneof=in_stock out_of_stock low_stock"`
}

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers the product routes; mutations and statistics pass
// through the admin chain
func (h *ProductHandler) RegisterRoutes(r chi.Router, adminChain ...func(http.Handler) http.Handler) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/featured", h.ListFeatured)
		r.Get("/slug/{slug}", h.GetBySlug)
		r.Get("/category/{categorySlug}", h.ListByCategory)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(adminChain...)
			r.Get("/admin/stats", h.Stats)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Patch("/{id}/stock", h.UpdateStock)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List returns the products matching the query filters, newest first
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r.URL.Query())
	if err != nil {
		respondError(w, h.logger, err, "Failed to fetch products")
		return
	}

	products, err := h.productService.List(r.Context(), filter)
	if err != nil {
		respondError(w, h.logger, err, "Failed to fetch products")
		return
	}

	middleware.RespondWithList(w, products, len(products))
}

// ListFeatured returns the newest featured products in stock
func (h *ProductHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListFeatured(r.Context())
	if err != nil {
		respondError(w, h.logger, err, "Failed to fetch featured products")
		return
	}

	middleware.RespondWithList(w, products, len(products))
}

// ListByCategory returns the products of the category with the given slug
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListByCategorySlug(r.Context(), chi.URLParam(r, "categorySlug"))
	if err != nil {
		respondError(w, h.logger, err, "Failed to fetch products")
		return
	}

	middleware.RespondWithList(w, products, len(products))
}

// Get returns a product by id
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.logger, err, "Failed to fetch product")
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err, "Failed to fetch product")
		return
	}

	middleware.RespondWithData(w, http.StatusOK, "", product)
}

// GetBySlug returns a product by slug
func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, h.logger, err, "Failed to fetch product")
		return
	}

	middleware.RespondWithData(w, http.StatusOK, "", product)
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err, "Failed to create product")
		return
	}

	product := &domain.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       *req.Price,
		CategoryID:  req.CategoryID,
		Specs:       domain.Specs(req.SpecsRequest),
		ImageURL:    req.ImageURL,
		StockStatus: domain.StockStatus(req.StockStatus),
		IsFeatured:  req.IsFeatured,
	}
	if req.OriginalPrice != nil {
		product.OriginalPrice = decimal.NewNullDecimal(*req.OriginalPrice)
	}

	created, err := h.productService.Create(r.Context(), product)
	if err != nil {
		respondError(w, h.logger, err, "Failed to create product")
		return
	}

	h.logger.Info("Product created", zap.Int64("product_id", created.ID), zap.String("slug", created.Slug))
	middleware.RespondWithData(w, http.StatusCreated, "Product created successfully", created)
}

// Update handles partial product updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.logger, err, "Failed to update product")
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err, "Failed to update product")
		return
	}

	patch := domain.ProductPatch{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		CategoryID:    req.CategoryID,
		Specs:         domain.SpecsPatch(req.SpecsPatchRequest),
		ImageURL:      req.ImageURL,
		IsFeatured:    req.IsFeatured,
	}
	if req.StockStatus != nil {
		status := domain.StockStatus(*req.StockStatus)
		patch.StockStatus = &status
	}

	product, err := h.productService.Update(r.Context(), id, patch)
	if err != nil {
		respondError(w, h.logger, err, "Failed to update product")
		return
	}

	h.logger.Info("Product updated", zap.Int64("product_id", id))
	middleware.RespondWithData(w, http.StatusOK, "Product updated successfully", product)
}

// UpdateStock changes only the stock status of a product
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.logger, err, "Failed to update stock status")
		return
	}

	var req UpdateStockRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err, "Failed to update stock status")
		return
	}

	product, err := h.productService.UpdateStock(r.Context(), id, domain.StockStatus(req.StockStatus))
	if err != nil {
		respondError(w, h.logger, err, "Failed to update stock status")
		return
	}

	h.logger.Info("Stock status updated", zap.Int64("product_id", id), zap.String("stock_status", req.StockStatus))
	middleware.RespondWithData(w, http.StatusOK, "Stock status updated successfully", product)
}

// Delete removes a product
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.logger, err, "Failed to delete product")
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		respondError(w, h.logger, err, "Failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.Int64("product_id", id))
	middleware.RespondWithMessage(w, http.StatusOK, "Product deleted successfully")
}

// Stats returns aggregate product counts
func (h *ProductHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.productService.Stats(r.Context())
	if err != nil {
		respondError(w, h.logger, err, "Failed to fetch statistics")
		return
	}

	middleware.RespondWithData(w, http.StatusOK, "", stats)
}
