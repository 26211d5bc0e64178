package transport

import (
	"net/http"
	"strings"

	"camerastore/internal/domain"
	"camerastore/internal/middleware"
	"camerastore/internal/repository"
	"camerastore/internal/service"
	"camerastore/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateProductRequest represents the admin create-product payload
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	ImageURL    string   `json:"image_url"`
	Category    string   `json:"category" validate:"required"`
	Subcategory *string  `json:"subcategory"`
	IsActive    *bool    `json:"is_active"`
	IsFeatured  bool     `json:"is_featured"`
}

// UpdateProductRequest represents the admin partial-update payload. Omitted
// fields keep their stored values.
type UpdateProductRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Features    *[]string `json:"features"`
	ImageURL    *string   `json:"image_url"`
	Category    *string   `json:"category"`
	Subcategory *string   `json:"subcategory"`
	IsActive    *bool     `json:"is_active"`
	IsFeatured  *bool     `json:"is_featured"`
}

// ProductListResponse is the catalog list envelope.
type ProductListResponse struct {
	Products   []*domain.Product  `json:"products"`
	Pagination PaginationResponse `json:"pagination"`
}

// ProductHandler handles HTTP requests for the catalog
type ProductHandler struct {
	catalogService service.CatalogService
	images         *storage.ImageStore
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, images *storage.ImageStore, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		images:         images,
		logger:         logger,
	}
}

// RegisterRoutes registers public catalog routes and the admin product panel
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/categories", h.ListCategories)
		r.Get("/{id}", h.Get)
	})

	r.Route("/api/admin/products", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminOnly)
		r.Get("/", h.AdminList)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/image", h.UploadImage)
	})
}

func productFilterFromQuery(r *http.Request) repository.ProductFilter {
	pagination := parsePagination(r, 12)

	filter := repository.ProductFilter{
		Search:      r.URL.Query().Get("search"),
		Subcategory: r.URL.Query().Get("subcategory"),
		Featured:    queryBool(r, "featured"),
		Page:        pagination.Page,
		PageSize:    pagination.Limit,
		SortBy:      r.URL.Query().Get("sort"),
		SortOrder:   querySortOrder(r),
	}

	if raw := r.URL.Query().Get("categories"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				filter.Categories = append(filter.Categories, name)
			}
		}
	}

	return filter
}

// List handles the public catalog query
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := productFilterFromQuery(r)

	products, total, err := h.catalogService.ListProducts(r.Context(), filter, false)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products:   products,
		Pagination: NewPaginationResponse(filter.Page, filter.PageSize, total),
	})
}

// AdminList handles the admin catalog query, including inactive products
func (h *ProductHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	filter := productFilterFromQuery(r)
	filter.Active = queryBool(r, "is_active")

	products, total, err := h.catalogService.ListProducts(r.Context(), filter, true)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products:   products,
		Pagination: NewPaginationResponse(filter.Page, filter.PageSize, total),
	})
}

// ListCategories handles the category/submenu listing
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// Get handles fetching one product and counts the view
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id, true)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

// Create handles admin product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Features:    req.Features,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		IsActive:    active,
		IsFeatured:  req.IsFeatured,
	}

	if err := h.catalogService.CreateProduct(r.Context(), product); err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))

		switch err {
		case service.ErrProductNameRequired, service.ErrProductCategoryRequired, service.ErrUnknownCategory:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		}
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"product": product})
}

// Update handles admin partial product updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalogService.UpdateProduct(r.Context(), id, service.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Features:    req.Features,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		IsActive:    req.IsActive,
		IsFeatured:  req.IsFeatured,
	})
	if err != nil {
		switch err {
		case repository.ErrProductNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case service.ErrProductNameRequired, service.ErrProductCategoryRequired, service.ErrUnknownCategory:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to update product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

// Delete handles admin product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// UploadImage handles the multipart product image upload
func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	imageURL, err := h.images.Save(file)
	if err != nil {
		switch err {
		case storage.ErrImageTooLarge, storage.ErrUnsupportedImage:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to store image", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to store image")
		}
		return
	}

	product, err := h.catalogService.SetProductImage(r.Context(), id, imageURL)
	if err != nil {
		// The stored file is orphaned if the product is gone; release it.
		_ = h.images.Remove(imageURL)

		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to attach image", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to attach image")
		return
	}

	h.logger.Info("Product image uploaded",
		zap.String("product_id", id.String()),
		zap.String("image_url", imageURL),
	)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"image_url": imageURL,
		"product":   product,
	})
}
