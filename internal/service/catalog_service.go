package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"camerastore/internal/domain"
	"camerastore/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrProductNameRequired     = errors.New("product name is required")
	ErrProductCategoryRequired = errors.New("product category is required")
	ErrUnknownCategory         = errors.New("product category does not exist")
)

// ProductUpdate carries a partial product mutation. Nil fields keep the
// previously stored value; a provided empty Subcategory clears it.
type ProductUpdate struct {
	Name        *string
	Description *string
	Features    *[]string
	ImageURL    *string
	Category    *string
	Subcategory *string
	IsActive    *bool
	IsFeatured  *bool
}

// CatalogService defines the interface for catalog business logic
type CatalogService interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter, includeInactive bool) ([]*domain.Product, int, error)
	GetProduct(ctx context.Context, id uuid.UUID, countView bool) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, id uuid.UUID, update ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	SetProductImage(ctx context.Context, id uuid.UUID, imageURL string) (*domain.Product, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// ListProducts runs a catalog query. Non-admin callers only ever see active
// products; the Active facet is forced unless includeInactive is set.
func (s *catalogService) ListProducts(ctx context.Context, filter repository.ProductFilter, includeInactive bool) ([]*domain.Product, int, error) {
	if !includeInactive {
		active := true
		filter.Active = &active
	}
	return s.productRepo.List(ctx, filter)
}

// GetProduct retrieves a product, optionally counting the view.
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID, countView bool) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if countView {
		if err := s.productRepo.IncrementViewCount(ctx, id); err == nil {
			product.ViewCount++
		}
	}

	return product, nil
}

// ListCategories returns the active categories with their submenus.
func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx, true)
}

// CreateProduct validates and stores a new product. The category must name an
// existing category.
func (s *catalogService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return ErrProductNameRequired
	}
	if strings.TrimSpace(product.Category) == "" {
		return ErrProductCategoryRequired
	}

	if _, err := s.categoryRepo.FindByName(ctx, product.Category); err != nil {
		if err == repository.ErrCategoryNotFound {
			return ErrUnknownCategory
		}
		return fmt.Errorf("failed to check category: %w", err)
	}

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.Features == nil {
		product.Features = []string{}
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	return s.productRepo.Create(ctx, product)
}

// UpdateProduct merges the partial update over the stored record and
// persists the result. Omitted fields keep their stored values.
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, update ProductUpdate) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, ErrProductNameRequired
		}
		product.Name = *update.Name
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Features != nil {
		product.Features = *update.Features
	}
	if update.ImageURL != nil {
		product.ImageURL = *update.ImageURL
	}
	if update.Category != nil {
		if strings.TrimSpace(*update.Category) == "" {
			return nil, ErrProductCategoryRequired
		}
		if _, err := s.categoryRepo.FindByName(ctx, *update.Category); err != nil {
			if err == repository.ErrCategoryNotFound {
				return nil, ErrUnknownCategory
			}
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
		product.Category = *update.Category
	}
	if update.Subcategory != nil {
		if *update.Subcategory == "" {
			product.Subcategory = nil
		} else {
			product.Subcategory = update.Subcategory
		}
	}
	if update.IsActive != nil {
		product.IsActive = *update.IsActive
	}
	if update.IsFeatured != nil {
		product.IsFeatured = *update.IsFeatured
	}

	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes a product. Reviews cascade at the database level.
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// SetProductImage records a stored image reference on the product.
func (s *catalogService) SetProductImage(ctx context.Context, id uuid.UUID, imageURL string) (*domain.Product, error) {
	url := imageURL
	return s.UpdateProduct(ctx, id, ProductUpdate{ImageURL: &url})
}
