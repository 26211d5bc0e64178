package service

import (
	"context"
	"testing"

	"camerastore/internal/domain"
	"camerastore/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func seedCatalogProduct(t *testing.T, products *mockProductRepository, categories *mockCategoryRepository, name string) *domain.Product {
	t.Helper()

	service := NewCatalogService(products, categories)
	sub := "67mm"
	product := &domain.Product{
		Name:        name,
		Description: "test product",
		Features:    []string{"one", "two"},
		Category:    "Filters",
		Subcategory: &sub,
		IsActive:    true,
	}
	if err := service.CreateProduct(context.Background(), product); err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}

// Feature: storefront-platform, Property 10: Partial updates keep omitted fields
// Validates: Requirements 5.3
func TestProperty_PartialUpdateKeepsOmittedFields(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("updating only the description changes nothing else", prop.ForAll(
		func(name string, description string) bool {
			products := newMockProductRepository()
			categories := newMockCategoryRepository("Filters")
			service := NewCatalogService(products, categories)

			product := seedCatalogProduct(t, products, categories, name)
			before := *product

			updated, err := service.UpdateProduct(context.Background(), product.ID, ProductUpdate{
				Description: &description,
			})
			if err != nil {
				t.Logf("FAIL: Update failed: %v", err)
				return false
			}

			if updated.Description != description {
				t.Logf("FAIL: Description not applied")
				return false
			}
			if updated.Name != before.Name ||
				updated.Category != before.Category ||
				updated.IsActive != before.IsActive ||
				updated.IsFeatured != before.IsFeatured {
				t.Logf("FAIL: Omitted fields changed")
				return false
			}
			if updated.Subcategory == nil || *updated.Subcategory != *before.Subcategory {
				t.Logf("FAIL: Subcategory changed")
				return false
			}
			if len(updated.Features) != len(before.Features) {
				t.Logf("FAIL: Features changed")
				return false
			}
			return true
		},
		gen.RegexMatch(`[A-Z][a-z]{3,20}`),
		gen.RegexMatch(`[A-Za-z0-9 ]{0,40}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUpdateProduct_EmptySubcategoryClears(t *testing.T) {
	products := newMockProductRepository()
	categories := newMockCategoryRepository("Filters")
	service := NewCatalogService(products, categories)

	product := seedCatalogProduct(t, products, categories, "CPL Filter")

	empty := ""
	updated, err := service.UpdateProduct(context.Background(), product.ID, ProductUpdate{Subcategory: &empty})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Subcategory != nil {
		t.Fatalf("expected subcategory cleared, got %q", *updated.Subcategory)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	products := newMockProductRepository()
	categories := newMockCategoryRepository("Filters")
	service := NewCatalogService(products, categories)
	ctx := context.Background()

	if err := service.CreateProduct(ctx, &domain.Product{Category: "Filters"}); err != ErrProductNameRequired {
		t.Fatalf("expected ErrProductNameRequired, got %v", err)
	}
	if err := service.CreateProduct(ctx, &domain.Product{Name: "No Category"}); err != ErrProductCategoryRequired {
		t.Fatalf("expected ErrProductCategoryRequired, got %v", err)
	}
	if err := service.CreateProduct(ctx, &domain.Product{Name: "Bad Category", Category: "Ghost"}); err != ErrUnknownCategory {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestCreateProduct_NilFeaturesStoredAsEmptyList(t *testing.T) {
	products := newMockProductRepository()
	categories := newMockCategoryRepository("Bags")
	service := NewCatalogService(products, categories)

	product := &domain.Product{Name: "Sling Bag", Category: "Bags"}
	if err := service.CreateProduct(context.Background(), product); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if product.Features == nil {
		t.Fatal("expected features to be an empty list, got nil")
	}
}

func TestListProducts_HidesInactiveFromPublic(t *testing.T) {
	products := newMockProductRepository()
	categories := newMockCategoryRepository("Filters")
	service := NewCatalogService(products, categories)
	ctx := context.Background()

	active := seedCatalogProduct(t, products, categories, "Active Filter")
	inactive := seedCatalogProduct(t, products, categories, "Hidden Filter")
	inactive.IsActive = false

	public, _, err := service.ListProducts(ctx, repository.ProductFilter{}, false)
	if err != nil {
		t.Fatalf("public list failed: %v", err)
	}
	if len(public) != 1 || public[0].ID != active.ID {
		t.Fatalf("expected only the active product, got %d products", len(public))
	}

	admin, _, err := service.ListProducts(ctx, repository.ProductFilter{}, true)
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if len(admin) != 2 {
		t.Fatalf("expected both products for admin, got %d", len(admin))
	}
}

func TestGetProduct_CountsView(t *testing.T) {
	products := newMockProductRepository()
	categories := newMockCategoryRepository("Filters")
	service := NewCatalogService(products, categories)
	ctx := context.Background()

	product := seedCatalogProduct(t, products, categories, "Counted Filter")

	got, err := service.GetProduct(ctx, product.ID, true)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ViewCount != 1 {
		t.Fatalf("expected view count 1, got %d", got.ViewCount)
	}

	got, err = service.GetProduct(ctx, product.ID, false)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ViewCount != 1 {
		t.Fatalf("expected view count to stay 1, got %d", got.ViewCount)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	service := NewCatalogService(newMockProductRepository(), newMockCategoryRepository())

	if _, err := service.GetProduct(context.Background(), uuid.New(), false); err != repository.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
