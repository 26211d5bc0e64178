package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"camerastore/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func testProduct(name, category string, subcategory *string) *domain.Product {
	now := time.Now()
	return &domain.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: "",
		Features:    []string{},
		Category:    category,
		Subcategory: subcategory,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func mustCreateProduct(t *testing.T, repo ProductRepository, p *domain.Product) {
	t.Helper()
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("failed to create product %q: %v", p.Name, err)
	}
}

func strPtr(s string) *string { return &s }

// Feature: storefront-platform, Property 5: Products round-trip through storage
// Validates: Requirements 3.1, 3.4
func TestProperty_ProductRoundTrip(t *testing.T) {
	truncate(t, "products")
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("created products are retrieved unchanged", prop.ForAll(
		func(name string, description string, category string, featured bool) bool {
			product := testProduct(name, category, nil)
			product.Description = description
			product.Features = []string{"feature one", "feature two"}
			product.IsFeatured = featured

			if err := repo.Create(ctx, product); err != nil {
				t.Logf("Failed to create product: %v", err)
				return false
			}

			retrieved, err := repo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("Failed to find product: %v", err)
				return false
			}

			ok := retrieved.Name == name &&
				retrieved.Description == description &&
				retrieved.Category == category &&
				retrieved.IsFeatured == featured &&
				retrieved.Subcategory == nil &&
				len(retrieved.Features) == 2

			_, _ = testDB.Exec("DELETE FROM products WHERE id = $1", product.ID)

			return ok
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,40}`),
		gen.RegexMatch(`[A-Za-z0-9 .,]{0,100}`),
		gen.RegexMatch(`[A-Za-z]{3,20}`),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProductRepository_CategoryFacetMatchesSubcategory(t *testing.T) {
	truncate(t, "products")
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	cpl := testProduct("67mm CPL Filter", "Filters", strPtr("67mm"))
	nd := testProduct("77mm ND Filter", "Filters", strPtr("77mm"))
	tripod := testProduct("Travel Tripod", "Tripods", strPtr("travel"))
	mustCreateProduct(t, repo, cpl)
	mustCreateProduct(t, repo, nd)
	mustCreateProduct(t, repo, tripod)

	// A facet value matches either the category or the subcategory column.
	products, total, err := repo.List(ctx, ProductFilter{Categories: []string{"Filters"}})
	if err != nil {
		t.Fatalf("failed to list by category: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 filters, got %d", total)
	}

	products, total, err = repo.List(ctx, ProductFilter{Categories: []string{"67mm"}})
	if err != nil {
		t.Fatalf("failed to list by subcategory facet: %v", err)
	}
	if total != 1 || products[0].ID != cpl.ID {
		t.Fatalf("subcategory facet matched %d products", total)
	}

	products, total, err = repo.List(ctx, ProductFilter{Categories: []string{"Filters", "Tripods"}})
	if err != nil {
		t.Fatalf("failed to list with multiple facets: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 products across facets, got %d", total)
	}

	_, total, err = repo.List(ctx, ProductFilter{Categories: []string{"Filters"}, Subcategory: "77mm"})
	if err != nil {
		t.Fatalf("failed to list with subcategory: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 product for Filters/77mm, got %d", total)
	}
}

func TestProductRepository_SearchAndFlags(t *testing.T) {
	truncate(t, "products")
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	ball := testProduct("Ball Head", "Tripods", nil)
	ball.Description = "Arca-Swiss compatible ball head"
	ball.IsFeatured = true

	strap := testProduct("Leather Strap", "Accessories", nil)
	strap.IsActive = false

	battery := testProduct("NP-FZ100 Battery", "Batteries", nil)

	mustCreateProduct(t, repo, ball)
	mustCreateProduct(t, repo, strap)
	mustCreateProduct(t, repo, battery)

	products, total, err := repo.List(ctx, ProductFilter{Search: "arca-swiss"})
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if total != 1 || products[0].ID != ball.ID {
		t.Fatalf("search over description matched %d products", total)
	}

	featured := true
	_, total, err = repo.List(ctx, ProductFilter{Featured: &featured})
	if err != nil {
		t.Fatalf("failed to filter featured: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 featured product, got %d", total)
	}

	active := true
	_, total, err = repo.List(ctx, ProductFilter{Active: &active})
	if err != nil {
		t.Fatalf("failed to filter active: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 active products, got %d", total)
	}

	// nil Active shows everything, which is what the admin panel needs.
	_, total, err = repo.List(ctx, ProductFilter{})
	if err != nil {
		t.Fatalf("failed to list all: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 products unfiltered, got %d", total)
	}
}

func TestProductRepository_SortAndPagination(t *testing.T) {
	truncate(t, "products")
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	for _, name := range []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"} {
		mustCreateProduct(t, repo, testProduct(name, "Bags", nil))
	}

	products, total, err := repo.List(ctx, ProductFilter{SortBy: "name", SortOrder: SortOrderAsc, Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("failed to list page 1: %v", err)
	}
	if total != 5 || len(products) != 2 {
		t.Fatalf("page 1: got %d products (total %d)", len(products), total)
	}
	if products[0].Name != "Alpha" || products[1].Name != "Bravo" {
		t.Fatalf("unexpected page 1 order: %s, %s", products[0].Name, products[1].Name)
	}

	products, _, err = repo.List(ctx, ProductFilter{SortBy: "name", SortOrder: SortOrderAsc, Page: 3, PageSize: 2})
	if err != nil {
		t.Fatalf("failed to list page 3: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Echo" {
		t.Fatalf("unexpected last page: %+v", products)
	}

	// Injection attempts in sort parameters fall back to defaults.
	if _, _, err := repo.List(ctx, ProductFilter{SortBy: "name; DROP TABLE products"}); err != nil {
		t.Fatalf("unexpected error for invalid sort field: %v", err)
	}
}

func TestProductRepository_UpdateAndDelete(t *testing.T) {
	truncate(t, "products")
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := testProduct("ND Filter", "Filters", strPtr("52mm"))
	mustCreateProduct(t, repo, product)

	product.Name = "ND1000 Filter"
	product.Subcategory = nil
	product.Features = []string{"10-stop"}
	product.UpdatedAt = time.Now()
	if err := repo.Update(ctx, product); err != nil {
		t.Fatalf("failed to update product: %v", err)
	}

	retrieved, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("failed to find product: %v", err)
	}
	if retrieved.Name != "ND1000 Filter" || retrieved.Subcategory != nil {
		t.Fatalf("update not persisted: %+v", retrieved)
	}
	if len(retrieved.Features) != 1 || retrieved.Features[0] != "10-stop" {
		t.Fatalf("features not persisted: %v", retrieved.Features)
	}

	if err := repo.Delete(ctx, product.ID); err != nil {
		t.Fatalf("failed to delete product: %v", err)
	}
	if _, err := repo.FindByID(ctx, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound after delete, got %v", err)
	}
	if err := repo.Update(ctx, product); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound updating deleted product, got %v", err)
	}
}

func TestProductRepository_IncrementViewCount(t *testing.T) {
	truncate(t, "products")
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := testProduct("Flash Trigger", "Lighting", strPtr("flash"))
	mustCreateProduct(t, repo, product)

	for i := 0; i < 3; i++ {
		if err := repo.IncrementViewCount(ctx, product.ID); err != nil {
			t.Fatalf("failed to increment view count: %v", err)
		}
	}

	retrieved, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("failed to find product: %v", err)
	}
	if retrieved.ViewCount != 3 {
		t.Fatalf("expected view count 3, got %d", retrieved.ViewCount)
	}

	if err := repo.IncrementViewCount(ctx, uuid.New()); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
