package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"camerastore/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// ProductFilter captures the facets of a catalog list query. Categories are
// OR-ed: a product matches when its category or its subcategory is in the
// set. Subcategory is an additional equality facet. Search is a
// case-insensitive substring match over name and description.
type ProductFilter struct {
	Categories  []string
	Subcategory string
	Search      string
	Featured    *bool
	Active      *bool
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   SortOrder
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, features, image_url, category, subcategory,
	is_active, is_featured, view_count, created_at, updated_at`

func scanProduct(scanner interface{ Scan(...interface{}) error }) (*domain.Product, error) {
	product := &domain.Product{}
	var features []byte

	err := scanner.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&features,
		&product.ImageURL,
		&product.Category,
		&product.Subcategory,
		&product.IsActive,
		&product.IsFeatured,
		&product.ViewCount,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(features) > 0 {
		if err := json.Unmarshal(features, &product.Features); err != nil {
			return nil, fmt.Errorf("failed to decode product features: %w", err)
		}
	}

	return product, nil
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	features, err := json.Marshal(product.Features)
	if err != nil {
		return fmt.Errorf("failed to encode product features: %w", err)
	}

	query := `
		INSERT INTO products (id, name, description, features, image_url, category, subcategory,
			is_active, is_featured, view_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		features,
		product.ImageURL,
		product.Category,
		product.Subcategory,
		product.IsActive,
		product.IsFeatured,
		product.ViewCount,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product in the database using parameterized queries
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	features, err := json.Marshal(product.Features)
	if err != nil {
		return fmt.Errorf("failed to encode product features: %w", err)
	}

	query := `
		UPDATE products
		SET name = $2, description = $3, features = $4, image_url = $5, category = $6,
		    subcategory = $7, is_active = $8, is_featured = $9, updated_at = $10
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		features,
		product.ImageURL,
		product.Category,
		product.Subcategory,
		product.IsActive,
		product.IsFeatured,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
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

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
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

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// IncrementViewCount bumps the product's view counter.
func (r *productRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE products SET view_count = view_count + 1 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
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

// List retrieves products matching the filter with pagination and sorting.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error) {
	// Validate sort field to prevent SQL injection
	validSortFields := map[string]bool{
		"name":       true,
		"category":   true,
		"view_count": true,
		"created_at": true,
	}

	sortBy := filter.SortBy
	if !validSortFields[sortBy] {
		sortBy = "created_at" // Default sort field
	}

	sortOrder := filter.SortOrder
	if sortOrder != SortOrderAsc && sortOrder != SortOrderDesc {
		sortOrder = SortOrderDesc // Default sort order
	}

	// Build the WHERE clause
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if len(filter.Categories) > 0 {
		placeholders := make([]string, 0, len(filter.Categories))
		for _, name := range filter.Categories {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argIndex))
			args = append(args, name)
			argIndex++
		}
		in := strings.Join(placeholders, ", ")
		conditions = append(conditions, fmt.Sprintf("(category IN (%s) OR subcategory IN (%s))", in, in))
	}

	if filter.Subcategory != "" {
		conditions = append(conditions, fmt.Sprintf("subcategory = $%d", argIndex))
		args = append(args, filter.Subcategory)
		argIndex++
	}

	if strings.TrimSpace(filter.Search) != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	if filter.Featured != nil {
		conditions = append(conditions, fmt.Sprintf("is_featured = $%d", argIndex))
		args = append(args, *filter.Featured)
		argIndex++
	}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argIndex))
		args = append(args, *filter.Active)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total matching products
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 12
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, sortBy, sortOrder, argIndex, argIndex+1)

	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}
