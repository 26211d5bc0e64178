package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"camerastore/internal/domain"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category with this name already exists")
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	List(ctx context.Context, activeOnly bool) ([]*domain.Category, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func scanCategory(scanner interface{ Scan(...interface{}) error }) (*domain.Category, error) {
	category := &domain.Category{}
	var submenu []byte

	err := scanner.Scan(
		&category.ID,
		&category.Name,
		&submenu,
		&category.IsActive,
		&category.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(submenu) > 0 {
		if err := json.Unmarshal(submenu, &category.Submenu); err != nil {
			return nil, fmt.Errorf("failed to decode category submenu: %w", err)
		}
	}

	return category, nil
}

// Create inserts a new category into the database using parameterized queries
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	submenu, err := json.Marshal(category.Submenu)
	if err != nil {
		return fmt.Errorf("failed to encode category submenu: %w", err)
	}
	if category.Submenu == nil {
		submenu = []byte("[]")
	}

	query := `
		INSERT INTO categories (id, name, submenu, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		category.ID,
		category.Name,
		submenu,
		category.IsActive,
		category.CreatedAt,
	)

	if err != nil {
		// Unique violation on the name column (SQLSTATE 23505)
		if strings.Contains(err.Error(), "categories_name_key") {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// List retrieves categories, optionally restricted to active ones.
func (r *categoryRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Category, error) {
	query := `
		SELECT id, name, submenu, is_active, created_at
		FROM categories
	`
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// FindByName retrieves a category by its unique name.
func (r *categoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	query := `
		SELECT id, name, submenu, is_active, created_at
		FROM categories
		WHERE name = $1
	`

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by name: %w", err)
	}

	return category, nil
}
