package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"camerastore/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("user has already reviewed this product")
)

// ReviewFilter captures the moderation-list facets.
type ReviewFilter struct {
	Search    string // substring over title and comment
	ProductID *uuid.UUID
	Rating    int   // 0 means any
	Approved  *bool
	Reported  *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder SortOrder
}

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	ListApprovedByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error)
	List(ctx context.Context, filter ReviewFilter) ([]*domain.Review, int, error)
	StatsByProduct(ctx context.Context, productID uuid.UUID) (*domain.ReviewStats, error)
	IncrementHelpfulCount(ctx context.Context, id uuid.UUID) error
}

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new instance of ReviewRepository
func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewColumns = `id, product_id, user_id, rating, title, comment, is_approved,
	is_reported, report_reason, admin_response, helpful_count, created_at, updated_at`

func scanReview(scanner interface{ Scan(...interface{}) error }) (*domain.Review, error) {
	review := &domain.Review{}
	err := scanner.Scan(
		&review.ID,
		&review.ProductID,
		&review.UserID,
		&review.Rating,
		&review.Title,
		&review.Comment,
		&review.IsApproved,
		&review.IsReported,
		&review.ReportReason,
		&review.AdminResponse,
		&review.HelpfulCount,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Create inserts a new review using parameterized queries
func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, product_id, user_id, rating, title, comment, is_approved,
			is_reported, report_reason, admin_response, helpful_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		review.ID,
		review.ProductID,
		review.UserID,
		review.Rating,
		review.Title,
		review.Comment,
		review.IsApproved,
		review.IsReported,
		review.ReportReason,
		review.AdminResponse,
		review.HelpfulCount,
		review.CreatedAt,
		review.UpdatedAt,
	)

	if err != nil {
		// One review per user per product (SQLSTATE 23505)
		if strings.Contains(err.Error(), "uq_reviews_product_user") {
			return ErrReviewAlreadyExists
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// Update persists the full review record.
func (r *reviewRepository) Update(ctx context.Context, review *domain.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, title = $3, comment = $4, is_approved = $5, is_reported = $6,
		    report_reason = $7, admin_response = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		review.ID,
		review.Rating,
		review.Title,
		review.Comment,
		review.IsApproved,
		review.IsReported,
		review.ReportReason,
		review.AdminResponse,
		review.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrReviewNotFound
	}

	return nil
}

// Delete removes a review.
func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrReviewNotFound
	}

	return nil
}

// FindByID retrieves a review by ID.
func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1`, reviewColumns)

	review, err := scanReview(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to find review by ID: %w", err)
	}

	return review, nil
}

// ListApprovedByProduct returns the public review list for a product.
// Unapproved reviews never appear here.
func (r *reviewRepository) ListApprovedByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM reviews
		WHERE product_id = $1 AND is_approved = TRUE
		ORDER BY created_at DESC
	`, reviewColumns)

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*domain.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// List retrieves reviews matching the moderation filter with pagination.
func (r *reviewRepository) List(ctx context.Context, filter ReviewFilter) ([]*domain.Review, int, error) {
	validSortFields := map[string]bool{
		"rating":        true,
		"helpful_count": true,
		"created_at":    true,
	}

	sortBy := filter.SortBy
	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	sortOrder := filter.SortOrder
	if sortOrder != SortOrderAsc && sortOrder != SortOrderDesc {
		sortOrder = SortOrderDesc
	}

	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if strings.TrimSpace(filter.Search) != "" {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR comment ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	if filter.ProductID != nil {
		conditions = append(conditions, fmt.Sprintf("product_id = $%d", argIndex))
		args = append(args, *filter.ProductID)
		argIndex++
	}

	if filter.Rating >= 1 && filter.Rating <= 5 {
		conditions = append(conditions, fmt.Sprintf("rating = $%d", argIndex))
		args = append(args, filter.Rating)
		argIndex++
	}

	if filter.Approved != nil {
		conditions = append(conditions, fmt.Sprintf("is_approved = $%d", argIndex))
		args = append(args, *filter.Approved)
		argIndex++
	}

	if filter.Reported != nil {
		conditions = append(conditions, fmt.Sprintf("is_reported = $%d", argIndex))
		args = append(args, *filter.Reported)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM reviews %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT %s
		FROM reviews
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, reviewColumns, whereClause, sortBy, sortOrder, argIndex, argIndex+1)

	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*domain.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, total, nil
}

// StatsByProduct aggregates approved reviews only.
func (r *reviewRepository) StatsByProduct(ctx context.Context, productID uuid.UUID) (*domain.ReviewStats, error) {
	query := `
		SELECT rating, COUNT(*)
		FROM reviews
		WHERE product_id = $1 AND is_approved = TRUE
		GROUP BY rating
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute review stats: %w", err)
	}
	defer rows.Close()

	stats := &domain.ReviewStats{Breakdown: map[int]int{}}
	sum := 0
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("failed to scan review stats: %w", err)
		}
		stats.Breakdown[rating] = count
		stats.Count += count
		sum += rating * count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review stats: %w", err)
	}

	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}

	return stats, nil
}

// IncrementHelpfulCount bumps the helpful counter on a review.
func (r *reviewRepository) IncrementHelpfulCount(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE reviews SET helpful_count = helpful_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment helpful count: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrReviewNotFound
	}

	return nil
}
