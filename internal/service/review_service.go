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
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrNotReviewOwner      = errors.New("review belongs to another user")
	ErrReportReasonMissing = errors.New("report reason is required")
)

// ReviewService defines the interface for review business logic. Reviews are
// created unapproved; moderation flips them to approved or rejects them with
// an optional admin response. Reporting is an end-user flag orthogonal to
// approval.
type ReviewService interface {
	ListForProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, *domain.ReviewStats, error)
	Create(ctx context.Context, userID, productID uuid.UUID, rating int, title, comment string) (*domain.Review, error)
	Update(ctx context.Context, userID, reviewID uuid.UUID, rating int, title, comment string) (*domain.Review, error)
	Delete(ctx context.Context, userID, reviewID uuid.UUID) error
	Report(ctx context.Context, reviewID uuid.UUID, reason string) error
	MarkHelpful(ctx context.Context, reviewID uuid.UUID) error
	ListForModeration(ctx context.Context, filter repository.ReviewFilter) ([]*domain.Review, int, error)
	Moderate(ctx context.Context, reviewID uuid.UUID, approve bool, adminResponse string) (*domain.Review, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService creates a new instance of ReviewService
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// ListForProduct returns the public review list and rating stats; both cover
// approved reviews only.
func (s *reviewService) ListForProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, *domain.ReviewStats, error) {
	reviews, err := s.reviewRepo.ListApprovedByProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	stats, err := s.reviewRepo.StatsByProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	return reviews, stats, nil
}

// Create stores a new review. It starts unapproved and stays out of the
// public listing until a moderator approves it.
func (s *reviewService) Create(ctx context.Context, userID, productID uuid.UUID, rating int, title, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	now := time.Now()
	review := &domain.Review{
		ID:         uuid.New(),
		ProductID:  productID,
		UserID:     userID,
		Rating:     rating,
		Title:      title,
		Comment:    comment,
		IsApproved: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// Update lets the owner revise rating, title and comment. A revised review
// goes back to unapproved.
func (s *reviewService) Update(ctx context.Context, userID, reviewID uuid.UUID, rating int, title, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.UserID != userID {
		return nil, ErrNotReviewOwner
	}

	review.Rating = rating
	review.Title = title
	review.Comment = comment
	review.IsApproved = false
	review.UpdatedAt = time.Now()

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// Delete removes the owner's review.
func (s *reviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if review.UserID != userID {
		return ErrNotReviewOwner
	}

	return s.reviewRepo.Delete(ctx, reviewID)
}

// Report flags a review for moderator attention. The approval state is left
// untouched.
func (s *reviewService) Report(ctx context.Context, reviewID uuid.UUID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrReportReasonMissing
	}

	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}

	review.IsReported = true
	review.ReportReason = &reason
	review.UpdatedAt = time.Now()

	return s.reviewRepo.Update(ctx, review)
}

// MarkHelpful bumps the helpful counter.
func (s *reviewService) MarkHelpful(ctx context.Context, reviewID uuid.UUID) error {
	return s.reviewRepo.IncrementHelpfulCount(ctx, reviewID)
}

// ListForModeration returns reviews matching the moderation filter.
func (s *reviewService) ListForModeration(ctx context.Context, filter repository.ReviewFilter) ([]*domain.Review, int, error) {
	return s.reviewRepo.List(ctx, filter)
}

// Moderate approves or rejects a review. An admin response may be attached
// in either case; a rejection clears the approved flag.
func (s *reviewService) Moderate(ctx context.Context, reviewID uuid.UUID, approve bool, adminResponse string) (*domain.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	review.IsApproved = approve
	if strings.TrimSpace(adminResponse) != "" {
		review.AdminResponse = &adminResponse
	}
	review.UpdatedAt = time.Now()

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to moderate review: %w", err)
	}

	return review, nil
}
