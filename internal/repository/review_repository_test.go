package repository

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"camerastore/internal/domain"

	"github.com/google/uuid"
)

func testReview(productID, userID uuid.UUID, rating int, approved bool) *domain.Review {
	now := time.Now()
	return &domain.Review{
		ID:         uuid.New(),
		ProductID:  productID,
		UserID:     userID,
		Rating:     rating,
		Title:      "Solid piece of kit",
		Comment:    "Does what it says.",
		IsApproved: approved,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestReviewRepository_OneReviewPerUserPerProduct(t *testing.T) {
	truncate(t, "reviews")
	repo := NewReviewRepository(testDB)
	ctx := context.Background()

	productID := uuid.New()
	userID := uuid.New()

	if err := repo.Create(ctx, testReview(productID, userID, 5, false)); err != nil {
		t.Fatalf("failed to create review: %v", err)
	}

	err := repo.Create(ctx, testReview(productID, userID, 3, false))
	if !errors.Is(err, ErrReviewAlreadyExists) {
		t.Fatalf("expected ErrReviewAlreadyExists, got %v", err)
	}

	// Same user on another product is fine.
	if err := repo.Create(ctx, testReview(uuid.New(), userID, 4, false)); err != nil {
		t.Fatalf("review on a second product rejected: %v", err)
	}
}

func TestReviewRepository_ApprovedListingExcludesPending(t *testing.T) {
	truncate(t, "reviews")
	repo := NewReviewRepository(testDB)
	ctx := context.Background()

	productID := uuid.New()
	approved := testReview(productID, uuid.New(), 5, true)
	pending := testReview(productID, uuid.New(), 1, false)

	if err := repo.Create(ctx, approved); err != nil {
		t.Fatalf("failed to create review: %v", err)
	}
	if err := repo.Create(ctx, pending); err != nil {
		t.Fatalf("failed to create review: %v", err)
	}

	reviews, err := repo.ListApprovedByProduct(ctx, productID)
	if err != nil {
		t.Fatalf("failed to list approved reviews: %v", err)
	}
	if len(reviews) != 1 || reviews[0].ID != approved.ID {
		t.Fatalf("expected only the approved review, got %d reviews", len(reviews))
	}
}

func TestReviewRepository_StatsCountApprovedOnly(t *testing.T) {
	truncate(t, "reviews")
	repo := NewReviewRepository(testDB)
	ctx := context.Background()

	productID := uuid.New()
	for _, rating := range []int{5, 5, 4} {
		if err := repo.Create(ctx, testReview(productID, uuid.New(), rating, true)); err != nil {
			t.Fatalf("failed to create review: %v", err)
		}
	}
	// A pending one-star review must not drag the average down.
	if err := repo.Create(ctx, testReview(productID, uuid.New(), 1, false)); err != nil {
		t.Fatalf("failed to create review: %v", err)
	}

	stats, err := repo.StatsByProduct(ctx, productID)
	if err != nil {
		t.Fatalf("failed to compute stats: %v", err)
	}
	if stats.Count != 3 {
		t.Fatalf("expected 3 approved reviews in stats, got %d", stats.Count)
	}
	if math.Abs(stats.Average-14.0/3.0) > 1e-9 {
		t.Fatalf("unexpected average %f", stats.Average)
	}
	if stats.Breakdown[5] != 2 || stats.Breakdown[4] != 1 || stats.Breakdown[1] != 0 {
		t.Fatalf("unexpected breakdown %v", stats.Breakdown)
	}

	empty, err := repo.StatsByProduct(ctx, uuid.New())
	if err != nil {
		t.Fatalf("failed to compute empty stats: %v", err)
	}
	if empty.Count != 0 || empty.Average != 0 {
		t.Fatalf("expected zero stats, got %+v", empty)
	}
}

func TestReviewRepository_ModerationListFilters(t *testing.T) {
	truncate(t, "reviews")
	repo := NewReviewRepository(testDB)
	ctx := context.Background()

	productID := uuid.New()

	reported := testReview(productID, uuid.New(), 2, true)
	reported.IsReported = true
	reason := "offensive language"
	reported.ReportReason = &reason

	pending := testReview(productID, uuid.New(), 4, false)
	pending.Title = "Great battery life"

	other := testReview(uuid.New(), uuid.New(), 3, true)

	for _, rv := range []*domain.Review{reported, pending, other} {
		if err := repo.Create(ctx, rv); err != nil {
			t.Fatalf("failed to create review: %v", err)
		}
	}

	isReported := true
	reviews, total, err := repo.List(ctx, ReviewFilter{Reported: &isReported})
	if err != nil {
		t.Fatalf("failed to list reported reviews: %v", err)
	}
	if total != 1 || reviews[0].ID != reported.ID {
		t.Fatalf("reported filter matched %d reviews", total)
	}
	if reviews[0].ReportReason == nil || *reviews[0].ReportReason != reason {
		t.Fatalf("report reason not persisted: %v", reviews[0].ReportReason)
	}

	isApproved := false
	_, total, err = repo.List(ctx, ReviewFilter{Approved: &isApproved})
	if err != nil {
		t.Fatalf("failed to list pending reviews: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 pending review, got %d", total)
	}

	_, total, err = repo.List(ctx, ReviewFilter{ProductID: &productID})
	if err != nil {
		t.Fatalf("failed to list by product: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 reviews for product, got %d", total)
	}

	_, total, err = repo.List(ctx, ReviewFilter{Search: "battery"})
	if err != nil {
		t.Fatalf("failed to search reviews: %v", err)
	}
	if total != 1 {
		t.Fatalf("search matched %d reviews", total)
	}

	_, total, err = repo.List(ctx, ReviewFilter{Rating: 3})
	if err != nil {
		t.Fatalf("failed to filter by rating: %v", err)
	}
	if total != 1 {
		t.Fatalf("rating filter matched %d reviews", total)
	}
}

func TestReviewRepository_UpdateModerationFields(t *testing.T) {
	truncate(t, "reviews")
	repo := NewReviewRepository(testDB)
	ctx := context.Background()

	review := testReview(uuid.New(), uuid.New(), 2, false)
	if err := repo.Create(ctx, review); err != nil {
		t.Fatalf("failed to create review: %v", err)
	}

	response := "Thanks for flagging, we have contacted the supplier."
	review.IsApproved = true
	review.AdminResponse = &response
	review.UpdatedAt = time.Now()
	if err := repo.Update(ctx, review); err != nil {
		t.Fatalf("failed to update review: %v", err)
	}

	retrieved, err := repo.FindByID(ctx, review.ID)
	if err != nil {
		t.Fatalf("failed to find review: %v", err)
	}
	if !retrieved.IsApproved {
		t.Fatal("approval not persisted")
	}
	if retrieved.AdminResponse == nil || *retrieved.AdminResponse != response {
		t.Fatalf("admin response not persisted: %v", retrieved.AdminResponse)
	}

	missing := testReview(uuid.New(), uuid.New(), 3, false)
	if err := repo.Update(ctx, missing); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestReviewRepository_DeleteAndHelpful(t *testing.T) {
	truncate(t, "reviews")
	repo := NewReviewRepository(testDB)
	ctx := context.Background()

	review := testReview(uuid.New(), uuid.New(), 5, true)
	if err := repo.Create(ctx, review); err != nil {
		t.Fatalf("failed to create review: %v", err)
	}

	if err := repo.IncrementHelpfulCount(ctx, review.ID); err != nil {
		t.Fatalf("failed to increment helpful count: %v", err)
	}
	retrieved, err := repo.FindByID(ctx, review.ID)
	if err != nil {
		t.Fatalf("failed to find review: %v", err)
	}
	if retrieved.HelpfulCount != 1 {
		t.Fatalf("expected helpful count 1, got %d", retrieved.HelpfulCount)
	}

	if err := repo.Delete(ctx, review.ID); err != nil {
		t.Fatalf("failed to delete review: %v", err)
	}
	if _, err := repo.FindByID(ctx, review.ID); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound after delete, got %v", err)
	}
	if err := repo.IncrementHelpfulCount(ctx, review.ID); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}
