package transport

import (
	"net/http"

	"camerastore/internal/domain"
	"camerastore/internal/middleware"
	"camerastore/internal/repository"
	"camerastore/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateReviewRequest represents the review submission payload
type CreateReviewRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title     string `json:"title" validate:"required"`
	Comment   string `json:"comment"`
}

// UpdateReviewRequest represents the review revision payload
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title   string `json:"title" validate:"required"`
	Comment string `json:"comment"`
}

// ReportReviewRequest represents the report payload
type ReportReviewRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ModerateReviewRequest represents the admin moderation payload
type ModerateReviewRequest struct {
	Approve       bool   `json:"approve"`
	AdminResponse string `json:"admin_response"`
}

// ProductReviewsResponse is the public review listing envelope.
type ProductReviewsResponse struct {
	Reviews []*domain.Review    `json:"reviews"`
	Stats   *domain.ReviewStats `json:"stats"`
}

// ReviewListResponse is the moderation listing envelope.
type ReviewListResponse struct {
	Reviews    []*domain.Review   `json:"reviews"`
	Pagination PaginationResponse `json:"pagination"`
}

// ReviewHandler handles HTTP requests for reviews
type ReviewHandler struct {
	reviewService service.ReviewService
	logger        *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger,
	}
}

// RegisterRoutes registers public, authenticated and moderation review routes
func (h *ReviewHandler) RegisterRoutes(r chi.Router, authMiddleware, moderatorOnly func(http.Handler) http.Handler) {
	r.Route("/api/reviews", func(r chi.Router) {
		r.Get("/product/{id}", h.ListForProduct)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Post("/{id}/report", h.Report)
			r.Post("/{id}/helpful", h.MarkHelpful)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(moderatorOnly)
			r.Get("/", h.ListForModeration)
			r.Put("/{id}/moderate", h.Moderate)
		})
	})
}

func requestUserID(r *http.Request) (uuid.UUID, bool) {
	raw, ok := middleware.GetUserID(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// ListForProduct handles the public review listing; unapproved reviews never
// appear here
func (h *ReviewHandler) ListForProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	reviews, stats, err := h.reviewService.ListForProduct(r.Context(), productID)
	if err != nil {
		h.logger.Error("Failed to list reviews", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductReviewsResponse{Reviews: reviews, Stats: stats})
}

// Create handles review submission
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateReviewRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	review, err := h.reviewService.Create(r.Context(), userID, productID, req.Rating, req.Title, req.Comment)
	if err != nil {
		switch err {
		case repository.ErrProductNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case repository.ErrReviewAlreadyExists:
			middleware.RespondWithError(w, http.StatusConflict, "you have already reviewed this product")
		case service.ErrInvalidRating:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to create review", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create review")
		}
		return
	}

	h.logger.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("product_id", productID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"review": review})
}

// Update handles owner review revision
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reviewID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid review ID")
		return
	}

	var req UpdateReviewRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviewService.Update(r.Context(), userID, reviewID, req.Rating, req.Title, req.Comment)
	if err != nil {
		h.respondReviewError(w, err, "failed to update review")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"review": review})
}

// Delete handles owner review deletion
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reviewID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid review ID")
		return
	}

	if err := h.reviewService.Delete(r.Context(), userID, reviewID); err != nil {
		h.respondReviewError(w, err, "failed to delete review")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "review deleted"})
}

// Report handles the end-user report flag
func (h *ReviewHandler) Report(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid review ID")
		return
	}

	var req ReportReviewRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.reviewService.Report(r.Context(), reviewID, req.Reason); err != nil {
		h.respondReviewError(w, err, "failed to report review")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "review reported"})
}

// MarkHelpful handles the helpful-count bump
func (h *ReviewHandler) MarkHelpful(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid review ID")
		return
	}

	if err := h.reviewService.MarkHelpful(r.Context(), reviewID); err != nil {
		h.respondReviewError(w, err, "failed to mark review helpful")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "marked helpful"})
}

// ListForModeration handles the moderation queue with filters
func (h *ReviewHandler) ListForModeration(w http.ResponseWriter, r *http.Request) {
	pagination := parsePagination(r, 20)

	filter := repository.ReviewFilter{
		Search:    r.URL.Query().Get("search"),
		Rating:    queryInt(r, "rating", 0),
		Approved:  queryBool(r, "is_approved"),
		Reported:  queryBool(r, "is_reported"),
		Page:      pagination.Page,
		PageSize:  pagination.Limit,
		SortBy:    r.URL.Query().Get("sort"),
		SortOrder: querySortOrder(r),
	}

	if raw := r.URL.Query().Get("product_id"); raw != "" {
		if productID, err := uuid.Parse(raw); err == nil {
			filter.ProductID = &productID
		}
	}

	reviews, total, err := h.reviewService.ListForModeration(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list reviews for moderation", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ReviewListResponse{
		Reviews:    reviews,
		Pagination: NewPaginationResponse(filter.Page, filter.PageSize, total),
	})
}

// Moderate handles approve/reject with optional admin response
func (h *ReviewHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid review ID")
		return
	}

	var req ModerateReviewRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviewService.Moderate(r.Context(), reviewID, req.Approve, req.AdminResponse)
	if err != nil {
		h.respondReviewError(w, err, "failed to moderate review")
		return
	}

	h.logger.Info("Review moderated",
		zap.String("review_id", reviewID.String()),
		zap.Bool("approved", req.Approve),
	)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"review": review})
}

func (h *ReviewHandler) respondReviewError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case repository.ErrReviewNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "review not found")
	case service.ErrNotReviewOwner:
		middleware.RespondWithError(w, http.StatusForbidden, "review belongs to another user")
	case service.ErrInvalidRating, service.ErrReportReasonMissing:
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
