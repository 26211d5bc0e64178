package transport

import (
	"net/http"

	"camerastore/internal/middleware"
	"camerastore/internal/repository"
	"camerastore/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateUserRequest represents the admin create-user payload
type CreateUserRequest struct {
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required,min=8"`
	FirstName     string  `json:"first_name" validate:"required"`
	LastName      string  `json:"last_name" validate:"required"`
	Role          string  `json:"role" validate:"omitempty,oneof=user admin moderator"`
	IsActive      *bool   `json:"is_active"`
	EmailVerified bool    `json:"email_verified"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
}

// UpdateUserRequest represents the admin partial-update payload
type UpdateUserRequest struct {
	Email         *string `json:"email"`
	Password      *string `json:"password"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Role          *string `json:"role"`
	IsActive      *bool   `json:"is_active"`
	EmailVerified *bool   `json:"email_verified"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
}

// UserListResponse is the admin user listing envelope.
type UserListResponse struct {
	Users      []UserProfile      `json:"users"`
	Pagination PaginationResponse `json:"pagination"`
}

// AdminUserHandler handles the admin users panel
type AdminUserHandler struct {
	userAdminService service.UserAdminService
	logger           *zap.Logger
}

// NewAdminUserHandler creates a new AdminUserHandler
func NewAdminUserHandler(userAdminService service.UserAdminService, logger *zap.Logger) *AdminUserHandler {
	return &AdminUserHandler{
		userAdminService: userAdminService,
		logger:           logger,
	}
}

// RegisterRoutes registers the admin user routes
func (h *AdminUserHandler) RegisterRoutes(r chi.Router, authMiddleware, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/admin/users", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminOnly)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles the admin user listing with filters
func (h *AdminUserHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination := parsePagination(r, 20)

	filter := repository.UserFilter{
		Search:    r.URL.Query().Get("search"),
		Role:      r.URL.Query().Get("role"),
		Active:    queryBool(r, "is_active"),
		Page:      pagination.Page,
		PageSize:  pagination.Limit,
		SortBy:    r.URL.Query().Get("sort"),
		SortOrder: querySortOrder(r),
	}

	users, total, err := h.userAdminService.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	profiles := make([]UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, newUserProfile(user))
	}

	middleware.RespondWithJSON(w, http.StatusOK, UserListResponse{
		Users:      profiles,
		Pagination: NewPaginationResponse(filter.Page, filter.PageSize, total),
	})
}

// Create handles admin user creation
func (h *AdminUserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
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

	user, err := h.userAdminService.Create(r.Context(), service.UserCreate{
		Email:         req.Email,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Role:          req.Role,
		IsActive:      active,
		EmailVerified: req.EmailVerified,
		Phone:         req.Phone,
		Address:       req.Address,
	})
	if err != nil {
		switch err {
		case repository.ErrUserAlreadyExists:
			middleware.RespondWithError(w, http.StatusConflict, "user with this email already exists")
		case service.ErrUserNameRequired, service.ErrUserEmailRequired, service.ErrInvalidRole:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to create user", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	h.logger.Info("User created by admin",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"user": newUserProfile(user)})
}

// Update handles admin partial user updates
func (h *AdminUserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req UpdateUserRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userAdminService.Update(r.Context(), id, service.UserUpdate{
		Email:         req.Email,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Role:          req.Role,
		IsActive:      req.IsActive,
		EmailVerified: req.EmailVerified,
		Phone:         req.Phone,
		Address:       req.Address,
	})
	if err != nil {
		switch err {
		case repository.ErrUserNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
		case repository.ErrUserAlreadyExists:
			middleware.RespondWithError(w, http.StatusConflict, "user with this email already exists")
		case service.ErrUserEmailRequired, service.ErrInvalidRole:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to update user", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update user")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"user": newUserProfile(user)})
}

// Delete handles admin user deletion
func (h *AdminUserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := h.userAdminService.Delete(r.Context(), id); err != nil {
		if err == repository.ErrUserNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("Failed to delete user", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	h.logger.Info("User deleted by admin", zap.String("user_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
