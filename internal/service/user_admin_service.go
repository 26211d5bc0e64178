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
	ErrUserNameRequired  = errors.New("user name is required")
	ErrUserEmailRequired = errors.New("user email is required")
	ErrInvalidRole       = errors.New("role must be user, admin or moderator")
)

// UserCreate carries the fields of an admin "create user" form.
type UserCreate struct {
	Email         string
	Password      string
	FirstName     string
	LastName      string
	Role          string
	IsActive      bool
	EmailVerified bool
	Phone         *string
	Address       *string
}

// UserUpdate carries a partial user mutation. Nil fields keep the previously
// stored value.
type UserUpdate struct {
	Email         *string
	Password      *string
	FirstName     *string
	LastName      *string
	Role          *string
	IsActive      *bool
	EmailVerified *bool
	Phone         *string
	Address       *string
}

// UserAdminService defines the interface for the admin users panel.
type UserAdminService interface {
	List(ctx context.Context, filter repository.UserFilter) ([]*domain.User, int, error)
	Create(ctx context.Context, input UserCreate) (*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userAdminService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
}

// NewUserAdminService creates a new instance of UserAdminService
func NewUserAdminService(userRepo repository.UserRepository, refreshTokenRepo repository.RefreshTokenRepository) UserAdminService {
	return &userAdminService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// List retrieves users matching the admin filter.
func (s *userAdminService) List(ctx context.Context, filter repository.UserFilter) ([]*domain.User, int, error) {
	return s.userRepo.List(ctx, filter)
}

// Create validates and stores a user from the admin form.
func (s *userAdminService) Create(ctx context.Context, input UserCreate) (*domain.User, error) {
	if strings.TrimSpace(input.FirstName) == "" && strings.TrimSpace(input.LastName) == "" {
		return nil, ErrUserNameRequired
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, ErrUserEmailRequired
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:            uuid.New(),
		Email:         input.Email,
		PasswordHash:  hashedPassword,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Role:          role,
		IsActive:      input.IsActive,
		EmailVerified: input.EmailVerified,
		Phone:         input.Phone,
		Address:       input.Address,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Update merges the partial update over the stored record. Deactivating an
// account revokes its outstanding refresh tokens.
func (s *userAdminService) Update(ctx context.Context, id uuid.UUID, update UserUpdate) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	deactivated := false

	if update.Email != nil {
		if strings.TrimSpace(*update.Email) == "" {
			return nil, ErrUserEmailRequired
		}
		user.Email = *update.Email
	}
	if update.Password != nil && *update.Password != "" {
		hashedPassword, err := hashPassword(*update.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hashedPassword
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Role != nil {
		if !domain.ValidRole(*update.Role) {
			return nil, ErrInvalidRole
		}
		user.Role = *update.Role
	}
	if update.IsActive != nil {
		if user.IsActive && !*update.IsActive {
			deactivated = true
		}
		user.IsActive = *update.IsActive
	}
	if update.EmailVerified != nil {
		user.EmailVerified = *update.EmailVerified
	}
	if update.Phone != nil {
		user.Phone = update.Phone
	}
	if update.Address != nil {
		user.Address = update.Address
	}

	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if deactivated {
		if err := s.refreshTokenRepo.RevokeAllForUser(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to revoke sessions: %w", err)
		}
	}

	return user, nil
}

// Delete removes a user and revokes their sessions. Reviews are not
// cascade-deleted.
func (s *userAdminService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.refreshTokenRepo.RevokeAllForUser(ctx, id); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return s.userRepo.Delete(ctx, id)
}
