package service

import (
	"context"
	"strings"

	"camerastore/internal/domain"
	"camerastore/internal/repository"

	"github.com/google/uuid"
)

// In-memory repositories for testing

type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	for email, existing := range m.users {
		if existing.ID == user.ID {
			if email != user.Email {
				delete(m.users, email)
			}
			m.users[user.Email] = user
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for email, user := range m.users {
		if user.ID == id {
			delete(m.users, email)
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context, filter repository.UserFilter) ([]*domain.User, int, error) {
	var out []*domain.User
	for _, user := range m.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.Active != nil && user.IsActive != *filter.Active {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(user.Email), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, user)
	}
	return out, len(out), nil
}

func (m *mockUserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	return nil
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

func (m *mockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	for _, token := range m.tokens {
		if token.UserID == userID {
			token.Revoked = true
		}
	}
	return nil
}

func (m *mockRefreshTokenRepository) activeTokenCount(userID uuid.UUID) int {
	count := 0
	for _, token := range m.tokens {
		if token.UserID == userID && !token.Revoked {
			count++
		}
	}
	return count
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, exists := m.products[product.ID]; !exists {
		return repository.ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.products[id]; !exists {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	// Return a row snapshot like the SQL repository does.
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, int, error) {
	var out []*domain.Product
	for _, product := range m.products {
		if filter.Active != nil && product.IsActive != *filter.Active {
			continue
		}
		if filter.Featured != nil && product.IsFeatured != *filter.Featured {
			continue
		}
		out = append(out, product)
	}
	return out, len(out), nil
}

func (m *mockProductRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	product, exists := m.products[id]
	if !exists {
		return repository.ErrProductNotFound
	}
	product.ViewCount++
	return nil
}

type mockCategoryRepository struct {
	categories map[string]*domain.Category
}

func newMockCategoryRepository(names ...string) *mockCategoryRepository {
	m := &mockCategoryRepository{categories: make(map[string]*domain.Category)}
	for _, name := range names {
		m.categories[name] = &domain.Category{ID: uuid.New(), Name: name, IsActive: true}
	}
	return m
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if _, exists := m.categories[category.Name]; exists {
		return repository.ErrCategoryAlreadyExists
	}
	m.categories[category.Name] = category
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, category := range m.categories {
		if activeOnly && !category.IsActive {
			continue
		}
		out = append(out, category)
	}
	return out, nil
}

func (m *mockCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	category, exists := m.categories[name]
	if !exists {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

type mockReviewRepository struct {
	reviews map[uuid.UUID]*domain.Review
}

func newMockReviewRepository() *mockReviewRepository {
	return &mockReviewRepository{reviews: make(map[uuid.UUID]*domain.Review)}
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	for _, existing := range m.reviews {
		if existing.ProductID == review.ProductID && existing.UserID == review.UserID {
			return repository.ErrReviewAlreadyExists
		}
	}
	m.reviews[review.ID] = review
	return nil
}

func (m *mockReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	if _, exists := m.reviews[review.ID]; !exists {
		return repository.ErrReviewNotFound
	}
	m.reviews[review.ID] = review
	return nil
}

func (m *mockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.reviews[id]; !exists {
		return repository.ErrReviewNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *mockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	review, exists := m.reviews[id]
	if !exists {
		return nil, repository.ErrReviewNotFound
	}
	return review, nil
}

func (m *mockReviewRepository) ListApprovedByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	var out []*domain.Review
	for _, review := range m.reviews {
		if review.ProductID == productID && review.IsApproved {
			out = append(out, review)
		}
	}
	return out, nil
}

func (m *mockReviewRepository) List(ctx context.Context, filter repository.ReviewFilter) ([]*domain.Review, int, error) {
	var out []*domain.Review
	for _, review := range m.reviews {
		if filter.ProductID != nil && review.ProductID != *filter.ProductID {
			continue
		}
		if filter.Approved != nil && review.IsApproved != *filter.Approved {
			continue
		}
		if filter.Reported != nil && review.IsReported != *filter.Reported {
			continue
		}
		out = append(out, review)
	}
	return out, len(out), nil
}

func (m *mockReviewRepository) StatsByProduct(ctx context.Context, productID uuid.UUID) (*domain.ReviewStats, error) {
	stats := &domain.ReviewStats{Breakdown: make(map[int]int)}
	sum := 0
	for _, review := range m.reviews {
		if review.ProductID != productID || !review.IsApproved {
			continue
		}
		stats.Count++
		stats.Breakdown[review.Rating]++
		sum += review.Rating
	}
	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}
	return stats, nil
}

func (m *mockReviewRepository) IncrementHelpfulCount(ctx context.Context, id uuid.UUID) error {
	review, exists := m.reviews[id]
	if !exists {
		return repository.ErrReviewNotFound
	}
	review.HelpfulCount++
	return nil
}
