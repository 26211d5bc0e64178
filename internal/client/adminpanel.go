package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"camerastore/internal/domain"
	"camerastore/internal/transport"

	"github.com/google/uuid"
)

var (
	ErrProductFieldsMissing = errors.New("product name and category are required")
	ErrUserFieldsMissing    = errors.New("user name and email are required")
	ErrDeleteNotConfirmed   = errors.New("delete not confirmed")
)

// AdminProductsPanel drives the product management screen: a debounced
// filterable list plus create, update, delete and image upload actions.
// Mutations never touch the list directly; successful ones re-fetch it.
type AdminProductsPanel struct {
	api      *APIClient
	debounce *Debouncer
	pageSize int

	mu       sync.Mutex
	search   string
	category string
	page     int

	items      []*domain.Product
	totalPages int
	totalItems int
	err        error
}

func NewAdminProductsPanel(api *APIClient, pageSize int, debounce time.Duration) *AdminProductsPanel {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &AdminProductsPanel{
		api:        api,
		debounce:   NewDebouncer(debounce),
		pageSize:   pageSize,
		page:       1,
		totalPages: 1,
	}
}

// Items returns the current list snapshot.
func (p *AdminProductsPanel) Items() ([]*domain.Product, int, int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.items, p.page, p.totalPages, p.totalItems
}

// Err returns the error from the last list fetch, if any.
func (p *AdminProductsPanel) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// SetSearch updates the search filter, resets to page 1 and schedules a
// debounced re-fetch.
func (p *AdminProductsPanel) SetSearch(ctx context.Context, query string) {
	p.mu.Lock()
	p.search = query
	p.page = 1
	p.mu.Unlock()

	p.debounce.Trigger(func() { p.Refresh(ctx) })
}

// SetCategory updates the category filter, resets to page 1 and schedules
// a debounced re-fetch.
func (p *AdminProductsPanel) SetCategory(ctx context.Context, category string) {
	p.mu.Lock()
	p.category = category
	p.page = 1
	p.mu.Unlock()

	p.debounce.Trigger(func() { p.Refresh(ctx) })
}

// SetPage moves to the given page and re-fetches immediately.
func (p *AdminProductsPanel) SetPage(ctx context.Context, page int) error {
	p.mu.Lock()
	if page < 1 {
		page = 1
	}
	p.page = page
	p.mu.Unlock()

	return p.Refresh(ctx)
}

// Refresh fetches the admin product list with the current filters. A failed
// fetch clears the list.
func (p *AdminProductsPanel) Refresh(ctx context.Context) error {
	p.mu.Lock()
	query := ProductQuery{
		Search:   p.search,
		Page:     p.page,
		PageSize: p.pageSize,
	}
	if p.category != "" {
		query.Categories = []string{p.category}
	}
	p.mu.Unlock()

	resp, err := p.api.AdminListProducts(ctx, query)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.items = nil
		p.totalPages = 1
		p.totalItems = 0
		p.err = err
		return err
	}

	p.items = resp.Products
	p.page = resp.Pagination.Page
	p.totalPages = resp.Pagination.Pages
	p.totalItems = resp.Pagination.Total
	p.err = nil
	return nil
}

// Create validates and submits a new product, then re-fetches the list.
func (p *AdminProductsPanel) Create(ctx context.Context, req transport.CreateProductRequest) (*domain.Product, error) {
	if req.Name == "" || req.Category == "" {
		return nil, ErrProductFieldsMissing
	}

	product, err := p.api.CreateProduct(ctx, req)
	if err != nil {
		return nil, err
	}

	p.Refresh(ctx)
	return product, nil
}

// Update submits a partial product update, then re-fetches the list.
func (p *AdminProductsPanel) Update(ctx context.Context, id uuid.UUID, req transport.UpdateProductRequest) (*domain.Product, error) {
	if req.Name != nil && *req.Name == "" {
		return nil, ErrProductFieldsMissing
	}
	if req.Category != nil && *req.Category == "" {
		return nil, ErrProductFieldsMissing
	}

	product, err := p.api.UpdateProduct(ctx, id, req)
	if err != nil {
		return nil, err
	}

	p.Refresh(ctx)
	return product, nil
}

// Delete asks for confirmation, issues the delete and re-fetches the list.
// A declined confirmation sends nothing.
func (p *AdminProductsPanel) Delete(ctx context.Context, id uuid.UUID, confirm func() bool) error {
	if confirm == nil || !confirm() {
		return ErrDeleteNotConfirmed
	}

	if err := p.api.DeleteProduct(ctx, id); err != nil {
		return err
	}

	return p.Refresh(ctx)
}

// AdminUsersPanel drives the user management screen in the same shape as
// the products panel.
type AdminUsersPanel struct {
	api      *APIClient
	debounce *Debouncer
	pageSize int

	mu     sync.Mutex
	search string
	role   string
	active *bool
	page   int

	items      []transport.UserProfile
	totalPages int
	totalItems int
	err        error
}

func NewAdminUsersPanel(api *APIClient, pageSize int, debounce time.Duration) *AdminUsersPanel {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &AdminUsersPanel{
		api:        api,
		debounce:   NewDebouncer(debounce),
		pageSize:   pageSize,
		page:       1,
		totalPages: 1,
	}
}

func (p *AdminUsersPanel) Items() ([]transport.UserProfile, int, int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.items, p.page, p.totalPages, p.totalItems
}

func (p *AdminUsersPanel) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *AdminUsersPanel) SetSearch(ctx context.Context, query string) {
	p.mu.Lock()
	p.search = query
	p.page = 1
	p.mu.Unlock()

	p.debounce.Trigger(func() { p.Refresh(ctx) })
}

// SetRole filters the list by role; empty shows all roles.
func (p *AdminUsersPanel) SetRole(ctx context.Context, role string) {
	p.mu.Lock()
	p.role = role
	p.page = 1
	p.mu.Unlock()

	p.debounce.Trigger(func() { p.Refresh(ctx) })
}

// SetActive filters by account status; nil shows all accounts.
func (p *AdminUsersPanel) SetActive(ctx context.Context, active *bool) {
	p.mu.Lock()
	p.active = active
	p.page = 1
	p.mu.Unlock()

	p.debounce.Trigger(func() { p.Refresh(ctx) })
}

func (p *AdminUsersPanel) SetPage(ctx context.Context, page int) error {
	p.mu.Lock()
	if page < 1 {
		page = 1
	}
	p.page = page
	p.mu.Unlock()

	return p.Refresh(ctx)
}

func (p *AdminUsersPanel) Refresh(ctx context.Context) error {
	p.mu.Lock()
	query := UserQuery{
		Search:   p.search,
		Role:     p.role,
		Active:   p.active,
		Page:     p.page,
		PageSize: p.pageSize,
	}
	p.mu.Unlock()

	resp, err := p.api.AdminListUsers(ctx, query)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.items = nil
		p.totalPages = 1
		p.totalItems = 0
		p.err = err
		return err
	}

	p.items = resp.Users
	p.page = resp.Pagination.Page
	p.totalPages = resp.Pagination.Pages
	p.totalItems = resp.Pagination.Total
	p.err = nil
	return nil
}

func (p *AdminUsersPanel) Create(ctx context.Context, req transport.CreateUserRequest) (*transport.UserProfile, error) {
	if req.Email == "" || (req.FirstName == "" && req.LastName == "") {
		return nil, ErrUserFieldsMissing
	}

	user, err := p.api.AdminCreateUser(ctx, req)
	if err != nil {
		return nil, err
	}

	p.Refresh(ctx)
	return user, nil
}

func (p *AdminUsersPanel) Update(ctx context.Context, id uuid.UUID, req transport.UpdateUserRequest) (*transport.UserProfile, error) {
	if req.Email != nil && *req.Email == "" {
		return nil, ErrUserFieldsMissing
	}

	user, err := p.api.AdminUpdateUser(ctx, id, req)
	if err != nil {
		return nil, err
	}

	p.Refresh(ctx)
	return user, nil
}

func (p *AdminUsersPanel) Delete(ctx context.Context, id uuid.UUID, confirm func() bool) error {
	if confirm == nil || !confirm() {
		return ErrDeleteNotConfirmed
	}

	if err := p.api.AdminDeleteUser(ctx, id); err != nil {
		return err
	}

	return p.Refresh(ctx)
}
