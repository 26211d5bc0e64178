package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"camerastore/internal/domain"
	"camerastore/internal/transport"

	"github.com/google/uuid"
)

// APIError is a normalized server error: every non-2xx response is reduced
// to a status, a machine code and a human message.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// errorEnvelope mirrors the server's error response body.
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// APIClient talks to the storefront API. It injects the bearer token on
// every request and reports 401 responses through the unauthorized hook so
// the session can be invalidated in one place.
type APIClient struct {
	baseURL    string
	httpClient *http.Client

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken sets the bearer token used for authenticated requests. An empty
// token clears authentication.
func (c *APIClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *APIClient) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnUnauthorized registers the hook invoked whenever the server answers 401.
func (c *APIClient) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

func (c *APIClient) send(req *http.Request, out interface{}) error {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.mu.RLock()
		fn := c.onUnauthorized
		c.mu.RUnlock()
		if fn != nil {
			fn()
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Code: "UNKNOWN", Message: http.StatusText(resp.StatusCode)}
		var envelope errorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Code != "" {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ProductQuery carries the catalog list parameters.
type ProductQuery struct {
	Categories  []string
	Subcategory string
	Search      string
	Featured    *bool
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if len(q.Categories) > 0 {
		v.Set("categories", strings.Join(q.Categories, ","))
	}
	if q.Subcategory != "" {
		v.Set("subcategory", q.Subcategory)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Featured != nil {
		v.Set("featured", strconv.FormatBool(*q.Featured))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("limit", strconv.Itoa(q.PageSize))
	}
	if q.SortBy != "" {
		v.Set("sort", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("order", q.SortOrder)
	}
	return v
}

// --- Auth ---

func (c *APIClient) Register(ctx context.Context, req transport.RegisterRequest) (*transport.UserProfile, error) {
	var resp transport.UserProfile
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) Login(ctx context.Context, email, password string) (*transport.LoginResponse, error) {
	var resp transport.LoginResponse
	req := transport.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	var resp transport.RefreshResponse
	req := transport.RefreshRequest{RefreshToken: refreshToken}
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", req, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *APIClient) Logout(ctx context.Context, refreshToken string) error {
	req := transport.RefreshRequest{RefreshToken: refreshToken}
	return c.do(ctx, http.MethodPost, "/api/auth/logout", req, nil)
}

func (c *APIClient) Profile(ctx context.Context) (*transport.UserProfile, error) {
	var resp transport.UserProfile
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Catalog ---

func (c *APIClient) ListProducts(ctx context.Context, query ProductQuery) (*transport.ProductListResponse, error) {
	var resp transport.ProductListResponse
	path := "/api/products"
	if encoded := query.values().Encode(); encoded != "" {
		path += "?" + encoded
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var resp struct {
		Product *domain.Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products/"+id.String(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Product, nil
}

func (c *APIClient) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	var resp struct {
		Categories []*domain.Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products/categories", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// --- Reviews ---

func (c *APIClient) ProductReviews(ctx context.Context, productID uuid.UUID) (*transport.ProductReviewsResponse, error) {
	var resp transport.ProductReviewsResponse
	if err := c.do(ctx, http.MethodGet, "/api/reviews/product/"+productID.String(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) CreateReview(ctx context.Context, req transport.CreateReviewRequest) (*domain.Review, error) {
	var resp struct {
		Review *domain.Review `json:"review"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/reviews/", req, &resp); err != nil {
		return nil, err
	}
	return resp.Review, nil
}

func (c *APIClient) UpdateReview(ctx context.Context, id uuid.UUID, req transport.UpdateReviewRequest) (*domain.Review, error) {
	var resp struct {
		Review *domain.Review `json:"review"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/reviews/"+id.String(), req, &resp); err != nil {
		return nil, err
	}
	return resp.Review, nil
}

func (c *APIClient) DeleteReview(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/reviews/"+id.String(), nil, nil)
}

func (c *APIClient) ReportReview(ctx context.Context, id uuid.UUID, reason string) error {
	req := transport.ReportReviewRequest{Reason: reason}
	return c.do(ctx, http.MethodPost, "/api/reviews/"+id.String()+"/report", req, nil)
}

func (c *APIClient) MarkReviewHelpful(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/api/reviews/"+id.String()+"/helpful", nil, nil)
}

// --- Admin: products ---

func (c *APIClient) AdminListProducts(ctx context.Context, query ProductQuery) (*transport.ProductListResponse, error) {
	var resp transport.ProductListResponse
	path := "/api/admin/products"
	if encoded := query.values().Encode(); encoded != "" {
		path += "?" + encoded
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*domain.Product, error) {
	var resp struct {
		Product *domain.Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/admin/products/", req, &resp); err != nil {
		return nil, err
	}
	return resp.Product, nil
}

func (c *APIClient) UpdateProduct(ctx context.Context, id uuid.UUID, req transport.UpdateProductRequest) (*domain.Product, error) {
	var resp struct {
		Product *domain.Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/admin/products/"+id.String(), req, &resp); err != nil {
		return nil, err
	}
	return resp.Product, nil
}

func (c *APIClient) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/products/"+id.String(), nil, nil)
}

// UploadProductImage sends an image as multipart form data and returns the
// stored image URL.
func (c *APIClient) UploadProductImage(ctx context.Context, id uuid.UUID, filename string, image io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finish upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/admin/products/"+id.String()+"/image", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp struct {
		ImageURL string `json:"image_url"`
	}
	if err := c.send(req, &resp); err != nil {
		return "", err
	}
	return resp.ImageURL, nil
}

// --- Admin: users ---

// UserQuery carries the admin user list parameters.
type UserQuery struct {
	Search    string
	Role      string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

func (q UserQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Role != "" {
		v.Set("role", q.Role)
	}
	if q.Active != nil {
		v.Set("is_active", strconv.FormatBool(*q.Active))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("limit", strconv.Itoa(q.PageSize))
	}
	if q.SortBy != "" {
		v.Set("sort", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("order", q.SortOrder)
	}
	return v
}

func (c *APIClient) AdminListUsers(ctx context.Context, query UserQuery) (*transport.UserListResponse, error) {
	var resp transport.UserListResponse
	path := "/api/admin/users"
	if encoded := query.values().Encode(); encoded != "" {
		path += "?" + encoded
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) AdminCreateUser(ctx context.Context, req transport.CreateUserRequest) (*transport.UserProfile, error) {
	var resp struct {
		User *transport.UserProfile `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/admin/users/", req, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *APIClient) AdminUpdateUser(ctx context.Context, id uuid.UUID, req transport.UpdateUserRequest) (*transport.UserProfile, error) {
	var resp struct {
		User *transport.UserProfile `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/admin/users/"+id.String(), req, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *APIClient) AdminDeleteUser(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/users/"+id.String(), nil, nil)
}

// --- Moderation ---

func (c *APIClient) ModerationReviews(ctx context.Context, reported *bool, page int) (*transport.ReviewListResponse, error) {
	var resp transport.ReviewListResponse
	v := url.Values{}
	if reported != nil {
		v.Set("is_reported", strconv.FormatBool(*reported))
	}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	path := "/api/reviews/"
	if encoded := v.Encode(); encoded != "" {
		path += "?" + encoded
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) ModerateReview(ctx context.Context, id uuid.UUID, approve bool, adminResponse string) (*domain.Review, error) {
	var resp struct {
		Review *domain.Review `json:"review"`
	}
	req := transport.ModerateReviewRequest{Approve: approve, AdminResponse: adminResponse}
	if err := c.do(ctx, http.MethodPut, "/api/reviews/"+id.String()+"/moderate", req, &resp); err != nil {
		return nil, err
	}
	return resp.Review, nil
}
