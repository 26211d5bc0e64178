package transport

import (
	"net/http"
	"strconv"

	"camerastore/internal/repository"
)

// Pagination holds the page/limit portion of a list query.
type Pagination struct {
	Page  int
	Limit int
}

// PaginationResponse is the pagination block every list endpoint returns.
type PaginationResponse struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
}

// NewPaginationResponse derives total pages from the total item count. An
// empty result still reports one page so clients have a stable bound.
func NewPaginationResponse(page, limit, total int) PaginationResponse {
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	return PaginationResponse{Page: page, Pages: pages, Total: total}
}

func parsePagination(r *http.Request, defaultLimit int) Pagination {
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}

	limit := queryInt(r, "limit", defaultLimit)
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}

	return Pagination{Page: page, Limit: limit}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// queryBool returns nil when the parameter is absent so "unfiltered" stays
// distinct from an explicit true/false facet.
func queryBool(r *http.Request, name string) *bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

func querySortOrder(r *http.Request) repository.SortOrder {
	switch r.URL.Query().Get("order") {
	case "asc", "ASC":
		return repository.SortOrderAsc
	case "desc", "DESC":
		return repository.SortOrderDesc
	default:
		return ""
	}
}
