package client

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"camerastore/internal/domain"
)

// CatalogState is a consistent snapshot of the browsing state. Products,
// page counts and totals always come from the same server response.
type CatalogState struct {
	Products   []*domain.Product
	Page       int
	TotalPages int
	TotalItems int
	Loading    bool
	Err        error
}

// CatalogFlow drives product browsing: facet selection, search, paging and
// sorting. Concurrent refreshes are serialized by a generation counter so a
// slow response for an old filter set never overwrites a newer one.
type CatalogFlow struct {
	api      *APIClient
	pageSize int

	generation atomic.Uint64

	mu          sync.Mutex
	facets      map[string]bool
	subcategory string
	search      string
	page        int
	sortBy      string
	sortOrder   string
	categories  []*domain.Category
	state       CatalogState
}

func NewCatalogFlow(api *APIClient, pageSize int) *CatalogFlow {
	if pageSize <= 0 {
		pageSize = 12
	}
	return &CatalogFlow{
		api:      api,
		pageSize: pageSize,
		facets:   make(map[string]bool),
		page:     1,
		state:    CatalogState{Page: 1, TotalPages: 1},
	}
}

// LoadCategories fetches the category tree used for facet display and
// shortcut translation.
func (f *CatalogFlow) LoadCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := f.api.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.categories = categories
	f.mu.Unlock()
	return categories, nil
}

// State returns a copy of the current browsing state.
func (f *CatalogFlow) State() CatalogState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Facets returns the selected facet names, sorted for stable display.
func (f *CatalogFlow) Facets() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, 0, len(f.facets))
	for name := range f.facets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToggleFacet flips a category facet on or off. Touching the facet set
// always moves browsing back to the first page.
func (f *CatalogFlow) ToggleFacet(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.facets[name] {
		delete(f.facets, name)
	} else {
		f.facets[name] = true
	}
	f.page = 1
}

// SetSearch replaces the search query and resets to the first page.
func (f *CatalogFlow) SetSearch(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.search = query
	f.page = 1
}

// SelectShortcut applies a navigation shortcut by display name. The display
// name is looked up in the loaded category submenus and translated to its
// stored subcategory key ("67mm Filters" filters on subcategory "67mm").
// It reports whether the shortcut was recognized.
func (f *CatalogFlow) SelectShortcut(displayName string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, category := range f.categories {
		for _, item := range category.Submenu {
			if item.Name == displayName {
				f.facets = map[string]bool{category.Name: true}
				f.subcategory = item.Key
				f.search = ""
				f.page = 1
				return true
			}
		}
	}
	return false
}

// SetPage moves to the given 1-based page.
func (f *CatalogFlow) SetPage(page int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if page < 1 {
		page = 1
	}
	f.page = page
}

// SetSort changes the sort column and direction and resets to page 1.
func (f *CatalogFlow) SetSort(sortBy, sortOrder string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sortBy = sortBy
	f.sortOrder = sortOrder
	f.page = 1
}

// ClearFilters drops all facets, the subcategory shortcut and the search
// query.
func (f *CatalogFlow) ClearFilters() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.facets = make(map[string]bool)
	f.subcategory = ""
	f.search = ""
	f.page = 1
}

// Refresh queries the catalog with the current filters. A refresh started
// after this one supersedes it: the stale response is discarded without
// touching the state.
func (f *CatalogFlow) Refresh(ctx context.Context) error {
	generation := f.generation.Add(1)

	f.mu.Lock()
	query := ProductQuery{
		Categories:  nil,
		Subcategory: f.subcategory,
		Search:      f.search,
		Page:        f.page,
		PageSize:    f.pageSize,
		SortBy:      f.sortBy,
		SortOrder:   f.sortOrder,
	}
	for name := range f.facets {
		query.Categories = append(query.Categories, name)
	}
	sort.Strings(query.Categories)
	page := f.page
	f.state.Loading = true
	f.mu.Unlock()

	resp, err := f.api.ListProducts(ctx, query)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.generation.Load() != generation {
		return nil
	}

	if err != nil {
		f.state = CatalogState{Page: page, TotalPages: 1, Err: err}
		return err
	}

	f.state = CatalogState{
		Products:   resp.Products,
		Page:       resp.Pagination.Page,
		TotalPages: resp.Pagination.Pages,
		TotalItems: resp.Pagination.Total,
	}
	return nil
}
