package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a camera accessory in the catalog.
//
// Category holds the owning category's name; Subcategory is only meaningful
// for categories that carry a submenu (e.g. filter thread sizes under
// "Filters"). Features is an ordered list of marketing bullet points.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Features    []string  `json:"features" db:"features"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	Category    string    `json:"category" db:"category"`
	Subcategory *string   `json:"subcategory,omitempty" db:"subcategory"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	IsFeatured  bool      `json:"is_featured" db:"is_featured"`
	ViewCount   int       `json:"view_count" db:"view_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// SubmenuItem is one entry of a category's navigation submenu. Key is the
// value stored in products.subcategory; Name is what navigation displays
// (e.g. Name "67mm Filters", Key "67mm").
type SubmenuItem struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// Category represents a product category with an optional ordered submenu.
type Category struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Submenu   []SubmenuItem `json:"submenu,omitempty" db:"submenu"`
	IsActive  bool          `json:"is_active" db:"is_active"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}
