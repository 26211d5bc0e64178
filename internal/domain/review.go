package domain

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer review of a product. Reviews start unapproved and are
// excluded from public listings and rating stats until a moderator approves
// them. IsReported is an orthogonal end-user flag that never changes the
// approval state; it is surfaced to moderators as a priority signal.
type Review struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ProductID     uuid.UUID `json:"product_id" db:"product_id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Rating        int       `json:"rating" db:"rating"`
	Title         string    `json:"title" db:"title"`
	Comment       string    `json:"comment" db:"comment"`
	IsApproved    bool      `json:"is_approved" db:"is_approved"`
	IsReported    bool      `json:"is_reported" db:"is_reported"`
	ReportReason  *string   `json:"report_reason,omitempty" db:"report_reason"`
	AdminResponse *string   `json:"admin_response,omitempty" db:"admin_response"`
	HelpfulCount  int       `json:"helpful_count" db:"helpful_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ReviewStats aggregates approved reviews for one product.
type ReviewStats struct {
	Average   float64     `json:"average"`
	Count     int         `json:"count"`
	Breakdown map[int]int `json:"breakdown"` // star value (1..5) -> count
}
