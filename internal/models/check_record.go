// Package models defines the data structures for the refill eligibility service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// CheckRecord is one entry of the optional audit trail.
type CheckRecord struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Email      string    `json:"email" db:"email"`
	ShopDomain string    `json:"shop_domain" db:"shop_domain"`
	StatusCode int       `json:"status_code" db:"status_code"`
	Eligible   bool      `json:"eligible" db:"eligible"`
	Reason     string    `json:"reason,omitempty" db:"reason"`
	CustomerID *int64    `json:"customer_id,omitempty" db:"customer_id"`
	Error      string    `json:"error,omitempty" db:"error"`
	CheckedAt  time.Time `json:"checked_at" db:"checked_at"`
}

// NewCheckRecord captures the outcome of a single check.
func NewCheckRecord(email, shopDomain string, statusCode int, resp RefillCheckResponse) CheckRecord {
	return CheckRecord{
		ID:         uuid.New(),
		Email:      email,
		ShopDomain: shopDomain,
		StatusCode: statusCode,
		Eligible:   resp.IsEligible(),
		Reason:     resp.Reason,
		CustomerID: resp.CustomerID,
		Error:      resp.Error,
		CheckedAt:  time.Now().UTC(),
	}
}
