// Package models defines the data structures for the refill eligibility service.
package models

import (
	"encoding/json"
	"time"
)

// FailureKind classifies failures worth telling an operator about.
type FailureKind string

const (
	FailureKindMissingConfig FailureKind = "missing_config"
	FailureKindShopifyAPI    FailureKind = "shopify_api"
)

// CheckFailure describes a check that failed for reasons the caller cannot fix.
type CheckFailure struct {
	Kind       FailureKind     `json:"kind"`
	Email      string          `json:"email"`
	ShopDomain string          `json:"shop_domain,omitempty"`
	Message    string          `json:"message"`
	StatusCode int             `json:"status_code,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
