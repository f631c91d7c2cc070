// Package models defines the data structures for the refill eligibility service.
package models

import (
	"encoding/json"
)

// RefillCheckResponse is the JSON body of every refill-check response.
type RefillCheckResponse struct {
	OK            bool            `json:"ok"`
	Eligible      *bool           `json:"eligible,omitempty"`
	CustomerEmail *string         `json:"customerEmail,omitempty"`
	CustomerID    *int64          `json:"customerId,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	Error         string          `json:"error,omitempty"`
	Details       json.RawMessage `json:"details,omitempty"`
}

// NewEligibilityResponse builds the verdict for a found customer. A customer
// without an id or email leaves the matching field out.
func NewEligibilityResponse(customer Customer, eligible bool) RefillCheckResponse {
	return RefillCheckResponse{
		OK:            true,
		Eligible:      &eligible,
		CustomerEmail: customer.Email,
		CustomerID:    customer.ID,
	}
}

// NewNotFoundResponse builds the verdict when no customer matched.
func NewNotFoundResponse() RefillCheckResponse {
	eligible := false
	return RefillCheckResponse{
		OK:       true,
		Eligible: &eligible,
		Reason:   ReasonCustomerNotFound,
	}
}

// NewErrorResponse builds an error envelope. details may be nil.
func NewErrorResponse(message string, details json.RawMessage) RefillCheckResponse {
	return RefillCheckResponse{
		OK:      false,
		Error:   message,
		Details: details,
	}
}

// IsEligible is a nil-safe accessor for Eligible.
func (r RefillCheckResponse) IsEligible() bool {
	return r.Eligible != nil && *r.Eligible
}
