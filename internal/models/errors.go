// Package models defines the data structures for the refill eligibility service.
package models

import (
	"errors"
)

// Common errors
var (
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrEmailRequired    = errors.New("email required")
	ErrMissingConfig    = errors.New("missing shopify configuration")
)

// Client-facing messages. These strings are part of the HTTP contract.
const (
	MsgMethodNotAllowed = "Method not allowed"
	MsgEmailRequired    = "Email required"
	MsgShopifyAPIError  = "Shopify API error"
	MsgServerError      = "Server error"
)

// ReasonCustomerNotFound is reported when the search returns no customers.
const ReasonCustomerNotFound = "customer_not_found"
