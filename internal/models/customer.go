// Package models defines the data structures for the refill eligibility service.
package models

import (
	"strings"
)

// Customer is the subset of a Shopify customer record the service reads.
// ID and Email stay nil when Shopify omits them or sends null.
type Customer struct {
	ID    *int64  `json:"id"`
	Email *string `json:"email"`
	// Tags is Shopify's comma-separated tag string; null or missing decodes to "".
	Tags string `json:"tags"`
}

// NewCustomer builds a customer with every field present.
func NewCustomer(id int64, email, tags string) Customer {
	return Customer{ID: &id, Email: &email, Tags: tags}
}

// EmailAddress returns the customer's email, or "" when it is unknown.
func (c *Customer) EmailAddress() string {
	if c.Email == nil {
		return ""
	}
	return *c.Email
}

// TagList returns the customer's tags, trimmed, lower-cased and without empties.
func (c *Customer) TagList() []string {
	return ParseTags(c.Tags)
}

// HasTag reports whether tag appears in the customer's tag list, ignoring case.
func (c *Customer) HasTag(tag string) bool {
	want := strings.ToLower(strings.TrimSpace(tag))
	for _, t := range c.TagList() {
		if t == want {
			return true
		}
	}
	return false
}

// ParseTags splits a comma-separated tag string.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.ToLower(strings.TrimSpace(p))
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// NormalizeEmail collapses a query parameter to its first value, then trims
// and lower-cases it. Absent and blank inputs both yield "".
func NormalizeEmail(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(values[0]))
}
