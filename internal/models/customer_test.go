package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"refill-eligibility/internal/models"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{"empty", "", []string{}},
		{"single", "VIP", []string{"vip"}},
		{"whitespace and case", " VIP, Refill_Eligible ", []string{"vip", "refill_eligible"}},
		{"repeated commas", "a,,b,, ,", []string{"a", "b"}},
		{"only commas", ",,,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, models.ParseTags(tt.raw))
		})
	}
}

func TestCustomer_HasTag(t *testing.T) {
	customer := models.NewCustomer(42, "a@b.com", "VIP, Refill_Eligible ,,")

	assert.True(t, customer.HasTag("refill_eligible"))
	assert.True(t, customer.HasTag("REFILL_ELIGIBLE"))
	assert.True(t, customer.HasTag(" vip "))
	assert.False(t, customer.HasTag("refill"))
	assert.False(t, customer.HasTag("eligible"))

	empty := models.NewCustomer(7, "c@d.com", "")
	assert.False(t, empty.HasTag("refill_eligible"))
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		expected string
	}{
		{"absent", nil, ""},
		{"empty", []string{""}, ""},
		{"whitespace only", []string{"   \t"}, ""},
		{"trim and lower", []string{"Foo@Bar.com "}, "foo@bar.com"},
		{"already normalized", []string{"foo@bar.com"}, "foo@bar.com"},
		{"first of many", []string{" First@Example.com", "second@example.com"}, "first@example.com"},
		{"blank first wins", []string{" ", "second@example.com"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, models.NormalizeEmail(tt.values))
		})
	}
}

func TestNormalizeEmail_Idempotent(t *testing.T) {
	once := models.NormalizeEmail([]string{"  MiXeD@Example.COM  "})
	twice := models.NormalizeEmail([]string{once})
	assert.Equal(t, once, twice)
}
