// Package config provides configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"refill-eligibility/internal/models"
)

// Defaults applied when the optional Shopify settings are unset or blank.
const (
	DefaultAPIVersion = "2024-10"
	DefaultRefillTag  = "refill_eligible"
)

// Config holds all configuration values for the application.
type Config struct {
	Shopify Shopify
	Audit   Audit
	Alerts  Alerts

	// AWS
	AWSRegion string `env:"AWS_REGION" env-default:"us-east-1"`

	// Application
	Stage    string `env:"STAGE" env-default:"dev"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	Version  string `env:"SERVICE_VERSION" env-default:"1.0.0"`
	Port     string `env:"PORT" env-default:"8080"`
}

// Shopify holds the Admin API credentials and the tag checked for eligibility.
// ShopDomain and AccessToken are checked per request by Validate, not at load
// time, so a misconfigured deployment still answers with a JSON error.
type Shopify struct {
	ShopDomain  string `env:"SHOPIFY_SHOP_DOMAIN" validate:"required"`
	AccessToken string `env:"SHOPIFY_ADMIN_ACCESS_TOKEN" validate:"required"`
	APIVersion  string `env:"SHOPIFY_API_VERSION"`
	RefillTag   string `env:"REFILL_TAG"`

	// BaseURL overrides https://<ShopDomain>, e.g. to point at a local fake.
	BaseURL string `env:"SHOPIFY_API_BASE_URL"`

	// Source names where the settings come from in error messages.
	Source string `env:"CONFIG_SOURCE" env-default:"Lambda"`
}

// Audit selects the optional check trail backend.
type Audit struct {
	Sink        string `env:"AUDIT_SINK" env-default:"none"`
	S3Bucket    string `env:"AUDIT_S3_BUCKET"`
	S3Prefix    string `env:"AUDIT_S3_PREFIX" env-default:"checks"`
	DatabaseURL string `env:"DATABASE_URL"`
}

// Alerts configures SES notifications to operators.
type Alerts struct {
	To   string `env:"ALERT_EMAIL_TO"`
	From string `env:"ALERT_EMAIL_FROM"`
}

// Enabled reports whether both alert addresses are set.
func (a Alerts) Enabled() bool {
	return a.To != "" && a.From != ""
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.Shopify.applyDefaults()

	return &cfg, nil
}

func (s *Shopify) applyDefaults() {
	s.ShopDomain = strings.TrimSpace(s.ShopDomain)
	s.AccessToken = strings.TrimSpace(s.AccessToken)
	if strings.TrimSpace(s.APIVersion) == "" {
		s.APIVersion = DefaultAPIVersion
	}
	if strings.TrimSpace(s.RefillTag) == "" {
		s.RefillTag = DefaultRefillTag
	}
	if s.Source == "" {
		s.Source = "Lambda"
	}
}

// WithDefaults returns a copy with the optional settings filled in.
func (s Shopify) WithDefaults() Shopify {
	s.applyDefaults()
	return s
}

// APIBaseURL returns the scheme and host the Admin API is served from.
func (s Shopify) APIBaseURL() string {
	if s.BaseURL != "" {
		return strings.TrimRight(s.BaseURL, "/")
	}
	return "https://" + s.ShopDomain
}

// Configured reports whether the required credentials are present.
func (s Shopify) Configured() bool {
	return s.Validate() == nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their env var name.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("env")
	})
	return v
}

// MissingSettingsError lists required settings that were not provided.
type MissingSettingsError struct {
	Names  []string
	Source string
}

func (e *MissingSettingsError) Error() string {
	return fmt.Sprintf("Missing %s in %s env vars", strings.Join(e.Names, " or "), e.Source)
}

// Unwrap allows errors.Is(err, models.ErrMissingConfig).
func (e *MissingSettingsError) Unwrap() error {
	return models.ErrMissingConfig
}

// Validate checks that the shop domain and access token are set. Values made
// only of whitespace count as missing.
func (s Shopify) Validate() error {
	s.ShopDomain = strings.TrimSpace(s.ShopDomain)
	s.AccessToken = strings.TrimSpace(s.AccessToken)

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate shopify settings: %w", err)
	}

	missing := &MissingSettingsError{Source: s.Source}
	if missing.Source == "" {
		missing.Source = "Lambda"
	}
	for _, fe := range fieldErrs {
		missing.Names = append(missing.Names, fe.Field())
	}
	return missing
}
