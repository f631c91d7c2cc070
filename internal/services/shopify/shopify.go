// Package shopify provides a minimal client for the Shopify Admin REST API.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"refill-eligibility/internal/config"
	"refill-eligibility/internal/models"
	"refill-eligibility/internal/utils"
)

// AccessTokenHeader carries the Admin API access token.
const AccessTokenHeader = "X-Shopify-Access-Token"

// Client queries a single shop's Admin API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiVersion  string
	accessToken string
}

// NewClient creates a client for the given settings. A nil httpClient uses a
// plain http.Client with no timeout; callers bound requests through ctx.
func NewClient(settings config.Shopify, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	settings = settings.WithDefaults()

	return &Client{
		httpClient:  httpClient,
		baseURL:     settings.APIBaseURL(),
		apiVersion:  settings.APIVersion,
		accessToken: settings.AccessToken,
	}
}

// SearchResult is the decoded body of customers/search.json.
type SearchResult struct {
	Customers []*models.Customer `json:"customers"`
}

// First returns the first customer, or nil if the search matched nobody.
func (r *SearchResult) First() *models.Customer {
	if r == nil || len(r.Customers) == 0 {
		return nil
	}
	return r.Customers[0]
}

// ErrMalformedResponse is returned when a successful response does not have
// the customers/search.json shape.
var ErrMalformedResponse = errors.New("malformed shopify response")

// APIError is returned when Shopify answers with a non-2xx status.
// Body holds the JSON the API sent back.
type APIError struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify API returned status %d", e.StatusCode)
}

// SearchURL builds the customer search URL for an already-normalized email.
func (c *Client) SearchURL(email string) string {
	query := url.Values{"query": {"email:" + email}}
	return fmt.Sprintf("%s/admin/api/%s/customers/search.json?%s", c.baseURL, c.apiVersion, query.Encode())
}

// SearchCustomersByEmail runs a customer search for email.
//
// The body is parsed as JSON before the status is checked, so a malformed
// body is reported as a decode error even on failure statuses.
func (c *Client) SearchCustomersByEmail(ctx context.Context, email string) (*SearchResult, error) {
	logger := utils.GetLogger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SearchURL(email), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(AccessTokenHeader, c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode shopify response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("Shopify customer search failed",
			utils.Int("status", resp.StatusCode),
			utils.String("apiVersion", c.apiVersion))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: raw}
	}

	result, err := decodeSearchResult(raw)
	if err != nil {
		return nil, err
	}

	logger.Debug("Shopify customer search completed",
		utils.Int("customers", len(result.Customers)))

	return result, nil
}

// decodeSearchResult checks that raw is a JSON object before decoding it, so
// a null or scalar body is an error rather than an empty search.
func decodeSearchResult(raw json.RawMessage) (*SearchResult, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedResponse)
	}

	var result SearchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &result, nil
}
