// Package shopifytwin is an in-memory stand-in for the Shopify Admin customer
// search API, served from an httptest.Server.
package shopifytwin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"refill-eligibility/internal/models"
)

// InvalidTokenBody is what Shopify returns for a bad access token.
const InvalidTokenBody = `{"errors":"[API] Invalid API key or access token (unrecognized login or wrong password)"}`

// Request is a search request the twin received.
type Request struct {
	APIVersion  string
	Query       string
	AccessToken string
}

type fault struct {
	status int
	body   string
}

// Twin holds the customers the fake shop knows about.
type Twin struct {
	Server      *httptest.Server
	AccessToken string

	mu        sync.Mutex
	customers []models.Customer
	requests  []Request
	fault     *fault
}

// New starts a twin that accepts accessToken. It is closed when the test ends.
func New(t *testing.T, accessToken string) *Twin {
	t.Helper()

	tw := &Twin{AccessToken: accessToken}

	r := chi.NewRouter()
	r.Route("/admin/api/{version}", func(r chi.Router) {
		r.Use(tw.authMiddleware)
		r.Get("/customers/search.json", tw.searchCustomers)
	})

	tw.Server = httptest.NewServer(r)
	t.Cleanup(tw.Server.Close)

	return tw
}

// URL is the base URL to configure as SHOPIFY_API_BASE_URL.
func (tw *Twin) URL() string {
	return tw.Server.URL
}

// AddCustomer seeds a customer.
func (tw *Twin) AddCustomer(c models.Customer) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.customers = append(tw.customers, c)
}

// FailWith makes every following search answer with status and a raw body.
func (tw *Twin) FailWith(status int, body string) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.fault = &fault{status: status, body: body}
}

// Requests returns the search requests received so far.
func (tw *Twin) Requests() []Request {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return append([]Request(nil), tw.requests...)
}

func (tw *Twin) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Shopify-Access-Token") != tw.AccessToken {
			writeRaw(w, http.StatusUnauthorized, InvalidTokenBody)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (tw *Twin) searchCustomers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	tw.mu.Lock()
	tw.requests = append(tw.requests, Request{
		APIVersion:  chi.URLParam(r, "version"),
		Query:       query,
		AccessToken: r.Header.Get("X-Shopify-Access-Token"),
	})
	f := tw.fault
	matches := make([]models.Customer, 0)
	if email, ok := strings.CutPrefix(query, "email:"); ok {
		for _, c := range tw.customers {
			if strings.EqualFold(c.EmailAddress(), email) {
				matches = append(matches, c)
			}
		}
	}
	tw.mu.Unlock()

	if f != nil {
		writeRaw(w, f.status, f.body)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"customers": matches})
}

func writeRaw(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
