// Package handlers exposes the refill check over API Gateway and net/http.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"

	appConfig "refill-eligibility/internal/config"
	"refill-eligibility/internal/services/audit"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	cfg      *appConfig.Config
	recorder audit.Recorder
}

// NewHealthHandler creates a new health handler. recorder may be nil.
func NewHealthHandler(cfg *appConfig.Config, recorder audit.Recorder) *HealthHandler {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &HealthHandler{cfg: cfg, recorder: recorder}
}

// HealthResponse is the response structure for health checks.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Stage     string `json:"stage"`
	Shopify   string `json:"shopify"`
	Audit     string `json:"audit"`
	Database  string `json:"database,omitempty"`
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Check builds the health report and its status code.
func (h *HealthHandler) Check(ctx context.Context) (int, HealthResponse) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   "refill-eligibility",
		Version:   h.cfg.Version,
		Stage:     h.cfg.Stage,
		Shopify:   "configured",
		Audit:     h.recorder.Name(),
	}

	if !h.cfg.Shopify.Configured() {
		response.Shopify = "not configured"
		response.Status = "degraded"
	}

	// Only the postgres sink has a connection to check
	if checker, ok := h.recorder.(healthChecker); ok {
		if err := checker.HealthCheck(ctx); err != nil {
			response.Database = "disconnected"
			response.Status = "degraded"
		} else {
			response.Database = "connected"
		}
	}

	statusCode := http.StatusOK
	if response.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	return statusCode, response
}

// Handle processes health check requests from API Gateway.
func (h *HealthHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	statusCode, response := h.Check(ctx)
	return proxyResponse(statusCode, response)
}

// ServeHTTP serves health checks on the local server.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	statusCode, response := h.Check(r.Context())
	writeJSON(w, statusCode, response)
}
