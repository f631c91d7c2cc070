// Package handlers exposes the refill check over API Gateway and net/http.
package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	appConfig "refill-eligibility/internal/config"
	"refill-eligibility/internal/services/audit"
	"refill-eligibility/internal/services/eligibility"
	"refill-eligibility/internal/services/ses"
	"refill-eligibility/internal/utils"
)

// RefillCheckHandler handles GET /refill-check requests.
type RefillCheckHandler struct {
	service  *eligibility.Service
	recorder audit.Recorder
}

// NewRefillCheckHandler wires the eligibility service with the audit sink and
// alerting configured in cfg.
func NewRefillCheckHandler(ctx context.Context, cfg *appConfig.Config) (*RefillCheckHandler, error) {
	logger := utils.GetLogger()

	recorder, err := audit.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit recorder: %w", err)
	}

	opts := []eligibility.Option{eligibility.WithRecorder(recorder)}

	if cfg.Alerts.Enabled() {
		notifier, err := ses.NewService(ctx, cfg.AWSRegion, cfg.Alerts.From, cfg.Alerts.To, cfg.Stage)
		if err != nil {
			recorder.Close()
			return nil, fmt.Errorf("failed to create alert notifier: %w", err)
		}
		opts = append(opts, eligibility.WithNotifier(notifier))
	}

	logger.Info("Refill check handler ready",
		utils.String("shop", cfg.Shopify.ShopDomain),
		utils.Bool("shopifyConfigured", cfg.Shopify.Configured()),
		utils.String("auditSink", recorder.Name()),
		utils.Bool("alerts", cfg.Alerts.Enabled()))

	return &RefillCheckHandler{
		service:  eligibility.NewService(cfg.Shopify, opts...),
		recorder: recorder,
	}, nil
}

// NewRefillCheckHandlerWithService wraps an existing service.
func NewRefillCheckHandlerWithService(service *eligibility.Service) *RefillCheckHandler {
	return &RefillCheckHandler{service: service, recorder: audit.Nop{}}
}

// Handle processes API Gateway proxy requests.
func (h *RefillCheckHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	status, body := h.service.Check(ctx, request.HTTPMethod, emailParams(request))
	return proxyResponse(status, body)
}

// ServeHTTP serves the check on the local server.
func (h *RefillCheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status, body := h.service.Check(r.Context(), r.Method, r.URL.Query()["email"])
	writeJSON(w, status, body)
}

// Recorder returns the active audit backend.
func (h *RefillCheckHandler) Recorder() audit.Recorder {
	return h.recorder
}

// Close cleans up resources.
func (h *RefillCheckHandler) Close() {
	h.recorder.Close()
}

// emailParams returns every email value API Gateway passed, in order.
func emailParams(request events.APIGatewayProxyRequest) []string {
	if values := request.MultiValueQueryStringParameters["email"]; len(values) > 0 {
		return values
	}
	if value, ok := request.QueryStringParameters["email"]; ok {
		return []string{value}
	}
	return nil
}
