package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refill-eligibility/internal/config"
	"refill-eligibility/internal/handlers"
	"refill-eligibility/internal/models"
)

type pingRecorder struct {
	err error
}

func (r *pingRecorder) Record(context.Context, models.CheckRecord) error { return nil }
func (r *pingRecorder) Name() string                                     { return "postgres" }
func (r *pingRecorder) Close()                                           {}
func (r *pingRecorder) HealthCheck(context.Context) error                { return r.err }

func TestHealthHandler_Healthy(t *testing.T) {
	handler := handlers.NewHealthHandler(newTestConfig("http://127.0.0.1:0"), nil)

	resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body handlers.HealthResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "refill-eligibility", body.Service)
	assert.Equal(t, "test", body.Stage)
	assert.Equal(t, "configured", body.Shopify)
	assert.Equal(t, "none", body.Audit)
	assert.Empty(t, body.Database)
}

func TestHealthHandler_Degraded(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.Config
		recorder *pingRecorder
		shopify  string
		database string
	}{
		{
			name:     "shopify not configured",
			cfg:      &config.Config{Stage: "test"},
			recorder: &pingRecorder{},
			shopify:  "not configured",
			database: "connected",
		},
		{
			name:     "database down",
			cfg:      newTestConfig("http://127.0.0.1:0"),
			recorder: &pingRecorder{err: errors.New("connection refused")},
			shopify:  "configured",
			database: "disconnected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := handlers.NewHealthHandler(tt.cfg, tt.recorder)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

			var body handlers.HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "degraded", body.Status)
			assert.Equal(t, tt.shopify, body.Shopify)
			assert.Equal(t, tt.database, body.Database)
			assert.Equal(t, "postgres", body.Audit)
		})
	}
}
