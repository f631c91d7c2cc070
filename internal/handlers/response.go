// Package handlers exposes the refill check over API Gateway and net/http.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"refill-eligibility/internal/utils"
)

// responseHeaders are sent with every response.
func responseHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type",
		"Access-Control-Allow-Methods": "GET,OPTIONS",
		"Content-Type":                 "application/json",
	}
}

// proxyResponse encodes body as an API Gateway proxy response.
func proxyResponse(statusCode int, body interface{}) (events.APIGatewayProxyResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		utils.GetLogger().Error("Failed to encode response", utils.Error(err))
		statusCode = http.StatusInternalServerError
		data = []byte(`{"ok":false,"error":"Server error"}`)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    responseHeaders(),
		Body:       string(data),
	}, nil
}

// writeJSON writes body as JSON with the given status.
func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	// CORS headers on the local server come from rs/cors
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		utils.GetLogger().Warn("Failed to write response", utils.Error(err))
	}
}
