// Refill Check Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"refill-eligibility/internal/config"
	"refill-eligibility/internal/handlers"
	"refill-eligibility/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize logger
	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	// Create handler
	handler, err := handlers.NewRefillCheckHandler(context.Background(), cfg)
	if err != nil {
		panic("Failed to create handler: " + err.Error())
	}
	defer handler.Close()

	// Start Lambda
	lambda.Start(handler.Handle)
}
