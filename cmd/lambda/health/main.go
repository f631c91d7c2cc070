// Health Check Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"refill-eligibility/internal/config"
	"refill-eligibility/internal/handlers"
	"refill-eligibility/internal/services/audit"
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

	// Report the sink as unavailable rather than failing the health function
	recorder, err := audit.New(context.Background(), cfg)
	if err != nil {
		utils.GetLogger().Warn("Audit sink unavailable", utils.Error(err))
	}

	// Start Lambda
	lambda.Start(handlers.NewHealthHandler(cfg, recorder).Handle)
}
