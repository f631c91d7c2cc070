// Package main provides a local HTTP server for development and testing.
// It serves the same refill check and health handlers as the Lambda functions.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"refill-eligibility/internal/config"
	"refill-eligibility/internal/handlers"
	"refill-eligibility/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.Sync()
	logger := utils.GetLogger()

	refillCheck, err := handlers.NewRefillCheckHandler(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to create refill check handler", utils.Error(err))
	}
	defer refillCheck.Close()

	server := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%s", cfg.Port),
		Handler:      newRouter(cfg, refillCheck),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Refill eligibility server listening",
			utils.String("addr", server.Addr),
			utils.String("stage", cfg.Stage))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", utils.Error(err))
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", utils.Error(err))
	}
}

// newRouter registers the routes and wraps them with CORS.
func newRouter(cfg *config.Config, refillCheck *handlers.RefillCheckHandler) http.Handler {
	health := handlers.NewHealthHandler(cfg, refillCheck.Recorder())

	mux := http.NewServeMux()

	// Health check
	mux.Handle("/health", health)
	mux.Handle("/api/health", health)

	// Refill check; the handler itself rejects non-GET methods with 405
	mux.Handle("/refill-check", refillCheck)
	mux.Handle("/api/refill-check", refillCheck)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	return c.Handler(mux)
}
