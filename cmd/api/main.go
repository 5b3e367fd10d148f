package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ressKim-io/smartnlp/internal/adapter/client"
	"github.com/ressKim-io/smartnlp/internal/adapter/http/router"
	"github.com/ressKim-io/smartnlp/internal/adapter/repository/memory"
	"github.com/ressKim-io/smartnlp/internal/infrastructure/cache"
	"github.com/ressKim-io/smartnlp/internal/infrastructure/config"
	"github.com/ressKim-io/smartnlp/internal/infrastructure/logger"
	"github.com/ressKim-io/smartnlp/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may already be set
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Inference backend
	inferenceClient := client.NewInferenceClient(
		cfg.Inference.HubURL,
		cfg.Inference.InferenceURL,
		cfg.Inference.Token,
		cfg.Inference.Timeout,
	)
	loader := client.NewPipelineLoader(inferenceClient, cfg.Inference.WaitForModel)

	// Registry and handle cache. Handles are loaded on first use.
	registry := memory.NewModelRegistry(&cfg.Models)
	handles := cache.NewHandleCache(registry, loader, log)
	for _, spec := range registry.Capabilities() {
		log.Info("Registered capability",
			zap.String("capability", spec.Capability.String()),
			zap.String("model", spec.Model),
			zap.String("fallback", spec.Fallback),
		)
	}

	opts := []usecase.Option{usecase.WithLogger(log)}
	if cfg.Models.PunctuateShortTranslations {
		opts = append(opts, usecase.WithTranslationPreprocessor(usecase.PunctuateShortInput))
	}
	inferenceUC := usecase.NewInferenceUsecase(registry, handles, opts...)

	// Setup router
	r := router.Setup(inferenceUC, inferenceClient, handles, log)

	// Create HTTP server. Writes allow for a cold model load plus inference.
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2*cfg.Inference.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Starting server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	handles.Clear()

	log.Info("Server exited")
	return nil
}
