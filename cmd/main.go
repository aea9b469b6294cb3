package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"rag-chat-bot/internal/app"
	"rag-chat-bot/internal/config"
	"rag-chat-bot/internal/logger"
	"rag-chat-bot/internal/telemetry"
	"rag-chat-bot/middleware"
	"rag-chat-bot/routes"
	"rag-chat-bot/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logger.InitLogger(cfg)

	shutdownTracer, err := telemetry.InitTracer(cfg)
	if err != nil {
		log.Fatal("Failed to initialize tracer: ", err)
	}
	defer func() {
		ctx, cancel := utils.WithTimeout(context.Background())
		defer cancel()
		shutdownTracer(ctx)
	}()

	metrics, err := telemetry.InitMetrics(cfg.ServiceName)
	if err != nil {
		log.Fatal("Failed to initialize metrics: ", err)
	}

	container, err := app.NewContainer(context.Background(), cfg, metrics)
	if err != nil {
		log.Fatal("Failed to initialize services: ", err)
	}
	defer func() {
		ctx, cancel := utils.WithTimeout(context.Background())
		defer cancel()
		container.Close(ctx)
	}()

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.TracingMiddleware(cfg.ServiceName))
	router.Use(middleware.EnrichTrace())
	router.Use(middleware.MetricsMiddleware(metrics))
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.RequestSizeLimit(cfg.MaxUploadSize))
	if container.Redis != nil {
		router.Use(middleware.RateLimitMiddleware(container.Redis, cfg))
	}

	routes.SetupRoutes(router, container.Ingestion, container.QA)

	// Create HTTP server
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "addr", cfg.Addr(), "vector_store", cfg.VectorStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := utils.WithShutdownTimeout(context.Background())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
