package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ressKim-io/smartnlp/internal/adapter/http/handler"
	"github.com/ressKim-io/smartnlp/internal/adapter/http/middleware"
	"github.com/ressKim-io/smartnlp/internal/domain/service"
	"github.com/ressKim-io/smartnlp/internal/usecase"
)

// Setup creates and configures the Gin router
func Setup(inferenceUC usecase.InferenceUsecase, backend handler.ReadinessChecker, handles service.HandleResolver, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics())

	// Health endpoints
	healthHandler := handler.NewHealthHandler(backend, handles)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	inferenceHandler := handler.NewInferenceHandler(inferenceUC)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/sentiment", inferenceHandler.Sentiment)
		v1.POST("/classification", inferenceHandler.Classify)
		v1.POST("/ner", inferenceHandler.ExtractEntities)
		v1.POST("/qa", inferenceHandler.Answer)
		v1.POST("/translation", inferenceHandler.Translate)

		capabilities := v1.Group("/capabilities")
		{
			capabilities.GET("", inferenceHandler.ListCapabilities)
			capabilities.GET("/:capability", inferenceHandler.GetCapability)
		}
	}

	return router
}
