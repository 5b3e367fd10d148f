package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/smartnlp/internal/domain/service"
)

// ReadinessChecker reports whether a dependency can serve requests
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	backend ReadinessChecker
	handles service.HandleResolver
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(backend ReadinessChecker, handles service.HandleResolver) *HealthHandler {
	return &HealthHandler{
		backend: backend,
		handles: handles,
	}
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status       string            `json:"status"`
	Components   map[string]string `json:"components"`
	LoadedModels []string          `json:"loaded_models"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]string)
	healthy := true

	// Check inference backend
	if h.backend != nil {
		if err := h.backend.Ready(ctx); err != nil {
			components["inference_backend"] = "error: " + err.Error()
			healthy = false
		} else {
			components["inference_backend"] = "ok"
		}
	} else {
		components["inference_backend"] = "not configured"
	}

	loaded := []string{}
	if h.handles != nil {
		for _, capability := range h.handles.Loaded() {
			loaded = append(loaded, string(capability))
		}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthStatus{
		Status:       status,
		Components:   components,
		LoadedModels: loaded,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if h.backend != nil {
		if err := h.backend.Ready(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "inference backend unreachable"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
