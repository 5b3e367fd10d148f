package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ressKim-io/smartnlp/internal/domain/entity"
	"github.com/ressKim-io/smartnlp/internal/domain/service"
)

type stubBackend struct {
	err error
}

func (s stubBackend) Ready(context.Context) error {
	return s.err
}

type stubResolver struct {
	loaded []entity.Capability
}

func (s stubResolver) Resolve(context.Context, entity.Capability) (service.Handle, error) {
	return nil, errors.New("not implemented")
}

func (s stubResolver) Loaded() []entity.Capability {
	return s.loaded
}

func TestHealthHandler_Health(t *testing.T) {
	t.Run("healthy when no dependencies", func(t *testing.T) {
		handler := NewHealthHandler(nil, nil)

		router := gin.New()
		router.GET("/health", handler.Health)

		w := serve(router, "GET", "/health")

		assert.Equal(t, http.StatusOK, w.Code)

		var status HealthStatus
		err := json.Unmarshal(w.Body.Bytes(), &status)
		require.NoError(t, err)
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "not configured", status.Components["inference_backend"])
		assert.Empty(t, status.LoadedModels)
	})

	t.Run("reports loaded models", func(t *testing.T) {
		handler := NewHealthHandler(stubBackend{}, stubResolver{
			loaded: []entity.Capability{entity.CapabilitySentiment, entity.CapabilityQA},
		})

		router := gin.New()
		router.GET("/health", handler.Health)

		w := serve(router, "GET", "/health")

		var status HealthStatus
		err := json.Unmarshal(w.Body.Bytes(), &status)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", status.Components["inference_backend"])
		assert.Equal(t, []string{"sentiment", "qa"}, status.LoadedModels)
	})

	t.Run("unhealthy when backend fails", func(t *testing.T) {
		handler := NewHealthHandler(stubBackend{err: errors.New("connection refused")}, nil)

		router := gin.New()
		router.GET("/health", handler.Health)

		w := serve(router, "GET", "/health")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
	})
}

func TestHealthHandler_Ready(t *testing.T) {
	t.Run("ready when no backend", func(t *testing.T) {
		handler := NewHealthHandler(nil, nil)

		router := gin.New()
		router.GET("/ready", handler.Ready)

		w := serve(router, "GET", "/ready")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ready")
	})

	t.Run("not ready when backend unreachable", func(t *testing.T) {
		handler := NewHealthHandler(stubBackend{err: errors.New("timeout")}, nil)

		router := gin.New()
		router.GET("/ready", handler.Ready)

		w := serve(router, "GET", "/ready")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "not ready")
	})
}
