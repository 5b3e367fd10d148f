package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/smartnlp/internal/domain/entity"
	"github.com/ressKim-io/smartnlp/internal/usecase"
)

// InferenceHandler handles capability inference requests
type InferenceHandler struct {
	inferenceUC usecase.InferenceUsecase
}

// NewInferenceHandler creates a new inference handler
func NewInferenceHandler(inferenceUC usecase.InferenceUsecase) *InferenceHandler {
	return &InferenceHandler{inferenceUC: inferenceUC}
}

// Sentiment handles POST /api/v1/sentiment
func (h *InferenceHandler) Sentiment(c *gin.Context) {
	var input usecase.TextInput
	if !BindInput(c, &input) {
		return
	}
	h.respond(c, func(ctx context.Context) (*entity.Result, error) {
		return h.inferenceUC.Sentiment(ctx, &input)
	})
}

// Classify handles POST /api/v1/classification
func (h *InferenceHandler) Classify(c *gin.Context) {
	var input usecase.ClassificationInput
	if !BindInput(c, &input) {
		return
	}
	h.respond(c, func(ctx context.Context) (*entity.Result, error) {
		return h.inferenceUC.Classify(ctx, &input)
	})
}

// ExtractEntities handles POST /api/v1/ner
func (h *InferenceHandler) ExtractEntities(c *gin.Context) {
	var input usecase.TextInput
	if !BindInput(c, &input) {
		return
	}
	h.respond(c, func(ctx context.Context) (*entity.Result, error) {
		return h.inferenceUC.ExtractEntities(ctx, &input)
	})
}

// Answer handles POST /api/v1/qa
func (h *InferenceHandler) Answer(c *gin.Context) {
	var input usecase.QAInput
	if !BindInput(c, &input) {
		return
	}
	h.respond(c, func(ctx context.Context) (*entity.Result, error) {
		return h.inferenceUC.Answer(ctx, &input)
	})
}

// Translate handles POST /api/v1/translation
func (h *InferenceHandler) Translate(c *gin.Context) {
	var input usecase.TextInput
	if !BindInput(c, &input) {
		return
	}
	h.respond(c, func(ctx context.Context) (*entity.Result, error) {
		return h.inferenceUC.Translate(ctx, &input)
	})
}

// ListCapabilities handles GET /api/v1/capabilities
func (h *InferenceHandler) ListCapabilities(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.inferenceUC.Capabilities())
}

// GetCapability handles GET /api/v1/capabilities/:capability
func (h *InferenceHandler) GetCapability(c *gin.Context) {
	capability, err := ExtractCapabilityParam(c, "capability")
	if err != nil {
		HandleUnknownCapability(c, c.Param("capability"))
		return
	}

	for _, out := range h.inferenceUC.Capabilities() {
		if out.Capability == string(capability) {
			respondSuccess(c, http.StatusOK, out)
			return
		}
	}
	HandleUnknownCapability(c, string(capability))
}

func (h *InferenceHandler) respond(c *gin.Context, call func(ctx context.Context) (*entity.Result, error)) {
	result, err := call(c.Request.Context())
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, result)
}
