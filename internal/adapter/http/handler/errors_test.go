package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ressKim-io/smartnlp/internal/domain/entity"
	"github.com/ressKim-io/smartnlp/internal/usecase"
)

func TestMapUsecaseError(t *testing.T) {
	tests := []struct {
		name               string
		err                error
		expectedStatusCode int
		expectedCode       string
		expectedMessage    string
	}{
		{
			name:               "empty input",
			err:                usecase.ErrEmptyInput,
			expectedStatusCode: http.StatusBadRequest,
			expectedCode:       "EMPTY_INPUT",
			expectedMessage:    "input text is required",
		},
		{
			name: "translation failure",
			err: &usecase.InferenceError{
				Capability: entity.CapabilityTranslation,
				Err:        errors.New("model is loading"),
			},
			expectedStatusCode: http.StatusBadGateway,
			expectedCode:       "INFERENCE_FAILED",
			expectedMessage:    "Translation error: model is loading",
		},
		{
			name:               "unknown capability",
			err:                usecase.ErrUnknownCapability,
			expectedStatusCode: http.StatusInternalServerError,
			expectedCode:       "INTERNAL_ERROR",
			expectedMessage:    "internal server error",
		},
		{
			name:               "unknown error",
			err:                errors.New("unknown error"),
			expectedStatusCode: http.StatusInternalServerError,
			expectedCode:       "INTERNAL_ERROR",
			expectedMessage:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MapUsecaseError(tt.err)

			assert.Equal(t, tt.expectedStatusCode, result.StatusCode)
			assert.Equal(t, tt.expectedCode, result.Code)
			assert.Equal(t, tt.expectedMessage, result.Message)
		})
	}
}

func TestHandleUsecaseError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleUsecaseError(c, usecase.ErrEmptyInput)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "EMPTY_INPUT")
}

func TestHandleUnknownCapability(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleUnknownCapability(c, "summarization")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "unknown capability summarization")
}

func TestHandleInvalidRequest(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleInvalidRequest(c, "unexpected EOF")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unexpected EOF")
}
