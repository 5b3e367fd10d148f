package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/smartnlp/internal/domain/entity"
)

// RequestIDKey is the gin context key holding the request ID
const RequestIDKey = "request_id"

// MaxInputBytes bounds the size of an inference request body
const MaxInputBytes = 1 << 20

// BindInput decodes the JSON body into input. An empty body decodes to the
// zero value so blank fields reach the usecase and are reported as empty
// input. It returns false after responding when the body is malformed.
func BindInput(c *gin.Context, input interface{}) bool {
	if c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxInputBytes)
	}
	if err := c.ShouldBindJSON(input); err != nil && !errors.Is(err, io.EOF) {
		HandleInvalidRequest(c, err.Error())
		return false
	}
	return true
}

// ExtractCapabilityParam extracts and parses a capability from the URL path.
func ExtractCapabilityParam(c *gin.Context, param string) (entity.Capability, error) {
	return entity.ParseCapability(c.Param(param))
}
