package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// InferenceRequest represents a request to the inference API
type InferenceRequest struct {
	Inputs     interface{}            `json:"inputs"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	Options    *InferenceOptions      `json:"options,omitempty"`
}

// InferenceOptions controls backend behavior for a request
type InferenceOptions struct {
	WaitForModel bool `json:"wait_for_model,omitempty"`
	UseCache     bool `json:"use_cache"`
}

// QuestionAnsweringInputs is the inputs object for extractive QA
type QuestionAnsweringInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

// LabelScore is a single label prediction
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ZeroShotResponse is the response of zero-shot classification
type ZeroShotResponse struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

// TokenClassificationEntity is a single grouped entity
type TokenClassificationEntity struct {
	EntityGroup string  `json:"entity_group"`
	Entity      string  `json:"entity,omitempty"`
	Score       float64 `json:"score"`
	Word        string  `json:"word"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
}

// QuestionAnsweringResponse is the response of extractive QA
type QuestionAnsweringResponse struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

// TranslationResponse is a single translation
type TranslationResponse struct {
	TranslationText string `json:"translation_text"`
}

// ModelInfo represents model metadata from the Hub API
type ModelInfo struct {
	ID          string   `json:"id"`
	PipelineTag string   `json:"pipeline_tag"`
	LibraryName string   `json:"library_name"`
	Tags        []string `json:"tags"`
	Private     bool     `json:"private"`
}

// APIError is returned when the backend responds with a non-200 status
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("inference service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("inference service returned status %d: %s", e.StatusCode, e.Message)
}

// InferenceClient is an HTTP client for the model hub and inference API
type InferenceClient struct {
	hubURL       string
	inferenceURL string
	token        string
	httpClient   *http.Client
}

// NewInferenceClient creates a new inference client
func NewInferenceClient(hubURL, inferenceURL, token string, timeout time.Duration) *InferenceClient {
	return &InferenceClient{
		hubURL:       strings.TrimRight(hubURL, "/"),
		inferenceURL: strings.TrimRight(inferenceURL, "/"),
		token:        token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ModelInfo fetches metadata for a model from the Hub
func (c *InferenceClient) ModelInfo(ctx context.Context, model string) (*ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.hubURL+"/api/models/"+model, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var info ModelInfo
	if err := c.do(req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Infer posts a request to a model and decodes the response into out
func (c *InferenceClient) Infer(ctx context.Context, model string, in *InferenceRequest, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.inferenceURL+"/models/"+model, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// Ready checks if the inference API is reachable
func (c *InferenceClient) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.inferenceURL+"/", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("inference service not ready: status %d", resp.StatusCode)
	}

	return nil
}

func (c *InferenceClient) do(req *http.Request, out interface{}) error {
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return &APIError{StatusCode: resp.StatusCode}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *InferenceClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// errorMessage extracts {"error": "..."} bodies, falling back to raw text
func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}
