package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ressKim-io/smartnlp/internal/domain/entity"
)

// newBackend serves Hub metadata with the given pipeline tag and answers
// inference calls with body, recording the last request
func newBackend(t *testing.T, tag, body string, last *InferenceRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasPrefix(r.URL.Path, "/api/models/") {
			err := json.NewEncoder(w).Encode(ModelInfo{
				ID:          strings.TrimPrefix(r.URL.Path, "/api/models/"),
				PipelineTag: tag,
			})
			require.NoError(t, err)
			return
		}

		if last != nil {
			err := json.NewDecoder(r.Body).Decode(last)
			require.NoError(t, err)
		}
		_, err := w.Write([]byte(body))
		require.NoError(t, err)
	}))
}

func loadHandle(t *testing.T, server *httptest.Server, spec entity.ModelSpec) (*pipelineHandle, error) {
	t.Helper()
	client := NewInferenceClient(server.URL, server.URL, "", 5*time.Second)
	h, err := NewPipelineLoader(client, true).Load(context.Background(), spec)
	if err != nil {
		return nil, err
	}
	return h.(*pipelineHandle), nil
}

func TestPipelineLoader_Load(t *testing.T) {
	t.Run("accepts matching pipeline tag", func(t *testing.T) {
		server := newBackend(t, "question-answering", "{}", nil)
		defer server.Close()

		h, err := loadHandle(t, server, entity.ModelSpec{
			Capability: entity.CapabilityQA,
			Model:      "distilbert-base-cased-distilled-squad",
		})

		require.NoError(t, err)
		assert.Equal(t, entity.CapabilityQA, h.Capability())
		assert.Equal(t, "distilbert-base-cased-distilled-squad", h.Model())
	})

	t.Run("accepts missing pipeline tag", func(t *testing.T) {
		server := newBackend(t, "", "{}", nil)
		defer server.Close()

		_, err := loadHandle(t, server, entity.ModelSpec{Capability: entity.CapabilityNER, Model: "custom/ner"})

		assert.NoError(t, err)
	})

	t.Run("rejects mismatched pipeline tag", func(t *testing.T) {
		server := newBackend(t, "text-generation", "{}", nil)
		defer server.Close()

		_, err := loadHandle(t, server, entity.ModelSpec{Capability: entity.CapabilitySentiment, Model: "gpt2"})

		assert.ErrorIs(t, err, ErrPipelineMismatch)
	})

	t.Run("propagates hub errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := loadHandle(t, server, entity.ModelSpec{Capability: entity.CapabilitySentiment, Model: "private/model"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})
}

func TestPipelineHandle_Sentiment(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "nested response", body: `[[{"label":"NEGATIVE","score":0.0002},{"label":"POSITIVE","score":0.9998}]]`},
		{name: "flat response", body: `[{"label":"POSITIVE","score":0.9998}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var last InferenceRequest
			server := newBackend(t, "text-classification", tt.body, &last)
			defer server.Close()

			h, err := loadHandle(t, server, entity.ModelSpec{Capability: entity.CapabilitySentiment, Model: "sst2"})
			require.NoError(t, err)

			result, err := h.Invoke(context.Background(), &entity.Request{Capability: entity.CapabilitySentiment, Text: "I love this."})

			require.NoError(t, err)
			require.NotNil(t, result.Sentiment)
			assert.Equal(t, "POSITIVE", result.Sentiment.Label)
			assert.Equal(t, 0.9998, result.Sentiment.Score)
			assert.Equal(t, "I love this.", last.Inputs)
			assert.True(t, last.Options.WaitForModel)
		})
	}

	t.Run("empty response", func(t *testing.T) {
		server := newBackend(t, "text-classification", `[]`, nil)
		defer server.Close()

		h, err := loadHandle(t, server, entity.ModelSpec{Capability: entity.CapabilitySentiment, Model: "sst2"})
		require.NoError(t, err)

		_, err = h.Invoke(context.Background(), &entity.Request{Capability: entity.CapabilitySentiment, Text: "meh"})

		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
}

func TestPipelineHandle_Classification(t *testing.T) {
	var last InferenceRequest
	server := newBackend(t, "zero-shot-classification",
		`{"sequence":"The match ended 2-1","labels":["sports","politics","technology"],"scores":[0.91,0.05,0.04]}`, &last)
	defer server.Close()

	h, err := loadHandle(t, server, entity.ModelSpec{Capability: entity.CapabilityClassification, Model: "mnli"})
	require.NoError(t, err)

	result, err := h.Invoke(context.Background(), &entity.Request{
		Capability:      entity.CapabilityClassification,
		Text:            "The match ended 2-1",
		CandidateLabels: []string{"politics", "sports", "technology"},
	})

	require.NoError(t, err)
	require.NotNil(t, result.Classification)
	assert.Equal(t, "sports", result.Classification.Label)
	assert.Equal(t, 0.91, result.Classification.Score)
	assert.Len(t, result.Classification.Labels, 3)
	assert.Equal(t, []interface{}{"politics", "sports", "technology"}, last.Parameters["candidate_labels"])
}

func TestPipelineHandle_NER(t *testing.T) {
	var last InferenceRequest
	server := newBackend(t, "token-classification",
		`[{"entity_group":"PER","score":0.998,"word":"Sarah","start":0,"end":5},{"entity_group":"LOC","score":0.97,"word":"London","start":15,"end":21}]`, &last)
	defer server.Close()

	h, err := loadHandle(t, server, entity.ModelSpec{
		Capability: entity.CapabilityNER,
		Model:      "conll03",
		Params:     entity.Params{AggregationStrategy: "simple"},
	})
	require.NoError(t, err)

	result, err := h.Invoke(context.Background(), &entity.Request{Capability: entity.CapabilityNER, Text: "Sarah lives in London"})

	require.NoError(t, err)
	require.Len(t, result.Entities, 2)
	assert.Equal(t, entity.Entity{EntityGroup: "PER", Word: "Sarah", Score: 0.998, Start: 0, End: 5}, result.Entities[0])
	assert.Equal(t, "LOC", result.Entities[1].EntityGroup)
	assert.Equal(t, "simple", last.Parameters["aggregation_strategy"])
}

func TestPipelineHandle_QA(t *testing.T) {
	var last map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/models/") {
			_, _ = w.Write([]byte(`{"pipeline_tag":"question-answering"}`))
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&last)
		_, _ = w.Write([]byte(`{"answer":"Paris","score":0.98,"start":24,"end":29}`))
	}))
	defer server.Close()

	h, err := loadHandle(t, server, entity.ModelSpec{Capability: entity.CapabilityQA, Model: "squad"})
	require.NoError(t, err)

	result, err := h.Invoke(context.Background(), &entity.Request{
		Capability: entity.CapabilityQA,
		Question:   "What is the capital of France?",
		Context:    "The capital of France is Paris.",
	})

	require.NoError(t, err)
	assert.Equal(t, &entity.Answer{Answer: "Paris", Score: 0.98, Start: 24, End: 29}, result.Answer)
	inputs := last["inputs"].(map[string]interface{})
	assert.Equal(t, "What is the capital of France?", inputs["question"])
	assert.Equal(t, "The capital of France is Paris.", inputs["context"])
}

func TestPipelineHandle_Translation(t *testing.T) {
	t.Run("sends fixed parameters", func(t *testing.T) {
		var last InferenceRequest
		server := newBackend(t, "translation", `[{"translation_text":"أنا أحب هذا."}]`, &last)
		defer server.Close()

		h, err := loadHandle(t, server, entity.ModelSpec{
			Capability: entity.CapabilityTranslation,
			Model:      "Helsinki-NLP/opus-mt-en-ar",
			Params:     entity.Params{MaxLength: 50, NumBeams: 4, CleanUpTokenizationSpaces: true},
		})
		require.NoError(t, err)

		result, err := h.Invoke(context.Background(), &entity.Request{Capability: entity.CapabilityTranslation, Text: "I love this."})

		require.NoError(t, err)
		assert.Equal(t, "أنا أحب هذا.", result.Translation.TranslationText)
		assert.Equal(t, float64(50), last.Parameters["max_length"])
		assert.Equal(t, float64(4), last.Parameters["num_beams"])
		assert.Equal(t, true, last.Parameters["clean_up_tokenization_spaces"])
	})

	t.Run("backend error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/models/") {
				_, _ = w.Write([]byte(`{"pipeline_tag":"translation"}`))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		h, err := loadHandle(t, server, entity.ModelSpec{Capability: entity.CapabilityTranslation, Model: "opus"})
		require.NoError(t, err)

		result, err := h.Invoke(context.Background(), &entity.Request{Capability: entity.CapabilityTranslation, Text: "hi"})

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}
