package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ressKim-io/smartnlp/internal/domain/entity"
	"github.com/ressKim-io/smartnlp/internal/domain/service"
)

var (
	// ErrPipelineMismatch is returned when a model does not serve the requested task
	ErrPipelineMismatch = errors.New("model pipeline does not match capability")

	// ErrEmptyResponse is returned when the backend returns no prediction
	ErrEmptyResponse = errors.New("empty response from inference service")
)

// compatibleTags lists the Hub pipeline tags accepted for each capability
var compatibleTags = map[entity.Capability][]string{
	entity.CapabilitySentiment:      {"text-classification", "sentiment-analysis"},
	entity.CapabilityClassification: {"zero-shot-classification"},
	entity.CapabilityNER:            {"token-classification", "ner"},
	entity.CapabilityQA:             {"question-answering"},
	entity.CapabilityTranslation:    {"translation", "text2text-generation"},
}

// PipelineLoader adapts InferenceClient to the Loader interface
type PipelineLoader struct {
	client       *InferenceClient
	waitForModel bool
}

// NewPipelineLoader creates a new PipelineLoader
func NewPipelineLoader(client *InferenceClient, waitForModel bool) service.Loader {
	return &PipelineLoader{client: client, waitForModel: waitForModel}
}

// Load resolves the model on the Hub and checks it serves the capability
func (l *PipelineLoader) Load(ctx context.Context, spec entity.ModelSpec) (service.Handle, error) {
	info, err := l.client.ModelInfo(ctx, spec.Model)
	if err != nil {
		return nil, err
	}

	if !tagCompatible(spec.Capability, info.PipelineTag) {
		return nil, fmt.Errorf("%w: %s is %q, %s needs one of %v",
			ErrPipelineMismatch, spec.Model, info.PipelineTag, spec.Capability, compatibleTags[spec.Capability])
	}

	return &pipelineHandle{
		client:       l.client,
		spec:         spec,
		waitForModel: l.waitForModel,
	}, nil
}

func tagCompatible(c entity.Capability, tag string) bool {
	if tag == "" {
		return true
	}
	for _, t := range compatibleTags[c] {
		if t == tag {
			return true
		}
	}
	return false
}

// pipelineHandle invokes one model with fixed parameters
type pipelineHandle struct {
	client       *InferenceClient
	spec         entity.ModelSpec
	waitForModel bool
}

func (h *pipelineHandle) Capability() entity.Capability {
	return h.spec.Capability
}

func (h *pipelineHandle) Model() string {
	return h.spec.Model
}

func (h *pipelineHandle) Invoke(ctx context.Context, req *entity.Request) (*entity.Result, error) {
	result := &entity.Result{Capability: h.spec.Capability, Model: h.spec.Model}

	var err error
	switch h.spec.Capability {
	case entity.CapabilitySentiment:
		result.Sentiment, err = h.sentiment(ctx, req.Text)
	case entity.CapabilityClassification:
		result.Classification, err = h.zeroShot(ctx, req.Text, req.CandidateLabels)
	case entity.CapabilityNER:
		result.Entities, err = h.entities(ctx, req.Text)
	case entity.CapabilityQA:
		result.Answer, err = h.answer(ctx, req.Question, req.Context)
	case entity.CapabilityTranslation:
		result.Translation, err = h.translate(ctx, req.Text)
	default:
		err = entity.ErrUnknownCapability
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (h *pipelineHandle) request(inputs interface{}, params map[string]interface{}) *InferenceRequest {
	return &InferenceRequest{
		Inputs:     inputs,
		Parameters: params,
		Options:    &InferenceOptions{WaitForModel: h.waitForModel, UseCache: true},
	}
}

func (h *pipelineHandle) sentiment(ctx context.Context, text string) (*entity.SentimentResult, error) {
	var raw json.RawMessage
	if err := h.client.Infer(ctx, h.spec.Model, h.request(text, nil), &raw); err != nil {
		return nil, err
	}

	// Single inputs come back either flat or nested one level
	var scores []LabelScore
	var nested [][]LabelScore
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		scores = nested[0]
	} else if err := json.Unmarshal(raw, &scores); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(scores) == 0 {
		return nil, ErrEmptyResponse
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return &entity.SentimentResult{Label: best.Label, Score: best.Score}, nil
}

func (h *pipelineHandle) zeroShot(ctx context.Context, text string, labels []string) (*entity.ClassificationResult, error) {
	params := map[string]interface{}{"candidate_labels": labels}
	if h.spec.Params.MultiLabel {
		params["multi_label"] = true
	}

	var resp ZeroShotResponse
	if err := h.client.Infer(ctx, h.spec.Model, h.request(text, params), &resp); err != nil {
		return nil, err
	}
	if len(resp.Labels) == 0 || len(resp.Labels) != len(resp.Scores) {
		return nil, ErrEmptyResponse
	}

	return &entity.ClassificationResult{
		Sequence: resp.Sequence,
		Labels:   resp.Labels,
		Scores:   resp.Scores,
		Label:    resp.Labels[0],
		Score:    resp.Scores[0],
	}, nil
}

func (h *pipelineHandle) entities(ctx context.Context, text string) ([]entity.Entity, error) {
	var params map[string]interface{}
	if h.spec.Params.AggregationStrategy != "" {
		params = map[string]interface{}{"aggregation_strategy": h.spec.Params.AggregationStrategy}
	}

	var resp []TokenClassificationEntity
	if err := h.client.Infer(ctx, h.spec.Model, h.request(text, params), &resp); err != nil {
		return nil, err
	}

	entities := make([]entity.Entity, len(resp))
	for i, e := range resp {
		group := e.EntityGroup
		if group == "" {
			group = e.Entity
		}
		entities[i] = entity.Entity{
			EntityGroup: group,
			Word:        e.Word,
			Score:       e.Score,
			Start:       e.Start,
			End:         e.End,
		}
	}
	return entities, nil
}

func (h *pipelineHandle) answer(ctx context.Context, question, passage string) (*entity.Answer, error) {
	inputs := QuestionAnsweringInputs{Question: question, Context: passage}

	var resp QuestionAnsweringResponse
	if err := h.client.Infer(ctx, h.spec.Model, h.request(inputs, nil), &resp); err != nil {
		return nil, err
	}

	return &entity.Answer{
		Answer: resp.Answer,
		Score:  resp.Score,
		Start:  resp.Start,
		End:    resp.End,
	}, nil
}

func (h *pipelineHandle) translate(ctx context.Context, text string) (*entity.Translation, error) {
	params := map[string]interface{}{}
	if h.spec.Params.MaxLength > 0 {
		params["max_length"] = h.spec.Params.MaxLength
	}
	if h.spec.Params.NumBeams > 0 {
		params["num_beams"] = h.spec.Params.NumBeams
	}
	if h.spec.Params.CleanUpTokenizationSpaces {
		params["clean_up_tokenization_spaces"] = true
	}

	var resp []TranslationResponse
	if err := h.client.Infer(ctx, h.spec.Model, h.request(text, params), &resp); err != nil {
		return nil, err
	}
	if len(resp) == 0 {
		return nil, ErrEmptyResponse
	}

	return &entity.Translation{TranslationText: resp[0].TranslationText}, nil
}
