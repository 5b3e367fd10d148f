package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ressKim-io/smartnlp/internal/domain/entity"
	"github.com/ressKim-io/smartnlp/internal/domain/repository"
	"github.com/ressKim-io/smartnlp/internal/domain/service"
	"github.com/ressKim-io/smartnlp/internal/infrastructure/metrics"
)

// Error definitions for inference usecase
var (
	ErrUnknownCapability = entity.ErrUnknownCapability
	ErrEmptyInput        = entity.ErrEmptyInput
	ErrInferenceFailure  = errors.New("inference failed")

	errNoResult = errors.New("model returned no result")
)

// InferenceError wraps a model load or invocation failure
type InferenceError struct {
	Capability entity.Capability
	Err        error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Capability.DisplayName(), e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// Is reports ErrInferenceFailure as a match
func (e *InferenceError) Is(target error) bool {
	return target == ErrInferenceFailure
}

// TextInput represents the input for single-text capabilities
type TextInput struct {
	Text string `json:"text"`
}

// ClassificationInput represents the input for zero-shot classification
type ClassificationInput struct {
	Text            string `json:"text"`
	CandidateLabels string `json:"candidate_labels"`
}

// QAInput represents the input for question answering
type QAInput struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

// CapabilityOutput describes a registered capability
type CapabilityOutput struct {
	Capability  string        `json:"capability"`
	DisplayName string        `json:"display_name"`
	Task        string        `json:"task"`
	Model       string        `json:"model"`
	Fallback    string        `json:"fallback,omitempty"`
	Params      entity.Params `json:"params"`
	Loaded      bool          `json:"loaded"`
}

// InferenceUsecase defines the interface for inference business logic
type InferenceUsecase interface {
	Sentiment(ctx context.Context, input *TextInput) (*entity.Result, error)
	Classify(ctx context.Context, input *ClassificationInput) (*entity.Result, error)
	ExtractEntities(ctx context.Context, input *TextInput) (*entity.Result, error)
	Answer(ctx context.Context, input *QAInput) (*entity.Result, error)
	Translate(ctx context.Context, input *TextInput) (*entity.Result, error)
	Capabilities() []*CapabilityOutput
}

// Option configures an inference usecase
type Option func(*inferenceUsecase)

// WithTranslationPreprocessor sets the rewrite applied to translation input
func WithTranslationPreprocessor(p Preprocessor) Option {
	return func(u *inferenceUsecase) {
		u.translationPre = p
	}
}

// WithLogger sets the usecase logger
func WithLogger(logger *zap.Logger) Option {
	return func(u *inferenceUsecase) {
		u.logger = logger
	}
}

type inferenceUsecase struct {
	registry       repository.ModelRegistry
	resolver       service.HandleResolver
	translationPre Preprocessor
	logger         *zap.Logger
}

// NewInferenceUsecase creates a new inference usecase
func NewInferenceUsecase(registry repository.ModelRegistry, resolver service.HandleResolver, opts ...Option) InferenceUsecase {
	u := &inferenceUsecase{
		registry: registry,
		resolver: resolver,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *inferenceUsecase) Sentiment(ctx context.Context, input *TextInput) (*entity.Result, error) {
	return u.run(ctx, &entity.Request{
		Capability: entity.CapabilitySentiment,
		Text:       normalize(input.Text),
	})
}

func (u *inferenceUsecase) Classify(ctx context.Context, input *ClassificationInput) (*entity.Result, error) {
	labels := entity.SplitLabels(input.CandidateLabels)
	for i, l := range labels {
		labels[i] = normalize(l)
	}

	return u.run(ctx, &entity.Request{
		Capability:      entity.CapabilityClassification,
		Text:            normalize(input.Text),
		CandidateLabels: labels,
	})
}

func (u *inferenceUsecase) ExtractEntities(ctx context.Context, input *TextInput) (*entity.Result, error) {
	return u.run(ctx, &entity.Request{
		Capability: entity.CapabilityNER,
		Text:       normalize(input.Text),
	})
}

func (u *inferenceUsecase) Answer(ctx context.Context, input *QAInput) (*entity.Result, error) {
	return u.run(ctx, &entity.Request{
		Capability: entity.CapabilityQA,
		Question:   normalize(input.Question),
		Context:    normalize(input.Context),
	})
}

func (u *inferenceUsecase) Translate(ctx context.Context, input *TextInput) (*entity.Result, error) {
	req := &entity.Request{
		Capability: entity.CapabilityTranslation,
		Text:       normalize(input.Text),
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if u.translationPre != nil {
		req.Text = u.translationPre(req.Text)
	}

	return u.run(ctx, req)
}

func (u *inferenceUsecase) Capabilities() []*CapabilityOutput {
	loaded := make(map[entity.Capability]bool)
	for _, c := range u.resolver.Loaded() {
		loaded[c] = true
	}

	specs := u.registry.Capabilities()
	outputs := make([]*CapabilityOutput, len(specs))
	for i, s := range specs {
		outputs[i] = &CapabilityOutput{
			Capability:  string(s.Capability),
			DisplayName: s.Capability.DisplayName(),
			Task:        s.Task,
			Model:       s.Model,
			Fallback:    s.Fallback,
			Params:      s.Params,
			Loaded:      loaded[s.Capability],
		}
	}
	return outputs
}

func (u *inferenceUsecase) run(ctx context.Context, req *entity.Request) (*entity.Result, error) {
	if err := req.Validate(); err != nil {
		if errors.Is(err, ErrUnknownCapability) {
			u.logger.DPanic("Request for unregistered capability", zap.String("capability", string(req.Capability)))
		}
		return nil, err
	}

	handle, err := u.resolver.Resolve(ctx, req.Capability)
	if err != nil {
		if errors.Is(err, ErrUnknownCapability) {
			u.logger.DPanic("Capability missing from registry", zap.String("capability", string(req.Capability)))
			return nil, err
		}
		return nil, u.fail(req.Capability, err)
	}

	start := time.Now()
	result, err := handle.Invoke(ctx, req)
	if err == nil && result == nil {
		err = errNoResult
	}
	metrics.InferenceDuration.WithLabelValues(req.Capability.String()).Observe(time.Since(start).Seconds())
	metrics.InferenceRequestsTotal.WithLabelValues(req.Capability.String(), metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, u.fail(req.Capability, err)
	}

	u.logger.Debug("Inference completed",
		zap.String("capability", req.Capability.String()),
		zap.String("model", handle.Model()),
		zap.Duration("latency", time.Since(start)),
	)
	return result, nil
}

func (u *inferenceUsecase) fail(c entity.Capability, err error) error {
	u.logger.Warn("Inference failed", zap.String("capability", c.String()), zap.Error(err))
	return &InferenceError{Capability: c, Err: err}
}
