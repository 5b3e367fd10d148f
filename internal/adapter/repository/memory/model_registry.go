package memory

import (
	"fmt"

	"github.com/ressKim-io/smartnlp/internal/domain/entity"
	"github.com/ressKim-io/smartnlp/internal/domain/repository"
	"github.com/ressKim-io/smartnlp/internal/infrastructure/config"
)

// DefaultSpecs returns the built-in model table
func DefaultSpecs() map[entity.Capability]entity.ModelSpec {
	return map[entity.Capability]entity.ModelSpec{
		entity.CapabilitySentiment: {
			Capability: entity.CapabilitySentiment,
			Task:       entity.CapabilitySentiment.Task(),
			Model:      "distilbert-base-uncased-finetuned-sst-2-english",
		},
		entity.CapabilityClassification: {
			Capability: entity.CapabilityClassification,
			Task:       entity.CapabilityClassification.Task(),
			Model:      "facebook/distilbart-mnli",
			Fallback:   "facebook/bart-large-mnli",
		},
		entity.CapabilityNER: {
			Capability: entity.CapabilityNER,
			Task:       entity.CapabilityNER.Task(),
			Model:      "dbmdz/bert-large-cased-finetuned-conll03-english",
			Params: entity.Params{
				AggregationStrategy: "simple",
			},
		},
		entity.CapabilityQA: {
			Capability: entity.CapabilityQA,
			Task:       entity.CapabilityQA.Task(),
			Model:      "distilbert-base-cased-distilled-squad",
		},
		entity.CapabilityTranslation: {
			Capability: entity.CapabilityTranslation,
			Task:       entity.CapabilityTranslation.Task(),
			Model:      "Helsinki-NLP/opus-mt-en-ar",
			Params: entity.Params{
				MaxLength:                 50,
				CleanUpTokenizationSpaces: true,
			},
		},
	}
}

type modelRegistry struct {
	specs map[entity.Capability]entity.ModelSpec
}

// NewModelRegistry creates a registry from the default table with optional
// deployment overrides applied. cfg may be nil.
func NewModelRegistry(cfg *config.ModelsConfig) repository.ModelRegistry {
	specs := DefaultSpecs()
	if cfg != nil {
		applyOverride(specs, entity.CapabilitySentiment, cfg.Sentiment)
		applyOverride(specs, entity.CapabilityClassification, cfg.Classification)
		applyOverride(specs, entity.CapabilityNER, cfg.NER)
		applyOverride(specs, entity.CapabilityQA, cfg.QA)
		applyOverride(specs, entity.CapabilityTranslation, cfg.Translation)

		if cfg.TranslationMaxLength > 0 {
			spec := specs[entity.CapabilityTranslation]
			spec.Params.MaxLength = cfg.TranslationMaxLength
			specs[entity.CapabilityTranslation] = spec
		}
	}
	return &modelRegistry{specs: specs}
}

func applyOverride(specs map[entity.Capability]entity.ModelSpec, c entity.Capability, o config.ModelOverride) {
	spec := specs[c]
	if o.Model != "" {
		spec.Model = o.Model
	}
	if o.Fallback != "" {
		spec.Fallback = o.Fallback
	}
	specs[c] = spec
}

func (r *modelRegistry) Lookup(capability entity.Capability) (entity.ModelSpec, error) {
	spec, ok := r.specs[capability]
	if !ok {
		return entity.ModelSpec{}, fmt.Errorf("%w: %q", entity.ErrUnknownCapability, string(capability))
	}
	return spec, nil
}

func (r *modelRegistry) Capabilities() []entity.ModelSpec {
	specs := make([]entity.ModelSpec, 0, len(entity.Capabilities))
	for _, c := range entity.Capabilities {
		specs = append(specs, r.specs[c])
	}
	return specs
}
