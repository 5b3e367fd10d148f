package entity

import (
	"errors"
	"fmt"
)

// ErrUnknownCapability is returned when a capability name is not one of the supported values
var ErrUnknownCapability = errors.New("unknown capability")

// Capability represents a supported NLP operation
type Capability string

const (
	CapabilitySentiment      Capability = "sentiment"
	CapabilityClassification Capability = "classification"
	CapabilityNER            Capability = "ner"
	CapabilityQA             Capability = "qa"
	CapabilityTranslation    Capability = "translation"
)

// Capabilities lists every supported capability in canonical order
var Capabilities = []Capability{
	CapabilitySentiment,
	CapabilityClassification,
	CapabilityNER,
	CapabilityQA,
	CapabilityTranslation,
}

var capabilityInfo = map[Capability]struct {
	display string
	task    string
}{
	CapabilitySentiment:      {display: "Sentiment", task: "sentiment-analysis"},
	CapabilityClassification: {display: "Classification", task: "zero-shot-classification"},
	CapabilityNER:            {display: "NER", task: "ner"},
	CapabilityQA:             {display: "Q&A", task: "question-answering"},
	CapabilityTranslation:    {display: "Translation", task: "translation_en_to_ar"},
}

// ParseCapability converts a name into a Capability
func ParseCapability(name string) (Capability, error) {
	c := Capability(name)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCapability, name)
	}
	return c, nil
}

// IsValid returns true if the capability is one of the supported values
func (c Capability) IsValid() bool {
	_, ok := capabilityInfo[c]
	return ok
}

// DisplayName returns the human readable name used in messages
func (c Capability) DisplayName() string {
	if info, ok := capabilityInfo[c]; ok {
		return info.display
	}
	return string(c)
}

// Task returns the pipeline task name served by the capability
func (c Capability) Task() string {
	return capabilityInfo[c].task
}

func (c Capability) String() string {
	return string(c)
}
