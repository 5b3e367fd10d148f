package entity

import (
	"errors"
	"strings"
)

// ErrEmptyInput is returned when a required text field is blank
var ErrEmptyInput = errors.New("empty input")

// Request represents a single capability invocation
type Request struct {
	Capability      Capability `json:"capability"`
	Text            string     `json:"text,omitempty"`
	CandidateLabels []string   `json:"candidate_labels,omitempty"`
	Question        string     `json:"question,omitempty"`
	Context         string     `json:"context,omitempty"`
}

// Validate checks that the fields the capability needs are present.
// It never touches a model, so blank input is rejected before dispatch.
func (r *Request) Validate() error {
	if !r.Capability.IsValid() {
		return ErrUnknownCapability
	}

	switch r.Capability {
	case CapabilityQA:
		if isBlank(r.Question) || isBlank(r.Context) {
			return ErrEmptyInput
		}
	case CapabilityClassification:
		if isBlank(r.Text) || len(r.CandidateLabels) == 0 {
			return ErrEmptyInput
		}
	default:
		if isBlank(r.Text) {
			return ErrEmptyInput
		}
	}
	return nil
}

// SplitLabels splits a comma separated label list, trimming whitespace
// and dropping empty entries.
func SplitLabels(s string) []string {
	parts := strings.Split(s, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			labels = append(labels, p)
		}
	}
	return labels
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
