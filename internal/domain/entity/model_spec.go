package entity

// Params holds the fixed invocation parameters bound to a model handle
type Params struct {
	MaxLength                 int    `json:"max_length,omitempty" mapstructure:"max_length"`
	NumBeams                  int    `json:"num_beams,omitempty" mapstructure:"num_beams"`
	CleanUpTokenizationSpaces bool   `json:"clean_up_tokenization_spaces,omitempty" mapstructure:"clean_up_tokenization_spaces"`
	AggregationStrategy       string `json:"aggregation_strategy,omitempty" mapstructure:"aggregation_strategy"`
	MultiLabel                bool   `json:"multi_label,omitempty" mapstructure:"multi_label"`
}

// ModelSpec describes which model serves a capability and how it is invoked
type ModelSpec struct {
	Capability Capability `json:"capability"`
	Task       string     `json:"task"`
	Model      string     `json:"model"`
	Fallback   string     `json:"fallback,omitempty"`
	Params     Params     `json:"params"`
}

// HasFallback returns true if a distinct fallback model is configured
func (s ModelSpec) HasFallback() bool {
	return s.Fallback != "" && s.Fallback != s.Model
}

// WithModel returns a copy bound to another model identifier
func (s ModelSpec) WithModel(model string) ModelSpec {
	s.Model = model
	return s
}
