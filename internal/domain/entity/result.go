package entity

// SentimentResult is the top label produced by a sentiment model
type SentimentResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ClassificationResult is the ranked output of zero-shot classification
type ClassificationResult struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
	Label    string    `json:"label"`
	Score    float64   `json:"score"`
}

// Entity is a grouped named-entity span
type Entity struct {
	EntityGroup string  `json:"entity_group"`
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
}

// Answer is an extractive answer located in the context passage
type Answer struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

// Translation holds translated text
type Translation struct {
	TranslationText string `json:"translation_text"`
}

// Result is the output of a handle invocation. Exactly one payload is set,
// matching Capability.
type Result struct {
	Capability     Capability            `json:"capability"`
	Model          string                `json:"model"`
	Sentiment      *SentimentResult      `json:"sentiment,omitempty"`
	Classification *ClassificationResult `json:"classification,omitempty"`
	Entities       []Entity              `json:"entities,omitempty"`
	Answer         *Answer               `json:"answer,omitempty"`
	Translation    *Translation          `json:"translation,omitempty"`
}
