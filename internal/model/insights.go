package model

// TopPerformer is the most frequent value of a categorical column.
type TopPerformer struct {
	Category   string  `json:"category"`
	Value      string  `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// PainPoint is the column with the most missing values.
type PainPoint struct {
	Type       string  `json:"type"`
	Column     string  `json:"column"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Insights bundles the derived findings and their narrative.
type Insights struct {
	TopPerformer *TopPerformer `json:"topPerformer,omitempty"`
	PainPoint    *PainPoint    `json:"painPoint,omitempty"`
	Narrative    string        `json:"narrative"`
}
