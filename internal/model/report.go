package model

import (
	"time"

	"github.com/google/uuid"
)

// AccuracyMetrics summarizes session-level confidence statistics.
type AccuracyMetrics struct {
	OverallConfidence     int `json:"overall_confidence"`
	DataQualityScore      int `json:"data_quality_score"`
	TotalResults          int `json:"total_results"`
	HighConfidenceResults int `json:"high_confidence_results"`
	VerifiedEntities      int `json:"verified_entities"`
	Completeness          int `json:"completeness"`
}

// ConfidenceInterval is a normal-approximation interval over a score sample.
type ConfidenceInterval struct {
	Mean  float64 `json:"mean"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Report is the final output of an analysis session: deduplicated results,
// cross-verified entities, and the aggregate metrics over both.
type Report struct {
	ID        string             `json:"id"`
	Context   SearchContext      `json:"context"`
	Results   []SearchResult     `json:"results"`
	Entities  []Entity           `json:"entities"`
	Metrics   AccuracyMetrics    `json:"metrics"`
	Interval  ConfidenceInterval `json:"confidence_interval"`
	CreatedAt time.Time          `json:"created_at"`
}

// NewReport creates a Report with a fresh ID and timestamp.
func NewReport(ctx SearchContext) *Report {
	return &Report{
		ID:        uuid.New().String(),
		Context:   ctx,
		CreatedAt: time.Now().UTC(),
	}
}
