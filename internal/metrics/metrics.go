// Package metrics rolls per-result confidence up into session-level
// accuracy figures: means, threshold counts, completeness, and
// normal-approximation confidence intervals.
package metrics

import (
	"math"

	"github.com/tracewell/skiptrace/internal/model"
)

// Config holds the aggregation thresholds. ExpectedResults drives the
// saturating completeness ratio; it is an ad hoc constant kept
// configurable for retuning.
type Config struct {
	HighConfidenceThreshold int `yaml:"high_confidence_threshold" mapstructure:"high_confidence_threshold"`
	ExpectedResults         int `yaml:"expected_results" mapstructure:"expected_results"`
}

// DefaultConfig returns the standard thresholds: 70 for "high confidence"
// and 10 expected results per search.
func DefaultConfig() Config {
	return Config{
		HighConfidenceThreshold: 70,
		ExpectedResults:         10,
	}
}

// Aggregator computes session-level accuracy metrics.
type Aggregator struct {
	cfg Config
}

// New creates an Aggregator with the given config.
func New(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Accuracy computes the aggregate metrics for a finished session.
// Empty inputs produce zero-valued metrics, never an error.
func (a *Aggregator) Accuracy(results []model.SearchResult, entities []model.Entity) model.AccuracyMetrics {
	m := model.AccuracyMetrics{TotalResults: len(results)}

	if len(results) > 0 {
		var sum int
		for _, r := range results {
			sum += r.Confidence
			if r.Confidence >= a.cfg.HighConfidenceThreshold {
				m.HighConfidenceResults++
			}
		}
		m.OverallConfidence = int(math.Round(float64(sum) / float64(len(results))))
	}

	if len(entities) > 0 {
		var sum int
		for _, e := range entities {
			sum += e.Confidence
			if e.Verified {
				m.VerifiedEntities++
			}
		}
		m.DataQualityScore = int(math.Round(float64(sum) / float64(len(entities))))
	}

	if a.cfg.ExpectedResults > 0 {
		completeness := len(results) * 100 / a.cfg.ExpectedResults
		m.Completeness = min(100, completeness)
	}

	return m
}

// Interval computes a normal-approximation confidence interval over a
// score sample at the given confidence level (0.95 and 0.99 supported;
// anything else falls back to 95%). Returns a zero interval for an empty
// sample. This is a population-style z approximation, not a t
// distribution: fine for large-ish samples, deterministic for tests.
func Interval(scores []float64, level float64) model.ConfidenceInterval {
	if len(scores) == 0 {
		return model.ConfidenceInterval{}
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	mean := sum / float64(len(scores))

	var variance float64
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(len(scores))

	z := 1.96
	if level >= 0.99 {
		z = 2.58
	}

	margin := z * math.Sqrt(variance/float64(len(scores)))
	return model.ConfidenceInterval{
		Mean:  mean,
		Lower: mean - margin,
		Upper: mean + margin,
	}
}
