// Package dedupe merges near-duplicate search results and cross-verifies
// entities that recur across independent sources.
package dedupe

import (
	"fmt"
	"sort"

	"github.com/tracewell/skiptrace/internal/confidence"
	"github.com/tracewell/skiptrace/internal/model"
	"github.com/tracewell/skiptrace/internal/similarity"
)

// Config holds the deduplication thresholds and the corroboration boost.
// The boost constant is ad hoc (no statistical derivation) and deliberately
// configurable so it can be retuned without touching the algorithm.
type Config struct {
	SnippetThreshold   float64 `yaml:"snippet_threshold" mapstructure:"snippet_threshold"`
	TitleThreshold     float64 `yaml:"title_threshold" mapstructure:"title_threshold"`
	CorroborationBoost int     `yaml:"corroboration_boost" mapstructure:"corroboration_boost"`
}

// DefaultConfig returns the standard thresholds: snippets compare at 0.8,
// titles at 0.9, and each extra corroborating source adds 5 points.
func DefaultConfig() Config {
	return Config{
		SnippetThreshold:   0.8,
		TitleThreshold:     0.9,
		CorroborationBoost: 5,
	}
}

// Deduplicator folds near-duplicate results and corroborates entities.
// Safe for concurrent use.
type Deduplicator struct {
	cfg Config
}

// New creates a Deduplicator with the given config.
func New(cfg Config) *Deduplicator {
	return &Deduplicator{cfg: cfg}
}

// Results folds near-duplicate results, keeping the higher-confidence copy
// of each duplicate pair. Two results are duplicates when their snippets
// are similar at the snippet threshold or their titles at the title
// threshold. O(n²) over the accepted set; result sets are tens, not
// thousands, per search. Idempotent: running twice is a no-op.
func (d *Deduplicator) Results(results []model.SearchResult) []model.SearchResult {
	accepted := make([]model.SearchResult, 0, len(results))

	for _, candidate := range results {
		replaced := false
		duplicate := false
		for i, kept := range accepted {
			if !d.isDuplicate(candidate, kept) {
				continue
			}
			duplicate = true
			if candidate.Confidence > kept.Confidence {
				accepted[i] = candidate
				replaced = true
			}
			break
		}
		if !duplicate && !replaced {
			accepted = append(accepted, candidate)
		}
	}

	return accepted
}

// Entities groups entities by (type, normalized value). Singleton groups
// pass through unchanged. Groups seen in N >= 2 results collapse to the
// highest-confidence member, boosted by CorroborationBoost x (N-1) and
// marked verified. Output keeps first-seen group order.
func (d *Deduplicator) Entities(entities []model.Entity) []model.Entity {
	type group struct {
		best  model.Entity
		count int
	}

	var order []string
	groups := make(map[string]*group)

	for _, e := range entities {
		key := fmt.Sprintf("%s|%s", e.Type, similarity.NormalizeText(e.Value))
		g, ok := groups[key]
		if !ok {
			groups[key] = &group{best: e, count: 1}
			order = append(order, key)
			continue
		}
		g.count++
		if e.Confidence > g.best.Confidence {
			g.best = e
		}
	}

	out := make([]model.Entity, 0, len(order))
	for _, key := range order {
		g := groups[key]
		if g.count < 2 {
			out = append(out, g.best)
			continue
		}
		out = append(out, g.best.WithBoost(d.cfg.CorroborationBoost*(g.count-1)))
	}
	return out
}

// RescoreResults re-scores result confidence with the given function and
// merges old and new scores conservatively, so a noisier re-evaluation
// never discards previously earned trust. Results are returned sorted by
// confidence descending (stable).
func (d *Deduplicator) RescoreResults(results []model.SearchResult, rescore func(model.SearchResult) int) []model.SearchResult {
	out := make([]model.SearchResult, len(results))
	copy(out, results)
	for i := range out {
		out[i].Confidence = confidence.Combine(out[i].Confidence, rescore(out[i]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

func (d *Deduplicator) isDuplicate(a, b model.SearchResult) bool {
	if a.Snippet != "" && b.Snippet != "" &&
		similarity.AreSimilar(a.Snippet, b.Snippet, d.cfg.SnippetThreshold) {
		return true
	}
	return a.Title != "" && b.Title != "" &&
		similarity.AreSimilar(a.Title, b.Title, d.cfg.TitleThreshold)
}
