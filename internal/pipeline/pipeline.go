// Package pipeline orchestrates a full analysis pass: concurrent
// per-source entity extraction and relevance scoring, then a single
// dedupe/cross-verify/aggregate sweep over the accumulated set.
package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tracewell/skiptrace/internal/config"
	"github.com/tracewell/skiptrace/internal/dedupe"
	"github.com/tracewell/skiptrace/internal/extract"
	"github.com/tracewell/skiptrace/internal/geo"
	"github.com/tracewell/skiptrace/internal/metrics"
	"github.com/tracewell/skiptrace/internal/model"
	"github.com/tracewell/skiptrace/internal/relevance"
	"github.com/tracewell/skiptrace/internal/similarity"
)

// Document is one raw text payload from a single source, before any
// extraction or scoring.
type Document struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
	Source  string `json:"source"`
	Query   string `json:"query"`
}

// Analyzer runs documents through extraction, scoring, deduplication,
// cross-verification, and aggregation. Safe for concurrent use.
type Analyzer struct {
	maxConcurrent int
	extractor     *extract.Extractor
	scorer        *relevance.Scorer
	dedup         *dedupe.Deduplicator
	agg           *metrics.Aggregator
}

// New creates an Analyzer wired from config and the geo table.
func New(cfg *config.Config, table *geo.Table) *Analyzer {
	return &Analyzer{
		maxConcurrent: max(1, cfg.Pipeline.MaxConcurrentSources),
		extractor:     extract.New(table),
		scorer:        relevance.NewScorer(cfg.Relevance, table),
		dedup:         dedupe.New(cfg.Dedupe),
		agg:           metrics.New(cfg.Metrics),
	}
}

// Analyze processes all documents for one search context and produces a
// Report. Extraction runs concurrently per document; deduplication,
// cross-verification, and aggregation run exactly once over the
// accumulated set at the end.
func (a *Analyzer) Analyze(ctx context.Context, sctx model.SearchContext, docs []Document) (*model.Report, error) {
	log := zap.L().With(zap.String("name", sctx.Name), zap.Int("documents", len(docs)))
	log.Info("pipeline: starting analysis")

	results := make([]model.SearchResult, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrent)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.process(doc, sctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	deduped := a.dedup.Results(results)

	var entities []model.Entity
	for _, r := range deduped {
		entities = append(entities, r.ExtractedEntities...)
	}
	verified := a.dedup.Entities(entities)

	// Cross-verification may have raised entity confidence; fold that
	// back into result confidence conservatively.
	byKey := entityIndex(verified)
	final := a.dedup.RescoreResults(deduped, func(r model.SearchResult) int {
		return entityMean(r, byKey)
	})

	report := model.NewReport(sctx)
	report.Results = final
	report.Entities = verified
	report.Metrics = a.agg.Accuracy(final, verified)

	scores := make([]float64, len(final))
	for i, r := range final {
		scores[i] = float64(r.Confidence)
	}
	report.Interval = metrics.Interval(scores, 0.95)

	log.Info("pipeline: analysis complete",
		zap.Int("results", len(final)),
		zap.Int("entities", len(verified)),
		zap.Int("overall_confidence", report.Metrics.OverallConfidence))
	return report, nil
}

// process extracts entities from one document and scores it against the
// search context. Confidence starts at the relevance score; the final
// rescore pass adjusts it once entities are cross-verified.
func (a *Analyzer) process(doc Document, sctx model.SearchContext) model.SearchResult {
	r := model.NewSearchResult(doc.Title, doc.Snippet, doc.URL, doc.Source, doc.Query)

	text := strings.TrimSpace(doc.Title + " " + doc.Snippet)
	r.ExtractedEntities = a.extractor.Extract(text, sctx, extract.Options{Source: doc.Source})

	r.RelevanceScore = a.scorer.ScoreResult(r, sctx)
	r.Confidence = r.RelevanceScore
	return r
}

func entityKey(e model.Entity) string {
	return string(e.Type) + "|" + similarity.NormalizeText(e.Value)
}

// entityIndex maps (type, normalized value) to cross-verified confidence,
// using the same grouping key the deduplicator does.
func entityIndex(entities []model.Entity) map[string]int {
	idx := make(map[string]int, len(entities))
	for _, e := range entities {
		idx[entityKey(e)] = e.Confidence
	}
	return idx
}

// entityMean averages the cross-verified confidence of a result's
// entities. A result with no entities keeps its own confidence.
func entityMean(r model.SearchResult, verified map[string]int) int {
	if len(r.ExtractedEntities) == 0 {
		return r.Confidence
	}
	var sum int
	for _, e := range r.ExtractedEntities {
		c, ok := verified[entityKey(e)]
		if !ok {
			c = e.Confidence
		}
		sum += c
	}
	return sum / len(r.ExtractedEntities)
}
