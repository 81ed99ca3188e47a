package relevance

import (
	"regexp"
	"strings"

	"github.com/tracewell/skiptrace/internal/confidence"
	"github.com/tracewell/skiptrace/internal/geo"
	"github.com/tracewell/skiptrace/internal/model"
	"github.com/tracewell/skiptrace/internal/similarity"
)

// Structural shape detectors. These reward information density in a
// snippet regardless of whether the shapes match the query.
var (
	addressShapeRE = regexp.MustCompile(`(?i)\b\d{1,6}\s+\w+(?:\s+\w+)?\s+(?:street|st|avenue|ave|road|rd|boulevard|blvd|drive|dr|lane|ln|court|ct)\b`)
	phoneShapeRE   = regexp.MustCompile(`\(?\d{3}\)?[-.\s]\d{3}[-.\s]?\d{4}\b`)
	ageShapeRE     = regexp.MustCompile(`(?i)\bage[d]?[:\s]+\d{1,3}\b`)
)

// Scorer computes 0-100 relevance scores for snippets against a search
// context. Safe for concurrent use.
type Scorer struct {
	cfg Config
	geo *geo.Table
}

// NewScorer creates a Scorer with the given weights and reference tables.
func NewScorer(cfg Config, table *geo.Table) *Scorer {
	return &Scorer{cfg: cfg, geo: table}
}

// Score rates how well a snippet matches the search context, in [0,100].
func (s *Scorer) Score(snippet string, ctx model.SearchContext) int {
	if strings.TrimSpace(snippet) == "" {
		return 0
	}
	norm := similarity.NormalizeText(snippet)
	score := 0

	score += s.nameScore(norm, ctx.Name)
	score += s.locationScore(norm, ctx)
	score += s.phoneScore(snippet, ctx.Phone)

	if ctx.Email != "" && strings.Contains(strings.ToLower(snippet), strings.ToLower(ctx.Email)) {
		score += s.cfg.EmailWeight
	}

	// Structural bonuses, independent of context match.
	if addressShapeRE.MatchString(snippet) {
		score += s.cfg.PatternBonus
	}
	if phoneShapeRE.MatchString(snippet) {
		score += s.cfg.PatternBonus
	}
	if ageShapeRE.MatchString(snippet) {
		score += s.cfg.PatternBonus
	}

	return model.ClampConfidence(score)
}

// ScoreResult rates a whole search result: the snippet and title scored
// against the context, plus the source credibility tier for its domain.
func (s *Scorer) ScoreResult(result model.SearchResult, ctx model.SearchContext) int {
	text := result.Title
	if result.Snippet != "" {
		text += " " + result.Snippet
	}
	score := s.Score(text, ctx)
	score += s.SourceBonus(result.URL + " " + result.Source)
	return model.ClampConfidence(score)
}

// SourceBonus returns the credibility bonus for the first matching source
// tier. Tiers do not stack.
func (s *Scorer) SourceBonus(domain string) int {
	lower := strings.ToLower(domain)
	for _, tier := range s.cfg.SourceTiers {
		for _, kw := range tier.Keywords {
			if strings.Contains(lower, kw) {
				return tier.Bonus
			}
		}
	}
	return 0
}

// nameScore weights each searched-name token (length > 2) found in the
// normalized snippet; a token's stem (token minus final character) earns a
// smaller weight, tolerating simple suffix variation.
func (s *Scorer) nameScore(norm, name string) int {
	score := 0
	for _, tok := range strings.Fields(strings.ToLower(name)) {
		if len(tok) <= 2 {
			continue
		}
		if containsWord(norm, tok) {
			score += s.cfg.NameTokenWeight
			continue
		}
		stem := tok[:len(tok)-1]
		if len(stem) > 2 && strings.Contains(norm, stem) {
			score += s.cfg.StemWeight
		}
	}
	return score
}

func (s *Scorer) locationScore(norm string, ctx model.SearchContext) int {
	score := 0

	if ctx.City != "" && strings.Contains(norm, strings.ToLower(ctx.City)) {
		score += s.cfg.CityWeight
	}

	if ctx.State != "" {
		matched := containsWord(norm, strings.ToLower(ctx.State))
		if !matched && s.geo != nil {
			// Accept the full state name when the context carries a code,
			// and vice versa.
			if region, ok := s.geo.State(ctx.State); ok {
				matched = containsWord(norm, strings.ToLower(region.State)) ||
					strings.Contains(norm, strings.ToLower(region.StateName))
			}
		}
		if matched {
			score += s.cfg.StateWeight
		}

		// Proximity terms generalize the city match to named neighboring
		// towns and counties; the table is deployment data, not code.
		if s.geo != nil {
			for _, term := range s.geo.Proximity(ctx.State) {
				if strings.Contains(norm, term) {
					score += s.cfg.ProximityWeight
					break
				}
			}
		}
	}

	return score
}

func (s *Scorer) phoneScore(snippet, ctxPhone string) int {
	ctxDigits := confidence.DigitsOnly(ctxPhone)
	if len(ctxDigits) == 11 && ctxDigits[0] == '1' {
		ctxDigits = ctxDigits[1:]
	}
	if len(ctxDigits) < 3 {
		return 0
	}

	snippetDigits := confidence.DigitsOnly(snippet)
	if len(ctxDigits) == 10 && strings.Contains(snippetDigits, ctxDigits) {
		return s.cfg.PhoneExactWeight
	}

	// Area-code-only match against phone-shaped substrings.
	area := ctxDigits[:3]
	for _, m := range phoneShapeRE.FindAllString(snippet, -1) {
		if strings.HasPrefix(confidence.DigitsOnly(m), area) {
			return s.cfg.PhoneAreaWeight
		}
	}
	return 0
}

// containsWord reports whether norm contains tok as a standalone word.
func containsWord(norm, tok string) bool {
	for _, w := range strings.Fields(norm) {
		if w == tok {
			return true
		}
	}
	return false
}
