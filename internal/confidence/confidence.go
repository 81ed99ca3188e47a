// Package confidence computes per-entity confidence scores: a type-specific
// base plus additive boosts for corroborating search context, always clamped
// to the canonical 0-100 integer scale.
package confidence

import (
	"math"
	"strings"

	"github.com/tracewell/skiptrace/internal/geo"
	"github.com/tracewell/skiptrace/internal/model"
)

// Bounds for the conservative combination formula. These are the historical
// 0.05-0.99 limits mapped onto the canonical 0-100 scale.
const (
	MinCombined = 5
	MaxCombined = 99
)

// Common free-mail domains. Custom domains score higher because they are
// harder to fabricate and easier to correlate to a subject.
var commonMailDomains = map[string]struct{}{
	"gmail.com":      {},
	"yahoo.com":      {},
	"hotmail.com":    {},
	"outlook.com":    {},
	"aol.com":        {},
	"icloud.com":     {},
	"protonmail.com": {},
	"live.com":       {},
	"msn.com":        {},
}

// baseByType holds the fixed confidence tiers for label-triggered free-text
// captures. These are never context-boosted: their matching logic is weaker
// and the score must not overstate certainty.
var baseByType = map[model.EntityType]int{
	model.EntityName:       60,
	model.EntityRelative:   70,
	model.EntityAssociate:  65,
	model.EntityEmployment: 65,
	model.EntityEducation:  60,
	model.EntityLegal:      60,
	model.EntityFinancial:  60,
	model.EntitySalary:     60,
	model.EntityDate:       60,
	model.EntityBusiness:   65,
	model.EntitySocial:     75,
	model.EntitySSNMasked:  75,
	model.EntityVehicle:    70,
	model.EntityVIN:        95,
	model.EntityAge:        85,
}

// Calculator scores entities against a search context using the geographic
// reference tables. Safe for concurrent use.
type Calculator struct {
	geo *geo.Table
}

// NewCalculator creates a Calculator backed by the given reference tables.
func NewCalculator(table *geo.Table) *Calculator {
	return &Calculator{geo: table}
}

// BaseFor returns the fixed confidence tier for a label-triggered type,
// or 50 when the type has no configured tier.
func BaseFor(typ model.EntityType) int {
	if c, ok := baseByType[typ]; ok {
		return c
	}
	return 50
}

// Phone scores a normalized 10-digit phone number. Boosts, in order:
// valid NANP shape, known area code, exact context phone match (+30) or
// shared area code (+15), geographic correlation with the context city or
// state, and not being a toll-free/premium prefix.
func (c *Calculator) Phone(digits string, ctx model.SearchContext) (int, geo.Region, bool) {
	score := 50
	var region geo.Region
	var known bool

	if len(digits) != 10 {
		return model.ClampConfidence(score), region, known
	}
	area := digits[:3]

	// Valid NANP area codes never start with 0 or 1.
	if area[0] != '0' && area[0] != '1' {
		score += 10
	}

	if c.geo != nil {
		region, known = c.geo.AreaCode(area)
		if known {
			score += 10
		}
	}

	ctxDigits := DigitsOnly(ctx.Phone)
	if len(ctxDigits) == 11 && ctxDigits[0] == '1' {
		ctxDigits = ctxDigits[1:]
	}
	switch {
	case len(ctxDigits) == 10 && ctxDigits == digits:
		score += 30
	case len(ctxDigits) >= 3 && ctxDigits[:3] == area:
		score += 15
	}

	if known {
		switch {
		case ctx.City != "" && region.CityInRegion(ctx.City):
			score += 20
		case ctx.State != "" && strings.EqualFold(region.State, ctx.State):
			score += 10
		}
	}

	if c.geo != nil && !c.geo.IsTollFree(area) && !c.geo.IsPremium(area) {
		score += 5
	}

	return model.ClampConfidence(score), region, known
}

// Address scores a street address capture by component completeness plus
// context correlation.
func (c *Calculator) Address(addr string, hasNumber, hasSuffix, hasZip bool, state string, ctx model.SearchContext) int {
	score := 30

	if hasNumber {
		score += 10
	}
	if hasSuffix {
		score += 10
	}
	if hasZip {
		score += 10
	}
	if state != "" {
		score += 10
		if c.geo != nil {
			if _, ok := c.geo.State(state); ok {
				score += 5
			}
		}
	}

	lower := strings.ToLower(addr)
	if ctx.City != "" && strings.Contains(lower, strings.ToLower(ctx.City)) {
		score += 10
	}
	if ctx.State != "" && containsState(lower, ctx.State) {
		score += 10
	}

	return model.ClampConfidence(score)
}

// Email scores an extracted email address. An exact context match is worth
// +30; custom (non free-mail) domains earn a smaller bonus.
func (c *Calculator) Email(email string, ctx model.SearchContext) int {
	score := 60

	if ctx.Email != "" && strings.EqualFold(email, ctx.Email) {
		score += 30
	}

	if at := strings.LastIndex(email, "@"); at >= 0 && at+1 < len(email) {
		domain := strings.ToLower(email[at+1:])
		if _, common := commonMailDomains[domain]; !common {
			score += 10
		}
	}

	return model.ClampConfidence(score)
}

// Combine merges an original confidence with a freshly recalculated one:
// max(original, original*0.7 + recalculated*0.3), clamped to [5,99].
// The bias is deliberate: a noisier re-evaluation pass must never drop a
// score below 70% of previously earned trust.
func Combine(original, recalculated int) int {
	blended := int(math.Round(float64(original)*0.7 + float64(recalculated)*0.3))
	combined := max(original, blended)
	if combined < MinCombined {
		return MinCombined
	}
	if combined > MaxCombined {
		return MaxCombined
	}
	return combined
}

// DigitsOnly strips everything but ASCII digits from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// containsState reports whether the lowered text contains the state as a
// standalone token (avoids "il" matching inside "Illinois Ave" prose).
func containsState(lowerText, state string) bool {
	state = strings.ToLower(strings.TrimSpace(state))
	if state == "" {
		return false
	}
	for _, tok := range strings.FieldsFunc(lowerText, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		if tok == state {
			return true
		}
	}
	return false
}
