package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracewell/skiptrace/internal/geo"
	"github.com/tracewell/skiptrace/internal/model"
)

func newScorer(t *testing.T) *Scorer {
	t.Helper()
	table, err := geo.Load("")
	require.NoError(t, err)
	return NewScorer(DefaultConfig(), table)
}

func TestScoreEmptySnippet(t *testing.T) {
	s := newScorer(t)
	assert.Equal(t, 0, s.Score("", model.SearchContext{Name: "John Smith"}))
	assert.Equal(t, 0, s.Score("   ", model.SearchContext{Name: "John Smith"}))
}

func TestScoreNameTokens(t *testing.T) {
	s := newScorer(t)
	ctx := model.SearchContext{Name: "John Smith"}

	full := s.Score("John Smith mentioned in city directory", ctx)
	// Both tokens found: 2 x 25.
	assert.Equal(t, 50, full)

	partial := s.Score("Smith family reunion", ctx)
	assert.Equal(t, 25, partial, "only one token present")

	stem := s.Score("Smiths of Illinois", model.SearchContext{Name: "Smith"})
	assert.Equal(t, 10, stem, "stem match earns the smaller weight")

	none := s.Score("completely unrelated text", ctx)
	assert.Equal(t, 0, none)
}

func TestScoreLocation(t *testing.T) {
	s := newScorer(t)
	ctx := model.SearchContext{Name: "John Smith", City: "Springfield", State: "IL"}

	city := s.Score("records for Springfield residents", ctx)
	assert.Equal(t, 15, city)

	state := s.Score("property owner in IL since 2019", ctx)
	assert.Equal(t, 10, state)

	stateName := s.Score("property owner in Illinois since 2019", ctx)
	assert.Equal(t, 10, stateName, "full state name matches a state-code context")
}

func TestScoreProximityTerms(t *testing.T) {
	s := newScorer(t)
	ctx := model.SearchContext{Name: "John Smith", City: "Oklahoma City", State: "OK"}

	score := s.Score("voter registration lists an address in Edmond", ctx)
	assert.Equal(t, 10, score, "a proximity town counts even without an exact city match")

	// Proximity bonus applies once, not per term.
	multi := s.Score("seen in Edmond and Norman and Moore", ctx)
	assert.Equal(t, 10, multi)
}

func TestScorePhoneAndEmail(t *testing.T) {
	s := newScorer(t)

	exact := s.Score("Contact at (217) 555-0199", model.SearchContext{Name: "Zz Qq", Phone: "217-555-0199"})
	// 25 exact phone + 5 phone shape bonus.
	assert.Equal(t, 30, exact)

	area := s.Score("Contact at (217) 555-8888", model.SearchContext{Name: "Zz Qq", Phone: "217-555-0199"})
	// 10 area-code-only + 5 phone shape bonus.
	assert.Equal(t, 15, area)

	email := s.Score("reach jsmith@smithlaw.com", model.SearchContext{Name: "Zz Qq", Email: "jsmith@smithlaw.com"})
	assert.Equal(t, 20, email)
}

func TestStructuralBonuses(t *testing.T) {
	s := newScorer(t)
	ctx := model.SearchContext{Name: "Zz Qq"}

	addr := s.Score("seen at 42 Oak Street yesterday", ctx)
	assert.Equal(t, 5, addr, "address shape earns a bonus independent of context")

	age := s.Score("subject, age 44, no further details", ctx)
	assert.Equal(t, 5, age)
}

func TestSourceTiers(t *testing.T) {
	s := newScorer(t)

	assert.Equal(t, 15, s.SourceBonus("https://www.whitepages.com/name/john-smith"))
	assert.Equal(t, 10, s.SourceBonus("https://facebook.com/jsmith"))
	assert.Equal(t, 8, s.SourceBonus("https://courts.illinois.gov/records"))
	assert.Equal(t, 5, s.SourceBonus("https://ancestry.com/tree"))
	assert.Equal(t, 0, s.SourceBonus("https://example.com"))

	// First tier wins; bonuses never stack.
	assert.Equal(t, 15, s.SourceBonus("https://whitepages.com/share-to-facebook"))
}

func TestScoreResult(t *testing.T) {
	s := newScorer(t)
	ctx := model.SearchContext{Name: "John Smith", City: "Springfield", State: "IL"}

	result := model.NewSearchResult(
		"John Smith - Springfield, IL",
		"John Smith, age 34, phone (217) 555-0199",
		"https://www.whitepages.com/name/john-smith",
		"whitepages", "John Smith Springfield IL")

	score := s.ScoreResult(result, ctx)
	assert.Greater(t, score, 80, "dense matching result scores high")
	assert.LessOrEqual(t, score, 100)
}

func TestScoreClamped(t *testing.T) {
	s := newScorer(t)
	ctx := model.SearchContext{
		Name:  "John Jacob Jingleheimer Smith",
		City:  "Springfield",
		State: "IL",
		Phone: "217-555-0199",
		Email: "j@smithlaw.com",
	}
	snippet := "John Jacob Jingleheimer Smith of Springfield IL, age 34, " +
		"lives at 123 Main Street, phone (217) 555-0199, email j@smithlaw.com"

	score := s.Score(snippet, ctx)
	assert.Equal(t, 100, score, "saturating input clamps to 100")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(DefaultConfig()))

	bad := DefaultConfig()
	bad.CityWeight = -1
	assert.Error(t, Validate(bad))

	bad = DefaultConfig()
	bad.SourceTiers = []SourceTier{{Name: "empty", Bonus: 5}}
	assert.Error(t, Validate(bad))
}
