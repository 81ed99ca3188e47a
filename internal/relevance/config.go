// Package relevance scores a search result against the original search
// parameters using keyword weighting, structural pattern detection, and
// source-domain credibility tiers.
package relevance

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// SourceTier maps domain keywords to a credibility bonus. Tiers are
// evaluated in order and the first match wins; bonuses never stack.
type SourceTier struct {
	Name     string   `yaml:"name" mapstructure:"name"`
	Keywords []string `yaml:"keywords" mapstructure:"keywords"`
	Bonus    int      `yaml:"bonus" mapstructure:"bonus"`
}

// Config holds the relevance scoring weights. All weights are data, not
// inline constants, so deployments can retune them without code changes.
type Config struct {
	NameTokenWeight  int `yaml:"name_token_weight" mapstructure:"name_token_weight"`
	StemWeight       int `yaml:"stem_weight" mapstructure:"stem_weight"`
	CityWeight       int `yaml:"city_weight" mapstructure:"city_weight"`
	StateWeight      int `yaml:"state_weight" mapstructure:"state_weight"`
	ProximityWeight  int `yaml:"proximity_weight" mapstructure:"proximity_weight"`
	PhoneExactWeight int `yaml:"phone_exact_weight" mapstructure:"phone_exact_weight"`
	PhoneAreaWeight  int `yaml:"phone_area_weight" mapstructure:"phone_area_weight"`
	EmailWeight      int `yaml:"email_weight" mapstructure:"email_weight"`
	PatternBonus     int `yaml:"pattern_bonus" mapstructure:"pattern_bonus"`

	SourceTiers []SourceTier `yaml:"source_tiers" mapstructure:"source_tiers"`
}

// DefaultConfig returns the scoring weights tuned for people-search
// snippets.
func DefaultConfig() Config {
	return Config{
		NameTokenWeight:  25,
		StemWeight:       10,
		CityWeight:       15,
		StateWeight:      10,
		ProximityWeight:  10,
		PhoneExactWeight: 25,
		PhoneAreaWeight:  10,
		EmailWeight:      20,
		PatternBonus:     5,
		SourceTiers: []SourceTier{
			{
				Name:     "people_search",
				Keywords: []string{"whitepages", "spokeo", "beenverified", "truepeoplesearch", "peoplefinder", "intelius", "radaris"},
				Bonus:    15,
			},
			{
				Name:     "social",
				Keywords: []string{"facebook", "linkedin", "twitter", "instagram", "tiktok"},
				Bonus:    10,
			},
			{
				Name:     "government_education",
				Keywords: []string{".gov", ".edu", "courts", "county", "clerk"},
				Bonus:    8,
			},
			{
				Name:     "genealogy",
				Keywords: []string{"ancestry", "familysearch", "findagrave", "genealogy"},
				Bonus:    5,
			},
		},
	}
}

// Validate checks that a Config is internally consistent.
func Validate(c Config) error {
	var errs []string

	weights := map[string]int{
		"name_token_weight":  c.NameTokenWeight,
		"stem_weight":        c.StemWeight,
		"city_weight":        c.CityWeight,
		"state_weight":       c.StateWeight,
		"proximity_weight":   c.ProximityWeight,
		"phone_exact_weight": c.PhoneExactWeight,
		"phone_area_weight":  c.PhoneAreaWeight,
		"email_weight":       c.EmailWeight,
		"pattern_bonus":      c.PatternBonus,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	for _, tier := range c.SourceTiers {
		if tier.Bonus < 0 {
			errs = append(errs, fmt.Sprintf("source tier %q bonus must be >= 0", tier.Name))
		}
		if len(tier.Keywords) == 0 {
			errs = append(errs, fmt.Sprintf("source tier %q has no keywords", tier.Name))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("relevance: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
