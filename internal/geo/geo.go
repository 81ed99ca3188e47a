// Package geo provides the static geographic reference tables used for
// confidence and relevance scoring: NANP area code lookups, state lookups,
// and per-state proximity term lists. Tables are immutable after load and
// are an enrichment input only, never authoritative proof of location.
package geo

import "strings"

// Region describes the geography behind an area code or state key.
type Region struct {
	State         string   `yaml:"state" json:"state"`
	StateName     string   `yaml:"state_name" json:"state_name"`
	Region        string   `yaml:"region" json:"region"`
	PrimaryCities []string `yaml:"primary_cities" json:"primary_cities"`
	Counties      []string `yaml:"counties" json:"counties"`
	Timezone      string   `yaml:"timezone" json:"timezone"`
}

// Table holds the loaded reference data. A missing key is "no boost
// available" for the scorers, never an error.
type Table struct {
	byAreaCode  map[string]Region
	byStateCode map[string]Region
	byStateName map[string]Region
	proximity   map[string][]string
	tollFree    map[string]struct{}
	premium     map[string]struct{}
}

// AreaCode returns the region for a 3-digit area code.
func (t *Table) AreaCode(code string) (Region, bool) {
	r, ok := t.byAreaCode[code]
	return r, ok
}

// State returns the region for a 2-letter state code or a full state name,
// case-insensitively.
func (t *Table) State(s string) (Region, bool) {
	s = strings.TrimSpace(s)
	if r, ok := t.byStateCode[strings.ToUpper(s)]; ok {
		return r, true
	}
	r, ok := t.byStateName[strings.ToLower(s)]
	return r, ok
}

// Proximity returns the proximity term list for a state code, or nil when
// no list is configured for that state.
func (t *Table) Proximity(state string) []string {
	return t.proximity[strings.ToUpper(strings.TrimSpace(state))]
}

// IsTollFree reports whether the area code is a toll-free prefix.
func (t *Table) IsTollFree(code string) bool {
	_, ok := t.tollFree[code]
	return ok
}

// IsPremium reports whether the area code is a premium-rate prefix.
func (t *Table) IsPremium(code string) bool {
	_, ok := t.premium[code]
	return ok
}

// CityInRegion reports whether the given city is one of the region's
// primary cities, case-insensitively.
func (r Region) CityInRegion(city string) bool {
	city = strings.TrimSpace(city)
	for _, c := range r.PrimaryCities {
		if strings.EqualFold(c, city) {
			return true
		}
	}
	return false
}
