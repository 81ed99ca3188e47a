// Package extract turns raw text blobs (titles, snippets, scraped HTML)
// into typed entities using a regex pattern library with per-type
// confidence heuristics. Extraction favors silent degradation: malformed
// or empty input yields an empty list, never an error.
package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tracewell/skiptrace/internal/confidence"
	"github.com/tracewell/skiptrace/internal/geo"
	"github.com/tracewell/skiptrace/internal/model"
)

// Bounds for label-prefixed free-text captures (employer names, degrees,
// charges). Shorter or longer captures are noise and silently dropped.
const (
	minCaptureLen = 3
	maxCaptureLen = 99
)

// Age values outside this range are silently dropped.
const (
	minAge = 1
	maxAge = 120
)

// Options controls a single extraction call.
type Options struct {
	// MaxEntities caps the returned entity count (top-N by confidence).
	// Zero means uncapped. The interactive search path caps at 5; the
	// comprehensive/batch path runs uncapped.
	MaxEntities int
	// Source is the provenance tag stamped on each entity. Defaults to
	// "extractor".
	Source string
}

// InteractiveCap is the default per-call entity cap for the interactive
// search path.
const InteractiveCap = 5

// Extractor scans text for entities. Safe for concurrent use.
type Extractor struct {
	calc *confidence.Calculator
}

// New creates an Extractor backed by the given geographic reference tables.
func New(table *geo.Table) *Extractor {
	return &Extractor{calc: confidence.NewCalculator(table)}
}

// Extract scans text against every pattern in the library and returns the
// candidate entities sorted by descending confidence (stable: ties keep
// discovery order), capped per Options.
func (x *Extractor) Extract(text string, ctx model.SearchContext, opts Options) []model.Entity {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	source := opts.Source
	if source == "" {
		source = "extractor"
	}

	var entities []model.Entity
	entities = append(entities, x.phones(text, ctx, source)...)
	entities = append(entities, x.emails(text, ctx, source)...)
	entities = append(entities, x.addresses(text, ctx, source)...)
	entities = append(entities, x.maskedSSNs(text, source)...)
	entities = append(entities, x.ages(text, source)...)
	entities = append(entities, x.dates(text, source)...)
	entities = append(entities, x.labelCaptures(text, ctx, source)...)
	entities = append(entities, x.vehicles(text, source)...)
	entities = append(entities, x.socials(text, source)...)
	entities = append(entities, x.money(text, source)...)
	entities = append(entities, x.names(text, ctx, source)...)

	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Confidence > entities[j].Confidence
	})

	if opts.MaxEntities > 0 && len(entities) > opts.MaxEntities {
		entities = entities[:opts.MaxEntities]
	}
	return entities
}

func (x *Extractor) phones(text string, ctx model.SearchContext, source string) []model.Entity {
	var out []model.Entity
	seen := make(map[string]struct{})

	for _, m := range phoneRE.FindAllStringSubmatch(text, -1) {
		digits := m[1] + m[2] + m[3]
		if _, dup := seen[digits]; dup {
			continue
		}
		// Area codes starting with 0 or 1 are not dialable numbers;
		// these matches are usually dates or IDs.
		if digits[0] == '0' || digits[0] == '1' {
			continue
		}
		seen[digits] = struct{}{}

		score, region, known := x.calc.Phone(digits, ctx)
		value := fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
		e := model.NewEntity(model.EntityPhone, value, score, source).
			WithMeta("pattern", "phone").
			WithMeta("area_code", digits[:3])
		if known {
			e = e.WithMeta("region", region.Region).WithMeta("state", region.State)
		}
		out = append(out, e)
	}
	return out
}

func (x *Extractor) emails(text string, ctx model.SearchContext, source string) []model.Entity {
	var out []model.Entity
	seen := make(map[string]struct{})

	for _, m := range emailRE.FindAllString(text, -1) {
		key := strings.ToLower(m)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		out = append(out, model.NewEntity(model.EntityEmail, m, x.calc.Email(m, ctx), source).
			WithMeta("pattern", "email"))
	}
	return out
}

func (x *Extractor) addresses(text string, ctx model.SearchContext, source string) []model.Entity {
	var out []model.Entity
	seen := make(map[string]struct{})

	for _, m := range streetAddressRE.FindAllStringSubmatch(text, -1) {
		value := strings.Trim(strings.TrimSpace(m[0]), ",")
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}

		state, zip := m[3], m[4]
		score := x.calc.Address(value, m[1] != "", m[2] != "", zip != "", state, ctx)
		e := model.NewEntity(model.EntityAddress, value, score, source).
			WithMeta("pattern", "street_address")
		if state != "" {
			e = e.WithMeta("state", state)
		}
		out = append(out, e)
	}

	for _, m := range poBoxRE.FindAllStringSubmatch(text, -1) {
		value := strings.Trim(strings.TrimSpace(m[0]), ",")
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}

		state, zip := m[1], m[2]
		score := x.calc.Address(value, true, false, zip != "", state, ctx)
		out = append(out, model.NewEntity(model.EntityAddress, value, score, source).
			WithMeta("pattern", "po_box"))
	}
	return out
}

// maskedSSNs extracts masked/partial SSNs only. Bare nine-digit SSNs are
// never extracted: leaking a full SSN out of scraped text is worse than
// missing it.
func (x *Extractor) maskedSSNs(text, source string) []model.Entity {
	var out []model.Entity
	seen := make(map[string]struct{})

	for _, m := range ssnMaskedRE.FindAllStringSubmatch(text, -1) {
		value := "***-**-" + m[1]
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}

		out = append(out, model.NewEntity(model.EntitySSNMasked, value, confidence.BaseFor(model.EntitySSNMasked), source).
			WithMeta("pattern", "ssn_masked"))
	}
	return out
}

func (x *Extractor) ages(text, source string) []model.Entity {
	var out []model.Entity
	seen := make(map[string]struct{})

	collect := func(matches [][]string, pattern string) {
		for _, m := range matches {
			n, err := strconv.Atoi(m[1])
			if err != nil || n < minAge || n > maxAge {
				continue
			}
			value := strconv.Itoa(n)
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}

			out = append(out, model.NewEntity(model.EntityAge, value, confidence.BaseFor(model.EntityAge), source).
				WithMeta("pattern", pattern))
		}
	}

	collect(ageLabelRE.FindAllStringSubmatch(text, -1), "age_label")
	collect(ageYearsRE.FindAllStringSubmatch(text, -1), "years_old")
	return out
}

func (x *Extractor) dates(text, source string) []model.Entity {
	var out []model.Entity
	seen := make(map[string]struct{})

	add := func(value, pattern string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		if _, dup := seen[value]; dup {
			return
		}
		seen[value] = struct{}{}
		out = append(out, model.NewEntity(model.EntityDate, value, confidence.BaseFor(model.EntityDate), source).
			WithMeta("pattern", pattern))
	}

	for _, m := range dateNumericRE.FindAllString(text, -1) {
		add(m, "date_numeric")
	}
	for _, m := range dateWrittenRE.FindAllString(text, -1) {
		add(m, "date_written")
	}
	for _, m := range bornRE.FindAllStringSubmatch(text, -1) {
		add(m[1], "born")
	}
	return out
}

// labelCaptures handles the label-prefixed free-text types: relatives,
// associates, employment, education, legal. Captures outside the 3-99
// character bound are dropped, and the search subject's own name is never
// emitted as a relative or associate.
func (x *Extractor) labelCaptures(text string, ctx model.SearchContext, source string) []model.Entity {
	var out []model.Entity

	type capture struct {
		re      *regexp.Regexp
		typ     model.EntityType
		pattern string
	}
	captures := []capture{
		{relativeRE, model.EntityRelative, "relationship"},
		{associateRE, model.EntityAssociate, "association"},
		{employmentRE, model.EntityEmployment, "employment"},
		{educationRE, model.EntityEducation, "education"},
		{legalRE, model.EntityLegal, "legal"},
	}

	for _, c := range captures {
		seen := make(map[string]struct{})
		for _, m := range c.re.FindAllStringSubmatch(text, -1) {
			value := strings.Trim(strings.TrimSpace(m[1]), ".,")
			if len(value) < minCaptureLen || len(value) > maxCaptureLen {
				continue
			}
			if (c.typ == model.EntityRelative || c.typ == model.EntityAssociate) &&
				strings.EqualFold(value, strings.TrimSpace(ctx.Name)) {
				continue
			}
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}

			out = append(out, model.NewEntity(c.typ, value, confidence.BaseFor(c.typ), source).
				WithMeta("pattern", c.pattern))
		}
	}
	return out
}

func (x *Extractor) vehicles(text, source string) []model.Entity {
	var out []model.Entity
	seen := make(map[string]struct{})

	for _, m := range vinRE.FindAllString(text, -1) {
		// A plausible VIN mixes letters and digits; 17 uniform characters
		// are serial numbers or hashes.
		if !hasDigitRE.MatchString(m) || !hasLetterRE.MatchString(m) {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}

		out = append(out, model.NewEntity(model.EntityVIN, m, confidence.BaseFor(model.EntityVIN), source).
			WithMeta("pattern", "vin"))
	}

	for _, m := range plateRE.FindAllStringSubmatch(text, -1) {
		value := strings.ToUpper(strings.TrimSpace(m[1]))
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}

		out = append(out, model.NewEntity(model.EntityVehicle, value, confidence.BaseFor(model.EntityVehicle), source).
			WithMeta("pattern", "license_plate"))
	}
	return out
}

func (x *Extractor) socials(text, source string) []model.Entity {
	var out []model.Entity
	seen := make(map[string]struct{})

	add := func(value, pattern string) {
		key := strings.ToLower(value)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, model.NewEntity(model.EntitySocial, value, confidence.BaseFor(model.EntitySocial), source).
			WithMeta("pattern", pattern))
	}

	for _, m := range socialURLRE.FindAllString(text, -1) {
		add(m, "profile_url")
	}
	for _, m := range socialHandleRE.FindAllStringSubmatch(text, -1) {
		add("@"+m[1], "handle")
	}
	return out
}

func (x *Extractor) money(text, source string) []model.Entity {
	var out []model.Entity
	seen := make(map[string]struct{})

	for _, m := range moneyRE.FindAllString(text, -1) {
		value := strings.TrimSpace(m)
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}

		typ := model.EntityFinancial
		pattern := "money"
		if perYearRE.MatchString(value) {
			typ = model.EntitySalary
			pattern = "salary"
		}
		out = append(out, model.NewEntity(typ, value, confidence.BaseFor(typ), source).
			WithMeta("pattern", pattern))
	}
	return out
}

// names finds capitalized first-last pairs, excluding the search subject's
// own name so the query is never "discovered" as a finding.
func (x *Extractor) names(text string, ctx model.SearchContext, source string) []model.Entity {
	var out []model.Entity
	seen := make(map[string]struct{})
	subject := strings.TrimSpace(ctx.Name)

	for _, m := range namePairRE.FindAllStringSubmatch(text, -1) {
		value := m[1]
		if strings.EqualFold(value, subject) {
			continue
		}
		words := strings.Fields(strings.ToLower(value))
		if _, stop := nameStopwords[words[0]]; stop {
			continue
		}
		if _, suffix := streetSuffixWords[words[1]]; suffix {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}

		out = append(out, model.NewEntity(model.EntityName, value, confidence.BaseFor(model.EntityName), source).
			WithMeta("pattern", "name_pair"))
	}
	return out
}
