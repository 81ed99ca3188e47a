package extract

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracewell/skiptrace/internal/geo"
	"github.com/tracewell/skiptrace/internal/model"
)

func newExtractor(t *testing.T) *Extractor {
	t.Helper()
	table, err := geo.Load("")
	require.NoError(t, err)
	return New(table)
}

func byType(entities []model.Entity, typ model.EntityType) []model.Entity {
	var out []model.Entity
	for _, e := range entities {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func TestExtractEmptyInput(t *testing.T) {
	x := newExtractor(t)
	assert.Empty(t, x.Extract("", model.SearchContext{Name: "John Smith"}, Options{}))
	assert.Empty(t, x.Extract("   \n\t ", model.SearchContext{Name: "John Smith"}, Options{}))
}

func TestExtractPhones(t *testing.T) {
	x := newExtractor(t)
	ctx := model.SearchContext{Name: "John Smith"}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"parenthesized", "Call (217) 555-0199 today", "(217) 555-0199"},
		{"dashed", "Call 217-555-0199 today", "(217) 555-0199"},
		{"dotted", "Call 217.555.0199 today", "(217) 555-0199"},
		{"bare digits", "Call 2175550199 today", "(217) 555-0199"},
		{"country code", "Call +1 217 555 0199 today", "(217) 555-0199"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phones := byType(x.Extract(tt.text, ctx, Options{}), model.EntityPhone)
			require.Len(t, phones, 1)
			assert.Equal(t, tt.want, phones[0].Value)
			assert.Equal(t, "217", phones[0].Metadata["area_code"])
			assert.Equal(t, "IL", phones[0].Metadata["state"])
		})
	}
}

func TestExtractPhoneRepeatsCollapsed(t *testing.T) {
	x := newExtractor(t)
	text := "Phone: (217) 555-0199. Also reachable at 217-555-0199 and 217.555.0199."

	phones := byType(x.Extract(text, model.SearchContext{Name: "A B"}, Options{}), model.EntityPhone)
	assert.Len(t, phones, 1, "exact-digit repeats collapse within one call")
}

func TestExtractAgeBounds(t *testing.T) {
	x := newExtractor(t)
	ctx := model.SearchContext{Name: "John Smith"}

	ages := byType(x.Extract("John Smith, age 150, was not found.", ctx, Options{}), model.EntityAge)
	assert.Empty(t, ages, "out-of-range ages are silently dropped")

	ages = byType(x.Extract("John Smith, age 42, was found.", ctx, Options{}), model.EntityAge)
	require.Len(t, ages, 1)
	assert.Equal(t, "42", ages[0].Value)
	assert.Equal(t, 85, ages[0].Confidence)

	ages = byType(x.Extract("Subject is 42 years old, age 42.", ctx, Options{}), model.EntityAge)
	assert.Len(t, ages, 1, "same age from two phrasings collapses")
}

func TestSSNMaskedGuard(t *testing.T) {
	x := newExtractor(t)
	ctx := model.SearchContext{Name: "John Smith"}

	ssns := byType(x.Extract("SSN on file: 123-45-6789.", ctx, Options{}), model.EntitySSNMasked)
	assert.Empty(t, ssns, "bare full SSNs must never be extracted")

	ssns = byType(x.Extract("SSN: ***-**-6789", ctx, Options{}), model.EntitySSNMasked)
	require.Len(t, ssns, 1)
	assert.Equal(t, "***-**-6789", ssns[0].Value)

	ssns = byType(x.Extract("SSN XXX-XX-6789 per court record", ctx, Options{}), model.EntitySSNMasked)
	require.Len(t, ssns, 1)
	assert.Equal(t, "***-**-6789", ssns[0].Value, "X-masked form normalizes to the canonical mask")
}

func TestVINAndPlateConfidence(t *testing.T) {
	x := newExtractor(t)
	ctx := model.SearchContext{Name: "John Smith"}

	vins := byType(x.Extract("Registered VIN 1HGBH41JXMN109186 in 2020.", ctx, Options{}), model.EntityVIN)
	require.Len(t, vins, 1)
	assert.Equal(t, "1HGBH41JXMN109186", vins[0].Value)
	assert.Equal(t, 95, vins[0].Confidence)

	plates := byType(x.Extract("License plate: ABC 1234 registered in IL.", ctx, Options{}), model.EntityVehicle)
	require.Len(t, plates, 1)
	assert.Equal(t, "ABC 1234", plates[0].Value)
	assert.Equal(t, 70, plates[0].Confidence)
}

func TestSubjectNameExcluded(t *testing.T) {
	x := newExtractor(t)
	ctx := model.SearchContext{Name: "John Smith"}

	entities := x.Extract("John Smith lives with Jane Smith.", ctx, Options{})

	names := byType(entities, model.EntityName)
	require.Len(t, names, 1)
	assert.Equal(t, "Jane Smith", names[0].Value)

	// Case-insensitive exclusion.
	entities = x.Extract("JOHN SMITH and john smith mention", model.SearchContext{Name: "John Smith"}, Options{})
	for _, e := range byType(entities, model.EntityName) {
		assert.NotEqual(t, "john smith", e.Value)
	}
}

func TestLabelCaptures(t *testing.T) {
	x := newExtractor(t)
	ctx := model.SearchContext{Name: "John Smith"}

	text := "Works at Acme Staffing Group. Graduated from Lincoln Land Community College. " +
		"Arrested for driving under suspension. Brother: David Smith."
	entities := x.Extract(text, ctx, Options{})

	emp := byType(entities, model.EntityEmployment)
	require.Len(t, emp, 1)
	assert.Equal(t, "Acme Staffing Group", emp[0].Value)
	assert.Equal(t, 65, emp[0].Confidence)

	edu := byType(entities, model.EntityEducation)
	require.Len(t, edu, 1)
	assert.Equal(t, "Lincoln Land Community College", edu[0].Value)

	legal := byType(entities, model.EntityLegal)
	require.Len(t, legal, 1)
	assert.Equal(t, "driving under suspension", legal[0].Value)

	rel := byType(entities, model.EntityRelative)
	require.Len(t, rel, 1)
	assert.Equal(t, "David Smith", rel[0].Value)
	assert.Equal(t, 70, rel[0].Confidence)
}

func TestCaptureLengthBounds(t *testing.T) {
	x := newExtractor(t)
	ctx := model.SearchContext{Name: "John Smith"}

	entities := x.Extract("Works at AB.", ctx, Options{})
	assert.Empty(t, byType(entities, model.EntityEmployment), "captures under 3 chars are noise")
}

func TestExtractOrderingAndCap(t *testing.T) {
	x := newExtractor(t)
	ctx := model.SearchContext{Name: "John Smith", City: "Springfield", State: "IL"}
	text := "John Smith, age 34, lives at 123 Main St, Springfield, IL 62701. " +
		"Phone: (217) 555-0199. Email jsmith@smithlaw.com. Related to Jane Smith."

	all := x.Extract(text, ctx, Options{})
	require.Greater(t, len(all), InteractiveCap)

	// Sorted by descending confidence, stable.
	sorted := sort.SliceIsSorted(all, func(i, j int) bool {
		return all[i].Confidence > all[j].Confidence
	})
	if !sorted {
		for i := 1; i < len(all); i++ {
			assert.GreaterOrEqual(t, all[i-1].Confidence, all[i].Confidence)
		}
	}

	capped := x.Extract(text, ctx, Options{MaxEntities: InteractiveCap})
	require.Len(t, capped, InteractiveCap)
	for i, e := range capped {
		assert.Equal(t, all[i].Type, e.Type, "cap takes the top-N of the same ordering")
		assert.Equal(t, all[i].Value, e.Value)
		assert.Equal(t, all[i].Confidence, e.Confidence)
	}
}

func TestEndToEndScenario(t *testing.T) {
	x := newExtractor(t)
	ctx := model.SearchContext{Name: "John Smith", City: "Springfield", State: "IL"}
	text := "John Smith, age 34, lives at 123 Main St, Springfield, IL 62701. " +
		"Phone: (217) 555-0199. Related to Jane Smith."

	entities := x.Extract(text, ctx, Options{})

	ages := byType(entities, model.EntityAge)
	require.Len(t, ages, 1)
	assert.Equal(t, "34", ages[0].Value)

	addrs := byType(entities, model.EntityAddress)
	require.NotEmpty(t, addrs)
	assert.Contains(t, addrs[0].Value, "123 Main St")

	phones := byType(entities, model.EntityPhone)
	require.Len(t, phones, 1)
	assert.Equal(t, "(217) 555-0199", phones[0].Value)
	// 50 base + 10 shape + 10 known area code + 20 city correlation + 5 non-toll-free.
	assert.Equal(t, 95, phones[0].Confidence, "area-code/city correlation boosts the phone score")
	assert.Equal(t, "Central Illinois", phones[0].Metadata["region"])

	rels := byType(entities, model.EntityRelative)
	require.Len(t, rels, 1)
	assert.Equal(t, "Jane Smith", rels[0].Value)

	for _, e := range entities {
		assert.NotEqual(t, "John Smith", e.Value, "the query itself is never a finding")
		assert.GreaterOrEqual(t, e.Confidence, 0)
		assert.LessOrEqual(t, e.Confidence, 100)
	}
}

func TestExtractEmailsAndMoney(t *testing.T) {
	x := newExtractor(t)
	ctx := model.SearchContext{Name: "John Smith", Email: "jsmith@smithlaw.com"}

	entities := x.Extract("Contact jsmith@smithlaw.com. Salary listed as $85,000 per year; owes $1,200.", ctx, Options{})

	emails := byType(entities, model.EntityEmail)
	require.Len(t, emails, 1)
	assert.Equal(t, 100, emails[0].Confidence, "exact match on a custom domain maxes out")

	salaries := byType(entities, model.EntitySalary)
	require.Len(t, salaries, 1)
	assert.Equal(t, "$85,000 per year", salaries[0].Value)

	fin := byType(entities, model.EntityFinancial)
	require.Len(t, fin, 1)
	assert.Equal(t, "$1,200", fin[0].Value)
}

func TestExtractDates(t *testing.T) {
	x := newExtractor(t)
	ctx := model.SearchContext{Name: "John Smith"}

	entities := x.Extract("Born on 3/14/1990, last seen Jan 5, 2024.", ctx, Options{})
	dates := byType(entities, model.EntityDate)

	values := make([]string, 0, len(dates))
	for _, d := range dates {
		values = append(values, d.Value)
	}
	assert.Contains(t, values, "3/14/1990")
	assert.Contains(t, values, "Jan 5, 2024")
}
