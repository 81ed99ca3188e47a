package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracewell/skiptrace/internal/geo"
	"github.com/tracewell/skiptrace/internal/model"
)

func newCalculator(t *testing.T) *Calculator {
	t.Helper()
	table, err := geo.Load("")
	require.NoError(t, err)
	return NewCalculator(table)
}

func TestPhoneScoring(t *testing.T) {
	calc := newCalculator(t)

	tests := []struct {
		name   string
		digits string
		ctx    model.SearchContext
		want   int
	}{
		{
			// 50 base + 10 shape + 10 known area + 5 non-toll-free.
			name:   "known area code, no context",
			digits: "2175550199",
			ctx:    model.SearchContext{},
			want:   75,
		},
		{
			// + 30 exact match + 20 city correlation = 125, clamped.
			name:   "exact context match with city correlation",
			digits: "2175550199",
			ctx:    model.SearchContext{Phone: "(217) 555-0199", City: "Springfield"},
			want:   100,
		},
		{
			// + 15 shared area code + 10 state correlation.
			name:   "area code only match with state correlation",
			digits: "2175550199",
			ctx:    model.SearchContext{Phone: "217-555-9999", State: "IL"},
			want:   100,
		},
		{
			// 50 base + 10 shape + 5 non-toll-free; unknown area code.
			name:   "unknown area code",
			digits: "9995550100",
			ctx:    model.SearchContext{},
			want:   65,
		},
		{
			// Toll-free: 50 base + 10 shape, no non-toll-free bonus, unknown region.
			name:   "toll free number",
			digits: "8005551234",
			ctx:    model.SearchContext{},
			want:   60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, _ := calc.Phone(tt.digits, tt.ctx)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPhoneRegionMetadata(t *testing.T) {
	calc := newCalculator(t)

	_, region, known := calc.Phone("2175550199", model.SearchContext{})
	require.True(t, known)
	assert.Equal(t, "IL", region.State)
	assert.Equal(t, "Central Illinois", region.Region)

	_, _, known = calc.Phone("9995550100", model.SearchContext{})
	assert.False(t, known, "unknown area code means no boost, not an error")
}

func TestAddressScoring(t *testing.T) {
	calc := newCalculator(t)

	full := calc.Address("123 Main St, Springfield, IL 62701", true, true, true, "IL",
		model.SearchContext{City: "Springfield", State: "IL"})
	partial := calc.Address("Main St", false, true, false, "", model.SearchContext{})

	assert.Greater(t, full, partial, "component-complete addresses outscore fragments")
	assert.LessOrEqual(t, full, 100)
	assert.Equal(t, 40, partial, "base 30 + suffix 10")
}

func TestEmailScoring(t *testing.T) {
	calc := newCalculator(t)

	tests := []struct {
		name  string
		email string
		ctx   model.SearchContext
		want  int
	}{
		{"common domain, no match", "jsmith@gmail.com", model.SearchContext{}, 60},
		{"custom domain", "jsmith@smithlaw.com", model.SearchContext{}, 70},
		{"exact context match", "jsmith@gmail.com", model.SearchContext{Email: "JSmith@Gmail.com"}, 90},
		{"exact match on custom domain", "jsmith@smithlaw.com", model.SearchContext{Email: "jsmith@smithlaw.com"}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.Email(tt.email, tt.ctx))
		})
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name         string
		original     int
		recalculated int
		want         int
	}{
		{"recalc higher", 60, 90, 69},
		{"recalc lower never drags below original", 80, 20, 80},
		{"floor", 0, 0, MinCombined},
		{"ceiling", 100, 100, MaxCombined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Combine(tt.original, tt.recalculated)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, MinCombined)
			assert.LessOrEqual(t, got, MaxCombined)
		})
	}
}

func TestBaseFor(t *testing.T) {
	assert.Equal(t, 95, BaseFor(model.EntityVIN))
	assert.Equal(t, 70, BaseFor(model.EntityVehicle))
	assert.Equal(t, 85, BaseFor(model.EntityAge))
	assert.Equal(t, 50, BaseFor(model.EntityType("unknown")))
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "2175550199", DigitsOnly("(217) 555-0199"))
	assert.Equal(t, "", DigitsOnly("no digits here"))
}
