package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"identical", "kitten", "kitten", 0},
		{"classic", "kitten", "sitting", 3},
		{"empty left", "", "abc", 3},
		{"empty right", "abc", "", 3},
		{"both empty", "", "", 0},
		{"case sensitive", "ABC", "abc", 3},
		{"single substitution", "smith", "smyth", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
		})
	}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("", ""), "two empty strings are identical")
	assert.Equal(t, 1.0, Ratio("John Smith", "john smith"), "ratio is case-insensitive")
	assert.Equal(t, 0.0, Ratio("abc", "xyz"))

	// Symmetry over a few representative pairs.
	pairs := [][2]string{
		{"John Smith", "Jon Smith"},
		{"Springfield", "Springfeild"},
		{"", "nonempty"},
		{"a", "ab"},
	}
	for _, p := range pairs {
		assert.Equal(t, Ratio(p[0], p[1]), Ratio(p[1], p[0]), "ratio must be symmetric for %q/%q", p[0], p[1])
	}

	// Bounds.
	for _, p := range pairs {
		r := Ratio(p[0], p[1])
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, 1.0)
	}

	assert.Equal(t, 1.0, Ratio("self", "self"))
}

func TestAreSimilar(t *testing.T) {
	assert.True(t, AreSimilar("John Smith in Springfield", "John Smith in Springfield, IL", 0.8))
	assert.False(t, AreSimilar("John Smith", "Mary Jones", 0.8))
	assert.True(t, AreSimilar("anything", "anything", 1.0))
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase and punctuation", "John Smith, Jr.!", "john smith jr"},
		{"collapse whitespace", "  too   many\tspaces \n", "too many spaces"},
		{"diacritics folded", "José García", "jose garcia"},
		{"empty", "", ""},
		{"digits kept", "(217) 555-0199", "217 5550199"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}

func TestJaccard(t *testing.T) {
	assert.Equal(t, 1.0, Jaccard("john smith", "Smith John"), "word order is irrelevant")
	assert.Equal(t, 0.0, Jaccard("", ""), "empty union yields 0")
	assert.Equal(t, 0.0, Jaccard("apple", "orange"))
	assert.InDelta(t, 1.0/3.0, Jaccard("a b", "b c"), 1e-9)
}
