package mining

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shelfmind/shelfmind-server/internal/domain"
)

func TestClassifierTag(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		term        string
		capitalized bool
		expected    domain.WordClass
	}{
		{"page-turner", false, domain.ClassIdiom},
		{"krakauer", true, domain.ClassProperNoun},
		{"characterization", false, domain.ClassFeature},
		{"bleakness", false, domain.ClassFeature},
		{"cozy", false, domain.ClassFeature},
		{"wilderness", false, domain.ClassCommonNoun},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Tag(tt.term, tt.capitalized))
		})
	}
}

func TestClassifierAccept(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name     string
		term     string
		weight   float64
		class    domain.WordClass
		expected bool
	}{
		{"single rune rejected", "x", 1.0, domain.ClassProperNoun, false},
		{"weight floor rejects noise", "wilderness", 0.005, domain.ClassCommonNoun, false},
		{"curated vocab always kept", "plot", 0.02, domain.ClassCommonNoun, true},
		{"feature at three runes", "ity", 0.02, domain.ClassFeature, true},
		{"short feature rejected", "it", 0.02, domain.ClassFeature, false},
		{"proper noun any length", "bo", 0.02, domain.ClassProperNoun, true},
		{"idiom any length", "page-turner", 0.02, domain.ClassIdiom, true},
		{"mid-weight common noun kept", "mountain", 0.04, domain.ClassCommonNoun, true},
		{"short common noun needs weight", "ox", 0.04, domain.ClassCommonNoun, false},
		{"weighty short common noun kept", "ox", 0.06, domain.ClassCommonNoun, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Accept(tt.term, tt.weight, tt.class))
		})
	}
}

func TestClassifierDeterministic(t *testing.T) {
	c := NewClassifier()
	for range 10 {
		assert.Equal(t, domain.ClassFeature, c.Tag("characterization", false))
		assert.True(t, c.Accept("characterization", 0.5, domain.ClassFeature))
	}
}

func TestDetectIdioms(t *testing.T) {
	c := NewClassifier()

	found := c.DetectIdioms("A real Page-Turner, a coming of age story. Page-turner!")
	assert.ElementsMatch(t, []string{"page-turner", "page-turner", "coming-of-age"}, found)

	assert.Empty(t, c.DetectIdioms("nothing idiomatic here"))
}
