package mining

import (
	"strings"
	"unicode/utf8"

	"github.com/shelfmind/shelfmind-server/internal/domain"
)

// curatedVocab is the hand-picked review vocabulary that is always
// worth keeping when readers use it, regardless of lexical class.
var curatedVocab = []string{
	"atmosphere", "characterization", "cliffhanger", "dystopia",
	"foreshadowing", "heartbreaking", "pacing", "plot", "prose",
	"satire", "slow-burn", "suspense", "tearjerker", "twist",
	"unreliable", "worldbuilding", "wholesome", "bleak", "cozy",
	"gritty", "lyrical", "melancholy", "thought-provoking",
}

// curatedIdioms are multiword set phrases. The tokenizer splits these
// apart, so DetectIdioms finds them in the raw text instead.
var curatedIdioms = []string{
	"coming-of-age", "page-turner", "slice-of-life", "tour-de-force",
	"larger-than-life", "edge-of-your-seat",
}

// featureSuffixes mark nominalized descriptive terms ("bleakness",
// "characterization") that behave like review features.
var featureSuffixes = []string{
	"tion", "sion", "ment", "ness", "ship", "ism", "ity", "logy", "hood",
}

// Classifier decides which mined terms are worth keeping as keywords.
type Classifier struct {
	curated map[string]struct{}
	idioms  map[string]struct{}
}

// NewClassifier creates a classifier with the built-in vocabularies.
func NewClassifier() *Classifier {
	c := &Classifier{
		curated: make(map[string]struct{}, len(curatedVocab)),
		idioms:  make(map[string]struct{}, len(curatedIdioms)),
	}
	for _, w := range curatedVocab {
		c.curated[w] = struct{}{}
	}
	for _, w := range curatedIdioms {
		c.idioms[w] = struct{}{}
	}
	return c
}

// Tag assigns a lexical class to a term. capitalized means every
// occurrence in the source text had an upper-case initial.
func (c *Classifier) Tag(term string, capitalized bool) domain.WordClass {
	if _, ok := c.idioms[term]; ok {
		return domain.ClassIdiom
	}
	if capitalized {
		return domain.ClassProperNoun
	}
	for _, suffix := range featureSuffixes {
		if strings.HasSuffix(term, suffix) && utf8.RuneCountInString(term) > len(suffix)+1 {
			return domain.ClassFeature
		}
	}
	if _, ok := c.curated[term]; ok {
		return domain.ClassFeature
	}
	return domain.ClassCommonNoun
}

// DetectIdioms finds curated set phrases in raw comment text, one
// entry per occurrence, normalized to the hyphenated form. Both
// hyphenated and space-separated spellings count.
func (c *Classifier) DetectIdioms(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for idiom := range c.idioms {
		n := strings.Count(lower, idiom)
		n += strings.Count(lower, strings.ReplaceAll(idiom, "-", " "))
		for range n {
			found = append(found, idiom)
		}
	}
	return found
}

// Accept applies the keep rules in order. The order matters: curated
// vocabulary wins before class-based rules, and the weight floor
// rejects noise before anything else is considered.
func (c *Classifier) Accept(term string, weight float64, class domain.WordClass) bool {
	length := utf8.RuneCountInString(term)

	if length < 2 {
		return false
	}
	if weight < 0.01 {
		return false
	}
	if _, ok := c.curated[term]; ok {
		return true
	}
	// Every class Tag assigns is a feature-bearing one, so past the
	// curated list the three-rune floor is what decides.
	if length >= 3 {
		return true
	}
	if class == domain.ClassProperNoun || class == domain.ClassIdiom {
		return true
	}
	if class == domain.ClassCommonNoun && weight > 0.05 {
		return true
	}
	return false
}
