package domain

// WordClass is the lexical category assigned to a candidate keyword.
type WordClass string

const (
	ClassCommonNoun WordClass = "common_noun"
	ClassProperNoun WordClass = "proper_noun"
	ClassIdiom      WordClass = "idiom"
	ClassFeature    WordClass = "feature"
)

// Keyword is one mined term for a book. Weight is the merged
// TF-IDF/TextRank score, normalized within the book.
type Keyword struct {
	Word   string    `json:"word"`
	Weight float64   `json:"weight"`
	Class  WordClass `json:"class"`
}

// BookKeywords is the mined keyword profile for a single book.
type BookKeywords struct {
	BookID   string    `json:"book_id"`
	Keywords []Keyword `json:"keywords"`
}

// Weight returns the weight of word in the profile, or 0 when absent.
func (b BookKeywords) Weight(word string) float64 {
	for _, k := range b.Keywords {
		if k.Word == word {
			return k.Weight
		}
	}
	return 0
}

// TopWords returns the first n keyword strings. The profile is already
// ordered by descending weight.
func (b BookKeywords) TopWords(n int) []string {
	if n > len(b.Keywords) {
		n = len(b.Keywords)
	}
	words := make([]string, n)
	for i := range n {
		words[i] = b.Keywords[i].Word
	}
	return words
}

// Has reports whether word is in the profile.
func (b BookKeywords) Has(word string) bool {
	for _, k := range b.Keywords {
		if k.Word == word {
			return true
		}
	}
	return false
}
