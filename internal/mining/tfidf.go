package mining

import (
	"math"
	"sort"
)

// Scored pairs a term with its extraction score.
type Scored struct {
	Term  string
	Score float64
}

// TFIDF holds corpus-wide document frequencies. Feed every document
// through Add before asking for Scores.
type TFIDF struct {
	df   map[string]int
	docs int
}

// NewTFIDF creates an empty corpus model.
func NewTFIDF() *TFIDF {
	return &TFIDF{df: make(map[string]int)}
}

// Add registers one document's terms in the corpus.
func (t *TFIDF) Add(terms []string) {
	t.docs++
	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		t.df[term]++
	}
}

// Scores ranks a document's terms by TF-IDF against the corpus,
// returning the topK highest. Ties break lexicographically so output
// is deterministic.
func (t *TFIDF) Scores(terms []string, topK int) []Scored {
	if len(terms) == 0 || t.docs == 0 {
		return nil
	}

	counts := make(map[string]int, len(terms))
	for _, term := range terms {
		counts[term]++
	}

	scored := make([]Scored, 0, len(counts))
	for term, count := range counts {
		tf := float64(count) / float64(len(terms))
		idf := math.Log(float64(t.docs+1)/float64(t.df[term]+1)) + 1
		scored = append(scored, Scored{Term: term, Score: tf * idf})
	}

	return topScored(scored, topK)
}

// topScored sorts by score descending, term ascending, and truncates.
func topScored(scored []Scored, topK int) []Scored {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Term < scored[j].Term
	})
	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}
