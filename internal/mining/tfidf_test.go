package mining

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTFIDFRareTermsOutrankCommon(t *testing.T) {
	corpus := NewTFIDF()
	corpus.Add([]string{"plot", "twist", "pacing"})
	corpus.Add([]string{"plot", "prose"})
	corpus.Add([]string{"plot", "dragons"})

	scores := corpus.Scores([]string{"plot", "dragons"}, 0)
	require.Len(t, scores, 2)

	// "dragons" appears in one document, "plot" in every document.
	assert.Equal(t, "dragons", scores[0].Term)
	assert.Equal(t, "plot", scores[1].Term)
	assert.Greater(t, scores[0].Score, scores[1].Score)
}

func TestTFIDFTopK(t *testing.T) {
	corpus := NewTFIDF()
	corpus.Add([]string{"a1", "b2", "c3", "d4"})

	scores := corpus.Scores([]string{"a1", "b2", "c3", "d4"}, 2)
	assert.Len(t, scores, 2)
}

func TestTFIDFDeterministicTieBreak(t *testing.T) {
	corpus := NewTFIDF()
	corpus.Add([]string{"zebra", "apple"})

	// Equal frequency in both corpus and document: alphabetical order.
	scores := corpus.Scores([]string{"zebra", "apple"}, 0)
	require.Len(t, scores, 2)
	assert.Equal(t, "apple", scores[0].Term)
	assert.Equal(t, "zebra", scores[1].Term)
}

func TestTFIDFEmptyInputs(t *testing.T) {
	assert.Nil(t, NewTFIDF().Scores([]string{"plot"}, 0))

	corpus := NewTFIDF()
	corpus.Add([]string{"plot"})
	assert.Nil(t, corpus.Scores(nil, 0))
}

func TestTextRankCentralTermWins(t *testing.T) {
	// "plot" co-occurs with everything; the rest only with "plot".
	terms := []string{
		"plot", "twist", "plot", "pacing", "plot", "prose", "plot", "twist",
	}
	scores := TextRank(terms, 0)
	require.NotEmpty(t, scores)
	assert.Equal(t, "plot", scores[0].Term)
	assert.InDelta(t, 1.0, scores[0].Score, 1e-9, "top score is normalized to 1")
}

func TestTextRankDeterministic(t *testing.T) {
	terms := []string{"ember", "ash", "ember", "flame", "ash", "flame", "ember"}

	first := TextRank(terms, 0)
	for range 5 {
		assert.Equal(t, first, TextRank(terms, 0))
	}
}

func TestTextRankSingleTerm(t *testing.T) {
	scores := TextRank([]string{"lonely"}, 0)
	require.Len(t, scores, 1)
	assert.Equal(t, "lonely", scores[0].Term)
}

func TestTextRankEmpty(t *testing.T) {
	assert.Nil(t, TextRank(nil, 0))
}
