package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngagementAverageRating(t *testing.T) {
	tests := []struct {
		name     string
		ratings  []int
		expected float64
	}{
		{"no ratings", nil, 0},
		{"single rating", []int{5}, 5},
		{"mixed ratings", []int{5, 3, 4}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Engagement{Ratings: tt.ratings}
			assert.InDelta(t, tt.expected, e.AverageRating(), 1e-9)
		})
	}
}

func TestEngagementHighRatingCount(t *testing.T) {
	e := Engagement{Ratings: []int{5, 4, 3, 2, 4}}
	assert.Equal(t, 3, e.HighRatingCount())
}

func TestEngagementLikeRatio(t *testing.T) {
	assert.Zero(t, Engagement{}.LikeRatio())
	e := Engagement{Ratings: []int{5, 5, 4, 1}, TotalComments: 4}
	assert.InDelta(t, 0.75, e.LikeRatio(), 1e-9)
}

func TestEngagementPopularity(t *testing.T) {
	// Zero comments means zero popularity regardless of ratings.
	assert.Zero(t, Engagement{Ratings: []int{5}}.Popularity())

	// All-favorable ratings double the damped volume.
	e := Engagement{TotalComments: 3, Ratings: []int{5, 5, 5}}
	assert.InDelta(t, math.Log1p(3)*2, e.Popularity(), 1e-9)

	e = Engagement{TotalComments: 99, Ratings: makeRatings(99, 50)}
	expected := math.Log1p(99) * (1 + 50.0/99)
	assert.InDelta(t, expected, e.Popularity(), 1e-9)
}

// makeRatings builds total ratings of which favorable are fives and
// the rest twos.
func makeRatings(total, favorable int) []int {
	ratings := make([]int, total)
	for i := range ratings {
		if i < favorable {
			ratings[i] = 5
		} else {
			ratings[i] = 2
		}
	}
	return ratings
}

func TestEngagementStats(t *testing.T) {
	e := Engagement{Ratings: []int{5, 4, 2}, TotalComments: 3}
	stats := e.Stats()
	assert.Equal(t, 3, stats.TotalComments)
	assert.Equal(t, 2, stats.LikeCount)
	assert.InDelta(t, 2.0/3, stats.LikeRatio, 1e-9)
	assert.InDelta(t, 11.0/3, stats.AvgRating, 1e-9)
}

func TestCommentHighRating(t *testing.T) {
	assert.True(t, Comment{Text: "loved it", Rating: 4}.HighRating())
	assert.False(t, Comment{Text: "meh", Rating: 3}.HighRating())
	assert.False(t, Comment{Text: "unrated"}.HighRating())
}

func TestRelationTypeReciprocal(t *testing.T) {
	tests := []struct {
		rel      RelationType
		expected RelationType
	}{
		{RelWrittenBy, RelWrite},
		{RelWrite, RelWrittenBy},
		{RelPublishedBy, RelPublish},
		{RelTranslatedBy, RelTranslate},
		{RelBelongsTo, RelContains},
		{RelContains, RelBelongsTo},
		{RelationType("bogus"), RelationType("")},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.rel.Reciprocal(), "reciprocal of %s", tt.rel)
	}
}

func TestStrategyIsValid(t *testing.T) {
	assert.True(t, StrategyMixed.IsValid())
	assert.True(t, StrategyKGOnly.IsValid())
	assert.True(t, StrategyKeywordOnly.IsValid())
	assert.False(t, Strategy("hybrid").IsValid())
}

func TestRelationKindIsValid(t *testing.T) {
	for _, kind := range AllRelationKinds() {
		assert.True(t, kind.IsValid())
	}
	assert.False(t, RelationKind("narrator").IsValid())
}

func TestBookKeywordsLookup(t *testing.T) {
	b := BookKeywords{
		BookID: "book_1",
		Keywords: []Keyword{
			{Word: "wilderness", Weight: 0.4, Class: ClassCommonNoun},
			{Word: "alaska", Weight: 0.2, Class: ClassProperNoun},
		},
	}

	assert.True(t, b.Has("alaska"))
	assert.False(t, b.Has("ocean"))
	assert.InDelta(t, 0.4, b.Weight("wilderness"), 1e-9)
	assert.Zero(t, b.Weight("ocean"))
	assert.Equal(t, []string{"wilderness"}, b.TopWords(1))
	assert.Equal(t, []string{"wilderness", "alaska"}, b.TopWords(10))
}
