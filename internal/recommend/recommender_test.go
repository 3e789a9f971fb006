package recommend

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmind/shelfmind-server/internal/domain"
	"github.com/shelfmind/shelfmind-server/internal/errors"
	"github.com/shelfmind/shelfmind-server/internal/kg"
	"github.com/shelfmind/shelfmind-server/internal/logger"
)

func testLog() *logger.Logger {
	return logger.New(logger.Config{Writer: io.Discard, Environment: "development"})
}

// fixture: three Le Guin books (two in one series), one unrelated book.
func fixtureGraph() *kg.Graph {
	return kg.NewBuilder(testLog()).Build([]domain.BookRecord{
		{ID: "1", Title: "A Wizard of Earthsea", Author: "Ursula K. Le Guin", Publisher: "Parnassus", Series: "Earthsea"},
		{ID: "2", Title: "The Tombs of Atuan", Author: "Ursula K. Le Guin", Publisher: "Atheneum", Series: "Earthsea"},
		{ID: "3", Title: "The Dispossessed", Author: "Ursula K. Le Guin", Publisher: "Harper & Row"},
		{ID: "4", Title: "Neuromancer", Author: "William Gibson", Publisher: "Ace"},
	})
}

func fixtureKeywords() map[string]domain.BookKeywords {
	return map[string]domain.BookKeywords{
		kg.BookEntityID("1"): {
			BookID: kg.BookEntityID("1"),
			Keywords: []domain.Keyword{
				{Word: "wizardry", Weight: 0.9, Class: domain.ClassCommonNoun},
				{Word: "archipelago", Weight: 0.6, Class: domain.ClassCommonNoun},
				{Word: "balance", Weight: 0.5, Class: domain.ClassCommonNoun},
			},
		},
		kg.BookEntityID("4"): {
			BookID: kg.BookEntityID("4"),
			Keywords: []domain.Keyword{
				{Word: "wizardry", Weight: 0.8, Class: domain.ClassCommonNoun},
				{Word: "archipelago", Weight: 0.7, Class: domain.ClassCommonNoun},
				{Word: "balance", Weight: 0.4, Class: domain.ClassCommonNoun},
			},
		},
	}
}

func testRecommender() *Recommender {
	r := New(DefaultWeights(), testLog())
	r.Initialize(fixtureGraph(), fixtureKeywords())
	return r
}

func TestRecommendExcludesFavorites(t *testing.T) {
	r := testRecommender()

	recs, err := r.Recommend(domain.RecommendRequest{
		FavoriteBooks: []string{"A Wizard of Earthsea"},
		Strategy:      domain.StrategyMixed,
	})
	require.NoError(t, err)

	for _, rec := range recs {
		assert.NotEqual(t, "1", rec.BookID)
	}
}

func TestRecommendGraphOnlyScores(t *testing.T) {
	r := testRecommender()

	recs, err := r.Recommend(domain.RecommendRequest{
		FavoriteBooks: []string{"A Wizard of Earthsea"},
		Strategy:      domain.StrategyKGOnly,
	})
	require.NoError(t, err)
	require.Len(t, recs, 2, "Neuromancer shares nothing and is dropped")

	// Book 2: same series (0.4) plus same author (0.3).
	assert.Equal(t, "2", recs[0].BookID)
	assert.InDelta(t, 0.7, recs[0].Score, 1e-9, "no engagement data, so graph weights only")

	// Book 3: same author only.
	assert.Equal(t, "3", recs[1].BookID)
	assert.InDelta(t, 0.3, recs[1].Score, 1e-9)

	joined := strings.Join(recs[0].Reasons, " | ")
	assert.Contains(t, joined, "Earthsea series")
	assert.Contains(t, joined, "Ursula K. Le Guin")

	assert.Contains(t, recs[0].Explanation, `Recommending "The Tombs of Atuan"`)
	assert.Contains(t, recs[0].Explanation, "1. ")
}

func TestRecommendRelationFilter(t *testing.T) {
	r := testRecommender()

	recs, err := r.Recommend(domain.RecommendRequest{
		FavoriteBooks: []string{"A Wizard of Earthsea"},
		Strategy:      domain.StrategyKGOnly,
		Relations:     []domain.RelationKind{domain.RelationAuthor},
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// Series overlap is disabled, so book 2 scores on the author alone.
	assert.Equal(t, "2", recs[0].BookID)
	assert.InDelta(t, 0.3, recs[0].Score, 1e-9)
	for _, reason := range recs[0].Reasons {
		assert.NotContains(t, reason, "series")
	}
}

func TestRecommendFavoriteNameResolution(t *testing.T) {
	r := testRecommender()

	// Case-insensitive exact match and substring fallback both resolve.
	for _, name := range []string{"a wizard of EARTHSEA", "Tombs of Atuan"} {
		recs, err := r.Recommend(domain.RecommendRequest{
			FavoriteBooks: []string{name},
			Strategy:      domain.StrategyKGOnly,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, recs, "favorite %q should resolve", name)
	}
}

func TestRecommendNoFavoriteResolvesEmptyResult(t *testing.T) {
	r := testRecommender()

	recs, err := r.Recommend(domain.RecommendRequest{
		FavoriteBooks: []string{"An Unknown Manuscript"},
		Strategy:      domain.StrategyKGOnly,
	})
	require.NoError(t, err, "unresolvable favorites are not an error")
	assert.Empty(t, recs)
}

func TestRecommendGraphOnlyIgnoresKeywords(t *testing.T) {
	r := testRecommender()

	recs, err := r.Recommend(domain.RecommendRequest{
		FavoriteBooks:    []string{"A Wizard of Earthsea"},
		SelectedKeywords: []string{"wizardry", "archipelago", "balance"},
		Strategy:         domain.StrategyKGOnly,
	})
	require.NoError(t, err)

	// Book 4 matches every keyword but shares no relations.
	for _, rec := range recs {
		assert.NotEqual(t, "4", rec.BookID)
	}
}

func TestRecommendKeywordOnlySelected(t *testing.T) {
	r := testRecommender()

	recs, err := r.Recommend(domain.RecommendRequest{
		SelectedKeywords: []string{"wizardry", "archipelago", "balance"},
		Strategy:         domain.StrategyKeywordOnly,
	})
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	// Only books carrying the keywords can score.
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.BookID)
	}
	assert.ElementsMatch(t, []string{"1", "4"}, ids)

	// Without favorites every selected keyword carries the default
	// weight: three matches at 0.5 each.
	for _, rec := range recs {
		assert.InDelta(t, 1.5, rec.Score, 1e-9)
		// With three matches the keyword reason leads the list.
		require.NotEmpty(t, rec.Reasons)
		assert.Contains(t, rec.Reasons[0], "Matches keywords you like")
		assert.ElementsMatch(t, []string{"wizardry", "archipelago", "balance"}, rec.MatchedKeywords)
	}
}

func TestRecommendKeywordOnlyFromFavorites(t *testing.T) {
	r := testRecommender()

	recs, err := r.Recommend(domain.RecommendRequest{
		FavoriteBooks: []string{"A Wizard of Earthsea"},
		Strategy:      domain.StrategyKeywordOnly,
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	// Book 4 is the only other book carrying book 1's keywords; it
	// collects their aggregated preference weights.
	rec := recs[0]
	assert.Equal(t, "4", rec.BookID)
	assert.InDelta(t, 0.9+0.6+0.5, rec.Score, 1e-9)
	assert.Equal(t, []string{"wizardry", "archipelago", "balance"}, rec.MatchedKeywords)
	assert.Equal(t, []string{"wizardry", "archipelago", "balance"}, rec.Keywords)
}

func TestRecommendMixedDampsKeywordScore(t *testing.T) {
	r := testRecommender()

	keywordOnly, err := r.Recommend(domain.RecommendRequest{
		SelectedKeywords: []string{"wizardry", "archipelago", "balance"},
		Strategy:         domain.StrategyKeywordOnly,
	})
	require.NoError(t, err)

	mixed, err := r.Recommend(domain.RecommendRequest{
		SelectedKeywords: []string{"wizardry", "archipelago", "balance"},
		Strategy:         domain.StrategyMixed,
	})
	require.NoError(t, err)

	scoreOf := func(recs []domain.Recommendation, id string) float64 {
		for _, rec := range recs {
			if rec.BookID == id {
				return rec.Score
			}
		}
		t.Fatalf("book %s not recommended", id)
		return 0
	}

	// No favorites, so the mixed score is exactly the damped keyword score.
	assert.InDelta(t, scoreOf(keywordOnly, "4")*0.5, scoreOf(mixed, "4"), 1e-9)
}

func TestRecommendMixedAppendsKeywordReason(t *testing.T) {
	r := testRecommender()

	recs, err := r.Recommend(domain.RecommendRequest{
		FavoriteBooks:    []string{"A Wizard of Earthsea"},
		SelectedKeywords: []string{"wizardry", "archipelago", "balance"},
		Strategy:         domain.StrategyMixed,
	})
	require.NoError(t, err)

	for _, rec := range recs {
		if rec.BookID != "4" {
			continue
		}
		require.NotEmpty(t, rec.Reasons)
		// In mixed mode the keyword reason never leads graph reasons,
		// and book 4 has no graph reasons, so it is the only one.
		assert.Contains(t, rec.Reasons[0], "Matches keywords you like")
	}
}

func TestRecommendUnresolvedFavoritesShortCircuit(t *testing.T) {
	r := testRecommender()

	// Favorites that match nothing must not fall back onto the
	// selected keywords.
	recs, err := r.Recommend(domain.RecommendRequest{
		FavoriteBooks:    []string{"No Such Book Anywhere"},
		SelectedKeywords: []string{"wizardry", "archipelago", "balance"},
		Strategy:         domain.StrategyMixed,
	})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecommendKeywordReasonSamplesFive(t *testing.T) {
	log := testLog()
	g := kg.NewBuilder(log).Build([]domain.BookRecord{
		{ID: "1", Title: "Fav"},
		{ID: "2", Title: "Candidate"},
	})
	words := []string{"voyage", "harbor", "storm", "mutiny", "compass", "lagoon"}
	profile := func(id string, base float64) domain.BookKeywords {
		kws := make([]domain.Keyword, len(words))
		for i, w := range words {
			kws[i] = domain.Keyword{Word: w, Weight: base - float64(i)*0.1, Class: domain.ClassCommonNoun}
		}
		return domain.BookKeywords{BookID: kg.BookEntityID(id), Keywords: kws}
	}
	r := New(DefaultWeights(), log)
	r.Initialize(g, map[string]domain.BookKeywords{
		kg.BookEntityID("1"): profile("1", 0.9),
		kg.BookEntityID("2"): profile("2", 0.8),
	})

	recs, err := r.Recommend(domain.RecommendRequest{
		FavoriteBooks: []string{"Fav"},
		Strategy:      domain.StrategyKeywordOnly,
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	// The synthesized reason lists the five strongest matches and
	// stops there.
	require.NotEmpty(t, recs[0].Reasons)
	reason := recs[0].Reasons[0]
	for _, w := range words[:5] {
		assert.Contains(t, reason, w)
	}
	assert.NotContains(t, reason, "lagoon")
}

func TestRecommendTieBreakByBookID(t *testing.T) {
	log := testLog()
	g := kg.NewBuilder(log).Build([]domain.BookRecord{
		{ID: "a", Title: "Shared One", Author: "Same Author"},
		{ID: "c", Title: "Twin Two", Author: "Same Author"},
		{ID: "b", Title: "Twin One", Author: "Same Author"},
	})
	r := New(DefaultWeights(), log)
	r.Initialize(g, nil)

	recs, err := r.Recommend(domain.RecommendRequest{
		FavoriteBooks: []string{"Shared One"},
		Strategy:      domain.StrategyKGOnly,
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// Identical scores: the lower book entity ID wins.
	assert.Equal(t, "b", recs[0].BookID)
	assert.Equal(t, "c", recs[1].BookID)
}

func TestRecommendEngagementBonusAndReasons(t *testing.T) {
	log := testLog()
	// 570 favorable ratings out of 600 comments.
	ratings := make([]int, 600)
	for i := range ratings {
		if i < 570 {
			ratings[i] = 5
		} else {
			ratings[i] = 2
		}
	}
	g := kg.NewBuilder(log).Build([]domain.BookRecord{
		{ID: "1", Title: "Fav", Author: "Same Author"},
		{ID: "2", Title: "Beloved", Author: "Same Author",
			Engagement: domain.Engagement{
				Ratings:       ratings,
				TotalComments: 600,
			}},
	})
	r := New(DefaultWeights(), log)
	r.Initialize(g, nil)

	recs, err := r.Recommend(domain.RecommendRequest{
		FavoriteBooks: []string{"Fav"},
		Strategy:      domain.StrategyKGOnly,
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Greater(t, rec.Score, 0.3, "engagement bonuses on top of the author match")
	assert.InDelta(t, 4.85, rec.Rating, 1e-9)
	assert.Equal(t, 600, rec.Stats.TotalComments)
	assert.Equal(t, 570, rec.Stats.LikeCount)
	assert.InDelta(t, 0.95, rec.Stats.LikeRatio, 1e-9)

	joined := strings.Join(rec.Reasons, " | ")
	assert.Contains(t, joined, "Highly rated")
	assert.Contains(t, joined, "Loved by the readers")
	assert.Contains(t, joined, "Widely discussed")
	assert.LessOrEqual(t, len(rec.Reasons), 5)
}

func TestRecommendUnknownFavoriteIgnored(t *testing.T) {
	r := testRecommender()

	recs, err := r.Recommend(domain.RecommendRequest{
		FavoriteBooks: []string{"A Wizard of Earthsea", "An Unknown Manuscript"},
		Strategy:      domain.StrategyKGOnly,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, recs)
}

func TestRecommendValidation(t *testing.T) {
	r := testRecommender()

	_, err := r.Recommend(domain.RecommendRequest{Strategy: domain.Strategy("bogus")})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = r.Recommend(domain.RecommendRequest{Strategy: domain.StrategyMixed})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = r.Recommend(domain.RecommendRequest{
		SelectedKeywords: []string{"wizardry"},
		Strategy:         domain.StrategyKGOnly,
	})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = r.Recommend(domain.RecommendRequest{
		FavoriteBooks: []string{"A Wizard of Earthsea"},
		Strategy:      domain.StrategyMixed,
		Relations:     []domain.RelationKind{"narrator"},
	})
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestRecommendNotInitialized(t *testing.T) {
	r := New(DefaultWeights(), testLog())

	assert.False(t, r.Ready())
	_, err := r.Recommend(domain.RecommendRequest{
		SelectedKeywords: []string{"wizardry"},
		Strategy:         domain.StrategyKeywordOnly,
	})
	assert.True(t, errors.Is(err, errors.ErrUnavailable))

	_, err = r.Stats()
	assert.True(t, errors.Is(err, errors.ErrUnavailable))
}

func TestRecommendLimit(t *testing.T) {
	r := testRecommender()

	recs, err := r.Recommend(domain.RecommendRequest{
		FavoriteBooks: []string{"A Wizard of Earthsea"},
		Strategy:      domain.StrategyKGOnly,
		Limit:         1,
	})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
