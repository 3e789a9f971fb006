// Package recommend scores candidate books against a caller's
// favorites and keyword tastes, producing ranked, explained
// recommendations.
package recommend

// Weights are the scoring knobs. The defaults are tuned so a shared
// series outweighs a shared author, which outweighs translator and
// publisher, and engagement signals only nudge the ranking.
type Weights struct {
	SameSeries     float64
	SameAuthor     float64
	SameTranslator float64
	SamePublisher  float64

	// MixedKeywordDamping scales keyword scores when combined with
	// graph scores, so neither signal drowns the other.
	MixedKeywordDamping float64

	// Rating scales the average-rating bonus.
	Rating float64
	// Popularity scales the engagement bonus.
	Popularity float64
}

// DefaultWeights returns the standard scoring configuration.
func DefaultWeights() Weights {
	return Weights{
		SameSeries:          0.4,
		SameAuthor:          0.3,
		SameTranslator:      0.2,
		SamePublisher:       0.15,
		MixedKeywordDamping: 0.5,
		Rating:              0.15,
		Popularity:          0.05,
	}
}

const (
	// preferenceTop caps the keyword preference profile size.
	preferenceTop = 50
	// defaultSelectedWeight is assigned to caller-picked keywords that
	// never appear in any favorite's profile.
	defaultSelectedWeight = 0.5
	// minKeywordMatches is how many preference keywords a candidate
	// must share before a keyword reason is worth showing.
	minKeywordMatches = 3
	// keywordReasonSample is how many matched keywords the synthesized
	// reason lists.
	keywordReasonSample = 5
	// maxReasons caps the explanation list per recommendation.
	maxReasons = 5
	// maxMatchedKeywords caps the matched-keyword list per recommendation.
	maxMatchedKeywords = 10
	// profileKeywordSlice is how much of a book's own profile each
	// recommendation carries.
	profileKeywordSlice = 10

	// defaultLimit and maxLimit bound the result count.
	defaultLimit = 10
	maxLimit     = 100

	// ratingReasonThreshold is the average rating (out of 5) that
	// earns an explicit "highly rated" reason.
	ratingReasonThreshold = 4.25
	// consistentReasonThreshold earns the softer rating reason.
	consistentReasonThreshold = 4.0
	// lovedRatioThreshold and lovedMinComments gate the like-ratio reason.
	lovedRatioThreshold = 0.7
	lovedMinComments    = 50
	// discussedMinComments gates the comment-volume reason.
	discussedMinComments = 500
)
