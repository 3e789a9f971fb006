package domain

// Strategy selects which signals drive a recommendation request.
type Strategy string

const (
	// StrategyMixed combines graph relations with keyword preferences.
	StrategyMixed Strategy = "mixed"
	// StrategyKGOnly scores purely on shared graph relations.
	StrategyKGOnly Strategy = "kg_only"
	// StrategyKeywordOnly scores purely on keyword preference overlap.
	StrategyKeywordOnly Strategy = "keyword_only"
)

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	return string(s)
}

// IsValid checks if the strategy is a recognized value.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyMixed, StrategyKGOnly, StrategyKeywordOnly:
		return true
	default:
		return false
	}
}

// RelationKind names a relation class a caller can enable for graph
// scoring.
type RelationKind string

const (
	RelationSeries     RelationKind = "series"
	RelationAuthor     RelationKind = "author"
	RelationTranslator RelationKind = "translator"
	RelationPublisher  RelationKind = "publisher"
)

// IsValid checks if the relation kind is a recognized value.
func (k RelationKind) IsValid() bool {
	switch k {
	case RelationSeries, RelationAuthor, RelationTranslator, RelationPublisher:
		return true
	default:
		return false
	}
}

// AllRelationKinds returns every relation kind, the default set when a
// request names none.
func AllRelationKinds() []RelationKind {
	return []RelationKind{RelationSeries, RelationAuthor, RelationTranslator, RelationPublisher}
}

// RecommendRequest carries the caller's taste signals. Favorites are
// book titles, matched case-insensitively with a substring fallback.
type RecommendRequest struct {
	FavoriteBooks    []string       `json:"favorite_books,omitempty"`
	SelectedKeywords []string       `json:"selected_keywords,omitempty"`
	Strategy         Strategy       `json:"strategy"`
	Relations        []RelationKind `json:"relations,omitempty"`
	Limit            int            `json:"limit"`
}

// CommentStats summarizes reader engagement for one book.
type CommentStats struct {
	TotalComments int     `json:"total_comments"`
	LikeCount     int     `json:"like_count"`
	LikeRatio     float64 `json:"like_ratio"`
	AvgRating     float64 `json:"avg_rating"`
}

// Recommendation is one scored, explained candidate book.
type Recommendation struct {
	BookID          string       `json:"book_id"`
	Title           string       `json:"title"`
	Author          string       `json:"author,omitempty"`
	Rating          float64      `json:"rating"`
	Score           float64      `json:"score"`
	Reasons         []string     `json:"reasons"`
	Keywords        []string     `json:"keywords,omitempty"`
	MatchedKeywords []string     `json:"matched_keywords,omitempty"`
	Stats           CommentStats `json:"stats"`
	Explanation     string       `json:"explanation"`
}

// GraphStats summarizes the built knowledge graph.
type GraphStats struct {
	Books       int `json:"books"`
	Authors     int `json:"authors"`
	Translators int `json:"translators"`
	Publishers  int `json:"publishers"`
	Series      int `json:"series"`
	Relations   int `json:"relations"`
	// KeywordProfiles is the number of books with a mined keyword profile.
	KeywordProfiles int `json:"keyword_profiles"`
}
