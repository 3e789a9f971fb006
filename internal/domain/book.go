// Package domain contains the core business entities for the Shelfmind recommendation engine.
package domain

import "math"

// BookRecord is a raw book row pulled from the source export, with the
// engagement figures already aggregated from its comments.
type BookRecord struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author,omitempty"`
	Translator  string     `json:"translator,omitempty"`
	Publisher   string     `json:"publisher,omitempty"`
	Series      string     `json:"series,omitempty"`
	Description string     `json:"description,omitempty"`
	Comments    []Comment  `json:"comments,omitempty"`
	Engagement  Engagement `json:"engagement"`
}

// Comment is one reader review with its parsed rating score, zero when
// the export carried none.
type Comment struct {
	Text   string `json:"text"`
	Rating int    `json:"rating,omitempty"`
}

// HighRating reports whether the comment's rating clears the
// favorable threshold.
func (c Comment) HighRating() bool {
	return c.Rating >= HighRatingThreshold
}

// Engagement aggregates reader feedback for one book.
type Engagement struct {
	Ratings       []int `json:"ratings,omitempty"`
	TotalComments int   `json:"total_comments"`
}

// HighRatingThreshold marks a rating as favorable.
const HighRatingThreshold = 4

// AverageRating returns the mean of all ratings, zero when unrated.
func (e Engagement) AverageRating() float64 {
	if len(e.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range e.Ratings {
		sum += r
	}
	return float64(sum) / float64(len(e.Ratings))
}

// HighRatingCount counts ratings at or above the favorable threshold.
func (e Engagement) HighRatingCount() int {
	n := 0
	for _, r := range e.Ratings {
		if r >= HighRatingThreshold {
			n++
		}
	}
	return n
}

// LikeRatio returns the share of comments carrying a favorable rating,
// zero when nobody commented.
func (e Engagement) LikeRatio() float64 {
	if e.TotalComments == 0 {
		return 0
	}
	return float64(e.HighRatingCount()) / float64(e.TotalComments)
}

// Popularity scales comment volume by sentiment: log1p of the comment
// count, boosted by the favorable-rating ratio. A book nobody
// commented on scores zero.
func (e Engagement) Popularity() float64 {
	return math.Log1p(float64(e.TotalComments)) * (1 + e.LikeRatio())
}

// Stats flattens the engagement figures into the shape returned by the
// API and attached to recommendations.
func (e Engagement) Stats() CommentStats {
	return CommentStats{
		TotalComments: e.TotalComments,
		LikeCount:     e.HighRatingCount(),
		LikeRatio:     e.LikeRatio(),
		AvgRating:     e.AverageRating(),
	}
}
