package recommend

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/shelfmind/shelfmind-server/internal/domain"
	"github.com/shelfmind/shelfmind-server/internal/errors"
	"github.com/shelfmind/shelfmind-server/internal/kg"
	"github.com/shelfmind/shelfmind-server/internal/logger"
)

// Recommender scores candidate books against favorites and keyword
// preferences. Initialize swaps in new artifacts atomically, so a
// rebuild can happen while requests are being served.
type Recommender struct {
	weights Weights
	log     *logger.Logger

	mu       sync.RWMutex
	graph    *kg.Graph
	keywords map[string]domain.BookKeywords
	// inverted maps keyword -> book entity IDs carrying it, so keyword
	// candidates come from the matching books only, never a corpus scan.
	inverted map[string][]string
	// titles maps folded title -> book entity IDs, for favorite
	// resolution. titleList keeps the folded titles sorted for the
	// substring fallback.
	titles    map[string][]string
	titleList []string
}

// relationLink ties a request-level relation kind to its graph edge
// type, scoring weight and reason template.
type relationLink struct {
	relType domain.RelationType
	weight  float64
	format  string
}

// New creates a recommender. It serves no requests until Initialize.
func New(weights Weights, log *logger.Logger) *Recommender {
	return &Recommender{weights: weights, log: log}
}

// Initialize installs the graph and keyword artifacts and builds the
// inverted keyword index and title lookup over them.
func (r *Recommender) Initialize(g *kg.Graph, keywords map[string]domain.BookKeywords) {
	inverted := make(map[string][]string)
	for id, profile := range keywords {
		for _, kw := range profile.Keywords {
			inverted[kw.Word] = append(inverted[kw.Word], id)
		}
	}
	for _, ids := range inverted {
		sort.Strings(ids)
	}

	titles := make(map[string][]string, len(g.Books))
	for id, rec := range g.Books {
		folded := kg.FoldName(rec.Title)
		if folded == "" {
			continue
		}
		titles[folded] = append(titles[folded], id)
	}
	titleList := make([]string, 0, len(titles))
	for folded, ids := range titles {
		sort.Strings(ids)
		titleList = append(titleList, folded)
	}
	sort.Strings(titleList)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.graph = g
	r.keywords = keywords
	r.inverted = inverted
	r.titles = titles
	r.titleList = titleList
	r.log.Info("recommender initialized",
		"books", g.Stats().Books,
		"keyword_profiles", len(keywords),
		"indexed_keywords", len(inverted))
}

// Ready reports whether artifacts have been installed.
func (r *Recommender) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.graph != nil
}

// Stats returns graph and keyword coverage figures.
func (r *Recommender) Stats() (domain.GraphStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.graph == nil {
		return domain.GraphStats{}, errors.Unavailable("recommender not initialized")
	}
	stats := r.graph.Stats()
	stats.KeywordProfiles = len(r.keywords)
	return stats, nil
}

// candidate accumulates one book's score, reasons and matched
// preference keywords across the signals.
type candidate struct {
	score   float64
	reasons []string
	matched []string
}

// Recommend returns ranked recommendations for the request. Favorites
// are never recommended back. A request whose favorites resolve to
// nothing yields an empty list, not an error.
func (r *Recommender) Recommend(req domain.RecommendRequest) ([]domain.Recommendation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.graph == nil {
		return nil, errors.Unavailable("recommender not initialized")
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	favorites := r.resolveFavorites(req.FavoriteBooks)
	// Favorites were given but none matched the catalog: an empty
	// result, never a fallback onto the other signals.
	if len(req.FavoriteBooks) > 0 && len(favorites) == 0 {
		return nil, nil
	}

	exclude := make(map[string]struct{}, len(favorites))
	for _, fav := range favorites {
		exclude[fav] = struct{}{}
	}

	cands := make(map[string]*candidate)
	get := func(id string) *candidate {
		c, ok := cands[id]
		if !ok {
			c = &candidate{}
			cands[id] = c
		}
		return c
	}

	if req.Strategy != domain.StrategyKeywordOnly {
		r.scoreRelations(favorites, relationKinds(req.Relations), exclude, get)
	}

	if req.Strategy != domain.StrategyKGOnly {
		prefs := r.buildPreferences(favorites, req.SelectedKeywords)
		multiplier := 1.0
		if req.Strategy == domain.StrategyMixed {
			multiplier = r.weights.MixedKeywordDamping
		}
		for _, pref := range prefs {
			for _, id := range r.inverted[pref.word] {
				if _, skip := exclude[id]; skip {
					continue
				}
				c := get(id)
				c.score += pref.weight * multiplier
				c.matched = append(c.matched, pref.word)
			}
		}
	}

	recs := make([]domain.Recommendation, 0, len(cands))
	for id, c := range cands {
		if c.score <= 0 {
			continue
		}
		recs = append(recs, r.finishCandidate(id, c, req.Strategy))
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].BookID < recs[j].BookID
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func validateRequest(req domain.RecommendRequest) error {
	if !req.Strategy.IsValid() {
		return errors.Validationf("unknown strategy %q", req.Strategy)
	}
	for _, rel := range req.Relations {
		if !rel.IsValid() {
			return errors.Validationf("unknown relation %q", rel)
		}
	}
	if len(req.FavoriteBooks) == 0 && len(req.SelectedKeywords) == 0 {
		return errors.Validation("at least one favorite book or keyword is required")
	}
	if req.Strategy == domain.StrategyKGOnly && len(req.FavoriteBooks) == 0 {
		return errors.Validation("kg_only strategy requires favorite books")
	}
	return nil
}

// relationKinds expands an empty request set to all kinds and drops
// duplicates, preserving order.
func relationKinds(kinds []domain.RelationKind) []domain.RelationKind {
	if len(kinds) == 0 {
		return domain.AllRelationKinds()
	}
	seen := make(map[domain.RelationKind]struct{}, len(kinds))
	var out []domain.RelationKind
	for _, k := range kinds {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// resolveFavorites matches favorite titles to book entity IDs:
// case-folded exact match first, then substring in either direction.
// Unmatched titles are skipped with a warning.
func (r *Recommender) resolveFavorites(names []string) []string {
	var favorites []string
	seen := make(map[string]struct{})
	for _, name := range names {
		folded := kg.FoldName(name)
		if folded == "" {
			continue
		}
		ids := r.titles[folded]
		if len(ids) == 0 {
			ids = r.titleSubstringMatch(folded)
		}
		if len(ids) == 0 {
			r.log.Warn("favorite did not match any book", "title", name)
			continue
		}
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			favorites = append(favorites, id)
		}
	}
	return favorites
}

// titleSubstringMatch returns the books behind the first stored title
// that contains, or is contained in, the query.
func (r *Recommender) titleSubstringMatch(folded string) []string {
	for _, title := range r.titleList {
		if strings.Contains(title, folded) || strings.Contains(folded, title) {
			return r.titles[title]
		}
	}
	return nil
}

// scoreRelations adds the graph signal: every book sharing a neighbor
// with a favorite over an enabled relation gains that relation's
// weight plus a reason naming the shared entity.
func (r *Recommender) scoreRelations(favorites []string, kinds []domain.RelationKind, exclude map[string]struct{}, get func(string) *candidate) {
	for _, fav := range favorites {
		favTitle := r.graph.Books[fav].Title
		for _, kind := range kinds {
			link := r.linkFor(kind)
			for _, neighborID := range r.graph.Neighbors(fav, link.relType) {
				neighbor, ok := r.graph.Entity(neighborID)
				if !ok {
					continue
				}
				for _, other := range r.graph.Neighbors(neighborID, link.relType.Reciprocal()) {
					if _, skip := exclude[other]; skip {
						continue
					}
					c := get(other)
					c.score += link.weight
					c.reasons = append(c.reasons, fmt.Sprintf(link.format, neighbor.Name, favTitle))
				}
			}
		}
	}
}

func (r *Recommender) linkFor(kind domain.RelationKind) relationLink {
	switch kind {
	case domain.RelationSeries:
		return relationLink{domain.RelBelongsTo, r.weights.SameSeries, "Part of the %s series, like %q"}
	case domain.RelationAuthor:
		return relationLink{domain.RelWrittenBy, r.weights.SameAuthor, "By %s, who also wrote %q"}
	case domain.RelationTranslator:
		return relationLink{domain.RelTranslatedBy, r.weights.SameTranslator, "Translated by %s, like %q"}
	default:
		return relationLink{domain.RelPublishedBy, r.weights.SamePublisher, "From publisher %s, like %q"}
	}
}

// preference is one weighted keyword of the caller's taste profile.
type preference struct {
	word   string
	weight float64
}

// buildPreferences produces the ranked preference profile. With
// selected keywords the profile is exactly those words, each keeping
// its aggregated weight from the favorites' profiles or falling back
// to defaultSelectedWeight. Without, it is the strongest
// preferenceTop words across the favorites.
func (r *Recommender) buildPreferences(favorites []string, selected []string) []preference {
	acc := make(map[string]float64)
	for _, fav := range favorites {
		for _, kw := range r.keywords[fav].Keywords {
			acc[kw.Word] += kw.Weight
		}
	}

	var prefs []preference
	if len(selected) > 0 {
		seen := make(map[string]struct{}, len(selected))
		for _, word := range selected {
			word = kg.FoldName(word)
			if word == "" {
				continue
			}
			if _, dup := seen[word]; dup {
				continue
			}
			seen[word] = struct{}{}
			weight, ok := acc[word]
			if !ok {
				weight = defaultSelectedWeight
			}
			prefs = append(prefs, preference{word, weight})
		}
	} else {
		prefs = make([]preference, 0, len(acc))
		for word, weight := range acc {
			prefs = append(prefs, preference{word, weight})
		}
	}

	sort.Slice(prefs, func(i, j int) bool {
		if prefs[i].weight != prefs[j].weight {
			return prefs[i].weight > prefs[j].weight
		}
		return prefs[i].word < prefs[j].word
	})
	if len(prefs) > preferenceTop {
		prefs = prefs[:preferenceTop]
	}
	return prefs
}

// finishCandidate applies the engagement boosts, orders the reasons
// and assembles the returned recommendation.
func (r *Recommender) finishCandidate(id string, c *candidate, strategy domain.Strategy) domain.Recommendation {
	matched := matchedForDisplay(c.matched)
	if len(matched) >= minKeywordMatches {
		sample := matched
		if len(sample) > keywordReasonSample {
			sample = sample[:keywordReasonSample]
		}
		reason := fmt.Sprintf("Matches keywords you like: %s", strings.Join(sample, ", "))
		if strategy == domain.StrategyKeywordOnly {
			c.reasons = append([]string{reason}, c.reasons...)
		} else {
			c.reasons = append(c.reasons, reason)
		}
	}

	snapshot := r.graph.Books[id]
	engagement := snapshot.Engagement

	c.score += engagement.AverageRating() / 5 * r.weights.Rating
	c.score += engagement.Popularity() * r.weights.Popularity

	avg := engagement.AverageRating()
	switch {
	case avg >= ratingReasonThreshold:
		c.reasons = append(c.reasons, fmt.Sprintf("Highly rated by readers (%.1f/5)", avg))
	case avg >= consistentReasonThreshold:
		c.reasons = append(c.reasons, fmt.Sprintf("Consistently well rated (%.1f/5)", avg))
	}
	if engagement.LikeRatio() > lovedRatioThreshold && engagement.TotalComments > lovedMinComments {
		c.reasons = append(c.reasons, "Loved by the readers who reviewed it")
	}
	if engagement.TotalComments > discussedMinComments {
		c.reasons = append(c.reasons, "Widely discussed")
	}

	reasons := dedupeReasons(c.reasons)
	if len(matched) > maxMatchedKeywords {
		matched = matched[:maxMatchedKeywords]
	}

	return domain.Recommendation{
		BookID:          snapshot.ID,
		Title:           snapshot.Title,
		Author:          snapshot.Author,
		Rating:          avg,
		Score:           c.score,
		Reasons:         reasons,
		Keywords:        r.keywords[id].TopWords(profileKeywordSlice),
		MatchedKeywords: matched,
		Stats:           engagement.Stats(),
		Explanation:     buildExplanation(snapshot.Title, avg, reasons),
	}
}

// matchedForDisplay drops matches too short to read as words.
func matchedForDisplay(matched []string) []string {
	var out []string
	for _, word := range matched {
		if utf8.RuneCountInString(word) >= 2 {
			out = append(out, word)
		}
	}
	return out
}

// dedupeReasons removes duplicates preserving order and caps the list.
func dedupeReasons(reasons []string) []string {
	seen := make(map[string]struct{}, len(reasons))
	var out []string
	for _, reason := range reasons {
		if _, dup := seen[reason]; dup {
			continue
		}
		seen[reason] = struct{}{}
		out = append(out, reason)
		if len(out) == maxReasons {
			break
		}
	}
	return out
}

// buildExplanation renders the reasons as a short numbered narrative.
func buildExplanation(title string, rating float64, reasons []string) string {
	if len(reasons) == 0 {
		return fmt.Sprintf("Recommended as a close match to your favorites: %q.", title)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Recommending %q (rating %.1f/5) because:", title, rating)
	for i, reason := range reasons {
		fmt.Fprintf(&b, "\n%d. %s", i+1, reason)
	}
	return b.String()
}
