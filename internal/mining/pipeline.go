package mining

import (
	"context"
	"sort"
	"strings"

	"github.com/shelfmind/shelfmind-server/internal/domain"
	"github.com/shelfmind/shelfmind-server/internal/kg"
	"github.com/shelfmind/shelfmind-server/internal/logger"
)

const (
	// tfidfTop is how many TF-IDF terms feed the merge.
	tfidfTop = 50
	// textRankTop is how many TextRank terms feed the merge.
	textRankTop = 40
	// centralityWeight scales TextRank scores when merging with TF-IDF.
	centralityWeight = 0.8
)

// Miner runs the keyword extraction pipeline over a book corpus.
type Miner struct {
	analyzer   *Analyzer
	classifier *Classifier
	workers    int
	log        *logger.Logger
}

// NewMiner creates a miner with the given worker pool size.
func NewMiner(analyzer *Analyzer, workers int, log *logger.Logger) *Miner {
	if workers < 1 {
		workers = 1
	}
	return &Miner{
		analyzer:   analyzer,
		classifier: NewClassifier(),
		workers:    workers,
		log:        log,
	}
}

// document is a tokenized book ready for scoring.
type document struct {
	entityID string
	tokens   []Token
	idioms   []string
}

// Mine extracts a keyword profile for every book with comment text.
// Books present in cached keep their cached profile and are not
// re-scored; books without comments get no profile at all. Document
// frequencies always come from the full corpus so cached and fresh
// profiles stay comparable.
func (m *Miner) Mine(ctx context.Context, records []domain.BookRecord, cached map[string]domain.BookKeywords) (map[string]domain.BookKeywords, error) {
	docs, err := m.tokenize(ctx, records)
	if err != nil {
		return nil, err
	}

	corpus := NewTFIDF()
	for _, doc := range docs {
		corpus.Add(append(Terms(doc.tokens), doc.idioms...))
	}

	profiles := make(map[string]domain.BookKeywords, len(docs))
	var pending []document
	for _, doc := range docs {
		if profile, ok := cached[doc.entityID]; ok {
			profiles[doc.entityID] = profile
			continue
		}
		pending = append(pending, doc)
	}

	mined, err := m.score(ctx, pending, corpus)
	if err != nil {
		return nil, err
	}
	for id, profile := range mined {
		profiles[id] = profile
	}

	m.log.Info("keyword mining complete",
		"books", len(docs),
		"cached", len(docs)-len(pending),
		"mined", len(mined))
	return profiles, nil
}

// tokenize runs the analyzer over every commented book in parallel.
func (m *Miner) tokenize(ctx context.Context, records []domain.BookRecord) ([]document, error) {
	type job struct {
		index int
		rec   domain.BookRecord
	}
	type result struct {
		index int
		doc   document
		skip  bool
	}

	var commented []domain.BookRecord
	for _, rec := range records {
		if len(rec.Comments) > 0 {
			commented = append(commented, rec)
		}
	}
	if len(commented) == 0 {
		return nil, nil
	}

	jobs := make(chan job, len(commented))
	results := make(chan result, len(commented))

	for range m.workers {
		go func() {
			for j := range jobs {
				select {
				case <-ctx.Done():
					results <- result{index: j.index, skip: true}
					continue
				default:
				}

				text := commentText(j.rec)
				tokens := m.analyzer.Tokenize(text)
				idioms := m.classifier.DetectIdioms(text)
				if len(tokens) == 0 && len(idioms) == 0 {
					results <- result{index: j.index, skip: true}
					continue
				}
				results <- result{index: j.index, doc: document{
					entityID: kg.BookEntityID(j.rec.ID),
					tokens:   tokens,
					idioms:   idioms,
				}}
			}
		}()
	}

	for i, rec := range commented {
		jobs <- job{index: i, rec: rec}
	}
	close(jobs)

	ordered := make([]*document, len(commented))
	for range commented {
		select {
		case r := <-results:
			if !r.skip {
				doc := r.doc
				ordered[r.index] = &doc
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs := make([]document, 0, len(commented))
	for _, doc := range ordered {
		if doc != nil {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

// commentText concatenates a record's favorably rated comments,
// falling back to all comment text when none clear the threshold.
// Keywords mined from the text of readers who liked the book describe
// it better than complaints do.
func commentText(rec domain.BookRecord) string {
	var high, all []string
	for _, c := range rec.Comments {
		all = append(all, c.Text)
		if c.HighRating() {
			high = append(high, c.Text)
		}
	}
	if len(high) > 0 {
		return strings.Join(high, "\n")
	}
	return strings.Join(all, "\n")
}

// score merges TF-IDF and TextRank rankings and filters through the
// classifier, in parallel across books.
func (m *Miner) score(ctx context.Context, docs []document, corpus *TFIDF) (map[string]domain.BookKeywords, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	jobs := make(chan document, len(docs))
	results := make(chan domain.BookKeywords, len(docs))

	for range m.workers {
		go func() {
			for doc := range jobs {
				select {
				case <-ctx.Done():
					results <- domain.BookKeywords{}
					continue
				default:
				}
				results <- m.scoreOne(doc, corpus)
			}
		}()
	}

	for _, doc := range docs {
		jobs <- doc
	}
	close(jobs)

	profiles := make(map[string]domain.BookKeywords, len(docs))
	for range docs {
		select {
		case profile := <-results:
			if profile.BookID != "" && len(profile.Keywords) > 0 {
				profiles[profile.BookID] = profile
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// scoreOne extracts the keyword profile for a single book.
func (m *Miner) scoreOne(doc document, corpus *TFIDF) domain.BookKeywords {
	terms := append(Terms(doc.tokens), doc.idioms...)

	merged := make(map[string]float64)
	for _, s := range corpus.Scores(terms, tfidfTop) {
		merged[s.Term] = s.Score
	}
	for _, s := range TextRank(terms, textRankTop) {
		merged[s.Term] += centralityWeight * s.Score
	}

	// Normalize so the strongest term weighs 1.
	max := 0.0
	for _, score := range merged {
		if score > max {
			max = score
		}
	}
	if max == 0 {
		return domain.BookKeywords{}
	}

	caps := Capitalized(doc.tokens)
	var keywords []domain.Keyword
	for term, score := range merged {
		weight := score / max
		class := m.classifier.Tag(term, caps[term])
		if !m.classifier.Accept(term, weight, class) {
			continue
		}
		keywords = append(keywords, domain.Keyword{Word: term, Weight: weight, Class: class})
	}

	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Weight != keywords[j].Weight {
			return keywords[i].Weight > keywords[j].Weight
		}
		return keywords[i].Word < keywords[j].Word
	})

	if len(keywords) == 0 {
		return domain.BookKeywords{}
	}
	return domain.BookKeywords{BookID: doc.entityID, Keywords: keywords}
}
