// Package search provides typeahead search over the book catalog,
// backed by a Bleve index that rebuilds itself when the mapping
// changes.
package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/shelfmind/shelfmind-server/internal/domain"
	"github.com/shelfmind/shelfmind-server/internal/kg"
	"github.com/shelfmind/shelfmind-server/internal/logger"
)

// mappingVersion is incremented whenever the index mapping changes.
// A mismatch on startup triggers an automatic rebuild.
const mappingVersion = "1"

// Index wraps a Bleve index with catalog-specific operations.
// All public methods are safe for concurrent use.
type Index struct {
	index bleve.Index
	path  string
	log   *logger.Logger
	mu    sync.RWMutex
}

// Options configures the search index.
type Options struct {
	DataPath string
	Logger   *logger.Logger
}

// New creates or opens a search index under DataPath. An index with a
// missing or mismatched mapping version is removed and recreated.
func New(opts Options) (*Index, error) {
	indexPath := filepath.Join(opts.DataPath, "books.bleve")
	versionPath := filepath.Join(opts.DataPath, "books.version")

	var (
		index        bleve.Index
		err          error
		needsRebuild bool
	)

	indexExists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		indexExists = true
	}

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath)
		if readErr != nil {
			opts.Logger.Info("search index has no version file, rebuilding",
				"new_version", mappingVersion)
			needsRebuild = true
		} else if string(existingVersion) != mappingVersion {
			opts.Logger.Info("search index mapping version changed, rebuilding",
				"old_version", string(existingVersion),
				"new_version", mappingVersion)
			needsRebuild = true
		}
	}

	if !needsRebuild && indexExists {
		index, err = bleve.Open(indexPath)
		if err != nil {
			opts.Logger.Warn("failed to open existing search index, recreating",
				"path", indexPath, "error", err)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	if index == nil {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); writeErr != nil {
			opts.Logger.Warn("failed to write search version file", "error", writeErr)
		}
		opts.Logger.Info("created search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		opts.Logger.Info("opened search index", "path", indexPath)
	}

	return &Index{index: index, path: indexPath, log: opts.Logger}, nil
}

// NewInMemory creates a non-persistent index, used in tests.
func NewInMemory(log *logger.Logger) (*Index, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create in-memory index: %w", err)
	}
	return &Index{index: index, log: log}, nil
}

// Close closes the index and releases resources.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexBooks indexes the catalog in batches. profiles supplies the
// mined keywords per book entity ID; books without a profile are
// indexed on metadata alone.
func (s *Index) IndexBooks(records []domain.BookRecord, profiles map[string]domain.BookKeywords) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	const batchSize = 500

	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}

		batch := s.index.NewBatch()
		for _, rec := range records[i:end] {
			if err := batch.Index(rec.ID, bookDocument(rec, profiles)); err != nil {
				return fmt.Errorf("batch index %s: %w", rec.ID, err)
			}
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	s.log.Info("indexed catalog for search", "books", len(records))
	return nil
}

// bookDocument flattens a record into the indexed field map.
func bookDocument(rec domain.BookRecord, profiles map[string]domain.BookKeywords) map[string]any {
	doc := map[string]any{
		"title":  rec.Title,
		"author": rec.Author,
		"series": rec.Series,
	}
	if profile, ok := profiles[kg.BookEntityID(rec.ID)]; ok {
		words := make([]string, 0, len(profile.Keywords))
		for _, kw := range profile.Keywords {
			words = append(words, kw.Word)
		}
		doc["keywords"] = words
	}
	return doc
}

// DocumentCount returns the total number of indexed books.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Hit is one typeahead result.
type Hit struct {
	BookID string  `json:"book_id"`
	Title  string  `json:"title"`
	Author string  `json:"author,omitempty"`
	Series string  `json:"series,omitempty"`
	Score  float64 `json:"score"`
}

// Search runs a typeahead query: title matches beat author and series
// matches, with a prefix query catching partially typed words, and
// mined keywords matching exactly.
func (s *Index) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	titleMatch := bleve.NewMatchQuery(query)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)

	authorMatch := bleve.NewMatchQuery(query)
	authorMatch.SetField("author")
	authorMatch.SetBoost(2.0)

	seriesMatch := bleve.NewMatchQuery(query)
	seriesMatch.SetField("series")
	seriesMatch.SetBoost(1.5)

	titlePrefix := bleve.NewPrefixQuery(strings.ToLower(query))
	titlePrefix.SetField("title")
	titlePrefix.SetBoost(0.5)

	keywordTerm := bleve.NewTermQuery(strings.ToLower(query))
	keywordTerm.SetField("keywords")

	searchQuery := bleve.NewDisjunctionQuery(
		titleMatch, authorMatch, seriesMatch, titlePrefix, keywordTerm)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, limit, 0, false)
	searchRequest.Fields = []string{"title", "author", "series"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	hits := make([]Hit, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		h := Hit{BookID: hit.ID, Score: hit.Score}
		if title, ok := hit.Fields["title"].(string); ok {
			h.Title = title
		}
		if author, ok := hit.Fields["author"].(string); ok {
			h.Author = author
		}
		if series, ok := hit.Fields["series"].(string); ok {
			h.Series = series
		}
		hits = append(hits, h)
	}
	return hits, nil
}
