package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmind/shelfmind-server/internal/domain"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book record with its engagement figures",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookKeywords",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/keywords",
		Summary:     "Get book keywords",
		Description: "Returns the mined keyword profile for a book",
		Tags:        []string{"Books"},
	}, s.handleGetBookKeywords)

	huma.Register(s.api, huma.Operation{
		OperationID: "getStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Get engine stats",
		Description: "Returns knowledge graph entity counts and keyword coverage",
		Tags:        []string{"Stats"},
	}, s.handleGetStats)
}

// BookInput identifies a book by path parameter.
type BookInput struct {
	ID string `path:"id" maxLength:"128" doc:"Book ID"`
}

// BookResponse carries a book record with its one-hop graph neighbors.
type BookResponse struct {
	Book    domain.BookRecord          `json:"book"`
	Related map[string][]domain.Entity `json:"related"`
}

// BookOutput wraps a book response for Huma.
type BookOutput struct {
	Body BookResponse
}

func (s *Server) handleGetBook(_ context.Context, input *BookInput) (*BookOutput, error) {
	rec, err := s.catalog.Book(input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("book not found", err)
	}
	related, err := s.catalog.Related(input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("book not found", err)
	}
	if related == nil {
		related = map[string][]domain.Entity{}
	}
	return &BookOutput{Body: BookResponse{Book: rec, Related: related}}, nil
}

// KeywordsResponse carries a book's mined keywords with its
// engagement figures.
type KeywordsResponse struct {
	BookID     string              `json:"book_id"`
	Keywords   []domain.Keyword    `json:"keywords"`
	Stats      domain.CommentStats `json:"stats"`
	Popularity float64             `json:"popularity"`
}

// KeywordsOutput wraps the keyword profile for Huma.
type KeywordsOutput struct {
	Body KeywordsResponse
}

func (s *Server) handleGetBookKeywords(_ context.Context, input *BookInput) (*KeywordsOutput, error) {
	profile, err := s.catalog.Keywords(input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("book not found", err)
	}
	rec, err := s.catalog.Book(input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("book not found", err)
	}
	keywords := profile.Keywords
	if keywords == nil {
		keywords = []domain.Keyword{}
	}
	return &KeywordsOutput{Body: KeywordsResponse{
		BookID:     input.ID,
		Keywords:   keywords,
		Stats:      rec.Engagement.Stats(),
		Popularity: rec.Engagement.Popularity(),
	}}, nil
}

// StatsOutput wraps the engine stats for Huma.
type StatsOutput struct {
	Body domain.GraphStats
}

func (s *Server) handleGetStats(_ context.Context, _ *struct{}) (*StatsOutput, error) {
	stats, err := s.catalog.Stats()
	if err != nil {
		return nil, huma.Error503ServiceUnavailable("engine not ready", err)
	}
	return &StatsOutput{Body: stats}, nil
}
