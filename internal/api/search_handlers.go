package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmind/shelfmind-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search books",
		Description: "Typeahead search over titles, authors, series, and mined keywords",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// SearchInput carries the typeahead query.
type SearchInput struct {
	Query string `query:"q" minLength:"1" maxLength:"128" doc:"Search query"`
	Limit int    `query:"limit" minimum:"0" maximum:"50" doc:"Maximum results, defaults to 10"`
}

// SearchResponse carries typeahead hits.
type SearchResponse struct {
	Query string       `json:"query"`
	Hits  []search.Hit `json:"hits"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	hits, err := s.searchIndex.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("search failed", err)
	}
	if hits == nil {
		hits = []search.Hit{}
	}
	return &SearchOutput{Body: SearchResponse{Query: input.Query, Hits: hits}}, nil
}
