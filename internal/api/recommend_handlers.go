package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmind/shelfmind-server/internal/domain"
)

func (s *Server) registerRecommendRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "recommend",
		Method:      http.MethodPost,
		Path:        "/api/v1/recommend",
		Summary:     "Get recommendations",
		Description: "Returns ranked, explained book recommendations for the given favorites and keywords",
		Tags:        []string{"Recommendations"},
	}, s.handleRecommend)
}

// RecommendRequest is the recommendation request body.
type RecommendRequest struct {
	FavoriteBooks    []string `json:"favorite_books,omitempty" validate:"max=50,dive,min=1,max=256" doc:"Titles of books the reader already loves"`
	SelectedKeywords []string `json:"selected_keywords,omitempty" validate:"max=20,dive,min=1,max=64" doc:"Keywords the reader picked"`
	Strategy         string   `json:"strategy,omitempty" validate:"omitempty,oneof=mixed kg_only keyword_only" doc:"Scoring strategy, defaults to mixed"`
	Relations        []string `json:"relations,omitempty" validate:"max=4,dive,oneof=series author translator publisher" doc:"Relation classes for graph scoring, defaults to all"`
	Limit            int      `json:"limit,omitempty" validate:"gte=0,lte=100" doc:"Maximum results, defaults to 10"`
}

// RecommendInput wraps the request body for Huma.
type RecommendInput struct {
	Body RecommendRequest
}

// RecommendResponse carries the ranked recommendations.
type RecommendResponse struct {
	Strategy        string                  `json:"strategy"`
	Recommendations []domain.Recommendation `json:"recommendations"`
}

// RecommendOutput wraps the response for Huma.
type RecommendOutput struct {
	Body RecommendResponse
}

func (s *Server) handleRecommend(_ context.Context, input *RecommendInput) (*RecommendOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, huma.Error400BadRequest("invalid request", err)
	}

	strategy := domain.Strategy(input.Body.Strategy)
	if strategy == "" {
		strategy = domain.StrategyMixed
	}

	relations := make([]domain.RelationKind, 0, len(input.Body.Relations))
	for _, rel := range input.Body.Relations {
		relations = append(relations, domain.RelationKind(rel))
	}

	recs, err := s.recommender.Recommend(domain.RecommendRequest{
		FavoriteBooks:    input.Body.FavoriteBooks,
		SelectedKeywords: input.Body.SelectedKeywords,
		Strategy:         strategy,
		Relations:        relations,
		Limit:            input.Body.Limit,
	})
	if err != nil {
		return nil, huma.Error400BadRequest("recommendation failed", err)
	}

	if recs == nil {
		recs = []domain.Recommendation{}
	}
	return &RecommendOutput{Body: RecommendResponse{
		Strategy:        strategy.String(),
		Recommendations: recs,
	}}, nil
}
