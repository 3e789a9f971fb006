package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy or unhealthy"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	components := make(map[string]ComponentHealth)
	overall := "healthy"

	if s.catalog.Ready() {
		components["catalog"] = ComponentHealth{Status: "healthy"}
	} else {
		components["catalog"] = ComponentHealth{Status: "unhealthy", Message: "artifacts not loaded, run a build"}
		overall = "unhealthy"
	}

	if s.recommender.Ready() {
		components["recommender"] = ComponentHealth{Status: "healthy"}
	} else {
		components["recommender"] = ComponentHealth{Status: "unhealthy", Message: "not initialized"}
		overall = "unhealthy"
	}

	if count, err := s.searchIndex.DocumentCount(); err != nil {
		components["search"] = ComponentHealth{Status: "unhealthy", Message: err.Error()}
		overall = "unhealthy"
	} else if count == 0 {
		components["search"] = ComponentHealth{Status: "healthy", Message: "index is empty"}
	} else {
		components["search"] = ComponentHealth{Status: "healthy"}
	}

	return &HealthOutput{Body: HealthResponse{Status: overall, Components: components}}, nil
}
