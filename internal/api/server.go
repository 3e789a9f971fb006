// Package api provides the HTTP API server for the Shelfmind
// recommendation engine.
package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelfmind/shelfmind-server/internal/logger"
	"github.com/shelfmind/shelfmind-server/internal/recommend"
	"github.com/shelfmind/shelfmind-server/internal/search"
	"github.com/shelfmind/shelfmind-server/internal/service"
	"github.com/shelfmind/shelfmind-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	catalog     *service.Catalog
	recommender *recommend.Recommender
	searchIndex *search.Index
	validator   *validation.Validator
	router      *chi.Mux
	api         huma.API
	log         *logger.Logger
}

// Options configures the server.
type Options struct {
	Catalog     *service.Catalog
	Recommender *recommend.Recommender
	SearchIndex *search.Index
	Logger      *logger.Logger
	// RecommendRPM limits recommendation requests per client IP per
	// minute. Zero disables the limiter.
	RecommendRPM int
}

// NewServer creates an HTTP server with all routes configured.
func NewServer(opts Options) *Server {
	s := &Server{
		catalog:     opts.Catalog,
		recommender: opts.Recommender,
		searchIndex: opts.SearchIndex,
		validator:   validation.New(),
		router:      chi.NewRouter(),
		log:         opts.Logger,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if opts.RecommendRPM > 0 {
		limiter := NewRateLimiter(opts.RecommendRPM, time.Minute, opts.RecommendRPM/2+1)
		s.router.Use(RateLimitMiddleware(limiter, "/api/v1/recommend", opts.Logger))
	}

	humaConfig := huma.DefaultConfig("Shelfmind API", "1.0.0")
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerRecommendRoutes()
	s.registerBookRoutes()
	s.registerSearchRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
