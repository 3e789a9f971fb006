// Package di provides dependency injection configuration for the Shelfmind server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/shelfmind/shelfmind-server/internal/config"
	"github.com/shelfmind/shelfmind-server/internal/di/providers"
	"github.com/shelfmind/shelfmind-server/internal/kg"
	"github.com/shelfmind/shelfmind-server/internal/logger"
	"github.com/shelfmind/shelfmind-server/internal/mining"
	"github.com/shelfmind/shelfmind-server/internal/recommend"
	"github.com/shelfmind/shelfmind-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// Providers are lazy; the API server and the build command each invoke
// only the slice of the graph they need.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideReader)
	do.Provide(injector, providers.ProvideArtifacts)

	// Build pipeline
	do.Provide(injector, providers.ProvideBuilder)
	do.Provide(injector, providers.ProvideAnalyzer)
	do.Provide(injector, providers.ProvideMiner)
	do.Provide(injector, providers.ProvideBuildService)

	// Serving layer
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvideRecommender)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes the API server services and starts the HTTP
// listener. This triggers lazy initialization of the serving slice of
// the container; the build pipeline stays untouched.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.Artifacts](injector)
	_ = do.MustInvoke[*service.Catalog](injector)
	_ = do.MustInvoke[*recommend.Recommender](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	providers.ReindexIfNeeded(injector)

	return nil
}

// BootstrapBuild initializes the ingest and mining pipeline for the
// build command.
func BootstrapBuild(injector *do.RootScope) (*service.Build, error) {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.ReaderHandle](injector)
	_ = do.MustInvoke[*kg.Builder](injector)
	_ = do.MustInvoke[*mining.Analyzer](injector)
	_ = do.MustInvoke[*mining.Miner](injector)

	return do.MustInvoke[*service.Build](injector), nil
}
